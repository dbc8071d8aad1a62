package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrTokenNotFound = errors.New("token not found")
	ErrUnavailable   = errors.New("redis unavailable")
)

const (
	sessionKeyPrefix = "session:profile:token"
	codeKeyPrefix    = "email:code"
)

// SessionStore keeps the single active access token per profile, which makes
// sign-out real despite stateless JWTs.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

func sessionKey(profileID string) string {
	return fmt.Sprintf("%s:%s", sessionKeyPrefix, profileID)
}

func (s *SessionStore) Put(ctx context.Context, profileID, token string) error {
	if err := s.client.Set(ctx, sessionKey(profileID), token, s.ttl).Err(); err != nil {
		return ErrUnavailable
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, profileID string) (string, error) {
	token, err := s.client.Get(ctx, sessionKey(profileID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrTokenNotFound
	}
	if err != nil {
		return "", ErrUnavailable
	}
	return token, nil
}

// Extend slides the session expiry after a successfully authenticated request.
func (s *SessionStore) Extend(ctx context.Context, profileID string) error {
	if err := s.client.Expire(ctx, sessionKey(profileID), s.ttl).Err(); err != nil {
		return ErrUnavailable
	}
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, profileID string) error {
	if err := s.client.Del(ctx, sessionKey(profileID)).Err(); err != nil {
		return ErrUnavailable
	}
	return nil
}

// CodeStore holds short-lived email verification codes.
type CodeStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCodeStore(client *redis.Client, ttl time.Duration) *CodeStore {
	return &CodeStore{client: client, ttl: ttl}
}

func codeKey(purpose, email string) string {
	return fmt.Sprintf("%s:%s:%s", codeKeyPrefix, purpose, email)
}

func (s *CodeStore) Put(ctx context.Context, purpose, email, code string) error {
	if err := s.client.Set(ctx, codeKey(purpose, email), code, s.ttl).Err(); err != nil {
		return ErrUnavailable
	}
	return nil
}

func (s *CodeStore) Get(ctx context.Context, purpose, email string) (string, error) {
	code, err := s.client.Get(ctx, codeKey(purpose, email)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrTokenNotFound
	}
	if err != nil {
		return "", ErrUnavailable
	}
	return code, nil
}

func (s *CodeStore) Delete(ctx context.Context, purpose, email string) error {
	if err := s.client.Del(ctx, codeKey(purpose, email)).Err(); err != nil {
		return ErrUnavailable
	}
	return nil
}
