package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	cfgpkg "github.com/comunidadhq/backend/pkg/config"
)

var (
	ErrTokenInvalid   = errors.New("token invalid")
	ErrTokenExpired   = errors.New("token expired")
	ErrRefreshInvalid = errors.New("refresh token invalid")
)

type Claims struct {
	ProfileID string `json:"profile_id"`
	jwt.RegisteredClaims
}

// Pair is an access/refresh token pair returned to clients on login.
type Pair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// TokenIssuer signs and parses the JWT pairs backing sessions.
type TokenIssuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewTokenIssuer(cfg *cfgpkg.Config) *TokenIssuer {
	return &TokenIssuer{
		accessSecret:  []byte(cfg.JWT.AccessSecret),
		refreshSecret: []byte(cfg.JWT.RefreshSecret),
		accessTTL:     cfg.JWT.AccessTTL,
		refreshTTL:    cfg.JWT.RefreshTTL,
	}
}

func (i *TokenIssuer) GeneratePair(profileID string) (*Pair, error) {
	now := time.Now()

	access := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		ProfileID: profileID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.accessTTL)),
			Subject:   "access",
		},
	})
	accessToken, err := access.SignedString(i.accessSecret)
	if err != nil {
		return nil, err
	}

	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		ProfileID: profileID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.refreshTTL)),
			Subject:   "refresh",
		},
	})
	refreshToken, err := refresh.SignedString(i.refreshSecret)
	if err != nil {
		return nil, err
	}

	return &Pair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (i *TokenIssuer) parse(tokenStr string, secret []byte, subject string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return secret, nil
	})
	if errors.Is(err, jwt.ErrTokenExpired) {
		return nil, ErrTokenExpired
	}
	if err != nil || !token.Valid || claims.Subject != subject || claims.ProfileID == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func (i *TokenIssuer) ParseAccess(tokenStr string) (*Claims, error) {
	return i.parse(tokenStr, i.accessSecret, "access")
}

func (i *TokenIssuer) ParseRefresh(tokenStr string) (*Claims, error) {
	claims, err := i.parse(tokenStr, i.refreshSecret, "refresh")
	if err != nil {
		return nil, ErrRefreshInvalid
	}
	return claims, nil
}
