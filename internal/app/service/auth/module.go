package auth

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/comunidadhq/backend/internal/platform/redisstore"
	cfgpkg "github.com/comunidadhq/backend/pkg/config"
)

// Module exposes the auth service via Fx.
var Module = fx.Options(
	fx.Provide(NewTokenIssuer),
	fx.Provide(func(client *redis.Client, cfg *cfgpkg.Config) *redisstore.SessionStore {
		return redisstore.NewSessionStore(client, cfg.JWT.AccessTTL)
	}),
	fx.Provide(func(client *redis.Client) *redisstore.CodeStore {
		return redisstore.NewCodeStore(client, verificationTTL)
	}),
	fx.Provide(NewService),
)
