package redisstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	cfgpkg "github.com/comunidadhq/backend/pkg/config"
)

// NewClient builds the redis client and pings it once so a dead redis fails
// startup instead of the first login.
func NewClient(l *zap.SugaredLogger, cfg *cfgpkg.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		l.Errorf("redis ping failed: %v", err)
		return nil, err
	}
	l.Infow("connected to redis", "addr", cfg.Redis.Addr)
	return client, nil
}

func registerClose(lc fx.Lifecycle, l *zap.SugaredLogger, client *redis.Client) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			l.Infow("closing redis client")
			return client.Close()
		},
	})
}

var Module = fx.Options(
	fx.Provide(NewClient),
	fx.Invoke(registerClose),
)
