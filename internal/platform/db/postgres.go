package db

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/comunidadhq/backend/internal/models"
	cfgpkg "github.com/comunidadhq/backend/pkg/config"
	gormzap "github.com/comunidadhq/backend/pkg/gormlog"
	"github.com/comunidadhq/backend/pkg/tool"
)

func NewDB(l *zap.SugaredLogger, cfg *cfgpkg.Config) (*gorm.DB, error) {
	if cfg.Database.DSN == "" {
		l.Error("database DSN is empty")
		return nil, gorm.ErrInvalidDB
	}
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{
		Logger:         gormzap.New(l),
		TranslateError: true,
	})
	if err != nil {
		l.Errorf("failed to connect database: %v", err)
		return nil, err
	}
	l.Infow("connected to postgres via DSN")
	return db, nil
}

var Module = fx.Options(
	fx.Provide(NewDB),
	fx.Invoke(AutoMigrate),
	fx.Invoke(SeedRoles),
	fx.Invoke(registerDBClose),
)

// AutoMigrate runs GORM migrations on startup
func AutoMigrate(l *zap.SugaredLogger, db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Profile{},
		&models.Community{},
		&models.CommunityMember{},
		&models.Role{},
		&models.CommunitySubscription{},
		&models.PaymentMethod{},
		&models.CommunityPaymentMethod{},
		&models.Post{},
		&models.Comment{},
		&models.Course{},
		&models.Lesson{},
		&models.Event{},
		&models.CommunityDailySnapshot{},
	); err != nil {
		l.Errorf("automigrate failed: %v", err)
		return err
	}
	l.Infow("automigrate completed")
	return nil
}

// SeedRoles inserts the static role lookup rows if missing.
func SeedRoles(l *zap.SugaredLogger, db *gorm.DB) error {
	for _, name := range []string{"member", "admin"} {
		role := &models.Role{ID: tool.GenerateUUIDV7(), Name: name}
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).Create(role).Error; err != nil {
			l.Errorf("seed role %q failed: %v", name, err)
			return err
		}
	}
	return nil
}

// registerDBClose ensures the underlying *sql.DB is closed on shutdown
func registerDBClose(lc fx.Lifecycle, l *zap.SugaredLogger, gdb *gorm.DB) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			sqlDB, err := gdb.DB()
			if err != nil {
				l.Warnw("gorm: get sql.DB failed", "err", err)
				return nil
			}
			l.Infow("closing postgres connection pool")
			return sqlDB.Close()
		},
	})
}
