package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/comunidadhq/backend/internal/models"
	cfgpkg "github.com/comunidadhq/backend/pkg/config"
	"github.com/comunidadhq/backend/pkg/tool"
	"github.com/comunidadhq/backend/pkg/types"
)

// Snapshotter persists one CommunityDailySnapshot row per community per day.
// Scheduled shortly after midnight so each snapshot covers a full day.
type Snapshotter struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewSnapshotter(db *gorm.DB, log *zap.SugaredLogger) *Snapshotter {
	return &Snapshotter{db: db, log: log}
}

// Run snapshots every community for the given date. Re-running for the same
// date overwrites the counters instead of duplicating rows.
func (s *Snapshotter) Run(ctx context.Context, date time.Time) error {
	snapshotDate := date.Format(time.DateOnly)

	var communityIDs []string
	if err := s.db.WithContext(ctx).Model(&models.Community{}).Pluck("id", &communityIDs).Error; err != nil {
		return fmt.Errorf("failed to list communities: %w", err)
	}

	for _, id := range communityIDs {
		if err := s.snapshotOne(ctx, id, snapshotDate); err != nil {
			s.log.Errorw("community snapshot failed", "community_id", id, "date", snapshotDate, "error", err)
			continue
		}
	}
	s.log.Infow("daily snapshots written", "date", snapshotDate, "communities", len(communityIDs))
	return nil
}

func (s *Snapshotter) snapshotOne(ctx context.Context, communityID, snapshotDate string) error {
	var members, pending, active int64
	if err := s.db.WithContext(ctx).Model(&models.CommunityMember{}).
		Where("community_id = ?", communityID).Count(&members).Error; err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Model(&models.CommunitySubscription{}).
		Where("community_id = ? AND status = ?", communityID, types.SubscriptionStatusPending).
		Count(&pending).Error; err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Model(&models.CommunitySubscription{}).
		Where("community_id = ? AND status = ?", communityID, types.SubscriptionStatusActive).
		Count(&active).Error; err != nil {
		return err
	}

	snap := &models.CommunityDailySnapshot{
		ID:                   tool.GenerateUUIDV7(),
		CommunityID:          communityID,
		SnapshotDate:         snapshotDate,
		MembersCount:         members,
		PendingSubscriptions: pending,
		ActiveSubscriptions:  active,
		SnapshotCreatedAt:    time.Now(),
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "community_id"}, {Name: "snapshot_date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"members_count", "pending_subscriptions", "active_subscriptions", "snapshot_created_at",
		}),
	}).Create(snap).Error
}

// registerSnapshotCron schedules the snapshotter on the application lifecycle.
func registerSnapshotCron(lc fx.Lifecycle, cfg *cfgpkg.Config, snapshotter *Snapshotter, log *zap.SugaredLogger) error {
	spec := cfg.Reports.SnapshotCron
	if spec == "" {
		log.Warn("snapshot cron disabled: empty schedule")
		return nil
	}

	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		// Snapshot the previous day: the job fires just after midnight.
		if err := snapshotter.Run(ctx, time.Now().AddDate(0, 0, -1)); err != nil {
			log.Errorw("snapshot run failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid snapshot cron %q: %w", spec, err)
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			c.Start()
			log.Infow("snapshot cron started", "spec", spec)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			stopped := c.Stop()
			select {
			case <-stopped.Done():
			case <-ctx.Done():
			}
			return nil
		},
	})
	return nil
}
