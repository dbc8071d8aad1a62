package models

import "time"

// CommunityDailySnapshot records per-community counters once a day so the
// admin dashboard can chart series without re-aggregating history.
type CommunityDailySnapshot struct {
	ID                   string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CommunityID          string    `gorm:"column:community_id;type:uuid;not null;uniqueIndex:uk_snapshot_community_date,priority:1" json:"community_id"`
	SnapshotDate         string    `gorm:"column:snapshot_date;type:varchar(10);not null;uniqueIndex:uk_snapshot_community_date,priority:2" json:"snapshot_date"`
	MembersCount         int64     `gorm:"column:members_count;not null;default:0" json:"members_count"`
	PendingSubscriptions int64     `gorm:"column:pending_subscriptions;not null;default:0" json:"pending_subscriptions"`
	ActiveSubscriptions  int64     `gorm:"column:active_subscriptions;not null;default:0" json:"active_subscriptions"`
	SnapshotCreatedAt    time.Time `gorm:"column:snapshot_created_at;not null" json:"snapshot_created_at"`
}

func (CommunityDailySnapshot) TableName() string {
	return "community_daily_snapshots"
}
