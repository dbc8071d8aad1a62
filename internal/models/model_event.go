package models

import "time"

// Event is a calendar entry scoped to a community.
type Event struct {
	ID          string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CommunityID string    `gorm:"column:community_id;type:uuid;not null;index:idx_event_community_start,priority:1" json:"community_id"`
	Title       string    `gorm:"column:title;type:varchar(200);not null" json:"title"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	Location    string    `gorm:"column:location;type:varchar(255)" json:"location"`
	StartAt     time.Time `gorm:"column:start_at;not null;index:idx_event_community_start,priority:2" json:"start_at"`
	EndAt       time.Time `gorm:"column:end_at;not null" json:"end_at"`
	CreatedBy   string    `gorm:"column:created_by;type:uuid;not null" json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Event) TableName() string {
	return "events"
}
