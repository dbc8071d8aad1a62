package models

import "time"

// Post is a forum thread root inside a community.
type Post struct {
	ID          string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CommunityID string    `gorm:"column:community_id;type:uuid;not null;index:idx_post_community_time,priority:1" json:"community_id"`
	AuthorID    string    `gorm:"column:author_id;type:uuid;not null;index" json:"author_id"`
	Title       string    `gorm:"column:title;type:varchar(200);not null" json:"title"`
	Content     string    `gorm:"column:content;type:text" json:"content"`
	Pinned      bool      `gorm:"column:pinned;not null;default:false" json:"pinned"`
	CreatedAt   time.Time `gorm:"index:idx_post_community_time,priority:2,sort:desc" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Author *Profile `gorm:"foreignKey:AuthorID;references:ID" json:"author,omitempty"`
}

func (Post) TableName() string {
	return "posts"
}
