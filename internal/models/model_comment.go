package models

import "time"

// Comment belongs to a post; ParentID nests replies under another comment.
type Comment struct {
	ID       string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	PostID   string `gorm:"column:post_id;type:uuid;not null;index" json:"post_id"`
	AuthorID string `gorm:"column:author_id;type:uuid;not null;index" json:"author_id"`
	// ParentID is nil for top-level comments.
	ParentID  *string   `gorm:"column:parent_id;type:uuid;default:null;index" json:"parent_id"`
	Content   string    `gorm:"column:content;type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Author *Profile `gorm:"foreignKey:AuthorID;references:ID" json:"author,omitempty"`
}

func (Comment) TableName() string {
	return "comments"
}
