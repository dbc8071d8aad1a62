package models

import "time"

// Course groups lessons inside a community classroom.
type Course struct {
	ID          string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CommunityID string    `gorm:"column:community_id;type:uuid;not null;index" json:"community_id"`
	Title       string    `gorm:"column:title;type:varchar(200);not null" json:"title"`
	Tagline     string    `gorm:"column:tagline;type:varchar(255)" json:"tagline"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	ImageURL    string    `gorm:"column:image_url;type:text" json:"image_url"`
	Position    int       `gorm:"column:position;not null;default:0" json:"position"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Lessons []Lesson `gorm:"foreignKey:CourseID;references:ID" json:"lessons,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}
