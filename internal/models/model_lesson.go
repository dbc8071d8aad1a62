package models

import "time"

type Lesson struct {
	ID              string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CourseID        string    `gorm:"column:course_id;type:uuid;not null;index" json:"course_id"`
	Title           string    `gorm:"column:title;type:varchar(200);not null" json:"title"`
	Content         string    `gorm:"column:content;type:text" json:"content"`
	VideoURL        string    `gorm:"column:video_url;type:text" json:"video_url"`
	DurationMinutes int       `gorm:"column:duration_minutes;not null;default:0" json:"duration_minutes"`
	Position        int       `gorm:"column:position;not null;default:0" json:"position"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (Lesson) TableName() string {
	return "lessons"
}
