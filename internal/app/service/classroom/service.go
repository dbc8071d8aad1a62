package classroom

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/comunidadhq/backend/internal/models"
	"github.com/comunidadhq/backend/pkg/logctx"
	"github.com/comunidadhq/backend/pkg/tool"
)

var (
	ErrCourseNotFound = errors.New("course not found")
	ErrLessonNotFound = errors.New("lesson not found")
)

type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

type CourseRequest struct {
	Title       string `json:"title" binding:"required"`
	Tagline     string `json:"tagline"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	Position    int    `json:"position"`
}

func (s *Service) CreateCourse(ctx context.Context, communityID string, req *CourseRequest) (*models.Course, error) {
	course := &models.Course{
		ID:          tool.GenerateUUIDV7(),
		CommunityID: communityID,
		Title:       req.Title,
		Tagline:     req.Tagline,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Position:    req.Position,
	}
	if err := s.db.WithContext(ctx).Create(course).Error; err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}
	logctx.FromCtx(ctx, s.log).Infow("course created", "course_id", course.ID, "community_id", communityID)
	return course, nil
}

// ListCourses returns the classroom catalog in display order.
func (s *Service) ListCourses(ctx context.Context, communityID string) ([]models.Course, error) {
	var courses []models.Course
	err := s.db.WithContext(ctx).
		Where("community_id = ?", communityID).
		Order("position ASC, created_at ASC").
		Find(&courses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, nil
}

// CourseByID loads a course with its lessons in display order.
func (s *Service) CourseByID(ctx context.Context, communityID, courseID string) (*models.Course, error) {
	var course models.Course
	err := s.db.WithContext(ctx).
		Preload("Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, created_at ASC")
		}).
		First(&course, "id = ? AND community_id = ?", courseID, communityID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCourseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query course: %w", err)
	}
	return &course, nil
}

func (s *Service) UpdateCourse(ctx context.Context, communityID, courseID string, req *CourseRequest) (*models.Course, error) {
	course, err := s.CourseByID(ctx, communityID, courseID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{
		"title":       req.Title,
		"tagline":     req.Tagline,
		"description": req.Description,
		"image_url":   req.ImageURL,
		"position":    req.Position,
	}
	if err := s.db.WithContext(ctx).Model(course).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update course: %w", err)
	}
	return course, nil
}

func (s *Service) DeleteCourse(ctx context.Context, communityID, courseID string) error {
	if _, err := s.CourseByID(ctx, communityID, courseID); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", courseID).Delete(&models.Lesson{}).Error; err != nil {
			return fmt.Errorf("failed to delete lessons: %w", err)
		}
		return tx.Delete(&models.Course{}, "id = ?", courseID).Error
	})
}

type LessonRequest struct {
	Title           string `json:"title" binding:"required"`
	Content         string `json:"content"`
	VideoURL        string `json:"video_url"`
	DurationMinutes int    `json:"duration_minutes"`
	Position        int    `json:"position"`
}

func (s *Service) CreateLesson(ctx context.Context, communityID, courseID string, req *LessonRequest) (*models.Lesson, error) {
	if _, err := s.CourseByID(ctx, communityID, courseID); err != nil {
		return nil, err
	}

	lesson := &models.Lesson{
		ID:              tool.GenerateUUIDV7(),
		CourseID:        courseID,
		Title:           req.Title,
		Content:         req.Content,
		VideoURL:        req.VideoURL,
		DurationMinutes: req.DurationMinutes,
		Position:        req.Position,
	}
	if err := s.db.WithContext(ctx).Create(lesson).Error; err != nil {
		return nil, fmt.Errorf("failed to create lesson: %w", err)
	}
	return lesson, nil
}

func (s *Service) LessonByID(ctx context.Context, communityID, courseID, lessonID string) (*models.Lesson, error) {
	if _, err := s.CourseByID(ctx, communityID, courseID); err != nil {
		return nil, err
	}
	var lesson models.Lesson
	err := s.db.WithContext(ctx).First(&lesson, "id = ? AND course_id = ?", lessonID, courseID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrLessonNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query lesson: %w", err)
	}
	return &lesson, nil
}

func (s *Service) UpdateLesson(ctx context.Context, communityID, courseID, lessonID string, req *LessonRequest) (*models.Lesson, error) {
	lesson, err := s.LessonByID(ctx, communityID, courseID, lessonID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{
		"title":            req.Title,
		"content":          req.Content,
		"video_url":        req.VideoURL,
		"duration_minutes": req.DurationMinutes,
		"position":         req.Position,
	}
	if err := s.db.WithContext(ctx).Model(lesson).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update lesson: %w", err)
	}
	return lesson, nil
}

func (s *Service) DeleteLesson(ctx context.Context, communityID, courseID, lessonID string) error {
	lesson, err := s.LessonByID(ctx, communityID, courseID, lessonID)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&models.Lesson{}, "id = ?", lesson.ID).Error
}
