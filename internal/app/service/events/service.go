package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/comunidadhq/backend/internal/models"
	"github.com/comunidadhq/backend/pkg/logctx"
	"github.com/comunidadhq/backend/pkg/tool"
)

var (
	ErrEventNotFound = errors.New("event not found")
	ErrInvalidWindow = errors.New("event must end after it starts")
)

type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

type EventRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartAt     time.Time `json:"start_at" binding:"required"`
	EndAt       time.Time `json:"end_at" binding:"required"`
}

func (s *Service) Create(ctx context.Context, communityID, creatorID string, req *EventRequest) (*models.Event, error) {
	if !req.EndAt.After(req.StartAt) {
		return nil, ErrInvalidWindow
	}

	event := &models.Event{
		ID:          tool.GenerateUUIDV7(),
		CommunityID: communityID,
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartAt:     req.StartAt,
		EndAt:       req.EndAt,
		CreatedBy:   creatorID,
	}
	if err := s.db.WithContext(ctx).Create(event).Error; err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	logctx.FromCtx(ctx, s.log).Infow("event created", "event_id", event.ID, "community_id", communityID)
	return event, nil
}

type ListRequest struct {
	// From/To bound the calendar window; both optional.
	From time.Time `form:"from" time_format:"2006-01-02"`
	To   time.Time `form:"to" time_format:"2006-01-02"`
}

// List returns the community calendar inside the requested window,
// soonest first. Without bounds it defaults to upcoming events.
func (s *Service) List(ctx context.Context, communityID string, req *ListRequest) ([]models.Event, error) {
	q := s.db.WithContext(ctx).Where("community_id = ?", communityID)

	switch {
	case !req.From.IsZero() && !req.To.IsZero():
		q = q.Where("start_at < ? AND end_at >= ?", req.To, req.From)
	case !req.From.IsZero():
		q = q.Where("end_at >= ?", req.From)
	case !req.To.IsZero():
		q = q.Where("start_at < ?", req.To)
	default:
		q = q.Where("end_at >= ?", time.Now())
	}

	var list []models.Event
	if err := q.Order("start_at ASC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return list, nil
}

func (s *Service) ByID(ctx context.Context, communityID, eventID string) (*models.Event, error) {
	var event models.Event
	err := s.db.WithContext(ctx).First(&event, "id = ? AND community_id = ?", eventID, communityID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query event: %w", err)
	}
	return &event, nil
}

func (s *Service) Update(ctx context.Context, communityID, eventID string, req *EventRequest) (*models.Event, error) {
	if !req.EndAt.After(req.StartAt) {
		return nil, ErrInvalidWindow
	}
	event, err := s.ByID(ctx, communityID, eventID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{
		"title":       req.Title,
		"description": req.Description,
		"location":    req.Location,
		"start_at":    req.StartAt,
		"end_at":      req.EndAt,
	}
	if err := s.db.WithContext(ctx).Model(event).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	return event, nil
}

func (s *Service) Delete(ctx context.Context, communityID, eventID string) error {
	event, err := s.ByID(ctx, communityID, eventID)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&models.Event{}, "id = ?", event.ID).Error
}
