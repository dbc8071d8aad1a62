package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/comunidadhq/backend/internal/models"
	"github.com/comunidadhq/backend/pkg/tool"
	typespkg "github.com/comunidadhq/backend/pkg/types"
)

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) MembershipExists(ctx context.Context, communityID, profileID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.CommunityMember{}).
		Where("community_id = ? AND profile_id = ?", communityID, profileID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to count membership: %w", err)
	}
	return count > 0, nil
}

// CreateMembership inserts the row and bumps the community member counter.
// The unique (community, profile) index plus ON CONFLICT DO NOTHING keeps
// repeated joins at exactly one row.
func (s *GormStore) CreateMembership(ctx context.Context, member *models.CommunityMember) (bool, error) {
	var created bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "community_id"}, {Name: "profile_id"}},
			DoNothing: true,
		}).Create(member)
		if res.Error != nil {
			return res.Error
		}
		created = res.RowsAffected > 0
		if !created {
			return nil
		}
		return tx.Model(&models.Community{}).Where("id = ?", member.CommunityID).
			UpdateColumn("members_count", gorm.Expr("members_count + 1")).Error
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

func (s *GormStore) PendingSubscription(ctx context.Context, communityID, profileID string) (*models.CommunitySubscription, error) {
	var sub models.CommunitySubscription
	err := s.db.WithContext(ctx).
		Where("community_id = ? AND profile_id = ? AND status = ?",
			communityID, profileID, typespkg.SubscriptionStatusPending).
		First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query pending subscription: %w", err)
	}
	return &sub, nil
}

func (s *GormStore) PaymentConfig(ctx context.Context, id string) (*models.CommunityPaymentMethod, error) {
	var cfg models.CommunityPaymentMethod
	err := s.db.WithContext(ctx).First(&cfg, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query payment config: %w", err)
	}
	return &cfg, nil
}

func (s *GormStore) CreateSubscription(ctx context.Context, sub *models.CommunitySubscription) error {
	return s.db.WithContext(ctx).Create(sub).Error
}

func (s *GormStore) SubscriptionByID(ctx context.Context, id string) (*models.CommunitySubscription, error) {
	var sub models.CommunitySubscription
	err := s.db.WithContext(ctx).First(&sub, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query subscription: %w", err)
	}
	return &sub, nil
}

func (s *GormStore) Promote(ctx context.Context, sub *models.CommunitySubscription, operatorID string, validatedAt time.Time) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CommunitySubscription{}).
			Where("id = ? AND status = ?", sub.ID, typespkg.SubscriptionStatusPending).
			Updates(map[string]any{
				"status":       typespkg.SubscriptionStatusActive,
				"validated_at": validatedAt,
				"validated_by": operatorID,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to activate subscription: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			// Lost a race with another approval; nothing more to do.
			return ErrNotPending
		}

		member := &models.CommunityMember{
			ID:          tool.GenerateUUIDV7(),
			CommunityID: sub.CommunityID,
			ProfileID:   sub.ProfileID,
			Role:        typespkg.MemberRoleMember,
		}
		memberRes := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "community_id"}, {Name: "profile_id"}},
			DoNothing: true,
		}).Create(member)
		if memberRes.Error != nil {
			return fmt.Errorf("failed to create membership: %w", memberRes.Error)
		}
		if memberRes.RowsAffected > 0 {
			if err := tx.Model(&models.Community{}).Where("id = ?", sub.CommunityID).
				UpdateColumn("members_count", gorm.Expr("members_count + 1")).Error; err != nil {
				return fmt.Errorf("failed to bump member count: %w", err)
			}
		}
		return nil
	})
}

func (s *GormStore) Finalize(ctx context.Context, subID string, status typespkg.SubscriptionStatus, operatorID string, at time.Time) error {
	res := s.db.WithContext(ctx).Model(&models.CommunitySubscription{}).
		Where("id = ? AND status = ?", subID, typespkg.SubscriptionStatusPending).
		Updates(map[string]any{
			"status":       status,
			"validated_at": at,
			"validated_by": operatorID,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to finalize subscription: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotPending
	}
	return nil
}

// Scan lists subscriptions for the admin surface with generic filters.
type ScanRequest struct {
	Filters   []*typespkg.CommonFilter `json:"filters"`
	From      int                      `json:"from"`
	Size      int                      `json:"size"`
	SortBy    string                   `json:"sort_by"`
	SortOrder string                   `json:"sort_order"`
}

type ScanResponse struct {
	Items []*models.CommunitySubscription `json:"items"`
	Total int64                           `json:"total"`
}

var scanSortColumns = map[string]bool{
	"created_at": true, "updated_at": true, "status": true, "validated_at": true,
}

func (s *GormStore) Scan(ctx context.Context, req *ScanRequest) (*ScanResponse, error) {
	where := typespkg.FiltersWhere{Filters: req.Filters}

	q := s.db.WithContext(ctx).Model(&models.CommunitySubscription{}).
		Where(clause.Where{Exprs: []clause.Expression{where}})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	sortBy := req.SortBy
	if !scanSortColumns[sortBy] {
		sortBy = "created_at"
	}
	desc := req.SortOrder != "asc"

	size := req.Size
	if size <= 0 || size > 200 {
		size = 50
	}

	var items []*models.CommunitySubscription
	err := q.Order(clause.OrderByColumn{Column: clause.Column{Name: sortBy}, Desc: desc}).
		Offset(req.From).Limit(size).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to scan subscriptions: %w", err)
	}
	return &ScanResponse{Items: items, Total: total}, nil
}
