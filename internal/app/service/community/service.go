package community

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/comunidadhq/backend/internal/models"
	"github.com/comunidadhq/backend/pkg/logctx"
	"github.com/comunidadhq/backend/pkg/tool"
	"github.com/comunidadhq/backend/pkg/types"
)

var (
	ErrNotFound  = errors.New("community not found")
	ErrSlugTaken = errors.New("community slug already in use")
)

type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

type CreateRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	IsPublic    bool            `json:"is_public"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency"`
	BannerURL   string          `json:"banner_url"`
	LogoURL     string          `json:"logo_url"`
}

// Create inserts the community and joins the creator as admin in one
// transaction, so a community is never left without an administrator.
func (s *Service) Create(ctx context.Context, creatorID string, req *CreateRequest) (*models.Community, error) {
	slug := tool.Slugify(req.Name)
	if slug == "" {
		return nil, fmt.Errorf("community name %q produces an empty slug", req.Name)
	}
	currency := req.Currency
	if currency == "" {
		currency = "PEN"
	}

	community := &models.Community{
		ID:           tool.GenerateUUIDV7(),
		Slug:         slug,
		Name:         req.Name,
		Description:  req.Description,
		IsPublic:     req.IsPublic,
		Price:        req.Price,
		Currency:     currency,
		BannerURL:    req.BannerURL,
		LogoURL:      req.LogoURL,
		CreatorID:    creatorID,
		MembersCount: 1,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Community{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check slug: %w", err)
		}
		if count > 0 {
			return ErrSlugTaken
		}

		if err := tx.Create(community).Error; err != nil {
			return fmt.Errorf("failed to create community: %w", err)
		}

		member := &models.CommunityMember{
			ID:          tool.GenerateUUIDV7(),
			CommunityID: community.ID,
			ProfileID:   creatorID,
			Role:        types.MemberRoleAdmin,
		}
		if err := tx.Create(member).Error; err != nil {
			return fmt.Errorf("failed to join creator: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logctx.FromCtx(ctx, s.log).Infow("community created", "community_id", community.ID, "slug", slug)
	return community, nil
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (*models.Community, error) {
	var community models.Community
	err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&community).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query community: %w", err)
	}
	return &community, nil
}

type ListRequest struct {
	Search string `form:"search"`
	Page   int    `form:"page"`
	Size   int    `form:"size"`
}

// List powers discovery: most-members-first, optional name search.
func (s *Service) List(ctx context.Context, req *ListRequest) ([]models.Community, int64, error) {
	page := req.Page
	if page <= 0 {
		page = 1
	}
	size := req.Size
	if size <= 0 || size > 50 {
		size = 20
	}

	q := s.db.WithContext(ctx).Model(&models.Community{})
	if req.Search != "" {
		q = q.Where("name ILIKE ?", "%"+req.Search+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count communities: %w", err)
	}

	var list []models.Community
	err := q.Order("members_count DESC, created_at DESC").
		Offset((page - 1) * size).Limit(size).
		Find(&list).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list communities: %w", err)
	}
	return list, total, nil
}

type UpdateRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	IsPublic    *bool            `json:"is_public"`
	Price       *decimal.Decimal `json:"price"`
	Currency    *string          `json:"currency"`
	BannerURL   *string          `json:"banner_url"`
	LogoURL     *string          `json:"logo_url"`
}

// Update mutates community settings. The slug is stable: renaming a
// community does not change its address.
func (s *Service) Update(ctx context.Context, communityID string, req *UpdateRequest) (*models.Community, error) {
	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.IsPublic != nil {
		updates["is_public"] = *req.IsPublic
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Currency != nil {
		updates["currency"] = *req.Currency
	}
	if req.BannerURL != nil {
		updates["banner_url"] = *req.BannerURL
	}
	if req.LogoURL != nil {
		updates["logo_url"] = *req.LogoURL
	}

	if len(updates) > 0 {
		res := s.db.WithContext(ctx).Model(&models.Community{}).Where("id = ?", communityID).Updates(updates)
		if res.Error != nil {
			return nil, fmt.Errorf("failed to update community: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}

	var community models.Community
	if err := s.db.WithContext(ctx).First(&community, "id = ?", communityID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload community: %w", err)
	}
	return &community, nil
}

// Delete removes the community and all dependent rows in one transaction.
// The cascade is explicit rather than delegated to foreign keys so the full
// cleanup is visible and testable at the application layer.
func (s *Service) Delete(ctx context.Context, communityID string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var postIDs []string
		if err := tx.Model(&models.Post{}).Where("community_id = ?", communityID).Pluck("id", &postIDs).Error; err != nil {
			return fmt.Errorf("failed to collect posts: %w", err)
		}
		if len(postIDs) > 0 {
			if err := tx.Where("post_id IN ?", postIDs).Delete(&models.Comment{}).Error; err != nil {
				return fmt.Errorf("failed to delete comments: %w", err)
			}
		}

		var courseIDs []string
		if err := tx.Model(&models.Course{}).Where("community_id = ?", communityID).Pluck("id", &courseIDs).Error; err != nil {
			return fmt.Errorf("failed to collect courses: %w", err)
		}
		if len(courseIDs) > 0 {
			if err := tx.Where("course_id IN ?", courseIDs).Delete(&models.Lesson{}).Error; err != nil {
				return fmt.Errorf("failed to delete lessons: %w", err)
			}
		}

		for _, del := range []any{
			&models.Post{}, &models.Course{}, &models.Event{},
			&models.CommunityMember{}, &models.CommunitySubscription{},
			&models.CommunityPaymentMethod{}, &models.CommunityDailySnapshot{},
		} {
			if err := tx.Where("community_id = ?", communityID).Delete(del).Error; err != nil {
				return fmt.Errorf("failed to delete dependents: %w", err)
			}
		}

		if err := tx.Delete(&models.Community{}, "id = ?", communityID).Error; err != nil {
			return fmt.Errorf("failed to delete community: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	logctx.FromCtx(ctx, s.log).Infow("community deleted", "community_id", communityID)
	return nil
}
