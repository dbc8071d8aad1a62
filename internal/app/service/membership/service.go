package membership

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/comunidadhq/backend/internal/models"
	"github.com/comunidadhq/backend/pkg/logctx"
	"github.com/comunidadhq/backend/pkg/types"
)

var (
	ErrMemberNotFound = errors.New("member not found")
	// ErrCreatorImmutable protects the founder's admin role: a community
	// can never be left without its creator as administrator.
	ErrCreatorImmutable = errors.New("the community creator's membership cannot be changed")
	ErrInvalidRole      = errors.New("invalid member role")
)

type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

type ListRequest struct {
	Search string `form:"search"`
	Page   int    `form:"page"`
	Size   int    `form:"size"`
}

// List returns the community roster with profiles preloaded, admins first.
func (s *Service) List(ctx context.Context, communityID string, req *ListRequest) ([]models.CommunityMember, int64, error) {
	page := req.Page
	if page <= 0 {
		page = 1
	}
	size := req.Size
	if size <= 0 || size > 100 {
		size = 30
	}

	q := s.db.WithContext(ctx).Model(&models.CommunityMember{}).
		Where("community_members.community_id = ?", communityID)
	if req.Search != "" {
		q = q.Joins("JOIN profiles ON profiles.id = community_members.profile_id").
			Where("profiles.full_name ILIKE ? OR profiles.email ILIKE ?",
				"%"+req.Search+"%", "%"+req.Search+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count members: %w", err)
	}

	var members []models.CommunityMember
	err := q.Preload("Profile").
		Order("community_members.role DESC, community_members.created_at ASC").
		Offset((page - 1) * size).Limit(size).
		Find(&members).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list members: %w", err)
	}
	return members, total, nil
}

// ChangeRole promotes or demotes a member. The creator's role is immutable.
func (s *Service) ChangeRole(ctx context.Context, communityID, profileID string, role types.MemberRole) error {
	if role != types.MemberRoleMember && role != types.MemberRoleAdmin {
		return ErrInvalidRole
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var community models.Community
		if err := tx.Select("creator_id").First(&community, "id = ?", communityID).Error; err != nil {
			return fmt.Errorf("failed to load community: %w", err)
		}
		if community.CreatorID == profileID {
			return ErrCreatorImmutable
		}

		res := tx.Model(&models.CommunityMember{}).
			Where("community_id = ? AND profile_id = ?", communityID, profileID).
			Update("role", role)
		if res.Error != nil {
			return fmt.Errorf("failed to update role: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrMemberNotFound
		}
		return nil
	})
}

// Remove deletes a membership row and decrements the community counter.
// Used both by admins kicking a member and by members leaving themselves.
func (s *Service) Remove(ctx context.Context, communityID, profileID string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var community models.Community
		if err := tx.Select("creator_id").First(&community, "id = ?", communityID).Error; err != nil {
			return fmt.Errorf("failed to load community: %w", err)
		}
		if community.CreatorID == profileID {
			return ErrCreatorImmutable
		}

		res := tx.Where("community_id = ? AND profile_id = ?", communityID, profileID).
			Delete(&models.CommunityMember{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete membership: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrMemberNotFound
		}

		return tx.Model(&models.Community{}).Where("id = ?", communityID).
			UpdateColumn("members_count", gorm.Expr("GREATEST(members_count - 1, 0)")).Error
	})
	if err != nil {
		return err
	}
	logctx.FromCtx(ctx, s.log).Infow("membership removed",
		"community_id", communityID, "profile_id", profileID)
	return nil
}

// CommunitiesOf lists the communities a profile belongs to, for the switcher.
func (s *Service) CommunitiesOf(ctx context.Context, profileID string) ([]models.Community, error) {
	var communities []models.Community
	err := s.db.WithContext(ctx).Model(&models.Community{}).
		Joins("JOIN community_members ON community_members.community_id = communities.id").
		Where("community_members.profile_id = ?", profileID).
		Order("community_members.created_at ASC").
		Find(&communities).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	return communities, nil
}
