package access

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/comunidadhq/backend/internal/models"
)

// GormStore backs the resolver with the communities and community_members
// tables.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) CommunityBySlug(ctx context.Context, slug string) (*models.Community, error) {
	var community models.Community
	err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&community).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCommunityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query community by slug: %w", err)
	}
	return &community, nil
}

func (s *GormStore) MembershipFor(ctx context.Context, communityID, profileID string) (*models.CommunityMember, error) {
	var member models.CommunityMember
	err := s.db.WithContext(ctx).
		Where("community_id = ? AND profile_id = ?", communityID, profileID).
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query membership: %w", err)
	}
	return &member, nil
}
