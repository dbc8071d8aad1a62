package models

import (
	"time"

	"github.com/comunidadhq/backend/pkg/types"
)

// CommunityMember associates one profile with one community. Existence of
// this row is the permission predicate for everything behind the about page.
type CommunityMember struct {
	ID          string           `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CommunityID string           `gorm:"column:community_id;type:uuid;not null;uniqueIndex:uk_community_profile,priority:1;index" json:"community_id"`
	ProfileID   string           `gorm:"column:profile_id;type:uuid;not null;uniqueIndex:uk_community_profile,priority:2;index" json:"profile_id"`
	Role        types.MemberRole `gorm:"column:role;type:varchar(16);not null;default:'member'" json:"role"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`

	Profile *Profile `gorm:"foreignKey:ProfileID;references:ID" json:"profile,omitempty"`
}

func (CommunityMember) TableName() string {
	return "community_members"
}
