package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/comunidadhq/backend/pkg/types"
)

// CommunitySubscription is a paid-join request. A pending row never grants
// access by itself; an administrator validates the payment, which activates
// the subscription and creates the membership in the same transaction.
type CommunitySubscription struct {
	ID                       string                   `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CommunityID              string                   `gorm:"column:community_id;type:uuid;not null;index:idx_sub_community_profile,priority:1" json:"community_id"`
	ProfileID                string                   `gorm:"column:profile_id;type:uuid;not null;index:idx_sub_community_profile,priority:2" json:"profile_id"`
	CommunityPaymentMethodID string                   `gorm:"column:community_payment_method_id;type:uuid;not null" json:"community_payment_method_id"`
	Status                   types.SubscriptionStatus `gorm:"column:status;type:varchar(16);not null;index" json:"status"`
	ValidatedAt              *time.Time               `gorm:"column:validated_at;default:null" json:"validated_at"`
	// ValidatedBy is the administrator profile that approved or rejected
	// the request.
	ValidatedBy string         `gorm:"column:validated_by;type:uuid" json:"validated_by"`
	Extra       datatypes.JSON `gorm:"column:extra;type:jsonb;default:'{}'" json:"extra"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (CommunitySubscription) TableName() string {
	return "community_subscriptions"
}

func (s *CommunitySubscription) Pending() bool {
	return s != nil && s.Status == types.SubscriptionStatusPending
}
