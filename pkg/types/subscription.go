package types

import "time"

// SubscriptionStatus tracks a paid-join request through manual validation.
// A subscription never self-transitions: pending -> active/cancelled is
// always an administrator action.
type SubscriptionStatus string

const (
	SubscriptionStatusPending   SubscriptionStatus = "pending"
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
)

type SubscriptionInfo struct {
	ID          string             `json:"id"`
	CommunityID string             `json:"community_id"`
	Status      SubscriptionStatus `json:"status"`
	ValidatedAt *time.Time         `json:"validated_at"`
}
