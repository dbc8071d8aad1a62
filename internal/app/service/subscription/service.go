package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/comunidadhq/backend/internal/models"
	"github.com/comunidadhq/backend/pkg/logctx"
	"github.com/comunidadhq/backend/pkg/tool"
	typespkg "github.com/comunidadhq/backend/pkg/types"
)

var (
	ErrAlreadyMember = errors.New("profile is already a member")
	// ErrPendingExists blocks a second paid-join request while one awaits
	// validation.
	ErrPendingExists            = errors.New("a pending subscription already exists")
	ErrNotFree                  = errors.New("community requires a paid subscription")
	ErrNotPaid                  = errors.New("community is free to join")
	ErrPaymentMethodUnavailable = errors.New("payment method not available for this community")
	ErrSubscriptionNotFound     = errors.New("subscription not found")
	ErrNotPending               = errors.New("subscription is not pending")
)

// Store is the persistence surface of the join flow. Promote is the one
// multi-row operation and must be atomic: activating the subscription and
// creating the membership either both happen or neither does.
type Store interface {
	MembershipExists(ctx context.Context, communityID, profileID string) (bool, error)
	// CreateMembership inserts at most one row per (community, profile);
	// created reports whether a new row was written.
	CreateMembership(ctx context.Context, member *models.CommunityMember) (created bool, err error)
	PendingSubscription(ctx context.Context, communityID, profileID string) (*models.CommunitySubscription, error)
	PaymentConfig(ctx context.Context, id string) (*models.CommunityPaymentMethod, error)
	CreateSubscription(ctx context.Context, sub *models.CommunitySubscription) error
	SubscriptionByID(ctx context.Context, id string) (*models.CommunitySubscription, error)
	// Promote atomically sets the subscription active and upserts the
	// membership row.
	Promote(ctx context.Context, sub *models.CommunitySubscription, operatorID string, validatedAt time.Time) error
	// Finalize records a terminal status (cancelled/expired) on a
	// subscription.
	Finalize(ctx context.Context, subID string, status typespkg.SubscriptionStatus, operatorID string, at time.Time) error
}

// Service implements the join flow: free communities grant membership
// directly, paid communities only record a pending request that an
// administrator later promotes. The two paths never mix; a pending
// subscription grants nothing.
type Service struct {
	store Store
	log   *zap.SugaredLogger
}

func NewService(store Store, log *zap.SugaredLogger) *Service {
	return &Service{store: store, log: log}
}

// JoinFree immediately grants membership in a public community.
func (s *Service) JoinFree(ctx context.Context, community *models.Community, profileID string) error {
	if !community.IsPublic {
		return ErrNotFree
	}

	member := &models.CommunityMember{
		ID:          tool.GenerateUUIDV7(),
		CommunityID: community.ID,
		ProfileID:   profileID,
		Role:        typespkg.MemberRoleMember,
	}
	created, err := s.store.CreateMembership(ctx, member)
	if err != nil {
		return fmt.Errorf("failed to create membership: %w", err)
	}
	if !created {
		return ErrAlreadyMember
	}

	logctx.FromCtx(ctx, s.log).Infow("free join", "community_id", community.ID, "profile_id", profileID)
	return nil
}

// RequestPaidJoin records a pending subscription for a non-public community.
// It does not grant access; permission resolution stays NO_PERMISSION until
// an administrator approves the payment.
func (s *Service) RequestPaidJoin(ctx context.Context, community *models.Community, profileID, communityPaymentMethodID string) (*models.CommunitySubscription, error) {
	if community.IsPublic {
		return nil, ErrNotPaid
	}

	if member, err := s.store.MembershipExists(ctx, community.ID, profileID); err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	} else if member {
		return nil, ErrAlreadyMember
	}

	pending, err := s.store.PendingSubscription(ctx, community.ID, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to check pending subscription: %w", err)
	}
	if pending != nil {
		return nil, ErrPendingExists
	}

	cfg, err := s.store.PaymentConfig(ctx, communityPaymentMethodID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payment method: %w", err)
	}
	if cfg == nil || !cfg.Enabled || cfg.CommunityID != community.ID {
		return nil, ErrPaymentMethodUnavailable
	}

	sub := &models.CommunitySubscription{
		ID:                       tool.GenerateUUIDV7(),
		CommunityID:              community.ID,
		ProfileID:                profileID,
		CommunityPaymentMethodID: cfg.ID,
		Status:                   typespkg.SubscriptionStatusPending,
	}
	if err := s.store.CreateSubscription(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}

	logctx.FromCtx(ctx, s.log).Infow("paid join requested",
		"community_id", community.ID, "profile_id", profileID, "subscription_id", sub.ID)
	return sub, nil
}

// PendingFor returns the viewer's pending subscription for the community, or
// nil. Drives the "awaiting validation" short-circuit in the join flow.
func (s *Service) PendingFor(ctx context.Context, communityID, profileID string) (*models.CommunitySubscription, error) {
	return s.store.PendingSubscription(ctx, communityID, profileID)
}

// Approve is the administrative action that resolves the subscription-to-
// membership promotion: one atomic step sets the subscription active and
// creates the membership row that actually grants access.
func (s *Service) Approve(ctx context.Context, subscriptionID, operatorID string) error {
	sub, err := s.store.SubscriptionByID(ctx, subscriptionID)
	if err != nil {
		return err
	}
	if !sub.Pending() {
		return ErrNotPending
	}

	if err := s.store.Promote(ctx, sub, operatorID, time.Now()); err != nil {
		return fmt.Errorf("failed to promote subscription: %w", err)
	}

	logctx.FromCtx(ctx, s.log).Infow("subscription approved",
		"subscription_id", sub.ID, "community_id", sub.CommunityID,
		"profile_id", sub.ProfileID, "operator_id", operatorID)
	return nil
}

// Reject marks a pending request cancelled without creating a membership.
func (s *Service) Reject(ctx context.Context, subscriptionID, operatorID string) error {
	sub, err := s.store.SubscriptionByID(ctx, subscriptionID)
	if err != nil {
		return err
	}
	if !sub.Pending() {
		return ErrNotPending
	}
	return s.store.Finalize(ctx, sub.ID, typespkg.SubscriptionStatusCancelled, operatorID, time.Now())
}

// CancelOwn lets a viewer withdraw their own pending request.
func (s *Service) CancelOwn(ctx context.Context, subscriptionID, profileID string) error {
	sub, err := s.store.SubscriptionByID(ctx, subscriptionID)
	if err != nil {
		return err
	}
	if sub.ProfileID != profileID {
		return ErrSubscriptionNotFound
	}
	if !sub.Pending() {
		return ErrNotPending
	}
	return s.store.Finalize(ctx, sub.ID, typespkg.SubscriptionStatusCancelled, profileID, time.Now())
}
