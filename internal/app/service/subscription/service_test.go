package subscription

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/comunidadhq/backend/internal/models"
	typespkg "github.com/comunidadhq/backend/pkg/types"
)

// memStore is an in-memory Store fixture mirroring the uniqueness rules the
// real schema enforces.
type memStore struct {
	memberships   map[string]*models.CommunityMember // communityID+"/"+profileID
	subscriptions map[string]*models.CommunitySubscription
	configs       map[string]*models.CommunityPaymentMethod
}

func newMemStore() *memStore {
	return &memStore{
		memberships:   map[string]*models.CommunityMember{},
		subscriptions: map[string]*models.CommunitySubscription{},
		configs:       map[string]*models.CommunityPaymentMethod{},
	}
}

func memberKey(communityID, profileID string) string { return communityID + "/" + profileID }

func (m *memStore) MembershipExists(_ context.Context, communityID, profileID string) (bool, error) {
	_, ok := m.memberships[memberKey(communityID, profileID)]
	return ok, nil
}

func (m *memStore) CreateMembership(_ context.Context, member *models.CommunityMember) (bool, error) {
	key := memberKey(member.CommunityID, member.ProfileID)
	if _, ok := m.memberships[key]; ok {
		return false, nil
	}
	m.memberships[key] = member
	return true, nil
}

func (m *memStore) PendingSubscription(_ context.Context, communityID, profileID string) (*models.CommunitySubscription, error) {
	for _, sub := range m.subscriptions {
		if sub.CommunityID == communityID && sub.ProfileID == profileID && sub.Pending() {
			return sub, nil
		}
	}
	return nil, nil
}

func (m *memStore) PaymentConfig(_ context.Context, id string) (*models.CommunityPaymentMethod, error) {
	return m.configs[id], nil
}

func (m *memStore) CreateSubscription(_ context.Context, sub *models.CommunitySubscription) error {
	m.subscriptions[sub.ID] = sub
	return nil
}

func (m *memStore) SubscriptionByID(_ context.Context, id string) (*models.CommunitySubscription, error) {
	sub, ok := m.subscriptions[id]
	if !ok {
		return nil, ErrSubscriptionNotFound
	}
	return sub, nil
}

func (m *memStore) Promote(_ context.Context, sub *models.CommunitySubscription, operatorID string, validatedAt time.Time) error {
	stored := m.subscriptions[sub.ID]
	if stored == nil || !stored.Pending() {
		return ErrNotPending
	}
	stored.Status = typespkg.SubscriptionStatusActive
	stored.ValidatedAt = &validatedAt
	stored.ValidatedBy = operatorID
	key := memberKey(sub.CommunityID, sub.ProfileID)
	if _, ok := m.memberships[key]; !ok {
		m.memberships[key] = &models.CommunityMember{
			CommunityID: sub.CommunityID,
			ProfileID:   sub.ProfileID,
			Role:        typespkg.MemberRoleMember,
		}
	}
	return nil
}

func (m *memStore) Finalize(_ context.Context, subID string, status typespkg.SubscriptionStatus, operatorID string, at time.Time) error {
	stored := m.subscriptions[subID]
	if stored == nil || !stored.Pending() {
		return ErrNotPending
	}
	stored.Status = status
	stored.ValidatedAt = &at
	stored.ValidatedBy = operatorID
	return nil
}

func (m *memStore) subscriptionCount(communityID, profileID string, status typespkg.SubscriptionStatus) int {
	n := 0
	for _, sub := range m.subscriptions {
		if sub.CommunityID == communityID && sub.ProfileID == profileID && sub.Status == status {
			n++
		}
	}
	return n
}

var (
	freeCommunity = &models.Community{ID: "c-free", Slug: "open-dev", IsPublic: true}
	paidCommunity = &models.Community{ID: "c-paid", Slug: "ai-accel", IsPublic: false}
)

func newTestService(store Store) *Service {
	return NewService(store, zap.NewNop().Sugar())
}

func withYape(store *memStore) *memStore {
	store.configs["cpm-yape"] = &models.CommunityPaymentMethod{
		ID: "cpm-yape", CommunityID: "c-paid", PaymentMethodID: "pm-yape", Enabled: true,
	}
	store.configs["cpm-disabled"] = &models.CommunityPaymentMethod{
		ID: "cpm-disabled", CommunityID: "c-paid", PaymentMethodID: "pm-plin", Enabled: false,
	}
	store.configs["cpm-other"] = &models.CommunityPaymentMethod{
		ID: "cpm-other", CommunityID: "c-else", PaymentMethodID: "pm-yape", Enabled: true,
	}
	return store
}

func TestJoinFree_GrantsExactlyOneMembership(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	require.NoError(t, svc.JoinFree(ctx, freeCommunity, "u1"))
	assert.Len(t, store.memberships, 1)

	// A second join is rejected and leaves the single row untouched.
	err := svc.JoinFree(ctx, freeCommunity, "u1")
	assert.ErrorIs(t, err, ErrAlreadyMember)
	assert.Len(t, store.memberships, 1)
}

func TestJoinFree_RejectsPaidCommunity(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	err := svc.JoinFree(context.Background(), paidCommunity, "u1")
	assert.ErrorIs(t, err, ErrNotFree)
	assert.Empty(t, store.memberships)
}

func TestRequestPaidJoin_CreatesPendingWithoutMembership(t *testing.T) {
	store := withYape(newMemStore())
	svc := newTestService(store)
	ctx := context.Background()

	sub, err := svc.RequestPaidJoin(ctx, paidCommunity, "u1", "cpm-yape")
	require.NoError(t, err)
	assert.Equal(t, typespkg.SubscriptionStatusPending, sub.Status)
	assert.Equal(t, "cpm-yape", sub.CommunityPaymentMethodID)

	// The crux of the gating model: a pending subscription grants nothing.
	assert.Equal(t, 1, store.subscriptionCount("c-paid", "u1", typespkg.SubscriptionStatusPending))
	assert.Empty(t, store.memberships)
}

func TestRequestPaidJoin_BlocksDuplicatePending(t *testing.T) {
	store := withYape(newMemStore())
	svc := newTestService(store)
	ctx := context.Background()

	_, err := svc.RequestPaidJoin(ctx, paidCommunity, "u1", "cpm-yape")
	require.NoError(t, err)

	_, err = svc.RequestPaidJoin(ctx, paidCommunity, "u1", "cpm-yape")
	assert.ErrorIs(t, err, ErrPendingExists)
	assert.Equal(t, 1, store.subscriptionCount("c-paid", "u1", typespkg.SubscriptionStatusPending))
}

func TestRequestPaidJoin_Validation(t *testing.T) {
	tests := []struct {
		name      string
		community *models.Community
		methodID  string
		wantErr   error
	}{
		{name: "free community", community: freeCommunity, methodID: "cpm-yape", wantErr: ErrNotPaid},
		{name: "unknown method", community: paidCommunity, methodID: "cpm-nope", wantErr: ErrPaymentMethodUnavailable},
		{name: "disabled method", community: paidCommunity, methodID: "cpm-disabled", wantErr: ErrPaymentMethodUnavailable},
		{name: "method from another community", community: paidCommunity, methodID: "cpm-other", wantErr: ErrPaymentMethodUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(withYape(newMemStore()))
			_, err := svc.RequestPaidJoin(context.Background(), tt.community, "u1", tt.methodID)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRequestPaidJoin_RejectsExistingMember(t *testing.T) {
	store := withYape(newMemStore())
	store.memberships[memberKey("c-paid", "u1")] = &models.CommunityMember{CommunityID: "c-paid", ProfileID: "u1"}
	svc := newTestService(store)

	_, err := svc.RequestPaidJoin(context.Background(), paidCommunity, "u1", "cpm-yape")
	assert.ErrorIs(t, err, ErrAlreadyMember)
}

func TestApprove_PromotesPendingToMembership(t *testing.T) {
	store := withYape(newMemStore())
	svc := newTestService(store)
	ctx := context.Background()

	sub, err := svc.RequestPaidJoin(ctx, paidCommunity, "u1", "cpm-yape")
	require.NoError(t, err)

	require.NoError(t, svc.Approve(ctx, sub.ID, "admin-1"))

	stored := store.subscriptions[sub.ID]
	assert.Equal(t, typespkg.SubscriptionStatusActive, stored.Status)
	assert.Equal(t, "admin-1", stored.ValidatedBy)
	require.NotNil(t, stored.ValidatedAt)

	// Approval is what grants standing.
	_, isMember := store.memberships[memberKey("c-paid", "u1")]
	assert.True(t, isMember)

	// Approving twice fails without side effects.
	assert.ErrorIs(t, svc.Approve(ctx, sub.ID, "admin-1"), ErrNotPending)
}

func TestReject_LeavesNoMembership(t *testing.T) {
	store := withYape(newMemStore())
	svc := newTestService(store)
	ctx := context.Background()

	sub, err := svc.RequestPaidJoin(ctx, paidCommunity, "u1", "cpm-yape")
	require.NoError(t, err)

	require.NoError(t, svc.Reject(ctx, sub.ID, "admin-1"))
	assert.Equal(t, typespkg.SubscriptionStatusCancelled, store.subscriptions[sub.ID].Status)
	assert.Empty(t, store.memberships)

	// A rejected request no longer blocks a new one.
	_, err = svc.RequestPaidJoin(ctx, paidCommunity, "u1", "cpm-yape")
	assert.NoError(t, err)
}

func TestCancelOwn(t *testing.T) {
	store := withYape(newMemStore())
	svc := newTestService(store)
	ctx := context.Background()

	sub, err := svc.RequestPaidJoin(ctx, paidCommunity, "u1", "cpm-yape")
	require.NoError(t, err)

	// Someone else's pending request is invisible.
	assert.ErrorIs(t, svc.CancelOwn(ctx, sub.ID, "u2"), ErrSubscriptionNotFound)

	require.NoError(t, svc.CancelOwn(ctx, sub.ID, "u1"))
	assert.Equal(t, typespkg.SubscriptionStatusCancelled, store.subscriptions[sub.ID].Status)
}
