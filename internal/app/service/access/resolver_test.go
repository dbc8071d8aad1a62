package access

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/comunidadhq/backend/internal/models"
	"github.com/comunidadhq/backend/pkg/types"
)

// fakeStore is an in-memory Store fixture.
type fakeStore struct {
	communities map[string]*models.Community          // keyed by slug
	memberships map[string]*models.CommunityMember    // keyed by communityID+"/"+profileID
	communityErr  error
	membershipErr error
	membershipCalls int
}

func (f *fakeStore) CommunityBySlug(_ context.Context, slug string) (*models.Community, error) {
	if f.communityErr != nil {
		return nil, f.communityErr
	}
	c, ok := f.communities[slug]
	if !ok {
		return nil, ErrCommunityNotFound
	}
	return c, nil
}

func (f *fakeStore) MembershipFor(_ context.Context, communityID, profileID string) (*models.CommunityMember, error) {
	f.membershipCalls++
	if f.membershipErr != nil {
		return nil, f.membershipErr
	}
	return f.memberships[communityID+"/"+profileID], nil
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		communities: map[string]*models.Community{
			"ai-accel": {ID: "c1", Slug: "ai-accel", Name: "AI Accel", IsPublic: false},
			"open-dev": {ID: "c2", Slug: "open-dev", Name: "Open Dev", IsPublic: true},
		},
		memberships: map[string]*models.CommunityMember{
			"c1/u-member": {ID: "m1", CommunityID: "c1", ProfileID: "u-member", Role: types.MemberRoleMember},
			"c1/u-admin":  {ID: "m2", CommunityID: "c1", ProfileID: "u-admin", Role: types.MemberRoleAdmin},
		},
	}
}

func newTestResolver(store Store) *Resolver {
	return NewResolver(store, zap.NewNop().Sugar())
}

func TestResolve_States(t *testing.T) {
	tests := []struct {
		name      string
		slug      string
		profileID string
		want      State
		wantErr   error
	}{
		{name: "empty slug refuses to query", slug: "  ", profileID: "u-member", wantErr: ErrEmptySlug},
		{name: "unknown slug", slug: "nope", profileID: "u-member", want: StateNoCommunity},
		{name: "anonymous viewer on public community", slug: "open-dev", want: StateNoPermission},
		{name: "anonymous viewer on paid community", slug: "ai-accel", want: StateNoPermission},
		{name: "authenticated non-member", slug: "ai-accel", profileID: "u-stranger", want: StateNoPermission},
		{name: "member", slug: "ai-accel", profileID: "u-member", want: StatePermitted},
		{name: "admin member", slug: "ai-accel", profileID: "u-admin", want: StatePermitted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestResolver(newFakeStore())
			d, err := r.Resolve(context.Background(), tt.slug, tt.profileID)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.State)
		})
	}
}

// Anonymous viewers never reach Permitted, regardless of visibility.
func TestResolve_FailClosedOnMissingIdentity(t *testing.T) {
	store := newFakeStore()
	r := newTestResolver(store)

	for slug := range store.communities {
		d, err := r.Resolve(context.Background(), slug, "")
		require.NoError(t, err)
		assert.Equal(t, StateNoPermission, d.State, "slug %s", slug)
	}
	// No identity means no membership query at all.
	assert.Zero(t, store.membershipCalls)
}

func TestResolve_FailClosedOnMembershipError(t *testing.T) {
	store := newFakeStore()
	store.membershipErr = errors.New("connection reset")
	r := newTestResolver(store)

	d, err := r.Resolve(context.Background(), "ai-accel", "u-member")
	require.NoError(t, err)
	assert.Equal(t, StateNoPermission, d.State)
}

func TestResolve_CommunityStoreErrorPropagates(t *testing.T) {
	store := newFakeStore()
	store.communityErr = errors.New("connection reset")
	r := newTestResolver(store)

	_, err := r.Resolve(context.Background(), "ai-accel", "u-member")
	require.Error(t, err)
}

// Resolving the same inputs repeatedly yields the same decision.
func TestResolve_Idempotent(t *testing.T) {
	r := newTestResolver(newFakeStore())

	var prev *Decision
	for i := 0; i < 5; i++ {
		d, err := r.Resolve(context.Background(), "ai-accel", "u-stranger")
		require.NoError(t, err)
		if prev != nil {
			assert.Equal(t, prev.State, d.State)
			redirPrev, okPrev := prev.RouteFor("posts")
			redir, ok := d.RouteFor("posts")
			assert.Equal(t, redirPrev, redir)
			assert.Equal(t, okPrev, ok)
		}
		prev = d
	}
}

func TestRouteFor(t *testing.T) {
	community := &models.Community{ID: "c1", Slug: "ai-accel"}

	tests := []struct {
		name         string
		decision     *Decision
		section      string
		wantRedirect string
		wantAllowed  bool
	}{
		{
			name:         "no community redirects home",
			decision:     &Decision{State: StateNoCommunity, Slug: "ghost"},
			section:      SectionAbout,
			wantRedirect: HomePath,
		},
		{
			name:        "no permission renders about",
			decision:    &Decision{State: StateNoPermission, Slug: "ai-accel", Community: community},
			section:     SectionAbout,
			wantAllowed: true,
		},
		{
			name:         "no permission redirects interior sections to about",
			decision:     &Decision{State: StateNoPermission, Slug: "ai-accel", Community: community},
			section:      "classroom",
			wantRedirect: "/community/ai-accel/about",
		},
		{
			name:        "permitted renders anything",
			decision:    &Decision{State: StatePermitted, Slug: "ai-accel", Community: community},
			section:     "members",
			wantAllowed: true,
		},
		{
			name:         "loading never exposes content",
			decision:     &Decision{State: StateLoading, Slug: "ai-accel"},
			section:      "members",
			wantRedirect: "/community/ai-accel/about",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			redirect, allowed := tt.decision.RouteFor(tt.section)
			assert.Equal(t, tt.wantAllowed, allowed)
			assert.Equal(t, tt.wantRedirect, redirect)
		})
	}
}

// Following RouteFor's redirect must terminate: the about page is exempt,
// never gated, so a NoPermission viewer bouncing to about stays there.
func TestRouteFor_NoRedirectLoop(t *testing.T) {
	d := &Decision{State: StateNoPermission, Slug: "ai-accel"}

	redirect, allowed := d.RouteFor("calendar")
	require.False(t, allowed)
	require.Equal(t, AboutPath("ai-accel"), redirect)

	// Re-evaluate at the redirect target.
	redirect2, allowed2 := d.RouteFor(SectionAbout)
	assert.True(t, allowed2)
	assert.Empty(t, redirect2)
}
