package access

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/comunidadhq/backend/internal/models"
	"github.com/comunidadhq/backend/pkg/logctx"
	"github.com/comunidadhq/backend/pkg/types"
)

// State is the outcome of resolving (community slug, identity) into a
// permission decision. A request starts conceptually in StateLoading and must
// settle into one of the other three states before any content is served.
type State string

const (
	StateLoading      State = "loading"
	StateNoCommunity  State = "no_community"
	StateNoPermission State = "no_permission"
	StatePermitted    State = "permitted"
)

// SectionAbout is the one community section viewable without membership.
const SectionAbout = "about"

// HomePath is where viewers land when a slug does not resolve.
const HomePath = "/"

var (
	// ErrEmptySlug means the caller tried to resolve without a slug; the
	// resolver refuses to query in that case.
	ErrEmptySlug = errors.New("community slug is empty")
	// ErrCommunityNotFound is returned by Store implementations when the
	// slug does not resolve to a community.
	ErrCommunityNotFound = errors.New("community not found")
)

// Store is the minimal read surface the resolver needs. The two lookups are
// the only contract with the persistence layer: a slug resolves to at most
// one community, a (community, profile) pair to at most one membership.
type Store interface {
	CommunityBySlug(ctx context.Context, slug string) (*models.Community, error)
	// MembershipFor returns (nil, nil) when no membership row exists.
	MembershipFor(ctx context.Context, communityID, profileID string) (*models.CommunityMember, error)
}

// Decision is the settled permission state for one (slug, identity) pair.
// Resolving the same inputs again yields an equal Decision; nothing here
// mutates state, so re-evaluation after a join is cheap and loop-free.
type Decision struct {
	State      State
	Slug       string
	Community  *models.Community
	Membership *models.CommunityMember
}

func (d *Decision) Permitted() bool {
	return d != nil && d.State == StatePermitted
}

// IsCommunityAdmin reports whether the resolved membership carries the admin
// role. Only meaningful when Permitted.
func (d *Decision) IsCommunityAdmin() bool {
	return d != nil && d.Membership != nil && d.Membership.Role == types.MemberRoleAdmin
}

// RouteFor applies the routing rules to a requested section: the about page
// is permission-exempt, every other section requires membership. It returns
// either an empty redirect (render the section) or the path to send the
// viewer to instead. About never redirects to itself, so following the
// returned path always terminates.
func (d *Decision) RouteFor(section string) (redirect string, allowed bool) {
	switch d.State {
	case StateNoCommunity:
		return HomePath, false
	case StatePermitted:
		return "", true
	case StateNoPermission:
		if section == SectionAbout {
			return "", true
		}
		return AboutPath(d.Slug), false
	default:
		// Loading (or an unknown state) must never expose content.
		return AboutPath(d.Slug), false
	}
}

// AboutPath is the canonical about route for a community slug.
func AboutPath(slug string) string {
	return "/community/" + slug + "/" + SectionAbout
}

// Resolver decides route permission from community existence and membership
// existence. It holds no per-request state.
type Resolver struct {
	store Store
	log   *zap.SugaredLogger
}

func NewResolver(store Store, log *zap.SugaredLogger) *Resolver {
	return &Resolver{store: store, log: log}
}

// Resolve settles the permission state for one navigation:
//
//	slug missing            -> ErrEmptySlug, no query is issued
//	community not found     -> NoCommunity
//	no authenticated viewer -> NoPermission (about only)
//	membership row exists   -> Permitted, otherwise NoPermission
//
// A membership lookup failure resolves to NoPermission rather than an error:
// denying protected content on infrastructure trouble is recoverable,
// granting it is not.
func (r *Resolver) Resolve(ctx context.Context, slug, profileID string) (*Decision, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrEmptySlug
	}

	d := &Decision{State: StateLoading, Slug: slug}

	community, err := r.store.CommunityBySlug(ctx, slug)
	if errors.Is(err, ErrCommunityNotFound) {
		d.State = StateNoCommunity
		return d, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve community %q: %w", slug, err)
	}
	d.Community = community

	if profileID == "" {
		d.State = StateNoPermission
		return d, nil
	}

	member, err := r.store.MembershipFor(ctx, community.ID, profileID)
	if err != nil {
		logctx.FromCtx(ctx, r.log).Warnw("membership lookup failed, denying access",
			"slug", slug, "community_id", community.ID, "err", err)
		d.State = StateNoPermission
		return d, nil
	}
	if member == nil {
		d.State = StateNoPermission
		return d, nil
	}

	d.Membership = member
	d.State = StatePermitted
	return d, nil
}
