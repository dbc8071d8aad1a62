package reports

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/comunidadhq/backend/internal/models"
	"github.com/comunidadhq/backend/pkg/types"
)

// metric names for the overview fan-out
type metric string

const (
	metricMembers              metric = "members"
	metricRecentMembers        metric = "recent_members"
	metricPosts                metric = "posts"
	metricRecentPosts          metric = "recent_posts"
	metricPendingSubscriptions metric = "pending_subscriptions"
	metricActiveSubscriptions  metric = "active_subscriptions"
	metricCourses              metric = "courses"
	metricUpcomingEvents       metric = "upcoming_events"
)

// recentWindow bounds the "recent" counters of the overview.
const recentWindow = 30 * 24 * time.Hour

type Overview struct {
	Members              int64   `json:"members"`
	MembersGrowthPct     float64 `json:"members_growth_pct"`
	Posts                int64   `json:"posts"`
	PostsGrowthPct       float64 `json:"posts_growth_pct"`
	PendingSubscriptions int64   `json:"pending_subscriptions"`
	ActiveSubscriptions  int64   `json:"active_subscriptions"`
	Courses              int64   `json:"courses"`
	UpcomingEvents       int64   `json:"upcoming_events"`
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// GrowthPct expresses the recent count as a rounded percentage of the total.
// A zero total reads as zero growth rather than dividing by zero.
func GrowthPct(total, recent int64) float64 {
	denom := total
	if denom < 1 {
		denom = 1
	}
	return math.Round(float64(recent) / float64(denom) * 100)
}

func (s *Service) countMetric(ctx context.Context, communityID string, m metric, since time.Time) (int64, error) {
	var n int64
	q := s.db.WithContext(ctx)
	switch m {
	case metricMembers:
		q = q.Model(&models.CommunityMember{}).Where("community_id = ?", communityID)
	case metricRecentMembers:
		q = q.Model(&models.CommunityMember{}).Where("community_id = ? AND created_at >= ?", communityID, since)
	case metricPosts:
		q = q.Model(&models.Post{}).Where("community_id = ?", communityID)
	case metricRecentPosts:
		q = q.Model(&models.Post{}).Where("community_id = ? AND created_at >= ?", communityID, since)
	case metricPendingSubscriptions:
		q = q.Model(&models.CommunitySubscription{}).
			Where("community_id = ? AND status = ?", communityID, types.SubscriptionStatusPending)
	case metricActiveSubscriptions:
		q = q.Model(&models.CommunitySubscription{}).
			Where("community_id = ? AND status = ?", communityID, types.SubscriptionStatusActive)
	case metricCourses:
		q = q.Model(&models.Course{}).Where("community_id = ?", communityID)
	case metricUpcomingEvents:
		q = q.Model(&models.Event{}).Where("community_id = ? AND start_at >= ?", communityID, time.Now())
	default:
		return 0, fmt.Errorf("unknown metric: %s", m)
	}
	if err := q.Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", m, err)
	}
	return n, nil
}

// CommunityOverview fans the counters out in parallel and assembles the
// dashboard card. Any failed counter fails the whole report.
func (s *Service) CommunityOverview(ctx context.Context, communityID string) (*Overview, error) {
	metrics := []metric{
		metricMembers, metricRecentMembers,
		metricPosts, metricRecentPosts,
		metricPendingSubscriptions, metricActiveSubscriptions,
		metricCourses, metricUpcomingEvents,
	}
	since := time.Now().Add(-recentWindow)

	var wg sync.WaitGroup
	errChan := make(chan error, len(metrics))
	resChan := make(chan *lo.Entry[metric, int64], len(metrics))

	for _, m := range metrics {
		wg.Add(1)
		go func(m metric) {
			defer wg.Done()
			n, err := s.countMetric(ctx, communityID, m, since)
			if err != nil {
				errChan <- err
				return
			}
			resChan <- &lo.Entry[metric, int64]{Key: m, Value: n}
		}(m)
	}

	go func() { wg.Wait(); close(errChan); close(resChan) }()

	counts := make(map[metric]int64, len(metrics))
	for i := 0; i < len(metrics); i++ {
		select {
		case err := <-errChan:
			if err != nil {
				return nil, err
			}
		case entry := <-resChan:
			counts[entry.Key] = entry.Value
		}
	}

	return &Overview{
		Members:              counts[metricMembers],
		MembersGrowthPct:     GrowthPct(counts[metricMembers], counts[metricRecentMembers]),
		Posts:                counts[metricPosts],
		PostsGrowthPct:       GrowthPct(counts[metricPosts], counts[metricRecentPosts]),
		PendingSubscriptions: counts[metricPendingSubscriptions],
		ActiveSubscriptions:  counts[metricActiveSubscriptions],
		Courses:              counts[metricCourses],
		UpcomingEvents:       counts[metricUpcomingEvents],
	}, nil
}

const (
	metricProfiles          metric = "profiles"
	metricRecentProfiles    metric = "recent_profiles"
	metricCommunities       metric = "communities"
	metricRecentCommunities metric = "recent_communities"
	metricAllPosts          metric = "all_posts"
	metricRecentAllPosts    metric = "recent_all_posts"
	metricAllSubscriptions  metric = "all_subscriptions"
	metricAllPendingSubs    metric = "all_pending_subscriptions"
	metricAllActiveSubs     metric = "all_active_subscriptions"
)

type PlatformOverview struct {
	Profiles             int64   `json:"profiles"`
	ProfilesGrowthPct    float64 `json:"profiles_growth_pct"`
	Communities          int64   `json:"communities"`
	CommunitiesGrowthPct float64 `json:"communities_growth_pct"`
	Posts                int64   `json:"posts"`
	PostsGrowthPct       float64 `json:"posts_growth_pct"`
	Subscriptions        int64   `json:"subscriptions"`
	PendingSubscriptions int64   `json:"pending_subscriptions"`
	ActiveSubscriptions  int64   `json:"active_subscriptions"`
}

func (s *Service) countPlatformMetric(ctx context.Context, m metric, since time.Time) (int64, error) {
	var n int64
	q := s.db.WithContext(ctx)
	switch m {
	case metricProfiles:
		q = q.Model(&models.Profile{})
	case metricRecentProfiles:
		q = q.Model(&models.Profile{}).Where("created_at >= ?", since)
	case metricCommunities:
		q = q.Model(&models.Community{})
	case metricRecentCommunities:
		q = q.Model(&models.Community{}).Where("created_at >= ?", since)
	case metricAllPosts:
		q = q.Model(&models.Post{})
	case metricRecentAllPosts:
		q = q.Model(&models.Post{}).Where("created_at >= ?", since)
	case metricAllSubscriptions:
		q = q.Model(&models.CommunitySubscription{})
	case metricAllPendingSubs:
		q = q.Model(&models.CommunitySubscription{}).Where("status = ?", types.SubscriptionStatusPending)
	case metricAllActiveSubs:
		q = q.Model(&models.CommunitySubscription{}).Where("status = ?", types.SubscriptionStatusActive)
	default:
		return 0, fmt.Errorf("unknown metric: %s", m)
	}
	if err := q.Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", m, err)
	}
	return n, nil
}

// Overview is the platform-wide dashboard card. windowDays bounds the
// growth counters; zero falls back to the default window.
func (s *Service) Overview(ctx context.Context, windowDays int) (*PlatformOverview, error) {
	window := recentWindow
	if windowDays > 0 {
		window = time.Duration(windowDays) * 24 * time.Hour
	}
	since := time.Now().Add(-window)

	metrics := []metric{
		metricProfiles, metricRecentProfiles,
		metricCommunities, metricRecentCommunities,
		metricAllPosts, metricRecentAllPosts,
		metricAllSubscriptions, metricAllPendingSubs, metricAllActiveSubs,
	}

	var wg sync.WaitGroup
	errChan := make(chan error, len(metrics))
	resChan := make(chan *lo.Entry[metric, int64], len(metrics))

	for _, m := range metrics {
		wg.Add(1)
		go func(m metric) {
			defer wg.Done()
			n, err := s.countPlatformMetric(ctx, m, since)
			if err != nil {
				errChan <- err
				return
			}
			resChan <- &lo.Entry[metric, int64]{Key: m, Value: n}
		}(m)
	}

	go func() { wg.Wait(); close(errChan); close(resChan) }()

	counts := make(map[metric]int64, len(metrics))
	for i := 0; i < len(metrics); i++ {
		select {
		case err := <-errChan:
			if err != nil {
				return nil, err
			}
		case entry := <-resChan:
			counts[entry.Key] = entry.Value
		}
	}

	return &PlatformOverview{
		Profiles:             counts[metricProfiles],
		ProfilesGrowthPct:    GrowthPct(counts[metricProfiles], counts[metricRecentProfiles]),
		Communities:          counts[metricCommunities],
		CommunitiesGrowthPct: GrowthPct(counts[metricCommunities], counts[metricRecentCommunities]),
		Posts:                counts[metricAllPosts],
		PostsGrowthPct:       GrowthPct(counts[metricAllPosts], counts[metricRecentAllPosts]),
		Subscriptions:        counts[metricAllSubscriptions],
		PendingSubscriptions: counts[metricAllPendingSubs],
		ActiveSubscriptions:  counts[metricAllActiveSubs],
	}, nil
}

type TopCommunity struct {
	CommunityID  string `json:"community_id"`
	Slug         string `json:"slug"`
	Name         string `json:"name"`
	MembersCount int64  `json:"members_count"`
	RecentJoins  int64  `json:"recent_joins"`
}

// TopCommunities ranks communities by membership for the platform dashboard.
func (s *Service) TopCommunities(ctx context.Context, limit int) ([]TopCommunity, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	since := time.Now().Add(-recentWindow)

	var results []TopCommunity
	err := s.db.WithContext(ctx).Raw(`
SELECT c.id as community_id, c.slug, c.name, c.members_count,
       COUNT(m.id) FILTER (WHERE m.created_at >= ?) as recent_joins
FROM communities c
LEFT JOIN community_members m ON m.community_id = c.id
GROUP BY c.id, c.slug, c.name, c.members_count
ORDER BY c.members_count DESC, c.created_at ASC
LIMIT ?
`, since, limit).Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to rank communities: %w", err)
	}
	return results, nil
}

// SnapshotSeries returns the persisted daily counters of one community,
// oldest first, for charting.
func (s *Service) SnapshotSeries(ctx context.Context, communityID string, from, to string) ([]models.CommunityDailySnapshot, error) {
	q := s.db.WithContext(ctx).Where("community_id = ?", communityID)
	if from != "" {
		q = q.Where("snapshot_date >= ?", from)
	}
	if to != "" {
		q = q.Where("snapshot_date <= ?", to)
	}

	var series []models.CommunityDailySnapshot
	if err := q.Order("snapshot_date ASC").Find(&series).Error; err != nil {
		return nil, fmt.Errorf("failed to load snapshot series: %w", err)
	}
	return series, nil
}
