package service

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/kevinpauljacob/cal/internal/api/dto"
	"github.com/kevinpauljacob/cal/internal/model"
	"github.com/kevinpauljacob/cal/internal/pkg/feed"
)

type fakeListingRepo struct {
	mu       sync.Mutex
	listings []*model.Listing
	err      error
}

func (r *fakeListingRepo) find(username string) *model.Listing {
	for _, l := range r.listings {
		if l.TwitterUsername == username {
			return l
		}
	}
	return nil
}

func (r *fakeListingRepo) CreateListing(_ context.Context, listing *model.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.listings = append(r.listings, listing)
	return nil
}

func (r *fakeListingRepo) GetByUsername(_ context.Context, username string) (*model.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.find(username), r.err
}

func (r *fakeListingRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.find(username) != nil, r.err
}

func (r *fakeListingRepo) ListActive(_ context.Context, search string) ([]*model.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	search = strings.ToLower(search)
	var out []*model.Listing
	for _, l := range r.listings {
		if !l.Active {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(l.ScreenName), search) &&
			!strings.Contains(strings.ToLower(l.TwitterUsername), search) {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (r *fakeListingRepo) CountActive(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, l := range r.listings {
		if l.Active {
			n++
		}
	}
	return n, r.err
}

func (r *fakeListingRepo) DeactivateExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, l := range r.listings {
		if l.Active && l.LaunchDate != nil && !l.LaunchDate.After(now) {
			l.Active = false
			n++
		}
	}
	return n, r.err
}

func (r *fakeListingRepo) UpdateFollowers(_ context.Context, username string, followers int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l := r.find(username); l != nil {
		l.Followers = followers
		l.LastUpdated = at
	}
	return r.err
}

func (r *fakeListingRepo) UpdateLaunchDate(_ context.Context, username, createdBy string, launchDate time.Time, active bool) (*model.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l := r.find(username)
	if l == nil || l.CreatedBy != createdBy {
		return nil, r.err
	}
	l.LaunchDate = &launchDate
	l.Active = active
	return l, r.err
}

type fakeMindShareRepo struct {
	mu        sync.Mutex
	snapshots []*model.MindShare
	insertErr error
}

func (r *fakeMindShareRepo) InsertSnapshot(_ context.Context, snapshot *model.MindShare) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return r.insertErr
	}
	r.snapshots = append(r.snapshots, snapshot)
	return nil
}

func (r *fakeMindShareRepo) FindSince(_ context.Context, username string, since time.Time) ([]*model.MindShare, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.MindShare
	for _, s := range r.snapshots {
		if s.TwitterUsername == username && !s.Date.Before(since) {
			out = append(out, s)
		}
	}
	slices.SortFunc(out, func(a, b *model.MindShare) int { return b.Date.Compare(a.Date) })
	return out, nil
}

func (r *fakeMindShareRepo) FindSinceByUsernames(ctx context.Context, usernames []string, since time.Time) (map[string][]*model.MindShare, error) {
	out := make(map[string][]*model.MindShare, len(usernames))
	for _, u := range usernames {
		snaps, _ := r.FindSince(ctx, u, since)
		if len(snaps) > 0 {
			out[u] = snaps
		}
	}
	return out, nil
}

// fakeSearcher 按查询语句返回预设的页序列
type fakeSearcher struct {
	mu       sync.Mutex
	pages    map[string][]*feed.SearchPage
	errs     map[string]error
	profiles map[string]*feed.UserInfo
	calls    map[string]int
}

func newFakeSearcher() *fakeSearcher {
	return &fakeSearcher{
		pages:    map[string][]*feed.SearchPage{},
		errs:     map[string]error{},
		profiles: map[string]*feed.UserInfo{},
		calls:    map[string]int{},
	}
}

func (s *fakeSearcher) script(handle string, pages ...*feed.SearchPage) {
	s.pages[feed.MentionQuery(handle, 24)] = pages
}

func (s *fakeSearcher) fail(handle string, err error) {
	s.errs[feed.MentionQuery(handle, 24)] = err
}

func (s *fakeSearcher) Search(_ context.Context, query, _ string) (*feed.SearchPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.calls[query]
	s.calls[query]++
	if err := s.errs[query]; err != nil {
		return nil, err
	}
	pages := s.pages[query]
	if i >= len(pages) {
		return &feed.SearchPage{}, nil
	}
	return pages[i], nil
}

func (s *fakeSearcher) UserInfo(_ context.Context, userName string) (*feed.UserInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.profiles[userName]; ok {
		return p, nil
	}
	return nil, feed.ErrExternalAPI
}

type fakeTrendingCache struct {
	items       map[string][]*dto.TrendingDTO
	invalidated int
}

func (c *fakeTrendingCache) Get(_ context.Context, timeframe string) ([]*dto.TrendingDTO, bool) {
	items, ok := c.items[timeframe]
	return items, ok
}

func (c *fakeTrendingCache) Set(_ context.Context, timeframe string, items []*dto.TrendingDTO) {
	if c.items == nil {
		c.items = map[string][]*dto.TrendingDTO{}
	}
	c.items[timeframe] = items
}

func (c *fakeTrendingCache) Invalidate(context.Context) {
	c.items = nil
	c.invalidated++
}

type recordingPublisher struct {
	events []*ListingCreatedEvent
	err    error
}

func (p *recordingPublisher) PublishListingCreated(_ context.Context, event *ListingCreatedEvent) error {
	p.events = append(p.events, event)
	return p.err
}

var errBoom = errors.New("boom")

func noSleep(context.Context, time.Duration) error { return nil }

func ptrTime(t time.Time) *time.Time { return &t }

// snapshotWithScore 构造 score = engagement/views*100 的快照
func snapshotWithScore(handle string, at time.Time, score float64) *model.MindShare {
	return &model.MindShare{
		TwitterUsername: handle,
		Date:            at,
		EngagementCount: int64(score * 100),
		ViewsCount:      10000,
		TweetCount:      10,
	}
}
