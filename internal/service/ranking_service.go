package service

import (
	"cmp"
	"context"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/kevinpauljacob/cal/internal/api/dto"
	"github.com/kevinpauljacob/cal/internal/model"
	"github.com/kevinpauljacob/cal/internal/pkg/consts"
	"github.com/kevinpauljacob/cal/internal/repository"

	"github.com/jinzhu/copier"
)

const (
	DefaultPageSize = 10
	trendingLimit   = 10
)

// RankQuery 校验后的排行榜查询
type RankQuery struct {
	SortField string
	SortOrder string
	Page      int
	PageSize  int
	Search    string
}

// RankEntry 项目与其窗口指标
type RankEntry struct {
	Listing *model.Listing
	Windows WindowMetrics
}

func SortFields() []string {
	return []string{consts.SortFollowers, consts.SortMindshareScore, consts.SortMindshareChange, consts.SortLaunchDate}
}

func SortOrders() []string {
	return []string{consts.SortAsc, consts.SortDesc}
}

func ZeroPolicies() []string {
	return []string{consts.ZeroLastNumeric, consts.ZeroLastMindshare, consts.ZeroLastNone}
}

func Timeframes() []string {
	return []string{consts.Timeframe24h, consts.Timeframe7d}
}

// ParseRankQuery 校验查询参数，空值取默认: mindshareScore / desc / 1，页码小于 1 时取 1
func ParseRankQuery(raw dto.RankQueryDTO, pageSize int) (RankQuery, error) {
	// 只给 sortField 不给 sortOrder 时同样按 desc，排行榜默认高分在前
	q := RankQuery{
		SortField: consts.SortMindshareScore,
		SortOrder: consts.SortDesc,
		Page:      1,
		PageSize:  pageSize,
		Search:    strings.TrimSpace(raw.Query),
	}
	if q.PageSize <= 0 {
		q.PageSize = DefaultPageSize
	}

	if raw.SortField != "" {
		if !slices.Contains(SortFields(), raw.SortField) {
			return q, &InvalidParamError{Param: "sortField", Value: raw.SortField, Valid: SortFields()}
		}
		q.SortField = raw.SortField
	}

	if raw.SortOrder != "" {
		order := strings.ToLower(raw.SortOrder)
		if !slices.Contains(SortOrders(), order) {
			return q, &InvalidParamError{Param: "sortOrder", Value: raw.SortOrder, Valid: SortOrders()}
		}
		q.SortOrder = order
	}

	if raw.Page != "" {
		page, err := strconv.Atoi(strings.TrimSpace(raw.Page))
		if err != nil {
			return q, &InvalidParamError{Param: "page", Value: raw.Page}
		}
		// 小于 1 的页码按第一页处理
		q.Page = max(page, 1)
	}

	return q, nil
}

// zeroLastApplies 该排序字段是否把 0 值排到最后
func zeroLastApplies(policy, field string) bool {
	switch field {
	case consts.SortLaunchDate:
		return false
	case consts.SortFollowers:
		return policy == consts.ZeroLastNumeric
	default:
		return policy == consts.ZeroLastNumeric || policy == consts.ZeroLastMindshare
	}
}

func sortValue(e *RankEntry, field string) float64 {
	switch field {
	case consts.SortFollowers:
		return float64(e.Listing.Followers)
	case consts.SortMindshareChange:
		return e.Windows.Mindshare.H24.Change
	default:
		return e.Windows.Mindshare.H24.Score
	}
}

// SortEntries 复合排序键: (非零优先, 排序字段, 上线日期升序, 账号升序)
func SortEntries(entries []*RankEntry, field, order, zeroPolicy string) {
	zeroLast := zeroLastApplies(zeroPolicy, field)
	desc := order == consts.SortDesc

	slices.SortStableFunc(entries, func(a, b *RankEntry) int {
		var c int
		if field == consts.SortLaunchDate {
			c = compareLaunchDate(a.Listing.LaunchDate, b.Listing.LaunchDate)
			// 无日期始终排在最后，不随排序方向翻转
			if desc && a.Listing.LaunchDate != nil && b.Listing.LaunchDate != nil {
				c = -c
			}
		} else {
			av, bv := sortValue(a, field), sortValue(b, field)
			if zeroLast && (av == 0) != (bv == 0) {
				if av == 0 {
					return 1
				}
				return -1
			}
			c = cmp.Compare(av, bv)
			if desc {
				c = -c
			}
		}
		if c != 0 {
			return c
		}

		if c = compareLaunchDate(a.Listing.LaunchDate, b.Listing.LaunchDate); c != 0 {
			return c
		}
		return compareHandle(a.Listing.TwitterUsername, b.Listing.TwitterUsername)
	})
}

// Paginate 返回第 page 页与总页数，page > 1 且为空页时返回 ErrPageOutOfRange
func Paginate[T any](items []T, page, pageSize int) ([]T, int, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}
	total := len(items)
	pages := (total + pageSize - 1) / pageSize

	start := (page - 1) * pageSize
	if start >= total {
		if page > 1 {
			return nil, pages, ErrPageOutOfRange
		}
		return []T{}, pages, nil
	}
	end := min(start+pageSize, total)
	return items[start:end], pages, nil
}

// SelectTrending 选出指定窗口涨幅为正的项目，按涨幅降序
func SelectTrending(entries []*RankEntry, timeframe string, limit int) []*dto.TrendingDTO {
	window := func(e *RankEntry) dto.WindowDTO {
		if timeframe == consts.Timeframe7d {
			return e.Windows.Mindshare.D7
		}
		return e.Windows.Mindshare.H24
	}

	rising := make([]*RankEntry, 0, len(entries))
	for _, e := range entries {
		if window(e).Change > 0 {
			rising = append(rising, e)
		}
	}
	slices.SortStableFunc(rising, func(a, b *RankEntry) int {
		if c := cmp.Compare(window(b).Change, window(a).Change); c != 0 {
			return c
		}
		return compareHandle(a.Listing.TwitterUsername, b.Listing.TwitterUsername)
	})
	if len(rising) > limit {
		rising = rising[:limit]
	}

	res := make([]*dto.TrendingDTO, 0, len(rising))
	for _, e := range rising {
		name := e.Listing.ScreenName
		if name == "" {
			name = e.Listing.TwitterUsername
		}
		res = append(res, &dto.TrendingDTO{
			Name:       name,
			Avatar:     e.Listing.ProfileImageURL,
			Percentage: window(e).Change,
		})
	}
	return res
}

type RankingService interface {
	// Rank 排序并分页
	Rank(ctx context.Context, q RankQuery) (*dto.ListingPageDTO, error)
	// Trending 指定窗口涨幅最大的项目
	Trending(ctx context.Context, timeframe string) ([]*dto.TrendingDTO, error)
}

type rankingServiceImpl struct {
	listingRepo   repository.ListingRepo
	mindShareRepo repository.MindShareRepo
	cache         TrendingCache
	zeroPolicy    string
	now           func() time.Time
}

func NewRankingService(listingRepo repository.ListingRepo, mindShareRepo repository.MindShareRepo,
	cache TrendingCache, zeroPolicy string) RankingService {
	if !slices.Contains(ZeroPolicies(), zeroPolicy) {
		zeroPolicy = consts.ZeroLastNumeric
	}
	return &rankingServiceImpl{
		listingRepo:   listingRepo,
		mindShareRepo: mindShareRepo,
		cache:         cache,
		zeroPolicy:    zeroPolicy,
		now:           time.Now,
	}
}

func (s *rankingServiceImpl) Rank(ctx context.Context, q RankQuery) (*dto.ListingPageDTO, error) {
	entries, err := s.loadEntries(ctx, q.Search)
	if err != nil {
		return nil, err
	}

	SortEntries(entries, q.SortField, q.SortOrder, s.zeroPolicy)

	pageEntries, pages, err := Paginate(entries, q.Page, q.PageSize)
	if err != nil {
		return nil, err
	}

	listings := make([]*dto.ListingDTO, 0, len(pageEntries))
	for _, e := range pageEntries {
		item, err := toListingDTO(e)
		if err != nil {
			return nil, err
		}
		listings = append(listings, item)
	}

	return &dto.ListingPageDTO{
		Listings: listings,
		Pagination: dto.PaginationDTO{
			Total:       len(entries),
			Pages:       pages,
			CurrentPage: q.Page,
			PageSize:    q.PageSize,
		},
	}, nil
}

func (s *rankingServiceImpl) Trending(ctx context.Context, timeframe string) ([]*dto.TrendingDTO, error) {
	if timeframe == "" {
		timeframe = consts.Timeframe24h
	}
	if !slices.Contains(Timeframes(), timeframe) {
		return nil, &InvalidParamError{Param: "timeframe", Value: timeframe, Valid: Timeframes()}
	}

	if s.cache != nil {
		if items, ok := s.cache.Get(ctx, timeframe); ok {
			return items, nil
		}
	}

	entries, err := s.loadEntries(ctx, "")
	if err != nil {
		return nil, err
	}
	items := SelectTrending(entries, timeframe, trendingLimit)

	if s.cache != nil {
		s.cache.Set(ctx, timeframe, items)
	}
	return items, nil
}

// loadEntries 下线过期项目后加载活跃项目及其窗口指标，快照一次批量读取
func (s *rankingServiceImpl) loadEntries(ctx context.Context, search string) ([]*RankEntry, error) {
	asOf := s.now()
	if _, err := s.listingRepo.DeactivateExpired(ctx, asOf); err != nil {
		return nil, err
	}

	listings, err := s.listingRepo.ListActive(ctx, search)
	if err != nil {
		return nil, err
	}
	if len(listings) == 0 {
		return []*RankEntry{}, nil
	}

	usernames := make([]string, 0, len(listings))
	for _, l := range listings {
		usernames = append(usernames, l.TwitterUsername)
	}
	history, err := s.mindShareRepo.FindSinceByUsernames(ctx, usernames, asOf.Add(-HistoryWindow))
	if err != nil {
		return nil, err
	}

	entries := make([]*RankEntry, 0, len(listings))
	for _, l := range listings {
		entries = append(entries, &RankEntry{
			Listing: l,
			Windows: AggregateWindows(history[l.TwitterUsername], asOf),
		})
	}
	return entries, nil
}

func toListingDTO(e *RankEntry) (*dto.ListingDTO, error) {
	item := &dto.ListingDTO{}
	if err := copier.Copy(item, e.Listing); err != nil {
		return nil, err
	}
	item.Mindshare = e.Windows.Mindshare
	item.EngagementRate = e.Windows.EngagementRate()
	if e.Windows.Latest != nil {
		item.ViewsCount = e.Windows.Latest.ViewsCount
		item.TweetCount = e.Windows.Latest.TweetCount
	}
	return item, nil
}
