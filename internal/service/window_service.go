package service

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"github.com/kevinpauljacob/cal/internal/api/dto"
	"github.com/kevinpauljacob/cal/internal/model"
	"github.com/kevinpauljacob/cal/internal/repository"
)

const (
	Window24h     = 24 * time.Hour
	Window7d      = 7 * 24 * time.Hour
	HistoryWindow = 2 * Window7d
)

// WindowMetrics 窗口聚合结果，Latest 为最近一次快照 (无快照时为 nil)
type WindowMetrics struct {
	Mindshare dto.MindshareDTO
	Latest    *model.MindShare
	Count     int
}

// EngagementRate 最近一次快照的平均每帖互动量
func (w WindowMetrics) EngagementRate() float64 {
	if w.Latest == nil {
		return 0
	}
	return round2(EngagementRate(w.Latest.EngagementCount, w.Latest.TweetCount))
}

// AggregateWindows 计算 asOf 时刻的 24h / 7d 窗口指标
// 只使用 [asOf-14d, asOf] 内的快照，输入顺序任意
func AggregateWindows(snapshots []*model.MindShare, asOf time.Time) WindowMetrics {
	historyStart := asOf.Add(-HistoryWindow)
	currentStart := asOf.Add(-Window7d)

	history := make([]*model.MindShare, 0, len(snapshots))
	for _, s := range snapshots {
		if s == nil || s.Date.After(asOf) || s.Date.Before(historyStart) {
			continue
		}
		history = append(history, s)
	}
	slices.SortStableFunc(history, func(a, b *model.MindShare) int {
		return b.Date.Compare(a.Date)
	})

	result := WindowMetrics{Count: len(history)}
	if len(history) == 0 {
		return result
	}
	result.Latest = history[0]

	// 24h: 最新值对比上一次快照
	latest := snapshotScore(history[0])
	change24h := 0.0
	if len(history) > 1 {
		change24h = percentChange(latest, snapshotScore(history[1]))
	}

	// 7d: 当前窗口均值对比前一窗口均值
	var curSum, prevSum float64
	var curN, prevN int
	for _, s := range history {
		if s.Date.Before(currentStart) {
			prevSum += snapshotScore(s)
			prevN++
		} else {
			curSum += snapshotScore(s)
			curN++
		}
	}
	current7d := latest
	if curN > 0 {
		current7d = curSum / float64(curN)
	}
	previous7d := current7d
	if prevN > 0 {
		previous7d = prevSum / float64(prevN)
	}

	result.Mindshare = dto.MindshareDTO{
		H24: dto.WindowDTO{Score: round2(latest), Change: round2(change24h)},
		D7:  dto.WindowDTO{Score: round2(current7d), Change: round2(percentChange(current7d, previous7d))},
	}
	return result
}

type WindowService interface {
	// ComputeWindows 读取最近 14 天快照并聚合窗口指标
	ComputeWindows(ctx context.Context, handle string, asOf time.Time) (*dto.ListingMindshareDTO, error)
}

type windowServiceImpl struct {
	listingRepo   repository.ListingRepo
	mindShareRepo repository.MindShareRepo
}

func NewWindowService(listingRepo repository.ListingRepo, mindShareRepo repository.MindShareRepo) WindowService {
	return &windowServiceImpl{
		listingRepo:   listingRepo,
		mindShareRepo: mindShareRepo,
	}
}

func (s *windowServiceImpl) ComputeWindows(ctx context.Context, handle string, asOf time.Time) (*dto.ListingMindshareDTO, error) {
	handle = NormalizeHandle(handle)
	listing, err := s.listingRepo.GetByUsername(ctx, handle)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, ErrListingNotFound
	}

	snapshots, err := s.mindShareRepo.FindSince(ctx, listing.TwitterUsername, asOf.Add(-HistoryWindow))
	if err != nil {
		return nil, err
	}

	w := AggregateWindows(snapshots, asOf)
	res := &dto.ListingMindshareDTO{
		TwitterUsername: listing.TwitterUsername,
		Mindshare:       w.Mindshare,
		EngagementRate:  w.EngagementRate(),
		Snapshots:       w.Count,
	}
	if w.Latest != nil {
		res.ViewsCount = w.Latest.ViewsCount
		res.TweetCount = w.Latest.TweetCount
	}
	return res, nil
}

// NormalizeHandle 去除首尾空白与前导 @
func NormalizeHandle(handle string) string {
	return strings.TrimPrefix(strings.TrimSpace(handle), "@")
}

// compareLaunchDate 升序，无日期的排在最后
func compareLaunchDate(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		return a.Compare(*b)
	}
}

func compareHandle(a, b string) int {
	return cmp.Compare(strings.ToLower(a), strings.ToLower(b))
}
