package service

import (
	"context"
	log "log/slog"
	"time"

	"github.com/kevinpauljacob/cal/internal/api/config"
	"github.com/kevinpauljacob/cal/internal/api/dto"
	"github.com/kevinpauljacob/cal/internal/model"
	"github.com/kevinpauljacob/cal/internal/pkg/feed"
	"github.com/kevinpauljacob/cal/internal/pkg/metrics"
	"github.com/kevinpauljacob/cal/internal/repository"
)

type CollectorService interface {
	// CollectListing 拉取单个项目的提及帖子并追加快照，无帖子时返回 (nil, nil)
	CollectListing(ctx context.Context, listing *model.Listing, asOf time.Time) (*model.MindShare, error)
	// CollectByUsername 按账号采集，项目已下线时跳过
	CollectByUsername(ctx context.Context, username string) (*model.MindShare, error)
	// CollectAll 顺序采集所有活跃项目，单个项目失败不影响整批
	CollectAll(ctx context.Context) (*dto.CollectReportDTO, error)
}

type collectorServiceImpl struct {
	listingRepo   repository.ListingRepo
	mindShareRepo repository.MindShareRepo
	searcher      feed.Searcher
	cache         TrendingCache
	cfg           config.CollectorConfig
	sleep         func(ctx context.Context, d time.Duration) error
}

func NewCollectorService(listingRepo repository.ListingRepo, mindShareRepo repository.MindShareRepo,
	searcher feed.Searcher, cache TrendingCache, cfg config.CollectorConfig) CollectorService {
	if cfg.LookbackHours <= 0 {
		cfg.LookbackHours = 24
	}
	return &collectorServiceImpl{
		listingRepo:   listingRepo,
		mindShareRepo: mindShareRepo,
		searcher:      searcher,
		cache:         cache,
		cfg:           cfg,
		sleep:         feed.SleepContext,
	}
}

func (s *collectorServiceImpl) CollectListing(ctx context.Context, listing *model.Listing, asOf time.Time) (*model.MindShare, error) {
	query := feed.MentionQuery(listing.TwitterUsername, s.cfg.LookbackHours)
	opts := feed.PageOptions{
		MaxPages: s.cfg.MaxPages,
		DelayMin: s.cfg.DelayMin,
		DelayMax: s.cfg.DelayMax,
		Sleep:    s.sleep,
	}

	var engagement, views, followers int64
	posts := 0
	for page, err := range feed.Pages(ctx, s.searcher, query, opts) {
		if err != nil {
			return nil, err
		}
		for i := range page.Tweets {
			t := &page.Tweets[i]
			// 第一条 (最新) 帖子作者的粉丝数
			if posts == 0 {
				followers = t.Author.Followers
			}
			engagement += t.Engagement()
			views += t.ViewCount
			posts++
		}
	}

	if posts == 0 {
		return nil, nil
	}

	snapshot := &model.MindShare{
		TwitterUsername: listing.TwitterUsername,
		Date:            asOf,
		EngagementCount: engagement,
		ViewsCount:      views,
		TweetCount:      posts,
	}
	if err := s.mindShareRepo.InsertSnapshot(ctx, snapshot); err != nil {
		return nil, err
	}
	metrics.SnapshotsRecorded.Inc()

	if followers > 0 {
		if err := s.listingRepo.UpdateFollowers(ctx, listing.TwitterUsername, followers, asOf); err != nil {
			log.WarnContext(ctx, "update followers failed", "username", listing.TwitterUsername, "err", err)
		}
	}

	return snapshot, nil
}

func (s *collectorServiceImpl) CollectByUsername(ctx context.Context, username string) (*model.MindShare, error) {
	listing, err := s.listingRepo.GetByUsername(ctx, NormalizeHandle(username))
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, ErrListingNotFound
	}
	if !listing.Active {
		log.InfoContext(ctx, "listing inactive, skip collection", "username", listing.TwitterUsername)
		return nil, nil
	}
	return s.CollectListing(ctx, listing, time.Now())
}

func (s *collectorServiceImpl) CollectAll(ctx context.Context) (*dto.CollectReportDTO, error) {
	start := time.Now()
	metrics.CollectRuns.Inc()
	defer func() {
		metrics.CollectDuration.Observe(time.Since(start).Seconds())
	}()

	report := &dto.CollectReportDTO{}

	deactivated, err := s.listingRepo.DeactivateExpired(ctx, start)
	if err != nil {
		return nil, err
	}
	report.Deactivated = deactivated

	listings, err := s.listingRepo.ListActive(ctx, "")
	if err != nil {
		return nil, err
	}

	for _, listing := range listings {
		if ctx.Err() != nil {
			break
		}
		report.Processed++

		snapshot, err := s.CollectListing(ctx, listing, time.Now())
		switch {
		case err != nil:
			report.Failed++
			metrics.CollectProjects.WithLabelValues(metrics.ResultFailed).Inc()
			log.ErrorContext(ctx, "collect mindshare failed", "username", listing.TwitterUsername, "err", err)
		case snapshot == nil:
			report.NoActivity++
			metrics.CollectProjects.WithLabelValues(metrics.ResultNoActivity).Inc()
			log.InfoContext(ctx, "no activity", "username", listing.TwitterUsername)
		default:
			report.Recorded++
			metrics.CollectProjects.WithLabelValues(metrics.ResultRecorded).Inc()
			log.InfoContext(ctx, "snapshot recorded",
				"username", listing.TwitterUsername,
				"tweets", snapshot.TweetCount,
				"score", round2(snapshotScore(snapshot)))
		}
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}

	log.InfoContext(ctx, "mindshare collection finished",
		"deactivated", report.Deactivated,
		"processed", report.Processed,
		"recorded", report.Recorded,
		"no_activity", report.NoActivity,
		"failed", report.Failed,
		"elapsed", time.Since(start).String())

	return report, ctx.Err()
}
