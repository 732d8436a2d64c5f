package service

import (
	"context"
	"fmt"
	log "log/slog"
	"time"

	"github.com/kevinpauljacob/cal/internal/api/dto"
	"github.com/kevinpauljacob/cal/internal/model"
	"github.com/kevinpauljacob/cal/internal/pkg/feed"
	"github.com/kevinpauljacob/cal/internal/pkg/util"
	"github.com/kevinpauljacob/cal/internal/repository"

	"go.mongodb.org/mongo-driver/mongo"
)

type ListingService interface {
	// CreateListing 提交项目，拉取账号资料后入库并发布新项目事件
	CreateListing(ctx context.Context, creator string, req *dto.CreateListingDTO) (*dto.ListingDTO, error)
	// UpdateLaunchDate 仅提交者可修改，active 随新日期重新计算
	UpdateLaunchDate(ctx context.Context, creator, username string, req *dto.UpdateLaunchDateDTO) (*dto.ListingDTO, error)
	// CountActive 活跃项目数
	CountActive(ctx context.Context) (int64, error)
}

type listingServiceImpl struct {
	listingRepo repository.ListingRepo
	searcher    feed.Searcher
	publisher   ListingEventPublisher
	now         func() time.Time
}

func NewListingService(listingRepo repository.ListingRepo, searcher feed.Searcher, publisher ListingEventPublisher) ListingService {
	return &listingServiceImpl{
		listingRepo: listingRepo,
		searcher:    searcher,
		publisher:   publisher,
		now:         time.Now,
	}
}

func (s *listingServiceImpl) CreateListing(ctx context.Context, creator string, req *dto.CreateListingDTO) (*dto.ListingDTO, error) {
	req.TwitterUsername = NormalizeHandle(req.TwitterUsername)
	if err := util.ValidateDTO(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParamInvalid, err)
	}
	launchDate, err := time.Parse(time.RFC3339, req.LaunchDate)
	if err != nil {
		return nil, &InvalidParamError{Param: "launchDate", Value: req.LaunchDate}
	}

	exists, err := s.listingRepo.ExistsByUsername(ctx, req.TwitterUsername)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrListingExists
	}

	profile, err := s.searcher.UserInfo(ctx, req.TwitterUsername)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	now := s.now()
	launchDate = launchDate.UTC()
	listing := &model.Listing{
		TwitterUsername:  req.TwitterUsername,
		ScreenName:       profile.Name,
		ProfileImageURL:  profile.ProfilePicture,
		Bio:              profile.Description,
		Followers:        profile.Followers,
		Category:         req.Category,
		LaunchDate:       &launchDate,
		TelegramUserName: req.TelegramUserName,
		Description:      req.Description,
		Platform:         req.Platform,
		Website:          req.Website,
		CreatedBy:        creator,
		Active:           launchDate.After(now),
		CreatedAt:        now,
		LastUpdated:      now,
	}
	if err = s.listingRepo.CreateListing(ctx, listing); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrListingExists
		}
		return nil, err
	}

	if listing.Active && s.publisher != nil {
		event := &ListingCreatedEvent{TwitterUsername: listing.TwitterUsername, CreatedAt: now}
		if err = s.publisher.PublishListingCreated(ctx, event); err != nil {
			// 首次采集失败不影响提交，下一次定时批次会补上
			log.WarnContext(ctx, "publish listing created failed", "username", listing.TwitterUsername, "err", err)
		}
	}

	return listingToDTO(listing)
}

func (s *listingServiceImpl) UpdateLaunchDate(ctx context.Context, creator, username string, req *dto.UpdateLaunchDateDTO) (*dto.ListingDTO, error) {
	if err := util.ValidateDTO(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParamInvalid, err)
	}
	launchDate, err := time.Parse(time.RFC3339, req.LaunchDate)
	if err != nil {
		return nil, &InvalidParamError{Param: "launchDate", Value: req.LaunchDate}
	}
	launchDate = launchDate.UTC()

	listing, err := s.listingRepo.UpdateLaunchDate(ctx, NormalizeHandle(username), creator, launchDate, launchDate.After(s.now()))
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, ErrListingNotFound
	}
	return listingToDTO(listing)
}

func (s *listingServiceImpl) CountActive(ctx context.Context) (int64, error) {
	if _, err := s.listingRepo.DeactivateExpired(ctx, s.now()); err != nil {
		return 0, err
	}
	return s.listingRepo.CountActive(ctx)
}

func listingToDTO(listing *model.Listing) (*dto.ListingDTO, error) {
	return toListingDTO(&RankEntry{Listing: listing})
}
