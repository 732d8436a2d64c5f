package service

import (
	"context"
	"testing"
	"time"

	"github.com/kevinpauljacob/cal/internal/api/dto"
	"github.com/kevinpauljacob/cal/internal/model"
	"github.com/kevinpauljacob/cal/internal/pkg/feed"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestListingService(listings *fakeListingRepo, searcher *fakeSearcher, publisher ListingEventPublisher) *listingServiceImpl {
	svc := NewListingService(listings, searcher, publisher).(*listingServiceImpl)
	svc.now = func() time.Time { return asOf }
	return svc
}

func validCreateDTO() *dto.CreateListingDTO {
	return &dto.CreateListingDTO{
		TwitterUsername:  "@alpha ",
		Category:         "meme",
		LaunchDate:       asOf.Add(72 * time.Hour).Format(time.RFC3339),
		TelegramUserName: "alpha_tg",
		Description:      "a meme coin",
		Website:          "https://alpha.example.com",
	}
}

func TestCreateListing(t *testing.T) {
	listings := &fakeListingRepo{}
	searcher := newFakeSearcher()
	searcher.profiles["alpha"] = &feed.UserInfo{
		UserName: "alpha", Name: "Alpha Coin", ProfilePicture: "https://img/alpha.png",
		Description: "bio", Followers: 1234,
	}
	publisher := &recordingPublisher{}
	svc := newTestListingService(listings, searcher, publisher)

	res, err := svc.CreateListing(context.Background(), "submitter", validCreateDTO())
	require.NoError(t, err)
	assert.Equal(t, "alpha", res.TwitterUsername)
	assert.Equal(t, "Alpha Coin", res.ScreenName)
	assert.Equal(t, int64(1234), res.Followers)
	require.NotNil(t, res.LaunchDate)
	assert.True(t, res.LaunchDate.Equal(asOf.Add(72*time.Hour)))

	require.Len(t, listings.listings, 1)
	stored := listings.listings[0]
	assert.True(t, stored.Active)
	assert.Equal(t, "submitter", stored.CreatedBy)
	assert.Equal(t, asOf, stored.CreatedAt)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, "alpha", publisher.events[0].TwitterUsername)
}

func TestCreateListingPastLaunchIsInactive(t *testing.T) {
	listings := &fakeListingRepo{}
	searcher := newFakeSearcher()
	searcher.profiles["alpha"] = &feed.UserInfo{UserName: "alpha"}
	publisher := &recordingPublisher{}
	svc := newTestListingService(listings, searcher, publisher)

	req := validCreateDTO()
	req.LaunchDate = asOf.Add(-time.Hour).Format(time.RFC3339)
	_, err := svc.CreateListing(context.Background(), "submitter", req)
	require.NoError(t, err)
	assert.False(t, listings.listings[0].Active)
	assert.Empty(t, publisher.events)
}

func TestCreateListingPublishFailureIsNotFatal(t *testing.T) {
	searcher := newFakeSearcher()
	searcher.profiles["alpha"] = &feed.UserInfo{UserName: "alpha"}
	svc := newTestListingService(&fakeListingRepo{}, searcher, &recordingPublisher{err: errBoom})

	_, err := svc.CreateListing(context.Background(), "submitter", validCreateDTO())
	assert.NoError(t, err)
}

func TestCreateListingErrors(t *testing.T) {
	t.Run("duplicate", func(t *testing.T) {
		listings := &fakeListingRepo{listings: []*model.Listing{{TwitterUsername: "alpha"}}}
		svc := newTestListingService(listings, newFakeSearcher(), nil)
		_, err := svc.CreateListing(context.Background(), "submitter", validCreateDTO())
		assert.ErrorIs(t, err, ErrListingExists)
	})

	t.Run("upstream failure", func(t *testing.T) {
		listings := &fakeListingRepo{}
		svc := newTestListingService(listings, newFakeSearcher(), nil)
		_, err := svc.CreateListing(context.Background(), "submitter", validCreateDTO())
		assert.ErrorIs(t, err, ErrUpstream)
		assert.Empty(t, listings.listings)
	})

	t.Run("invalid category", func(t *testing.T) {
		req := validCreateDTO()
		req.Category = "nft"
		svc := newTestListingService(&fakeListingRepo{}, newFakeSearcher(), nil)
		_, err := svc.CreateListing(context.Background(), "submitter", req)
		assert.ErrorIs(t, err, ErrParamInvalid)
	})

	t.Run("invalid launch date", func(t *testing.T) {
		req := validCreateDTO()
		req.LaunchDate = "next friday"
		svc := newTestListingService(&fakeListingRepo{}, newFakeSearcher(), nil)
		_, err := svc.CreateListing(context.Background(), "submitter", req)
		assert.ErrorIs(t, err, ErrParamInvalid)
	})
}

func TestUpdateLaunchDate(t *testing.T) {
	listing := &model.Listing{TwitterUsername: "alpha", CreatedBy: "owner", Active: false}
	listings := &fakeListingRepo{listings: []*model.Listing{listing}}
	svc := newTestListingService(listings, newFakeSearcher(), nil)
	ctx := context.Background()
	future := asOf.Add(48 * time.Hour)

	res, err := svc.UpdateLaunchDate(ctx, "owner", "alpha", &dto.UpdateLaunchDateDTO{LaunchDate: future.Format(time.RFC3339)})
	require.NoError(t, err)
	assert.True(t, res.LaunchDate.Equal(future))
	assert.True(t, listing.Active)

	_, err = svc.UpdateLaunchDate(ctx, "intruder", "alpha", &dto.UpdateLaunchDateDTO{LaunchDate: future.Format(time.RFC3339)})
	assert.ErrorIs(t, err, ErrListingNotFound)

	_, err = svc.UpdateLaunchDate(ctx, "owner", "alpha", &dto.UpdateLaunchDateDTO{LaunchDate: "soon"})
	assert.ErrorIs(t, err, ErrParamInvalid)
}

func TestCountActive(t *testing.T) {
	past := asOf.Add(-time.Hour)
	future := asOf.Add(time.Hour)
	listings := &fakeListingRepo{listings: []*model.Listing{
		{TwitterUsername: "a", Active: true, LaunchDate: &future},
		{TwitterUsername: "b", Active: true, LaunchDate: &past},
		{TwitterUsername: "c", Active: false},
	}}
	svc := newTestListingService(listings, newFakeSearcher(), nil)

	n, err := svc.CountActive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestLookupError(t *testing.T) {
	code, ok := LookupError(&InvalidParamError{Param: "page", Value: "x"})
	require.True(t, ok)
	assert.Equal(t, "INVALID_PARAMETER", code.Code)

	code, ok = LookupError(ErrPageOutOfRange)
	require.True(t, ok)
	assert.Equal(t, 404, code.Status)

	_, ok = LookupError(errBoom)
	assert.False(t, ok)
}
