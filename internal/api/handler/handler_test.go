package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kevinpauljacob/cal/internal/api/config"
	"github.com/kevinpauljacob/cal/internal/api/dto"
	"github.com/kevinpauljacob/cal/internal/api/middleware"
	"github.com/kevinpauljacob/cal/internal/pkg/security"
	"github.com/kevinpauljacob/cal/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubRanking struct {
	lastQuery service.RankQuery
	page      *dto.ListingPageDTO
	err       error
}

func (s *stubRanking) Rank(_ context.Context, q service.RankQuery) (*dto.ListingPageDTO, error) {
	s.lastQuery = q
	return s.page, s.err
}

func (s *stubRanking) Trending(_ context.Context, timeframe string) ([]*dto.TrendingDTO, error) {
	if timeframe != "" && timeframe != "24h" && timeframe != "7d" {
		return nil, &service.InvalidParamError{Param: "timeframe", Value: timeframe, Valid: service.Timeframes()}
	}
	return []*dto.TrendingDTO{{Name: "Alpha", Percentage: 12.5}}, nil
}

type stubWindows struct{}

func (stubWindows) ComputeWindows(_ context.Context, handle string, _ time.Time) (*dto.ListingMindshareDTO, error) {
	if handle != "alpha" {
		return nil, service.ErrListingNotFound
	}
	return &dto.ListingMindshareDTO{
		TwitterUsername: "alpha",
		Mindshare:       dto.MindshareDTO{H24: dto.WindowDTO{Score: 30, Change: 50}, D7: dto.WindowDTO{Score: 20}},
	}, nil
}

type stubCollector struct {
	err error
}

func (s stubCollector) Collect(context.Context) (*dto.CollectReportDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.CollectReportDTO{Processed: 2, Recorded: 1, NoActivity: 1}, nil
}

type stubListings struct {
	creator string
	req     *dto.CreateListingDTO
}

func (s *stubListings) CreateListing(_ context.Context, creator string, req *dto.CreateListingDTO) (*dto.ListingDTO, error) {
	s.creator, s.req = creator, req
	return &dto.ListingDTO{TwitterUsername: req.TwitterUsername}, nil
}

func (s *stubListings) UpdateLaunchDate(_ context.Context, creator, username string, _ *dto.UpdateLaunchDateDTO) (*dto.ListingDTO, error) {
	if creator != "owner" || username != "alpha" {
		return nil, service.ErrListingNotFound
	}
	return &dto.ListingDTO{TwitterUsername: username}, nil
}

func (s *stubListings) CountActive(context.Context) (int64, error) { return 7, nil }

func newTestRouter(ranking *stubRanking, collector Collector, listings *stubListings) *gin.Engine {
	r := gin.New()
	mh := NewMindshareHandler(ranking, stubWindows{}, collector, 10)
	lh := NewListingHandler(listings)

	r.GET("/api/listings", mh.GetListings)
	r.GET("/api/listings/count", lh.GetCount)
	r.GET("/api/listings/:handle/mindshare", mh.GetListingMindshare)
	r.GET("/api/trending", mh.GetTrending)

	auth := r.Group("/api", middleware.AuthMiddleware(nil))
	auth.POST("/listings", lh.CreateListing)
	auth.PUT("/listings/:handle/launch-date", lh.UpdateLaunchDate)
	auth.POST("/mindshare/collect", mh.Collect)
	return r
}

func do(r http.Handler, method, path string, body []byte, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestGetListingsPassesQuery(t *testing.T) {
	ranking := &stubRanking{page: &dto.ListingPageDTO{
		Listings:   []*dto.ListingDTO{},
		Pagination: dto.PaginationDTO{CurrentPage: 1, PageSize: 10},
	}}
	r := newTestRouter(ranking, stubCollector{}, &stubListings{})

	w := do(r, http.MethodGet, "/api/listings?sortField=followers&sortOrder=asc&page=2&q=pepe", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, service.RankQuery{SortField: "followers", SortOrder: "asc", Page: 2, PageSize: 10, Search: "pepe"}, ranking.lastQuery)
	assert.JSONEq(t, `{"status":"success","data":{"listings":[],"pagination":{"total":0,"pages":0,"currentPage":1,"pageSize":10}}}`, w.Body.String())
}

func TestGetListingsInvalidParams(t *testing.T) {
	r := newTestRouter(&stubRanking{}, stubCollector{}, &stubListings{})

	w := do(r, http.MethodGet, "/api/listings?sortField=volume", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "INVALID_PARAMETER", body["code"])
	assert.Equal(t, []any{"followers", "mindshareScore", "mindshareChange", "launchDate"}, body["validValues"])

	w = do(r, http.MethodGet, "/api/listings?page=abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetListingsPageOutOfRange(t *testing.T) {
	r := newTestRouter(&stubRanking{err: service.ErrPageOutOfRange}, stubCollector{}, &stubListings{})

	w := do(r, http.MethodGet, "/api/listings?page=9", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NO_RESULTS", decode(t, w)["code"])
}

func TestGetListingMindshare(t *testing.T) {
	r := newTestRouter(&stubRanking{}, stubCollector{}, &stubListings{})

	w := do(r, http.MethodGet, "/api/listings/alpha/mindshare", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]any)
	mindshare := data["mindshare"].(map[string]any)
	assert.Equal(t, 30.0, mindshare["24h"].(map[string]any)["score"])
	assert.Equal(t, 50.0, mindshare["24h"].(map[string]any)["change"])
	assert.Equal(t, 20.0, mindshare["7d"].(map[string]any)["score"])

	w = do(r, http.MethodGet, "/api/listings/ghost/mindshare", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetTrendingAndCount(t *testing.T) {
	r := newTestRouter(&stubRanking{}, stubCollector{}, &stubListings{})

	w := do(r, http.MethodGet, "/api/trending?timeframe=7d", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/api/trending?timeframe=1y", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodGet, "/api/listings/count", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"success","data":{"count":7}}`, w.Body.String())
}

func withJWTConfig(t *testing.T) {
	t.Helper()
	prev := config.Cfg
	config.Cfg = &config.Config{JWT: config.JWTConfig{Secret: "handler-secret", Expiration: time.Hour}}
	t.Cleanup(func() { config.Cfg = prev })
}

func TestAuthenticatedRoutes(t *testing.T) {
	withJWTConfig(t)
	listings := &stubListings{}
	r := newTestRouter(&stubRanking{}, stubCollector{}, listings)

	body := []byte(`{"twitterUsername":"alpha","category":"meme","launchDate":"2030-01-01T00:00:00Z","telegramUserName":"a","description":"d"}`)

	w := do(r, http.MethodPost, "/api/listings", body, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := security.GenerateToken("owner")
	require.NoError(t, err)

	w = do(r, http.MethodPost, "/api/listings", body, token)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "owner", listings.creator)
	assert.Equal(t, "alpha", listings.req.TwitterUsername)

	w = do(r, http.MethodPost, "/api/listings", []byte(`{not json`), token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPut, "/api/listings/alpha/launch-date", []byte(`{"launchDate":"2030-01-01T00:00:00Z"}`), token)
	assert.Equal(t, http.StatusOK, w.Code)

	other, err := security.GenerateToken("intruder")
	require.NoError(t, err)
	w = do(r, http.MethodPut, "/api/listings/alpha/launch-date", []byte(`{"launchDate":"2030-01-01T00:00:00Z"}`), other)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCollectConflict(t *testing.T) {
	withJWTConfig(t)
	token, err := security.GenerateToken("owner")
	require.NoError(t, err)

	r := newTestRouter(&stubRanking{}, stubCollector{}, &stubListings{})
	w := do(r, http.MethodPost, "/api/mindshare/collect", nil, token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2.0, decode(t, w)["data"].(map[string]any)["processed"])

	r = newTestRouter(&stubRanking{}, stubCollector{err: service.ErrCollectionRunning}, &stubListings{})
	w = do(r, http.MethodPost, "/api/mindshare/collect", nil, token)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "COLLECTION_RUNNING", decode(t, w)["code"])
}

func TestRevokedTokenRejected(t *testing.T) {
	withJWTConfig(t)
	token, err := security.GenerateToken("owner")
	require.NoError(t, err)

	r := gin.New()
	revoked := func(context.Context, string) (bool, error) { return true, nil }
	r.GET("/private", middleware.AuthMiddleware(revoked), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := do(r, http.MethodGet, "/private", nil, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetListingsClampsPage(t *testing.T) {
	ranking := &stubRanking{page: &dto.ListingPageDTO{Listings: []*dto.ListingDTO{}}}
	r := newTestRouter(ranking, stubCollector{}, &stubListings{})

	w := do(r, http.MethodGet, "/api/listings?page=-2", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, ranking.lastQuery.Page)
}
