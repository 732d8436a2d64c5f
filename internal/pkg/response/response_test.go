package response

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kevinpauljacob/cal/internal/api/dto"
	"github.com/kevinpauljacob/cal/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func record(fn func(c *gin.Context)) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	fn(c)
	return w
}

func TestSuccessEnvelope(t *testing.T) {
	w := record(func(c *gin.Context) {
		Success(c, dto.ListingPageDTO{
			Listings:   []*dto.ListingDTO{},
			Pagination: dto.PaginationDTO{Total: 0, Pages: 0, CurrentPage: 1, PageSize: 10},
		})
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"success","data":{"listings":[],"pagination":{"total":0,"pages":0,"currentPage":1,"pageSize":10}}}`, w.Body.String())
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"page out of range", service.ErrPageOutOfRange, http.StatusNotFound, "NO_RESULTS"},
		{"wrapped upstream", fmt.Errorf("%w: timeout", service.ErrUpstream), http.StatusBadGateway, "UPSTREAM_ERROR"},
		{"listing exists", service.ErrListingExists, http.StatusConflict, "LISTING_EXISTS"},
		{"collection running", service.ErrCollectionRunning, http.StatusConflict, "COLLECTION_RUNNING"},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := record(func(c *gin.Context) { Error(c, tt.err) })
			assert.Equal(t, tt.wantStatus, w.Code)

			var body dto.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "error", body.Status)
			assert.Equal(t, tt.wantCode, body.Code)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestInvalidParamCarriesValidValues(t *testing.T) {
	w := record(func(c *gin.Context) {
		Error(c, &service.InvalidParamError{Param: "sortOrder", Value: "up", Valid: []string{"asc", "desc"}})
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "INVALID_PARAMETER", body.Code)
	assert.Equal(t, []string{"asc", "desc"}, body.ValidValues)
	assert.Contains(t, body.Message, "sortOrder")
}

func TestUnknownErrorDoesNotLeakDetails(t *testing.T) {
	w := record(func(c *gin.Context) { Error(c, errors.New("mongo: password=hunter2")) })
	assert.NotContains(t, w.Body.String(), "hunter2")
}
