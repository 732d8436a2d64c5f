package service

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorCode 错误对应的 HTTP 状态码与业务码
type ErrorCode struct {
	Status int
	Code   string
}

var (
	ErrParamInvalid      = errors.New("invalid parameter")
	ErrPageOutOfRange    = errors.New("no listings found for this page")
	ErrListingNotFound   = errors.New("listing not found")
	ErrListingExists     = errors.New("a listing already exists with this account")
	ErrUpstream          = errors.New("failed to fetch data from social feed api")
	ErrCollectionRunning = errors.New("a collection batch is already running")
	ErrOAuthStateInvalid = errors.New("oauth state is invalid or expired")
	UnauthorizedError    = errors.New("unauthorized")
	UnExpectedError      = errors.New("internal server error")
)

var ErrorMap = map[error]ErrorCode{
	ErrParamInvalid:      {http.StatusBadRequest, "INVALID_PARAMETER"},
	ErrPageOutOfRange:    {http.StatusNotFound, "NO_RESULTS"},
	ErrListingNotFound:   {http.StatusNotFound, "NOT_FOUND"},
	ErrListingExists:     {http.StatusConflict, "LISTING_EXISTS"},
	ErrUpstream:          {http.StatusBadGateway, "UPSTREAM_ERROR"},
	ErrCollectionRunning: {http.StatusConflict, "COLLECTION_RUNNING"},
	ErrOAuthStateInvalid: {http.StatusBadRequest, "INVALID_STATE"},
	UnauthorizedError:    {http.StatusUnauthorized, "UNAUTHORIZED"},
	UnExpectedError:      {http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
}

// InvalidParamError 查询参数不合法，附带可选值列表
type InvalidParamError struct {
	Param string
	Value string
	Valid []string
}

func (e *InvalidParamError) Error() string {
	if len(e.Valid) == 0 {
		return fmt.Sprintf("invalid value %q for parameter %s", e.Value, e.Param)
	}
	return fmt.Sprintf("invalid value %q for parameter %s, valid values: %s",
		e.Value, e.Param, strings.Join(e.Valid, ", "))
}

func (e *InvalidParamError) Unwrap() error {
	return ErrParamInvalid
}

// LookupError 按 errors.Is 匹配 ErrorMap
func LookupError(err error) (ErrorCode, bool) {
	if code, ok := ErrorMap[err]; ok {
		return code, true
	}
	for target, code := range ErrorMap {
		if errors.Is(err, target) {
			return code, true
		}
	}
	return ErrorCode{}, false
}
