package feed

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/kevinpauljacob/cal/internal/api/config"
	"github.com/kevinpauljacob/cal/internal/pkg/logger"
	"github.com/kevinpauljacob/cal/internal/pkg/metrics"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

const (
	searchPath   = "/twitter/tweet/advanced_search"
	userInfoPath = "/twitter/user/info"
)

var (
	// ErrExternalAPI 非 2xx、响应格式错误、网络错误或超时
	ErrExternalAPI = errors.New("feed api error")
	// ErrRateLimited 被限流 (HTTP 429)
	ErrRateLimited = errors.New("feed api rate limited")
)

// Searcher 社交平台搜索接口
type Searcher interface {
	Search(ctx context.Context, query, cursor string) (*SearchPage, error)
	UserInfo(ctx context.Context, userName string) (*UserInfo, error)
}

type Client struct {
	http    *resty.Client
	timeout time.Duration
}

func NewClient(cfg config.FeedConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	httpClient := resty.New().
		SetTransport(logger.NewHTTPTransport("feed")).
		SetBaseURL(cfg.BaseURL).
		SetHeader("X-API-Key", cfg.ApiKey).
		SetHeader("Accept", "application/json")

	return &Client{
		http:    httpClient,
		timeout: timeout,
	}
}

// Search 拉取一页搜索结果，cursor 为空表示第一页
func (c *Client) Search(ctx context.Context, query, cursor string) (*SearchPage, error) {
	params := map[string]string{
		"query":     query,
		"queryType": QueryTypeLatest,
	}
	if cursor != "" {
		params["cursor"] = cursor
	}

	body, err := c.get(ctx, searchPath, params)
	if err != nil {
		return nil, err
	}

	var page SearchPage
	if err = json.Unmarshal(body, &page); err != nil {
		return nil, errors.Wrap(ErrExternalAPI, "decode search page: "+err.Error())
	}
	// 200 但缺少 tweets 数组视为格式错误，不能当作无结果
	if page.Status == "error" || page.Tweets == nil {
		return nil, errors.Wrapf(ErrExternalAPI, "search page: status=%q msg=%q", page.Status, page.Msg)
	}
	return &page, nil
}

// UserInfo 获取账号资料
func (c *Client) UserInfo(ctx context.Context, userName string) (*UserInfo, error) {
	body, err := c.get(ctx, userInfoPath, map[string]string{"userName": userName})
	if err != nil {
		return nil, err
	}

	var res userInfoResponse
	if err = json.Unmarshal(body, &res); err != nil {
		return nil, errors.Wrap(ErrExternalAPI, "decode user info: "+err.Error())
	}
	if res.Status == "error" || res.Data == nil {
		return nil, errors.Wrapf(ErrExternalAPI, "user info: %s", res.Msg)
	}
	return res.Data, nil
}

func (c *Client) get(ctx context.Context, path string, params map[string]string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(path)
	if err != nil {
		metrics.FeedRequests.WithLabelValues(path, "error").Inc()
		return nil, errors.Wrap(ErrExternalAPI, err.Error())
	}

	status := resp.StatusCode()
	metrics.FeedRequests.WithLabelValues(path, strconv.Itoa(status)).Inc()

	switch {
	case status == http.StatusTooManyRequests:
		return nil, errors.Wrapf(ErrRateLimited, "%s", path)
	case status < 200 || status > 299:
		return nil, errors.Wrapf(ErrExternalAPI, "%s returned %d", path, status)
	}
	return resp.Body(), nil
}
