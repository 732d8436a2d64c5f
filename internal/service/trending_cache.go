package service

import (
	"context"
	log "log/slog"
	"time"

	"github.com/kevinpauljacob/cal/internal/api/dto"
	"github.com/kevinpauljacob/cal/internal/pkg/consts"
	"github.com/kevinpauljacob/cal/internal/pkg/redis"
)

const TrendingCacheTTL = 5 * time.Minute

// TrendingCache 热门榜缓存，采集批次结束后整体失效
type TrendingCache interface {
	Get(ctx context.Context, timeframe string) ([]*dto.TrendingDTO, bool)
	Set(ctx context.Context, timeframe string, items []*dto.TrendingDTO)
	Invalidate(ctx context.Context)
}

type redisTrendingCache struct {
	ttl time.Duration
}

func NewRedisTrendingCache(ttl time.Duration) TrendingCache {
	if ttl <= 0 {
		ttl = TrendingCacheTTL
	}
	return &redisTrendingCache{ttl: ttl}
}

func (c *redisTrendingCache) Get(ctx context.Context, timeframe string) ([]*dto.TrendingDTO, bool) {
	var items []*dto.TrendingDTO
	ok, err := redis.GetJSON(ctx, consts.TrendingKey+timeframe, &items)
	if err != nil {
		log.WarnContext(ctx, "read trending cache failed", "timeframe", timeframe, "err", err)
		return nil, false
	}
	return items, ok
}

func (c *redisTrendingCache) Set(ctx context.Context, timeframe string, items []*dto.TrendingDTO) {
	if err := redis.SetJSONWithExpiration(ctx, consts.TrendingKey+timeframe, items, c.ttl); err != nil {
		log.WarnContext(ctx, "write trending cache failed", "timeframe", timeframe, "err", err)
	}
}

func (c *redisTrendingCache) Invalidate(ctx context.Context) {
	for _, tf := range Timeframes() {
		_ = redis.DeleteKey(ctx, consts.TrendingKey+tf)
	}
}
