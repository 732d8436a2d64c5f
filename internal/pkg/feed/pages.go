package feed

import (
	"context"
	"iter"
	"math/rand/v2"
	"time"
)

// PageOptions 翻页策略
type PageOptions struct {
	MaxPages int
	DelayMin time.Duration
	DelayMax time.Duration
	// Sleep 为空时使用 SleepContext
	Sleep func(ctx context.Context, d time.Duration) error
}

// Pages 按游标顺序惰性拉取搜索结果，每次 range 都从第一页重新开始
// 终止条件: 空页、接口声明无下一页、达到 MaxPages、出错 (错误作为最后一个元素返回)
// 除第一页外每次请求前都随机等待 [DelayMin, DelayMax]
func Pages(ctx context.Context, s Searcher, query string, opts PageOptions) iter.Seq2[*SearchPage, error] {
	sleep := opts.Sleep
	if sleep == nil {
		sleep = SleepContext
	}

	return func(yield func(*SearchPage, error) bool) {
		cursor := ""
		for n := 0; opts.MaxPages <= 0 || n < opts.MaxPages; n++ {
			if n > 0 {
				if err := sleep(ctx, Jitter(opts.DelayMin, opts.DelayMax)); err != nil {
					yield(nil, err)
					return
				}
			}

			page, err := s.Search(ctx, query, cursor)
			if err != nil {
				yield(nil, err)
				return
			}
			// 接口不保证按时间终止，空页即视为翻页结束
			if len(page.Tweets) == 0 {
				return
			}
			if !yield(page, nil) {
				return
			}
			if !page.HasNextPage || page.NextCursor == "" {
				return
			}
			cursor = page.NextCursor
		}
	}
}

// Jitter 返回 [min, max] 内均匀分布的随机时长
func Jitter(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + rand.N(max-min+1)
}

// SleepContext 可被 ctx 取消的等待
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
