package job

import (
	"context"
	"errors"
	log "log/slog"

	"github.com/kevinpauljacob/cal/internal/api/dto"
	"github.com/kevinpauljacob/cal/internal/pkg/logger"
	"github.com/kevinpauljacob/cal/internal/service"
)

type MindshareJob struct {
	collector service.CollectorService
	guard     *service.CollectionGuard
}

func NewMindshareJob(collector service.CollectorService, guard *service.CollectionGuard) *MindshareJob {
	return &MindshareJob{
		collector: collector,
		guard:     guard,
	}
}

// Run 定时任务入口
func (s *MindshareJob) Run() {
	ctx := logger.WithTraceID(context.Background(), logger.TracePrefixJob)

	if _, err := s.Collect(ctx); err != nil {
		log.ErrorContext(ctx, "mindshare job failed", "err", err)
	}
}

// Collect 持锁执行一次采集批次，锁被占用时返回 ErrCollectionRunning。
// 手动触发时请求断开不会中断已开始的批次
func (s *MindshareJob) Collect(ctx context.Context) (*dto.CollectReportDTO, error) {
	var report *dto.CollectReportDTO
	err := s.guard.Do(context.WithoutCancel(ctx), func(ctx context.Context) error {
		var err error
		report, err = s.collector.CollectAll(ctx)
		return err
	})
	if errors.Is(err, service.ErrCollectionRunning) {
		log.WarnContext(ctx, "mindshare collection already running, skip")
		return nil, err
	}
	return report, err
}
