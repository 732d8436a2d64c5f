package cron

import (
	"context"
	log "log/slog"
)

// InitCron 注册并启动定时采集，ctx 结束后等待进行中的批次完成再返回
func InitCron(ctx context.Context, mgr *Manager) error {
	if err := mgr.RegisterJobs(); err != nil {
		return err
	}
	mgr.Start()

	<-ctx.Done()
	mgr.Stop()
	log.Info("cron engine stopped")
	return nil
}
