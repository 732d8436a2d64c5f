package main

import (
	"context"
	log "log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/kevinpauljacob/cal/internal/api/config"
	"github.com/kevinpauljacob/cal/internal/pkg/logger"
	"github.com/kevinpauljacob/cal/internal/pkg/mongo"
	"github.com/kevinpauljacob/cal/internal/wire"
)

// 执行一次采集批次后退出，用于外部调度器
func main() {
	if err := config.LoadConfig(); err != nil {
		log.Error("Fatal error: failed to load configuration", "err", err)
		os.Exit(1)
	}
	cfg := config.Cfg

	logger.InitLogger()

	mongoDB, err := mongo.InitMongo(cfg.Mongo)
	if err != nil {
		log.Error("Fatal error: failed to create mongo connection", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithTraceID(ctx, logger.TracePrefixCmd)

	// 独立进程不持有 redis，热门榜缓存由过期时间兜底
	collector := wire.BuildCollector(mongoDB, cfg, nil)
	report, err := collector.CollectAll(ctx)

	_ = mongoDB.Client().Disconnect(context.Background())

	if err != nil {
		log.ErrorContext(ctx, "collection batch failed", "err", err)
		os.Exit(1)
	}
	log.InfoContext(ctx, "collection batch done", "recorded", report.Recorded, "failed", report.Failed)
}
