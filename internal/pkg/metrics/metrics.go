package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CollectRuns 采集批次次数
	CollectRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "radar_collect_runs_total",
		Help: "Number of mindshare collection batches started.",
	})

	// CollectProjects 按结果统计的项目采集次数 (recorded / no_activity / failed)
	CollectProjects = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "radar_collect_projects_total",
		Help: "Per-project collection outcomes.",
	}, []string{"result"})

	SnapshotsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "radar_snapshots_recorded_total",
		Help: "Number of mindshare snapshots appended.",
	})

	CollectDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "radar_collect_duration_seconds",
		Help:    "Duration of a full collection batch.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	})

	// FeedRequests 外部搜索接口调用，status 为 HTTP 状态码或 error
	FeedRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "radar_feed_requests_total",
		Help: "Requests sent to the social feed API.",
	}, []string{"endpoint", "status"})

	// StoreCommands mongo / redis 命令耗时，result 为 ok 或 error
	StoreCommands = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "radar_store_command_duration_seconds",
		Help:    "Latency of commands sent to mongo and redis.",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	}, []string{"store", "command", "result"})
)

const (
	ResultRecorded   = "recorded"
	ResultNoActivity = "no_activity"
	ResultFailed     = "failed"
)

const (
	StoreMongo = "mongo"
	StoreRedis = "redis"

	CommandOK    = "ok"
	CommandError = "error"
)
