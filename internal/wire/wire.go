package wire

import (
	log "log/slog"

	"github.com/kevinpauljacob/cal/internal/api"
	"github.com/kevinpauljacob/cal/internal/api/config"
	"github.com/kevinpauljacob/cal/internal/api/handler"
	"github.com/kevinpauljacob/cal/internal/job"
	"github.com/kevinpauljacob/cal/internal/pkg/cron"
	"github.com/kevinpauljacob/cal/internal/pkg/feed"
	"github.com/kevinpauljacob/cal/internal/pkg/kafka"
	"github.com/kevinpauljacob/cal/internal/repository"
	"github.com/kevinpauljacob/cal/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router        *gin.Engine
	CronMgr       *cron.Manager
	KafkaManager  *kafka.ConsumerManager // kafka 未启用时为 nil
	KafkaProducer *kafka.ListingProducer // kafka 未启用时为 nil
}

// BuildCollector 组装采集服务，供 API 进程与一次性采集命令共用
func BuildCollector(db *mongo.Database, cfg *config.Config, cache service.TrendingCache) service.CollectorService {
	return service.NewCollectorService(
		repository.NewListingRepo(db),
		repository.NewMindShareRepo(db),
		feed.NewClient(cfg.Feed),
		cache,
		cfg.Collector,
	)
}

func BuildApplication(db *mongo.Database, cfg *config.Config) (*ApplicationContainer, error) {
	listingRepo := repository.NewListingRepo(db)
	mindShareRepo := repository.NewMindShareRepo(db)
	feedClient := feed.NewClient(cfg.Feed)
	trendingCache := service.NewRedisTrendingCache(service.TrendingCacheTTL)

	collectorService := service.NewCollectorService(listingRepo, mindShareRepo, feedClient, trendingCache, cfg.Collector)
	windowService := service.NewWindowService(listingRepo, mindShareRepo)
	rankingService := service.NewRankingService(listingRepo, mindShareRepo, trendingCache, cfg.Ranking.ZeroLast)
	authService := service.NewAuthService(cfg.OAuth)

	container := &ApplicationContainer{}
	guard := service.NewCollectionGuard(service.NewRedisLocker(), cfg.Collector.LockTTL)

	var publisher service.ListingEventPublisher
	if cfg.Kafka.Enable {
		producer, err := kafka.NewListingProducer(cfg.Kafka)
		if err != nil {
			return nil, err
		}
		kafkaMgr, err := kafka.NewConsumerManager(cfg.Kafka, collectorService, guard)
		if err != nil {
			_ = producer.Close()
			return nil, err
		}
		publisher = producer
		container.KafkaProducer = producer
		container.KafkaManager = kafkaMgr
	} else {
		log.Info("kafka disabled, first collection runs in process")
		publisher = service.NewInlinePublisher(collectorService, guard)
	}
	listingService := service.NewListingService(listingRepo, feedClient, publisher)

	mindshareJob := job.NewMindshareJob(collectorService, guard)
	container.CronMgr = cron.NewCronManager(mindshareJob, cfg.Collector.Cron)

	handlers := &api.HandlersGroup{
		MindshareHandler: handler.NewMindshareHandler(rankingService, windowService, mindshareJob, cfg.Ranking.PageSize),
		ListingHandler:   handler.NewListingHandler(listingService),
		AuthHandler:      handler.NewAuthHandler(authService),
	}
	container.Router = api.SetupRouter(handlers, cfg.Server.AllowedOrigins, service.IsTokenRevoked)

	return container, nil
}
