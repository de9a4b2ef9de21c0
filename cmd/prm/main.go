package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/pkg/cache"
	"github.com/wyfcoding/pkg/config"
	"github.com/wyfcoding/pkg/database"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/messagequeue/kafka"
	"github.com/wyfcoding/pkg/messagequeue/outbox"
	"github.com/wyfcoding/pkg/metrics"
	authapp "github.com/wyfcoding/prm/internal/auth/application"
	authmysql "github.com/wyfcoding/prm/internal/auth/infrastructure/persistence/mysql"
	authredis "github.com/wyfcoding/prm/internal/auth/infrastructure/persistence/redis"
	authhttp "github.com/wyfcoding/prm/internal/auth/interfaces/http"
	dashboardapp "github.com/wyfcoding/prm/internal/dashboard/application"
	dashboardevents "github.com/wyfcoding/prm/internal/dashboard/interfaces/events"
	dashboardhttp "github.com/wyfcoding/prm/internal/dashboard/interfaces/http"
	healthapp "github.com/wyfcoding/prm/internal/health/application"
	healthdomain "github.com/wyfcoding/prm/internal/health/domain"
	healthmessaging "github.com/wyfcoding/prm/internal/health/infrastructure/messaging"
	healthmysql "github.com/wyfcoding/prm/internal/health/infrastructure/persistence/mysql"
	healthhttp "github.com/wyfcoding/prm/internal/health/interfaces/http"
	partnerapp "github.com/wyfcoding/prm/internal/partner/application"
	partnerdomain "github.com/wyfcoding/prm/internal/partner/domain"
	partnermysql "github.com/wyfcoding/prm/internal/partner/infrastructure/persistence/mysql"
	partnerhttp "github.com/wyfcoding/prm/internal/partner/interfaces/http"
	priorityapp "github.com/wyfcoding/prm/internal/priority/application"
	prioritydomain "github.com/wyfcoding/prm/internal/priority/domain"
	prioritymysql "github.com/wyfcoding/prm/internal/priority/infrastructure/persistence/mysql"
	priorityhttp "github.com/wyfcoding/prm/internal/priority/interfaces/http"
	"golang.org/x/sync/errgroup"
)

var configPath = flag.String("config", "configs/prm/config.toml", "config file path")

func main() {
	flag.Parse()

	// 1. Config
	var cfg config.Config
	if err := config.Load(*configPath, &cfg); err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 2. Logger
	logCfg := &logging.Config{Service: cfg.Server.Name, Level: cfg.Log.Level}
	logger := logging.NewFromConfig(logCfg)
	slog.SetDefault(logger.Logger)

	// 3. Metrics
	metricsImpl := metrics.NewMetrics(cfg.Server.Name)
	if cfg.Metrics.Enabled {
		go metricsImpl.ExposeHTTP(cfg.Metrics.Port)
	}

	// 4. Infrastructure
	db, err := database.NewDB(cfg.Data.Database, cfg.CircuitBreaker, logger, metricsImpl)
	if err != nil {
		slog.Error("failed to connect database", "error", err)
		os.Exit(1)
	}

	if cfg.Server.Environment == "dev" {
		if err := db.RawDB().AutoMigrate(
			&authmysql.UserModel{},
			&partnerdomain.Partner{},
			&partnerdomain.PartnerActivity{},
			&partnerdomain.PartnerTask{},
			&healthdomain.PartnerHealthMetrics{},
			&healthdomain.PartnerAlert{},
			&prioritydomain.PartnerMonthlyMetric{},
			&outbox.Message{},
		); err != nil {
			slog.Error("failed to migrate database", "error", err)
		}
	}

	// 5. Kafka & Outbox
	kafkaProducer := kafka.NewProducer(&cfg.MessageQueue.Kafka, logger, metricsImpl)
	outboxMgr := outbox.NewManager(db.RawDB(), logger.Logger)
	pusher := func(ctx context.Context, topic, key string, payload []byte) error {
		return kafkaProducer.PublishToTopic(ctx, topic, []byte(key), payload)
	}
	outboxProcessor := outbox.NewProcessor(outboxMgr, pusher, 100, 2*time.Second)

	// 6. Redis
	redisCache, err := cache.NewRedisCache(&cfg.Data.Redis, cfg.CircuitBreaker, logger, metricsImpl)
	if err != nil {
		slog.Error("failed to init redis", "error", err)
		os.Exit(1)
	}
	redisClient := redisCache.GetClient()

	// 7. Repositories
	userRepo := authmysql.NewUserRepository(db.RawDB())
	sessionRepo := authredis.NewSessionRedisRepository(redisClient)
	partnerRepo := partnermysql.NewPartnerRepository(db.RawDB())
	activityRepo := partnermysql.NewActivityRepository(db.RawDB())
	taskRepo := partnermysql.NewTaskRepository(db.RawDB())
	healthMetricsRepo := healthmysql.NewHealthMetricsRepository(db.RawDB())
	alertRepo := healthmysql.NewAlertRepository(db.RawDB())
	monthlyMetricRepo := prioritymysql.NewMonthlyMetricRepository(db.RawDB())

	eventPublisher := healthmessaging.NewOutboxPublisher(outboxMgr)

	// 8. Application
	authSvc := authapp.NewAuthService(userRepo, sessionRepo, logger.Logger)
	partnerSvc := partnerapp.NewPartnerService(partnerRepo, activityRepo, taskRepo, logger.Logger)
	healthSvc := healthapp.NewHealthScanService(partnerRepo, activityRepo, taskRepo, healthMetricsRepo, alertRepo, eventPublisher, logger.Logger)
	prioritySvc := priorityapp.NewPriorityService(partnerRepo, monthlyMetricRepo, logger.Logger)
	dashboardSvc := dashboardapp.NewDashboardService(partnerRepo, healthMetricsRepo, alertRepo, redisClient, logger.Logger)

	// 9. Consumers
	alertHandler := dashboardevents.NewAlertEventHandler(dashboardSvc, logger.Logger)
	consumerCfg := cfg.MessageQueue.Kafka
	consumerCfg.Topic = healthdomain.PartnerAlertRaisedEventType
	if consumerCfg.GroupID == "" {
		consumerCfg.GroupID = "prm-dashboard-group"
	}
	alertConsumer := kafka.NewConsumer(&consumerCfg, logger, metricsImpl)
	alertHandler.Subscribe(context.Background(), alertConsumer)

	// 10. Interfaces
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")
	authhttp.NewHandler(authSvc).RegisterRoutes(api)

	protected := r.Group("/api")
	protected.Use(authhttp.AuthMiddleware(authSvc))
	partnerhttp.NewPartnerHandler(partnerSvc).RegisterRoutes(protected)
	healthhttp.NewHealthHandler(healthSvc).RegisterRoutes(protected)
	priorityhttp.NewPriorityHandler(prioritySvc).RegisterRoutes(protected)
	dashboardhttp.NewDashboardHandler(dashboardSvc).RegisterRoutes(protected)

	// 11. Start
	g, ctx := errgroup.WithContext(context.Background())

	g.Go(func() error {
		outboxProcessor.Start()
		<-ctx.Done()
		outboxProcessor.Stop()
		return nil
	})

	server := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Server.HTTP.Port), Handler: r}

	g.Go(func() error {
		slog.Info("HTTP server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-quit:
			slog.Info("shutting down servers...")
		case <-ctx.Done():
			slog.Info("context cancelled, shutting down...")
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("server exited with error", "error", err)
	}
}
