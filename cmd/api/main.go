package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/ulule/limiter/v3"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"

	"github.com/srgjo27/stay_engine/internal/adapter/cache"
	"github.com/srgjo27/stay_engine/internal/adapter/handler"
	"github.com/srgjo27/stay_engine/internal/adapter/publisher"
	"github.com/srgjo27/stay_engine/internal/adapter/repository/postgres"
	"github.com/srgjo27/stay_engine/internal/adapter/session"
	"github.com/srgjo27/stay_engine/internal/adapter/worker"
	"github.com/srgjo27/stay_engine/internal/core/domain"
	"github.com/srgjo27/stay_engine/internal/core/ports"
	"github.com/srgjo27/stay_engine/internal/core/pricing"
	"github.com/srgjo27/stay_engine/internal/core/services"
	"github.com/srgjo27/stay_engine/internal/platform/config"
	"github.com/srgjo27/stay_engine/internal/platform/database"
	"github.com/srgjo27/stay_engine/internal/platform/logger"
	"github.com/srgjo27/stay_engine/internal/platform/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}

	log := logger.New(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile})

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	db, err := database.NewPostgresDB(ctx, database.Config{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		DBName:   cfg.DB.Name,
		SSLMode:  cfg.DB.SSLMode,
	}, log)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to db after retries")
	}
	defer db.Close()

	log.WithField("addr", cfg.Redis.Addr).Info("connecting to redis")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.WithError(err).Fatal("failed to connect to redis")
	}
	defer redisClient.Close()

	var intents ports.IntentPublisher = publisher.NewLogPublisher(log)
	if len(cfg.Kafka.Brokers) > 0 {
		kp := publisher.NewKafkaPublisher(publisher.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.IntentTopic))
		defer kp.Close()
		intents = kp
		log.WithField("topic", cfg.Kafka.IntentTopic).Info("publishing intents to kafka")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	defaults := domain.Defaults{Timezone: cfg.DefaultTimezone, Currency: cfg.DefaultCurrency}
	engine := pricing.NewEngine()

	propertyRepo := postgres.NewPropertyRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	itemRepo := postgres.NewServiceItemRepository(db)
	orderRepo := postgres.NewServiceOrderRepository(db)

	bookingService := services.NewBookingService(services.BookingServiceDeps{
		Properties:  propertyRepo,
		Bookings:    bookingRepo,
		Cache:       cache.NewAvailabilityCache(redisClient, cfg.AvailabilityCacheTTL),
		Publisher:   intents,
		Pricing:     engine,
		Defaults:    defaults,
		PaymentHold: cfg.PaymentHoldTTL,
		Logger:      log,
	})

	orderService := services.NewOrderService(services.OrderServiceDeps{
		Properties:  propertyRepo,
		Bookings:    bookingRepo,
		Items:       itemRepo,
		Orders:      orderRepo,
		Idempotency: cache.NewIdempotencyStore(redisClient, cfg.IdempotencyTTL),
		Publisher:   intents,
		Pricing:     engine,
		Defaults:    defaults,
		Logger:      log,
	})

	rate, err := limiter.NewRateFromFormatted(cfg.OrderRateLimit)
	if err != nil {
		log.WithError(err).Fatal("invalid ORDER_RATE_LIMIT")
	}

	limiterStore, err := sredis.NewStoreWithOptions(redisClient, limiter.StoreOptions{
		Prefix:   "stay_engine_limiter",
		MaxRetry: 3,
	})
	if err != nil {
		log.WithError(err).Fatal("failed to create rate limiter store")
	}

	router := handler.NewRouter(handler.RouterDeps{
		Bookings:     handler.NewBookingHandler(bookingService, log, m),
		Orders:       handler.NewOrderHandler(orderService, log, m),
		Verifier:     session.NewJWTVerifier(cfg.GuestJWTSecret),
		AdminKey:     cfg.AdminAPIKey,
		LimiterStore: limiterStore,
		OrderRate:    rate,
		Metrics:      m,
		Logger:       log,
	})

	expiry := worker.NewExpiryWorker(bookingService, cfg.ExpirySweepInterval, log, m.Expired)
	go expiry.Run(ctx)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server startup failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("shutting down server")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server forced to shutdown")
	}

	log.Info("server exiting")
}
