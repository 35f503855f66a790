package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"Volunteer_Service/internal/app"
	"Volunteer_Service/internal/config"
	"Volunteer_Service/internal/pkg"
	"Volunteer_Service/internal/repository/mysql"
	"Volunteer_Service/internal/repository/redis"
	"Volunteer_Service/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger, err := pkg.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("starting application", zap.String("env", cfg.Env))

	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := mysql.Open(cfg.MySQL.DSN)
	if err != nil {
		logger.Fatal("failed to connect to mysql", zap.Error(err))
	}
	defer func() { _ = mysql.Close(db) }()

	// 自动建表
	if err := mysql.AutoMigrate(db); err != nil {
		logger.Fatal("failed to migrate", zap.Error(err))
	}

	rdb, err := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer func() { _ = rdb.Close() }()

	var publisher service.ActivityPublisher = service.NewLogActivityPublisher(logger)
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := pkg.NewKafkaProducer(pkg.KafkaConfig{Brokers: cfg.Kafka.Brokers, Topic: cfg.Kafka.Topic})
		if err != nil {
			logger.Fatal("failed to create kafka producer", zap.Error(err))
		}
		defer func() { _ = producer.Close() }()
		publisher = service.NewKafkaActivityPublisher(producer)
		logger.Info("publishing activity to kafka", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	loc, err := time.LoadLocation(cfg.Export.TimeZone)
	if err != nil {
		logger.Warn("unknown export timezone, using UTC", zap.String("tz", cfg.Export.TimeZone), zap.Error(err))
		loc = time.UTC
	}

	engine := app.NewEngine(app.Options{
		DB:        db,
		Redis:     rdb,
		Log:       logger,
		Metrics:   pkg.NewMetrics(),
		Publisher: publisher,
		Issuer: pkg.NewTokenIssuer(
			cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret,
			cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL,
		),
		ExportLocale:   cfg.Export.Locale,
		ExportLocation: loc,
		AdminRowLimit:  cfg.Export.AdminRowLimit,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	// graceful shutdown
	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, syscall.SIGTERM, syscall.SIGINT)

	sign := <-stopChan
	logger.Info("stopping application", zap.String("signal", sign.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("failed to stop application", zap.Error(err))
		return
	}
	logger.Info("application stopped", zap.String("signal", sign.String()))
}
