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
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hackgods/clinic-booking-scheduler/internal/api"
	"github.com/hackgods/clinic-booking-scheduler/internal/booking"
	"github.com/hackgods/clinic-booking-scheduler/internal/config"
	"github.com/hackgods/clinic-booking-scheduler/internal/db"
	"github.com/hackgods/clinic-booking-scheduler/internal/directory"
	"github.com/hackgods/clinic-booking-scheduler/internal/logging"
	"github.com/hackgods/clinic-booking-scheduler/internal/metrics"
	redisclient "github.com/hackgods/clinic-booking-scheduler/internal/redis"
	"github.com/hackgods/clinic-booking-scheduler/internal/remedy"
	"github.com/hackgods/clinic-booking-scheduler/internal/schedule"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New(os.Getenv("APP_ENV"), "info").Fatal().Err(err).Msg("config load error")
	}

	logger := logging.New(cfg.Env, cfg.LogLevel)
	logger.Info().
		Str("env", cfg.Env).
		Str("http_port", cfg.HTTPPort).
		Int("max_number_schedule", cfg.MaxNumberSchedule).
		Bool("remedy_match_date", cfg.RemedyMatchDate).
		Str("mail_provider", cfg.Mail.Provider).
		Msg("api-server starting up")

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connection error")
	}
	defer pgPool.Close()
	logger.Info().Msg("connected to Postgres")

	rdb, err := redisclient.NewRedisClient(rootCtx, redisclient.Options{
		Addr:     cfg.RedisAddr,
		Username: cfg.RedisUsername,
		Password: cfg.RedisPassword,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connection error")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			logger.Error().Err(err).Msg("error closing redis")
		}
	}()
	logger.Info().Msg("connected to Redis")

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewSchedulingMetrics(registry)

	gateway, err := remedy.NewGateway(rootCtx, cfg.Mail, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("remedy gateway error")
	}

	publisher, err := schedule.NewPublisher(
		schedule.NewPgStore(pgPool),
		cfg.MaxNumberSchedule,
		schedule.WithLocker(redisclient.NewRedisLocker(rdb, cfg.LockTTL)),
		schedule.WithMetrics(m),
		schedule.WithLogger(logger.With().Str("component", "publisher").Logger()),
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("publisher setup error")
	}

	machine, err := booking.NewStatusMachine(
		booking.NewPgStore(pgPool),
		gateway,
		booking.WithDateMatching(cfg.RemedyMatchDate),
		booking.WithMetrics(m),
		booking.WithLogger(logger.With().Str("component", "status_machine").Logger()),
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("status machine setup error")
	}

	dir := directory.NewService(
		directory.NewPgRepository(pgPool),
		directory.WithMetrics(m),
		directory.WithLogger(logger.With().Str("component", "directory").Logger()),
	)

	router := api.NewRouter(api.RouterConfig{
		Publisher:      publisher,
		Completer:      machine,
		Directory:      dir,
		DB:             pgPool,
		Redis:          rdb,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Logger:         logger,
		Env:            cfg.Env,
		Version:        version,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server error")
			stop()
		}
	}()

	<-rootCtx.Done()
	logger.Info().Msg("shutting down api-server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
