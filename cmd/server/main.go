package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"signup/internal/catalog"
	"signup/internal/geoip"
	geoipmetrics "signup/internal/geoip/metrics"
	httpapi "signup/internal/http"
	"signup/internal/platform/config"
	"signup/internal/platform/httpserver"
	"signup/internal/platform/logger"
	platformmetrics "signup/internal/platform/metrics"
	"signup/internal/platform/postgres"
	platformredis "signup/internal/platform/redis"
	"signup/internal/signup/events"
	"signup/internal/signup/handler"
	signupmetrics "signup/internal/signup/metrics"
	"signup/internal/signup/service"
	draftstore "signup/internal/signup/store/draft"
	registrationstore "signup/internal/signup/store/registration"
)

const shutdownTimeout = 10 * time.Second

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	if err := run(); err != nil {
		slog.Error("signup server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	cat, err := catalog.Default()
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	var closers []io.Closer
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i].Close(); err != nil {
				log.Warn("close failed", "error", err)
			}
		}
	}()
	checks := map[string]httpapi.HealthCheck{}

	rdb, err := platformredis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	var (
		drafts     service.DraftStore
		geoipCache geoip.Cache
	)
	if rdb != nil {
		closers = append(closers, rdb)
		checks["redis"] = rdb.Health
		if err := rdb.RegisterPoolMetrics(reg); err != nil {
			return err
		}
		var sealOpts []draftstore.RedisOption
		if len(cfg.DraftSealKey) == 32 {
			sealOpts = append(sealOpts, draftstore.WithSealKey([32]byte(cfg.DraftSealKey)))
		} else {
			log.Warn("DRAFT_SEAL_KEY not set; draft passwords are sealed with a per-process key")
		}
		drafts = draftstore.NewRedis(rdb.Client, sealOpts...)
		geoipCache = geoip.NewRedisCache(rdb.Client)
		log.Info("drafts stored in redis")
	} else {
		memDrafts := draftstore.NewInMemory()
		memCache := geoip.NewMemoryCache()
		go func() { _ = memDrafts.StartCleanup(ctx, cfg.CleanupInterval) }()
		go func() { _ = memCache.StartCleanup(ctx, cfg.CleanupInterval) }()
		drafts, geoipCache = memDrafts, memCache
		log.Info("drafts stored in memory", "cleanup_interval", cfg.CleanupInterval)
	}

	db, err := postgres.Connect(ctx, cfg.Postgres)
	if err != nil {
		return err
	}
	var registrations service.RegistrationStore = registrationstore.NewInMemory()
	if db != nil {
		closers = append(closers, db)
		checks["postgres"] = db.PingContext
		if err := registrationstore.Migrate(ctx, db); err != nil {
			return err
		}
		registrations = registrationstore.NewPostgres(db)
		log.Info("registrations stored in postgres")
	}

	var publisher service.EventPublisher = events.NewLogPublisher(log)
	if len(cfg.Kafka.Brokers) > 0 {
		kafka, err := events.NewKafka(cfg.Kafka.Brokers, cfg.Kafka.Topic, events.WithLogger(log))
		if err != nil {
			return err
		}
		closers = append(closers, kafka)
		if err := kafka.EnsureTopic(ctx, cfg.Kafka.Partitions, cfg.Kafka.ReplicationFactor); err != nil {
			return err
		}
		checks["kafka"] = kafka.Ping
		publisher = kafka
		log.Info("publishing events to kafka", "topic", cfg.Kafka.Topic)
	}

	opts := []service.Option{
		service.WithLogger(log),
		service.WithMetrics(signupmetrics.New(reg)),
		service.WithEventPublisher(publisher),
		service.WithDraftTTL(cfg.DraftTTL),
	}
	handlers := []httpapi.Registrar{}
	if cfg.GeoIP.Enabled {
		provider := geoip.NewCachedProvider(
			geoip.NewHTTPProvider(cfg.GeoIP.URL, cfg.GeoIP.Timeout),
			geoipCache,
			cfg.GeoIP.CacheTTL,
			geoip.WithLogger(log),
			geoip.WithMetrics(geoipmetrics.New(reg)),
		)
		opts = append(opts,
			service.WithLocator(geoip.NewLocator(provider)),
			service.WithLocateTimeout(cfg.GeoIP.Timeout),
		)
		handlers = append(handlers, geoip.NewHandler(provider, log))
	}

	svc, err := service.New(drafts, registrations, cat, opts...)
	if err != nil {
		return err
	}
	handlers = append(handlers, handler.New(svc, cat, log))

	router := httpapi.NewRouter(httpapi.Options{
		Logger:   log,
		Metrics:  platformmetrics.New(reg),
		Gatherer: reg,
		Checks:   checks,
	}, handlers...)
	srv := httpserver.New(cfg.Addr, router)
	return httpserver.Run(ctx, srv, shutdownTimeout, log)
}
