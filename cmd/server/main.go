package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/twmb/franz-go/pkg/kgo"

	"idcheck/internal/audit"
	"idcheck/internal/bgc"
	"idcheck/internal/bgc/handler"
	bgcmetrics "idcheck/internal/bgc/metrics"
	"idcheck/internal/bgc/service"
	"idcheck/internal/bgc/store"
	"idcheck/internal/platform/config"
	"idcheck/internal/platform/httpserver"
	"idcheck/internal/platform/kafka"
	"idcheck/internal/platform/logger"
	"idcheck/internal/platform/metrics"
	"idcheck/internal/platform/middleware"
	"idcheck/internal/platform/postgres"
	"idcheck/internal/platform/redis"
	"idcheck/pkg/platform/httputil"
)

const (
	shutdownTimeout = 15 * time.Second
	auditBuffer     = 1024
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal packages.
func main() {
	if err := run(); err != nil {
		slog.Error("idcheck exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return err
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conns, err := newConnections(cfg.BGC)
	if err != nil {
		return err
	}
	bgcMetrics := bgcmetrics.New()
	client := bgc.New(conns,
		bgc.WithLogger(log),
		bgc.WithMetrics(bgcMetrics),
		bgc.WithHTTPClient(&http.Client{Timeout: cfg.BGC.Timeout}),
	)

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}
	db, err := postgres.Open(ctx, cfg.Postgres)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}
	cache, purger, err := newCache(ctx, cfg.Cache, redisClient, db, bgcMetrics)
	if err != nil {
		return err
	}
	if purger != nil {
		go func() {
			_ = store.StartCleanup(ctx, purger, cfg.Cache.PurgeInterval, log)
		}()
	}

	kafkaClient, err := kafka.NewClient(ctx, cfg.Kafka)
	if err != nil {
		return err
	}
	if kafkaClient != nil {
		defer kafkaClient.Close()
	}
	publisher := audit.NewPublisher(newAuditStore(kafkaClient),
		audit.WithAsyncBuffer(auditBuffer),
		audit.WithLogger(log),
	)
	defer publisher.Close()

	opts := []service.Option{
		service.WithAuditor(publisher),
		service.WithLogger(log),
		service.WithRegulatedMode(cfg.Server.RegulatedMode),
		service.WithHashKey([]byte(cfg.Server.SubjectHashKey)),
		service.WithCallTimeout(cfg.BGC.Timeout),
	}
	if cache != nil {
		opts = append(opts, service.WithCache(cache))
	}
	svc := service.New(client, opts...)

	router := newRouter(log, metrics.New(), handler.New(svc, log), health(redisClient, db))

	log.Info("starting idcheck",
		"addr", cfg.Server.Addr,
		"connections", conns.Names(),
		"cache", cfg.Cache.Backend,
		"regulated", cfg.Server.RegulatedMode,
		"audit_sink", auditSinkName(kafkaClient),
	)
	return httpserver.Run(ctx, httpserver.New(cfg.Server.Addr, router), log, shutdownTimeout)
}

func newConnections(cfg config.BGC) (*bgc.Connections, error) {
	conns := make([]bgc.Connection, 0, len(cfg.Connections))
	for _, c := range cfg.Connections {
		conns = append(conns, bgc.Connection{
			Name:     c.Name,
			Host:     c.Host,
			User:     c.User,
			Password: c.Password,
			Account:  c.Account,
		})
	}
	return bgc.NewConnections(conns...)
}

// newCache builds the configured result cache. The returned Purger is non-nil
// for backends that need expired entries removed in the background.
func newCache(ctx context.Context, cfg config.Cache, rc *redis.Client, db *sql.DB, m *bgcmetrics.Metrics) (*store.Cache, store.Purger, error) {
	switch cfg.Backend {
	case config.CacheNone:
		return nil, nil, nil
	case config.CacheMemory:
		return store.NewCache(store.NewInMemory(cfg.TTL), m), nil, nil
	case config.CacheRedis:
		return store.NewCache(store.NewRedis(rc.Client, cfg.TTL), m), nil, nil
	case config.CachePostgres:
		if err := store.Migrate(ctx, db); err != nil {
			return nil, nil, err
		}
		pg := store.NewPostgres(db, cfg.TTL)
		return store.NewCache(pg, m), pg, nil
	default:
		return nil, nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

func newAuditStore(kc *kgo.Client) audit.Store {
	if kc == nil {
		return audit.NewInMemoryStore()
	}
	return audit.NewKafkaStore(kc, "")
}

func auditSinkName(kc *kgo.Client) string {
	if kc == nil {
		return "memory"
	}
	return "kafka"
}

func newRouter(log *slog.Logger, m *metrics.Metrics, h *handler.Handler, healthz http.HandlerFunc) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.ClientMetadata)
	r.Use(middleware.Logger(log))
	r.Use(m.Middleware)

	r.Get("/healthz", healthz)
	r.Handle("/metrics", promhttp.Handler())
	h.Register(r)
	return r
}

func health(rc *redis.Client, db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		checks := map[string]string{}
		status := http.StatusOK
		if rc != nil {
			checks["redis"] = "ok"
			if err := rc.Health(ctx); err != nil {
				checks["redis"] = "unavailable"
				status = http.StatusServiceUnavailable
			}
		}
		if db != nil {
			checks["postgres"] = "ok"
			if err := db.PingContext(ctx); err != nil {
				checks["postgres"] = "unavailable"
				status = http.StatusServiceUnavailable
			}
		}
		httputil.WriteJSON(w, status, map[string]any{"status": http.StatusText(status), "checks": checks})
	}
}
