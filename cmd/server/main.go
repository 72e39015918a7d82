package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agrimarket/internal/audit"
	"agrimarket/internal/auth"
	"agrimarket/internal/config"
	"agrimarket/internal/crop"
	"agrimarket/internal/dashboard"
	"agrimarket/internal/db"
	"agrimarket/internal/events"
	"agrimarket/internal/gateway"
	"agrimarket/internal/logger"
	"agrimarket/internal/media"
	"agrimarket/internal/metrics"
	"agrimarket/internal/middleware"
	"agrimarket/internal/notify"
	"agrimarket/internal/order"
	"agrimarket/internal/render"
	"agrimarket/internal/session"
	"agrimarket/internal/user"
	"agrimarket/internal/web"
	"agrimarket/internal/wizard"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const sweepInterval = time.Minute

var (
	initDBFunc      = db.InitDB
	startServerFunc = serve
)

func main() {
	if err := run(); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}

func run() error {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	var database *sql.DB
	if cfg.AuditEnabled() {
		database = initDBFunc(cfg)
		defer database.Close()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler, cleanup, err := newServer(ctx, cfg, database)
	if err != nil {
		return err
	}
	defer cleanup()

	addr := ":" + cfg.AppPort
	logger.L().Info("server starting",
		zap.String("addr", addr),
		zap.String("api_base_url", cfg.APIBaseURL),
		zap.Bool("audit", database != nil),
	)
	return startServerFunc(addr, handler)
}

// newServer wires every dependency and starts the background sweepers,
// which stop when ctx is cancelled. cleanup releases the connections.
func newServer(ctx context.Context, cfg *config.Config, database *sql.DB) (http.Handler, func(), error) {
	log := logger.L()
	var closers []func() error

	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				log.Warn("cleanup failed", zap.Error(err))
			}
		}
	}

	// ---------- sessions ----------

	var store session.Store
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		closers = append(closers, rdb.Close)
		store = session.NewRedisStore(rdb, cfg.SessionTTL)
		log.Info("session store: redis", zap.String("addr", cfg.RedisAddr))
	} else {
		store = session.NewMemoryStore()
		log.Info("session store: memory")
	}

	// ---------- events ----------

	publisher := events.NewNoopPublisher()
	if cfg.AMQPURL != "" {
		p, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			log.Warn("amqp unavailable, events disabled", zap.Error(err))
		} else {
			publisher = p
		}
	}
	closers = append(closers, publisher.Close)

	// ---------- audit ----------

	var recorder *audit.Recorder
	var auditLog web.AuditLog
	if database != nil {
		recorder = audit.NewRecorder(audit.NewRepository(database))
		auditLog = recorder
	}

	// ---------- services ----------

	gw := gateway.NewClient(cfg.APIBaseURL, cfg.GatewayTimeout, gateway.WithMetrics(metrics.NewSet()))
	uploader := media.NewCloudinaryUploader(cfg.CloudinaryCloudName, cfg.CloudinaryUploadPreset)
	notices := notify.NewCenter(cfg.NotifyDelay)
	users := user.NewService(gw, publisher, recorder)

	registry := dashboard.NewRegistry(dashboard.Deps{
		Gateway:  gw,
		Orders:   order.NewService(gw, publisher, recorder),
		Crops:    crop.NewService(gw, uploader, publisher, recorder),
		Users:    users,
		Sessions: store,
		Notices:  notices,
	})

	renderer, err := render.New()
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	h := web.NewHandler(web.Deps{
		Registry:  registry,
		Sessions:  store,
		Notices:   notices,
		Users:     users,
		Registrar: wizard.NewRegistrar(gw, uploader, publisher),
		Renderer:  renderer,
		Stats:     gw.Stats(),
		Audit:     auditLog,
	})

	limiter := middleware.NewRateLimiter(cfg.InternalSecretKey)
	router := web.NewRouter(h, web.RouterOptions{
		Issuer:         auth.NewIssuer(cfg.JWTSecret, cfg.SessionTTL),
		SecureCookie:   cfg.AppEnv == "production",
		Limiter:        limiter,
		InternalSecret: cfg.InternalSecretKey,
	})

	go limiter.Cleanup(ctx)
	go sweep(ctx, registry, notices, cfg.SessionTTL)

	return router, cleanup, nil
}

// sweep drops idle dashboards and expired notifications.
func sweep(ctx context.Context, registry *dashboard.Registry, notices *notify.Center, idle time.Duration) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			states := registry.Sweep(idle)
			expired := notices.Sweep()
			if states > 0 || expired > 0 {
				logger.L().Debug("sweep",
					zap.Int("views", states),
					zap.Int("notifications", expired),
				)
			}
		}
	}
}

func serve(addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.L().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
