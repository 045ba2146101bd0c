package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/nyasinga/aylfwebsite/internal/app"
	"github.com/nyasinga/aylfwebsite/internal/auth"
	"github.com/nyasinga/aylfwebsite/internal/blog"
	"github.com/nyasinga/aylfwebsite/internal/donations"
	"github.com/nyasinga/aylfwebsite/internal/events"
	"github.com/nyasinga/aylfwebsite/internal/media"
	"github.com/nyasinga/aylfwebsite/internal/observability"
	"github.com/nyasinga/aylfwebsite/internal/pages"
	"github.com/nyasinga/aylfwebsite/internal/platform/cache"
	"github.com/nyasinga/aylfwebsite/internal/platform/db"
	"github.com/nyasinga/aylfwebsite/internal/ratelimit"
	"github.com/nyasinga/aylfwebsite/internal/rbac"
	"github.com/nyasinga/aylfwebsite/internal/shared"
	"github.com/nyasinga/aylfwebsite/internal/users"
	"github.com/nyasinga/aylfwebsite/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	if err := rbac.VerifyTable(); err != nil {
		logger.Error("verify rbac table", slog.Any("error", err))
		os.Exit(1)
	}

	pool, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	codec, err := auth.NewTokenCodec(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		logger.Error("init token codec", slog.Any("error", err))
		os.Exit(1)
	}
	authMiddleware := auth.Middleware{Codec: codec, Logger: logger}

	mailClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := mailClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	auditLogger := shared.NewAuditLogger(pool)

	authRepo := auth.NewRepository(pool)
	authService := auth.NewService(authRepo, codec, mailClient, logger)
	loginLimiter := ratelimit.New(cfg.AuthRateLimitMax, cfg.AuthRateLimitWindow)
	authHandler := auth.NewHandler(logger, authService, authMiddleware, loginLimiter.Middleware(ratelimit.KeyByIP))

	blogRepo := blog.NewRepository(pool)
	blogService := blog.NewService(blogRepo, auditLogger, logger)
	blogHandler := blog.NewHandler(logger, blogService, authMiddleware)

	eventsRepo := events.NewRepository(pool)
	eventsService := events.NewService(eventsRepo, auditLogger, logger)
	eventsHandler := events.NewHandler(logger, eventsService, authMiddleware)

	donationsRepo := donations.NewRepository(pool)
	donationsService := donations.NewService(donationsRepo, redisClient, mailClient, auditLogger, logger)
	donationsHandler := donations.NewHandler(logger, donationsService, authMiddleware)

	mediaRepo := media.NewRepository(pool)
	mediaService := media.NewService(mediaRepo, auditLogger, logger)
	mediaHandler := media.NewHandler(logger, mediaService, authMiddleware)

	pagesRepo := pages.NewRepository(pool)
	pagesService := pages.NewService(pagesRepo, auditLogger, logger)
	pagesHandler := pages.NewHandler(logger, pagesService, authMiddleware)

	usersRepo := users.NewRepository(pool)
	usersService := users.NewService(usersRepo, auditLogger, logger)
	usersHandler := users.NewHandler(logger, usersService, authMiddleware)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobsHandler := jobs.NewHandler(inspector, logger)

	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		AuthHandler:      authHandler,
		BlogHandler:      blogHandler,
		EventsHandler:    eventsHandler,
		DonationsHandler: donationsHandler,
		MediaHandler:     mediaHandler,
		PagesHandler:     pagesHandler,
		UsersHandler:     usersHandler,
		JobsHandler:      jobsHandler,
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return loginLimiter.Run(gctx)
	})
	g.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.Error("server run", slog.Any("error", err))
		os.Exit(1)
	}
}
