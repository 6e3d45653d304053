package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mx-space/guestbook/internal/config"
	"github.com/mx-space/guestbook/internal/database"
	"github.com/mx-space/guestbook/internal/middleware"
	"github.com/mx-space/guestbook/internal/pkg/clock"
	pkgcron "github.com/mx-space/guestbook/internal/pkg/cron"
	pkgredis "github.com/mx-space/guestbook/internal/pkg/redis"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App holds all application dependencies.
type App struct {
	cfg    *config.AppConfig
	router *gin.Engine
	db     *gorm.DB
	redis  *pkgredis.Client
	logger *zap.Logger
	sched  *pkgcron.Scheduler
	clock  clock.Clock
	cancel context.CancelFunc
}

// New initializes the application: runtime settings → DB → Redis → routes → cron.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := applyRuntimeSettings(cfg); err != nil {
		return nil, err
	}

	db, err := database.Connect(cfg, true)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	var rc *pkgredis.Client
	if cfg.Redis.Enable {
		rc, err = pkgredis.Connect(ctx, cfg.RedisURL)
		if err != nil {
			cancel()
			return nil, fmt.Errorf("redis: %w", err)
		}
	}

	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.Logger(logger))
	router.Use(newCORS(cfg), answerOptions)
	router.Use(middleware.ResolveOrigin(middleware.NewOriginResolver(cfg.OriginHeaders)))

	a := &App{
		cfg:    cfg,
		router: router,
		db:     db,
		redis:  rc,
		logger: logger,
		sched:  pkgcron.New(logger.Named("CronService")),
		clock:  clock.Real(),
		cancel: cancel,
	}
	a.registerRoutes()
	registerCronJobs(a.sched, db, cfg, a.clock, logger)
	a.sched.Start(ctx)
	return a, nil
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Shutdown stops background jobs and closes the backing stores.
func (a *App) Shutdown() {
	a.cancel()
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("close redis", zap.Error(err))
		}
	}
	if sqlDB, err := a.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			a.logger.Warn("close database", zap.Error(err))
		}
	}
}
