package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/postflow/core/internal/config"
	"github.com/postflow/core/internal/middleware"
	"github.com/postflow/core/internal/modules/drafting"
	"github.com/postflow/core/internal/modules/generation"
	"github.com/postflow/core/internal/modules/session"
	"github.com/postflow/core/internal/pkg/kv"
	"github.com/postflow/core/internal/pkg/nativelog"
	"github.com/postflow/core/internal/pkg/taskqueue"
	"go.uber.org/zap"
)

// App holds all application dependencies.
type App struct {
	cfg    *config.AppConfig
	router *gin.Engine
	drafts *drafting.Manager
	sess   *session.Service
	logger *zap.Logger
	cancel context.CancelFunc
}

// New initializes the application: config → storage → state → routes.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if err := applyRuntimeSettings(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	backend, err := openStorage(cfg)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}

	store := drafting.NewStore(backend, logger)
	records, userName, theme := store.Load(context.Background())
	logger.Info("state loaded",
		zap.Int("drafts", len(records)),
		zap.Bool("onboarded", userName != ""),
		zap.String("theme", string(theme)),
	)

	ctx, cancel := context.WithCancel(context.Background())
	queue := taskqueue.New()
	go queue.Run(ctx)

	gateway := generation.NewProvider(cfg.AI, logger)
	drafts := drafting.NewManager(store, gateway, queue, logger, records)
	sess := session.NewService(store, drafts, logger, userName, theme)

	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}
	if len(cfg.AllowedOrigins) > 0 && !cfg.IsDev() {
		patterns := cfg.AllowedOrigins
		corsConfig.AllowOriginFunc = func(origin string) bool {
			return originAllowed(patterns, origin)
		}
	} else {
		corsConfig.AllowOriginFunc = func(origin string) bool { return true }
	}
	router.Use(cors.New(corsConfig))

	app := &App{cfg: cfg, router: router, drafts: drafts, sess: sess, logger: logger, cancel: cancel}
	app.registerRoutes()

	return app, nil
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Shutdown stops the mutation queue after draining queued work.
func (a *App) Shutdown() { a.cancel() }

func openStorage(cfg *config.AppConfig) (kv.Store, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverRedis:
		return kv.ConnectRedis(cfg.Storage.RedisURL)
	default:
		return kv.NewFileStore(cfg.Storage.DataDir)
	}
}

func applyRuntimeSettings(cfg *config.AppConfig) error {
	if cfg.LogDir != "" {
		_ = os.Setenv(nativelog.EnvLogDir, cfg.LogDir)
	}

	loc, err := cfg.TimezoneLocation()
	if err != nil {
		return err
	}
	if cfg.Timezone != "" {
		time.Local = loc
		_ = os.Setenv("TZ", cfg.Timezone)
	}
	return nil
}
