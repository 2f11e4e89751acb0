package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"party-invites/core/cache"
	"party-invites/core/config"
	"party-invites/core/database"
	"party-invites/core/logger"
	"party-invites/core/mailer"
	"party-invites/core/metrics"
	"party-invites/core/middleware"
	"party-invites/core/queue"
	"party-invites/core/storage"
	"party-invites/modules/auth"
	"party-invites/modules/guest"
	"party-invites/modules/notification"
	"party-invites/modules/party"
	"party-invites/modules/payment"
	"party-invites/modules/photo"
	"party-invites/modules/reminder"
	"party-invites/modules/reminder/job"
	"party-invites/modules/template"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
)

type Server struct {
	echo  *echo.Echo
	cfg   *config.Config
	db    *database.Database
	redis *redis.Client
	queue *queue.Client
	cron  *cron.Cron
}

// New connects the backing services and registers every module.
func New(cfg *config.Config) (*Server, error) {
	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &Server{echo: echo.New(), cfg: cfg, db: db}

	var store cache.Cache
	if client, err := cache.NewRedisClient(cfg.Redis); err != nil {
		logger.Warn("Server:Redis:Unavailable", "fallback", "memory", "error", err)
		store = cache.NewMemoryCache()
	} else {
		s.redis = client
		s.queue = queue.NewClient(cfg.Redis)
		store = cache.NewRedisCache(client)
	}

	if err := s.routes(store); err != nil {
		_ = s.close()
		return nil, err
	}
	return s, nil
}

func (s *Server) routes(store cache.Cache) error {
	cfg, e := s.cfg, s.echo
	e.HideBanner = true
	e.HTTPErrorHandler = errorHandler(e)

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{cfg.App.PublicURL},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	e.Use(metrics.Middleware())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", metrics.Handler())
	if cfg.Storage.Driver == "local" {
		e.Static("/uploads", cfg.Storage.LocalDir)
	}

	api := e.Group("/api/v1")
	public := api.Group("/public")
	private := api.Group("/private")
	mw := middleware.NewMiddleware(store)

	files, err := storage.New(cfg)
	if err != nil {
		return err
	}
	templates, err := template.NewService(s.db, cfg)
	if err != nil {
		return err
	}

	notifications := notification.NewService(s.db)
	reminders := reminder.NewService(s.db, mailer.New(cfg.SMTP), notifications, cfg)
	parties := party.NewService(s.db, reminders, templates, cfg)
	guests := guest.NewService(s.db, parties, notifications)

	var enqueuer queue.Enqueuer
	if s.queue != nil {
		enqueuer = s.queue
	}

	auth.Init(api, private, s.db, store, mw, cfg)
	notification.Init(private, notifications, mw)
	reminder.Init(api, reminders, enqueuer, cfg)
	template.Init(public, templates)
	party.Init(private, parties, mw)
	guest.Init(public, private, guests, mw, cfg)
	payment.Init(api, s.db, templates, parties, cfg)
	photo.Init(public, private, s.db, parties, files, mw, cfg)

	if cfg.Scheduler.Mode == "cron" {
		s.cron, err = job.NewCron(cfg.Scheduler.Cron, cfg.Location(), reminders)
		if err != nil {
			return err
		}
	}
	return nil
}

func errorHandler(e *echo.Echo) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var he *echo.HTTPError
		if !errors.As(err, &he) || he.Code >= http.StatusInternalServerError {
			logger.Error("Server:HTTPError", "method", c.Request().Method, "path", c.Path(), "error", err)
		}
		e.DefaultHTTPErrorHandler(err, c)
	}
}

// Start serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Start(ctx context.Context) error {
	if s.cron != nil {
		s.cron.Start()
		logger.Info("Server:Cron:Started", "spec", s.cfg.Scheduler.Cron)
	}

	addr := fmt.Sprintf(":%d", s.cfg.App.Port)
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server:Listening", "addr", addr, "env", s.cfg.App.Env)
		if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		_ = s.close()
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server:Shutdown:Error", "error", err)
	}
	logger.Info("Server:Stopped")
	return s.close()
}

func (s *Server) close() error {
	if s.queue != nil {
		_ = s.queue.Close()
	}
	if s.redis != nil {
		_ = s.redis.Close()
	}
	return s.db.Close()
}

// Run loads configuration and serves until SIGINT or SIGTERM.
func Run(configFile string) error {
	cfg, err := config.Init(configFile)
	if err != nil {
		return err
	}
	logger.Init(logger.Options{
		Level:      cfg.Log.Level,
		Env:        cfg.App.Env,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})

	s, err := New(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return s.Start(ctx)
}
