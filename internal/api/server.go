// Package api serves the garden over a local JSON HTTP API.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/julianstephens/habitbloom/internal/constants"
	"github.com/julianstephens/habitbloom/internal/garden"
	"github.com/julianstephens/habitbloom/internal/logger"
	"github.com/julianstephens/habitbloom/internal/reminder"
	"github.com/julianstephens/habitbloom/internal/stats"
	"github.com/julianstephens/habitbloom/internal/storage"
	"github.com/julianstephens/habitbloom/internal/tracker"
	"github.com/julianstephens/habitbloom/internal/utils"
)

const shutdownTimeout = 5 * time.Second

type Options struct {
	Addr       string
	Token      string
	RateLimit  int
	RateWindow time.Duration
	UserID     int64
	Now        utils.Clock
}

// Server wires the managers to gin handlers
type Server struct {
	store     storage.Provider
	habits    *tracker.HabitManager
	garden    *garden.Manager
	stats     *stats.Service
	reminders *reminder.Manager
	metrics   *Metrics
	opts      Options
	router    *gin.Engine
}

// New builds the server. ctx bounds background work of the middleware.
func New(ctx context.Context, store storage.Provider, opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = constants.DefaultServerAddr
	}
	if opts.UserID == 0 {
		opts.UserID = constants.DefaultUserID
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Server{
		store:     store,
		habits:    tracker.NewHabitManager(store, opts.Now),
		garden:    garden.NewManager(store, opts.Now),
		stats:     stats.NewService(store, opts.Now),
		reminders: reminder.NewManager(store, opts.Now),
		metrics:   NewMetrics(),
		opts:      opts,
	}

	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(), Secure(), s.metrics.Middleware())
	r.GET("/health", s.health)
	r.GET("/metrics", s.metrics.Handler())

	api := r.Group("/api")
	api.Use(RateLimiter(ctx, opts.RateLimit, opts.RateWindow), TokenAuth(opts.Token))
	s.registerRoutes(api)

	s.router = r
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("API server listening", "addr", s.opts.Addr, "auth", s.opts.Token != "")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen on %s: %w", s.opts.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

func (s *Server) registerRoutes(api *gin.RouterGroup) {
	habits := api.Group("/habits")
	habits.GET("", s.listHabits)
	habits.POST("", s.createHabit)
	habits.GET("/:id", s.getHabit)
	habits.PATCH("/:id", s.updateHabit)
	habits.DELETE("/:id", s.deleteHabit)
	habits.POST("/:id/checkin", s.checkIn)
	habits.DELETE("/:id/checkin", s.undoCheckIn)
	habits.GET("/:id/history", s.history)
	habits.GET("/:id/stats", s.habitStats)
	habits.GET("/:id/calendar", s.calendar)
	habits.GET("/:id/reminders", s.listHabitReminders)
	habits.POST("/:id/reminders", s.createReminder)

	api.GET("/today", s.today)

	g := api.Group("/garden")
	g.GET("", s.gardenOverview)
	g.GET("/wilting", s.wilting)
	g.GET("/:id", s.plantDetail)
	g.POST("/:id/water", s.water)

	st := api.Group("/stats")
	st.GET("/overview", s.overview)
	st.GET("/weekly", s.weekly)
	st.GET("/monthly", s.monthly)
	st.GET("/ranking", s.ranking)
	st.GET("/categories", s.categories)

	api.GET("/achievements", s.achievements)
	api.POST("/achievements/check", s.checkAchievements)

	rem := api.Group("/reminders")
	rem.GET("", s.listReminders)
	rem.GET("/:id", s.getReminder)
	rem.PATCH("/:id", s.updateReminder)
	rem.POST("/:id/toggle", s.toggleReminder)
	rem.DELETE("/:id", s.deleteReminder)

	api.GET("/profile", s.getProfile)
	api.PATCH("/profile", s.updateProfile)
	api.GET("/settings", s.getSettings)
	api.PATCH("/settings", s.updateSettings)

	api.GET("/export", s.export)
	api.POST("/import", s.importData)
}

func (s *Server) health(c *gin.Context) {
	if _, err := s.store.GetSettings(); err != nil {
		logger.Warn("Health check failed", "error", err)
		fail(c, http.StatusServiceUnavailable, "Database unavailable")
		return
	}
	success(c, gin.H{
		"status":  "ok",
		"version": constants.Version,
		"components": gin.H{
			"database": "up",
		},
	})
}
