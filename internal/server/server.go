package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/framebridge/internal/api/middleware"
	"github.com/GriffinCanCode/framebridge/internal/host"
	"github.com/GriffinCanCode/framebridge/internal/infrastructure/config"
	"github.com/GriffinCanCode/framebridge/internal/infrastructure/logging"
	"github.com/GriffinCanCode/framebridge/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/framebridge/internal/transport"
	"github.com/GriffinCanCode/framebridge/internal/transport/ws"
)

const shutdownTimeout = 10 * time.Second

// Server wraps the HTTP server and the bridge it hosts
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	hub        *ws.Hub
	bridge     *host.Router
	containers *host.Containers
	analytics  *host.Analytics
	logger     *logging.Logger
	config     *config.Config
	metrics    *monitoring.Metrics

	mu      sync.Mutex
	watches map[string]func()

	cancel context.CancelFunc
	pumped chan struct{}
}

// NewServer creates a new server instance. The bridge starts pumping
// immediately; Run only adds the HTTP listener.
func NewServer(cfg *config.Config, logger *logging.Logger, metrics *monitoring.Metrics) *Server {
	if logger == nil {
		logger = logging.FromConfig("host", cfg.Logging.Level, cfg.Logging.Development)
	}
	if metrics == nil {
		metrics = monitoring.NewMetrics(nil)
	}

	logger.Info("Initializing bridge host",
		zap.String("addr", cfg.Server.Addr()),
		zap.Strings("allowed_origins", cfg.Bridge.AllowedOrigins),
	)

	hub := ws.NewHub(ws.Config{
		QueueSize:      cfg.Bridge.QueueSize,
		WriteTimeout:   cfg.Bridge.WriteTimeout,
		ReadLimit:      cfg.Bridge.ReadLimit,
		AllowedOrigins: cfg.Bridge.AllowedOrigins,
	}, logger.Logger).WithMetrics(metrics)

	bridge := host.NewRouter(hub,
		host.WithLogger(logger.Named("router")),
		host.WithMetrics(metrics),
	)

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		hub:        hub,
		bridge:     bridge,
		containers: host.NewContainers(metrics),
		analytics:  host.NewAnalytics(logger.Logger, metrics),
		logger:     logger,
		config:     cfg,
		metrics:    metrics,
		watches:    make(map[string]func()),
		cancel:     cancel,
		pumped:     make(chan struct{}),
	}

	go func() {
		defer close(s.pumped)
		if err := bridge.Run(ctx); err != nil && !errors.Is(err, transport.ErrClosed) {
			logger.Warn("Bridge stopped", zap.Error(err))
		}
	}()

	s.router = s.routes()
	logger.Info("Server initialized successfully")
	return s
}

func (s *Server) routes() *gin.Engine {
	if !s.config.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.AccessLog(s.logger.Logger))
	router.Use(monitoring.Middleware(s.metrics))
	router.Use(middleware.CORS(middleware.CORSConfig{
		AllowOrigins: s.config.Bridge.AllowedOrigins,
		MaxAge:       12 * time.Hour,
	}))
	if s.config.RateLimit.Enabled {
		s.logger.Info("Rate limiting enabled",
			zap.Int("rps", s.config.RateLimit.RequestsPerSecond),
			zap.Int("burst", s.config.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: s.config.RateLimit.RequestsPerSecond,
			Burst:             s.config.RateLimit.Burst,
		}))
	}

	h := &handlers{server: s}

	router.GET("/health", h.health)
	router.GET("/bridge", gin.WrapH(s.hub))

	components := router.Group("/components", middleware.Compress(middleware.DefaultCompressMinSize))
	components.GET("", h.listComponents)
	components.GET("/:id", h.getComponent)
	components.POST("/:id/watch", h.watch)
	components.DELETE("/:id/watch", h.unwatch)
	components.POST("/:id/commands/:kind", h.command)

	router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	return router
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Bridge returns the host router.
func (s *Server) Bridge() *host.Router {
	return s.bridge
}

// Containers returns the container records.
func (s *Server) Containers() *host.Containers {
	return s.containers
}

// Watch starts tracking identifier with the container and analytics
// handlers. It reports false when the identifier is already watched.
func (s *Server) Watch(identifier string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.watches[identifier]; ok {
		return false
	}
	offContainers := s.containers.Watch(s.bridge, identifier)
	offAnalytics := s.analytics.Watch(s.bridge, identifier)
	s.watches[identifier] = func() {
		offAnalytics()
		offContainers()
	}
	s.logger.ForComponent(identifier).Info("Watching component")
	return true
}

// Unwatch stops tracking identifier. It reports false when the identifier
// was not watched.
func (s *Server) Unwatch(identifier string) bool {
	s.mu.Lock()
	off, ok := s.watches[identifier]
	delete(s.watches, identifier)
	s.mu.Unlock()

	if !ok {
		return false
	}
	off()
	s.logger.ForComponent(identifier).Info("Stopped watching component")
	return true
}

// Run starts the HTTP server and blocks until ctx ends or the listener
// fails.
func (s *Server) Run(ctx context.Context) error {
	addr := s.config.Server.Addr()
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server", zap.String("addr", addr))
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down http server: %w", err)
		}
		return nil
	}
}

// Close gracefully shuts down the bridge
func (s *Server) Close() error {
	s.logger.Info("Shutting down server...")

	if err := s.hub.Close(); err != nil {
		s.logger.Error("Failed to close hub", zap.Error(err))
		return fmt.Errorf("failed to close hub: %w", err)
	}
	s.cancel()
	<-s.pumped

	// Sync logger before exit
	_ = s.logger.Close()
	return nil
}
