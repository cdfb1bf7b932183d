// Package server wires configuration, the catalog store, the refresh
// loop, and the HTTP surface into one runnable service.
package server

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apihttp "github.com/WebThingsIO/addon-proxy/internal/api/http"
	"github.com/WebThingsIO/addon-proxy/internal/api/middleware"
	"github.com/WebThingsIO/addon-proxy/internal/domain/catalog"
	"github.com/WebThingsIO/addon-proxy/internal/domain/ledger"
	"github.com/WebThingsIO/addon-proxy/internal/domain/refresh"
	"github.com/WebThingsIO/addon-proxy/internal/infrastructure/config"
	"github.com/WebThingsIO/addon-proxy/internal/infrastructure/logging"
	"github.com/WebThingsIO/addon-proxy/internal/infrastructure/monitoring"
	"github.com/WebThingsIO/addon-proxy/internal/providers/license"
	"github.com/WebThingsIO/addon-proxy/internal/providers/source"
)

// Server wraps the HTTP server and its dependencies.
type Server struct {
	router    *gin.Engine
	store     *catalog.Store
	ledger    *ledger.Ledger
	refresher *refresh.Refresher
	logger    *logging.Logger
	config    *config.Config
	metrics   *monitoring.Metrics
	cancel    context.CancelFunc
}

// New creates a server instance from configuration. Nothing is fetched
// yet; callers must Bootstrap before Run.
func New(cfg *config.Config) (*Server, error) {
	var logger *logging.Logger
	if cfg.Logging.Development {
		logger = logging.NewDevelopment()
	} else {
		logger = logging.NewDefault()
	}

	logger.Info("Initializing addon-proxy",
		zap.String("port", cfg.Server.Port),
		zap.Duration("refresh_interval", cfg.Refresh.Interval),
	)

	metrics := monitoring.NewMetrics()
	store := catalog.NewStore()
	reqLedger := ledger.New(cfg.Analytics.Retention)

	fetcher := newFetcher(cfg, logger)
	refresher := refresh.New(fetcher, store, reqLedger, refresh.Config{
		Interval:     cfg.Refresh.Interval,
		FetchTimeout: cfg.Refresh.FetchTimeout,
	}, logger).WithMetrics(metrics)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	router.Use(middleware.Gzip())
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	handlers := apihttp.NewHandlers(store, reqLedger, license.NewProxy(), logger)

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)

	router.GET("/addons", handlers.ListAddons)
	router.GET("/addons/analytics", handlers.Analytics)
	router.GET("/addons/info", handlers.Info)
	router.GET("/addons/license/:addonId", handlers.GetLicense)

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	return &Server{
		router:    router,
		store:     store,
		ledger:    reqLedger,
		refresher: refresher,
		logger:    logger,
		config:    cfg,
		metrics:   metrics,
	}, nil
}

// newFetcher selects the upstream source implementation.
func newFetcher(cfg *config.Config, logger *logging.Logger) refresh.Fetcher {
	if cfg.Source.URL != "" {
		logger.Info("Using HTTP source", zap.String("url", cfg.Source.URL))
		return source.NewHTTP(cfg.Source.URL)
	}
	logger.Info("Using git source",
		zap.String("repo", cfg.Source.Repo),
		zap.String("branch", cfg.Source.Branch),
	)
	return source.NewGit(cfg.Source.Repo, cfg.Source.Branch, cfg.Source.Dir, logger)
}

// Bootstrap performs the mandatory first catalog fetch. The service must
// not accept traffic until this succeeds.
func (s *Server) Bootstrap(ctx context.Context) error {
	return s.refresher.Bootstrap(ctx)
}

// Run starts the background refresh loop and the HTTP server. It blocks
// until the HTTP server stops.
func (s *Server) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.refresher.Run(ctx)

	addr := s.config.Server.Host + ":" + s.config.Server.Port
	s.logger.Info("Starting HTTP server", zap.String("addr", addr))
	return s.router.Run(addr)
}

// Router exposes the gin engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Close stops the refresh loop and flushes logs.
func (s *Server) Close() error {
	s.logger.Info("Shutting down server...")
	if s.cancel != nil {
		s.cancel()
	}
	_ = s.logger.Sync()
	return nil
}
