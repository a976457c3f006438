package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yildizm/Nutripedia/internal/config"
	"github.com/yildizm/Nutripedia/internal/food"
	"github.com/yildizm/Nutripedia/internal/logger"
	"github.com/yildizm/Nutripedia/internal/monitor"
)

const shutdownTimeout = 5 * time.Second

// Source loads the joined dataset. *loader.Loader satisfies it.
type Source interface {
	Load(ctx context.Context) (*food.Dataset, error)
}

// Server serves the food catalogue over HTTP
type Server struct {
	router  *gin.Engine
	source  Source
	cfg     *config.Config
	log     *logger.Logger
	metrics *monitor.Collector

	mu       sync.RWMutex
	dataset  *food.Dataset
	loadErr  error
	loadedAt time.Time
	loading  bool
}

// New creates a server. Call Reload before serving to populate data.
func New(cfg *config.Config, source Source, log *logger.Logger) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if log == nil {
		log = logger.NewWithCallback("server", nil)
	}

	switch cfg.Server.Mode {
	case gin.DebugMode, gin.TestMode:
		gin.SetMode(cfg.Server.Mode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		router:  gin.New(),
		source:  source,
		cfg:     cfg,
		log:     log,
		metrics: monitor.New(),
		loading: true,
	}
	s.setupRoutes()
	return s
}

// setupRoutes installs middleware and the API routes
func (s *Server) setupRoutes() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.requestLogger())
	s.router.Use(corsMiddleware(s.cfg.Server.CORSOrigins))

	api := s.router.Group("/api")
	{
		s.RegisterRoutes(api)
	}

	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
}

// requestLogger logs and times each request
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)
		status := c.Writer.Status()
		s.metrics.Observe(monitor.OperationRequest, elapsed, status >= http.StatusInternalServerError)
		s.log.DebugWithFields("request", []logger.Field{
			logger.F("method", c.Request.Method),
			logger.Path(c.Request.URL.Path),
			logger.F("status", status),
			logger.Duration(elapsed),
		})
	}
}

// corsMiddleware allows the configured origins; "*" allows any
func corsMiddleware(origins []string) gin.HandlerFunc {
	allowAll := false
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
		allowed[o] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		switch {
		case allowAll:
			c.Header("Access-Control-Allow-Origin", "*")
		case origin != "" && allowed[origin]:
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// Metrics returns the server's operation metrics
func (s *Server) Metrics() *monitor.Collector {
	return s.metrics
}

// Handler returns the HTTP handler, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// Reload runs a full load and swaps in the result. On failure the previous
// dataset is dropped so every data endpoint reports the failure.
func (s *Server) Reload(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	var ds *food.Dataset
	err := s.metrics.Track(monitor.OperationLoad, func() error {
		var err error
		ds, err = s.source.Load(ctx)
		return err
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	s.loadedAt = time.Now()
	if err != nil {
		s.dataset = nil
		s.loadErr = err
		s.metrics.SetFoods(0)
		return err
	}
	s.dataset = ds
	s.metrics.SetFoods(len(ds.Records))
	s.loadErr = nil
	return nil
}

// dataState is a consistent view of the last load
type dataState struct {
	dataset  *food.Dataset
	err      error
	loading  bool
	loadedAt time.Time
}

// pending reports a load still running with no earlier result. A failed
// load keeps being reported while a reload runs.
func (st dataState) pending() bool {
	return st.dataset == nil && st.err == nil && st.loading
}

func (s *Server) snapshot() dataState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return dataState{dataset: s.dataset, err: s.loadErr, loading: s.loading, loadedAt: s.loadedAt}
}

// Watch reloads whenever changes delivers a path, until ctx is done
func (s *Server) Watch(ctx context.Context, changes <-chan string) {
	for {
		select {
		case <-ctx.Done():
			return
		case path, ok := <-changes:
			if !ok {
				return
			}
			s.log.InfoWithFields("data changed, reloading", []logger.Field{logger.Path(path)})
			if err := s.Reload(ctx); err != nil {
				s.log.WarnWithFields("reload failed", []logger.Field{logger.Error(err)})
			}
		}
	}
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.InfoWithFields("listening", []logger.Field{logger.F("addr", addr)})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.log.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
