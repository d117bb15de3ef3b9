// Package server exposes the feedback pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/ppiankov/essayfb/internal/model"
	"github.com/ppiankov/essayfb/internal/pipeline"
)

// Server is the HTTP API
type Server struct {
	pipeline *pipeline.Pipeline
	cfg      model.ServerConfig
	logger   *zap.Logger
	engine   *gin.Engine
}

// New builds the router. Call gin.SetMode before New to change gin's mode.
func New(p *pipeline.Pipeline, cfg model.ServerConfig, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		pipeline: p,
		cfg:      cfg,
		logger:   logger.With(zap.String("component", "server")),
	}
	s.engine = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.accessLog())
	router.Use(otelgin.Middleware("essayfb"))

	origins := s.cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = model.DefaultConfig().Server.AllowedOrigins
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthcheck", healthCheck)
	api := router.Group("/api")
	{
		api.POST("/segment", s.segment)
		api.POST("/feedback", s.feedback)
		api.POST("/summary", s.summary)
	}
	return router
}

// Handler returns the http.Handler serving the API
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ListenAndServe serves on cfg.Addr until ctx is cancelled, then shuts down
// gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", s.cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)))
	}
}

func (s *Server) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if s.cfg.RequestTimeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), s.cfg.RequestTimeout)
}
