// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server is a thin HTTP shell over the appraisal pipeline. It holds
// the single in-memory current record and never persists anything.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pdiddy/appraisal-engine/internal/appraise"
	"github.com/pdiddy/appraisal-engine/pkg/types"
)

// APIKeyHeader carries the generation-service credential on analyze requests.
const APIKeyHeader = "X-API-Key"

const (
	maxUploadBytes  = 64 << 20
	shutdownTimeout = 30 * time.Second
	defaultAddr     = ":8080"
)

// Analyzer runs one analysis. *appraise.Pipeline satisfies it.
type Analyzer interface {
	Analyze(ctx context.Context, doc io.ReadSeeker, apiKey string) (*types.Appraisal, error)
}

// Server serves the appraisal API.
type Server struct {
	analyzer   Analyzer
	session    *appraise.Session
	defaultKey string
	logger     *slog.Logger
	engine     *gin.Engine
	httpServer *http.Server
}

// New builds a Server. defaultKey is used when a request carries no
// X-API-Key header; it may be empty.
func New(cfg types.ServerConfig, analyzer Analyzer, session *appraise.Session, defaultKey string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if session == nil {
		session = &appraise.Session{}
	}
	addr := cfg.Addr
	if addr == "" {
		addr = defaultAddr
	}

	s := &Server{
		analyzer:   analyzer,
		session:    session,
		defaultKey: defaultKey,
		logger:     logger,
	}

	r := gin.New()
	r.MaxMultipartMemory = maxUploadBytes
	r.Use(gin.Recovery(), s.requestLogger(), cors.New(corsConfig(cfg.AllowedOrigins)))

	r.GET("/health", s.health)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/analyze", s.analyze)
		v1.GET("/appraisal", s.current)
		v1.DELETE("/appraisal", s.clear)
		v1.GET("/appraisal/export", s.export)
	}

	s.engine = r
	s.httpServer = &http.Server{Addr: addr, Handler: r}
	return s
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	if len(origins) == 0 {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	c.AddAllowHeaders(APIKeyHeader)
	c.AddExposeHeaders("Content-Disposition", "X-Request-ID")
	return c
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server.start", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("server.shutdown")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

// requestLogger tags each request with an id and logs its outcome.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := uuid.NewString()
		c.Set("req_id", reqID)
		c.Header("X-Request-ID", reqID)
		start := time.Now()

		c.Next()

		s.logger.Info("server.request",
			"req_id", reqID,
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
