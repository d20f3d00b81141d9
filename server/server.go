// Package server assembles the echo HTTP server and its services.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/calkins/teampulse/internal/profile"
	"github.com/calkins/teampulse/plugin/ai"
	"github.com/calkins/teampulse/plugin/ai/cache"
	"github.com/calkins/teampulse/server/middleware"
	apiv1 "github.com/calkins/teampulse/server/router/api/v1"
	"github.com/calkins/teampulse/server/service/insight"
	"github.com/calkins/teampulse/server/service/reconcile"
	"github.com/calkins/teampulse/store"
)

// Server is the HTTP server plus its assembled services.
type Server struct {
	Profile *profile.Profile
	Store   *store.Store

	echoServer *echo.Echo
}

// NewServer assembles the AI services, reconciliation engine, and API routes.
func NewServer(_ context.Context, p *profile.Profile, s *store.Store) (*Server, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger())

	server := &Server{
		Profile:    p,
		Store:      s,
		echoServer: e,
	}

	aiConfig := ai.NewConfigFromProfile(p)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}
	if !aiConfig.Enabled {
		slog.Warn("AI API key not configured, extraction and insights will be degraded")
	}

	embeddingCache := cache.Load(p.EmbeddingCachePath())
	embedder := ai.NewEmbedder(ai.NewEmbeddingService(&aiConfig.Embedding), embeddingCache)
	llm := ai.NewLLMService(&aiConfig.LLM)

	reconcileConfig := reconcile.DefaultConfig()
	reconcileConfig.SimilarityThreshold = p.SimilarityThreshold
	engine := reconcile.NewEngine(s, embedder, reconcileConfig)

	apiService := apiv1.NewAPIV1Service(p, s, engine, ai.NewExtractor(llm), insight.NewGenerator(llm))
	apiService.Register(e)

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "Service ready.")
	})

	return server, nil
}

// Start begins serving. It returns once the listener stops.
func (s *Server) Start(_ context.Context) error {
	address := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	slog.Info("server started", "address", address, "mode", s.Profile.Mode)
	if err := s.echoServer.Start(address); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server and closes the store.
func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.echoServer.Shutdown(ctx); err != nil {
		slog.Error("failed to shut down server", "error", err)
	}
	if err := s.Store.Close(); err != nil {
		slog.Error("failed to close store", "error", err)
	}
	slog.Info("server shutdown complete")
}
