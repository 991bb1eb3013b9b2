// Package http provides the HTTP API for the repository documentation
// service: ingesting repositories, generating documentation and diagrams,
// and chatting about an ingested codebase.
package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
	"unicode/utf8"

	"repopilot"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Request timeouts, per endpoint. Documentation generation is slow by
// nature; chat and key validation are interactive.
const (
	IngestTimeout      = 5 * time.Minute
	DocsTimeout        = 10 * time.Minute
	MermaidTimeout     = 10 * time.Minute
	ChatTimeout        = 45 * time.Second
	ValidateKeyTimeout = 10 * time.Second
)

// Server is the HTTP server for the documentation service. Dependencies
// are attached as interfaces before calling Open.
type Server struct {
	e   *echo.Echo
	srv *http.Server

	Addr           string
	AllowedOrigins []string

	SessionService       repopilot.SessionService
	ConversationService  repopilot.ConversationService
	DocumentationService repopilot.DocumentationService
	Ingestor             repopilot.Ingestor
	DocGenerator         repopilot.DocGenerator
	Asker                repopilot.Asker
	KeyValidator         repopilot.KeyValidator
	Limiter              repopilot.ClientLimiter
	Logger               *slog.Logger

	// SessionTTL and MaxSessions bound the session store.
	SessionTTL  time.Duration
	MaxSessions int

	// APIKeyConfigured is reported by the health endpoint.
	APIKeyConfigured bool
}

// NewServer creates a Server with routes registered.
func NewServer() *Server {
	s := &Server{
		e:           echo.New(),
		Logger:      slog.Default(),
		SessionTTL:  repopilot.DefaultSessionTTL,
		MaxSessions: repopilot.DefaultMaxSessions,
	}
	s.e.HideBanner = true
	s.e.HidePort = true
	s.e.HTTPErrorHandler = s.handleError

	s.e.Use(middleware.Recover())
	s.e.Use(s.rateLimit)

	s.e.GET("/", s.handleRoot)
	s.e.GET("/health", s.handleHealth)
	s.e.POST("/validate-key", s.handleValidateKey)
	s.e.POST("/ingest", s.handleIngest)
	s.e.POST("/generate-docs", s.handleGenerateDocs)
	s.e.POST("/generate-mermaid", s.handleGenerateMermaid)
	s.e.POST("/chat", s.handleChat)
	s.e.GET("/session/:id", s.handleSessionInfo)

	return s
}

// Open starts the server. CORS is configured here so AllowedOrigins can be
// set after NewServer.
func (s *Server) Open() error {
	s.e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     s.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost},
		AllowCredentials: true,
	}))

	s.srv = &http.Server{
		Addr:    s.Addr,
		Handler: s.e,
	}

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.Logger.Error("http server stopped", "err", err)
		}
	}()
	s.Logger.Info("http server listening", "addr", s.Addr)
	return nil
}

// Close gracefully shuts the server down.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

// ServeHTTP makes Server usable directly as a handler in tests.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.e.ServeHTTP(w, r)
}

// rateLimit applies per-client and global limits to every endpoint except
// the health probes.
func (s *Server) rateLimit(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if s.Limiter == nil {
			return next(c)
		}
		path := c.Request().URL.Path
		if path == "/" || path == "/health" {
			return next(c)
		}
		if err := s.Limiter.Allow(c.RealIP()); err != nil {
			s.Logger.Warn("rate limit exceeded", "ip", c.RealIP(), "path", path)
			return err
		}
		return next(c)
	}
}

// handleError maps application errors to HTTP status codes. The response
// body mirrors the {"detail": ...} shape clients already parse.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		detail, ok := he.Message.(string)
		if !ok {
			detail = http.StatusText(he.Code)
		}
		_ = c.JSON(he.Code, map[string]string{"detail": detail})
		return
	}

	code := repopilot.ErrorCode(err)
	status, ok := statusForCode[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	if status == http.StatusInternalServerError {
		s.Logger.Error("internal error", "path", c.Request().URL.Path, "err", err)
	}
	_ = c.JSON(status, map[string]string{"detail": repopilot.ErrorMessage(err)})
}

var statusForCode = map[string]int{
	repopilot.EINVALID:      http.StatusBadRequest,
	repopilot.EUNAUTHORIZED: http.StatusUnauthorized,
	repopilot.ENOTFOUND:     http.StatusNotFound,
	repopilot.ETIMEOUT:      http.StatusRequestTimeout,
	repopilot.ETOOLARGE:     http.StatusRequestEntityTooLarge,
	repopilot.ERATELIMIT:    http.StatusTooManyRequests,
	repopilot.EUNAVAILABLE:  http.StatusBadGateway,
	repopilot.ECONFLICT:     http.StatusConflict,
}

func (s *Server) handleRoot(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Repository Pilot API is running",
		"version": "1.0.0",
		"status":  "healthy",
	})
}

func (s *Server) handleHealth(c echo.Context) error {
	stats, err := s.SessionService.Stats(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusOK, map[string]any{
			"status":    "unhealthy",
			"error":     repopilot.ErrorMessage(err),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}

	storedMB := float64(stats.TotalBytes()) / (1024 * 1024)
	storageHealth := "healthy"
	switch {
	case storedMB > 300:
		storageHealth = "critical"
	case storedMB > 200:
		storageHealth = "warning"
	}

	keyStatus := "missing"
	if s.APIKeyConfigured {
		keyStatus = "configured"
	}

	resp := map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"storage": map[string]any{
			"sessions":      stats.Sessions,
			"conversations": stats.Conversations,
			"total_size_mb": storedMB,
			"health":        storageHealth,
		},
		"limits": map[string]any{
			"max_sessions":        s.MaxSessions,
			"session_ttl_hours":   s.SessionTTL.Hours(),
			"max_content_size_mb": float64(repopilot.MaxContentSize) / (1024 * 1024),
		},
		"api_key_status": keyStatus,
	}
	if counter, ok := s.Limiter.(interface{ ActiveClients() int }); ok {
		resp["active_rate_limits"] = counter.ActiveClients()
	}
	return c.JSON(http.StatusOK, resp)
}

// loadSession fetches a session and enforces its TTL. Expired sessions are
// deleted on sight so later requests fail fast.
func (s *Server) loadSession(c echo.Context, sessionID string) (*repopilot.Session, error) {
	if sessionID == "" {
		return nil, repopilot.Errorf(repopilot.EINVALID, "session ID is required")
	}

	ctx := c.Request().Context()
	session, err := s.SessionService.FindSessionByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Expired(s.SessionTTL, time.Now()) {
		if err := s.SessionService.DeleteSession(ctx, sessionID); err != nil {
			s.Logger.Error("expired session delete failed", "session", sessionID, "err", err)
		}
		return nil, repopilot.Errorf(repopilot.ENOTFOUND, "session expired, please ingest repository again")
	}
	return session, nil
}

// clip truncates s to at most n bytes, backing the cut off to the nearest
// rune boundary so a multibyte character is never split.
func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// preview shortens s to at most n bytes, marking the cut.
func preview(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return clip(s, n) + "..."
}

func kb(n int) float64 {
	return float64(n) / 1024
}
