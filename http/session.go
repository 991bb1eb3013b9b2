package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"repopilot"

	"github.com/labstack/echo/v4"
)

type ingestRequest struct {
	RepoURL string `json:"repo_url"`
	APIKey  string `json:"api_key"`
}

func (s *Server) handleIngest(c echo.Context) error {
	var req ingestRequest
	if err := c.Bind(&req); err != nil {
		return repopilot.Errorf(repopilot.EINVALID, "invalid request body")
	}
	if err := repopilot.ValidateRepoURL(req.RepoURL); err != nil {
		return err
	}

	ctx := c.Request().Context()

	// Make room before ingesting: drop expired sessions, then enforce the
	// cap so the new session never pushes the store over it.
	if _, err := s.SessionService.DeleteExpiredSessions(ctx, s.SessionTTL); err != nil {
		s.Logger.Error("expired session cleanup failed", "err", err)
	}
	if _, err := s.SessionService.EvictSessions(ctx, s.MaxSessions-1); err != nil {
		s.Logger.Error("session eviction failed", "err", err)
	}

	ingestCtx, cancel := context.WithTimeout(ctx, IngestTimeout)
	defer cancel()
	snapshot, err := s.Ingestor.Ingest(ingestCtx, req.RepoURL)
	if err != nil {
		return err
	}

	totalSize := snapshot.TotalSize()
	if totalSize > repopilot.MaxSnapshotSize {
		return repopilot.Errorf(repopilot.ETOOLARGE,
			"repository too large (%.1fMB), maximum size is %dMB",
			float64(totalSize)/(1024*1024), repopilot.MaxSnapshotSize/(1024*1024))
	}

	content := clip(snapshot.Content, repopilot.MaxContentSize)

	session := &repopilot.Session{
		RepoURL:     req.RepoURL,
		Summary:     snapshot.Summary,
		Tree:        snapshot.Tree,
		Content:     content,
		UserAPIKey:  strings.TrimSpace(req.APIKey),
		ContentSize: len(snapshot.Content),
	}
	if err := s.SessionService.CreateSession(ctx, session); err != nil {
		return err
	}

	s.Logger.Info("repository ingested",
		"session", session.ID,
		"repo", req.RepoURL,
		"size_kb", kb(session.ContentSize),
		"user_key", session.HasUserKey(),
	)

	return c.JSON(http.StatusOK, map[string]any{
		"session_id":   session.ID,
		"message":      "Repository ingested successfully",
		"repo_url":     session.RepoURL,
		"summary":      preview(session.Summary, 500),
		"has_user_key": session.HasUserKey(),
		"metadata": map[string]any{
			"content_size_kb": kb(session.ContentSize),
			"total_size_kb":   kb(totalSize),
			"expires_at":      session.ExpiresAt(s.SessionTTL).UTC().Format(time.RFC3339),
		},
	})
}

func (s *Server) handleSessionInfo(c echo.Context) error {
	session, err := s.loadSession(c, c.Param("id"))
	if err != nil {
		return err
	}
	if err := s.SessionService.TouchSession(c.Request().Context(), session.ID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"session_id":      session.ID,
		"repo_url":        session.RepoURL,
		"status":          "active",
		"created_at":      session.CreatedAt.UTC().Format(time.RFC3339),
		"expires_at":      session.ExpiresAt(s.SessionTTL).UTC().Format(time.RFC3339),
		"content_size_kb": kb(session.ContentSize),
		"request_count":   session.RequestCount,
		"has_user_key":    session.HasUserKey(),
		"summary_preview": preview(session.Summary, 300),
	})
}
