package http

import (
	"context"
	"net/http"
	"strings"

	"repopilot"

	"github.com/labstack/echo/v4"
)

type chatRequest struct {
	SessionID string `json:"session_id"`
	Query     string `json:"query"`
}

func (s *Server) handleChat(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return repopilot.Errorf(repopilot.EINVALID, "invalid request body")
	}
	session, err := s.loadSession(c, req.SessionID)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	if err := s.SessionService.TouchSession(ctx, session.ID); err != nil {
		return err
	}

	chatCtx, cancel := context.WithTimeout(ctx, ChatTimeout)
	defer cancel()
	answer, err := s.Asker.Ask(chatCtx, session, req.Query)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"answer": answer})
}

type validateKeyRequest struct {
	APIKey string `json:"api_key"`
}

func (s *Server) handleValidateKey(c echo.Context) error {
	var req validateKeyRequest
	if err := c.Bind(&req); err != nil {
		return repopilot.Errorf(repopilot.EINVALID, "invalid request body")
	}
	if strings.TrimSpace(req.APIKey) == "" {
		return repopilot.Errorf(repopilot.EINVALID, "API key is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), ValidateKeyTimeout)
	defer cancel()

	// Validation failures are a normal outcome, not an error response.
	if err := s.KeyValidator.ValidateKey(ctx, strings.TrimSpace(req.APIKey)); err != nil {
		msg := "Invalid API key"
		if repopilot.ErrorCode(err) != repopilot.EUNAUTHORIZED {
			s.Logger.Error("key validation failed", "err", err)
			msg = "Error validating API key"
		}
		return c.JSON(http.StatusOK, map[string]any{"valid": false, "message": msg})
	}
	return c.JSON(http.StatusOK, map[string]any{"valid": true, "message": "API key is valid"})
}
