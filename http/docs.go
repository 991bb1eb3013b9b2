package http

import (
	"context"
	"net/http"

	"repopilot"

	"github.com/labstack/echo/v4"
)

type docsRequest struct {
	SessionID string `json:"session_id"`
}

func (s *Server) handleGenerateDocs(c echo.Context) error {
	var req docsRequest
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

	genCtx, cancel := context.WithTimeout(ctx, DocsTimeout)
	defer cancel()
	doc, err := s.DocGenerator.GenerateDocumentation(genCtx, session)
	if err != nil {
		if repopilot.ErrorCode(err) == repopilot.ETIMEOUT {
			return repopilot.Errorf(repopilot.ETIMEOUT, "documentation generation timed out, the repository might be too complex")
		}
		return err
	}

	if err := s.DocumentationService.SaveDocumentation(ctx, doc); err != nil {
		return err
	}

	// The full snapshot has served its purpose. Keep only a head slice for
	// chat context to bound storage.
	const chatContentSize = 50000
	if len(session.Content) > chatContentSize {
		if err := s.SessionService.UpdateSessionContent(ctx, session.ID, clip(session.Content, chatContentSize)); err != nil {
			s.Logger.Error("session content shrink failed", "session", session.ID, "err", err)
		} else {
			s.Logger.Info("session content reduced",
				"session", session.ID,
				"from_kb", kb(len(session.Content)),
				"to_kb", kb(chatContentSize),
			)
		}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success":          true,
		"session_id":       session.ID,
		"repo_url":         doc.RepoURL,
		"introduction":     doc.Introduction,
		"chapters":         doc.Chapters,
		"mermaid_diagrams": doc.Diagrams,
		"metadata": map[string]any{
			"total_chapters":        doc.Metadata.TotalChapters,
			"total_diagrams":        doc.Metadata.TotalDiagrams,
			"comprehensive_summary": preview(doc.Metadata.ComprehensiveSummary, 300),
			"abstractions_preview":  preview(doc.Metadata.Abstractions, 200),
			"raw_chapter_structure": doc.Metadata.RawChapterStructure,
		},
	})
}

func (s *Server) handleGenerateMermaid(c echo.Context) error {
	var req docsRequest
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

	genCtx, cancel := context.WithTimeout(ctx, MermaidTimeout)
	defer cancel()
	diagrams, err := s.DocGenerator.GenerateDiagrams(genCtx, session)
	if err != nil {
		if repopilot.ErrorCode(err) == repopilot.ETIMEOUT {
			return repopilot.Errorf(repopilot.ETIMEOUT, "diagram generation timed out, the repository might be too complex")
		}
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success":        true,
		"session_id":     session.ID,
		"diagrams":       diagrams,
		"total_diagrams": len(diagrams),
	})
}
