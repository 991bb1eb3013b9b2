package docgen

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"repopilot"
)

// Compile-time interface verification.
var _ repopilot.Asker = (*Asker)(nil)

// timeoutAnswer is returned instead of an error when the model takes too
// long, so the conversation can continue.
const timeoutAnswer = "I'm sorry, but I'm having trouble processing your request right now. Please try asking a more specific question."

// systemMessage seeds every new conversation before the repository context.
const systemMessage = "You are a helpful repository assistant."

// Asker answers questions about an ingested repository, persisting the
// conversation history between calls.
type Asker struct {
	llm           repopilot.TextGenerator
	conversations repopilot.ConversationService
	logger        *slog.Logger
}

// NewAsker creates an Asker backed by the given generator and store.
func NewAsker(llm repopilot.TextGenerator, conversations repopilot.ConversationService, logger *slog.Logger) *Asker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Asker{llm: llm, conversations: conversations, logger: logger}
}

// Ask answers a question in the context of the session's repository. The
// first question seeds the conversation with the repository snapshot; later
// questions reuse the stored history, trimmed to a bounded window.
func (a *Asker) Ask(ctx context.Context, session *repopilot.Session, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", repopilot.Errorf(repopilot.EINVALID, "query cannot be empty")
	}
	if len(query) > repopilot.MaxQueryLength {
		return "", repopilot.Errorf(repopilot.EINVALID, "query too long, maximum %d characters", repopilot.MaxQueryLength)
	}

	conv, err := a.conversations.FindConversationBySession(ctx, session.ID)
	if err != nil {
		if repopilot.ErrorCode(err) != repopilot.ENOTFOUND {
			return "", err
		}
		conv = &repopilot.Conversation{
			SessionID: session.ID,
			RepoURL:   session.RepoURL,
		}
		conv.Append(repopilot.RoleSystem, systemMessage)
		conv.Append(repopilot.RoleUser, contextMessage(session))
	}

	conv.CountQuestion()
	if conv.MessageCount > repopilot.MaxMessagesPerSession {
		return "", repopilot.Errorf(repopilot.ERATELIMIT, "maximum messages per session reached, please start a new session")
	}

	conv.Append(repopilot.RoleUser, query)
	conv.Trim(repopilot.MaxHistoryMessages)

	answer, err := a.chat(ctx, session, conv.Messages)
	if err != nil {
		if repopilot.ErrorCode(err) == repopilot.ETIMEOUT {
			a.logger.Warn("chat request timed out", "session", session.ID)
			answer = timeoutAnswer
		} else {
			return "", err
		}
	}

	conv.Append(repopilot.RoleAssistant, answer)
	if err := a.conversations.SaveConversation(ctx, conv); err != nil {
		return "", err
	}
	return answer, nil
}

// chat calls the model with the session's key when present, falling back to
// the server key if the session key is rejected.
func (a *Asker) chat(ctx context.Context, session *repopilot.Session, messages []repopilot.Message) (string, error) {
	answer, err := a.llm.GenerateChat(ctx, messages, repopilot.GenerateOptions{APIKey: session.UserAPIKey})
	if err == nil {
		return answer, nil
	}
	if session.HasUserKey() && repopilot.ErrorCode(err) == repopilot.EUNAUTHORIZED {
		a.logger.Info("user API key rejected, retrying with server key", "session", session.ID)
		answer, err = a.llm.GenerateChat(ctx, messages, repopilot.GenerateOptions{})
		if err == nil {
			return answer, nil
		}
		return "", repopilot.Errorf(repopilot.EUNAVAILABLE, "AI service temporarily unavailable")
	}
	return "", err
}

// contextMessage builds the first message of a conversation, priming the
// model with the repository snapshot.
func contextMessage(session *repopilot.Session) string {
	return fmt.Sprintf("You are an AI assistant specialized in helping with code repositories. "+
		"The following is a summary, structure, and content of a GitHub repository that I want you to become an expert on. "+
		"I will ask you questions about this codebase, and you should use this context to provide accurate answers.\n\n"+
		"REPOSITORY SUMMARY:\n%s\n\n"+
		"REPOSITORY STRUCTURE:\n%s\n\n"+
		"REPOSITORY CONTENT:\n%s\n\n"+
		"Please confirm you've processed this repository information.",
		session.Summary, session.Tree, session.Content)
}
