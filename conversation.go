package repopilot

import (
	"context"
	"time"
)

// Chat conversation limits, matching the service's public documentation.
const (
	// MaxQueryLength is the longest accepted chat query.
	MaxQueryLength = 2000

	// MaxMessagesPerSession caps user messages per conversation.
	MaxMessagesPerSession = 50

	// MaxHistoryMessages bounds the history sent to the LLM: the initial
	// repository context message plus the most recent turns.
	MaxHistoryMessages = 15
)

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single turn in a chat conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Conversation is the chat history attached to a repository session.
type Conversation struct {
	SessionID    string    `json:"sessionId"`
	RepoURL      string    `json:"repoUrl"`
	Messages []Message `json:"messages"`

	// MessageCount is the number of user questions asked in this
	// conversation, not the length of Messages.
	MessageCount int `json:"messageCount"`
	CreatedAt    time.Time `json:"createdAt"`
	LastAccessed time.Time `json:"lastAccessed"`
}

// Append adds a message to the conversation history. It does not touch
// MessageCount, which counts questions, not messages.
func (c *Conversation) Append(role, content string) {
	c.Messages = append(c.Messages, Message{Role: role, Content: content})
}

// CountQuestion records one user question against the session cap. The
// count is cumulative and survives trimming, so the cap cannot be reset by
// history truncation.
func (c *Conversation) CountQuestion() {
	c.MessageCount++
}

// Trim bounds the history to the first message (the seed) plus the most
// recent max-1 messages.
func (c *Conversation) Trim(max int) {
	if max <= 0 || len(c.Messages) <= max {
		return
	}
	keep := max - 1
	trimmed := make([]Message, 0, max)
	trimmed = append(trimmed, c.Messages[0])
	trimmed = append(trimmed, c.Messages[len(c.Messages)-keep:]...)
	c.Messages = trimmed
}

// ConversationService persists chat conversations keyed by session.
type ConversationService interface {
	// FindConversationBySession retrieves a session's conversation.
	// Returns ENOTFOUND if the session has no conversation yet.
	FindConversationBySession(ctx context.Context, sessionID string) (*Conversation, error)

	// SaveConversation stores a conversation, replacing any previous state
	// for the same session, and updates its last accessed time.
	SaveConversation(ctx context.Context, conv *Conversation) error

	// DeleteConversationBySession removes a session's conversation.
	DeleteConversationBySession(ctx context.Context, sessionID string) error
}
