package events

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventInfo    EventType = "info"
	EventWarn    EventType = "warn"
	EventSuccess EventType = "success"
	EventError   EventType = "error"
)

// Event topic names the frontend subscribes to.
const (
	ChatStream       = "events:chat:stream"    // progressive generation text
	ChatDone         = "events:chat:done"      // generation finished
	ReceiptScanned   = "events:receipt:scanned"
	ReceiptSubmitted = "events:receipt:submitted"
)

// StreamEvent is the backend event payload pushed to the frontend: either a
// progressive text accumulation for a session or a lifecycle notification.
type StreamEvent struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	Text       string    `json:"text"`
	Timestamp  time.Time `json:"timestamp"`
	SessionKey string    `json:"sessionKey,omitempty"`
}

type contextKey string

const sessionContextKey contextKey = "snapledger/events/session"

// WithSession returns a derived context annotated with the given session key
// so event emitters can automatically scope payloads.
func WithSession(ctx context.Context, sessionKey string) context.Context {
	if strings.TrimSpace(sessionKey) == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionContextKey, sessionKey)
}

// SessionFromContext extracts the session key associated with ctx.
func SessionFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(sessionContextKey).(string); ok {
		return v
	}
	return ""
}

func CreateStreamEvent(eventType EventType, text string) StreamEvent {
	return StreamEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Text:      text,
		Timestamp: time.Now(),
	}
}

// NewText creates the event carrying one progressive accumulation.
func NewText(text string) StreamEvent {
	return CreateStreamEvent(EventInfo, text)
}

// NewError creates an error StreamEvent.
func NewError(text string) StreamEvent {
	return CreateStreamEvent(EventError, text)
}

// NewSuccess creates a success StreamEvent.
func NewSuccess(text string) StreamEvent {
	return CreateStreamEvent(EventSuccess, text)
}
