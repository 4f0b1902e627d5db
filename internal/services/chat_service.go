package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"snapledger/internal/chat"
	"snapledger/internal/events"
	"snapledger/internal/imaging"
	"snapledger/internal/llm/client"
)

// sessionEntry serializes all work on one composer session: each user
// action runs to completion before the next is accepted.
type sessionEntry struct {
	mu      sync.Mutex
	session *chat.Session
}

// ChatService owns the chat composer sessions, one per frontend tab. Each
// session's state lives in an explicit struct, keyed by a uuid handed to
// the frontend — never in process-wide storage.
type ChatService struct {
	context context.Context
	keyring *KeyringService
	catalog ModelCatalogService

	sessionMu sync.RWMutex
	sessions  map[string]*sessionEntry
}

func NewChatService(keyring *KeyringService, catalog ModelCatalogService) *ChatService {
	return &ChatService{
		keyring:  keyring,
		catalog:  catalog,
		sessions: make(map[string]*sessionEntry),
	}
}

func (s *ChatService) Startup(ctx context.Context) error {
	s.context = ctx
	if s.keyring == nil {
		return fmt.Errorf("keyring service not configured")
	}
	if s.catalog == nil {
		return fmt.Errorf("model catalog service not configured")
	}
	return nil
}

// NewSession creates an empty idle session and returns its key.
func (s *ChatService) NewSession() string {
	key := uuid.NewString()
	s.sessionMu.Lock()
	s.sessions[key] = &sessionEntry{session: chat.NewSession()}
	s.sessionMu.Unlock()
	return key
}

// CloseSession drops a session when its tab goes away.
func (s *ChatService) CloseSession(sessionKey string) {
	s.sessionMu.Lock()
	delete(s.sessions, sessionKey)
	s.sessionMu.Unlock()
}

func (s *ChatService) entry(sessionKey string) (*sessionEntry, error) {
	s.sessionMu.RLock()
	defer s.sessionMu.RUnlock()
	e, ok := s.sessions[sessionKey]
	if !ok {
		return nil, fmt.Errorf("unknown session %s", sessionKey)
	}
	return e, nil
}

// PartView is the renderable projection of one part; the bitmap itself
// stays backend-side.
type PartView struct {
	Kind     string `json:"kind"`
	Text     string `json:"text,omitempty"`
	HasImage bool   `json:"hasImage"`
}

// SessionSnapshot is what the frontend needs to redraw a composer tab.
type SessionSnapshot struct {
	SessionKey  string     `json:"sessionKey"`
	State       string     `json:"state"`
	Parts       []PartView `json:"parts"`
	Pending     string     `json:"pending,omitempty"`
	CanGenerate bool       `json:"canGenerate"`
}

func (s *ChatService) Snapshot(sessionKey string) (*SessionSnapshot, error) {
	e, err := s.entry(sessionKey)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	sess := e.session
	snap := &SessionSnapshot{
		SessionKey:  sessionKey,
		State:       string(sess.State()),
		Parts:       make([]PartView, 0, sess.Sequence.Len()),
		CanGenerate: sess.Sequence.Len() > 0,
	}
	for _, p := range sess.Sequence.Parts() {
		snap.Parts = append(snap.Parts, PartView{
			Kind:     string(p.Kind),
			Text:     p.Text,
			HasImage: p.Kind == chat.PartImage && p.Image != nil,
		})
	}
	if pending, ok := sess.Pending(); ok {
		snap.Pending = pending
	}
	return snap, nil
}

// AddPart appends an empty part. Image parts are refused for models
// without vision support, mirroring the disabled "Add Picture" control.
func (s *ChatService) AddPart(sessionKey, kind, modelName string) error {
	e, err := s.entry(sessionKey)
	if err != nil {
		return err
	}
	partKind := chat.PartKind(kind)
	if partKind == chat.PartImage && !s.catalog.AcceptsImages(modelName) {
		return fmt.Errorf("model %s does not accept image parts", modelName)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.session.Add(partKind)
	return nil
}

func (s *ChatService) SetText(sessionKey string, index int, text string) error {
	e, err := s.entry(sessionKey)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.session.Sequence.SetText(index, text) {
		return fmt.Errorf("part %d is not an editable text part", index)
	}
	return nil
}

// AttachImage resolves an image slot from whichever sources the refresh
// carried, camera first, then upload, then URL.
func (s *ChatService) AttachImage(sessionKey string, index int, src imaging.Sources) error {
	e, err := s.entry(sessionKey)
	if err != nil {
		return err
	}
	img, err := imaging.Resolve(s.context, src)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.session.Sequence.SetImage(index, img) {
		return fmt.Errorf("part %d is not an image part", index)
	}
	return nil
}

// DeletePart truncates at index (-1 drops the last part, 0 clears all) and
// always leaves the session idle.
func (s *ChatService) DeletePart(sessionKey string, index int) error {
	e, err := s.entry(sessionKey)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.session.Delete(index)
	return nil
}

// Generate invokes the model over the session's sequence, streaming each
// accumulation to the frontend, and leaves the result pending. A missing
// API key is returned as ErrNoApiKey so the frontend can fall back to
// manual entry.
func (s *ChatService) Generate(sessionKey string, cfg client.GenerationConfig) (string, error) {
	e, err := s.entry(sessionKey)
	if err != nil {
		return "", err
	}
	apiKey, err := s.keyring.GetApiKey()
	if err != nil {
		return "", err
	}

	ctx := events.WithSession(s.context, sessionKey)
	gemini, err := client.NewGeminiClient(ctx, apiKey, cfg)
	if err != nil {
		return "", err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	publish := func(text string) {
		events.Emit(ctx, events.ChatStream, events.NewText(text))
	}
	if err := e.session.Generate(ctx, gemini, publish); err != nil {
		events.Emit(ctx, events.ChatDone, events.NewError(err.Error()))
		return "", err
	}

	pending, _ := e.session.Pending()
	events.Emit(ctx, events.ChatDone, events.NewSuccess(pending))
	return pending, nil
}

// Accept merges the pending result into the sequence.
func (s *ChatService) Accept(sessionKey string) error {
	e, err := s.entry(sessionKey)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.session.Accept() {
		return fmt.Errorf("no pending result to accept")
	}
	return nil
}

// Decline discards the pending result.
func (s *ChatService) Decline(sessionKey string) error {
	e, err := s.entry(sessionKey)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.session.Decline()
	return nil
}
