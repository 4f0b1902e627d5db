package services

import (
	"context"
	"fmt"
	"image"
	"sync"

	"snapledger/internal/events"
	"snapledger/internal/imaging"
	"snapledger/internal/llm/client"
	"snapledger/internal/receipt"
)

const defaultVisionModel = "gemini-pro-vision"

// ReceiptService drives the digitization flow: scan an image into a draft
// record, let the user correct the fields, then commit draft and image to
// the append-only log. At most one draft exists at a time; scanning again
// replaces it.
type ReceiptService struct {
	context context.Context
	keyring *KeyringService
	presets GenerationPresetService
	catalog ModelCatalogService

	store    *receipt.Store
	pipeline *receipt.Pipeline

	mu         sync.Mutex
	draft      receipt.Record
	draftImage image.Image
}

func NewReceiptService(keyring *KeyringService, presets GenerationPresetService, catalog ModelCatalogService, store *receipt.Store, pipeline *receipt.Pipeline) *ReceiptService {
	return &ReceiptService{
		keyring:  keyring,
		presets:  presets,
		catalog:  catalog,
		store:    store,
		pipeline: pipeline,
	}
}

func (s *ReceiptService) Startup(ctx context.Context) error {
	s.context = ctx
	if s.store == nil || s.pipeline == nil {
		return fmt.Errorf("receipt store not configured")
	}
	return nil
}

// Scan resolves the receipt image, runs extraction and keeps the result as
// the current draft. Unlike chat, extraction refuses to run without a
// stored API key: there is no ad-hoc key entry on this path.
func (s *ReceiptService) Scan(src imaging.Sources, modelName string) (receipt.Record, error) {
	if !s.keyring.HasApiKey() {
		return nil, ErrNoApiKey
	}
	if modelName == "" {
		modelName = defaultVisionModel
	}
	if !s.catalog.AcceptsImages(modelName) {
		return nil, fmt.Errorf("model %s cannot read receipt images", modelName)
	}

	img, err := imaging.Resolve(s.context, src)
	if err != nil {
		return nil, err
	}

	apiKey, err := s.keyring.GetApiKey()
	if err != nil {
		return nil, err
	}
	cfg, err := s.presets.ConfigFor(modelName)
	if err != nil {
		return nil, err
	}
	gemini, err := client.NewGeminiClient(s.context, apiKey, cfg)
	if err != nil {
		return nil, err
	}

	rec, err := s.pipeline.Extract(s.context, gemini, img)
	if err != nil {
		events.Emit(s.context, events.ReceiptScanned, events.NewError(err.Error()))
		return nil, err
	}

	s.mu.Lock()
	s.draft = rec
	s.draftImage = img
	s.mu.Unlock()

	events.Emit(s.context, events.ReceiptScanned, events.NewSuccess("receipt scanned"))
	return rec.Clone(), nil
}

// Draft returns the current draft record, or nil when nothing is staged.
func (s *ReceiptService) Draft() receipt.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return nil
	}
	return s.draft.Clone()
}

// UpdateDraft overwrites the editable fields of the staged draft with the
// user's corrections. Unknown keys are ignored; submit-time columns are
// filled by the store, not the user.
func (s *ReceiptService) UpdateDraft(fields map[string]string) (receipt.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return nil, fmt.Errorf("no receipt draft to update")
	}
	for _, key := range receipt.Fields {
		if v, ok := fields[key]; ok {
			s.draft[key] = v
		}
	}
	return s.draft.Clone(), nil
}

// Submit appends the draft and its image to the log and clears the staged
// state. The returned record carries the assigned identifier and the
// submission timestamp.
func (s *ReceiptService) Submit() (receipt.Record, error) {
	s.mu.Lock()
	draft, img := s.draft, s.draftImage
	s.mu.Unlock()
	if draft == nil {
		return nil, fmt.Errorf("no receipt draft to submit")
	}

	saved, err := s.store.Append(draft, img)
	if err != nil {
		events.Emit(s.context, events.ReceiptSubmitted, events.NewError(err.Error()))
		return nil, err
	}

	s.mu.Lock()
	s.draft = nil
	s.draftImage = nil
	s.mu.Unlock()

	events.Emit(s.context, events.ReceiptSubmitted, events.NewSuccess(saved[receipt.ColFileName]))
	return saved, nil
}

// Discard drops the staged draft without logging anything.
func (s *ReceiptService) Discard() {
	s.mu.Lock()
	s.draft = nil
	s.draftImage = nil
	s.mu.Unlock()
}

// List returns every logged record, oldest first.
func (s *ReceiptService) List() ([]receipt.Record, error) {
	return s.store.Rows()
}

// ImagePaths returns the stored receipt images for the gallery view.
func (s *ReceiptService) ImagePaths() ([]string, error) {
	return s.store.ImagePaths()
}
