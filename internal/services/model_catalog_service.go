package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"snapledger/internal/assets"
	"snapledger/internal/models"
	"snapledger/internal/repositories"
)

type ModelCatalogService interface {
	Startup(ctx context.Context) error
	ListModels() ([]models.GeminiModel, error)
	GetModel(name string) (*models.GeminiModel, error)
	SetModelEnabled(name string, enabled bool) (*models.GeminiModel, error)
	AcceptsImages(name string) bool
}

type modelCatalogService struct {
	repo repositories.ModelSettingRepository
	ctx  context.Context

	mu       sync.RWMutex
	order    []string
	catalog  map[string]models.GeminiModel
	settings map[string]bool
}

type rawModelFile struct {
	Models []rawModel `json:"models"`
}

type rawModel struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Vision      bool   `json:"vision"`
}

func NewModelCatalogService(repo repositories.ModelSettingRepository) ModelCatalogService {
	return &modelCatalogService{
		repo:     repo,
		catalog:  make(map[string]models.GeminiModel),
		settings: make(map[string]bool),
	}
}

func (s *modelCatalogService) Startup(ctx context.Context) error {
	s.ctx = ctx

	var parsed rawModelFile
	if err := json.Unmarshal(assets.ModelsData, &parsed); err != nil {
		return fmt.Errorf("parse models asset: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.order = make([]string, 0, len(parsed.Models))
	for _, mdl := range parsed.Models {
		name := strings.TrimSpace(mdl.Name)
		if name == "" {
			continue
		}
		s.order = append(s.order, name)
		s.catalog[name] = models.GeminiModel{
			Name:        name,
			DisplayName: strings.TrimSpace(mdl.DisplayName),
			Vision:      mdl.Vision,
		}
	}

	// Load existing settings and seed defaults
	existing, err := s.repo.List()
	if err != nil {
		return fmt.Errorf("load model settings: %w", err)
	}
	for _, setting := range existing {
		s.settings[setting.ModelName] = setting.Enabled
	}
	for name := range s.catalog {
		if _, ok := s.settings[name]; !ok {
			if _, err := s.repo.Upsert(name, true); err != nil {
				return fmt.Errorf("seed model setting for %s: %w", name, err)
			}
			s.settings[name] = true
		}
	}

	return nil
}

func (s *modelCatalogService) ListModels() ([]models.GeminiModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.GeminiModel, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.withEnabled(name))
	}
	return out, nil
}

func (s *modelCatalogService) GetModel(name string) (*models.GeminiModel, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("model name is required")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.catalog[name]; !ok {
		return nil, fmt.Errorf("model %s not found", name)
	}
	mdl := s.withEnabled(name)
	return &mdl, nil
}

func (s *modelCatalogService) SetModelEnabled(name string, enabled bool) (*models.GeminiModel, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("model name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.catalog[name]; !ok {
		return nil, fmt.Errorf("model %s not found", name)
	}
	if _, err := s.repo.Upsert(name, enabled); err != nil {
		return nil, err
	}
	s.settings[name] = enabled
	mdl := s.withEnabled(name)
	return &mdl, nil
}

// AcceptsImages reports whether the model can take image parts; the
// composer refuses to add picture slots otherwise.
func (s *modelCatalogService) AcceptsImages(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	mdl, ok := s.catalog[name]
	return ok && mdl.Vision
}

// withEnabled is called with the lock held.
func (s *modelCatalogService) withEnabled(name string) models.GeminiModel {
	mdl := s.catalog[name]
	mdl.Enabled = s.settings[name]
	return mdl
}
