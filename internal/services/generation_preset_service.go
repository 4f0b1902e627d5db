package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"snapledger/internal/llm/client"
	"snapledger/internal/models"
	"snapledger/internal/repositories"
)

type GenerationPresetService interface {
	Startup(ctx context.Context)
	Get() (*models.GenerationPreset, error)
	Update(preset models.GenerationPreset) (*models.GenerationPreset, error)
	// ConfigFor materializes the stored defaults into a per-call
	// configuration for the given model.
	ConfigFor(modelName string) (client.GenerationConfig, error)
}

type generationPresetService struct {
	presets repositories.GenerationPresetRepository
	ctx     context.Context
}

func NewGenerationPresetService(presets repositories.GenerationPresetRepository) GenerationPresetService {
	return &generationPresetService{presets: presets}
}

func (s *generationPresetService) Startup(ctx context.Context) {
	s.ctx = ctx
}

func (s *generationPresetService) Get() (*models.GenerationPreset, error) {
	return s.presets.Get(context.Background())
}

var validSafetyLevels = map[string]bool{
	string(client.BlockNone):           true,
	string(client.BlockOnlyHigh):       true,
	string(client.BlockMediumAndAbove): true,
	string(client.BlockLowAndAbove):    true,
}

func (s *generationPresetService) Update(preset models.GenerationPreset) (*models.GenerationPreset, error) {
	if preset.Temperature < 0 || preset.Temperature > 1 {
		return nil, errors.New("temperature must be between 0 and 1")
	}
	if preset.MaxOutputTokens < 1 {
		return nil, errors.New("max output tokens must be at least 1")
	}
	if preset.TopK < 1 {
		return nil, errors.New("top_k must be at least 1")
	}
	if preset.TopP < 0 || preset.TopP > 1 {
		return nil, errors.New("top_p must be between 0 and 1")
	}
	for _, level := range []string{preset.Harassment, preset.Hate, preset.Sexual, preset.Danger} {
		if !validSafetyLevels[level] {
			return nil, fmt.Errorf("unknown safety level %q", level)
		}
	}

	current, err := s.presets.Get(context.Background())
	if err != nil {
		return nil, err
	}

	current.Temperature = preset.Temperature
	current.MaxOutputTokens = preset.MaxOutputTokens
	current.TopK = preset.TopK
	current.TopP = preset.TopP
	current.Harassment = preset.Harassment
	current.Hate = preset.Hate
	current.Sexual = preset.Sexual
	current.Danger = preset.Danger
	current.UpdatedAt = time.Now()

	if err := s.presets.Update(context.Background(), current); err != nil {
		return nil, err
	}
	return current, nil
}

func (s *generationPresetService) ConfigFor(modelName string) (client.GenerationConfig, error) {
	preset, err := s.Get()
	if err != nil {
		return client.GenerationConfig{}, err
	}
	cfg := client.GenerationConfig{
		Model:           modelName,
		Temperature:     preset.Temperature,
		MaxOutputTokens: preset.MaxOutputTokens,
		TopK:            preset.TopK,
		TopP:            preset.TopP,
		Safety: client.SafetySettings{
			Harassment: client.SafetyLevel(preset.Harassment),
			Hate:       client.SafetyLevel(preset.Hate),
			Sexual:     client.SafetyLevel(preset.Sexual),
			Danger:     client.SafetyLevel(preset.Danger),
		},
	}
	if err := cfg.Validate(); err != nil {
		return client.GenerationConfig{}, err
	}
	return cfg, nil
}
