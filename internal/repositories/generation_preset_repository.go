package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"snapledger/internal/models"
)

type GenerationPresetRepository interface {
	Get(ctx context.Context) (*models.GenerationPreset, error)
	Update(ctx context.Context, preset *models.GenerationPreset) error
}

type generationPresetRepository struct {
	db *gorm.DB
}

func NewGenerationPresetRepository(db *gorm.DB) GenerationPresetRepository {
	return &generationPresetRepository{db: db}
}

func (r *generationPresetRepository) Get(ctx context.Context) (*models.GenerationPreset, error) {
	var preset models.GenerationPreset
	if err := r.db.WithContext(ctx).First(&preset, 1).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.GenerationPreset{
				ID:              1,
				Temperature:     0.2,
				MaxOutputTokens: 4096,
				TopK:            40,
				TopP:            0.95,
				Harassment:      "block_none",
				Hate:            "block_none",
				Sexual:          "block_none",
				Danger:          "block_none",
			}, nil
		}
		return nil, err
	}
	return &preset, nil
}

func (r *generationPresetRepository) Update(ctx context.Context, preset *models.GenerationPreset) error {
	// Single-row table, same discipline as app settings
	preset.ID = 1
	return r.db.WithContext(ctx).Save(preset).Error
}
