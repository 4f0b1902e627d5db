package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"snapledger/internal/repositories"
)

// DbServices aggregates the domain services backed by the database.
type DbServices struct {
	AppSettings AppSettingsService
	Presets     GenerationPresetService
	Models      ModelCatalogService
}

// NewDbServices constructs the service container using repositories backed by db.
func NewDbServices(db *gorm.DB) *DbServices {
	settingsRepo := repositories.NewAppSettingsRepository(db)
	presetRepo := repositories.NewGenerationPresetRepository(db)
	modelRepo := repositories.NewModelSettingRepository(db)

	catalog := NewModelCatalogService(modelRepo)
	return &DbServices{
		AppSettings: NewAppSettingsService(settingsRepo, catalog),
		Presets:     NewGenerationPresetService(presetRepo),
		Models:      catalog,
	}
}

// StartDbServices runs each service's startup hook. The model catalog goes
// first: settings validation depends on the seeded catalog.
func (s *DbServices) StartDbServices(ctx context.Context) error {
	if err := s.Models.Startup(ctx); err != nil {
		return fmt.Errorf("model catalog startup: %w", err)
	}
	s.AppSettings.Startup(ctx)
	s.Presets.Startup(ctx)
	return nil
}
