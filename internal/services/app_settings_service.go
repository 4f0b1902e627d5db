package services

import (
	"context"
	"errors"
	"time"

	"snapledger/internal/models"
	"snapledger/internal/repositories"
)

type AppSettingsService interface {
	Get() (*models.AppSettings, error)
	Update(theme, locale, defaultModelKey string) (*models.AppSettings, error)
	Startup(ctx context.Context)
}

type appSettingsService struct {
	appSettings repositories.AppSettingsRepository
	catalog     ModelCatalogService
	context     context.Context
}

func (s *appSettingsService) Startup(ctx context.Context) {
	s.context = ctx
}

func NewAppSettingsService(appSettings repositories.AppSettingsRepository, catalog ModelCatalogService) AppSettingsService {
	return &appSettingsService{appSettings: appSettings, catalog: catalog}
}

func (s *appSettingsService) Get() (*models.AppSettings, error) {
	return s.appSettings.Get(context.Background())
}

func (s *appSettingsService) Update(theme, locale, defaultModelKey string) (*models.AppSettings, error) {
	if theme == "" {
		return nil, errors.New("theme is required")
	}
	if locale == "" {
		return nil, errors.New("locale is required")
	}
	if theme != "light" && theme != "dark" && theme != "system" {
		return nil, errors.New("theme must be 'light', 'dark', or 'system'")
	}
	if defaultModelKey != "" && s.catalog != nil {
		if _, err := s.catalog.GetModel(defaultModelKey); err != nil {
			return nil, err
		}
	}

	current, err := s.appSettings.Get(context.Background())
	if err != nil {
		return nil, err
	}

	current.Theme = theme
	current.Locale = locale
	if defaultModelKey != "" {
		current.DefaultModelKey = defaultModelKey
	}
	current.UpdatedAt = time.Now()

	if err := s.appSettings.Update(context.Background(), current); err != nil {
		return nil, err
	}

	return current, nil
}
