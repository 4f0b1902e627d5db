package models

import "time"

// GeminiModel represents a single model option exposed to the UI. Vision
// says whether the model accepts image parts; the composer refuses image
// slots for models without it.
type GeminiModel struct {
	Name        string `json:"name"` // API model name, e.g. "gemini-pro-vision"
	DisplayName string `json:"displayName"`
	Vision      bool   `json:"vision"`
	Enabled     bool   `json:"enabled"`
}

// ModelSetting persists per-model enablement toggles.
type ModelSetting struct {
	ID        uint      `gorm:"primaryKey"`
	ModelName string    `gorm:"size:255;not null;uniqueIndex"`
	Enabled   bool      `gorm:"not null;default:true"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
