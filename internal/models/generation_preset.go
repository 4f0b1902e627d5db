package models

import "time"

// GenerationPreset is the persisted default for the composer's generation
// parameters. Single-row table (ID=1); the UI seeds its sliders from it and
// still sends the full parameter set with every generate call.
type GenerationPreset struct {
	ID              uint    `gorm:"primaryKey"`
	Temperature     float32 `gorm:"not null;default:0.2"`
	MaxOutputTokens int32   `gorm:"not null;default:4096"`
	TopK            float32 `gorm:"not null;default:40"`
	TopP            float32 `gorm:"not null;default:0.95"`

	// Per-category safety permissiveness levels.
	Harassment string `gorm:"size:40;not null;default:block_none"`
	Hate       string `gorm:"size:40;not null;default:block_none"`
	Sexual     string `gorm:"size:40;not null;default:block_none"`
	Danger     string `gorm:"size:40;not null;default:block_none"`

	UpdatedAt time.Time
}
