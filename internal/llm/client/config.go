package client

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"google.golang.org/genai"
)

// SafetyLevel is a per-category permissiveness level, most permissive first.
type SafetyLevel string

const (
	BlockNone           SafetyLevel = "block_none"
	BlockOnlyHigh       SafetyLevel = "block_only_high"
	BlockMediumAndAbove SafetyLevel = "block_medium_and_above"
	BlockLowAndAbove    SafetyLevel = "block_low_and_above"
)

// SafetySettings holds one level per harm category.
type SafetySettings struct {
	Harassment SafetyLevel `json:"harassment"`
	Hate       SafetyLevel `json:"hate"`
	Sexual     SafetyLevel `json:"sexual"`
	Danger     SafetyLevel `json:"danger"`
}

// GenerationConfig is rebuilt from the UI on every interaction and bound
// immutably into one client instance; it is never persisted as-is (saved
// defaults live in the settings store).
type GenerationConfig struct {
	Model           string         `json:"model" validate:"required"`
	Temperature     float32        `json:"temperature" validate:"gte=0,lte=1"`
	MaxOutputTokens int32          `json:"maxOutputTokens" validate:"gte=1"`
	TopK            float32        `json:"topK" validate:"gte=1"`
	TopP            float32        `json:"topP" validate:"gte=0,lte=1"`
	Safety          SafetySettings `json:"safety"`
}

// DefaultGenerationConfig mirrors the receipt pipeline's fixed parameters,
// which double as the composer's slider defaults.
func DefaultGenerationConfig(model string) GenerationConfig {
	return GenerationConfig{
		Model:           model,
		Temperature:     0.2,
		MaxOutputTokens: 4096,
		TopK:            40,
		TopP:            0.95,
		Safety: SafetySettings{
			Harassment: BlockNone,
			Hate:       BlockNone,
			Sexual:     BlockNone,
			Danger:     BlockNone,
		},
	}
}

var validate = validator.New()

func (c GenerationConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid generation config: %w", err)
	}
	return nil
}

func (c GenerationConfig) toGenaiConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(c.Temperature),
		MaxOutputTokens: c.MaxOutputTokens,
		TopK:            genai.Ptr(c.TopK),
		TopP:            genai.Ptr(c.TopP),
		SafetySettings: []*genai.SafetySetting{
			{Category: genai.HarmCategoryHarassment, Threshold: c.Safety.Harassment.threshold()},
			{Category: genai.HarmCategoryHateSpeech, Threshold: c.Safety.Hate.threshold()},
			{Category: genai.HarmCategorySexuallyExplicit, Threshold: c.Safety.Sexual.threshold()},
			{Category: genai.HarmCategoryDangerousContent, Threshold: c.Safety.Danger.threshold()},
		},
	}
}

func (l SafetyLevel) threshold() genai.HarmBlockThreshold {
	switch l {
	case BlockOnlyHigh:
		return genai.HarmBlockThresholdBlockOnlyHigh
	case BlockMediumAndAbove:
		return genai.HarmBlockThresholdBlockMediumAndAbove
	case BlockLowAndAbove:
		return genai.HarmBlockThresholdBlockLowAndAbove
	default:
		return genai.HarmBlockThresholdBlockNone
	}
}
