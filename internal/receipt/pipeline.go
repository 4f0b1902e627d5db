package receipt

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"image"
	"strconv"
	"strings"

	"snapledger/internal/chat"
)

// embeddedPrompts holds the extraction instruction block so packaged
// executables can load it without access to the source tree.
//
//go:embed prompts/*.txt
var embeddedPrompts embed.FS

// Instructions returns the fixed natural-language instruction block that
// opens every extraction prompt.
func Instructions() (string, error) {
	data, err := embeddedPrompts.ReadFile("prompts/extract_instructions.txt")
	if err != nil {
		return "", fmt.Errorf("load extraction instructions: %w", err)
	}
	return string(data), nil
}

// Invoker is the single-shot generation capability the pipeline needs.
type Invoker interface {
	GenerateOnce(ctx context.Context, parts []chat.Part) (string, error)
}

// Pipeline turns one receipt photo into a draft Record: fixed instructions,
// the example log's few-shot pairs, the target image, one model call, one
// strict JSON parse. No retry at any stage.
type Pipeline struct {
	Examples *Store
}

func NewPipeline(examples *Store) *Pipeline {
	return &Pipeline{Examples: examples}
}

// BuildPrompt assembles the part sequence in prompt order: instructions,
// k (image, JSON) example pairs, then the target image and the JSON header
// the model is expected to continue.
func (p *Pipeline) BuildPrompt(target image.Image) ([]chat.Part, error) {
	instructions, err := Instructions()
	if err != nil {
		return nil, err
	}
	shots, err := LoadFewShots(p.Examples)
	if err != nil {
		return nil, err
	}

	parts := make([]chat.Part, 0, 2*len(shots)+3)
	parts = append(parts, chat.TextPart(instructions))
	for _, shot := range shots {
		parts = append(parts, chat.ImagePart(shot.Image), chat.TextPart(shot.JSON))
	}
	parts = append(parts, chat.ImagePart(target), chat.TextPart(jsonHeader))
	return parts, nil
}

// Extract runs the pipeline for one image. A response that is not a JSON
// object is fatal for the run: no partial record is produced.
func (p *Pipeline) Extract(ctx context.Context, inv Invoker, target image.Image) (Record, error) {
	if target == nil {
		return nil, fmt.Errorf("target image is required")
	}
	parts, err := p.BuildPrompt(target)
	if err != nil {
		return nil, err
	}
	text, err := inv.GenerateOnce(ctx, parts)
	if err != nil {
		return nil, err
	}
	return ParseResponse(text)
}

// ParseResponse decodes the model's reply into a draft record. Values that
// come back as numbers or booleans are stringified; anything that is not a
// top-level JSON object fails.
func ParseResponse(text string) (Record, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &raw); err != nil {
		return nil, fmt.Errorf("model response is not valid JSON: %w", err)
	}

	rec := NewRecord()
	for k, v := range raw {
		rec[k] = stringify(v)
	}
	return rec, nil
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(data)
	}
}
