package client

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"

	"google.golang.org/genai"

	"snapledger/internal/chat"
	"snapledger/internal/imaging"
)

// Cursor is appended to every intermediate accumulation so the frontend can
// show a typing indicator; the final published value has it stripped.
const Cursor = "▌"

// GeminiClient binds an API key and one immutable GenerationConfig to the
// Gemini API. A client is rebuilt per user interaction, never reused across
// configuration changes.
type GeminiClient struct {
	client *genai.Client
	cfg    GenerationConfig
}

func NewGeminiClient(ctx context.Context, apiKey string, cfg GenerationConfig) (*GeminiClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("API key is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiClient{client: c, cfg: cfg}, nil
}

func (c *GeminiClient) Config() GenerationConfig {
	return c.cfg
}

// GenerateStream sends the part sequence and accumulates streamed chunks,
// publishing each intermediate prefix. Chunk-level failures and safety
// blocks do not surface as errors: they replace the whole accumulation with
// an error marker embedding the provider feedback, matching what the
// composer displays inline.
func (c *GeminiClient) GenerateStream(ctx context.Context, parts []chat.Part, publish func(string)) (string, error) {
	contents, err := buildContents(parts)
	if err != nil {
		return "", err
	}
	stream := c.client.Models.GenerateContentStream(ctx, c.cfg.Model, contents, c.cfg.toGenaiConfig())
	return accumulateStream(chunksFromResponses(stream), publish), nil
}

// GenerateOnce is the single-shot variant used by the receipt extraction
// pipeline. Any failure, including a safety block, is a plain error.
func (c *GeminiClient) GenerateOnce(ctx context.Context, parts []chat.Part) (string, error) {
	contents, err := buildContents(parts)
	if err != nil {
		return "", err
	}
	resp, err := c.client.Models.GenerateContent(ctx, c.cfg.Model, contents, c.cfg.toGenaiConfig())
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if reason := feedbackReason(resp); reason != "" {
		return "", fmt.Errorf("generation blocked: %s", reason)
	}
	return resp.Text(), nil
}

// chunk is one unit of streamed output: either text to append or provider
// feedback explaining why the stream was cut short.
type chunk struct {
	text     string
	feedback string
}

// accumulateStream folds a chunk stream into the final result string,
// publishing every intermediate accumulation with a trailing cursor and the
// final value without one. The first failed chunk replaces everything
// accumulated so far with an error marker and ends the stream.
func accumulateStream(chunks iter.Seq2[chunk, error], publish func(string)) string {
	if publish == nil {
		publish = func(string) {}
	}
	var text string
	for ch, err := range chunks {
		if err != nil {
			text = errorMarker(err.Error())
			break
		}
		if ch.feedback != "" {
			text = errorMarker(ch.feedback)
			break
		}
		text += ch.text
		publish(text + Cursor)
	}
	publish(text)
	return text
}

func errorMarker(reason string) string {
	return fmt.Sprintf("***Error occurred*** %s", reason)
}

func chunksFromResponses(stream iter.Seq2[*genai.GenerateContentResponse, error]) iter.Seq2[chunk, error] {
	return func(yield func(chunk, error) bool) {
		for resp, err := range stream {
			if err != nil {
				yield(chunk{}, err)
				return
			}
			if reason := feedbackReason(resp); reason != "" {
				yield(chunk{feedback: reason}, nil)
				return
			}
			if !yield(chunk{text: resp.Text()}, nil) {
				return
			}
		}
	}
}

// feedbackReason extracts the provider's explanation for a blocked or
// safety-terminated response, empty when the response is usable.
func feedbackReason(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return "empty response"
	}
	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" {
		if fb.BlockReasonMessage != "" {
			return fmt.Sprintf("%s: %s", fb.BlockReason, fb.BlockReasonMessage)
		}
		return string(fb.BlockReason)
	}
	for _, cand := range resp.Candidates {
		if cand.FinishReason == genai.FinishReasonSafety {
			return string(genai.FinishReasonSafety)
		}
	}
	return ""
}

// buildContents renders the composer's part sequence as one user turn in
// prompt order. Image parts are sent inline as JPEG.
func buildContents(parts []chat.Part) ([]*genai.Content, error) {
	if len(parts) == 0 {
		return nil, errors.New("part sequence is empty")
	}
	out := make([]*genai.Part, 0, len(parts))
	for i, p := range parts {
		switch p.Kind {
		case chat.PartText:
			out = append(out, genai.NewPartFromText(p.Text))
		case chat.PartImage:
			if p.Image == nil {
				return nil, fmt.Errorf("part %d: image is not resolved", i)
			}
			data, err := imaging.EncodeJPEG(p.Image)
			if err != nil {
				return nil, fmt.Errorf("part %d: %w", i, err)
			}
			out = append(out, genai.NewPartFromBytes(data, "image/jpeg"))
		default:
			return nil, fmt.Errorf("part %d: unknown kind %q", i, p.Kind)
		}
	}
	return []*genai.Content{genai.NewContentFromParts(out, genai.RoleUser)}, nil
}
