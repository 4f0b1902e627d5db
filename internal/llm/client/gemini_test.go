package client

import (
	"errors"
	"image"
	"iter"
	"testing"

	"snapledger/internal/chat"
)

func chunkSeq(chunks []chunk, errs []error) iter.Seq2[chunk, error] {
	return func(yield func(chunk, error) bool) {
		for i := range chunks {
			var err error
			if i < len(errs) {
				err = errs[i]
			}
			if !yield(chunks[i], err) {
				return
			}
		}
	}
}

func TestAccumulateStreamPublishesPrefixesWithCursor(t *testing.T) {
	var published []string
	final := accumulateStream(
		chunkSeq([]chunk{{text: "Hel"}, {text: "lo"}}, nil),
		func(s string) { published = append(published, s) },
	)

	want := []string{"Hel▌", "Hello▌", "Hello"}
	if len(published) != len(want) {
		t.Fatalf("expected %d publishes, got %d: %v", len(want), len(published), published)
	}
	for i := range want {
		if published[i] != want[i] {
			t.Fatalf("publish %d: expected %q, got %q", i, want[i], published[i])
		}
	}
	if final != "Hello" {
		t.Fatalf("expected final %q, got %q", "Hello", final)
	}
}

func TestAccumulateStreamErrorReplacesPartialText(t *testing.T) {
	var published []string
	final := accumulateStream(
		chunkSeq(
			[]chunk{{text: "partial"}, {}},
			[]error{nil, errors.New("transport broke")},
		),
		func(s string) { published = append(published, s) },
	)

	if final != "***Error occurred*** transport broke" {
		t.Fatalf("unexpected final value: %q", final)
	}
	last := published[len(published)-1]
	if last != final {
		t.Fatalf("final publish %q should match returned value %q", last, final)
	}
}

func TestAccumulateStreamSafetyFeedbackReplacesPartialText(t *testing.T) {
	final := accumulateStream(
		chunkSeq([]chunk{{text: "so far"}, {feedback: "SAFETY"}}, nil),
		nil,
	)
	if final != "***Error occurred*** SAFETY" {
		t.Fatalf("unexpected final value: %q", final)
	}
}

func TestAccumulateStreamEmptyStream(t *testing.T) {
	var published []string
	final := accumulateStream(
		chunkSeq(nil, nil),
		func(s string) { published = append(published, s) },
	)
	if final != "" {
		t.Fatalf("expected empty final value, got %q", final)
	}
	if len(published) != 1 || published[0] != "" {
		t.Fatalf("expected a single empty publish, got %v", published)
	}
}

func TestGenerationConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*GenerationConfig)
		valid  bool
	}{
		{"defaults", func(c *GenerationConfig) {}, true},
		{"missing model", func(c *GenerationConfig) { c.Model = "" }, false},
		{"temperature too high", func(c *GenerationConfig) { c.Temperature = 1.5 }, false},
		{"temperature lower bound", func(c *GenerationConfig) { c.Temperature = 0 }, true},
		{"zero max tokens", func(c *GenerationConfig) { c.MaxOutputTokens = 0 }, false},
		{"zero top_k", func(c *GenerationConfig) { c.TopK = 0 }, false},
		{"top_p above one", func(c *GenerationConfig) { c.TopP = 1.01 }, false},
	}

	for _, tc := range cases {
		cfg := DefaultGenerationConfig("gemini-pro-vision")
		tc.mutate(&cfg)
		err := cfg.Validate()
		if tc.valid && err != nil {
			t.Fatalf("%s: expected valid, got %v", tc.name, err)
		}
		if !tc.valid && err == nil {
			t.Fatalf("%s: expected validation failure", tc.name)
		}
	}
}

func TestBuildContentsRejectsUnresolvedImage(t *testing.T) {
	_, err := buildContents([]chat.Part{chat.ImagePart(nil)})
	if err == nil {
		t.Fatal("expected error for unresolved image part")
	}
}

func TestBuildContentsRejectsEmptySequence(t *testing.T) {
	if _, err := buildContents(nil); err == nil {
		t.Fatal("expected error for empty sequence")
	}
}

func TestBuildContentsMixedParts(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	contents, err := buildContents([]chat.Part{
		chat.TextPart("describe this"),
		chat.ImagePart(img),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(contents) != 1 {
		t.Fatalf("expected a single user turn, got %d", len(contents))
	}
	if len(contents[0].Parts) != 2 {
		t.Fatalf("expected 2 parts in prompt order, got %d", len(contents[0].Parts))
	}
}
