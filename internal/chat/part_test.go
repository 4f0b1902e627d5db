package chat

import (
	"image"
	"testing"
)

func TestSequenceAppendKinds(t *testing.T) {
	var seq Sequence
	seq.Append(PartText)
	seq.Append(PartImage)

	if seq.Len() != 2 {
		t.Fatalf("expected 2 parts, got %d", seq.Len())
	}
	first, _ := seq.Part(0)
	if first.Kind != PartText || first.Text != "" {
		t.Fatalf("expected empty text part, got %+v", first)
	}
	second, _ := seq.Part(1)
	if second.Kind != PartImage || second.Image != nil {
		t.Fatalf("expected unresolved image placeholder, got %+v", second)
	}
	if second.Resolved() {
		t.Fatal("placeholder image part should not be resolved")
	}
}

func TestSequenceTruncate(t *testing.T) {
	cases := []struct {
		name    string
		initial int
		index   int
		want    int
	}{
		{"drop last", 3, -1, 2},
		{"clear all", 3, 0, 0},
		{"keep prefix", 4, 2, 2},
		{"drop last of one", 1, -1, 0},
		{"index past end", 2, 5, 2},
	}

	for _, tc := range cases {
		var seq Sequence
		for i := 0; i < tc.initial; i++ {
			seq.Append(PartText)
		}
		seq.Truncate(tc.index)
		if seq.Len() != tc.want {
			t.Fatalf("%s: expected length %d, got %d", tc.name, tc.want, seq.Len())
		}
	}
}

func TestSequenceMatchesReferenceList(t *testing.T) {
	// Random-ish op script replayed against a plain slice as the oracle.
	type op struct {
		truncate bool
		arg      int
	}
	script := []op{
		{false, 0}, {false, 0}, {false, 0},
		{truncate: true, arg: -1},
		{false, 0}, {false, 0},
		{truncate: true, arg: 2},
		{false, 0},
		{truncate: true, arg: 0},
		{false, 0},
	}

	var seq Sequence
	var ref []struct{}
	for i, o := range script {
		if o.truncate {
			idx := o.arg
			if idx < 0 {
				idx = len(ref) + idx
				if idx < 0 {
					idx = 0
				}
			}
			if idx > len(ref) {
				idx = len(ref)
			}
			ref = ref[:idx]
			seq.Truncate(o.arg)
		} else {
			ref = append(ref, struct{}{})
			seq.Append(PartText)
		}
		if seq.Len() != len(ref) {
			t.Fatalf("op %d: sequence length %d diverged from reference %d", i, seq.Len(), len(ref))
		}
	}
}

func TestSequenceSetText(t *testing.T) {
	var seq Sequence
	seq.Append(PartText)
	seq.Append(PartImage)

	if !seq.SetText(0, "hello") {
		t.Fatal("expected SetText on text part to succeed")
	}
	if seq.SetText(1, "nope") {
		t.Fatal("SetText on an image part must be refused")
	}
	if seq.SetText(5, "nope") {
		t.Fatal("SetText out of range must be refused")
	}
	p, _ := seq.Part(0)
	if p.Text != "hello" {
		t.Fatalf("expected %q, got %q", "hello", p.Text)
	}
}

func TestSequenceSetImageResolvesPlaceholder(t *testing.T) {
	var seq Sequence
	seq.Append(PartImage)

	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	if !seq.SetImage(0, img) {
		t.Fatal("expected SetImage on placeholder to succeed")
	}
	p, _ := seq.Part(0)
	if !p.Resolved() {
		t.Fatal("image part should be resolved after SetImage")
	}

	seq.Append(PartText)
	if seq.SetImage(1, img) {
		t.Fatal("SetImage on a text part must be refused")
	}
}

func TestMergeGenerationConcatenatesTrailingText(t *testing.T) {
	var seq Sequence
	seq.Append(PartText)
	seq.SetText(0, "a")

	seq.MergeGeneration("b")
	if seq.Len() != 1 {
		t.Fatalf("expected length 1, got %d", seq.Len())
	}
	p, _ := seq.Part(0)
	if p.Text != "ab" {
		t.Fatalf("expected %q, got %q", "ab", p.Text)
	}
}

func TestMergeGenerationAppendsAfterImage(t *testing.T) {
	var seq Sequence
	seq.Append(PartImage)

	seq.MergeGeneration("caption")
	if seq.Len() != 2 {
		t.Fatalf("expected length 2, got %d", seq.Len())
	}
	p, _ := seq.Part(1)
	if p.Kind != PartText || p.Text != "caption" {
		t.Fatalf("expected trailing text part %q, got %+v", "caption", p)
	}
}

func TestMergeGenerationOnEmptySequence(t *testing.T) {
	var seq Sequence
	seq.MergeGeneration("x")
	if seq.Len() != 1 {
		t.Fatalf("expected length 1, got %d", seq.Len())
	}
}
