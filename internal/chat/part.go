package chat

import "image"

// PartKind discriminates the two kinds of prompt parts.
type PartKind string

const (
	PartText  PartKind = "text"
	PartImage PartKind = "image"
)

// Part is one atomic unit of model input: either free text or an image.
// An image part with a nil Image is a placeholder still waiting for the
// user to resolve it (camera, upload or URL).
type Part struct {
	Kind  PartKind
	Text  string
	Image image.Image
}

// TextPart returns a text part holding s.
func TextPart(s string) Part {
	return Part{Kind: PartText, Text: s}
}

// ImagePart returns an image part. img may be nil for a placeholder.
func ImagePart(img image.Image) Part {
	return Part{Kind: PartImage, Image: img}
}

// Resolved reports whether the part is ready to be sent to the model.
// Text parts are always resolved; image parts need a decoded bitmap.
func (p Part) Resolved() bool {
	return p.Kind != PartImage || p.Image != nil
}

// Sequence is the ordered list of parts making up the prompt. Order is
// semantically meaningful: it is the literal order sent to the model.
type Sequence struct {
	parts []Part
}

// Len returns the number of parts.
func (s *Sequence) Len() int {
	return len(s.parts)
}

// Parts returns a copy of the underlying part slice.
func (s *Sequence) Parts() []Part {
	out := make([]Part, len(s.parts))
	copy(out, s.parts)
	return out
}

// Part returns the part at index i.
func (s *Sequence) Part(i int) (Part, bool) {
	if i < 0 || i >= len(s.parts) {
		return Part{}, false
	}
	return s.parts[i], true
}

// Append adds a new empty part of the given kind: an empty text part or an
// unresolved image placeholder.
func (s *Sequence) Append(kind PartKind) {
	switch kind {
	case PartImage:
		s.parts = append(s.parts, ImagePart(nil))
	default:
		s.parts = append(s.parts, TextPart(""))
	}
}

// Truncate keeps the prefix up to (not including) index. index -1 drops the
// last element; index 0 clears the sequence.
func (s *Sequence) Truncate(index int) {
	if index < 0 {
		index = len(s.parts) + index
		if index < 0 {
			index = 0
		}
	}
	if index > len(s.parts) {
		index = len(s.parts)
	}
	s.parts = s.parts[:index]
}

// SetText replaces the content of the text part at index i.
func (s *Sequence) SetText(i int, text string) bool {
	if i < 0 || i >= len(s.parts) || s.parts[i].Kind != PartText {
		return false
	}
	s.parts[i].Text = text
	return true
}

// SetImage resolves (or replaces) the image part at index i.
func (s *Sequence) SetImage(i int, img image.Image) bool {
	if i < 0 || i >= len(s.parts) || s.parts[i].Kind != PartImage {
		return false
	}
	s.parts[i].Image = img
	return true
}

// MergeGeneration commits an accepted generation result: concatenated onto
// the last part when it is text, appended as a new trailing text part
// otherwise (including when the sequence is empty).
func (s *Sequence) MergeGeneration(text string) {
	if n := len(s.parts); n > 0 && s.parts[n-1].Kind == PartText {
		s.parts[n-1].Text += text
		return
	}
	s.parts = append(s.parts, TextPart(text))
}
