package imaging

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	_ "image/png"
)

// Upload is a user-chosen file: its original name (for the extension check)
// and raw contents.
type Upload struct {
	Name string
	Data []byte
}

// Sources carries everything one refresh of an image slot may provide.
// Precedence when several are set: camera capture, then upload, then URL —
// each later source only considered when the earlier ones are absent.
type Sources struct {
	Camera []byte
	Upload *Upload
	URL    string
}

// ErrNoSource is returned when Resolve is handed an empty Sources value.
var ErrNoSource = errors.New("no image source provided")

var allowedUploadExts = map[string]bool{
	".jpg": true,
	".png": true,
}

// Resolve picks the winning source and decodes it into a bitmap.
func Resolve(ctx context.Context, src Sources) (image.Image, error) {
	switch {
	case len(src.Camera) > 0:
		return Decode(src.Camera)
	case src.Upload != nil:
		ext := strings.ToLower(filepath.Ext(src.Upload.Name))
		if !allowedUploadExts[ext] {
			return nil, fmt.Errorf("unsupported upload type %q (want .jpg or .png)", ext)
		}
		return Decode(src.Upload.Data)
	case strings.TrimSpace(src.URL) != "":
		data, err := fetch(ctx, strings.TrimSpace(src.URL))
		if err != nil {
			return nil, err
		}
		return Decode(data)
	}
	return nil, ErrNoSource
}

// Decode parses raw bytes into a bitmap using the registered codecs.
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

func fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch image URL: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch image URL: unexpected status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// EncodeJPEG renders a bitmap as JPEG bytes, the format used both for
// inline model input and for the persisted receipt images.
func EncodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
