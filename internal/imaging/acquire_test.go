package imaging

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func pngBytes(t *testing.T, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestResolveNoSource(t *testing.T) {
	_, err := Resolve(context.Background(), Sources{})
	assert.ErrorIs(t, err, ErrNoSource)
}

func TestResolveCameraWinsOverUploadAndURL(t *testing.T) {
	red := pngBytes(t, color.RGBA{R: 255, A: 255})
	blue := pngBytes(t, color.RGBA{B: 255, A: 255})

	img, err := Resolve(context.Background(), Sources{
		Camera: red,
		Upload: &Upload{Name: "b.png", Data: blue},
		URL:    "http://127.0.0.1:1/unreachable",
	})
	assert.NoError(t, err)

	r, _, _, _ := img.At(0, 0).RGBA()
	assert.Equal(t, uint32(0xffff), r, "camera source should win")
}

func TestResolveUploadWinsOverURL(t *testing.T) {
	blue := pngBytes(t, color.RGBA{B: 255, A: 255})
	img, err := Resolve(context.Background(), Sources{
		Upload: &Upload{Name: "pic.png", Data: blue},
		URL:    "http://127.0.0.1:1/unreachable",
	})
	assert.NoError(t, err)
	_, _, b, _ := img.At(0, 0).RGBA()
	assert.Equal(t, uint32(0xffff), b)
}

func TestResolveRejectsUnsupportedUploadExtension(t *testing.T) {
	_, err := Resolve(context.Background(), Sources{
		Upload: &Upload{Name: "pic.gif", Data: pngBytes(t, color.White)},
	})
	assert.Error(t, err)
}

func TestResolveFetchesURL(t *testing.T) {
	data := pngBytes(t, color.RGBA{G: 255, A: 255})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	img, err := Resolve(context.Background(), Sources{URL: srv.URL})
	assert.NoError(t, err)
	_, g, _, _ := img.At(0, 0).RGBA()
	assert.Equal(t, uint32(0xffff), g)
}

func TestResolveURLBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := Resolve(context.Background(), Sources{URL: srv.URL})
	assert.Error(t, err)
}

func TestEncodeJPEGRoundTrips(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 3))
	data, err := EncodeJPEG(img)
	assert.NoError(t, err)
	assert.NotEmpty(t, data)

	decoded, err := Decode(data)
	assert.NoError(t, err)
	assert.Equal(t, 3, decoded.Bounds().Dx())
}
