package receipt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"snapledger/internal/imaging"
)

const jsonHeader = "JSON:\n"

// FewShot is one historical (image, rendered JSON) example pair.
type FewShot struct {
	Image image.Image
	JSON  string
}

// LoadFewShots turns every row of the example log into a prompt pair. The
// file_name column is dropped from the JSON and used to locate the example
// image; every other column is rendered, absent values as empty strings.
func LoadFewShots(examples *Store) ([]FewShot, error) {
	rows, err := examples.Rows()
	if err != nil {
		return nil, err
	}
	out := make([]FewShot, 0, len(rows))
	for i, rec := range rows {
		fileName := rec[ColFileName]
		if strings.TrimSpace(fileName) == "" {
			return nil, fmt.Errorf("example row %d: missing file_name", i)
		}
		img, err := loadExampleImage(examples.ImageDir, fileName)
		if err != nil {
			return nil, fmt.Errorf("example row %d: %w", i, err)
		}
		rendered, err := renderJSON(rec)
		if err != nil {
			return nil, fmt.Errorf("example row %d: %w", i, err)
		}
		out = append(out, FewShot{Image: img, JSON: rendered})
	}
	return out, nil
}

// renderJSON serializes a record as the prompt's indented JSON block,
// excluding the file_name key. Keys are written in log column order, which
// is also the order the instruction block introduces the fields in.
func renderJSON(rec Record) (string, error) {
	keys := make([]string, 0, len(Fields)+1)
	for _, col := range columns() {
		if col == ColFileName {
			continue
		}
		keys = append(keys, col)
	}

	var buf bytes.Buffer
	buf.WriteString("{\n")
	for i, k := range keys {
		kj, err := encodeJSONString(k)
		if err != nil {
			return "", err
		}
		vj, err := encodeJSONString(rec[k])
		if err != nil {
			return "", err
		}
		buf.WriteString("    " + kj + ": " + vj)
		if i < len(keys)-1 {
			buf.WriteString(",")
		}
		buf.WriteString("\n")
	}
	buf.WriteString("}")
	return jsonHeader + buf.String(), nil
}

func encodeJSONString(s string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return "", fmt.Errorf("render example json: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

func loadExampleImage(imageDir, fileName string) (image.Image, error) {
	path := fileName
	if !filepath.IsAbs(path) {
		path = filepath.Join(imageDir, fileName)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read example image: %w", err)
	}
	img, err := imaging.Decode(data)
	if err != nil {
		return nil, err
	}
	return img, nil
}
