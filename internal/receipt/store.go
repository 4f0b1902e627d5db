package receipt

import (
	"encoding/csv"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/yargevad/filepathx"

	"snapledger/internal/imaging"
)

// logTimezone is the fixed zone submit timestamps and the identifier date
// prefix are taken in, regardless of the machine's local zone.
const logTimezone = "Asia/Seoul"

// Store is the append-only receipt log: a row-oriented CSV with a leading
// index column, plus one JPEG per row in an images directory keyed by the
// row's file_name. Single writer assumed; there is no file locking.
type Store struct {
	LogPath  string
	ImageDir string

	loc *time.Location
	now func() time.Time
}

func NewStore(logPath, imageDir string) (*Store, error) {
	loc, err := time.LoadLocation(logTimezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", logTimezone, err)
	}
	return &Store{
		LogPath:  logPath,
		ImageDir: imageDir,
		loc:      loc,
		now:      time.Now,
	}, nil
}

// Rows reads the whole log. A missing file is an empty log; a file that
// exists but cannot be read or parsed is an error — the two cases are
// deliberately distinguished so a corrupt log never gets overwritten from
// row zero.
func (s *Store) Rows() ([]Record, error) {
	f, err := os.Open(s.LogPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open receipt log: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse receipt log: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := rows[0]
	out := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(Record, len(header))
		for i, col := range header {
			if i == 0 || i >= len(row) {
				continue // leading index column, or short row
			}
			rec[col] = row[i]
		}
		out = append(out, rec)
	}
	return out, nil
}

// NextFileName derives the identifier for the row that would be appended to
// a log currently holding count rows: {today}_{count:04d}.jpg. The count is
// the total log size, not a per-day counter, so the suffix keeps growing
// across day boundaries.
func (s *Store) NextFileName(count int) string {
	today := s.now().In(s.loc).Format("20060102")
	return fmt.Sprintf("%s_%04d.jpg", today, count)
}

// Append assigns the next identifier and submit timestamp, writes the image
// under the images directory, rewrites the full log with the new row, and
// returns the finalized record. Nothing is reported as success before both
// writes complete.
func (s *Store) Append(rec Record, img image.Image) (Record, error) {
	if img == nil {
		return nil, errors.New("receipt image is required")
	}

	existing, err := s.Rows()
	if err != nil {
		return nil, err
	}

	final := rec.Clone()
	final[ColSubmitDatetime] = s.now().In(s.loc).Format("2006-01-02 15:04:05")
	final[ColFileName] = s.NextFileName(len(existing))

	if err := s.writeImage(final[ColFileName], img); err != nil {
		return nil, err
	}
	if err := s.writeLog(append(existing, final)); err != nil {
		// The row was never recorded, so its image must not survive: the
		// same identifier will be assigned to the next append.
		os.Remove(filepath.Join(s.ImageDir, final[ColFileName]))
		return nil, err
	}
	return final, nil
}

func (s *Store) writeImage(fileName string, img image.Image) error {
	if err := os.MkdirAll(s.ImageDir, 0755); err != nil {
		return fmt.Errorf("create image dir: %w", err)
	}
	data, err := imaging.EncodeJPEG(img)
	if err != nil {
		return err
	}
	path := filepath.Join(s.ImageDir, fileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write receipt image: %w", err)
	}
	return nil
}

func (s *Store) writeLog(rows []Record) error {
	if err := os.MkdirAll(filepath.Dir(s.LogPath), 0755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.Create(s.LogPath)
	if err != nil {
		return fmt.Errorf("write receipt log: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	cols := columns()
	header := append([]string{""}, cols...)
	if err := w.Write(header); err != nil {
		return err
	}
	for i, rec := range rows {
		row := make([]string, 0, len(cols)+1)
		row = append(row, strconv.Itoa(i))
		for _, col := range cols {
			row = append(row, rec[col])
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write receipt log: %w", err)
	}
	return f.Sync()
}

// ImagePaths lists the stored receipt images, newest identifier last.
func (s *Store) ImagePaths() ([]string, error) {
	paths, err := filepathx.Glob(filepath.Join(s.ImageDir, "*.jpg"))
	if err != nil {
		return nil, fmt.Errorf("list receipt images: %w", err)
	}
	sort.Strings(paths)
	return paths, nil
}
