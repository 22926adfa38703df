// Package export writes the collected batch to a flat CSV file.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/booklore/bookstore-crawler/internal/catalog"
)

// header is the fixed column order of the export file.
var header = []string{"title", "price", "rating", "availability", "category", "image_url"}

// CSVExporter writes one file per batch, replacing any prior export.
type CSVExporter struct {
	path string
}

// NewCSVExporter builds an exporter targeting path.
func NewCSVExporter(path string) *CSVExporter {
	return &CSVExporter{path: path}
}

// Export writes the header row plus one row per book, truncating any
// previous file at the same path.
func (e *CSVExporter) Export(books []catalog.Book) error {
	if err := ensureDir(e.path); err != nil {
		return err
	}

	f, err := os.Create(e.path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, b := range books {
		record := []string{
			b.Title,
			strconv.FormatFloat(b.Price, 'f', 2, 64),
			strconv.Itoa(b.Rating),
			b.Availability,
			b.Category,
			b.ImageURL,
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv records: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close csv file: %w", err)
	}
	return nil
}

func ensureDir(filename string) error {
	dir := filepath.Dir(filename)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", dir, err)
	}
	return nil
}

var _ catalog.Exporter = (*CSVExporter)(nil)
