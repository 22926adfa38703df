package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/booklore/bookstore-crawler/internal/catalog"
)

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestExportWritesHeaderAndRows(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out", "books.csv")
	e := NewCSVExporter(path)

	err := e.Export([]catalog.Book{
		{Title: "Alpha", Price: 10.5, Rating: 3, Availability: "9", Category: "Fiction", ImageURL: "https://x/a.jpg"},
		{Title: "Beta", Price: 0, Rating: 0, Availability: "", Category: "Poetry", ImageURL: "https://x/b.jpg"},
	})
	require.NoError(t, err)

	rows := readRows(t, path)
	require.Equal(t, [][]string{
		{"title", "price", "rating", "availability", "category", "image_url"},
		{"Alpha", "10.50", "3", "9", "Fiction", "https://x/a.jpg"},
		{"Beta", "0.00", "0", "", "Poetry", "https://x/b.jpg"},
	}, rows)
}

func TestExportReplacesPriorFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "books.csv")
	e := NewCSVExporter(path)

	require.NoError(t, e.Export([]catalog.Book{
		{Title: "Old One"}, {Title: "Old Two"}, {Title: "Old Three"},
	}))
	require.NoError(t, e.Export([]catalog.Book{{Title: "New"}}))

	rows := readRows(t, path)
	require.Len(t, rows, 2, "second export must truncate the first")
	require.Equal(t, "New", rows[1][0])
}

func TestExportQuotesEmbeddedCommas(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "books.csv")
	e := NewCSVExporter(path)

	require.NoError(t, e.Export([]catalog.Book{
		{Title: "One, Two, Three", Category: "Say \"hi\""},
	}))

	rows := readRows(t, path)
	require.Equal(t, "One, Two, Three", rows[1][0])
	require.Equal(t, "Say \"hi\"", rows[1][4])
}
