package manifest

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestOpenWritesHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.csv")

	w, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	records := readAll(t, path)
	require.Len(t, records, 1)
	assert.Equal(t, Header, records[0])
}

func TestAppendAndFlush(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.csv")

	w, err := Open(path)
	require.NoError(t, err)

	row := Row{
		Name:       "Song",
		Artists:    "Band feat. Guest",
		MainArtist: "Band",
		Year:       "2020",
		Album:      "Album",
		NewPath:    "/music/B/Band/Album/song.mp3",
	}
	require.NoError(t, w.Append(row))
	require.NoError(t, w.Flush())

	// Flushed rows are on disk before Close.
	records := readAll(t, path)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"Song", "Band feat. Guest", "Band", "2020", "Album", "/music/B/Band/Album/song.mp3"}, records[1])

	require.NoError(t, w.Close())
}

func TestRerunAppendsSecondHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.csv")

	w, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, w.Append(Row{Name: "one"}))
	require.NoError(t, w.Close())

	// A second run against the same path appends, header included.
	w, err = Open(path)
	require.NoError(t, err)
	require.NoError(t, w.Append(Row{Name: "two"}))
	require.NoError(t, w.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 4)
	assert.Equal(t, Header, records[0])
	assert.Equal(t, "one", records[1][0])
	assert.Equal(t, Header, records[2])
	assert.Equal(t, "two", records[3][0])
}

func TestOpenFailsOnMissingDirectory(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing", "manifest.csv"))
	assert.Error(t, err)
}
