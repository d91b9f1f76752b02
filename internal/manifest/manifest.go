// Package manifest writes the CSV record of organized files.
//
// The sink is opened in append mode and a header row is written once per
// run, so successive runs against the same path accumulate their rows (and
// headers) rather than truncating earlier history. Rows are buffered and
// flushed explicitly at batch boundaries.
package manifest

import (
	"encoding/csv"
	"fmt"
	"os"
)

// Header is the column header written once per run.
var Header = []string{"Name", "Artists", "Main Artist", "Year", "Album", "New Path"}

// Row is one manifest record for a successfully organized file.
type Row struct {
	Name       string
	Artists    string
	MainArtist string
	Year       string
	Album      string
	NewPath    string
}

// Writer is an append-mode CSV sink. It is owned by a single run; none of
// its methods are safe for concurrent use.
type Writer struct {
	path string
	file *os.File
	csv  *csv.Writer
}

// Open opens (or creates) the manifest at path for appending and writes the
// header row. The caller owns the Writer for the duration of the run and
// must Close it to flush the final batch.
func Open(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("unable to open manifest %s: %w", path, err)
	}

	w := &Writer{
		path: path,
		file: f,
		csv:  csv.NewWriter(f),
	}

	if err := w.csv.Write(Header); err != nil {
		f.Close()
		return nil, fmt.Errorf("unable to write manifest header: %w", err)
	}

	return w, nil
}

// Append buffers one row. Rows reach the file on the next Flush or Close.
func (w *Writer) Append(row Row) error {
	record := []string{row.Name, row.Artists, row.MainArtist, row.Year, row.Album, row.NewPath}
	if err := w.csv.Write(record); err != nil {
		return fmt.Errorf("unable to append manifest row: %w", err)
	}
	return nil
}

// Flush writes buffered rows to the file. Called at batch boundaries.
func (w *Writer) Flush() error {
	w.csv.Flush()
	return w.csv.Error()
}

// Close flushes buffered rows and closes the file.
func (w *Writer) Close() error {
	flushErr := w.Flush()
	closeErr := w.file.Close()
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}

// Path returns the manifest file path.
func (w *Writer) Path() string {
	return w.path
}
