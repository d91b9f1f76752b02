// Package transfer relocates files into the music library.
//
// Moves take the rename fast path when source and destination share a
// filesystem and fall back to copy-and-remove across devices. A file is
// never left half-moved: either the source still exists or the destination
// holds the complete content.
package transfer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"
	"time"
)

// Common errors returned by move operations
var (
	// ErrSourceNotFound is returned when the source file doesn't exist
	ErrSourceNotFound = errors.New("source file not found")

	// ErrDestinationNotWritable is returned when the destination cannot be written
	ErrDestinationNotWritable = errors.New("destination not writable")
)

const defaultBufferSize = 1 * 1024 * 1024

// Result contains details about a completed move.
type Result struct {
	// Path is the final destination path
	Path string

	// BytesMoved is the source file size
	BytesMoved int64

	// Renamed is true when the move was a same-filesystem rename,
	// false when it required a cross-device copy
	Renamed bool

	Duration time.Duration
}

// Mover relocates files. The zero value is not usable; use NewMover.
type Mover struct {
	bufferSize int
}

func NewMover() *Mover {
	return &Mover{bufferSize: defaultBufferSize}
}

// Move relocates src to dst, overwriting any existing file at dst.
// Intermediate directories are expected to exist already.
func (m *Mover) Move(src, dst string) (*Result, error) {
	start := time.Now()

	info, err := os.Stat(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceNotFound, err)
	}

	result := &Result{Path: dst, BytesMoved: info.Size()}

	err = os.Rename(src, dst)
	if err == nil {
		result.Renamed = true
		result.Duration = time.Since(start)
		return result, nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return nil, fmt.Errorf("%w: %v", ErrDestinationNotWritable, err)
	}

	// Cross-device: copy, then remove the source only once the copy is
	// complete and synced.
	if err := m.copyFile(src, dst, info.Mode()); err != nil {
		os.Remove(dst)
		return nil, err
	}
	if err := os.Remove(src); err != nil {
		return nil, fmt.Errorf("unable to remove source after copy: %w", err)
	}

	result.Duration = time.Since(start)
	return result, nil
}

func (m *Mover) copyFile(src, dst string, mode os.FileMode) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSourceNotFound, err)
	}
	defer srcFile.Close()

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDestinationNotWritable, err)
	}
	defer dstFile.Close()

	buf := make([]byte, m.bufferSize)
	if _, err := io.CopyBuffer(dstFile, srcFile, buf); err != nil {
		return fmt.Errorf("copy failed: %w", err)
	}
	if err := dstFile.Sync(); err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}
	return nil
}
