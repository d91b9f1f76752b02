// Package organizer drives the music reorganization pipeline: scan, batch,
// extract, resolve, move, record.
//
// Every per-file failure is recovered at the file that caused it; a batch
// never aborts because one of its files had unreadable tags or an
// unwritable destination. The only fatal errors are the ones the caller
// hits before the pipeline starts (source missing, manifest unopenable).
package organizer

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Nomadcxx/tunewatch/internal/database"
	"github.com/Nomadcxx/tunewatch/internal/logging"
	"github.com/Nomadcxx/tunewatch/internal/manifest"
	"github.com/Nomadcxx/tunewatch/internal/metadata"
	"github.com/Nomadcxx/tunewatch/internal/naming"
	"github.com/Nomadcxx/tunewatch/internal/scanner"
	"github.com/Nomadcxx/tunewatch/internal/transfer"
)

// DefaultBatchSize bounds how many files are processed between manifest
// flushes when the caller does not choose one.
const DefaultBatchSize = 100

// ExtractFunc reads tag metadata from a file. The default is
// metadata.Extract; tests and callers with pre-read tags may substitute
// their own.
type ExtractFunc func(path string) (*metadata.Track, error)

// ProgressFunc is called after each file is processed.
type ProgressFunc func(done, total int, path string)

// FileResult describes the outcome for a single file.
type FileResult struct {
	Source     string
	Target     string
	Track      *metadata.Track
	Moved      bool
	Skipped    bool
	SkipReason string
	Overwrote  bool
	Err        error
}

// RunResult contains statistics from a full pipeline run.
type RunResult struct {
	Scanned          int
	Moved            int
	Skipped          int
	Batches          int
	EmptyDirsRemoved int
	Duration         time.Duration
}

// Organizer owns the pipeline for one destination library.
type Organizer struct {
	base        string
	batchSize   int
	dryRun      bool
	deleteEmpty bool
	mover       *transfer.Mover
	log         *logging.Logger
	history     *database.HistoryDB
	extract     ExtractFunc
	onProgress  ProgressFunc
}

// New creates an Organizer that files music under base.
func New(base string, options ...func(*Organizer)) *Organizer {
	org := &Organizer{
		base:      base,
		batchSize: DefaultBatchSize,
		mover:     transfer.NewMover(),
		log:       logging.Nop(),
		extract:   metadata.Extract,
	}

	for _, opt := range options {
		opt(org)
	}

	return org
}

// WithBatchSize sets how many files are processed per manifest flush.
func WithBatchSize(n int) func(*Organizer) {
	return func(o *Organizer) {
		if n >= 1 {
			o.batchSize = n
		}
	}
}

// WithDryRun sets dry run mode
func WithDryRun(dryRun bool) func(*Organizer) {
	return func(o *Organizer) {
		o.dryRun = dryRun
	}
}

// WithDeleteEmpty enables the empty-directory pass after all batches.
func WithDeleteEmpty(deleteEmpty bool) func(*Organizer) {
	return func(o *Organizer) {
		o.deleteEmpty = deleteEmpty
	}
}

// WithLogger injects the run's logger.
func WithLogger(log *logging.Logger) func(*Organizer) {
	return func(o *Organizer) {
		if log != nil {
			o.log = log
		}
	}
}

// WithHistory records completed moves in the given database.
func WithHistory(db *database.HistoryDB) func(*Organizer) {
	return func(o *Organizer) {
		o.history = db
	}
}

// WithExtractor substitutes the tag extractor.
func WithExtractor(fn ExtractFunc) func(*Organizer) {
	return func(o *Organizer) {
		if fn != nil {
			o.extract = fn
		}
	}
}

// WithProgress sets the per-file progress callback.
func WithProgress(fn ProgressFunc) func(*Organizer) {
	return func(o *Organizer) {
		o.onProgress = fn
	}
}

// Run executes the full pipeline: scan source, process the candidate set in
// batches, and optionally collect directories the moves left empty. The
// manifest sink must already be open (its header is written on open); Run
// flushes it at every batch boundary but closing it stays with the caller.
func (o *Organizer) Run(source string, sink *manifest.Writer) (*RunResult, error) {
	start := time.Now()

	scan, err := scanner.Scan(source)
	if err != nil {
		return nil, err
	}
	for _, scanErr := range scan.Errors {
		o.log.Warn("scan", "unable to read part of source tree", logging.F("error", scanErr))
	}

	result := &RunResult{Scanned: len(scan.Files)}
	done := 0

	for begin := 0; begin < len(scan.Files); begin += o.batchSize {
		end := begin + o.batchSize
		if end > len(scan.Files) {
			end = len(scan.Files)
		}

		o.processBatch(scan.Files[begin:end], sink, result, len(scan.Files), &done)
		result.Batches++

		if err := sink.Flush(); err != nil {
			o.log.Error("manifest", "unable to flush manifest batch", err)
		}
	}

	if o.deleteEmpty && !o.dryRun {
		removed, err := o.CollectEmptyDirs(source)
		if err != nil {
			o.log.Error("cleanup", "empty-directory pass failed", err)
		}
		result.EmptyDirsRemoved = removed
	}

	result.Duration = time.Since(start)
	return result, nil
}

// processBatch processes files in scan order, appending one manifest row
// per file that was fully organized.
func (o *Organizer) processBatch(files []string, sink *manifest.Writer, run *RunResult, total int, done *int) {
	for _, path := range files {
		res := o.ProcessFile(path)

		if res.Moved {
			run.Moved++
			if !o.dryRun {
				if err := sink.Append(manifestRow(res)); err != nil {
					o.log.Error("manifest", "unable to append manifest row", err, logging.F("file", path))
				}
			}
		} else {
			run.Skipped++
		}

		*done++
		if o.onProgress != nil {
			o.onProgress(*done, total, path)
		}
	}
}

// ProcessFile organizes a single file. Errors at any stage are logged with
// the failing stage's name and turn into a skip; they never propagate.
func (o *Organizer) ProcessFile(path string) *FileResult {
	result := &FileResult{Source: path}

	track, err := o.extract(path)
	if err != nil {
		o.log.Error("metadata", "skipping file with unreadable tags", err, logging.F("file", path))
		result.Skipped = true
		result.SkipReason = "unreadable tags"
		result.Err = err
		return result
	}
	result.Track = track

	dir := naming.TrackDir(o.base, track)
	result.Target = filepath.Join(dir, filepath.Base(path))

	if o.dryRun {
		result.Moved = true
		return result
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		o.log.Error("resolve", "unable to create destination directory", err,
			logging.F("file", path), logging.F("dir", dir))
		result.Skipped = true
		result.SkipReason = "destination not creatable"
		result.Err = err
		return result
	}

	if result.Target != path {
		if _, err := os.Stat(result.Target); err == nil {
			// Allowed, but worth a distinct trace: the original file at the
			// destination is replaced without a collision check.
			o.log.Warn("move", "overwriting existing file at destination",
				logging.F("source", path), logging.F("target", result.Target))
			result.Overwrote = true
		}
	}

	moved, err := o.mover.Move(path, result.Target)
	if err != nil {
		o.log.Error("move", "unable to move file", err,
			logging.F("file", path), logging.F("target", result.Target))
		result.Skipped = true
		result.SkipReason = "move failed"
		result.Err = err
		return result
	}

	result.Moved = true
	o.log.Debug("move", "moved file",
		logging.F("source", path),
		logging.F("target", moved.Path),
		logging.F("bytes", moved.BytesMoved))

	if o.history != nil {
		if err := o.history.InsertMove(path, result.Target, track); err != nil {
			o.log.Warn("history", "unable to record move", logging.F("error", err))
		}
	}

	return result
}

func manifestRow(res *FileResult) manifest.Row {
	return manifest.Row{
		Name:       res.Track.Name,
		Artists:    res.Track.Artists,
		MainArtist: res.Track.MainArtist,
		Year:       res.Track.Year,
		Album:      res.Track.Album,
		NewPath:    res.Target,
	}
}

// Base returns the destination library root.
func (o *Organizer) Base() string {
	return o.base
}

// String summarizes a file result for display.
func (r *FileResult) String() string {
	switch {
	case r.Moved:
		return fmt.Sprintf("moved %s -> %s", r.Source, r.Target)
	case r.Skipped:
		return fmt.Sprintf("skipped %s (%s)", r.Source, r.SkipReason)
	default:
		return fmt.Sprintf("unprocessed %s", r.Source)
	}
}
