package organizer

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Nomadcxx/tunewatch/internal/manifest"
	"github.com/Nomadcxx/tunewatch/internal/metadata"
)

// fakeExtract resolves tags by base filename; files not in the map behave
// like files with unreadable tags.
func fakeExtract(tracks map[string]*metadata.Track) ExtractFunc {
	return func(path string) (*metadata.Track, error) {
		track, ok := tracks[filepath.Base(path)]
		if !ok {
			return nil, errors.New("unreadable tags")
		}
		return track, nil
	}
}

func track(name, mainArtist, album string) *metadata.Track {
	return &metadata.Track{
		Name:       name,
		Artists:    mainArtist,
		MainArtist: mainArtist,
		Year:       "2020",
		Album:      album,
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func readManifest(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return records
}

func runPipeline(t *testing.T, source, base string, tracks map[string]*metadata.Track, options ...func(*Organizer)) (*RunResult, string) {
	t.Helper()

	manifestPath := filepath.Join(t.TempDir(), "manifest.csv")
	sink, err := manifest.Open(manifestPath)
	if err != nil {
		t.Fatal(err)
	}
	defer sink.Close()

	options = append([]func(*Organizer){WithExtractor(fakeExtract(tracks))}, options...)
	org := New(base, options...)

	result, err := org.Run(source, sink)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	return result, manifestPath
}

func TestRun_MovesFilesIntoLayout(t *testing.T) {
	source := t.TempDir()
	base := t.TempDir()

	writeFile(t, filepath.Join(source, "one.mp3"), "one")
	writeFile(t, filepath.Join(source, "sub", "two.flac"), "two")

	tracks := map[string]*metadata.Track{
		"one.mp3":  track("One", "Radiohead", "OK Computer"),
		"two.flac": track("Two", "björk", "Debut"),
	}

	result, manifestPath := runPipeline(t, source, base, tracks)

	if result.Scanned != 2 || result.Moved != 2 || result.Skipped != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}

	wantOne := filepath.Join(base, "R", "Radiohead", "OK Computer", "one.mp3")
	wantTwo := filepath.Join(base, "B", "björk", "Debut", "two.flac")
	for _, want := range []string{wantOne, wantTwo} {
		if _, err := os.Stat(want); err != nil {
			t.Errorf("expected file at %s: %v", want, err)
		}
	}
	if _, err := os.Stat(filepath.Join(source, "one.mp3")); !os.IsNotExist(err) {
		t.Error("source file should be gone after move")
	}

	records := readManifest(t, manifestPath)
	if len(records) != 3 { // header + 2 rows
		t.Fatalf("manifest has %d records, want 3", len(records))
	}
	if records[1][5] != wantOne {
		t.Errorf("manifest row path = %q, want %q", records[1][5], wantOne)
	}
}

func TestRun_UnreadableTagsSkippedWithoutRow(t *testing.T) {
	source := t.TempDir()
	base := t.TempDir()

	writeFile(t, filepath.Join(source, "good.mp3"), "good")
	writeFile(t, filepath.Join(source, "bad.mp3"), "bad")

	tracks := map[string]*metadata.Track{
		"good.mp3": track("Good", "Band", "Album"),
	}

	result, manifestPath := runPipeline(t, source, base, tracks)

	if result.Moved != 1 || result.Skipped != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}

	// Skipped file stays in place and produces no manifest row.
	if _, err := os.Stat(filepath.Join(source, "bad.mp3")); err != nil {
		t.Errorf("skipped file should remain at source: %v", err)
	}
	records := readManifest(t, manifestPath)
	if len(records) != 2 { // header + 1 row
		t.Fatalf("manifest has %d records, want 2", len(records))
	}
}

func TestRun_BatchSizeDoesNotAffectOutcome(t *testing.T) {
	tracks := map[string]*metadata.Track{}
	names := []string{"a.mp3", "b.mp3", "c.mp3", "d.mp3", "e.mp3"}
	for _, n := range names {
		tracks[n] = track(n, "Artist", "Album")
	}

	layout := func(batchSize int) ([]string, [][]string) {
		source := t.TempDir()
		base := t.TempDir()
		for _, n := range names {
			writeFile(t, filepath.Join(source, n), n)
		}

		result, manifestPath := runPipeline(t, source, base, tracks, WithBatchSize(batchSize))
		if result.Moved != len(names) {
			t.Fatalf("batch size %d: moved %d, want %d", batchSize, result.Moved, len(names))
		}

		var files []string
		filepath.Walk(base, func(path string, info os.FileInfo, err error) error {
			if err == nil && !info.IsDir() {
				rel, _ := filepath.Rel(base, path)
				files = append(files, rel)
			}
			return nil
		})
		return files, readManifest(t, manifestPath)[1:]
	}

	filesOne, rowsOne := layout(1)
	filesAll, rowsAll := layout(len(names) + 10)

	if len(filesOne) != len(filesAll) {
		t.Fatalf("layouts differ: %v vs %v", filesOne, filesAll)
	}
	for i := range filesOne {
		if filesOne[i] != filesAll[i] {
			t.Errorf("layout[%d]: %q vs %q", i, filesOne[i], filesAll[i])
		}
	}
	if len(rowsOne) != len(rowsAll) {
		t.Fatalf("manifest row counts differ: %d vs %d", len(rowsOne), len(rowsAll))
	}
	for i := range rowsOne {
		// Compare tag columns; the path column differs by temp dir.
		for col := 0; col < 5; col++ {
			if rowsOne[i][col] != rowsAll[i][col] {
				t.Errorf("row %d col %d: %q vs %q", i, col, rowsOne[i][col], rowsAll[i][col])
			}
		}
	}
}

func TestRun_DryRunMovesNothing(t *testing.T) {
	source := t.TempDir()
	base := t.TempDir()

	writeFile(t, filepath.Join(source, "one.mp3"), "one")
	tracks := map[string]*metadata.Track{"one.mp3": track("One", "Band", "Album")}

	result, manifestPath := runPipeline(t, source, base, tracks, WithDryRun(true))

	if result.Moved != 1 {
		t.Fatalf("dry run should report the would-be move: %+v", result)
	}
	if _, err := os.Stat(filepath.Join(source, "one.mp3")); err != nil {
		t.Error("dry run must leave the source in place")
	}
	if _, err := os.Stat(filepath.Join(base, "B")); !os.IsNotExist(err) {
		t.Error("dry run must not create destination directories")
	}
	if records := readManifest(t, manifestPath); len(records) != 1 {
		t.Errorf("dry run manifest has %d records, want header only", len(records))
	}
}

func TestProcessFile_OverwritesAndFlags(t *testing.T) {
	source := t.TempDir()
	base := t.TempDir()

	writeFile(t, filepath.Join(source, "song.mp3"), "new content")
	existing := filepath.Join(base, "B", "Band", "Album", "song.mp3")
	writeFile(t, existing, "old content")

	org := New(base, WithExtractor(fakeExtract(map[string]*metadata.Track{
		"song.mp3": track("Song", "Band", "Album"),
	})))

	res := org.ProcessFile(filepath.Join(source, "song.mp3"))
	if !res.Moved {
		t.Fatalf("expected move, got %+v", res)
	}
	if !res.Overwrote {
		t.Error("expected Overwrote flag for existing destination")
	}

	got, err := os.ReadFile(existing)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "new content" {
		t.Errorf("destination = %q, want new content", got)
	}
}

func TestProcessFile_SpecScenario(t *testing.T) {
	source := t.TempDir()
	base := t.TempDir()

	writeFile(t, filepath.Join(source, "song.mp3"), "x")

	org := New(base, WithExtractor(fakeExtract(map[string]*metadata.Track{
		"song.mp3": {
			Name:       "X",
			Artists:    "Y",
			MainArtist: "Artist/Z",
			Year:       "2020",
			Album:      "Best:Of",
		},
	})))

	res := org.ProcessFile(filepath.Join(source, "song.mp3"))
	if !res.Moved {
		t.Fatalf("expected move, got %+v", res)
	}

	// Album is sanitized; the album artist is used verbatim, so the slash
	// nests a folder.
	want := filepath.Join(base, "A", "Artist", "Z", "BestOf", "song.mp3")
	if res.Target != want {
		t.Errorf("target = %q, want %q", res.Target, want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("expected file at %s: %v", want, err)
	}
}

func TestRun_DeleteEmptyCollectsSourceDirs(t *testing.T) {
	source := t.TempDir()
	base := t.TempDir()

	writeFile(t, filepath.Join(source, "sub", "only.mp3"), "x")
	tracks := map[string]*metadata.Track{"only.mp3": track("Only", "Band", "Album")}

	result, _ := runPipeline(t, source, base, tracks, WithDeleteEmpty(true))

	if result.EmptyDirsRemoved != 1 {
		t.Errorf("EmptyDirsRemoved = %d, want 1", result.EmptyDirsRemoved)
	}
	if _, err := os.Stat(filepath.Join(source, "sub")); !os.IsNotExist(err) {
		t.Error("emptied source subdirectory should be deleted")
	}
}
