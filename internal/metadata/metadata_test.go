package metadata

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/dhowden/tag"
)

// stubMetadata implements tag.Metadata with canned values.
type stubMetadata struct {
	title       string
	artist      string
	albumArtist string
	album       string
	year        int
}

func (s stubMetadata) Format() tag.Format       { return tag.ID3v2_3 }
func (s stubMetadata) FileType() tag.FileType   { return tag.MP3 }
func (s stubMetadata) Title() string            { return s.title }
func (s stubMetadata) Album() string            { return s.album }
func (s stubMetadata) Artist() string           { return s.artist }
func (s stubMetadata) AlbumArtist() string      { return s.albumArtist }
func (s stubMetadata) Composer() string         { return "" }
func (s stubMetadata) Genre() string            { return "" }
func (s stubMetadata) Year() int                { return s.year }
func (s stubMetadata) Track() (int, int)        { return 0, 0 }
func (s stubMetadata) Disc() (int, int)         { return 0, 0 }
func (s stubMetadata) Picture() *tag.Picture    { return nil }
func (s stubMetadata) Lyrics() string           { return "" }
func (s stubMetadata) Comment() string          { return "" }
func (s stubMetadata) Raw() map[string]any      { return nil }

func TestNewTrack_AllFieldsPresent(t *testing.T) {
	track := newTrack(stubMetadata{
		title:       "X",
		artist:      "Y",
		albumArtist: "Artist/Z",
		album:       "Best:Of",
		year:        2020,
	})

	if track.Name != "X" {
		t.Errorf("Name = %q, want X", track.Name)
	}
	if track.Artists != "Y" {
		t.Errorf("Artists = %q, want Y", track.Artists)
	}
	if track.MainArtist != "Artist/Z" {
		t.Errorf("MainArtist = %q, want Artist/Z", track.MainArtist)
	}
	if track.Year != "2020" {
		t.Errorf("Year = %q, want 2020", track.Year)
	}
	if track.Album != "Best:Of" {
		t.Errorf("Album = %q, want Best:Of", track.Album)
	}
}

func TestNewTrack_MissingFieldsBecomeUnknown(t *testing.T) {
	track := newTrack(stubMetadata{title: "Only Title"})

	if track.Name != "Only Title" {
		t.Errorf("Name = %q, want Only Title", track.Name)
	}
	for field, got := range map[string]string{
		"Artists":    track.Artists,
		"MainArtist": track.MainArtist,
		"Year":       track.Year,
		"Album":      track.Album,
	} {
		if got != Unknown {
			t.Errorf("%s = %q, want %q", field, got, Unknown)
		}
	}
}

func TestExtract_UnreadableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "noise.mp3")
	if err := os.WriteFile(path, []byte("this is not audio"), 0644); err != nil {
		t.Fatal(err)
	}

	track, err := Extract(path)
	if err == nil {
		t.Fatal("expected error for untagged file")
	}
	if track != nil {
		t.Errorf("expected nil track, got %+v", track)
	}
}

func TestExtract_MissingFile(t *testing.T) {
	_, err := Extract(filepath.Join(t.TempDir(), "gone.mp3"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestExtract_MinimalID3v2(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tagged.mp3")
	if err := os.WriteFile(path, buildID3v23(t, map[string]string{
		"TIT2": "Song",
		"TPE2": "Band",
	}), 0644); err != nil {
		t.Fatal(err)
	}

	track, err := Extract(path)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if track.Name != "Song" {
		t.Errorf("Name = %q, want Song", track.Name)
	}
	if track.MainArtist != "Band" {
		t.Errorf("MainArtist = %q, want Band", track.MainArtist)
	}
	if track.Album != Unknown {
		t.Errorf("Album = %q, want %q", track.Album, Unknown)
	}
}

// buildID3v23 assembles a minimal ID3v2.3 tag containing the given text frames.
func buildID3v23(t *testing.T, frames map[string]string) []byte {
	t.Helper()

	var body []byte
	for id, text := range frames {
		payload := append([]byte{0x00}, []byte(text)...) // ISO-8859-1 encoding marker
		frame := make([]byte, 10)
		copy(frame, id)
		binary.BigEndian.PutUint32(frame[4:8], uint32(len(payload)))
		body = append(body, frame...)
		body = append(body, payload...)
	}

	header := []byte{'I', 'D', '3', 0x03, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	size := len(body)
	// Tag size is a 28-bit synchsafe integer.
	header[6] = byte(size >> 21 & 0x7f)
	header[7] = byte(size >> 14 & 0x7f)
	header[8] = byte(size >> 7 & 0x7f)
	header[9] = byte(size & 0x7f)

	return append(header, body...)
}
