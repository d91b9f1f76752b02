// Package metadata reads embedded tags from music files.
//
// Extraction degrades gracefully: a missing field becomes the Unknown
// sentinel, and only a file that cannot be parsed as tagged audio at all
// yields an error.
package metadata

import (
	"fmt"
	"os"
	"strconv"

	"github.com/dhowden/tag"
)

// Unknown is substituted for any tag field that is absent or empty.
const Unknown = "Unknown"

// Track holds the tag fields tunewatch organizes by. Fields are never
// empty: absent values are replaced with Unknown at extraction time.
type Track struct {
	Name       string
	Artists    string
	MainArtist string
	Year       string
	Album      string
}

// Extract opens path as a tagged audio file and reads the fields tunewatch
// cares about. Any field the file lacks comes back as Unknown. If the file
// cannot be parsed as tagged audio at all, Extract returns a nil Track and
// the parse error; callers are expected to skip the file rather than abort.
func Extract(path string) (*Track, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open %s: %w", path, err)
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return nil, fmt.Errorf("unable to read tags from %s: %w", path, err)
	}

	return newTrack(m), nil
}

// newTrack maps parsed tag metadata onto a Track, applying the Unknown
// sentinel per field.
func newTrack(m tag.Metadata) *Track {
	return &Track{
		Name:       orUnknown(m.Title()),
		Artists:    orUnknown(m.Artist()),
		MainArtist: orUnknown(m.AlbumArtist()),
		Year:       yearString(m.Year()),
		Album:      orUnknown(m.Album()),
	}
}

func orUnknown(s string) string {
	if s == "" {
		return Unknown
	}
	return s
}

func yearString(year int) string {
	if year == 0 {
		return Unknown
	}
	return strconv.Itoa(year)
}
