// Package naming derives library paths for music files from their tags.
//
// The layout is base/<Letter>/<Album Artist>/<Album>/, where Letter is the
// uppercased first character of the album artist. Destination paths are a
// pure function of the tag fields and the base root, so re-organizing an
// already organized tree is a no-op.
package naming

import (
	"path/filepath"
	"regexp"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Nomadcxx/tunewatch/internal/metadata"
)

// forbiddenChars matches characters that are illegal or problematic in
// directory names on common filesystems.
var forbiddenChars = regexp.MustCompile(`[<>:"/\\|?*]`)

var upper = cases.Upper(language.Und)

// SanitizeFolderName strips forbidden characters from a folder name.
// It is total and idempotent; stripping everything yields the empty string.
func SanitizeFolderName(name string) string {
	return forbiddenChars.ReplaceAllString(name, "")
}

// ShelfLetter returns the first-level shelf folder for an album artist:
// the uppercased first character, or the Unknown sentinel verbatim.
func ShelfLetter(mainArtist string) string {
	if mainArtist == "" || mainArtist == metadata.Unknown {
		return metadata.Unknown
	}
	r, size := utf8.DecodeRuneInString(mainArtist)
	if r == utf8.RuneError && size <= 1 {
		return metadata.Unknown
	}
	return upper.String(mainArtist[:size])
}

// TrackDir computes the destination directory for a track under base.
// The album component is sanitized; the album artist is used verbatim as
// the tag wrote it, which means an artist containing a path separator
// produces nested folders.
func TrackDir(base string, track *metadata.Track) string {
	mainArtist := track.MainArtist
	if mainArtist == "" {
		mainArtist = metadata.Unknown
	}
	album := track.Album
	if album == "" {
		album = metadata.Unknown
	}

	return filepath.Join(base, ShelfLetter(mainArtist), mainArtist, SanitizeFolderName(album))
}
