package ioutils

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/handiism/osu-collector-dl/internal/model"
	"github.com/spf13/afero"
)

// ArchiveExt is the extension osu! imports beatmapset archives from.
const ArchiveExt = ".osz"

// maxNameLen keeps archive names well inside Windows MAX_PATH.
const maxNameLen = 200

var (
	invalidChars   = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	trailingDots   = regexp.MustCompile(`\.+$`)
	repeatedSpaces = regexp.MustCompile(`\s+`)
)

// Storage is the directory archives are written to.
//
// Storage is safe for concurrent use; each archive is written to its own
// temporary file and renamed into place.
type Storage struct {
	fs  afero.Fs
	dir string
}

// NewStorage returns a Storage for dir on the OS filesystem.
func NewStorage(dir string) *Storage {
	return NewStorageWithFS(afero.NewOsFs(), dir)
}

// NewStorageWithFS returns a Storage for dir on fs.
func NewStorageWithFS(fs afero.Fs, dir string) *Storage {
	return &Storage{fs: fs, dir: dir}
}

// Dir returns the destination directory.
func (s *Storage) Dir() string {
	return s.dir
}

// Exists reports whether an entry whose name contains the beatmapset id is
// present in the destination directory. osu! names imported folders
// "<id> <artist> - <title>", and pending archives carry the same prefix.
func (s *Storage) Exists(id int) (bool, error) {
	entries, err := afero.ReadDir(s.fs, s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	needle := strconv.Itoa(id)
	for _, e := range entries {
		// Hidden entries include in-flight temporary files.
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if strings.Contains(e.Name(), needle) {
			return true, nil
		}
	}

	return false, nil
}

// Write stores data under name in the destination directory and returns the
// full path.
//
// The data is written to a temporary file first, so an interrupted run never
// leaves a truncated archive for osu! to import.
func (s *Storage) Write(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := s.fs.MkdirAll(s.dir, 0755); err != nil {
		return "", err
	}

	dst := filepath.Join(s.dir, name)
	tmp, err := afero.TempFile(s.fs, s.dir, ".dl-*")
	if err != nil {
		return "", err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		s.fs.Remove(tmpName)
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		s.fs.Remove(tmpName)
		return "", fmt.Errorf("close %s: %w", name, err)
	}
	if err := s.fs.Rename(tmpName, dst); err != nil {
		s.fs.Remove(tmpName)
		return "", fmt.Errorf("rename %s: %w", name, err)
	}

	return dst, nil
}

// ArchiveName returns the sanitized file name of a beatmapset archive:
// "<id> <artist> - <title>.osz".
func ArchiveName(set *model.Beatmapset) string {
	base := strconv.Itoa(set.ID)
	if set.Artist != "" || set.Title != "" {
		base += " " + set.Artist + " - " + set.Title
	}

	base = SanitizeFileName(base)
	if len(base) > maxNameLen {
		cut := maxNameLen
		for cut > 0 && !utf8.RuneStart(base[cut]) {
			cut--
		}
		base = strings.TrimRight(base[:cut], " ")
	}

	return base + ArchiveExt
}

// SanitizeFileName removes or replaces characters that are invalid in file/folder names.
//
// This function ensures filenames are valid across different operating systems,
// particularly Windows which has the most restrictive naming rules.
//
// The following transformations are applied:
//   - Invalid characters (<>:"/\|?* and control chars 0x00-0x1f) → underscore
//   - Trailing dots → removed (Windows limitation)
//   - Multiple whitespace → single space
//   - Trailing whitespace → removed
//
// Example:
//
//	SanitizeFileName("Song: Part 1/2")     // Returns "Song_ Part 1_2"
//	SanitizeFileName("Track...")           // Returns "Track"
//	SanitizeFileName("Name   with  spaces") // Returns "Name with spaces"
func SanitizeFileName(name string) string {
	name = invalidChars.ReplaceAllString(name, "_")
	name = trailingDots.ReplaceAllString(name, "")
	name = repeatedSpaces.ReplaceAllString(name, " ")
	name = strings.TrimRight(name, " ")

	return name
}
