package ioutils

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/handiism/osu-collector-dl/internal/model"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"normal-file.osz", "normal-file.osz"},
		{"file:with:colons.osz", "file_with_colons.osz"},
		{"file<with>brackets.osz", "file_with_brackets.osz"},
		{"file/with\\slashes.osz", "file_with_slashes.osz"},
		{"file|with|pipes.osz", "file_with_pipes.osz"},
		{"file?with*wildcards.osz", "file_with_wildcards.osz"},
		{"trailing dots...", "trailing dots"},
		{"multiple   spaces", "multiple spaces"},
		{"trailing spaces   ", "trailing spaces"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := SanitizeFileName(tt.input); got != tt.want {
				t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestArchiveName(t *testing.T) {
	tests := []struct {
		set  *model.Beatmapset
		want string
	}{
		{&model.Beatmapset{ID: 39804, Artist: "xi", Title: "FREEDOM DiVE"}, "39804 xi - FREEDOM DiVE.osz"},
		{&model.Beatmapset{ID: 1, Artist: "AC/DC", Title: "T.N.T."}, "1 AC_DC - T.N.T.osz"},
		{&model.Beatmapset{ID: 2}, "2.osz"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, ArchiveName(tt.set))
		})
	}
}

func TestArchiveName_Truncates(t *testing.T) {
	long := make([]byte, 400)
	for i := range long {
		long[i] = 'a'
	}
	name := ArchiveName(&model.Beatmapset{ID: 3, Artist: string(long), Title: "t"})
	assert.LessOrEqual(t, len(name), maxNameLen+len(ArchiveExt))
}

func TestArchiveName_TruncatesOnRuneBoundary(t *testing.T) {
	// "12 " puts byte maxNameLen in the middle of a two-byte rune.
	set := &model.Beatmapset{ID: 12, Artist: strings.Repeat("é", 150), Title: "x"}

	name := ArchiveName(set)
	assert.True(t, utf8.ValidString(name), "name %q is not valid UTF-8", name)
	assert.LessOrEqual(t, len(name), maxNameLen+len(ArchiveExt))
	assert.True(t, strings.HasSuffix(name, "é"+ArchiveExt))
}

func TestStorage_Exists(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/songs/42 artist - title/map.osu", []byte("x"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/songs/.dl-777", []byte("x"), 0644))

	s := NewStorageWithFS(fs, "/songs")

	ok, err := s.Exists(42)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Exists(43)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.Exists(777)
	require.NoError(t, err)
	assert.False(t, ok, "temporary files do not count")
}

func TestStorage_ExistsMissingDir(t *testing.T) {
	s := NewStorageWithFS(afero.NewMemMapFs(), "/nowhere")
	ok, err := s.Exists(1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStorage_Write(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := NewStorageWithFS(fs, "/songs")

	path, err := s.Write(context.Background(), "1 a - b.osz", []byte("PK"))
	require.NoError(t, err)
	assert.Equal(t, "/songs/1 a - b.osz", path)

	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	assert.Equal(t, "PK", string(data))

	entries, err := afero.ReadDir(fs, "/songs")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestStorage_WriteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewStorageWithFS(afero.NewMemMapFs(), "/songs").Write(ctx, "x.osz", nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFreeSpace(t *testing.T) {
	free, err := FreeSpace(filepath.Join(t.TempDir(), "not", "created", "yet"))
	require.NoError(t, err)
	assert.Greater(t, free, uint64(0))
}
