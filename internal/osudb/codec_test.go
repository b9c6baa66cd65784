package osudb

import (
	"bytes"
	"errors"
	"os"
	"runtime"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixture is a collection.db with version 20150203 and two collections:
// "My Mix" with hashes "abc" and "d", and an unnamed empty one.
var fixture = []byte{
	0xbb, 0x77, 0x33, 0x01, // version
	0x02, 0x00, 0x00, 0x00, // collections
	0x0b, 0x06, 'M', 'y', ' ', 'M', 'i', 'x',
	0x02, 0x00, 0x00, 0x00,
	0x0b, 0x03, 'a', 'b', 'c',
	0x0b, 0x01, 'd',
	0x00,
	0x00, 0x00, 0x00, 0x00,
}

func TestDecode(t *testing.T) {
	db, err := Decode(bytes.NewReader(fixture))
	require.NoError(t, err)

	assert.Equal(t, int32(20150203), db.Version)
	require.Len(t, db.Collections, 2)
	assert.Equal(t, "My Mix", db.Collections[0].Name)
	assert.Equal(t, []string{"abc", "d"}, db.Collections[0].Hashes)
	assert.Equal(t, "", db.Collections[1].Name)
	assert.Empty(t, db.Collections[1].Hashes)
}

func TestEncodeMatchesFixture(t *testing.T) {
	db := &CollectionDB{
		Version: 20150203,
		Collections: []Collection{
			{Name: "My Mix", Hashes: []string{"abc", "d"}},
			{},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, db))
	assert.Equal(t, fixture, buf.Bytes())
}

func TestEncodeLongStringUsesMultiByteLength(t *testing.T) {
	name := string(bytes.Repeat([]byte("x"), 200))
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, &CollectionDB{Collections: []Collection{{Name: name}}}))

	// 200 needs two ULEB128 bytes: 0xc8 0x01.
	assert.Equal(t, []byte{0x0b, 0xc8, 0x01}, buf.Bytes()[8:11])

	db, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, name, db.Collections[0].Name)
}

func TestDecodeCorrupt(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"truncated header", fixture[:6]},
		{"truncated string", fixture[:12]},
		{"bad flag", append(append([]byte{}, fixture[:8]...), 0x07)},
		{"negative count", []byte{0, 0, 0, 0, 0xff, 0xff, 0xff, 0xff}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(bytes.NewReader(tt.data))
			assert.ErrorIs(t, err, ErrCorrupt)
		})
	}
}

func TestDecodeLargeCountsInShortFile(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"collection count", []byte{
			0xbb, 0x77, 0x33, 0x01,
			0x00, 0x00, 0x10, 0x00, // 1<<20 collections
			0x00,
		}},
		{"beatmap count", []byte{
			0xbb, 0x77, 0x33, 0x01,
			0x01, 0x00, 0x00, 0x00,
			0x00,                   // unnamed
			0x00, 0x00, 0x00, 0x01, // 1<<24 beatmaps
			0x0b,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var before, after runtime.MemStats
			runtime.ReadMemStats(&before)

			_, err := Decode(bytes.NewReader(tt.data))

			runtime.ReadMemStats(&after)
			assert.ErrorIs(t, err, ErrCorrupt)
			assert.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(1<<20))
		})
	}
}

func TestFileStore_SaveLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/osu", 0755))
	store := NewFileStoreWithFS(fs, "/osu/collection.db")

	db := &CollectionDB{Version: 7, Collections: []Collection{{Name: "My Mix", Hashes: []string{"abc"}}}}
	require.NoError(t, store.Save(db))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, db, got)

	entries, err := afero.ReadDir(fs, "/osu")
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestFileStore_SaveReplacesPrevious(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir + "/collection.db")

	require.NoError(t, store.Save(&CollectionDB{Version: 1, Collections: []Collection{{Name: "old"}}}))
	require.NoError(t, store.Save(&CollectionDB{Version: 1, Collections: []Collection{{Name: "new"}}}))

	got, err := store.Load()
	require.NoError(t, err)
	require.Len(t, got.Collections, 1)
	assert.Equal(t, "new", got.Collections[0].Name)
}

func TestFileStore_LoadMissing(t *testing.T) {
	store := NewFileStoreWithFS(afero.NewMemMapFs(), "/nope/collection.db")
	_, err := store.Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestFileStore_Create(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/osu", 0755))
	store := NewFileStoreWithFS(fs, "/osu/collection.db")

	require.NoError(t, store.Create())
	db, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultVersion, db.Version)
	assert.Empty(t, db.Collections)

	assert.ErrorIs(t, store.Create(), os.ErrExist)
}
