package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/osu-collector-dl/internal/mirror"
	"github.com/handiism/osu-collector-dl/internal/model"
)

func validSettings() *Settings {
	s := DefaultSettings()
	s.Collector.ID = 7421
	return s
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[user]
mirror_type = "nerinyan"

[collector]
id = 42
`), 0644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "nerinyan", s.User.MirrorType)
	assert.Equal(t, 42, s.Collector.ID)
	assert.Equal(t, DefaultSettings().User.ConcurrentDownloads, s.User.ConcurrentDownloads)
	assert.Equal(t, DefaultSettings().Osu.SongsPath, s.Osu.SongsPath)
}

func TestLoad_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[user\nmirror_type ="), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	s := validSettings()
	s.User.ConcurrentDownloads = 5
	s.User.RequestsPerSecond = 2.5
	s.Osu.SongsPath = "/games/osu/Songs"

	require.NoError(t, s.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, s, loaded)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvCollectorID:         "99",
		EnvMirror:              "sayobot",
		EnvSongsPath:           "/songs",
		EnvCollectionPath:      "/collection.db",
		EnvConcurrentDownloads: "4",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	s := DefaultSettings()
	require.NoError(t, s.ApplyEnv(lookup))
	assert.Equal(t, 99, s.Collector.ID)
	assert.Equal(t, "sayobot", s.User.MirrorType)
	assert.Equal(t, "/songs", s.Osu.SongsPath)
	assert.Equal(t, "/collection.db", s.Osu.CollectionPath)
	assert.Equal(t, 4, s.User.ConcurrentDownloads)
}

func TestApplyEnv_BadNumber(t *testing.T) {
	lookup := func(k string) (string, bool) {
		if k == EnvConcurrentDownloads {
			return "many", true
		}
		return "", false
	}
	assert.Error(t, DefaultSettings().ApplyEnv(lookup))
}

func TestLoadEnvFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("OSU_TEST_ENV_VALUE=from-file\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("OSU_TEST_ENV_VALUE") })

	require.NoError(t, LoadEnvFiles(filepath.Join(t.TempDir(), "missing.env"), path))
	assert.Equal(t, "from-file", os.Getenv("OSU_TEST_ENV_VALUE"))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Settings)
		want   error
	}{
		{"valid", func(*Settings) {}, nil},
		{"unknown mirror", func(s *Settings) { s.User.MirrorType = "bloodcat" }, mirror.ErrUnknownMirror},
		{"zero concurrency", func(s *Settings) { s.User.ConcurrentDownloads = 0 }, ErrInvalidConcurrency},
		{"above cap", func(s *Settings) { s.User.ConcurrentDownloads = MaxConcurrentDownloads + 1 }, ErrInvalidConcurrency},
		{"at cap", func(s *Settings) { s.User.ConcurrentDownloads = MaxConcurrentDownloads }, nil},
		{"no songs path", func(s *Settings) { s.Osu.SongsPath = " " }, ErrMissingPath},
		{"no collection path", func(s *Settings) { s.Osu.CollectionPath = "" }, ErrMissingPath},
		{"no collector id", func(s *Settings) { s.Collector.ID = 0 }, ErrMissingCollection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSettings()
			tt.modify(s)
			err := s.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestWarnings(t *testing.T) {
	s := validSettings()
	s.User.ConcurrentDownloads = RecommendedConcurrentDownloads
	assert.Empty(t, s.Warnings())

	s.User.ConcurrentDownloads = RecommendedConcurrentDownloads + 1
	assert.Len(t, s.Warnings(), 1)
}

func TestCollectionName(t *testing.T) {
	s := DefaultSettings()
	c := &model.Collection{ID: 1, Name: " Jumps ", Uploader: "someone"}
	assert.Equal(t, "Jumps (someone)", s.CollectionName(c))
}
