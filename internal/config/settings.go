package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/handiism/osu-collector-dl/internal/mirror"
	"github.com/handiism/osu-collector-dl/internal/model"
)

const (
	// MaxConcurrentDownloads is the hard cap on concurrent archive fetches.
	MaxConcurrentDownloads = 16

	// RecommendedConcurrentDownloads is the level above which mirrors tend
	// to start refusing requests.
	RecommendedConcurrentDownloads = 6
)

// Environment variables that override file values.
const (
	EnvCollectorID         = "OSU_COLLECTOR_ID"
	EnvMirror              = "OSU_MIRROR"
	EnvSongsPath           = "OSU_SONGS_PATH"
	EnvCollectionPath      = "OSU_COLLECTION_PATH"
	EnvConcurrentDownloads = "OSU_CONCURRENT_DOWNLOADS"
)

var (
	ErrInvalidConcurrency = errors.New("config: concurrent_downloads out of range")
	ErrMissingPath        = errors.New("config: path not set")
	ErrMissingCollection  = errors.New("config: collector id not set")
)

// Settings holds all configuration options.
type Settings struct {
	User      UserSettings      `toml:"user"`
	Collector CollectorSettings `toml:"collector"`
	Osu       OsuSettings       `toml:"osu"`
}

// UserSettings are the download preferences.
type UserSettings struct {
	MirrorType           string `toml:"mirror_type"`
	CollectionNameFormat string `toml:"collection_name_format"`
	ConcurrentDownloads  int    `toml:"concurrent_downloads"`

	// RequestsPerSecond paces archive requests when positive.
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// CollectorSettings selects the osu!collector collection.
type CollectorSettings struct {
	ID int `toml:"id"`
}

// OsuSettings locates the local osu! installation.
type OsuSettings struct {
	SongsPath      string `toml:"songs_path"`
	CollectionPath string `toml:"collection_path"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	homeDir, _ := os.UserHomeDir()
	osuDir := filepath.Join(homeDir, "osu!")
	return &Settings{
		User: UserSettings{
			MirrorType:           "catboy",
			CollectionNameFormat: model.PlaceholderTitle + " (" + model.PlaceholderAuthor + ")",
			ConcurrentDownloads:  3,
		},
		Osu: OsuSettings{
			SongsPath:      filepath.Join(osuDir, "Songs"),
			CollectionPath: filepath.Join(osuDir, "collection.db"),
		},
	}
}

// Load reads settings from a TOML file.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if _, err := toml.Decode(string(data), settings); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	return settings, nil
}

// Save writes settings to a TOML file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(s); err != nil {
		return err
	}

	return os.WriteFile(path, buf.Bytes(), 0644)
}

// LoadEnvFiles loads .env files into the process environment. Missing
// files are ignored; variables already set are kept.
func LoadEnvFiles(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("env file %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides settings from environment variables read via lookup.
// Pass os.LookupEnv for the process environment.
func (s *Settings) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvCollectorID); ok && v != "" {
		id, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", EnvCollectorID, err)
		}
		s.Collector.ID = id
	}
	if v, ok := lookup(EnvMirror); ok && v != "" {
		s.User.MirrorType = v
	}
	if v, ok := lookup(EnvSongsPath); ok && v != "" {
		s.Osu.SongsPath = v
	}
	if v, ok := lookup(EnvCollectionPath); ok && v != "" {
		s.Osu.CollectionPath = v
	}
	if v, ok := lookup(EnvConcurrentDownloads); ok && v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", EnvConcurrentDownloads, err)
		}
		s.User.ConcurrentDownloads = n
	}
	return nil
}

// Validate reports the first setting that would prevent a run.
func (s *Settings) Validate() error {
	if _, err := mirror.Lookup(s.User.MirrorType); err != nil {
		return err
	}
	if n := s.User.ConcurrentDownloads; n < 1 || n > MaxConcurrentDownloads {
		return fmt.Errorf("%w: %d (allowed 1-%d)", ErrInvalidConcurrency, n, MaxConcurrentDownloads)
	}
	if strings.TrimSpace(s.Osu.SongsPath) == "" {
		return fmt.Errorf("%w: songs_path", ErrMissingPath)
	}
	if strings.TrimSpace(s.Osu.CollectionPath) == "" {
		return fmt.Errorf("%w: collection_path", ErrMissingPath)
	}
	if s.Collector.ID <= 0 {
		return ErrMissingCollection
	}
	return nil
}

// Warnings lists settings that are valid but inadvisable.
func (s *Settings) Warnings() []string {
	var warnings []string
	if s.User.ConcurrentDownloads > RecommendedConcurrentDownloads {
		warnings = append(warnings, fmt.Sprintf(
			"concurrent_downloads=%d is above the recommended %d; mirrors may rate limit",
			s.User.ConcurrentDownloads, RecommendedConcurrentDownloads))
	}
	return warnings
}

// CollectionName formats the local collection name for c.
func (s *Settings) CollectionName(c *model.Collection) string {
	return model.FormatCollectionName(s.User.CollectionNameFormat, c)
}
