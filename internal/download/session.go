package download

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/handiism/osu-collector-dl/internal/collection"
	"github.com/handiism/osu-collector-dl/internal/collector"
	"github.com/handiism/osu-collector-dl/internal/config"
	mhttp "github.com/handiism/osu-collector-dl/internal/http"
	ioutils "github.com/handiism/osu-collector-dl/internal/io"
	"github.com/handiism/osu-collector-dl/internal/mirror"
	"github.com/handiism/osu-collector-dl/internal/model"
	"github.com/handiism/osu-collector-dl/internal/osudb"
	"github.com/handiism/osu-collector-dl/internal/ratelimit"
)

// LowDiskSpace is the free space below which Prepare warns.
const LowDiskSpace = 2 << 30

// PrepareOptions adjusts how a Session is assembled.
type PrepareOptions struct {
	// InitDB creates an empty collection.db when none exists.
	InitDB bool

	// HTTPClient is shared by the manifest client and the mirror.
	// Default: http.NewClient()
	HTTPClient *mhttp.Client

	// CollectorURL replaces collector.BaseURL.
	CollectorURL string

	// MirrorURL replaces the selected mirror's base URL.
	MirrorURL string
}

// Session is a prepared run: the collection database is loaded and the
// manifest fetched, but nothing has been downloaded.
type Session struct {
	Settings       *config.Settings
	Manifest       *model.Manifest
	CollectionName string

	Index        *collection.Index
	Storage      *ioutils.Storage
	Limiter      *ratelimit.Limiter
	Source       *mirror.HTTPSource
	Orchestrator *Orchestrator
}

// Prepare validates settings and performs every startup step that can fail
// fatally. No archive is fetched.
func Prepare(ctx context.Context, settings *config.Settings, opts PrepareOptions,
	log *slog.Logger, onProgress func(ProgressEvent)) (*Session, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	for _, w := range settings.Warnings() {
		notify(onProgress, LevelWarning, w)
	}

	variant, err := mirror.Lookup(settings.User.MirrorType)
	if err != nil {
		return nil, err
	}
	if opts.MirrorURL != "" {
		variant.BaseURL = opts.MirrorURL
	}

	client := opts.HTTPClient
	if client == nil {
		client = mhttp.NewClient()
	}

	store := osudb.NewFileStore(settings.Osu.CollectionPath)
	if opts.InitDB {
		switch err := store.Create(); {
		case err == nil:
			notify(onProgress, LevelInfo, fmt.Sprintf("Created empty %s", store.Path()))
		case errors.Is(err, os.ErrExist):
		default:
			return nil, fmt.Errorf("create %s: %w", store.Path(), err)
		}
	}

	index, err := collection.Load(store, log)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", store.Path(), err)
	}

	collectorURL := opts.CollectorURL
	if collectorURL == "" {
		collectorURL = collector.BaseURL
	}
	notify(onProgress, LevelVerbose, fmt.Sprintf("Fetching collection %d", settings.Collector.ID))

	manifest, err := collector.NewClientWithBaseURL(client, collectorURL).Manifest(ctx, settings.Collector.ID)
	if err != nil {
		return nil, fmt.Errorf("fetch manifest: %w", err)
	}

	limiter := ratelimit.New(ratelimit.Options{
		BulkHosts:         variant.BulkHosts,
		RequestsPerSecond: settings.User.RequestsPerSecond,
	}, log)
	source := mirror.New(variant, client, limiter)
	storage := ioutils.NewStorage(settings.Osu.SongsPath)
	if free, err := ioutils.FreeSpace(settings.Osu.SongsPath); err != nil {
		log.Debug("Free space unknown", slog.String("path", settings.Osu.SongsPath), slog.Any("error", err))
	} else if free < LowDiskSpace {
		notify(onProgress, LevelWarning, fmt.Sprintf("Only %s free in %s", humanize.Bytes(free), settings.Osu.SongsPath))
	}
	name := settings.CollectionName(&manifest.Collection)

	orchestrator := NewOrchestrator(Options{
		Concurrency:    settings.User.ConcurrentDownloads,
		CollectionName: name,
	}, source, index, storage, log, onProgress)

	return &Session{
		Settings:       settings,
		Manifest:       manifest,
		CollectionName: name,
		Index:          index,
		Storage:        storage,
		Limiter:        limiter,
		Source:         source,
		Orchestrator:   orchestrator,
	}, nil
}

// Banner returns "<title> by <uploader> (with <n> beatmaps)".
func (s *Session) Banner() string {
	c := s.Manifest.Collection
	n := c.BeatmapCount
	if n == 0 {
		n = s.Manifest.ItemCount()
	}
	return fmt.Sprintf("%s by %s (with %d beatmaps)", strings.TrimSpace(c.Name), c.Uploader, n)
}

// Plan reports what Run would do without fetching anything.
func (s *Session) Plan() (Plan, error) {
	return PlanRun(s.Manifest, s.Storage)
}

// Run downloads the manifest.
func (s *Session) Run(ctx context.Context) (Summary, error) {
	return s.Orchestrator.Run(ctx, s.Manifest)
}

func notify(onProgress func(ProgressEvent), level ProgressLevel, message string) {
	if onProgress != nil {
		onProgress(ProgressEvent{Message: message, Level: level})
	}
}
