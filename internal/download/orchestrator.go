package download

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	ioutils "github.com/handiism/osu-collector-dl/internal/io"
	"github.com/handiism/osu-collector-dl/internal/mirror"
	"github.com/handiism/osu-collector-dl/internal/model"
	"github.com/handiism/osu-collector-dl/internal/progress"
)

// Storage is the destination archives are written to.
type Storage interface {
	Exists(id int) (bool, error)
	Write(ctx context.Context, name string, data []byte) (string, error)
}

// Index is the collection index checksums are merged into.
type Index interface {
	EnsureCollection(name string) error
	MergeAndPersist(name string, checksums []string) (int, error)
}

// Options configures an Orchestrator.
type Options struct {
	// Concurrency is the number of beatmapsets processed at once.
	Concurrency int

	// CollectionName is the local collection checksums are merged into.
	CollectionName string
}

// Orchestrator downloads every beatmapset of a manifest and records its
// beatmaps in the collection index.
type Orchestrator struct {
	opts       Options
	source     mirror.Source
	index      Index
	storage    Storage
	permits    *Controller
	log        *slog.Logger
	onProgress func(ProgressEvent)
	runID      string

	tracker atomic.Pointer[progress.Tracker]

	downloaded atomic.Int32
	skipped    atomic.Int32
	failed     atomic.Int32
	bytes      atomic.Int64

	mu sync.Mutex
}

// NewOrchestrator creates an Orchestrator. onProgress may be nil.
func NewOrchestrator(opts Options, source mirror.Source, index Index, storage Storage,
	log *slog.Logger, onProgress func(ProgressEvent)) *Orchestrator {
	runID := uuid.NewString()
	return &Orchestrator{
		opts:       opts,
		source:     source,
		index:      index,
		storage:    storage,
		permits:    NewController(opts.Concurrency),
		runID:      runID,
		onProgress: onProgress,
		log: log.With(
			slog.String("item", "Orchestrator"),
			slog.String("run_id", runID),
		),
	}
}

// RunID identifies this orchestrator's run in logs.
func (o *Orchestrator) RunID() string { return o.runID }

// Progress returns the tracker values of the current run. It is zero before
// Run starts.
func (o *Orchestrator) Progress() progress.Snapshot {
	if t := o.tracker.Load(); t != nil {
		return t.Snapshot()
	}
	return progress.Snapshot{}
}

// Summary describes a finished run.
type Summary struct {
	RunID      string
	Collection string
	Groups     int
	Downloaded int
	Skipped    int
	Failed     int
	Bytes      int64
	Progress   progress.Snapshot
	Elapsed    time.Duration
}

// Complete reports whether every beatmap of the manifest was satisfied.
func (s Summary) Complete() bool {
	return s.Progress.Completed == s.Progress.Initial
}

func (s Summary) String() string {
	return fmt.Sprintf("done: %d/%d beatmaps into %q (%d downloaded, %d already present, %d failed, %s) in %s",
		s.Progress.Completed, s.Progress.Initial, s.Collection,
		s.Downloaded, s.Skipped, s.Failed,
		humanize.Bytes(uint64(s.Bytes)), s.Elapsed.Round(time.Millisecond))
}

// Run processes the manifest. Beatmapsets are scheduled in manifest order,
// one task per set, and at most Options.Concurrency run at once.
//
// A failing beatmapset never stops the run; its beatmaps are removed from
// the target instead. Run returns an error only when the collection cannot
// be created or ctx ends, in which case unscheduled sets stay pending.
func (o *Orchestrator) Run(ctx context.Context, manifest *model.Manifest) (Summary, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.downloaded.Store(0)
	o.skipped.Store(0)
	o.failed.Store(0)
	o.bytes.Store(0)

	start := time.Now()
	tracker := progress.NewTracker(manifest.ItemCount())
	o.tracker.Store(tracker)

	name := o.opts.CollectionName
	if err := o.index.EnsureCollection(name); err != nil {
		return o.summary(manifest, start), fmt.Errorf("ensure collection %q: %w", name, err)
	}

	o.log.Info("Starting run",
		slog.String("collection", name),
		slog.Int("beatmapsets", len(manifest.Beatmapsets)),
		slog.Int("beatmaps", manifest.ItemCount()),
		slog.Int("concurrency", o.permits.Size()),
		slog.String("source", o.source.Name()),
	)

	var g errgroup.Group
	var schedErr error

	for _, set := range manifest.Beatmapsets {
		if len(set.Beatmaps) == 0 {
			o.emit(LevelVerbose, fmt.Sprintf("%s has no beatmaps in this collection, skipping", set))
			continue
		}

		release, err := o.permits.Acquire(ctx)
		if err != nil {
			schedErr = err
			break
		}

		set := set
		g.Go(func() error {
			defer release()
			o.process(ctx, set)
			return nil
		})
	}

	_ = g.Wait()

	if schedErr == nil {
		schedErr = ctx.Err()
	}
	if schedErr == nil {
		// Every scheduled task has advanced or shrunk the tracker.
		schedErr = tracker.Wait(ctx)
	}

	sum := o.summary(manifest, start)
	o.log.Info("Run finished",
		slog.Int64("completed", sum.Progress.Completed),
		slog.Int64("target", sum.Progress.Target),
		slog.Int("failed", sum.Failed),
		slog.Duration("elapsed", sum.Elapsed),
	)

	return sum, schedErr
}

// process handles one beatmapset while its permit is held.
func (o *Orchestrator) process(ctx context.Context, set *model.Beatmapset) {
	log := o.log.With(slog.Int("beatmapset", set.ID))

	present, err := o.storage.Exists(set.ID)
	if err != nil {
		log.Warn("Existence check failed", slog.Any("error", err))
		present = false
	}
	if present {
		o.satisfyExisting(log, set)
		return
	}

	began := time.Now()
	data, err := o.source.Fetch(ctx, set.ID)
	if err != nil {
		if ctx.Err() != nil {
			log.Debug("Fetch cancelled")
			return
		}
		o.abandon(set, err)
		return
	}
	log.Debug("Fetched archive",
		slog.Int("bytes", len(data)),
		slog.Duration("elapsed", time.Since(began)),
		slog.Int("in_flight", o.permits.InFlight()),
	)

	path, err := o.storage.Write(ctx, ioutils.ArchiveName(set), data)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		o.abandon(set, fmt.Errorf("write archive: %w", err))
		return
	}
	log.Debug("Wrote archive", slog.String("path", path))

	if _, err := o.index.MergeAndPersist(o.opts.CollectionName, set.Checksums()); err != nil {
		o.abandon(set, fmt.Errorf("update collection: %w", err))
		return
	}

	o.downloaded.Add(1)
	o.bytes.Add(int64(len(data)))
	completed := o.tracker.Load().Advance(len(set.Beatmaps))

	o.emitCounted(LevelSuccess, completed, fmt.Sprintf("%s - %s [%s] via %s",
		set.Artist, set.Title, strings.Join(set.Versions(), ", "), o.source.DisplayName()))
	o.emit(LevelVerbose, fmt.Sprintf("Saved %s (%s)", path, humanize.Bytes(uint64(len(data)))))
}

// satisfyExisting merges a beatmapset whose archive is already on disk.
func (o *Orchestrator) satisfyExisting(log *slog.Logger, set *model.Beatmapset) {
	inserted, err := o.index.MergeAndPersist(o.opts.CollectionName, set.Checksums())
	if err != nil {
		o.abandon(set, fmt.Errorf("update collection: %w", err))
		return
	}

	o.skipped.Add(1)
	completed := o.tracker.Load().Advance(len(set.Beatmaps))
	log.Debug("Already present", slog.Int("inserted", inserted))

	o.emitCounted(LevelInfo, completed, fmt.Sprintf("%s already downloaded, added %d beatmaps", set, inserted))
}

// abandon removes a failed beatmapset from the run's target.
func (o *Orchestrator) abandon(set *model.Beatmapset, err error) {
	o.failed.Add(1)
	target := o.tracker.Load().Shrink(len(set.Beatmaps))

	o.log.Warn("Beatmapset abandoned",
		slog.Int("beatmapset", set.ID),
		slog.String("source", o.source.DisplayName()),
		slog.Int64("target", target),
		slog.Any("error", err),
	)

	o.emit(LevelError, fmt.Sprintf("Failed %s via %s: %v", set, o.source.DisplayName(), err))
}

func (o *Orchestrator) summary(manifest *model.Manifest, start time.Time) Summary {
	return Summary{
		RunID:      o.runID,
		Collection: o.opts.CollectionName,
		Groups:     len(manifest.Beatmapsets),
		Downloaded: int(o.downloaded.Load()),
		Skipped:    int(o.skipped.Load()),
		Failed:     int(o.failed.Load()),
		Bytes:      o.bytes.Load(),
		Progress:   o.Progress(),
		Elapsed:    time.Since(start),
	}
}

// emitCounted prefixes message with "(completed/target) ".
func (o *Orchestrator) emitCounted(level ProgressLevel, completed int64, message string) {
	target := o.tracker.Load().Target()
	o.emit(level, fmt.Sprintf("(%d/%d) %s", completed, target, message))
}

func (o *Orchestrator) emit(level ProgressLevel, message string) {
	if o.onProgress == nil {
		return
	}
	snap := o.Progress()
	o.onProgress(ProgressEvent{
		Message:   message,
		Level:     level,
		Completed: snap.Completed,
		Target:    snap.Target,
	})
}
