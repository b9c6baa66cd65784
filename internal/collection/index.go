package collection

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/handiism/osu-collector-dl/internal/osudb"
)

// ErrNoSuchCollection is returned when merging into a name that was never
// ensured.
var ErrNoSuchCollection = errors.New("collection does not exist")

// Store loads and saves full snapshots of the index.
type Store interface {
	Load() (*osudb.CollectionDB, error)
	Save(db *osudb.CollectionDB) error
}

// MergeResult reports what Merge did.
type MergeResult int

const (
	// AlreadyPresent means the checksum was in the collection; nothing changed.
	AlreadyPresent MergeResult = iota
	// Inserted means the checksum was appended.
	Inserted
)

func (r MergeResult) String() string {
	if r == Inserted {
		return "inserted"
	}
	return "already present"
}

// Index is the shared, mutable collection list.
type Index struct {
	store Store
	log   *slog.Logger

	mu   sync.RWMutex
	db   *osudb.CollectionDB
	seen map[string]map[string]struct{} // collection name -> checksums
}

// Load reads the starting index from store. Any error is fatal for a run.
func Load(store Store, log *slog.Logger) (*Index, error) {
	db, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load collection index: %w", err)
	}

	idx := &Index{
		store: store,
		log:   log.With(slog.String("item", "CollectionIndex")),
		db:    db,
		seen:  make(map[string]map[string]struct{}, len(db.Collections)),
	}
	for _, c := range db.Collections {
		set, ok := idx.seen[c.Name]
		if !ok {
			set = make(map[string]struct{}, len(c.Hashes))
			idx.seen[c.Name] = set
		}
		for _, h := range c.Hashes {
			set[h] = struct{}{}
		}
	}

	idx.log.Info("Loaded", slog.Int("collections", len(db.Collections)))

	return idx, nil
}

// EnsureCollection creates an empty collection named name and persists the
// index, unless one already exists.
func (i *Index) EnsureCollection(name string) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if _, ok := i.seen[name]; ok {
		return nil
	}

	i.db.Collections = append(i.db.Collections, osudb.Collection{Name: name})
	i.seen[name] = make(map[string]struct{})
	i.log.Info("Created collection", slog.String("name", name))

	return i.saveLocked()
}

// Merge appends checksum to the named collection unless it is already there.
// It does not persist.
func (i *Index) Merge(name, checksum string) (MergeResult, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	return i.mergeLocked(name, checksum)
}

// MergeAndPersist merges every checksum into the named collection and, if
// anything was inserted, persists the index before releasing the lock.
func (i *Index) MergeAndPersist(name string, checksums []string) (inserted int, err error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	for _, sum := range checksums {
		res, err := i.mergeLocked(name, sum)
		if err != nil {
			return inserted, err
		}
		if res == Inserted {
			inserted++
		}
	}

	if inserted == 0 {
		return 0, nil
	}

	return inserted, i.saveLocked()
}

// Persist saves a snapshot of the index.
func (i *Index) Persist() error {
	i.mu.RLock()
	defer i.mu.RUnlock()

	return i.saveLocked()
}

// Contains reports whether the named collection holds checksum.
func (i *Index) Contains(name, checksum string) bool {
	i.mu.RLock()
	defer i.mu.RUnlock()

	_, ok := i.seen[name][checksum]
	return ok
}

// Checksums returns a copy of the named collection's checksums in insertion
// order, or nil if it does not exist.
func (i *Index) Checksums(name string) []string {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if c := i.findLocked(name); c != nil {
		return append([]string(nil), c.Hashes...)
	}
	return nil
}

// Names returns the collection names in index order.
func (i *Index) Names() []string {
	i.mu.RLock()
	defer i.mu.RUnlock()

	names := make([]string, 0, len(i.db.Collections))
	for _, c := range i.db.Collections {
		names = append(names, c.Name)
	}
	return names
}

func (i *Index) mergeLocked(name, checksum string) (MergeResult, error) {
	set, ok := i.seen[name]
	if !ok {
		return AlreadyPresent, fmt.Errorf("%w: %q", ErrNoSuchCollection, name)
	}
	if _, ok := set[checksum]; ok {
		return AlreadyPresent, nil
	}

	c := i.findLocked(name)
	c.Hashes = append(c.Hashes, checksum)
	set[checksum] = struct{}{}

	return Inserted, nil
}

// findLocked returns the first collection named name. Files written by osu!
// may hold duplicate names; merges always go to the first.
func (i *Index) findLocked(name string) *osudb.Collection {
	for n := range i.db.Collections {
		if i.db.Collections[n].Name == name {
			return &i.db.Collections[n]
		}
	}
	return nil
}

func (i *Index) saveLocked() error {
	if err := i.store.Save(i.db); err != nil {
		return fmt.Errorf("persist collection index: %w", err)
	}
	return nil
}
