package model

import "fmt"

// Beatmap is a single difficulty referenced by a collection.
type Beatmap struct {
	// Checksum is the MD5 hash osu! uses to identify the difficulty.
	Checksum string

	// Version is the difficulty name, e.g. "Insane".
	Version string
}

// Beatmapset groups the difficulties that ship together in one archive.
//
// Beatmapset is the unit of download: fetching the set's archive satisfies
// every Beatmap in it.
type Beatmapset struct {
	// ID is the osu! beatmapset identifier used by every mirror.
	ID int

	// Artist is the romanised song artist.
	Artist string

	// Title is the romanised song title.
	Title string

	// Beatmaps are the difficulties of this set that the collection references.
	Beatmaps []*Beatmap
}

// Checksums returns the checksums of the set's beatmaps in manifest order.
func (s *Beatmapset) Checksums() []string {
	sums := make([]string, 0, len(s.Beatmaps))
	for _, b := range s.Beatmaps {
		sums = append(sums, b.Checksum)
	}
	return sums
}

// Versions returns the difficulty names of the set's beatmaps.
func (s *Beatmapset) Versions() []string {
	versions := make([]string, 0, len(s.Beatmaps))
	for _, b := range s.Beatmaps {
		versions = append(versions, b.Version)
	}
	return versions
}

// String returns "artist - title", falling back to the id when the
// beatmapset has no display metadata.
func (s *Beatmapset) String() string {
	if s.Artist == "" && s.Title == "" {
		return fmt.Sprintf("beatmapset %d", s.ID)
	}
	return fmt.Sprintf("%s - %s", s.Artist, s.Title)
}

// Manifest is the immutable plan of a run.
type Manifest struct {
	Collection  Collection
	Beatmapsets []*Beatmapset
}

// ItemCount returns the number of beatmaps across all beatmapsets.
func (m *Manifest) ItemCount() int {
	n := 0
	for _, s := range m.Beatmapsets {
		n += len(s.Beatmaps)
	}
	return n
}
