package dto

import "github.com/handiism/osu-collector-dl/internal/model"

// JSONCollection is the response of GET /collections/{id}.
type JSONCollection struct {
	ID           int              `json:"id"`
	Name         string           `json:"name"`
	Uploader     JSONUploader     `json:"uploader"`
	BeatmapCount int              `json:"beatmapCount"`
	Beatmapsets  []JSONInfoMapset `json:"beatmapsets"`
}

// JSONUploader identifies the author of a collection.
type JSONUploader struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

// JSONInfoMapset is a beatmapset as listed in the collection info.
type JSONInfoMapset struct {
	ID       int               `json:"id"`
	Beatmaps []JSONInfoBeatmap `json:"beatmaps"`
}

// JSONInfoBeatmap is a beatmap as listed in the collection info.
type JSONInfoBeatmap struct {
	ID       int    `json:"id"`
	Checksum string `json:"checksum"`
}

// JSONBeatmapPage is one page of GET /collections/{id}/beatmapsv3.
type JSONBeatmapPage struct {
	Beatmaps       []JSONBeatmap    `json:"beatmaps"`
	Beatmapsets    []JSONBeatmapset `json:"beatmapsets"`
	HasMore        bool             `json:"hasMore"`
	NextPageCursor *int64           `json:"nextPageCursor"`
}

// JSONBeatmap is a beatmap with display metadata.
type JSONBeatmap struct {
	ID           int    `json:"id"`
	BeatmapsetID int    `json:"beatmapset_id"`
	Checksum     string `json:"checksum"`
	Version      string `json:"version"`
}

// JSONBeatmapset is a beatmapset with display metadata.
type JSONBeatmapset struct {
	ID     int    `json:"id"`
	Artist string `json:"artist"`
	Title  string `json:"title"`
}

// ToCollection converts the info response to model.Collection.
func (c *JSONCollection) ToCollection() model.Collection {
	return model.Collection{
		ID:           c.ID,
		Name:         c.Name,
		Uploader:     c.Uploader.Username,
		BeatmapCount: c.BeatmapCount,
	}
}

// ToManifest joins the collection info with the flattened beatmap listing.
//
// The info response decides which beatmapsets and checksums belong to the
// run; the listing only contributes artist, title and difficulty names.
// Beatmapsets appearing more than once are merged, and duplicate checksums
// within a set are dropped.
func ToManifest(info *JSONCollection, listing *JSONBeatmapPage) *model.Manifest {
	sets := make(map[int]JSONBeatmapset, len(listing.Beatmapsets))
	for _, s := range listing.Beatmapsets {
		sets[s.ID] = s
	}
	versions := make(map[string]string, len(listing.Beatmaps))
	for _, b := range listing.Beatmaps {
		versions[b.Checksum] = b.Version
	}

	manifest := &model.Manifest{Collection: info.ToCollection()}
	byID := make(map[int]*model.Beatmapset)
	seen := make(map[string]struct{})

	for _, s := range info.Beatmapsets {
		set, ok := byID[s.ID]
		if !ok {
			meta := sets[s.ID]
			set = &model.Beatmapset{ID: s.ID, Artist: meta.Artist, Title: meta.Title}
			byID[s.ID] = set
			manifest.Beatmapsets = append(manifest.Beatmapsets, set)
		}

		for _, b := range s.Beatmaps {
			if b.Checksum == "" {
				continue
			}
			if _, dup := seen[b.Checksum]; dup {
				continue
			}
			seen[b.Checksum] = struct{}{}
			set.Beatmaps = append(set.Beatmaps, &model.Beatmap{
				Checksum: b.Checksum,
				Version:  versions[b.Checksum],
			})
		}
	}

	return manifest
}

// Merge appends another page to p.
func (p *JSONBeatmapPage) Merge(next *JSONBeatmapPage) {
	p.Beatmaps = append(p.Beatmaps, next.Beatmaps...)
	p.Beatmapsets = append(p.Beatmapsets, next.Beatmapsets...)
	p.HasMore = next.HasMore
	p.NextPageCursor = next.NextPageCursor
}
