package download

import (
	"github.com/handiism/osu-collector-dl/internal/model"
)

// Plan is what a run would do, computed without fetching anything.
type Plan struct {
	Beatmapsets []PlannedSet
	Beatmaps    int
	Present     int
}

// PlannedSet is one beatmapset of a Plan.
type PlannedSet struct {
	Beatmapset *model.Beatmapset
	Present    bool
}

// Pending returns the number of beatmapsets that would be fetched.
func (p Plan) Pending() int {
	return len(p.Beatmapsets) - p.Present
}

// PlanRun checks the destination for every beatmapset of manifest. It reads
// the destination directory but does not touch the mirror or the index.
func PlanRun(manifest *model.Manifest, storage Storage) (Plan, error) {
	plan := Plan{Beatmaps: manifest.ItemCount()}
	for _, set := range manifest.Beatmapsets {
		present, err := storage.Exists(set.ID)
		if err != nil {
			return Plan{}, err
		}
		if present {
			plan.Present++
		}
		plan.Beatmapsets = append(plan.Beatmapsets, PlannedSet{Beatmapset: set, Present: present})
	}
	return plan, nil
}
