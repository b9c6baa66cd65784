// Package progress tracks how many beatmaps of a run are done.
//
// # Basic Usage
//
// A Tracker starts with the number of beatmaps in the manifest. Each
// finished beatmapset advances the completed count by its beatmaps; each
// abandoned one shrinks the target instead.
//
//	tracker := progress.NewTracker(manifest.ItemCount())
//
//	// per beatmapset
//	if err != nil {
//	    tracker.Shrink(len(set.Beatmaps))
//	} else {
//	    tracker.Advance(len(set.Beatmaps))
//	}
//
//	if err := tracker.Wait(ctx); err != nil {
//	    return err // ctx ended first
//	}
//
// # Completion
//
// The target never grows and never drops below zero. Done is closed the
// first time the completed count reaches the target. A Tracker created with
// a target of zero is done from the start.
//
// Snapshot returns all three counters for display; Snapshot.Abandoned is
// the number of beatmaps dropped from the initial target.
package progress
