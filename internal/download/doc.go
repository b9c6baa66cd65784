// Package download drives a collection run.
//
// # Orchestrator
//
// The Orchestrator processes every beatmapset of a manifest:
//
//  1. Wait for a permit from the Controller
//  2. Skip the fetch if an archive for the set is already in the Songs folder
//  3. Otherwise fetch the archive from the mirror and write it to disk
//  4. Merge the set's checksums into the collection and persist it
//  5. Advance the progress tracker, or shrink its target on failure
//
// # Basic Usage
//
//	o := download.NewOrchestrator(download.Options{
//	    Concurrency:    3,
//	    CollectionName: "Stream Practice (someone)",
//	}, source, index, storage, logger, func(event download.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	summary, err := o.Run(ctx, manifest)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(summary)
//
// # Failures
//
// A beatmapset that fails to download is abandoned: its beatmaps are taken
// off the target and reported through a LevelError ProgressEvent. There are
// no retries, and one failing set never affects another.
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives ProgressEvent:
//
//	type ProgressEvent struct {
//	    Message   string
//	    Level     ProgressLevel // Info, Verbose, Warning, Error, Success
//	    Completed int64
//	    Target    int64
//	}
package download
