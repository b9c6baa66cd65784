// Package collector fetches collection manifests from osu!collector.
//
// A manifest is assembled from two endpoints:
//
//  1. /collections/{id} lists the beatmapsets and the checksums of the
//     difficulties the collection references
//  2. /collections/{id}/beatmapsv3 lists the same beatmaps with artist,
//     title and difficulty names, one cursor page at a time
//
// # Basic Usage
//
//	client := collector.NewClient(http.NewClient())
//	manifest, err := client.Manifest(ctx, 7421)
//	if err != nil {
//	    log.Fatal(err) // no downloads start without a manifest
//	}
package collector
