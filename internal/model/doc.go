// Package model defines the core data structures used throughout
// osu-collector-dl.
//
// # Manifest
//
// Manifest is the read-only plan of a run: the remote collection's metadata
// and its beatmapsets, each with the checksums of the difficulties the
// collection references:
//
//	manifest := &model.Manifest{Collection: info, Beatmapsets: sets}
//	fmt.Println(manifest.ItemCount()) // Number of beatmaps to satisfy
//
// # Beatmapset
//
// A Beatmapset is the unit of download. One archive (.osz) contains every
// difficulty of the set, so all of its Beatmaps are satisfied by one fetch.
//
// # Collection Names
//
// FormatCollectionName renders the local collection name from a template:
//
//	name := model.FormatCollectionName("{collection_title} ({collection_author})", &info)
//
// Available placeholders: {collection_author}, {collection_title}, {collection_id}
package model
