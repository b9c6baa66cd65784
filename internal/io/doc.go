// Package ioutils provides the destination storage for downloaded beatmap
// archives.
//
// This package contains:
//   - Filename sanitization for cross-platform compatibility
//   - Archive naming from beatmapset metadata
//   - A Storage that checks for existing archives and writes new ones
//   - FreeSpace, to warn before filling the disk
//
// # Storage
//
//	store := ioutils.NewStorage("/home/user/osu!/Songs")
//
//	// Skip beatmapsets osu! already has
//	if ok, _ := store.Exists(set.ID); ok {
//	    return
//	}
//
//	// Write the archive; osu! imports it on next launch
//	path, err := store.Write(ctx, ioutils.ArchiveName(set), data)
//
// # Filename Sanitization
//
// Use SanitizeFileName to remove invalid characters from filenames:
//
//	safe := ioutils.SanitizeFileName("Song: Part 1/2") // Returns "Song_ Part 1_2"
package ioutils
