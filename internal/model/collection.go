package model

import (
	"strconv"
	"strings"
)

// Collection holds the metadata of a remote osu!collector collection.
type Collection struct {
	// ID is the osu!collector collection identifier.
	ID int

	// Name is the collection title as entered by its uploader.
	Name string

	// Uploader is the username of the collection's author.
	Uploader string

	// BeatmapCount is the number of beatmaps the remote service reports.
	// It is informational; the run target is derived from the beatmapsets.
	BeatmapCount int
}

// Collection name template placeholders.
const (
	PlaceholderAuthor = "{collection_author}"
	PlaceholderTitle  = "{collection_title}"
	PlaceholderID     = "{collection_id}"
)

// FormatCollectionName computes the local collection name from a template.
//
// Placeholders are substituted verbatim, without sanitization, since the name
// is stored inside collection.db and never used as a path:
//   - {collection_author} - uploader username
//   - {collection_title} - collection title (surrounding whitespace trimmed)
//   - {collection_id} - numeric collection id
//
// Example:
//
//	FormatCollectionName("{collection_title} by {collection_author}", c)
//	// Returns "Stream Practice by someone"
func FormatCollectionName(format string, c *Collection) string {
	name := format
	name = strings.ReplaceAll(name, PlaceholderAuthor, c.Uploader)
	name = strings.ReplaceAll(name, PlaceholderTitle, strings.TrimSpace(c.Name))
	name = strings.ReplaceAll(name, PlaceholderID, strconv.Itoa(c.ID))
	return name
}
