// Package osudb reads and writes osu! stable's collection.db.
//
// # Format
//
// All integers are little endian.
//
//	int32   version
//	int32   collection count
//	repeated:
//	    string  name
//	    int32   beatmap count
//	    string  beatmap MD5 checksum (repeated)
//
// Strings are a flag byte, 0x00 for an absent string or 0x0b followed by a
// ULEB128 byte length and UTF-8 bytes.
//
// # Storage
//
// FileStore loads and saves a collection.db through an afero.Fs. Saves
// write a temporary file next to the target and rename it over the target,
// so a reader sees either the previous snapshot or the new one.
package osudb
