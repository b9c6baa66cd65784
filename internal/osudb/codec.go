package osudb

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// DefaultVersion is written to databases created from scratch.
const DefaultVersion int32 = 20150203

const (
	stringAbsent  byte = 0x00
	stringPresent byte = 0x0b

	// Upper bounds used to reject corrupt files before allocating.
	maxStringLen   = 1 << 16
	maxCollections = 1 << 20
	maxBeatmaps    = 1 << 24

	// Counts read from the file grow slices past this instead of sizing them.
	maxPrealloc = 1024
)

// ErrCorrupt is returned when a collection.db cannot be decoded.
var ErrCorrupt = errors.New("osudb: corrupt collection database")

// Collection is one named collection.
type Collection struct {
	Name   string
	Hashes []string
}

// CollectionDB is the decoded content of collection.db.
type CollectionDB struct {
	Version     int32
	Collections []Collection
}

// Decode reads a collection database.
func Decode(r io.Reader) (*CollectionDB, error) {
	br := bufio.NewReader(r)

	version, err := readInt32(br)
	if err != nil {
		return nil, fmt.Errorf("%w: version: %v", ErrCorrupt, err)
	}
	count, err := readCount(br, maxCollections)
	if err != nil {
		return nil, fmt.Errorf("%w: collection count: %v", ErrCorrupt, err)
	}

	db := &CollectionDB{
		Version:     version,
		Collections: make([]Collection, 0, min(count, maxPrealloc)),
	}
	for i := 0; i < count; i++ {
		name, err := readString(br)
		if err != nil {
			return nil, fmt.Errorf("%w: collection %d name: %v", ErrCorrupt, i, err)
		}
		n, err := readCount(br, maxBeatmaps)
		if err != nil {
			return nil, fmt.Errorf("%w: collection %d beatmap count: %v", ErrCorrupt, i, err)
		}

		c := Collection{Name: name, Hashes: make([]string, 0, min(n, maxPrealloc))}
		for j := 0; j < n; j++ {
			h, err := readString(br)
			if err != nil {
				return nil, fmt.Errorf("%w: collection %d beatmap %d: %v", ErrCorrupt, i, j, err)
			}
			c.Hashes = append(c.Hashes, h)
		}
		db.Collections = append(db.Collections, c)
	}

	return db, nil
}

// Encode writes db in collection.db format.
func Encode(w io.Writer, db *CollectionDB) error {
	bw := bufio.NewWriter(w)

	if err := binary.Write(bw, binary.LittleEndian, db.Version); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, int32(len(db.Collections))); err != nil {
		return err
	}
	for _, c := range db.Collections {
		if err := writeString(bw, c.Name); err != nil {
			return err
		}
		if err := binary.Write(bw, binary.LittleEndian, int32(len(c.Hashes))); err != nil {
			return err
		}
		for _, h := range c.Hashes {
			if err := writeString(bw, h); err != nil {
				return err
			}
		}
	}

	return bw.Flush()
}

func readInt32(r io.Reader) (int32, error) {
	var v int32
	err := binary.Read(r, binary.LittleEndian, &v)
	return v, err
}

func readCount(r io.Reader, limit int) (int, error) {
	v, err := readInt32(r)
	if err != nil {
		return 0, err
	}
	if v < 0 || int(v) > limit {
		return 0, fmt.Errorf("count %d out of range", v)
	}
	return int(v), nil
}

func readString(r *bufio.Reader) (string, error) {
	flag, err := r.ReadByte()
	if err != nil {
		return "", err
	}
	switch flag {
	case stringAbsent:
		return "", nil
	case stringPresent:
	default:
		return "", fmt.Errorf("bad string flag 0x%02x", flag)
	}

	n, err := binary.ReadUvarint(r)
	if err != nil {
		return "", err
	}
	if n > maxStringLen {
		return "", fmt.Errorf("string length %d out of range", n)
	}

	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// writeString writes s; the empty string is written as absent.
func writeString(w *bufio.Writer, s string) error {
	if s == "" {
		return w.WriteByte(stringAbsent)
	}
	if err := w.WriteByte(stringPresent); err != nil {
		return err
	}

	var lenBuf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(lenBuf[:], uint64(len(s)))
	if _, err := w.Write(lenBuf[:n]); err != nil {
		return err
	}
	_, err := w.WriteString(s)
	return err
}
