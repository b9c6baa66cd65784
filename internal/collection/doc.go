// Package collection holds the in-memory collection index shared by all
// download workers.
//
// The Index is loaded once from a Store at startup. Every mutation runs
// under the index's exclusive lock, and MergeAndPersist keeps that lock
// across the merge and the save, so persisted snapshots never contain half
// of one beatmapset's merge interleaved with another's.
//
//	idx, err := collection.Load(osudb.NewFileStore(path), log)
//	if err != nil {
//	    log.Fatal(err) // a valid starting index is required
//	}
//	_ = idx.EnsureCollection("My Mix")
//	_, _ = idx.MergeAndPersist("My Mix", []string{"abc"})
package collection
