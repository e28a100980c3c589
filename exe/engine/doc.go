// Package engine writes registry changes into an open executable.
//
// # Directions
//
// Every Change can be written in two directions:
//
//   - Forward writes Change.Patch (apply)
//   - Reverse writes Change.Original (revert)
//
// # Apply
//
// Apply walks the change list in order and, for each change, seeks to the
// absolute offset and overwrites exactly Len() bytes:
//
//	f, _ := os.OpenFile(path, os.O_RDWR, 0)
//	if err := engine.Apply(f, v.Changes, engine.Forward); err != nil {
//	    var werr *engine.WriteError
//	    if errors.As(err, &werr) {
//	        fmt.Printf("%d of %d changes written before failure\n", werr.Index, werr.Total)
//	    }
//	}
//
// A failed write leaves the file in a mixed state: changes before
// WriteError.Index are on disk, the rest are not. There is no journal and no
// automatic rollback.
//
// Changes are assumed disjoint. The registry rejects overlapping tables when
// it is built, so Apply does not check again.
//
// # Check
//
// Check is a read-only pre-flight: it confirms the bytes currently at every
// offset are the ones the requested direction expects to replace.
package engine
