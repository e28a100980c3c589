package engine

import "fmt"

// WriteError reports a failure partway through Apply.
type WriteError struct {
	Direction Direction
	Index     int    // Changes [0, Index) were written
	Total     int    // Number of changes in the list
	Offset    uint64 // Offset of the change that failed
	Cause     error
}

// Error implements the error interface.
func (e *WriteError) Error() string {
	return fmt.Sprintf("engine: %s change %d/%d at offset 0x%X: %v",
		e.Direction, e.Index+1, e.Total, e.Offset, e.Cause)
}

// Unwrap returns the underlying I/O error.
func (e *WriteError) Unwrap() error {
	return e.Cause
}

// Partial reports whether some changes were committed before the failure.
func (e *WriteError) Partial() bool {
	return e.Index > 0
}

// MismatchError reports that the bytes at a change's offset are not the ones
// the requested direction expects to overwrite.
type MismatchError struct {
	Direction Direction
	Index     int
	Offset    uint64
	Want      []byte
	Got       []byte
}

// Error implements the error interface.
func (e *MismatchError) Error() string {
	return fmt.Sprintf("engine: %s pre-flight: change %d at offset 0x%X: want % X, found % X",
		e.Direction, e.Index+1, e.Offset, e.Want, e.Got)
}

// ReadError reports an I/O failure during Check.
type ReadError struct {
	Index  int
	Offset uint64
	Cause  error
}

// Error implements the error interface.
func (e *ReadError) Error() string {
	return fmt.Sprintf("engine: read change %d at offset 0x%X: %v", e.Index+1, e.Offset, e.Cause)
}

// Unwrap returns the underlying I/O error.
func (e *ReadError) Unwrap() error {
	return e.Cause
}
