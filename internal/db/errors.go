package db

import "errors"

// ErrKeyNotFound is returned by KVStore.Get for a missing key.
var ErrKeyNotFound = errors.New("db: key not found")

// Op constants name the failing operation for error context.
const (
	OpGet    = "GET"
	OpSet    = "SET"
	OpPing   = "PING"
	OpSelect = "SELECT"
	OpCount  = "COUNT"
	OpScan   = "SCAN"
	OpFacets = "FACETS"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
