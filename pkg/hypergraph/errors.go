package hypergraph

import "errors"

var (
	// ErrStorageCorrupt is returned when an existing artifact cannot be parsed
	// or breaks the minimal invariants.
	ErrStorageCorrupt = errors.New("hypergraph storage corrupt")
	// ErrDuplicateNode is returned when a node id is already present.
	ErrDuplicateNode = errors.New("duplicate node id")
)
