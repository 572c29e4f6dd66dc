package store

import "errors"

var (
	// ErrTreeNotFound indicates no record exists for the tree name.
	ErrTreeNotFound = errors.New("tree not found")

	// ErrTreeExists indicates a create onto an existing tree name.
	ErrTreeExists = errors.New("tree already exists")

	// ErrStoreCorrupt indicates a persisted record that cannot be read.
	// The records are plain JSON, so hand-editing the file under trees/
	// is the recovery path.
	ErrStoreCorrupt = errors.New("store record corrupt")

	// ErrLockHeld indicates another session holds the tree.
	ErrLockHeld = errors.New("tree is locked by another session")
)
