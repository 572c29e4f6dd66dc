package main

import (
	"errors"

	"vtree/internal/store"
	"vtree/internal/tree"
)

// Distinct exit codes per error class, for scripting use.
const (
	exitFailure       = 1 // I/O or internal error
	exitTreeNotFound  = 2
	exitPathNotFound  = 3
	exitNameCollision = 4
	exitNotADirectory = 5
	exitLockHeld      = 6
	exitStoreCorrupt  = 7
	exitDirNotEmpty   = 8
)

func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, store.ErrTreeNotFound):
		return exitTreeNotFound
	case errors.Is(err, tree.ErrNotFound), errors.Is(err, tree.ErrAtRoot):
		return exitPathNotFound
	case errors.Is(err, tree.ErrNameCollision), errors.Is(err, store.ErrTreeExists):
		return exitNameCollision
	case errors.Is(err, tree.ErrNotADirectory), errors.Is(err, tree.ErrIsDirectory):
		return exitNotADirectory
	case errors.Is(err, store.ErrLockHeld):
		return exitLockHeld
	case errors.Is(err, store.ErrStoreCorrupt):
		return exitStoreCorrupt
	case errors.Is(err, tree.ErrDirectoryNotEmpty):
		return exitDirNotEmpty
	default:
		return exitFailure
	}
}
