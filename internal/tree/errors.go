package tree

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates a virtual path doesn't exist.
	ErrNotFound = errors.New("no such virtual file or directory")

	// ErrNameCollision indicates a create/rename onto an existing sibling name.
	ErrNameCollision = errors.New("name already exists")

	// ErrNotADirectory indicates a reference was used where a directory is required.
	ErrNotADirectory = errors.New("not a directory")

	// ErrAtRoot indicates an attempt to step above the tree root.
	ErrAtRoot = errors.New("already at tree root")

	// ErrDirectoryNotEmpty indicates removal of a non-empty directory
	// without the recursive flag.
	ErrDirectoryNotEmpty = errors.New("directory not empty")

	// ErrInvalidName indicates a node name with reserved characters.
	ErrInvalidName = errors.New("invalid name")

	// ErrIsDirectory indicates a directory was used where a reference is required.
	ErrIsDirectory = errors.New("is a directory")
)

// Error wraps tree errors with the operation and the virtual path it
// failed on.
type Error struct {
	Op   string // operation that failed (e.g. "resolve", "mkdir")
	Path string // affected virtual path
	Err  error  // underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap supports errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Common operation names for consistent error reporting.
const (
	OpResolve = "resolve"
	OpMkdir   = "mkdir"
	OpAdd     = "add"
	OpRemove  = "rm"
	OpRename  = "rename"
	OpDesc    = "desc"
)
