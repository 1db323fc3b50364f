package domain

import (
	"errors"
	"fmt"
)

// Per-package lookup failures. These are recoverable: the driver records
// the package as skipped and continues with the rest of the run.
var (
	// ErrPackageNotFound means the VersionProvider has never heard of the package.
	ErrPackageNotFound = errors.New("package not found")

	// ErrVersionNotFound means no version could be resolved for the package.
	ErrVersionNotFound = errors.New("version not found")
)

// DocumentIOError is a fatal read or write failure on a requirements
// document. It aborts the whole run before any file is written, since the
// output would otherwise be corrupted.
type DocumentIOError struct {
	Path string
	Op   string // "read" or "write"
	Err  error
}

func (e *DocumentIOError) Error() string {
	return fmt.Sprintf("failed to %s requirements document %q: %v", e.Op, e.Path, e.Err)
}

func (e *DocumentIOError) Unwrap() error { return e.Err }
