package bundling

import (
	"fmt"
)

// An ArchiveWriteError is returned when an archive couldn't be completely written. A partially
// written archive may be left at Path.
type ArchiveWriteError struct {
	Path string
	Err  error
}

func (e *ArchiveWriteError) Error() string {
	return fmt.Sprintf("couldn't write archive %s: %s", e.Path, e.Err)
}

func (e *ArchiveWriteError) Unwrap() error {
	return e.Err
}

// A CorruptArchiveError is returned when a file isn't a valid zip archive, or when it contains
// entries which fail their integrity checks or which would be extracted outside the destination.
type CorruptArchiveError struct {
	Path string
	Err  error
}

func (e *CorruptArchiveError) Error() string {
	return fmt.Sprintf("corrupted archive %s: %s", e.Path, e.Err)
}

func (e *CorruptArchiveError) Unwrap() error {
	return e.Err
}
