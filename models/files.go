package models

import (
	"io"
	"iter"
	"time"
)

// Category selects which of the two per-user directory trees a file
// operation targets.
type Category string

const (
	// CategorySaves holds regular save files.
	CategorySaves Category = "saves"

	// CategoryExtdata holds auxiliary game data.
	CategoryExtdata Category = "extdata"
)

// Valid reports whether c is one of the two known categories.
func (c Category) Valid() bool {
	return c == CategorySaves || c == CategoryExtdata
}

// Categories returns both known categories.
func Categories() []Category {
	return []Category{CategorySaves, CategoryExtdata}
}

// GameInfo describes one top-level game directory in a category listing.
// ModTime and Size are populated only for the annotated ("web") view, which
// requires a recursive size scan per entry.
type GameInfo struct {
	Name    string
	ModTime time.Time
	Size    int64
}

// Download is the result of resolving a download path inside the sandbox.
// Exactly one of File and Files is set: File streams a regular file's bytes,
// Files lazily enumerates the relative paths of every file beneath a
// directory. The enumeration can be restarted by ranging over Files again.
type Download struct {
	// File is non-nil when the requested path is a regular file.
	// The caller owns the handle and must close it.
	File io.ReadSeekCloser

	// Name is the base name of the file; empty for directory downloads.
	Name string

	// Size is the file size in bytes; zero for directory downloads.
	Size int64

	// Files is non-nil when the requested path is a directory.
	Files iter.Seq[string]
}
