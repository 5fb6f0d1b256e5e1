package h5

import (
	"strings"

	"github.com/robert-malhotra/go-h5arr/internal/dtype"
)

// Datatype describes the element type of a dataset, attribute, or array
// view.
type Datatype = dtype.Datatype

// Predeclared element datatypes.
var (
	Int8    = dtype.Int8
	Int16   = dtype.Int16
	Int32   = dtype.Int32
	Int64   = dtype.Int64
	Uint8   = dtype.Uint8
	Uint16  = dtype.Uint16
	Uint32  = dtype.Uint32
	Uint64  = dtype.Uint64
	Float32 = dtype.Float32
	Float64 = dtype.Float64
)

// FixedString returns a fixed-length string datatype with cell size n bytes,
// including the terminating NUL.
func FixedString(n int) *Datatype {
	return dtype.FixedString(n)
}

// File is a memory-backed container of groups, datasets, and attributes.
// It is not safe for concurrent use; every call is synchronous and the
// caller owns exclusive access for its duration.
type File struct {
	root   *Group
	closed bool
}

// NewMemory creates an empty memory-backed container.
func NewMemory() *File {
	f := &File{}
	f.root = &Group{
		file:     f,
		path:     "/",
		groups:   make(map[string]*Group),
		datasets: make(map[string]*Dataset),
	}
	return f
}

// Root returns the root group.
func (f *File) Root() *Group {
	return f.root
}

// Close marks the file closed. Subsequent opens through the file fail
// with ErrClosed. Close is advisory for the memory backend: group and
// dataset handles obtained earlier stay usable, and memory is reclaimed
// by the garbage collector once all handles are dropped.
func (f *File) Close() error {
	f.closed = true
	return nil
}

// OpenGroup opens a group by absolute path.
func (f *File) OpenGroup(path string) (*Group, error) {
	if f.closed {
		return nil, ErrClosed
	}
	return f.root.OpenGroup(path)
}

// OpenDataset opens a dataset by absolute path.
func (f *File) OpenDataset(path string) (*Dataset, error) {
	if f.closed {
		return nil, ErrClosed
	}
	return f.root.OpenDataset(path)
}

// normalizePath strips leading and trailing slashes.
func normalizePath(path string) string {
	path = strings.TrimPrefix(path, "/")
	path = strings.TrimSuffix(path, "/")
	return path
}

// splitPath splits a path into its components.
func splitPath(path string) []string {
	path = normalizePath(path)
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
