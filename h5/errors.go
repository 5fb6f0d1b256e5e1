// Package h5 provides typed multidimensional array I/O over an HDF5-style
// hierarchical container of groups, datasets, and attributes.
package h5

import "errors"

// Common errors. Failures returned by this package wrap one of these
// sentinels where a kind applies, so callers can dispatch with errors.Is.
var (
	ErrNotFound        = errors.New("object not found")
	ErrNotDataset      = errors.New("object is not a dataset")
	ErrNotGroup        = errors.New("object is not a group")
	ErrExists          = errors.New("object already exists")
	ErrAttributeExists = errors.New("attribute already exists")
	ErrClosed          = errors.New("file is closed")
	ErrTypeMismatch    = errors.New("datatype mismatch")
	ErrRankMismatch    = errors.New("rank mismatch")
	ErrShapeMismatch   = errors.New("shape mismatch")
)
