// Package dspace implements dataspaces and hyperslab selections.
//
// A dataspace describes the shape of an array independent of its data:
// either a scalar (rank 0, exactly one element) or a simple N-dimensional
// extent. A hyperslab selection marks a strided, optionally blocked,
// rectangular subset of a simple dataspace using offset/stride/count/block
// vectors, one entry per dimension.
//
// # Selection Traversal
//
// Selected elements are visited in row-major order of the extent: the last
// dimension varies fastest, and within one dimension the composed block
// positions are visited in ascending order. SelectionOffsets materializes
// the linear element offsets of the selection in that order, which is the
// order transfer primitives use when gathering from or scattering into a
// view buffer.
//
// # Stride Decomposition
//
// LTotAndStrides recovers a nested block-size decomposition from a raw
// storage-order stride vector. Storage strides are not necessarily compact
// (a view may address a sub-block of a larger allocation), so for each
// dimension the routine takes the greatest common divisor of all finer
// strides as the block size and normalizes the finer strides against it.
// The resulting (L_tot, strides) pair addresses exactly the same linear
// offsets as the input strides while composing with extent-based hyperslab
// addressing.
package dspace
