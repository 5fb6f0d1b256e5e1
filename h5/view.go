package h5

import (
	"fmt"

	"github.com/robert-malhotra/go-h5arr/internal/dspace"
)

// Hyperslab is a strided, possibly blocked, rectangular selection: offset
// is the start index per dimension, stride the step in storage-element
// units, count the number of selected blocks, and block the size of each
// contiguous block. A nil Block selects unit blocks. All vectors have
// length = rank; rank 0 describes a scalar.
type Hyperslab struct {
	Offset []uint64
	Stride []uint64
	Count  []uint64
	Block  []uint64
}

// Rank returns the number of dimensions of the selection.
func (s Hyperslab) Rank() int {
	return len(s.Count)
}

// ArrayView describes one in-memory array to transfer: the element type,
// the hyperslab designating the selected elements, the logical parent
// shape LTot the hyperslab is cut from, the backing buffer spanning
// prod(LTot) elements, and whether the logical value type is complex even
// though elements are stored as a plain numeric pair.
//
// A view is constructed per transfer call and not retained.
type ArrayView struct {
	Type      *Datatype
	Slab      Hyperslab
	LTot      []uint64
	Data      []byte
	IsComplex bool
}

// Rank returns the view rank. Rank 0 denotes a scalar.
func (v ArrayView) Rank() int {
	return len(v.LTot)
}

// ContiguousView builds a view covering a full contiguous array of the
// given shape: the hyperslab selects every element in order.
func ContiguousView(dt *Datatype, dims []uint64, data []byte, isComplex bool) ArrayView {
	rank := len(dims)
	v := ArrayView{
		Type:      dt,
		LTot:      append([]uint64(nil), dims...),
		Data:      data,
		IsComplex: isComplex,
	}
	if rank > 0 {
		v.Slab = Hyperslab{
			Offset: make([]uint64, rank),
			Stride: make([]uint64, rank),
			Count:  append([]uint64(nil), dims...),
		}
		for i := range v.Slab.Stride {
			v.Slab.Stride[i] = 1
		}
	}
	return v
}

// Lengths is the metadata read back from a stored dataset, consulted
// before a read to validate compatibility with the caller's view.
type Lengths struct {
	Lengths             []uint64
	Type                *Datatype
	HasComplexAttribute bool
}

// Rank returns the stored rank.
func (lt Lengths) Rank() int {
	return len(lt.Lengths)
}

// makeMemDataspace builds the dataspace selection describing exactly the
// elements the view's hyperslab designates, in the view's own memory
// layout. A nil Block is passed through as absent rather than as unit
// blocks; the selection primitive treats absence specially.
func makeMemDataspace(v ArrayView) (*dspace.Dataspace, error) {
	if v.Rank() == 0 {
		return dspace.Scalar(), nil
	}

	ds, err := dspace.Simple(v.LTot)
	if err != nil {
		return nil, fmt.Errorf("cannot create dataspace: %w", err)
	}
	if err := ds.SelectHyperslab(v.Slab.Offset, v.Slab.Stride, v.Slab.Count, v.Slab.Block); err != nil {
		return nil, fmt.Errorf("cannot select hyperslab: %w", err)
	}
	return ds, nil
}

// LTotAndStrides decomposes a raw storage-order stride vector into a
// (L_tot, strides) pair relative to a nested block-size decomposition, so
// that composite offset+sum(index*stride) addressing spans the same
// elements. See the dspace package for the reduction.
func LTotAndStrides(stri []int64, rank int, totalSize int64) ([]uint64, []uint64) {
	return dspace.LTotAndStrides(stri, rank, totalSize)
}
