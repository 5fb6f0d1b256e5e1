package dspace

import "fmt"

// Dataspace describes the shape of an array and, optionally, a hyperslab
// selection within it.
type Dataspace struct {
	scalar bool
	dims   []uint64
	sel    *selection // nil means the whole extent is selected
}

// selection holds hyperslab parameters. All vectors have length = rank.
type selection struct {
	offset []uint64
	stride []uint64
	count  []uint64
	block  []uint64
}

// Scalar returns a scalar dataspace: rank 0, exactly one addressable point.
func Scalar() *Dataspace {
	return &Dataspace{scalar: true}
}

// Simple creates a simple dataspace with the given extents.
// Rank must be at least 1; zero extents are allowed and describe an empty
// array.
func Simple(dims []uint64) (*Dataspace, error) {
	if len(dims) == 0 {
		return nil, fmt.Errorf("simple dataspace requires rank >= 1")
	}
	d := &Dataspace{dims: make([]uint64, len(dims))}
	copy(d.dims, dims)
	return d, nil
}

// IsScalar returns true for a scalar dataspace.
func (d *Dataspace) IsScalar() bool {
	return d.scalar
}

// Rank returns the number of dimensions (0 for scalar).
func (d *Dataspace) Rank() int {
	return len(d.dims)
}

// Dims returns the dataspace extents (nil for scalar).
func (d *Dataspace) Dims() []uint64 {
	return d.dims
}

// NumPoints returns the total number of elements in the extent,
// ignoring any selection. A scalar dataspace has one point.
func (d *Dataspace) NumPoints() uint64 {
	if d.scalar {
		return 1
	}
	n := uint64(1)
	for _, dim := range d.dims {
		n *= dim
	}
	return n
}

// SelectHyperslab selects a strided rectangular subset of the dataspace.
// block may be nil, which selects unit blocks. The selection replaces any
// previous one.
func (d *Dataspace) SelectHyperslab(offset, stride, count, block []uint64) error {
	if d.scalar {
		return fmt.Errorf("cannot select hyperslab on a scalar dataspace")
	}
	rank := len(d.dims)
	if len(offset) != rank || len(stride) != rank || len(count) != rank {
		return fmt.Errorf("hyperslab vectors must have length %d, got offset=%d stride=%d count=%d",
			rank, len(offset), len(stride), len(count))
	}
	if block != nil && len(block) != rank {
		return fmt.Errorf("hyperslab block vector must have length %d, got %d", rank, len(block))
	}

	sel := &selection{
		offset: append([]uint64(nil), offset...),
		stride: append([]uint64(nil), stride...),
		count:  append([]uint64(nil), count...),
	}
	if block != nil {
		sel.block = append([]uint64(nil), block...)
	} else {
		sel.block = make([]uint64, rank)
		for i := range sel.block {
			sel.block[i] = 1
		}
	}

	for i := 0; i < rank; i++ {
		if sel.stride[i] == 0 {
			return fmt.Errorf("hyperslab stride must be >= 1 in dimension %d", i)
		}
		if sel.block[i] == 0 {
			return fmt.Errorf("hyperslab block must be >= 1 in dimension %d", i)
		}
		if sel.count[i] == 0 {
			continue // empty selection in this dimension, nothing to bound-check
		}
		last := sel.offset[i] + sel.stride[i]*(sel.count[i]-1) + sel.block[i]
		if last > d.dims[i] {
			return fmt.Errorf("hyperslab exceeds extent in dimension %d: offset=%d stride=%d count=%d block=%d extent=%d",
				i, sel.offset[i], sel.stride[i], sel.count[i], sel.block[i], d.dims[i])
		}
	}

	d.sel = sel
	return nil
}

// SelectionPoints returns the number of selected elements. Without an
// explicit selection the whole extent counts.
func (d *Dataspace) SelectionPoints() uint64 {
	if d.scalar {
		return 1
	}
	if d.sel == nil {
		return d.NumPoints()
	}
	n := uint64(1)
	for i := range d.sel.count {
		n *= d.sel.count[i] * d.sel.block[i]
	}
	return n
}

// SelectionOffsets returns the linear element offsets of the selection in
// row-major traversal order. For a scalar dataspace the single offset 0 is
// returned. An empty selection yields nil.
func (d *Dataspace) SelectionOffsets() []uint64 {
	if d.scalar {
		return []uint64{0}
	}

	sel := d.sel
	if sel == nil {
		sel = d.fullSelection()
	}

	total := uint64(1)
	for i := range sel.count {
		total *= sel.count[i] * sel.block[i]
	}
	if total == 0 {
		return nil
	}

	rank := len(d.dims)

	// Linear stride of each dimension within the extent.
	lin := make([]uint64, rank)
	lin[rank-1] = 1
	for i := rank - 2; i >= 0; i-- {
		lin[i] = lin[i+1] * d.dims[i+1]
	}

	// Composed per-dimension index: k in [0, count*block) addresses block
	// k/block, element k%block within it.
	offs := make([]uint64, 0, total)
	idx := make([]uint64, rank)
	for {
		var off uint64
		for i := 0; i < rank; i++ {
			k := idx[i]
			b := sel.block[i]
			pos := sel.offset[i] + (k/b)*sel.stride[i] + k%b
			off += pos * lin[i]
		}
		offs = append(offs, off)

		i := rank - 1
		for ; i >= 0; i-- {
			idx[i]++
			if idx[i] < sel.count[i]*sel.block[i] {
				break
			}
			idx[i] = 0
		}
		if i < 0 {
			break
		}
	}
	return offs
}

// fullSelection builds the implicit whole-extent selection.
func (d *Dataspace) fullSelection() *selection {
	rank := len(d.dims)
	sel := &selection{
		offset: make([]uint64, rank),
		stride: make([]uint64, rank),
		count:  append([]uint64(nil), d.dims...),
		block:  make([]uint64, rank),
	}
	for i := 0; i < rank; i++ {
		sel.stride[i] = 1
		sel.block[i] = 1
	}
	return sel
}
