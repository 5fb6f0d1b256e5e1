package h5

import (
	"fmt"
	"path"

	"github.com/robert-malhotra/go-h5arr/internal/chunk"
	"github.com/robert-malhotra/go-h5arr/internal/dspace"
	"github.com/robert-malhotra/go-h5arr/internal/dtype"
)

// Dataset is a named, typed, shaped array object persisted inside a group.
// Storage is contiguous or chunked with deflate compression.
type Dataset struct {
	group   *Group
	path    string
	dt      *Datatype
	scalar  bool
	dims    []uint64
	raw     []byte       // contiguous storage (nil when chunked)
	chunked *chunk.Store // chunked storage (nil when contiguous)
	attrs   attrSet
}

// Name returns the dataset name (last component of the path).
func (d *Dataset) Name() string {
	return path.Base(d.path)
}

// Path returns the full path to this dataset.
func (d *Dataset) Path() string {
	return d.path
}

// Shape returns the dataset extents (nil for scalar).
func (d *Dataset) Shape() []uint64 {
	if d.scalar {
		return nil
	}
	return append([]uint64(nil), d.dims...)
}

// Dims is an alias for Shape.
func (d *Dataset) Dims() []uint64 {
	return d.Shape()
}

// Rank returns the number of dimensions (0 for scalar).
func (d *Dataset) Rank() int {
	return len(d.dims)
}

// IsScalar returns true if the dataset holds a single value.
func (d *Dataset) IsScalar() bool {
	return d.scalar
}

// NumElements returns the total number of elements. A scalar dataset has
// one element.
func (d *Dataset) NumElements() uint64 {
	if d.scalar {
		return 1
	}
	n := uint64(1)
	for _, dim := range d.dims {
		n *= dim
	}
	return n
}

// Datatype returns the dataset element type.
func (d *Dataset) Datatype() *Datatype {
	return d.dt
}

// IsCompressed returns true if the dataset uses chunked deflate storage.
func (d *Dataset) IsCompressed() bool {
	return d.chunked != nil
}

// ChunkDims returns the chunk extents, or nil for contiguous storage.
func (d *Dataset) ChunkDims() []uint64 {
	if d.chunked == nil {
		return nil
	}
	return d.chunked.ChunkDims()
}

// Attrs returns the attribute names for this dataset.
func (d *Dataset) Attrs() []string {
	return d.attrs.names()
}

// Attr returns an attribute by name, or nil if not found.
func (d *Dataset) Attr(name string) *Attribute {
	return d.attrs.get(name)
}

// HasAttr returns true if the dataset has an attribute with the given name.
func (d *Dataset) HasAttr(name string) bool {
	return d.attrs.get(name) != nil
}

func (d *Dataset) addAttr(a *Attribute) error {
	return d.attrs.add(a)
}

// writeSelection transfers the elements selected in mem from buf into the
// dataset extent. buf holds elements of type src laid out over the memory
// dataspace extent; the selection must designate exactly one element per
// extent point. Elements are converted to the dataset type when src
// differs.
func (d *Dataset) writeSelection(mem *dspace.Dataspace, src *Datatype, buf []byte) error {
	n := mem.SelectionPoints()
	if n != d.NumElements() {
		return fmt.Errorf("selection has %d points but dataset extent has %d elements", n, d.NumElements())
	}

	esz := src.Size
	gathered := make([]byte, int(n)*esz)
	for i, off := range mem.SelectionOffsets() {
		s := int(off) * esz
		if s+esz > len(buf) {
			return fmt.Errorf("view buffer too small: element offset %d exceeds %d bytes", off, len(buf))
		}
		copy(gathered[i*esz:(i+1)*esz], buf[s:s+esz])
	}

	data := gathered
	if !dtype.Equal(src, d.dt) {
		converted, err := dtype.ConvertValues(src, d.dt, gathered, int(n))
		if err != nil {
			return fmt.Errorf("converting elements: %w", err)
		}
		data = converted
	}

	if d.chunked != nil {
		return d.chunked.Write(data)
	}
	copy(d.raw, data)
	return nil
}

// readSelection transfers the dataset extent into buf at the elements
// selected in mem. Elements are converted to dst when the stored type
// differs; the conversion is this primitive's responsibility, not the
// caller's.
func (d *Dataset) readSelection(mem *dspace.Dataspace, dst *Datatype, buf []byte) error {
	n := mem.SelectionPoints()
	if n != d.NumElements() {
		return fmt.Errorf("selection has %d points but dataset extent has %d elements", n, d.NumElements())
	}

	data := d.raw
	if d.chunked != nil {
		assembled, err := d.chunked.Read()
		if err != nil {
			return err
		}
		data = assembled
	}

	if !dtype.Equal(d.dt, dst) {
		converted, err := dtype.ConvertValues(d.dt, dst, data, int(n))
		if err != nil {
			return fmt.Errorf("converting elements: %w", err)
		}
		data = converted
	}

	esz := dst.Size
	for i, off := range mem.SelectionOffsets() {
		s := int(off) * esz
		if s+esz > len(buf) {
			return fmt.Errorf("view buffer too small: element offset %d exceeds %d bytes", off, len(buf))
		}
		copy(buf[s:s+esz], data[i*esz:(i+1)*esz])
	}
	return nil
}
