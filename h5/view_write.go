package h5

import (
	"fmt"

	"github.com/robert-malhotra/go-h5arr/internal/dspace"
)

// complexMarker is the attribute recorded on datasets whose stored plain
// numeric pairs represent complex values. Name and value are a wire
// convention shared with other implementations and must not change.
const (
	complexMarker      = "__complex__"
	complexMarkerValue = "1"
)

// deflateLevel is the fixed compression level for compressed datasets.
const deflateLevel = 1

// WriteArray creates a dataset at name inside g shaped to the view's
// hyperslab counts and transfers the view's data into it. An existing
// same-named entry is unlinked first; overwrite is silent. With compress
// set and rank > 0, the dataset uses chunked storage with chunk extents
// max(count, 1) and the deflate filter.
func WriteArray(g *Group, name string, v ArrayView, compress bool) error {
	g.Unlink(name)

	var opts []DatasetOption
	if compress && v.Rank() != 0 {
		chunks := make([]uint64, v.Rank())
		for i, c := range v.Slab.Count {
			chunks[i] = max(c, 1)
		}
		opts = append(opts, WithChunks(chunks...), WithCompression(deflateLevel))
	}

	var dims []uint64
	if v.Rank() != 0 {
		dims = v.Slab.Count
	}
	ds, err := g.CreateDataset(name, v.Type, dims, opts...)
	if err != nil {
		return fmt.Errorf("cannot create the dataset %q in the group %s: %w", name, g.Path(), err)
	}

	mem, err := makeMemDataspace(v)
	if err != nil {
		return fmt.Errorf("writing dataset %q in the group %s: %w", name, g.Path(), err)
	}

	// An empty selection is a valid no-op; the transfer primitive must not
	// see zero-size transfers.
	if mem.SelectionPoints() > 0 {
		if err := ds.writeSelection(mem, v.Type, v.Data); err != nil {
			return fmt.Errorf("error writing the dataset %q in the group %s: %w", name, g.Path(), err)
		}
	}

	// The marker goes on after the data so a failed transfer never leaves a
	// dataset tagged as complex.
	if v.IsComplex {
		if err := writeComplexMarker(ds); err != nil {
			return fmt.Errorf("writing dataset %q in the group %s: %w", name, g.Path(), err)
		}
	}
	return nil
}

func writeComplexMarker(ds *Dataset) error {
	dt := FixedString(len(complexMarkerValue) + 1)
	data := make([]byte, dt.Size)
	copy(data, complexMarkerValue)
	return WriteArrayAttribute(ds, complexMarker, ArrayView{Type: dt, Data: data})
}

// WriteArrayAttribute creates a new attribute on obj with the view's type
// and shape and transfers the view's data. Attributes are append-only
// metadata: if the name already exists the call fails with
// ErrAttributeExists and the stored value is unchanged.
func WriteArrayAttribute(obj Object, name string, v ArrayView) error {
	if obj.HasAttr(name) {
		return fmt.Errorf("the attribute %q on %s is already present, cannot overwrite: %w",
			name, obj.Path(), ErrAttributeExists)
	}

	mem, err := makeMemDataspace(v)
	if err != nil {
		return fmt.Errorf("cannot create the attribute %q on %s: %w", name, obj.Path(), err)
	}

	attr, err := newAttribute(name, v, mem)
	if err != nil {
		return fmt.Errorf("cannot create the attribute %q on %s: %w", name, obj.Path(), err)
	}
	if err := obj.addAttr(attr); err != nil {
		return fmt.Errorf("cannot write the attribute %q on %s: %w", name, obj.Path(), err)
	}
	return nil
}

// newAttribute builds an attribute shaped to the memory dataspace extent.
// Attribute transfer has no partial I/O: the whole extent is copied from
// the view buffer.
func newAttribute(name string, v ArrayView, mem *dspace.Dataspace) (*Attribute, error) {
	n := mem.NumPoints()
	size := int(n) * v.Type.Size
	if len(v.Data) < size {
		return nil, fmt.Errorf("view buffer holds %d bytes, attribute needs %d", len(v.Data), size)
	}

	a := &Attribute{
		name:   name,
		dt:     v.Type,
		scalar: mem.IsScalar(),
		dims:   append([]uint64(nil), mem.Dims()...),
		data:   make([]byte, size),
	}
	copy(a.data, v.Data[:size])
	return a, nil
}
