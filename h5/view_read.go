package h5

import (
	"fmt"

	"github.com/robert-malhotra/go-h5arr/internal/dtype"
)

// DatasetLengths probes a stored dataset and returns its extents, element
// type, and whether the complex marker attribute is present. It is the
// precondition check consulted before ReadArray.
func DatasetLengths(g *Group, name string) (Lengths, error) {
	ds, err := g.OpenDataset(name)
	if err != nil {
		return Lengths{}, fmt.Errorf("cannot open the dataset %q in the group %s: %w", name, g.Path(), err)
	}
	return Lengths{
		Lengths:             ds.Shape(),
		Type:                ds.Datatype(),
		HasComplexAttribute: ds.HasAttr(complexMarker),
	}, nil
}

// ReadArray validates the stored dataset against the caller's view and
// transfers the stored data into the view's buffer. Validation order:
// element-type class, exact type (a mismatch within the same class is a
// logged warning and the transfer converts), rank, then per-dimension
// extents against the view's counts. On any error the buffer contents are
// unspecified and must be discarded.
func ReadArray(g *Group, name string, v ArrayView, lt Lengths) error {
	ds, err := g.OpenDataset(name)
	if err != nil {
		return fmt.Errorf("cannot open the dataset %q in the group %s: %w", name, g.Path(), err)
	}

	if v.Type.Class != lt.Type.Class {
		return fmt.Errorf("incompatible types reading dataset %q: expecting a %s while the stored array has type %s: %w",
			name, v.Type.Name(), lt.Type.Name(), ErrTypeMismatch)
	}
	if !dtype.Equal(v.Type, lt.Type) {
		logger.Warnf("mismatching types reading dataset %q: expecting a %s while the stored array has type %s",
			name, v.Type.Name(), lt.Type.Name())
	}
	if lt.Rank() != v.Rank() {
		return fmt.Errorf("reading dataset %q: expecting rank %d while the stored array has rank %d: %w",
			name, v.Rank(), lt.Rank(), ErrRankMismatch)
	}
	if !equalDims(lt.Lengths, v.Slab.Count) {
		return fmt.Errorf("reading dataset %q: expecting lengths %v while the stored array has lengths %v: %w",
			name, v.Slab.Count, lt.Lengths, ErrShapeMismatch)
	}

	mem, err := makeMemDataspace(v)
	if err != nil {
		return fmt.Errorf("reading dataset %q in the group %s: %w", name, g.Path(), err)
	}

	// Skip empty stored extents; note this intentionally checks the
	// file-side point count where the write path checks the memory side.
	if ds.NumElements() > 0 {
		if err := ds.readSelection(mem, v.Type, v.Data); err != nil {
			return fmt.Errorf("error reading the dataset %q in the group %s: %w", name, g.Path(), err)
		}
	}
	return nil
}

// ReadArrayAttribute transfers a stored scalar attribute into the view's
// buffer. The stored shape must be scalar and the stored type exactly equal
// to the view's type; attributes are not auto-converted.
func ReadArrayAttribute(obj Object, name string, v ArrayView) error {
	attr := obj.Attr(name)
	if attr == nil {
		return fmt.Errorf("cannot open the attribute %q on %s: %w", name, obj.Path(), ErrNotFound)
	}

	if attr.Rank() != 0 {
		return fmt.Errorf("reading attribute %q on %s: expected a scalar, stored rank is %d: %w",
			name, obj.Path(), attr.Rank(), ErrRankMismatch)
	}
	if !dtype.Equal(attr.Datatype(), v.Type) {
		return fmt.Errorf("type mismatch reading attribute %q on %s: expecting a %s while the stored value has type %s: %w",
			name, obj.Path(), v.Type.Name(), attr.Datatype().Name(), ErrTypeMismatch)
	}

	if len(v.Data) < v.Type.Size {
		return fmt.Errorf("cannot read the attribute %q on %s: view buffer holds %d bytes, need %d",
			name, obj.Path(), len(v.Data), v.Type.Size)
	}
	copy(v.Data[:v.Type.Size], attr.data)
	return nil
}

func equalDims(a, b []uint64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
