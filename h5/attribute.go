package h5

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/robert-malhotra/go-h5arr/internal/dtype"
)

// Attribute is a small named metadata value attached to a group or dataset.
type Attribute struct {
	name   string
	dt     *Datatype
	scalar bool
	dims   []uint64
	data   []byte
}

// Object is anything that can carry attributes: a *Group or a *Dataset.
type Object interface {
	Path() string
	Attrs() []string
	Attr(name string) *Attribute
	HasAttr(name string) bool

	addAttr(a *Attribute) error
}

var (
	_ Object = (*Group)(nil)
	_ Object = (*Dataset)(nil)
)

// Name returns the attribute name.
func (a *Attribute) Name() string {
	return a.name
}

// Shape returns the attribute extents (nil for scalar).
func (a *Attribute) Shape() []uint64 {
	if a.scalar {
		return nil
	}
	return append([]uint64(nil), a.dims...)
}

// Rank returns the number of dimensions (0 for scalar).
func (a *Attribute) Rank() int {
	return len(a.dims)
}

// IsScalar returns true if the attribute holds a single value.
func (a *Attribute) IsScalar() bool {
	return a.scalar
}

// NumElements returns the total number of elements.
func (a *Attribute) NumElements() uint64 {
	if a.scalar {
		return 1
	}
	n := uint64(1)
	for _, dim := range a.dims {
		n *= dim
	}
	return n
}

// Datatype returns the attribute element type.
func (a *Attribute) Datatype() *Datatype {
	return a.dt
}

// ReadScalarString reads a scalar string attribute value, with the fixed
// cell truncated at the first NUL.
func (a *Attribute) ReadScalarString() (string, error) {
	if !a.scalar {
		return "", fmt.Errorf("attribute %q is not scalar", a.name)
	}
	if a.dt.Class != dtype.ClassString {
		return "", fmt.Errorf("attribute %q has type %s, not a string", a.name, a.dt.Name())
	}
	cell := a.data
	if j := bytes.IndexByte(cell, 0); j >= 0 {
		cell = cell[:j]
	}
	return string(cell), nil
}

// ReadScalarInt64 reads a scalar integer attribute value.
func (a *Attribute) ReadScalarInt64() (int64, error) {
	if !a.scalar {
		return 0, fmt.Errorf("attribute %q is not scalar", a.name)
	}
	if a.dt.Class != dtype.ClassInteger {
		return 0, fmt.Errorf("attribute %q has type %s, not an integer", a.name, a.dt.Name())
	}
	out, err := dtype.ConvertValues(a.dt, dtype.Int64, a.data, 1)
	if err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(out)), nil
}

// ReadScalarFloat64 reads a scalar float attribute value.
func (a *Attribute) ReadScalarFloat64() (float64, error) {
	if !a.scalar {
		return 0, fmt.Errorf("attribute %q is not scalar", a.name)
	}
	if !a.dt.IsNumeric() {
		return 0, fmt.Errorf("attribute %q has type %s, not numeric", a.name, a.dt.Name())
	}
	out, err := dtype.ConvertValues(a.dt, dtype.Float64, a.data, 1)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(out)), nil
}

// attrSet is an ordered attribute collection.
type attrSet struct {
	attrs []*Attribute
}

func (s *attrSet) get(name string) *Attribute {
	for _, a := range s.attrs {
		if a.name == name {
			return a
		}
	}
	return nil
}

func (s *attrSet) names() []string {
	var names []string
	for _, a := range s.attrs {
		names = append(names, a.name)
	}
	return names
}

func (s *attrSet) add(a *Attribute) error {
	if s.get(a.name) != nil {
		return ErrAttributeExists
	}
	s.attrs = append(s.attrs, a)
	return nil
}
