// Package dtype models element datatypes for the container: a class
// (integer, float, string), an element size in bytes, and signedness for
// integers. It also performs the elementwise conversion that the transfer
// primitives apply when the stored type and the requested type differ.
package dtype

import (
	"fmt"
)

// Class is the broad kind of an element type, as opposed to its exact
// width or representation.
type Class int

const (
	ClassNone Class = iota
	ClassInteger
	ClassFloat
	ClassString
)

// String returns the class name.
func (c Class) String() string {
	switch c {
	case ClassInteger:
		return "integer"
	case ClassFloat:
		return "float"
	case ClassString:
		return "string"
	default:
		return "none"
	}
}

// Datatype describes one storage element type.
// For ClassString, Size is the fixed cell size in bytes including the
// terminating NUL.
type Datatype struct {
	Class  Class
	Size   int
	Signed bool
}

// Predeclared numeric datatypes. Numeric cells are stored little-endian.
var (
	Int8    = &Datatype{Class: ClassInteger, Size: 1, Signed: true}
	Int16   = &Datatype{Class: ClassInteger, Size: 2, Signed: true}
	Int32   = &Datatype{Class: ClassInteger, Size: 4, Signed: true}
	Int64   = &Datatype{Class: ClassInteger, Size: 8, Signed: true}
	Uint8   = &Datatype{Class: ClassInteger, Size: 1}
	Uint16  = &Datatype{Class: ClassInteger, Size: 2}
	Uint32  = &Datatype{Class: ClassInteger, Size: 4}
	Uint64  = &Datatype{Class: ClassInteger, Size: 8}
	Float32 = &Datatype{Class: ClassFloat, Size: 4}
	Float64 = &Datatype{Class: ClassFloat, Size: 8}
)

// FixedString returns a fixed-length string datatype with cell size n,
// including the terminating NUL.
func FixedString(n int) *Datatype {
	return &Datatype{Class: ClassString, Size: n}
}

// Name returns a human-readable type name, used in error messages.
func (dt *Datatype) Name() string {
	if dt == nil {
		return "none"
	}
	switch dt.Class {
	case ClassInteger:
		if dt.Signed {
			return fmt.Sprintf("int%d", dt.Size*8)
		}
		return fmt.Sprintf("uint%d", dt.Size*8)
	case ClassFloat:
		return fmt.Sprintf("float%d", dt.Size*8)
	case ClassString:
		return fmt.Sprintf("string[%d]", dt.Size)
	default:
		return "none"
	}
}

// IsNumeric returns true for integer and float types.
func (dt *Datatype) IsNumeric() bool {
	return dt.Class == ClassInteger || dt.Class == ClassFloat
}

// Equal reports exact type equality: same class, size, and signedness.
func Equal(a, b *Datatype) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Class == b.Class && a.Size == b.Size && a.Signed == b.Signed
}
