package h5

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Write stores a Go value as a dataset under name, overwriting any
// existing entry. Supported: signed/unsigned integers, floats, complex128,
// string, and 1-D slices of int32, int64, float32, float64, complex128,
// and string. Complex values are stored as float64 pairs with the complex
// marker attribute, an extra innermost dimension of extent 2.
func Write(g *Group, name string, value any) error {
	switch val := value.(type) {
	case string:
		return writeString(g, name, val)
	case []string:
		return writeStringSlice(g, name, val)
	case complex128:
		data, err := packLE([2]float64{real(val), imag(val)})
		if err != nil {
			return fmt.Errorf("writing %q: %w", name, err)
		}
		return WriteArray(g, name, ContiguousView(Float64, []uint64{2}, data, true), false)
	case []complex128:
		data, err := packLE(val)
		if err != nil {
			return fmt.Errorf("writing %q: %w", name, err)
		}
		dims := []uint64{uint64(len(val)), 2}
		return WriteArray(g, name, ContiguousView(Float64, dims, data, true), false)
	}

	dt, norm, dims, err := packValue(value)
	if err != nil {
		return fmt.Errorf("writing %q: %w", name, err)
	}
	data, err := packLE(norm)
	if err != nil {
		return fmt.Errorf("writing %q: %w", name, err)
	}
	return WriteArray(g, name, ContiguousView(dt, dims, data, false), false)
}

// packValue maps a Go numeric value onto a datatype, a binary-packable
// value, and dataset extents (nil for scalars).
func packValue(value any) (*Datatype, any, []uint64, error) {
	switch v := value.(type) {
	case int:
		return Int64, int64(v), nil, nil
	case int8:
		return Int8, v, nil, nil
	case int16:
		return Int16, v, nil, nil
	case int32:
		return Int32, v, nil, nil
	case int64:
		return Int64, v, nil, nil
	case uint8:
		return Uint8, v, nil, nil
	case uint16:
		return Uint16, v, nil, nil
	case uint32:
		return Uint32, v, nil, nil
	case uint64:
		return Uint64, v, nil, nil
	case float32:
		return Float32, v, nil, nil
	case float64:
		return Float64, v, nil, nil
	case []int32:
		return Int32, v, []uint64{uint64(len(v))}, nil
	case []int64:
		return Int64, v, []uint64{uint64(len(v))}, nil
	case []float32:
		return Float32, v, []uint64{uint64(len(v))}, nil
	case []float64:
		return Float64, v, []uint64{uint64(len(v))}, nil
	default:
		return nil, nil, nil, fmt.Errorf("unsupported value type %T", value)
	}
}

func packLE(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeString(g *Group, name string, s string) error {
	dt, data := packString(s, len(s)+1)
	return WriteArray(g, name, ContiguousView(dt, nil, data, false), false)
}

func writeStringSlice(g *Group, name string, ss []string) error {
	cell := 1
	for _, s := range ss {
		if len(s)+1 > cell {
			cell = len(s) + 1
		}
	}
	dt := FixedString(cell)
	data := make([]byte, len(ss)*cell)
	for i, s := range ss {
		copy(data[i*cell:], s)
	}
	return WriteArray(g, name, ContiguousView(dt, []uint64{uint64(len(ss))}, data, false), false)
}

func packString(s string, cell int) (*Datatype, []byte) {
	data := make([]byte, cell)
	copy(data, s)
	return FixedString(cell), data
}

// Read reads a dataset under name into dest, which must be a pointer to a
// supported scalar or slice type. Numeric width mismatches against the
// stored type convert with a logged warning, matching ReadArray.
func Read(g *Group, name string, dest any) error {
	lt, err := DatasetLengths(g, name)
	if err != nil {
		return err
	}

	switch d := dest.(type) {
	case *string:
		return readString(g, name, lt, d)
	case *[]string:
		return readStringSlice(g, name, lt, d)
	case *complex128:
		vals := make([]complex128, 1)
		if err := readComplex(g, name, lt, []uint64{2}, vals); err != nil {
			return err
		}
		*d = vals[0]
		return nil
	case *[]complex128:
		if lt.Rank() != 2 || lt.Lengths[1] != 2 {
			return fmt.Errorf("reading %q: stored shape %v is not a complex vector: %w",
				name, lt.Lengths, ErrShapeMismatch)
		}
		vals := make([]complex128, lt.Lengths[0])
		if err := readComplex(g, name, lt, lt.Lengths, vals); err != nil {
			return err
		}
		*d = vals
		return nil
	}

	dt, _, dims, err := packValue(deref(dest))
	if err != nil {
		return fmt.Errorf("reading %q: %w", name, err)
	}

	if dims == nil {
		if lt.Rank() != 0 {
			return fmt.Errorf("reading %q: expecting a scalar while the stored array has rank %d: %w",
				name, lt.Rank(), ErrRankMismatch)
		}
		data := make([]byte, dt.Size)
		if err := ReadArray(g, name, ContiguousView(dt, nil, data, false), lt); err != nil {
			return err
		}
		return unpackScalar(data, dest)
	}

	if lt.Rank() != 1 {
		return fmt.Errorf("reading %q: expecting rank 1 while the stored array has rank %d: %w",
			name, lt.Rank(), ErrRankMismatch)
	}
	n := lt.Lengths[0]
	data := make([]byte, n*uint64(dt.Size))
	if err := ReadArray(g, name, ContiguousView(dt, lt.Lengths, data, false), lt); err != nil {
		return err
	}
	return unpackSlice(data, n, dest)
}

// readComplex reads a complex-marked float-pair dataset into vals.
func readComplex(g *Group, name string, lt Lengths, dims []uint64, vals []complex128) error {
	if !lt.HasComplexAttribute {
		return fmt.Errorf("reading %q: stored array carries no complex marker: %w", name, ErrTypeMismatch)
	}
	data := make([]byte, 2*uint64(len(vals))*uint64(Float64.Size))
	if err := ReadArray(g, name, ContiguousView(Float64, dims, data, true), lt); err != nil {
		return err
	}
	pairs := make([]float64, 2*len(vals))
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, pairs); err != nil {
		return err
	}
	for i := range vals {
		vals[i] = complex(pairs[2*i], pairs[2*i+1])
	}
	return nil
}

func readString(g *Group, name string, lt Lengths, dest *string) error {
	if lt.Rank() != 0 {
		return fmt.Errorf("reading %q: expecting a scalar string while the stored array has rank %d: %w",
			name, lt.Rank(), ErrRankMismatch)
	}
	data := make([]byte, lt.Type.Size)
	if err := ReadArray(g, name, ContiguousView(lt.Type, nil, data, false), lt); err != nil {
		return err
	}
	*dest = cutNUL(data)
	return nil
}

func readStringSlice(g *Group, name string, lt Lengths, dest *[]string) error {
	if lt.Rank() != 1 {
		return fmt.Errorf("reading %q: expecting rank 1 while the stored array has rank %d: %w",
			name, lt.Rank(), ErrRankMismatch)
	}
	cell := lt.Type.Size
	n := int(lt.Lengths[0])
	data := make([]byte, n*cell)
	if err := ReadArray(g, name, ContiguousView(lt.Type, lt.Lengths, data, false), lt); err != nil {
		return err
	}
	out := make([]string, n)
	for i := range out {
		out[i] = cutNUL(data[i*cell : (i+1)*cell])
	}
	*dest = out
	return nil
}

func cutNUL(cell []byte) string {
	if j := bytes.IndexByte(cell, 0); j >= 0 {
		cell = cell[:j]
	}
	return string(cell)
}

// deref produces a zero value of the pointee so packValue can classify the
// destination type.
func deref(dest any) any {
	switch dest.(type) {
	case *int:
		return int(0)
	case *int8:
		return int8(0)
	case *int16:
		return int16(0)
	case *int32:
		return int32(0)
	case *int64:
		return int64(0)
	case *uint8:
		return uint8(0)
	case *uint16:
		return uint16(0)
	case *uint32:
		return uint32(0)
	case *uint64:
		return uint64(0)
	case *float32:
		return float32(0)
	case *float64:
		return float64(0)
	case *[]int32:
		return []int32(nil)
	case *[]int64:
		return []int64(nil)
	case *[]float32:
		return []float32(nil)
	case *[]float64:
		return []float64(nil)
	default:
		return dest
	}
}

func unpackScalar(data []byte, dest any) error {
	r := bytes.NewReader(data)
	if d, ok := dest.(*int); ok {
		var v int64
		if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
			return err
		}
		*d = int(v)
		return nil
	}
	return binary.Read(r, binary.LittleEndian, dest)
}

func unpackSlice(data []byte, n uint64, dest any) error {
	r := bytes.NewReader(data)
	switch d := dest.(type) {
	case *[]int32:
		*d = make([]int32, n)
		return binary.Read(r, binary.LittleEndian, *d)
	case *[]int64:
		*d = make([]int64, n)
		return binary.Read(r, binary.LittleEndian, *d)
	case *[]float32:
		*d = make([]float32, n)
		return binary.Read(r, binary.LittleEndian, *d)
	case *[]float64:
		*d = make([]float64, n)
		return binary.Read(r, binary.LittleEndian, *d)
	default:
		return fmt.Errorf("unsupported destination type %T", dest)
	}
}

// WriteAttribute stores a scalar Go value as a new attribute on obj.
// Supported: string, int, int64, float64. Overwrite is forbidden.
func WriteAttribute(obj Object, name string, value any) error {
	switch v := value.(type) {
	case string:
		dt, data := packString(v, len(v)+1)
		return WriteArrayAttribute(obj, name, ArrayView{Type: dt, Data: data})
	case int:
		return WriteAttribute(obj, name, int64(v))
	case int64:
		data, err := packLE(v)
		if err != nil {
			return fmt.Errorf("writing attribute %q: %w", name, err)
		}
		return WriteArrayAttribute(obj, name, ArrayView{Type: Int64, Data: data})
	case float64:
		data, err := packLE(v)
		if err != nil {
			return fmt.Errorf("writing attribute %q: %w", name, err)
		}
		return WriteArrayAttribute(obj, name, ArrayView{Type: Float64, Data: data})
	default:
		return fmt.Errorf("writing attribute %q: unsupported value type %T", name, value)
	}
}

// ReadAttribute reads a scalar attribute on obj into dest, which must be a
// pointer to string, int64, or float64. The stored type must match
// exactly; attributes are not auto-converted.
func ReadAttribute(obj Object, name string, dest any) error {
	attr := obj.Attr(name)
	if attr == nil {
		return fmt.Errorf("cannot open the attribute %q on %s: %w", name, obj.Path(), ErrNotFound)
	}

	switch d := dest.(type) {
	case *string:
		dt := attr.Datatype()
		data := make([]byte, dt.Size)
		if err := ReadArrayAttribute(obj, name, ArrayView{Type: dt, Data: data}); err != nil {
			return err
		}
		*d = cutNUL(data)
		return nil
	case *int64:
		data := make([]byte, Int64.Size)
		if err := ReadArrayAttribute(obj, name, ArrayView{Type: Int64, Data: data}); err != nil {
			return err
		}
		return binary.Read(bytes.NewReader(data), binary.LittleEndian, d)
	case *float64:
		data := make([]byte, Float64.Size)
		if err := ReadArrayAttribute(obj, name, ArrayView{Type: Float64, Data: data}); err != nil {
			return err
		}
		return binary.Read(bytes.NewReader(data), binary.LittleEndian, d)
	default:
		return fmt.Errorf("reading attribute %q: unsupported destination type %T", name, dest)
	}
}
