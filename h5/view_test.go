package h5

import (
	"bytes"
	"encoding/binary"
	"errors"
	"reflect"
	"testing"
)

func packInt32(vals ...int32) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, vals)
	return buf.Bytes()
}

func packFloat64(vals ...float64) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, vals)
	return buf.Bytes()
}

func unpackInt32(data []byte) []int32 {
	out := make([]int32, len(data)/4)
	binary.Read(bytes.NewReader(data), binary.LittleEndian, out)
	return out
}

func unpackFloat64(data []byte) []float64 {
	out := make([]float64, len(data)/8)
	binary.Read(bytes.NewReader(data), binary.LittleEndian, out)
	return out
}

// Write vector {1,2,3}, probe it, read it back.
func TestVecIntScenario(t *testing.T) {
	g := NewMemory().Root()

	v := ContiguousView(Int32, []uint64{3}, packInt32(1, 2, 3), false)
	if err := WriteArray(g, "vec_int", v, false); err != nil {
		t.Fatalf("WriteArray failed: %v", err)
	}

	lt, err := DatasetLengths(g, "vec_int")
	if err != nil {
		t.Fatalf("DatasetLengths failed: %v", err)
	}
	if lt.Rank() != 1 {
		t.Errorf("expected rank 1, got %d", lt.Rank())
	}
	if !reflect.DeepEqual(lt.Lengths, []uint64{3}) {
		t.Errorf("expected lengths [3], got %v", lt.Lengths)
	}
	if lt.HasComplexAttribute {
		t.Error("expected no complex marker")
	}
	if lt.Type.Name() != "int32" {
		t.Errorf("expected stored type int32, got %s", lt.Type.Name())
	}

	out := ContiguousView(Int32, []uint64{3}, make([]byte, 12), false)
	if err := ReadArray(g, "vec_int", out, lt); err != nil {
		t.Fatalf("ReadArray failed: %v", err)
	}
	if got := unpackInt32(out.Data); !reflect.DeepEqual(got, []int32{1, 2, 3}) {
		t.Errorf("expected {1,2,3}, got %v", got)
	}
}

func TestRoundTripScalar(t *testing.T) {
	g := NewMemory().Root()

	v := ContiguousView(Int32, nil, packInt32(42), false)
	if err := WriteArray(g, "answer", v, false); err != nil {
		t.Fatalf("WriteArray failed: %v", err)
	}

	lt, err := DatasetLengths(g, "answer")
	if err != nil {
		t.Fatalf("DatasetLengths failed: %v", err)
	}
	if lt.Rank() != 0 {
		t.Errorf("expected rank 0, got %d", lt.Rank())
	}

	out := ContiguousView(Int32, nil, make([]byte, 4), false)
	if err := ReadArray(g, "answer", out, lt); err != nil {
		t.Fatalf("ReadArray failed: %v", err)
	}
	if got := unpackInt32(out.Data); got[0] != 42 {
		t.Errorf("expected 42, got %d", got[0])
	}
}

func TestRoundTripRank2And3(t *testing.T) {
	g := NewMemory().Root()

	vals := make([]float64, 24)
	for i := range vals {
		vals[i] = float64(i) * 0.5
	}

	for _, tc := range []struct {
		name string
		dims []uint64
	}{
		{"mat", []uint64{4, 6}},
		{"cube", []uint64{2, 3, 4}},
	} {
		v := ContiguousView(Float64, tc.dims, packFloat64(vals...), false)
		if err := WriteArray(g, tc.name, v, false); err != nil {
			t.Fatalf("WriteArray %q failed: %v", tc.name, err)
		}

		lt, err := DatasetLengths(g, tc.name)
		if err != nil {
			t.Fatalf("DatasetLengths %q failed: %v", tc.name, err)
		}
		if !reflect.DeepEqual(lt.Lengths, tc.dims) {
			t.Errorf("%q: expected lengths %v, got %v", tc.name, tc.dims, lt.Lengths)
		}

		out := ContiguousView(Float64, tc.dims, make([]byte, 24*8), false)
		if err := ReadArray(g, tc.name, out, lt); err != nil {
			t.Fatalf("ReadArray %q failed: %v", tc.name, err)
		}
		if got := unpackFloat64(out.Data); !reflect.DeepEqual(got, vals) {
			t.Errorf("%q: round trip mismatch", tc.name)
		}
	}
}

func TestRoundTripString(t *testing.T) {
	g := NewMemory().Root()

	dt := FixedString(6)
	data := make([]byte, 12)
	copy(data[0:], "alpha")
	copy(data[6:], "beta")

	v := ContiguousView(dt, []uint64{2}, data, false)
	if err := WriteArray(g, "names", v, false); err != nil {
		t.Fatalf("WriteArray failed: %v", err)
	}

	lt, err := DatasetLengths(g, "names")
	if err != nil {
		t.Fatalf("DatasetLengths failed: %v", err)
	}
	out := ContiguousView(dt, []uint64{2}, make([]byte, 12), false)
	if err := ReadArray(g, "names", out, lt); err != nil {
		t.Fatalf("ReadArray failed: %v", err)
	}
	if !bytes.Equal(out.Data, data) {
		t.Errorf("expected %q, got %q", data, out.Data)
	}
}

// Writing from a strided view picks exactly the selected elements.
func TestWriteStridedView(t *testing.T) {
	g := NewMemory().Root()

	// Parent buffer of 6 elements; select every other one.
	v := ArrayView{
		Type: Int32,
		Slab: Hyperslab{
			Offset: []uint64{0},
			Stride: []uint64{2},
			Count:  []uint64{3},
		},
		LTot: []uint64{6},
		Data: packInt32(10, 20, 30, 40, 50, 60),
	}
	if err := WriteArray(g, "evens", v, false); err != nil {
		t.Fatalf("WriteArray failed: %v", err)
	}

	lt, err := DatasetLengths(g, "evens")
	if err != nil {
		t.Fatalf("DatasetLengths failed: %v", err)
	}
	if !reflect.DeepEqual(lt.Lengths, []uint64{3}) {
		t.Errorf("expected stored lengths [3], got %v", lt.Lengths)
	}

	out := ContiguousView(Int32, []uint64{3}, make([]byte, 12), false)
	if err := ReadArray(g, "evens", out, lt); err != nil {
		t.Fatalf("ReadArray failed: %v", err)
	}
	if got := unpackInt32(out.Data); !reflect.DeepEqual(got, []int32{10, 30, 50}) {
		t.Errorf("expected {10,30,50}, got %v", got)
	}
}

// Reading into a strided view scatters into the selected positions only.
func TestReadIntoStridedView(t *testing.T) {
	g := NewMemory().Root()

	v := ContiguousView(Int32, []uint64{3}, packInt32(7, 8, 9), false)
	if err := WriteArray(g, "trio", v, false); err != nil {
		t.Fatalf("WriteArray failed: %v", err)
	}
	lt, err := DatasetLengths(g, "trio")
	if err != nil {
		t.Fatalf("DatasetLengths failed: %v", err)
	}

	out := ArrayView{
		Type: Int32,
		Slab: Hyperslab{
			Offset: []uint64{1},
			Stride: []uint64{2},
			Count:  []uint64{3},
		},
		LTot: []uint64{6},
		Data: make([]byte, 24),
	}
	if err := ReadArray(g, "trio", out, lt); err != nil {
		t.Fatalf("ReadArray failed: %v", err)
	}
	want := []int32{0, 7, 0, 8, 0, 9}
	if got := unpackInt32(out.Data); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestOverwriteDataset(t *testing.T) {
	g := NewMemory().Root()

	first := ContiguousView(Int32, []uint64{3}, packInt32(1, 2, 3), false)
	if err := WriteArray(g, "data", first, false); err != nil {
		t.Fatalf("first WriteArray failed: %v", err)
	}
	second := ContiguousView(Int32, []uint64{4}, packInt32(4, 5, 6, 7), false)
	if err := WriteArray(g, "data", second, false); err != nil {
		t.Fatalf("second WriteArray failed: %v", err)
	}

	lt, err := DatasetLengths(g, "data")
	if err != nil {
		t.Fatalf("DatasetLengths failed: %v", err)
	}
	if !reflect.DeepEqual(lt.Lengths, []uint64{4}) {
		t.Errorf("expected lengths [4] after overwrite, got %v", lt.Lengths)
	}
	out := ContiguousView(Int32, []uint64{4}, make([]byte, 16), false)
	if err := ReadArray(g, "data", out, lt); err != nil {
		t.Fatalf("ReadArray failed: %v", err)
	}
	if got := unpackInt32(out.Data); !reflect.DeepEqual(got, []int32{4, 5, 6, 7}) {
		t.Errorf("expected {4,5,6,7}, got %v", got)
	}
}

func TestAttributeNoOverwrite(t *testing.T) {
	g := NewMemory().Root()

	v := ContiguousView(Int32, nil, packInt32(1), false)
	if err := WriteArrayAttribute(g, "version", v); err != nil {
		t.Fatalf("WriteArrayAttribute failed: %v", err)
	}

	v2 := ContiguousView(Int32, nil, packInt32(2), false)
	err := WriteArrayAttribute(g, "version", v2)
	if !errors.Is(err, ErrAttributeExists) {
		t.Fatalf("expected ErrAttributeExists, got %v", err)
	}

	// The original value is unchanged.
	out := ContiguousView(Int32, nil, make([]byte, 4), false)
	if err := ReadArrayAttribute(g, "version", out); err != nil {
		t.Fatalf("ReadArrayAttribute failed: %v", err)
	}
	if got := unpackInt32(out.Data); got[0] != 1 {
		t.Errorf("expected original value 1, got %d", got[0])
	}
}

func TestComplexMarker(t *testing.T) {
	g := NewMemory().Root()

	// Two complex values stored as float64 pairs.
	v := ContiguousView(Float64, []uint64{2, 2}, packFloat64(1, 2, 3, 4), true)
	if err := WriteArray(g, "z", v, false); err != nil {
		t.Fatalf("WriteArray failed: %v", err)
	}

	ds, err := g.OpenDataset("z")
	if err != nil {
		t.Fatalf("OpenDataset failed: %v", err)
	}
	attr := ds.Attr("__complex__")
	if attr == nil {
		t.Fatal("expected complex marker attribute")
	}
	s, err := attr.ReadScalarString()
	if err != nil {
		t.Fatalf("ReadScalarString failed: %v", err)
	}
	if s != "1" {
		t.Errorf("expected marker value \"1\", got %q", s)
	}

	lt, err := DatasetLengths(g, "z")
	if err != nil {
		t.Fatalf("DatasetLengths failed: %v", err)
	}
	if !lt.HasComplexAttribute {
		t.Error("expected HasComplexAttribute")
	}

	// A plain write must not carry the marker.
	plain := ContiguousView(Float64, []uint64{2}, packFloat64(5, 6), false)
	if err := WriteArray(g, "r", plain, false); err != nil {
		t.Fatalf("WriteArray failed: %v", err)
	}
	ds, err = g.OpenDataset("r")
	if err != nil {
		t.Fatalf("OpenDataset failed: %v", err)
	}
	if ds.HasAttr("__complex__") {
		t.Error("plain dataset must not carry the complex marker")
	}
}

func TestCompressedDataset(t *testing.T) {
	g := NewMemory().Root()

	vals := make([]int32, 16)
	for i := range vals {
		vals[i] = int32(i * i)
	}

	for _, compress := range []bool{false, true} {
		name := "plain"
		if compress {
			name = "packed"
		}
		v := ContiguousView(Int32, []uint64{4, 4}, packInt32(vals...), false)
		if err := WriteArray(g, name, v, compress); err != nil {
			t.Fatalf("WriteArray(compress=%v) failed: %v", compress, err)
		}

		// Stored extents are independent of the compression flag.
		lt, err := DatasetLengths(g, name)
		if err != nil {
			t.Fatalf("DatasetLengths failed: %v", err)
		}
		if !reflect.DeepEqual(lt.Lengths, []uint64{4, 4}) {
			t.Errorf("compress=%v: expected lengths [4 4], got %v", compress, lt.Lengths)
		}

		ds, err := g.OpenDataset(name)
		if err != nil {
			t.Fatalf("OpenDataset failed: %v", err)
		}
		if ds.IsCompressed() != compress {
			t.Errorf("expected IsCompressed=%v", compress)
		}
		if compress && !reflect.DeepEqual(ds.ChunkDims(), []uint64{4, 4}) {
			t.Errorf("expected chunk dims [4 4], got %v", ds.ChunkDims())
		}

		out := ContiguousView(Int32, []uint64{4, 4}, make([]byte, 64), false)
		if err := ReadArray(g, name, out, lt); err != nil {
			t.Fatalf("ReadArray failed: %v", err)
		}
		if got := unpackInt32(out.Data); !reflect.DeepEqual(got, vals) {
			t.Errorf("compress=%v: round trip mismatch: %v", compress, got)
		}
	}
}

func TestCompressedScalarIgnoresFlag(t *testing.T) {
	g := NewMemory().Root()

	v := ContiguousView(Float64, nil, packFloat64(3.25), false)
	if err := WriteArray(g, "s", v, true); err != nil {
		t.Fatalf("WriteArray failed: %v", err)
	}
	ds, err := g.OpenDataset("s")
	if err != nil {
		t.Fatalf("OpenDataset failed: %v", err)
	}
	if ds.IsCompressed() {
		t.Error("scalar dataset must not be chunked")
	}
}

func TestReadValidation(t *testing.T) {
	g := NewMemory().Root()

	v := ContiguousView(Int32, []uint64{2, 2}, packInt32(1, 2, 3, 4), false)
	if err := WriteArray(g, "grid", v, false); err != nil {
		t.Fatalf("WriteArray failed: %v", err)
	}
	lt, err := DatasetLengths(g, "grid")
	if err != nil {
		t.Fatalf("DatasetLengths failed: %v", err)
	}

	// Class mismatch fails hard.
	buf := make([]byte, 64)
	out := ContiguousView(Float64, []uint64{2, 2}, buf, false)
	if err := ReadArray(g, "grid", out, lt); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("expected ErrTypeMismatch, got %v", err)
	}

	// Rank mismatch fails before any byte is transferred.
	buf = make([]byte, 16)
	out = ContiguousView(Int32, []uint64{4}, buf, false)
	if err := ReadArray(g, "grid", out, lt); !errors.Is(err, ErrRankMismatch) {
		t.Errorf("expected ErrRankMismatch, got %v", err)
	}
	for _, b := range buf {
		if b != 0 {
			t.Fatal("buffer was written despite rank mismatch")
		}
	}

	// Extents mismatch fails likewise.
	out = ContiguousView(Int32, []uint64{2, 3}, make([]byte, 24), false)
	if err := ReadArray(g, "grid", out, lt); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("expected ErrShapeMismatch, got %v", err)
	}

	// Same class, different width: warning only, transfer converts.
	out = ContiguousView(Int64, []uint64{2, 2}, make([]byte, 32), false)
	if err := ReadArray(g, "grid", out, lt); err != nil {
		t.Fatalf("expected width mismatch to proceed, got %v", err)
	}
	got := make([]int64, 4)
	binary.Read(bytes.NewReader(out.Data), binary.LittleEndian, got)
	if !reflect.DeepEqual(got, []int64{1, 2, 3, 4}) {
		t.Errorf("expected converted {1,2,3,4}, got %v", got)
	}
}

func TestZeroSizeDataset(t *testing.T) {
	g := NewMemory().Root()

	v := ContiguousView(Float64, []uint64{0}, nil, false)
	if err := WriteArray(g, "empty", v, false); err != nil {
		t.Fatalf("WriteArray failed: %v", err)
	}

	lt, err := DatasetLengths(g, "empty")
	if err != nil {
		t.Fatalf("DatasetLengths failed: %v", err)
	}
	if !reflect.DeepEqual(lt.Lengths, []uint64{0}) {
		t.Errorf("expected lengths [0], got %v", lt.Lengths)
	}

	out := ContiguousView(Float64, []uint64{0}, nil, false)
	if err := ReadArray(g, "empty", out, lt); err != nil {
		t.Fatalf("ReadArray failed: %v", err)
	}
}

func TestReadAttributeValidation(t *testing.T) {
	g := NewMemory().Root()

	// Missing attribute.
	out := ContiguousView(Int64, nil, make([]byte, 8), false)
	if err := ReadArrayAttribute(g, "missing", out); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	// Non-scalar attributes cannot be read through this path.
	vec := ContiguousView(Int32, []uint64{2}, packInt32(1, 2), false)
	if err := WriteArrayAttribute(g, "pair", vec); err != nil {
		t.Fatalf("WriteArrayAttribute failed: %v", err)
	}
	out = ContiguousView(Int32, nil, make([]byte, 4), false)
	if err := ReadArrayAttribute(g, "pair", out); !errors.Is(err, ErrRankMismatch) {
		t.Errorf("expected ErrRankMismatch, got %v", err)
	}

	// Attributes require exact type equality, not just class equality.
	scalar := ContiguousView(Int32, nil, packInt32(5), false)
	if err := WriteArrayAttribute(g, "n", scalar); err != nil {
		t.Fatalf("WriteArrayAttribute failed: %v", err)
	}
	out = ContiguousView(Int64, nil, make([]byte, 8), false)
	if err := ReadArrayAttribute(g, "n", out); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("expected ErrTypeMismatch, got %v", err)
	}
}

func TestAttributeOnDataset(t *testing.T) {
	g := NewMemory().Root()

	v := ContiguousView(Int32, []uint64{2}, packInt32(1, 2), false)
	if err := WriteArray(g, "d", v, false); err != nil {
		t.Fatalf("WriteArray failed: %v", err)
	}
	ds, err := g.OpenDataset("d")
	if err != nil {
		t.Fatalf("OpenDataset failed: %v", err)
	}

	unit := ContiguousView(Float64, nil, packFloat64(9.81), false)
	if err := WriteArrayAttribute(ds, "gravity", unit); err != nil {
		t.Fatalf("WriteArrayAttribute failed: %v", err)
	}

	out := ContiguousView(Float64, nil, make([]byte, 8), false)
	if err := ReadArrayAttribute(ds, "gravity", out); err != nil {
		t.Fatalf("ReadArrayAttribute failed: %v", err)
	}
	if got := unpackFloat64(out.Data); got[0] != 9.81 {
		t.Errorf("expected 9.81, got %v", got[0])
	}
}

func TestLTotAndStridesExported(t *testing.T) {
	lTot, strides := LTotAndStrides([]int64{4, 2}, 2, 6)
	if !reflect.DeepEqual(lTot, []uint64{6, 4}) {
		t.Errorf("expected L_tot [6 4], got %v", lTot)
	}
	if !reflect.DeepEqual(strides, []uint64{1, 2}) {
		t.Errorf("expected strides [1 2], got %v", strides)
	}
}
