package dtype

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// ConvertValues converts n contiguous elements laid out as src into the dst
// layout. Identical types copy through unchanged. Numeric conversions go
// through an int64/uint64/float64 intermediate; string cells are re-packed
// into the destination cell size, truncating if needed. Converting between
// string and numeric classes is an error.
func ConvertValues(src, dst *Datatype, data []byte, n int) ([]byte, error) {
	if len(data) < n*src.Size {
		return nil, fmt.Errorf("short element buffer: need %d bytes, have %d", n*src.Size, len(data))
	}
	if Equal(src, dst) {
		out := make([]byte, n*dst.Size)
		copy(out, data)
		return out, nil
	}

	switch {
	case src.IsNumeric() && dst.IsNumeric():
		return convertNumeric(src, dst, data, n)
	case src.Class == ClassString && dst.Class == ClassString:
		return convertString(src, dst, data, n)
	default:
		return nil, fmt.Errorf("cannot convert %s to %s", src.Name(), dst.Name())
	}
}

func convertNumeric(src, dst *Datatype, data []byte, n int) ([]byte, error) {
	out := make([]byte, n*dst.Size)
	for i := 0; i < n; i++ {
		cell := data[i*src.Size : (i+1)*src.Size]
		dstCell := out[i*dst.Size : (i+1)*dst.Size]

		if src.Class == ClassFloat || dst.Class == ClassFloat {
			if err := writeFromFloat(dst, dstCell, readAsFloat(src, cell)); err != nil {
				return nil, err
			}
			continue
		}
		// Integer to integer keeps full 64-bit precision.
		if src.Signed {
			writeInt(dst, dstCell, readInt(src, cell))
		} else {
			writeUint(dst, dstCell, readUint(src, cell))
		}
	}
	return out, nil
}

func convertString(src, dst *Datatype, data []byte, n int) ([]byte, error) {
	out := make([]byte, n*dst.Size)
	for i := 0; i < n; i++ {
		cell := data[i*src.Size : (i+1)*src.Size]
		if j := bytes.IndexByte(cell, 0); j >= 0 {
			cell = cell[:j]
		}
		if len(cell) >= dst.Size {
			cell = cell[:dst.Size-1] // leave room for the NUL
		}
		copy(out[i*dst.Size:], cell)
	}
	return out, nil
}

// readInt decodes a little-endian signed integer cell.
func readInt(dt *Datatype, cell []byte) int64 {
	switch dt.Size {
	case 1:
		return int64(int8(cell[0]))
	case 2:
		return int64(int16(binary.LittleEndian.Uint16(cell)))
	case 4:
		return int64(int32(binary.LittleEndian.Uint32(cell)))
	default:
		return int64(binary.LittleEndian.Uint64(cell))
	}
}

// readUint decodes a little-endian unsigned integer cell.
func readUint(dt *Datatype, cell []byte) uint64 {
	switch dt.Size {
	case 1:
		return uint64(cell[0])
	case 2:
		return uint64(binary.LittleEndian.Uint16(cell))
	case 4:
		return uint64(binary.LittleEndian.Uint32(cell))
	default:
		return binary.LittleEndian.Uint64(cell)
	}
}

func writeInt(dt *Datatype, cell []byte, v int64) {
	switch dt.Size {
	case 1:
		cell[0] = byte(v)
	case 2:
		binary.LittleEndian.PutUint16(cell, uint16(v))
	case 4:
		binary.LittleEndian.PutUint32(cell, uint32(v))
	default:
		binary.LittleEndian.PutUint64(cell, uint64(v))
	}
}

func writeUint(dt *Datatype, cell []byte, v uint64) {
	switch dt.Size {
	case 1:
		cell[0] = byte(v)
	case 2:
		binary.LittleEndian.PutUint16(cell, uint16(v))
	case 4:
		binary.LittleEndian.PutUint32(cell, uint32(v))
	default:
		binary.LittleEndian.PutUint64(cell, v)
	}
}

func readAsFloat(dt *Datatype, cell []byte) float64 {
	if dt.Class == ClassFloat {
		if dt.Size == 4 {
			return float64(math.Float32frombits(binary.LittleEndian.Uint32(cell)))
		}
		return math.Float64frombits(binary.LittleEndian.Uint64(cell))
	}
	if dt.Signed {
		return float64(readInt(dt, cell))
	}
	return float64(readUint(dt, cell))
}

func writeFromFloat(dt *Datatype, cell []byte, v float64) error {
	switch dt.Class {
	case ClassFloat:
		if dt.Size == 4 {
			binary.LittleEndian.PutUint32(cell, math.Float32bits(float32(v)))
		} else {
			binary.LittleEndian.PutUint64(cell, math.Float64bits(v))
		}
		return nil
	case ClassInteger:
		if dt.Signed {
			writeInt(dt, cell, int64(v))
		} else {
			writeUint(dt, cell, uint64(v))
		}
		return nil
	default:
		return fmt.Errorf("cannot convert float to %s", dt.Name())
	}
}
