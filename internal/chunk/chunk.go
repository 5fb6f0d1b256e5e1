// Package chunk implements chunked dataset storage: the dataset extent is
// split into a row-major grid of fixed-size chunks, each compressed
// independently with the deflate filter. Edge chunks that the extent does
// not fill completely are stored unpadded.
package chunk

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// Store holds the compressed chunks of one dataset extent.
type Store struct {
	dims      []uint64
	chunkDims []uint64
	elemSize  int
	level     int
	grid      []uint64 // number of chunks per dimension
	chunks    [][]byte // compressed chunk data, row-major chunk order
}

// New creates a chunked store for an extent of shape dims, chunked by
// chunkDims, with deflate compression at the given level.
func New(dims, chunkDims []uint64, elemSize, level int) (*Store, error) {
	if len(dims) == 0 {
		return nil, fmt.Errorf("chunked storage requires rank >= 1")
	}
	if len(chunkDims) != len(dims) {
		return nil, fmt.Errorf("chunk rank %d does not match extent rank %d", len(chunkDims), len(dims))
	}
	if level < zlib.HuffmanOnly || level > zlib.BestCompression {
		return nil, fmt.Errorf("invalid deflate level %d", level)
	}

	s := &Store{
		dims:      append([]uint64(nil), dims...),
		chunkDims: append([]uint64(nil), chunkDims...),
		elemSize:  elemSize,
		level:     level,
		grid:      make([]uint64, len(dims)),
	}
	total := uint64(1)
	for i := range dims {
		if chunkDims[i] == 0 {
			return nil, fmt.Errorf("chunk extent must be >= 1 in dimension %d", i)
		}
		s.grid[i] = (dims[i] + chunkDims[i] - 1) / chunkDims[i]
		total *= s.grid[i]
	}
	s.chunks = make([][]byte, total)
	return s, nil
}

// NumChunks returns the number of chunks in the grid.
func (s *Store) NumChunks() int {
	return len(s.chunks)
}

// ChunkDims returns the chunk extents.
func (s *Store) ChunkDims() []uint64 {
	return s.chunkDims
}

// Write splits the full extent data into chunks and compresses each.
// data must hold exactly one element cell per extent point.
func (s *Store) Write(data []byte) error {
	want := s.extentBytes()
	if uint64(len(data)) != want {
		return fmt.Errorf("extent data size mismatch: expected %d bytes, got %d", want, len(data))
	}

	ci := make([]uint64, len(s.dims))
	for n := range s.chunks {
		raw := s.copyChunk(data, ci, nil)
		compressed, err := deflate(raw, s.level)
		if err != nil {
			return fmt.Errorf("compressing chunk %d: %w", n, err)
		}
		s.chunks[n] = compressed
		s.nextChunk(ci)
	}
	return nil
}

// Read decompresses all chunks and reassembles the full extent data.
func (s *Store) Read() ([]byte, error) {
	out := make([]byte, s.extentBytes())

	ci := make([]uint64, len(s.dims))
	for n, compressed := range s.chunks {
		if compressed == nil {
			return nil, fmt.Errorf("chunk %d was never written", n)
		}
		raw, err := inflate(compressed)
		if err != nil {
			return nil, fmt.Errorf("decompressing chunk %d: %w", n, err)
		}
		region := s.regionDims(ci)
		if want := regionBytes(region, s.elemSize); uint64(len(raw)) != want {
			return nil, fmt.Errorf("chunk %d size mismatch: expected %d bytes, got %d", n, want, len(raw))
		}
		s.copyChunk(out, ci, raw)
		s.nextChunk(ci)
	}
	return out, nil
}

// copyChunk copies the chunk at grid index ci between the full extent buffer
// and a chunk-local buffer. With in == nil it gathers from extent into a new
// chunk buffer; otherwise it scatters in back into extent.
func (s *Store) copyChunk(extent []byte, ci []uint64, in []byte) []byte {
	rank := len(s.dims)
	region := s.regionDims(ci)

	gather := in == nil
	var local []byte
	if gather {
		local = make([]byte, regionBytes(region, s.elemSize))
	} else {
		local = in
	}

	// Linear strides of the extent, in elements.
	lin := make([]uint64, rank)
	lin[rank-1] = 1
	for i := rank - 2; i >= 0; i-- {
		lin[i] = lin[i+1] * s.dims[i+1]
	}

	origin := make([]uint64, rank)
	for i := range origin {
		origin[i] = ci[i] * s.chunkDims[i]
	}

	// Copy one innermost row at a time; rows are contiguous in both buffers.
	rowBytes := int(region[rank-1]) * s.elemSize
	idx := make([]uint64, rank) // indexes region[0..rank-2], innermost fixed at 0
	localOff := 0
	for {
		var elem uint64
		for i := 0; i < rank; i++ {
			elem += (origin[i] + idx[i]) * lin[i]
		}
		extOff := int(elem) * s.elemSize
		if gather {
			copy(local[localOff:localOff+rowBytes], extent[extOff:])
		} else {
			copy(extent[extOff:extOff+rowBytes], local[localOff:localOff+rowBytes])
		}
		localOff += rowBytes

		i := rank - 2
		for ; i >= 0; i-- {
			idx[i]++
			if idx[i] < region[i] {
				break
			}
			idx[i] = 0
		}
		if i < 0 {
			break
		}
	}
	return local
}

// regionDims returns the extents of the chunk at grid index ci, clipped to
// the dataset extent.
func (s *Store) regionDims(ci []uint64) []uint64 {
	region := make([]uint64, len(s.dims))
	for i := range region {
		region[i] = s.chunkDims[i]
		if rest := s.dims[i] - ci[i]*s.chunkDims[i]; rest < region[i] {
			region[i] = rest
		}
	}
	return region
}

// nextChunk advances ci to the next grid index in row-major order.
func (s *Store) nextChunk(ci []uint64) {
	for i := len(ci) - 1; i >= 0; i-- {
		ci[i]++
		if ci[i] < s.grid[i] {
			return
		}
		ci[i] = 0
	}
}

func (s *Store) extentBytes() uint64 {
	n := uint64(s.elemSize)
	for _, d := range s.dims {
		n *= d
	}
	return n
}

func regionBytes(region []uint64, elemSize int) uint64 {
	n := uint64(elemSize)
	for _, d := range region {
		n *= d
	}
	return n
}

func deflate(data []byte, level int) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, fmt.Errorf("zlib writer: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return nil, fmt.Errorf("zlib compress: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("zlib flush: %w", err)
	}
	return buf.Bytes(), nil
}

func inflate(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("zlib reader: %w", err)
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("zlib decompress: %w", err)
	}
	return out, nil
}
