package dspace

// LTotAndStrides decomposes a raw storage-order stride vector into a nested
// block-size vector L_tot and normalized strides such that
// offset + sum(index[d]*strides[d]) addresses the same linear offsets as the
// input strides, relative to an extent of shape L_tot.
//
// Degenerate inputs short-circuit: rank 0 yields (nil, nil); totalSize 0
// yields rank zeros and rank ones, a valid pair that avoids zero divisions
// downstream even though addressing an empty array is moot.
func LTotAndStrides(stri []int64, rank int, totalSize int64) ([]uint64, []uint64) {
	if rank == 0 {
		return nil, nil
	}
	if totalSize == 0 {
		lTot := make([]uint64, rank)
		strides := make([]uint64, rank)
		for i := range strides {
			strides[i] = 1
		}
		return lTot, strides
	}

	lTot := make([]uint64, rank)
	strides := make([]uint64, rank)
	for i := 0; i < rank; i++ {
		strides[i] = uint64(stri[i])
	}
	lTot[0] = uint64(totalSize)

	// From the second-to-last dimension upward: the block size for dimension
	// u+1 is the gcd of all strides up to and including u. Dividing those
	// strides by it normalizes them against the block. Compact strides
	// degrade to divisions by 1.
	for u := rank - 2; u >= 0; u-- {
		l := strides[u]
		for v := u - 1; v >= 0; v-- {
			l = gcd(l, strides[v])
		}
		for v := u; v >= 0; v-- {
			strides[v] /= l
		}
		lTot[u+1] = l
	}

	return lTot, strides
}

func gcd(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
