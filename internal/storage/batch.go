package storage

// forEachBatch splits n rows into flush ranges [lo, hi). A flush follows every
// row whose zero-based index is a multiple of size, and a final flush covers
// any remainder, so the first range holds a single row and every row lands in
// exactly one range.
func forEachBatch(n, size int, flush func(lo, hi int) error) error {
	if size < 1 {
		size = 1
	}

	lo := 0
	for i := 0; i < n; i++ {
		if i%size != 0 {
			continue
		}
		if err := flush(lo, i+1); err != nil {
			return err
		}
		lo = i + 1
	}

	if lo < n {
		return flush(lo, n)
	}
	return nil
}
