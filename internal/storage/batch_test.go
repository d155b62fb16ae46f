package storage

import (
	"errors"
	"reflect"
	"testing"

	"pgregory.net/rapid"
)

func collectBatches(t *testing.T, n, size int) []int {
	t.Helper()

	var sizes []int
	next := 0
	err := forEachBatch(n, size, func(lo, hi int) error {
		if lo != next {
			t.Fatalf("Batch starts at %d, expected %d", lo, next)
		}
		if hi <= lo {
			t.Fatalf("Empty batch [%d, %d)", lo, hi)
		}
		sizes = append(sizes, hi-lo)
		next = hi
		return nil
	})
	if err != nil {
		t.Fatalf("forEachBatch() error = %v", err)
	}
	return sizes
}

func TestForEachBatch(t *testing.T) {
	const b = DefaultBatchSize

	tests := []struct {
		name string
		n    int
		want []int
	}{
		{"empty", 0, nil},
		{"one", 1, []int{1}},
		{"exactly one batch", b, []int{1, b - 1}},
		{"batch plus one", b + 1, []int{1, b}},
		{"two batches", 2 * b, []int{1, b, b - 1}},
		{"two batches plus seven", 2*b + 7, []int{1, b, b, 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collectBatches(t, tt.n, b)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("batch sizes = %v, want %v", got, tt.want)
			}

			sum := 0
			for _, s := range got {
				sum += s
			}
			if sum != tt.n {
				t.Errorf("flushed %d rows, want %d", sum, tt.n)
			}
		})
	}
}

func TestForEachBatch_InvalidSizeFlushesEveryRow(t *testing.T) {
	got := collectBatches(t, 3, 0)
	if !reflect.DeepEqual(got, []int{1, 1, 1}) {
		t.Errorf("batch sizes = %v, want [1 1 1]", got)
	}
}

func TestForEachBatch_StopsOnError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0

	err := forEachBatch(350, 100, func(lo, hi int) error {
		calls++
		if calls == 3 {
			return boom
		}
		return nil
	})

	if !errors.Is(err, boom) {
		t.Fatalf("Expected boom, got %v", err)
	}
	if calls != 3 {
		t.Errorf("Expected 3 flush calls, got %d", calls)
	}
}

func TestForEachBatch_ExhaustiveProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 2000).Draw(t, "n")
		size := rapid.IntRange(1, 300).Draw(t, "size")

		seen := make([]int, n)
		batches := 0
		err := forEachBatch(n, size, func(lo, hi int) error {
			if hi-lo > size {
				t.Fatalf("batch [%d, %d) exceeds size %d", lo, hi, size)
			}
			for i := lo; i < hi; i++ {
				seen[i]++
			}
			batches++
			return nil
		})
		if err != nil {
			t.Fatalf("forEachBatch() error = %v", err)
		}

		for i, c := range seen {
			if c != 1 {
				t.Fatalf("row %d flushed %d times", i, c)
			}
		}
		if n > 0 && batches == 0 {
			t.Fatal("no batches for non-empty input")
		}
	})
}
