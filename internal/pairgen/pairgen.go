// Package pairgen draws random pairs of distinct elements from a fixed
// candidate set.
//
// Identity is pointer identity: two candidates holding equal values are still
// distinct if they are different pointers, and the same pointer listed twice
// is a single identity. A Generator never runs out; Next can be called any
// number of times.
//
// Pairs are drawn by rejection sampling. The left index is drawn once and the
// right index is redrawn until it names a different identity, so the expected
// number of redraws is O(1) for large candidate sets and grows as the number of
// distinct identities approaches two. New refuses sets with fewer than two
// identities, so the loop always terminates.
package pairgen

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is returned by New for candidate sets that can never
// yield a pair of distinct elements.
var ErrInvalidInput = errors.New("pairgen: invalid input")

// Source is the random source a Generator draws indices from.
// *math/rand/v2.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

// Pair is one draw. Left and Right are never the same pointer.
type Pair[T any] struct {
	Left  *T
	Right *T
}

// Generator produces an unbounded stream of pairs.
type Generator[T any] struct {
	candidates []*T
	rng        Source
}

// New builds a Generator over candidates.
func New[T any](candidates []*T, rng Source) (*Generator[T], error) {
	if rng == nil {
		return nil, fmt.Errorf("nil random source: %w", ErrInvalidInput)
	}
	if len(candidates) < 2 {
		return nil, fmt.Errorf("need at least 2 candidates, got %d: %w", len(candidates), ErrInvalidInput)
	}
	if distinct(candidates) < 2 {
		return nil, fmt.Errorf("need at least 2 distinct candidates: %w", ErrInvalidInput)
	}

	return &Generator[T]{
		candidates: candidates,
		rng:        rng,
	}, nil
}

// Next returns a random pair of distinct candidates.
func (g *Generator[T]) Next() Pair[T] {
	n := len(g.candidates)
	left := g.candidates[g.rng.IntN(n)]
	right := g.candidates[g.rng.IntN(n)]
	for right == left {
		right = g.candidates[g.rng.IntN(n)]
	}
	return Pair[T]{Left: left, Right: right}
}

// Len returns the size of the candidate set, duplicates included.
func (g *Generator[T]) Len() int {
	return len(g.candidates)
}

// distinct counts identities, stopping early once two are seen.
func distinct[T any](candidates []*T) int {
	first := candidates[0]
	for _, c := range candidates[1:] {
		if c != first {
			return 2
		}
	}
	return 1
}
