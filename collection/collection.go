// Package collection adapts the native "count" plus "get at index" accessor
// pairs into a lazy, double-ended sequence.
//
// Nothing is fetched up front. Each element access calls the accessor once
// and may fail on its own even though the count succeeded; the failure is
// yielded once and the collection is then fused.
package collection

import (
	"errors"
	"fmt"
	"iter"
)

var (
	// ErrExhausted is returned once a collection has nothing left to yield.
	ErrExhausted = errors.New("collection exhausted")

	// ErrInvalidCount is returned when the native count is negative.
	ErrInvalidCount = errors.New("invalid native count")
)

// Collection is a lazy view over indices [0, count). It is not safe for
// concurrent use.
type Collection[T any] struct {
	get   func(index int32) (T, error)
	count int32
	front int32
	back  int32
	fused bool
}

// New returns a collection of count elements fetched through get.
func New[T any](count int32, get func(index int32) (T, error)) (*Collection[T], error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCount, count)
	}
	return &Collection[T]{get: get, count: count, back: count}, nil
}

// FromCount calls count once and returns a collection over its result.
func FromCount[T any](count func() (int32, error), get func(index int32) (T, error)) (*Collection[T], error) {
	n, err := count()
	if err != nil {
		return nil, err
	}
	return New(n, get)
}

// Len returns the number of elements not yet yielded from either end.
func (c *Collection[T]) Len() int {
	if c.fused {
		return 0
	}
	return int(c.back - c.front)
}

// Next yields the next element from the front.
func (c *Collection[T]) Next() (T, error) {
	var zero T
	if c.fused || c.front >= c.back {
		c.fused = true
		return zero, ErrExhausted
	}
	index := c.front
	c.front++
	return c.fetch(index)
}

// NextBack yields the next element from the back.
func (c *Collection[T]) NextBack() (T, error) {
	var zero T
	if c.fused || c.front >= c.back {
		c.fused = true
		return zero, ErrExhausted
	}
	c.back--
	return c.fetch(c.back)
}

// Nth skips n elements from the front without fetching them and yields the
// one after.
func (c *Collection[T]) Nth(n int) (T, error) {
	if n < 0 || n >= c.Len() {
		var zero T
		c.fused = true
		return zero, ErrExhausted
	}
	c.front += int32(n)
	return c.Next()
}

// NthBack skips n elements from the back without fetching them and yields
// the one before.
func (c *Collection[T]) NthBack(n int) (T, error) {
	if n < 0 || n >= c.Len() {
		var zero T
		c.fused = true
		return zero, ErrExhausted
	}
	c.back -= int32(n)
	return c.NextBack()
}

// Reset rewinds the view to the full range it was created with.
func (c *Collection[T]) Reset() {
	c.front = 0
	c.back = c.count
	c.fused = false
}

// All yields the remaining elements front to back. An accessor failure is
// yielded once as (zero, err) and ends the sequence.
func (c *Collection[T]) All() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for {
			v, err := c.Next()
			if errors.Is(err, ErrExhausted) {
				return
			}
			if !yield(v, err) || err != nil {
				return
			}
		}
	}
}

// Backward yields the remaining elements back to front.
func (c *Collection[T]) Backward() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for {
			v, err := c.NextBack()
			if errors.Is(err, ErrExhausted) {
				return
			}
			if !yield(v, err) || err != nil {
				return
			}
		}
	}
}

// Collect drains the collection from the front. It stops at the first
// accessor failure and returns the elements fetched before it.
func (c *Collection[T]) Collect() ([]T, error) {
	out := make([]T, 0, c.Len())
	for v, err := range c.All() {
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (c *Collection[T]) fetch(index int32) (T, error) {
	v, err := c.get(index)
	if err != nil {
		c.fused = true
		var zero T
		return zero, fmt.Errorf("element %d: %w", index, err)
	}
	return v, nil
}
