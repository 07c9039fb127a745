// Package pool provides an arena-backed object pool. Objects live in a slice
// of slots addressed by Handle; released slots go onto a free list of indices
// and are handed out again before the arena grows.
package pool

import "fmt"

// Handle addresses one slot of a Pool.
type Handle int32

// NoHandle is the zero-slot sentinel for values that were never acquired.
const NoHandle Handle = -1

// Pool reuses *T values. It is not safe for concurrent use; each session owns
// its own pools.
type Pool[T any] struct {
	items []*T
	live  []bool
	free  []Handle

	create func() *T
	reset  func(*T)

	created int
	reused  int
}

// Option configures a Pool.
type Option[T any] func(*Pool[T])

// WithFactory sets the constructor used when the free list is empty.
func WithFactory[T any](fn func() *T) Option[T] {
	return func(p *Pool[T]) { p.create = fn }
}

// WithReset sets a hook run on every value handed back through Release.
func WithReset[T any](fn func(*T)) Option[T] {
	return func(p *Pool[T]) { p.reset = fn }
}

// New creates an empty pool.
func New[T any](opts ...Option[T]) *Pool[T] {
	p := &Pool[T]{
		create: func() *T { return new(T) },
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Populate pre-allocates n free values.
func (p *Pool[T]) Populate(n int) {
	for i := 0; i < n; i++ {
		h := p.grow()
		p.live[h] = false
		p.free = append(p.free, h)
	}
}

// Acquire returns a value and its handle. An empty free list never fails, it
// allocates through the factory.
func (p *Pool[T]) Acquire() (*T, Handle) {
	if n := len(p.free); n > 0 {
		h := p.free[n-1]
		p.free = p.free[:n-1]
		p.live[h] = true
		p.reused++
		return p.items[h], h
	}
	h := p.grow()
	return p.items[h], h
}

// Release runs the reset hook and returns the slot to the free list.
// Releasing a handle that is not live is a caller bug.
func (p *Pool[T]) Release(h Handle) {
	if h < 0 || int(h) >= len(p.items) || !p.live[h] {
		panic(fmt.Sprintf("pool: release of handle %d that is not live", h))
	}
	if p.reset != nil {
		p.reset(p.items[h])
	}
	p.live[h] = false
	p.free = append(p.free, h)
}

// Get returns the value stored at h, or nil for an unknown handle.
func (p *Pool[T]) Get(h Handle) *T {
	if h < 0 || int(h) >= len(p.items) {
		return nil
	}
	return p.items[h]
}

// Live reports whether h is currently acquired.
func (p *Pool[T]) Live(h Handle) bool {
	return h >= 0 && int(h) < len(p.items) && p.live[h]
}

// Stats summarizes pool usage.
type Stats struct {
	Capacity int // slots in the arena
	InUse    int
	Free     int
	Created  int // values built by the factory
	Reused   int // acquires served from the free list
}

// Stats returns a usage snapshot.
func (p *Pool[T]) Stats() Stats {
	return Stats{
		Capacity: len(p.items),
		InUse:    len(p.items) - len(p.free),
		Free:     len(p.free),
		Created:  p.created,
		Reused:   p.reused,
	}
}

func (p *Pool[T]) grow() Handle {
	h := Handle(len(p.items))
	p.items = append(p.items, p.create())
	p.live = append(p.live, true)
	p.created++
	return h
}
