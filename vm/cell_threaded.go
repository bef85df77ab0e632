//go:build !pyrite_singlethread

package vm

import "sync"

// ThreadedCells reports which synchronization strategy this binary was
// built with. In the default (threaded) build, conflicting access to a
// cell blocks until the conflicting guard is released. Building with the
// pyrite_singlethread tag swaps in a non-blocking strategy that detects
// conflicting access instead.
const ThreadedCells = true

// ---------------------------------------------------------------------------
// Cell: exclusive interior mutability
// ---------------------------------------------------------------------------

// Cell owns exactly one value of type T and grants guarded exclusive
// access to it. At most one guard is live at a time.
type Cell[T any] struct {
	mu    sync.Mutex
	value T
}

// NewCell creates a cell, taking ownership of value.
func NewCell[T any](value T) *Cell[T] {
	return &Cell[T]{value: value}
}

// Lock grants exclusive read/write access, blocking until any current
// holder releases its guard. The error is always nil in this build; it
// exists so code written against the cell API behaves identically under
// the single-threaded strategy, where a conflict is reported rather than
// waited out.
//
//	g, err := c.Lock()
//	if err != nil { ... }
//	defer g.Release()
func (c *Cell[T]) Lock() (*CellGuard[T], error) {
	c.mu.Lock()
	return &CellGuard[T]{cell: c}, nil
}

// CellGuard is a scoped token for exclusive access to a cell's value.
// Access ends when Release is called, on every exit path.
type CellGuard[T any] struct {
	cell     *Cell[T]
	released bool
}

// Value returns a pointer to the guarded value. The pointer must not be
// retained past Release.
func (g *CellGuard[T]) Value() *T {
	if g.released {
		panic("vm: CellGuard.Value after Release")
	}
	return &g.cell.value
}

// Release ends this guard's access. Releasing twice panics.
func (g *CellGuard[T]) Release() {
	if g.released {
		panic("vm: CellGuard released twice")
	}
	g.released = true
	g.cell.mu.Unlock()
}

// ---------------------------------------------------------------------------
// RWCell: shared/exclusive interior mutability
// ---------------------------------------------------------------------------

// RWCell owns exactly one value of type T and grants either any number of
// concurrent shared readers or exactly one exclusive writer, never both.
type RWCell[T any] struct {
	mu    sync.RWMutex
	value T
}

// NewRWCell creates a cell, taking ownership of value.
func NewRWCell[T any](value T) *RWCell[T] {
	return &RWCell[T]{value: value}
}

// Read grants shared read-only access, blocking while a writer holds the
// cell. Multiple read guards may coexist.
func (c *RWCell[T]) Read() (*ReadGuard[T], error) {
	c.mu.RLock()
	return &ReadGuard[T]{cell: c}, nil
}

// Write grants exclusive read/write access, blocking until all current
// accessors finish. No fairness guarantee beyond the underlying lock's.
func (c *RWCell[T]) Write() (*WriteGuard[T], error) {
	c.mu.Lock()
	return &WriteGuard[T]{cell: c}, nil
}

// ReadGuard is a scoped token for shared read-only access.
type ReadGuard[T any] struct {
	cell     *RWCell[T]
	released bool
}

// Value returns a copy of the guarded value. Reads only.
func (g *ReadGuard[T]) Value() T {
	if g.released {
		panic("vm: ReadGuard.Value after Release")
	}
	return g.cell.value
}

// Release ends this guard's access. Releasing twice panics.
func (g *ReadGuard[T]) Release() {
	if g.released {
		panic("vm: ReadGuard released twice")
	}
	g.released = true
	g.cell.mu.RUnlock()
}

// WriteGuard is a scoped token for exclusive read/write access.
type WriteGuard[T any] struct {
	cell     *RWCell[T]
	released bool
}

// Value returns a pointer to the guarded value. The pointer must not be
// retained past Release.
func (g *WriteGuard[T]) Value() *T {
	if g.released {
		panic("vm: WriteGuard.Value after Release")
	}
	return &g.cell.value
}

// Release ends this guard's access. Releasing twice panics.
func (g *WriteGuard[T]) Release() {
	if g.released {
		panic("vm: WriteGuard released twice")
	}
	g.released = true
	g.cell.mu.Unlock()
}
