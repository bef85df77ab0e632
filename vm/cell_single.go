//go:build pyrite_singlethread

package vm

// ThreadedCells reports which synchronization strategy this binary was
// built with. Under the pyrite_singlethread tag, access to a cell never
// blocks; an acquisition that conflicts with a live guard fails with a
// BorrowConflictError instead. The borrowing discipline is the same as in
// the threaded build, enforced by detection rather than by blocking.
const ThreadedCells = false

// ---------------------------------------------------------------------------
// Cell: exclusive interior mutability (conflict-detecting)
// ---------------------------------------------------------------------------

// Cell owns exactly one value of type T and grants guarded exclusive
// access to it. At most one guard is live at a time.
type Cell[T any] struct {
	borrowed bool
	value    T
}

// NewCell creates a cell, taking ownership of value.
func NewCell[T any](value T) *Cell[T] {
	return &Cell[T]{value: value}
}

// Lock grants exclusive read/write access. If a guard on this cell is
// already live, Lock fails immediately with a BorrowConflictError: a
// contract violation reported to the caller, never silent corruption.
func (c *Cell[T]) Lock() (*CellGuard[T], error) {
	if c.borrowed {
		return nil, &BorrowConflictError{Requested: "write", Held: "write"}
	}
	c.borrowed = true
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
	g.cell.borrowed = false
}

// ---------------------------------------------------------------------------
// RWCell: shared/exclusive interior mutability (conflict-detecting)
// ---------------------------------------------------------------------------

// RWCell owns exactly one value of type T and grants either any number of
// shared readers or exactly one exclusive writer, never both.
type RWCell[T any] struct {
	readers int
	writer  bool
	value   T
}

// NewRWCell creates a cell, taking ownership of value.
func NewRWCell[T any](value T) *RWCell[T] {
	return &RWCell[T]{value: value}
}

// Read grants shared read-only access. It fails with a BorrowConflictError
// if an exclusive guard is live.
func (c *RWCell[T]) Read() (*ReadGuard[T], error) {
	if c.writer {
		return nil, &BorrowConflictError{Requested: "read", Held: "write"}
	}
	c.readers++
	return &ReadGuard[T]{cell: c}, nil
}

// Write grants exclusive read/write access. It fails with a
// BorrowConflictError if any guard, shared or exclusive, is live.
func (c *RWCell[T]) Write() (*WriteGuard[T], error) {
	if c.writer {
		return nil, &BorrowConflictError{Requested: "write", Held: "write"}
	}
	if c.readers > 0 {
		return nil, &BorrowConflictError{Requested: "write", Held: "read"}
	}
	c.writer = true
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
	g.cell.readers--
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
	g.cell.writer = false
}
