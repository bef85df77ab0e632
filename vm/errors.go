package vm

import "fmt"

// ---------------------------------------------------------------------------
// Error taxonomy
// ---------------------------------------------------------------------------
//
// These are the recoverable conditions the object model reports. At the
// boundary of a native protocol operation each is converted into a raised
// exception object (see Context.Raise); none of them aborts the process.

// BorrowConflictError reports an access request that conflicts with a live
// guard on the same cell. Only the single-threaded build produces it; the
// threaded build blocks instead.
type BorrowConflictError struct {
	Requested string // "read" or "write"
	Held      string // "read" or "write"
}

func (e *BorrowConflictError) Error() string {
	return fmt.Sprintf("cell: %s access requested while a %s guard is live", e.Requested, e.Held)
}

// TypeMismatchError reports a typed-reference conversion attempted against
// a payload of the wrong concrete type, or a destination class that is not
// a subclass of the payload's own class.
type TypeMismatchError struct {
	Want string
	Got  string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch: expected %s, got %s", e.Want, e.Got)
}

// ComparisonTypeError reports an ordering operator applied to operands of
// differing concrete types. The message names the operator actually
// attempted.
type ComparisonTypeError struct {
	Op    string
	Left  string
	Right string
}

func (e *ComparisonTypeError) Error() string {
	return fmt.Sprintf("'%s' not supported between instances of '%s' and '%s'", e.Op, e.Left, e.Right)
}

// ConstructionError reports an element produced during iterable-based
// construction that is not a valid byte value. Construction is eager and
// all-or-nothing: the first bad element aborts it and no buffer is
// observable.
type ConstructionError struct {
	Index  int
	Reason string
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("bytes: element %d: %s", e.Index, e.Reason)
}
