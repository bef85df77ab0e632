package vm

import (
	"bytes"
	"fmt"
	"unicode/utf8"
)

// ---------------------------------------------------------------------------
// Bytes: the immutable byte buffer
// ---------------------------------------------------------------------------

// Bytes is the payload of an immutable ordered sequence of byte values.
// The slice is never mutated after construction, which is what makes the
// content hash safe to use as a map key.
type Bytes struct {
	value []byte
}

// NewBytesPayload creates a buffer payload owning a copy of data.
func NewBytesPayload(data []byte) *Bytes {
	return &Bytes{value: append([]byte(nil), data...)}
}

// Class implements Payload.
func (b *Bytes) Class(ctx *Context) *Class {
	return ctx.BytesClass
}

// Data returns the raw bytes. Callers must not mutate the slice.
func (b *Bytes) Data() []byte {
	return b.value
}

// Len returns the count of raw bytes.
func (b *Bytes) Len() int {
	return len(b.value)
}

// SeqLen implements sequencePayload.
func (b *Bytes) SeqLen() (int, error) {
	return len(b.value), nil
}

// SeqItem implements sequencePayload: elements are ints in [0, 256).
func (b *Bytes) SeqItem(ctx *Context, i int) (*Object, error) {
	if i < 0 || i >= len(b.value) {
		return nil, ctx.NewValueError("bytes index out of range")
	}
	return ctx.NewInt(int64(b.value[i])), nil
}

const bytesDoc = "bytes(iterable_of_ints) -> bytes\n" +
	"bytes() -> empty bytes object\n\n" +
	"Construct an immutable array of bytes from an iterable yielding\n" +
	"integers in range(256)."

func initBytes(ctx *Context) {
	ctx.ExtendClass(ctx.BytesClass, bytesDoc, map[string]NativeFunc{
		OpNew:  bytesNew,
		OpEq:   bytesEq,
		OpLt:   bytesLt,
		OpLe:   bytesLe,
		OpGt:   bytesGt,
		OpGe:   bytesGe,
		OpHash: bytesHash,
		OpRepr: bytesRepr,
		OpLen:  bytesLen,
		OpIter: bytesIter,
	})
}

// ---------------------------------------------------------------------------
// Construction
// ---------------------------------------------------------------------------

// bytesNew constructs a buffer. No argument gives the empty buffer; one
// argument must be an iterable whose elements are integers in [0, 256).
// Validation is eager and all-or-nothing: elements accumulate in a local
// buffer, the first bad one aborts construction, and the handle is
// installed only on full success. args[0] is the destination class, so
// embedding code can register subclasses of bytes.
func bytesNew(ctx *Context, args Args) (*Object, error) {
	if err := ctx.ExpectArgs(OpNew, args, 1, 2); err != nil {
		return nil, err
	}
	clsRef, err := AsRef[*Class](args[0])
	if err != nil {
		return nil, ctx.Raise(err)
	}

	var data []byte
	if src := args.Arg(1); src != nil {
		elems, err := ctx.ExtractElements(src)
		if err != nil {
			return nil, err
		}
		data = make([]byte, 0, len(elems))
		for i, elem := range elems {
			v, err := ctx.AsInt(elem)
			if err != nil {
				return nil, ctx.Raise(&ConstructionError{
					Index:  i,
					Reason: fmt.Sprintf("%s is not an integer", elem.Class().Name),
				})
			}
			if v < 0 || v > 255 {
				return nil, ctx.Raise(&ConstructionError{
					Index:  i,
					Reason: fmt.Sprintf("%d is not in range(256)", v),
				})
			}
			data = append(data, byte(v))
		}
	}

	obj, err := ctx.NewObjectWithClass(&Bytes{value: data}, clsRef.Payload())
	if err != nil {
		return nil, ctx.Raise(err)
	}
	return obj, nil
}

// ---------------------------------------------------------------------------
// Comparison
// ---------------------------------------------------------------------------

// bytesEq implements equality, a total relation: a non-bytes operand
// compares unequal rather than failing.
func bytesEq(ctx *Context, args Args) (*Object, error) {
	self, err := BindSelf[*Bytes](ctx, OpEq, args, ctx.BytesClass)
	if err != nil {
		return nil, err
	}
	other := args.Arg(1)
	if other == nil {
		return nil, ctx.ExpectArgs(OpEq, args, 2, 2)
	}
	if !Isinstance(other, ctx.BytesClass) {
		return ctx.NewBool(false), nil
	}
	otherRef, err := AsRef[*Bytes](other)
	if err != nil {
		return nil, ctx.Raise(err)
	}
	return ctx.NewBool(bytes.Equal(self.Payload().value, otherRef.Payload().value)), nil
}

// bytesCompare implements the ordering operators, a partial relation: the
// right-hand operand must be a bytes instance, and the failure names the
// operator that was attempted. Ordering is byte-wise lexicographic.
func bytesCompare(ctx *Context, name, op string, args Args, ok func(int) bool) (*Object, error) {
	self, err := BindSelf[*Bytes](ctx, name, args, ctx.BytesClass)
	if err != nil {
		return nil, err
	}
	other := args.Arg(1)
	if other == nil {
		return nil, ctx.ExpectArgs(name, args, 2, 2)
	}
	if !Isinstance(other, ctx.BytesClass) {
		return nil, ctx.Raise(&ComparisonTypeError{
			Op:    op,
			Left:  self.Class().Name,
			Right: other.Class().Name,
		})
	}
	otherRef, err := AsRef[*Bytes](other)
	if err != nil {
		return nil, ctx.Raise(err)
	}
	c := bytes.Compare(self.Payload().value, otherRef.Payload().value)
	return ctx.NewBool(ok(c)), nil
}

func bytesLt(ctx *Context, args Args) (*Object, error) {
	return bytesCompare(ctx, OpLt, "<", args, func(c int) bool { return c < 0 })
}

func bytesLe(ctx *Context, args Args) (*Object, error) {
	return bytesCompare(ctx, OpLe, "<=", args, func(c int) bool { return c <= 0 })
}

func bytesGt(ctx *Context, args Args) (*Object, error) {
	return bytesCompare(ctx, OpGt, ">", args, func(c int) bool { return c > 0 })
}

func bytesGe(ctx *Context, args Args) (*Object, error) {
	return bytesCompare(ctx, OpGe, ">=", args, func(c int) bool { return c >= 0 })
}

// ---------------------------------------------------------------------------
// Hash, repr, len, iter
// ---------------------------------------------------------------------------

// bytesHash returns the content hash of the raw sequence: equal content
// hashes equal within one process execution.
func bytesHash(ctx *Context, args Args) (*Object, error) {
	self, err := BindSelf[*Bytes](ctx, OpHash, args, ctx.BytesClass)
	if err != nil {
		return nil, err
	}
	return ctx.NewInt(int64(hashBytes(self.Payload().value))), nil
}

// bytesRepr renders the buffer as a quoted textual form. The raw bytes
// must decode as UTF-8; anything else is a clean ValueError, not a panic.
// There is no escaping scheme.
func bytesRepr(ctx *Context, args Args) (*Object, error) {
	self, err := BindSelf[*Bytes](ctx, OpRepr, args, ctx.BytesClass)
	if err != nil {
		return nil, err
	}
	raw := self.Payload().value
	if !utf8.Valid(raw) {
		return nil, ctx.NewValueError("bytes contents are not valid UTF-8 text")
	}
	return ctx.NewStr(fmt.Sprintf("b'%s'", raw)), nil
}

func bytesLen(ctx *Context, args Args) (*Object, error) {
	self, err := BindSelf[*Bytes](ctx, OpLen, args, ctx.BytesClass)
	if err != nil {
		return nil, err
	}
	return ctx.NewInt(int64(len(self.Payload().value))), nil
}

// bytesIter begins iterating: a fresh iterator instance with its own
// cursor over this buffer.
func bytesIter(ctx *Context, args Args) (*Object, error) {
	self, err := BindSelf[*Bytes](ctx, OpIter, args, ctx.BytesClass)
	if err != nil {
		return nil, err
	}
	return ctx.newSequenceIterator(self.Object()), nil
}
