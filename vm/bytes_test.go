package vm

import (
	"strings"
	"testing"
)

// newIntList builds a list handle of integer elements.
func newIntList(ctx *Context, vals ...int64) *Object {
	items := make([]*Object, len(vals))
	for i, v := range vals {
		items[i] = ctx.NewInt(v)
	}
	return ctx.NewList(items)
}

// constructBytes drives the full construction protocol, class handle and
// iterable argument included.
func constructBytes(t *testing.T, ctx *Context, vals ...int64) *Object {
	t.Helper()
	obj, err := ctx.Construct(ctx.BytesClass, newIntList(ctx, vals...))
	if err != nil {
		t.Fatalf("construct bytes failed: %v", err)
	}
	return obj
}

// truth unwraps a boolean result handle.
func truth(t *testing.T, obj *Object) bool {
	t.Helper()
	b, ok := obj.Payload().(*Bool)
	if !ok {
		t.Fatalf("result is %s, want bool", obj.Class().Name)
	}
	return b.Value
}

// raisedClass returns the class of the exception carried by err.
func raisedClass(t *testing.T, err error) *Class {
	t.Helper()
	obj := RaisedObject(err)
	if obj == nil {
		t.Fatalf("error %v carries no exception object", err)
	}
	return obj.Class()
}

// ---------------------------------------------------------------------------
// Construction tests
// ---------------------------------------------------------------------------

func TestBytesConstructEmpty(t *testing.T) {
	ctx := NewContext()
	obj, err := ctx.Construct(ctx.BytesClass)
	if err != nil {
		t.Fatalf("construct failed: %v", err)
	}
	ref, err := AsRef[*Bytes](obj)
	if err != nil {
		t.Fatalf("AsRef failed: %v", err)
	}
	if ref.Payload().Len() != 0 {
		t.Errorf("Len = %d, want 0", ref.Payload().Len())
	}
}

func TestBytesConstructFromList(t *testing.T) {
	ctx := NewContext()
	obj := constructBytes(t, ctx, 104, 105)

	ref, err := AsRef[*Bytes](obj)
	if err != nil {
		t.Fatalf("AsRef failed: %v", err)
	}
	if string(ref.Payload().Data()) != "hi" {
		t.Errorf("Data = %q, want %q", ref.Payload().Data(), "hi")
	}
}

func TestBytesConstructBoundaryValues(t *testing.T) {
	ctx := NewContext()
	obj := constructBytes(t, ctx, 0, 255)

	ref, _ := AsRef[*Bytes](obj)
	data := ref.Payload().Data()
	if data[0] != 0 || data[1] != 255 {
		t.Errorf("Data = %v, want [0 255]", data)
	}
}

func TestBytesConstructOutOfRange(t *testing.T) {
	ctx := NewContext()

	for _, vals := range [][]int64{{256}, {-1}, {10, 999, 20}} {
		_, err := ctx.Construct(ctx.BytesClass, newIntList(ctx, vals...))
		if err == nil {
			t.Fatalf("construct from %v should fail", vals)
		}
		if cls := raisedClass(t, err); cls.Name != "ValueError" {
			t.Errorf("construct from %v raised %s, want ValueError", vals, cls.Name)
		}
	}
}

func TestBytesConstructNonIntegerElement(t *testing.T) {
	ctx := NewContext()
	bad := ctx.NewList([]*Object{ctx.NewInt(1), ctx.NewStr("x")})

	_, err := ctx.Construct(ctx.BytesClass, bad)
	if err == nil {
		t.Fatal("construct with a str element should fail")
	}
	if cls := raisedClass(t, err); cls.Name != "ValueError" {
		t.Errorf("raised %s, want ValueError", cls.Name)
	}
	if msg := err.Error(); !strings.Contains(msg, "element 1") {
		t.Errorf("message %q should name the offending element", msg)
	}
}

func TestBytesConstructBoolElements(t *testing.T) {
	// Bools are integers, so they are valid byte values.
	ctx := NewContext()
	list := ctx.NewList([]*Object{ctx.NewBool(true), ctx.NewBool(false)})

	obj, err := ctx.Construct(ctx.BytesClass, list)
	if err != nil {
		t.Fatalf("construct from bools failed: %v", err)
	}
	ref, _ := AsRef[*Bytes](obj)
	data := ref.Payload().Data()
	if data[0] != 1 || data[1] != 0 {
		t.Errorf("Data = %v, want [1 0]", data)
	}
}

func TestBytesConstructNonIterable(t *testing.T) {
	ctx := NewContext()
	_, err := ctx.Construct(ctx.BytesClass, ctx.NewInt(5))
	if err == nil {
		t.Fatal("construct from a non-iterable should fail")
	}
	if cls := raisedClass(t, err); cls.Name != "TypeError" {
		t.Errorf("raised %s, want TypeError", cls.Name)
	}
}

func TestBytesConstructIntoSubclass(t *testing.T) {
	ctx := NewContext()
	mine := ctx.newClass("blob", ctx.BytesClass)
	mine.Table().Freeze()

	obj, err := ctx.Construct(mine, newIntList(ctx, 1, 2))
	if err != nil {
		t.Fatalf("construct into subclass failed: %v", err)
	}
	if obj.Class() != mine {
		t.Errorf("Class = %s, want blob", obj.Class().Name)
	}
	if !Isinstance(obj, ctx.BytesClass) {
		t.Error("subclass instance should count as bytes")
	}
}

// ---------------------------------------------------------------------------
// Equality tests
// ---------------------------------------------------------------------------

func TestBytesEq(t *testing.T) {
	ctx := NewContext()
	a := ctx.NewBytes([]byte("abc"))
	b := ctx.NewBytes([]byte("abc"))
	c := ctx.NewBytes([]byte("abd"))

	res, err := ctx.CallMethod(a, OpEq, b)
	if err != nil {
		t.Fatalf("__eq__ failed: %v", err)
	}
	if !truth(t, res) {
		t.Error("equal content should compare equal")
	}

	res, err = ctx.CallMethod(a, OpEq, c)
	if err != nil {
		t.Fatalf("__eq__ failed: %v", err)
	}
	if truth(t, res) {
		t.Error("different content should compare unequal")
	}
}

func TestBytesEqNonBytesOperand(t *testing.T) {
	ctx := NewContext()
	a := ctx.NewBytes([]byte("abc"))

	// Equality is total: a non-bytes operand is simply unequal.
	res, err := ctx.CallMethod(a, OpEq, ctx.NewStr("abc"))
	if err != nil {
		t.Fatalf("__eq__ with str operand failed: %v", err)
	}
	if truth(t, res) {
		t.Error("bytes should not equal a str of the same text")
	}
}

// ---------------------------------------------------------------------------
// Ordering tests
// ---------------------------------------------------------------------------

func TestBytesOrdering(t *testing.T) {
	ctx := NewContext()
	a := ctx.NewBytes([]byte("abc"))
	b := ctx.NewBytes([]byte("abd"))
	prefix := ctx.NewBytes([]byte("ab"))

	cases := []struct {
		op   string
		l, r *Object
		want bool
	}{
		{OpLt, a, b, true},
		{OpLt, b, a, false},
		{OpLt, a, a, false},
		{OpLe, a, a, true},
		{OpLe, a, b, true},
		{OpLe, b, a, false},
		{OpGt, b, a, true},
		{OpGt, a, b, false},
		{OpGe, a, a, true},
		{OpGe, b, a, true},
		{OpLt, prefix, a, true}, // a proper prefix sorts first
		{OpGt, a, prefix, true},
	}
	for _, tc := range cases {
		res, err := ctx.CallMethod(tc.l, tc.op, tc.r)
		if err != nil {
			t.Fatalf("%s failed: %v", tc.op, err)
		}
		if truth(t, res) != tc.want {
			t.Errorf("%s = %v, want %v", tc.op, truth(t, res), tc.want)
		}
	}
}

func TestBytesOrderingWrongTypeNamesOperator(t *testing.T) {
	ctx := NewContext()
	a := ctx.NewBytes([]byte("abc"))

	cases := []struct {
		name string
		op   string
	}{
		{OpLt, "<"},
		{OpLe, "<="},
		{OpGt, ">"},
		{OpGe, ">="},
	}
	for _, tc := range cases {
		_, err := ctx.CallMethod(a, tc.name, ctx.NewInt(3))
		if err == nil {
			t.Fatalf("%s with int operand should fail", tc.name)
		}
		if cls := raisedClass(t, err); cls.Name != "TypeError" {
			t.Errorf("%s raised %s, want TypeError", tc.name, cls.Name)
		}
		if msg := err.Error(); !strings.Contains(msg, "'"+tc.op+"'") {
			t.Errorf("%s message %q should name operator %q", tc.name, msg, tc.op)
		}
	}
}

// ---------------------------------------------------------------------------
// Hash tests
// ---------------------------------------------------------------------------

func TestBytesHashStableAndContentBased(t *testing.T) {
	ctx := NewContext()
	a := ctx.NewBytes([]byte("hello"))
	b := ctx.NewBytes([]byte("hello"))
	c := ctx.NewBytes([]byte("world"))

	h := func(obj *Object) int64 {
		res, err := ctx.CallMethod(obj, OpHash)
		if err != nil {
			t.Fatalf("__hash__ failed: %v", err)
		}
		v, err := ctx.AsInt(res)
		if err != nil {
			t.Fatalf("hash result not an int: %v", err)
		}
		return v
	}

	if h(a) != h(a) {
		t.Error("hash should be stable across calls")
	}
	if h(a) != h(b) {
		t.Error("equal content should hash equal")
	}
	if h(a) == h(c) {
		t.Error("different content hashing equal is vanishingly unlikely")
	}
}

// ---------------------------------------------------------------------------
// Repr tests
// ---------------------------------------------------------------------------

func TestBytesRepr(t *testing.T) {
	ctx := NewContext()
	obj := constructBytes(t, ctx, 104, 105)

	r, err := ctx.Repr(obj)
	if err != nil {
		t.Fatalf("repr failed: %v", err)
	}
	if r != "b'hi'" {
		t.Errorf("repr = %q, want %q", r, "b'hi'")
	}
}

func TestBytesReprEmpty(t *testing.T) {
	ctx := NewContext()
	r, err := ctx.Repr(ctx.NewBytes(nil))
	if err != nil {
		t.Fatalf("repr failed: %v", err)
	}
	if r != "b''" {
		t.Errorf("repr = %q, want %q", r, "b''")
	}
}

func TestBytesReprRoundtrip(t *testing.T) {
	ctx := NewContext()
	content := "héllo, wörld"
	obj := ctx.NewBytes([]byte(content))

	r, err := ctx.Repr(obj)
	if err != nil {
		t.Fatalf("repr failed: %v", err)
	}
	if !strings.HasPrefix(r, "b'") || !strings.HasSuffix(r, "'") {
		t.Fatalf("repr = %q, want a b'...' quoted form", r)
	}
	if inner := r[2 : len(r)-1]; inner != content {
		t.Errorf("quoted content = %q, want %q", inner, content)
	}
}

func TestBytesReprInvalidUTF8(t *testing.T) {
	ctx := NewContext()
	obj := ctx.NewBytes([]byte{0xff, 0xfe})

	_, err := ctx.Repr(obj)
	if err == nil {
		t.Fatal("repr of non-UTF-8 content should fail")
	}
	if cls := raisedClass(t, err); cls.Name != "ValueError" {
		t.Errorf("raised %s, want ValueError", cls.Name)
	}
}

// ---------------------------------------------------------------------------
// Len and iteration tests
// ---------------------------------------------------------------------------

func TestBytesLen(t *testing.T) {
	ctx := NewContext()
	res, err := ctx.CallMethod(ctx.NewBytes([]byte("abc")), OpLen)
	if err != nil {
		t.Fatalf("__len__ failed: %v", err)
	}
	n, err := ctx.AsInt(res)
	if err != nil {
		t.Fatalf("len result not an int: %v", err)
	}
	if n != 3 {
		t.Errorf("len = %d, want 3", n)
	}
}

func TestBytesIterYieldsByteValues(t *testing.T) {
	ctx := NewContext()
	obj := ctx.NewBytes([]byte{10, 20, 30})

	elems, err := ctx.ExtractElements(obj)
	if err != nil {
		t.Fatalf("iteration failed: %v", err)
	}
	want := []int64{10, 20, 30}
	if len(elems) != len(want) {
		t.Fatalf("element count = %d, want %d", len(elems), len(want))
	}
	for i, e := range elems {
		v, err := ctx.AsInt(e)
		if err != nil {
			t.Fatalf("element %d not an int: %v", i, err)
		}
		if v != want[i] {
			t.Errorf("element %d = %d, want %d", i, v, want[i])
		}
	}
}

func TestBytesIndependentIterators(t *testing.T) {
	ctx := NewContext()
	obj := ctx.NewBytes([]byte{1, 2, 3})

	it1, err := ctx.CallMethod(obj, OpIter)
	if err != nil {
		t.Fatalf("__iter__ failed: %v", err)
	}
	it2, err := ctx.CallMethod(obj, OpIter)
	if err != nil {
		t.Fatalf("__iter__ failed: %v", err)
	}

	// Drain the first iterator fully.
	for {
		if _, err := ctx.CallMethod(it1, OpNext); err != nil {
			if !ctx.IsStopIteration(err) {
				t.Fatalf("__next__ failed: %v", err)
			}
			break
		}
	}

	// The second iterator still starts from the beginning.
	first, err := ctx.CallMethod(it2, OpNext)
	if err != nil {
		t.Fatalf("__next__ on second iterator failed: %v", err)
	}
	v, _ := ctx.AsInt(first)
	if v != 1 {
		t.Errorf("second iterator first element = %d, want 1", v)
	}
}

// ---------------------------------------------------------------------------
// Roundtrip: construct from another buffer's iteration
// ---------------------------------------------------------------------------

func TestBytesConstructFromBytes(t *testing.T) {
	ctx := NewContext()
	src := ctx.NewBytes([]byte("roundtrip"))

	dst, err := ctx.Construct(ctx.BytesClass, src)
	if err != nil {
		t.Fatalf("construct from bytes failed: %v", err)
	}
	res, err := ctx.CallMethod(src, OpEq, dst)
	if err != nil {
		t.Fatalf("__eq__ failed: %v", err)
	}
	if !truth(t, res) {
		t.Error("reconstructed buffer should equal its source")
	}
}

// ---------------------------------------------------------------------------
// Benchmarks
// ---------------------------------------------------------------------------

func BenchmarkBytesEq(b *testing.B) {
	ctx := NewContext()
	x := ctx.NewBytes([]byte("benchmark content benchmark content"))
	y := ctx.NewBytes([]byte("benchmark content benchmark content"))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = ctx.CallMethod(x, OpEq, y)
	}
}

func BenchmarkBytesHash(b *testing.B) {
	ctx := NewContext()
	x := ctx.NewBytes([]byte("benchmark content benchmark content"))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = ctx.CallMethod(x, OpHash)
	}
}
