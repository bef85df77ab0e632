package vm

import "testing"

func TestIteratorExhaustionIsPermanent(t *testing.T) {
	ctx := NewContext()
	obj := ctx.NewBytes([]byte{9})

	it, err := ctx.CallMethod(obj, OpIter)
	if err != nil {
		t.Fatalf("__iter__ failed: %v", err)
	}

	if _, err := ctx.CallMethod(it, OpNext); err != nil {
		t.Fatalf("first __next__ failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		_, err := ctx.CallMethod(it, OpNext)
		if !ctx.IsStopIteration(err) {
			t.Fatalf("call %d after exhaustion: err = %v, want StopIteration", i, err)
		}
	}
}

func TestIteratorIterReturnsSelf(t *testing.T) {
	ctx := NewContext()
	obj := ctx.NewList([]*Object{ctx.NewInt(1)})

	it, err := ctx.CallMethod(obj, OpIter)
	if err != nil {
		t.Fatalf("__iter__ failed: %v", err)
	}
	again, err := ctx.CallMethod(it, OpIter)
	if err != nil {
		t.Fatalf("__iter__ on iterator failed: %v", err)
	}
	if again != it {
		t.Error("an iterator's __iter__ should be itself")
	}
}

func TestIteratorRetainsSource(t *testing.T) {
	ctx := NewContext()
	obj := ctx.NewBytes([]byte{1, 2})
	before := obj.RefCount()

	it, err := ctx.CallMethod(obj, OpIter)
	if err != nil {
		t.Fatalf("__iter__ failed: %v", err)
	}
	if obj.RefCount() != before+1 {
		t.Errorf("RefCount = %d, want %d", obj.RefCount(), before+1)
	}

	ref, err := AsRef[*SequenceIterator](it)
	if err != nil {
		t.Fatalf("AsRef failed: %v", err)
	}
	if ref.Payload().Source() != obj {
		t.Error("iterator should reference its source handle")
	}
}

func TestIteratorOverEmptySequence(t *testing.T) {
	ctx := NewContext()
	it, err := ctx.CallMethod(ctx.NewBytes(nil), OpIter)
	if err != nil {
		t.Fatalf("__iter__ failed: %v", err)
	}
	_, err = ctx.CallMethod(it, OpNext)
	if !ctx.IsStopIteration(err) {
		t.Errorf("err = %v, want StopIteration", err)
	}
}

func TestIteratorSeesAppendsBeforeExhaustion(t *testing.T) {
	// The iterator is a lazy cursor over the live sequence, not a
	// snapshot.
	ctx := NewContext()
	list := ctx.NewList([]*Object{ctx.NewInt(1)})

	it, err := ctx.CallMethod(list, OpIter)
	if err != nil {
		t.Fatalf("__iter__ failed: %v", err)
	}
	if _, err := ctx.CallMethod(it, OpNext); err != nil {
		t.Fatalf("__next__ failed: %v", err)
	}

	if _, err := ctx.CallMethod(list, "append", ctx.NewInt(2)); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	item, err := ctx.CallMethod(it, OpNext)
	if err != nil {
		t.Fatalf("__next__ after append failed: %v", err)
	}
	v, _ := ctx.AsInt(item)
	if v != 2 {
		t.Errorf("element = %d, want 2", v)
	}
}
