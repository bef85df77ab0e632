package vm

import "testing"

// These tests hold in both synchronization builds: every acquisition here
// is uncontended, so the threaded build never blocks and the
// single-threaded build never detects a conflict.

// ---------------------------------------------------------------------------
// Cell tests
// ---------------------------------------------------------------------------

func TestCellLockAndMutate(t *testing.T) {
	c := NewCell(10)

	g, err := c.Lock()
	if err != nil {
		t.Fatalf("Lock failed: %v", err)
	}
	if *g.Value() != 10 {
		t.Errorf("Value = %d, want 10", *g.Value())
	}
	*g.Value() = 42
	g.Release()

	g2, err := c.Lock()
	if err != nil {
		t.Fatalf("second Lock failed: %v", err)
	}
	defer g2.Release()
	if *g2.Value() != 42 {
		t.Errorf("Value = %d, want 42", *g2.Value())
	}
}

func TestCellSequentialGuards(t *testing.T) {
	c := NewCell("a")

	for i := 0; i < 5; i++ {
		g, err := c.Lock()
		if err != nil {
			t.Fatalf("Lock %d failed: %v", i, err)
		}
		g.Release()
	}
}

func TestCellGuardDoubleReleasePanics(t *testing.T) {
	c := NewCell(0)
	g, err := c.Lock()
	if err != nil {
		t.Fatalf("Lock failed: %v", err)
	}
	g.Release()

	defer func() {
		if recover() == nil {
			t.Error("double Release should panic")
		}
	}()
	g.Release()
}

func TestCellGuardValueAfterReleasePanics(t *testing.T) {
	c := NewCell(0)
	g, err := c.Lock()
	if err != nil {
		t.Fatalf("Lock failed: %v", err)
	}
	g.Release()

	defer func() {
		if recover() == nil {
			t.Error("Value after Release should panic")
		}
	}()
	_ = g.Value()
}

// ---------------------------------------------------------------------------
// RWCell tests
// ---------------------------------------------------------------------------

func TestRWCellReadSeesValue(t *testing.T) {
	c := NewRWCell([]int{1, 2, 3})

	g, err := c.Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	defer g.Release()
	if len(g.Value()) != 3 {
		t.Errorf("len = %d, want 3", len(g.Value()))
	}
}

func TestRWCellWriteMutates(t *testing.T) {
	c := NewRWCell(1)

	w, err := c.Write()
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	*w.Value() = 2
	w.Release()

	r, err := c.Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	defer r.Release()
	if r.Value() != 2 {
		t.Errorf("Value = %d, want 2", r.Value())
	}
}

func TestRWCellMultipleReaders(t *testing.T) {
	c := NewRWCell(7)

	r1, err := c.Read()
	if err != nil {
		t.Fatalf("first Read failed: %v", err)
	}
	r2, err := c.Read()
	if err != nil {
		t.Fatalf("second Read failed: %v", err)
	}
	if r1.Value() != 7 || r2.Value() != 7 {
		t.Error("both readers should see the value")
	}
	r1.Release()
	r2.Release()

	// With all readers gone a writer gets in.
	w, err := c.Write()
	if err != nil {
		t.Fatalf("Write after readers failed: %v", err)
	}
	w.Release()
}

func TestRWCellReadGuardDoubleReleasePanics(t *testing.T) {
	c := NewRWCell(0)
	g, err := c.Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	g.Release()

	defer func() {
		if recover() == nil {
			t.Error("double Release should panic")
		}
	}()
	g.Release()
}

func TestRWCellWriteGuardValueAfterReleasePanics(t *testing.T) {
	c := NewRWCell(0)
	g, err := c.Write()
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	g.Release()

	defer func() {
		if recover() == nil {
			t.Error("Value after Release should panic")
		}
	}()
	_ = g.Value()
}

// ---------------------------------------------------------------------------
// Benchmarks
// ---------------------------------------------------------------------------

func BenchmarkCellLock(b *testing.B) {
	c := NewCell(0)
	for i := 0; i < b.N; i++ {
		g, _ := c.Lock()
		g.Release()
	}
}

func BenchmarkRWCellRead(b *testing.B) {
	c := NewRWCell(0)
	for i := 0; i < b.N; i++ {
		g, _ := c.Read()
		g.Release()
	}
}
