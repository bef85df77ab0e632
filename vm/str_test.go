package vm

import "testing"

func TestStrLenCountsCharacters(t *testing.T) {
	ctx := NewContext()

	cases := []struct {
		value string
		want  int64
	}{
		{"", 0},
		{"hello", 5},
		{"héllo", 5}, // two bytes for é, one character
		{"日本語", 3},
	}
	for _, tc := range cases {
		res, err := ctx.CallMethod(ctx.NewStr(tc.value), OpLen)
		if err != nil {
			t.Fatalf("__len__(%q) failed: %v", tc.value, err)
		}
		n, err := ctx.AsInt(res)
		if err != nil {
			t.Fatalf("len result not an int: %v", err)
		}
		if n != tc.want {
			t.Errorf("len(%q) = %d, want %d", tc.value, n, tc.want)
		}
	}
}

func TestStrEq(t *testing.T) {
	ctx := NewContext()

	res, err := ctx.CallMethod(ctx.NewStr("a"), OpEq, ctx.NewStr("a"))
	if err != nil {
		t.Fatalf("__eq__ failed: %v", err)
	}
	b, ok := res.Payload().(*Bool)
	if !ok || !b.Value {
		t.Error("equal text should compare equal")
	}

	res, err = ctx.CallMethod(ctx.NewStr("a"), OpEq, ctx.NewInt(1))
	if err != nil {
		t.Fatalf("__eq__ with int operand failed: %v", err)
	}
	if b, _ := res.Payload().(*Bool); b == nil || b.Value {
		t.Error("a non-str operand should compare unequal, not fail")
	}
}
