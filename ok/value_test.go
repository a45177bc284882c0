package ok

import (
	"math"
	"reflect"
	"testing"
)

func TestCompareNaturalOrder(t *testing.T) {
	tests := []struct {
		name        string
		left, right Value
		want        int
	}{
		{name: "ints", left: num(1), right: num(2), want: -1},
		{name: "int float", left: num(2), right: NewFloat(1.5), want: 1},
		{name: "strings", left: str("b"), right: str("a"), want: 1},
		{name: "bools", left: NewBool(false), right: NewBool(true), want: -1},
		{name: "nil last", left: NewNil(), right: num(0), want: 1},
		{name: "nils", left: NewNil(), right: NewNil(), want: 0},
		{name: "mixed", left: num(10), right: str("9"), want: -1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Compare(tc.left, tc.right); got != tc.want {
				t.Fatalf("Compare(%v, %v) = %d, want %d", tc.left, tc.right, got, tc.want)
			}
		})
	}
}

func TestValueEqualAndString(t *testing.T) {
	a := NewHash(map[string]Value{"x": Ints(1, 2), "y": str("z")})
	b := NewHash(map[string]Value{"y": str("z"), "x": Ints(1, 2)})
	if !a.Equal(b) {
		t.Fatalf("hashes with equal entries should be equal")
	}
	if a.String() != "{x: [1, 2], y: z}" {
		t.Fatalf("unexpected hash string %q", a.String())
	}
	if !num(1).Equal(NewFloat(1)) || num(1).Equal(str("1")) {
		t.Fatalf("unexpected numeric equality")
	}
	fn := NewFunc("f", nil)
	if !NewFunction(fn).Equal(NewFunction(fn)) || NewFunction(fn).Equal(NewFunction(NewFunc("f", nil))) {
		t.Fatalf("functions compare by identity")
	}
	if NewNil().Truthy() || num(0).Truthy() || !str("x").Truthy() {
		t.Fatalf("unexpected truthiness")
	}
	if NewSequence(num(1)).String() != "[1]" {
		t.Fatalf("sequences print like arrays")
	}
}

func TestFromGoAndBack(t *testing.T) {
	in := map[string]any{
		"name":  "ok",
		"count": 3,
		"ratio": 0.5,
		"tags":  []any{"a", true, nil},
	}
	v, err := FromGo(in)
	if err != nil {
		t.Fatalf("from go: %v", err)
	}
	if v.Hash()["count"].Kind() != KindInt || v.Hash()["ratio"].Kind() != KindFloat {
		t.Fatalf("unexpected kinds in %v", v)
	}
	want := map[string]any{
		"name":  "ok",
		"count": int64(3),
		"ratio": 0.5,
		"tags":  []any{"a", true, nil},
	}
	if got := ToGo(v); !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch: %#v", got)
	}
	if _, err := FromGo(struct{}{}); err == nil {
		t.Fatalf("expected error for unsupported type")
	}
}

func TestFromGoRejectsOverflowingUnsigned(t *testing.T) {
	if v, err := FromGo(uint64(math.MaxInt64)); err != nil || v.Int() != math.MaxInt64 {
		t.Fatalf("max int64 should convert, got %v (%v)", v, err)
	}
	if _, err := FromGo(uint64(math.MaxInt64) + 1); err == nil {
		t.Fatalf("expected overflow error")
	}
	if _, err := FromGo([]any{"ok", uint64(math.MaxUint64)}); err == nil {
		t.Fatalf("expected overflow error from a nested value")
	}
}
