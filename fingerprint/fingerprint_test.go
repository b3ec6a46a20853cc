package fingerprint

import (
	"math"
	"testing"
	"time"
)

func namedHelper() {}

type widget struct{}

func (w *widget) Spin() {}

func genericIdent[T any](v T) T { return v }

func genericOuter[T any](v T) func() T {
	return func() T { return v }
}

type box[T any] struct{ v T }

func (b *box[T]) Get() T { return b.v }

func nestedClosure() func() func() {
	return func() func() {
		return func() {}
	}
}

func record(kv ...any) *Record {
	r := NewRecord()
	for i := 0; i+1 < len(kv); i += 2 {
		r.Set(kv[i].(string), kv[i+1])
	}
	return r
}

func TestOfScalars(t *testing.T) {
	var nilPtr *int
	seven := 7

	tests := []struct {
		name string
		in   any
		want string
	}{
		{"string", "hello", "hello"},
		{"empty string", "", ""},
		{"undefined", Undefined, "undef"},
		{"nil", nil, "null"},
		{"nil pointer", nilPtr, "null"},
		{"pointer to int", &seven, "7"},
		{"true", true, "true"},
		{"false", false, "false"},
		{"int", 42, "42"},
		{"negative int64", int64(-3), "-3"},
		{"uint8", uint8(255), "255"},
		{"float", 1.5, "1.5"},
		{"whole float", 2.0, "2"},
		{"negative zero", math.Copysign(0, -1), "0"},
		{"NaN", math.NaN(), "NaN"},
		{"+Inf", math.Inf(1), "Infinity"},
		{"-Inf", math.Inf(-1), "-Infinity"},
		{"large float", 1e21, "1e+21"},
		{"small float", 1e-7, "1e-7"},
		{"small negative float", -2.5e-10, "-2.5e-10"},
		{"large exponent", 1.5e300, "1.5e+300"},
		{"float32", float32(0.25), "0.25"},
		{"tag", NewTag("id"), "tag(id)"},
		{"chan", make(chan int), "chan int"},
	}
	for _, tt := range tests {
		if got := Of(tt.in); got != tt.want {
			t.Errorf("%s: Of(%v) = %q, want %q", tt.name, tt.in, got, tt.want)
		}
	}
}

func TestOfFuncs(t *testing.T) {
	w := &widget{}
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"declared", namedHelper, "namedHelper()"},
		{"method value", w.Spin, "Spin()"},
		{"literal", func() {}, "()"},
		{"nil func", (func())(nil), "null"},
		{"generic func", genericIdent[int], "genericIdent()"},
		{"closure in generic func", genericOuter(1), "()"},
		{"generic type method value", (&box[int]{}).Get, "Get()"},
		{"nested closure", nestedClosure()(), "()"},
	}
	for _, tt := range tests {
		if got := Of(tt.in); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestOfRecordKeepsInsertionOrder(t *testing.T) {
	ab := record("a", 1, "b", 2)
	ba := record("b", 2, "a", 1)

	if got := Of(ab); got != "a1b2" {
		t.Errorf("expected a1b2, got %q", got)
	}
	if got := Of(ba); got != "b2a1" {
		t.Errorf("expected b2a1, got %q", got)
	}
}

func TestOfIsShallow(t *testing.T) {
	first := record("a", 1, "b", record("b1", 2), "c", 3)
	second := record("a", 1, "b", record("b2", 9), "c", 3)

	if Of(first) != Of(second) {
		t.Errorf("nested differences should be ignored: %q vs %q", Of(first), Of(second))
	}
	if got := Of(first); got != "a1bobjc3" {
		t.Errorf("expected a1bobjc3, got %q", got)
	}

	// Lists below the first level also collapse.
	withList := record("c", []any{1, 2, 3})
	otherList := record("c", []any{5, 6, 7, 8})
	if Of(withList) != Of(otherList) {
		t.Errorf("nested lists should collapse: %q vs %q", Of(withList), Of(otherList))
	}
}

func TestNested(t *testing.T) {
	if got := Nested(record("a", 1)); got != "obj" {
		t.Errorf("expected obj for nested record, got %q", got)
	}
	if got := Nested([]int{1}); got != "obj" {
		t.Errorf("expected obj for nested slice, got %q", got)
	}
	if got := Nested(nil); got != "null" {
		t.Errorf("expected null for nested nil, got %q", got)
	}
	if got := Nested("x"); got != "x" {
		t.Errorf("expected strings verbatim when nested, got %q", got)
	}
}

func TestOfSlicesUseIndexNames(t *testing.T) {
	if got := Of([]any{"x", 2, nil}); got != "0x122null" {
		t.Errorf("expected 0x122null, got %q", got)
	}
	if got := Of([2]bool{true, false}); got != "0true1false" {
		t.Errorf("expected 0true1false, got %q", got)
	}
	if got := Of([]int{}); got != "" {
		t.Errorf("expected empty fingerprint for empty slice, got %q", got)
	}
}

func TestOfMapsSortKeys(t *testing.T) {
	m := map[string]any{"c": 3, "a": 1, "b": map[string]int{"z": 1}}
	for i := 0; i < 20; i++ {
		if got := Of(m); got != "a1bobjc3" {
			t.Fatalf("expected a1bobjc3, got %q", got)
		}
	}

	ints := map[int]string{10: "x", 2: "y"}
	// Keys sort by their rendered form.
	if got := Of(ints); got != "10x2y" {
		t.Errorf("expected 10x2y, got %q", got)
	}
}

func TestOfStructs(t *testing.T) {
	type inner struct{ Z int }
	type item struct {
		ID     int    `json:"id"`
		Name   string `json:"name,omitempty"`
		Skip   string `json:"-"`
		Inner  inner
		hidden int
	}

	got := Of(item{ID: 1, Name: "n", Skip: "s", Inner: inner{Z: 2}, hidden: 9})
	if got != "id1namenInnerobj" {
		t.Errorf("expected id1namenInnerobj, got %q", got)
	}
	if Of(&item{ID: 1, Name: "n"}) != Of(item{ID: 1, Name: "n", Inner: inner{Z: 5}}) {
		t.Error("pointer and value structs should fingerprint alike at the first level")
	}
}

func TestOfIsTotal(t *testing.T) {
	rec := record(
		"a", 1,
		"b", record("b1", 2),
		"c", "333",
		"e", true,
		"f", time.Now(),
		"g", Undefined,
		"h", nil,
		"i", math.NaN(),
		"j", NewTag("id"),
	)
	want := "a1bobjc333etruefobjgundefhnulliNaNjtag(id)"
	if got := Of(rec); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	// Structs with no exported fields have no entries.
	if got := Of(time.Now()); got != "" {
		t.Errorf("expected empty fingerprint for time.Time, got %q", got)
	}
}
