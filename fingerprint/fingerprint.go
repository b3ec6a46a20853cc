// Package fingerprint derives a short, shape-describing string from an
// arbitrary Go value.
//
// Fingerprints are shallow. Of walks the direct entries of a composite
// (slice, array, map, struct or *orderedmap.OrderedMap) and renders each
// member with Nested, which never walks: any composite found below the
// first level collapses to the token "obj". Two values that differ only
// in nested structure share a fingerprint:
//
//	Of(map[string]any{"a": 1, "b": map[string]any{"b1": 2}}) == "a1bobj"
//	Of(map[string]any{"a": 1, "b": map[string]any{"b2": 9}}) == "a1bobj"
//
// This is the intended contract, not a missing deep-equality check.
//
// Entry order is fixed per composite kind: insertion order for ordered
// maps, index order for slices and arrays, declaration order for exported
// struct fields, and ascending rendered-key order for Go maps.
package fingerprint

import (
	"math"
	"reflect"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"github.com/elliotchance/orderedmap/v2"
)

const (
	undefToken  = "undef"
	nullToken   = "null"
	nestedToken = "obj"
	callSuffix  = "()"
)

// Record is the insertion-ordered mapping recognised as a composite.
type Record = orderedmap.OrderedMap[string, any]

// NewRecord returns an empty Record.
func NewRecord() *Record {
	return orderedmap.NewOrderedMap[string, any]()
}

type absent struct{}

// Undefined marks an absent value. It is distinct from nil, which
// fingerprints as "null".
var Undefined any = absent{}

// Of returns the top-level fingerprint of v. It never fails.
func Of(v any) string {
	if s, ok := leaf(v); ok {
		return s
	}
	var b strings.Builder
	entries(v, func(name string, member any) {
		b.WriteString(name)
		b.WriteString(Nested(member))
	})
	return b.String()
}

// Nested returns the fingerprint of v as a member of a composite.
// Composites yield "obj" regardless of their contents.
func Nested(v any) string {
	if s, ok := leaf(v); ok {
		return s
	}
	return nestedToken
}

// leaf renders non-composite values. ok is false for composites.
func leaf(v any) (s string, ok bool) {
	switch x := v.(type) {
	case nil:
		return nullToken, true
	case absent:
		return undefToken, true
	case string:
		return x, true
	case bool:
		return strconv.FormatBool(x), true
	case float64:
		return formatFloat(x, 64), true
	case int:
		return strconv.Itoa(x), true
	case *Tag:
		if x == nil {
			return nullToken, true
		}
		return x.String(), true
	case *Record:
		if x == nil {
			return nullToken, true
		}
		return "", false
	}
	return leafValue(reflect.ValueOf(v))
}

func leafValue(rv reflect.Value) (string, bool) {
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nullToken, true
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.String:
		return rv.String(), true
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10), true
	case reflect.Float32:
		return formatFloat(rv.Float(), 32), true
	case reflect.Float64:
		return formatFloat(rv.Float(), 64), true
	case reflect.Complex64:
		return strconv.FormatComplex(rv.Complex(), 'g', -1, 64), true
	case reflect.Complex128:
		return strconv.FormatComplex(rv.Complex(), 'g', -1, 128), true
	case reflect.Func:
		if rv.IsNil() {
			return nullToken, true
		}
		return funcName(rv) + callSuffix, true
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		return "", false
	default:
		// chan, unsafe.Pointer: the type is the only stable shape.
		return rv.Type().String(), true
	}
}

// entries calls fn for each direct entry of the composite v.
func entries(v any, fn func(name string, member any)) {
	if rec, ok := v.(*Record); ok {
		for el := rec.Front(); el != nil; el = el.Next() {
			fn(el.Key, el.Value)
		}
		return
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			fn(strconv.Itoa(i), rv.Index(i).Interface())
		}
	case reflect.Map:
		mapEntries(rv, fn)
	case reflect.Struct:
		t := rv.Type()
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			name := fieldName(f)
			if name == "-" {
				continue
			}
			fn(name, rv.Field(i).Interface())
		}
	}
}

type mapEntry struct {
	name   string
	member any
	shape  string
}

func mapEntries(rv reflect.Value, fn func(name string, member any)) {
	list := make([]mapEntry, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		member := iter.Value().Interface()
		list = append(list, mapEntry{
			name:   Nested(iter.Key().Interface()),
			member: member,
			shape:  Nested(member),
		})
	}
	// Keys that render alike are ordered by their member's shape so the
	// result does not depend on map iteration order.
	sort.Slice(list, func(i, j int) bool {
		if list[i].name != list[j].name {
			return list[i].name < list[j].name
		}
		return list[i].shape < list[j].shape
	})
	for _, e := range list {
		fn(e.name, e.member)
	}
}

func fieldName(f reflect.StructField) string {
	tag, ok := f.Tag.Lookup("json")
	if !ok {
		return f.Name
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return f.Name
	}
	return name
}

// funcName returns the declared short name of a function, or "" for
// closures and function literals at any nesting depth.
func funcName(rv reflect.Value) string {
	fn := runtime.FuncForPC(rv.Pointer())
	if fn == nil {
		return ""
	}
	name := stripTypeArgs(fn.Name())
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	// Dots in the last import path element are escaped, so the first dot
	// ends the package name.
	if i := strings.IndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	segments := strings.Split(strings.TrimSuffix(name, "-fm"), ".")
	for _, seg := range segments {
		if isClosureName(seg) {
			return ""
		}
	}
	last := segments[len(segments)-1]
	if isDigits(last) {
		return ""
	}
	return last
}

// stripTypeArgs removes every bracketed type-argument group, so
// "pkg.(*box[...]).Get" becomes "pkg.(*box).Get".
func stripTypeArgs(name string) string {
	if strings.IndexByte(name, '[') < 0 {
		return name
	}
	var b strings.Builder
	depth := 0
	for _, r := range name {
		switch {
		case r == '[':
			depth++
		case r == ']' && depth > 0:
			depth--
		case depth == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isClosureName(name string) bool {
	digits := strings.TrimPrefix(name, "func")
	return digits != name && isDigits(digits)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// formatFloat renders f as the shortest decimal that round-trips, with
// fixed tokens for the special values.
func formatFloat(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	if abs := math.Abs(f); abs >= 1e21 || abs < 1e-6 {
		return trimExponent(strconv.FormatFloat(f, 'e', -1, bits))
	}
	return strconv.FormatFloat(f, 'f', -1, bits)
}

// trimExponent drops the zero padding Go puts on exponents, so "1e-07"
// becomes "1e-7".
func trimExponent(s string) string {
	i := strings.IndexByte(s, 'e')
	if i < 0 || i+2 >= len(s) {
		return s
	}
	mant, sign, exp := s[:i+1], s[i+1:i+2], strings.TrimLeft(s[i+2:], "0")
	if exp == "" {
		exp = "0"
	}
	return mant + sign + exp
}
