package ok

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

func (k ValueKind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindHash:
		return "hash"
	case KindFunction:
		return "function"
	case KindClass:
		return "class"
	case KindInstance:
		return "instance"
	case KindItems:
		return "items"
	case KindHost:
		return "host"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.data.(string)
	case KindNil:
		return ""
	case KindBool:
		if v.Bool() {
			return "true"
		}
		return "false"
	case KindInt:
		return fmt.Sprintf("%d", v.data.(int64))
	case KindFloat:
		return fmt.Sprintf("%g", v.data.(float64))
	case KindArray:
		return joinValues(v.data.([]Value))
	case KindItems:
		return joinValues(v.data.(*Items).elems)
	case KindHash:
		entries := v.data.(map[string]Value)
		if len(entries) == 0 {
			return "{}"
		}
		keys := make([]string, 0, len(entries))
		for k := range entries {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%s: %s", k, entries[k].String())
		}
		return fmt.Sprintf("{%s}", strings.Join(parts, ", "))
	case KindFunction:
		fn := v.data.(*Function)
		if fn.Name == "" {
			return "<function>"
		}
		return fmt.Sprintf("<function %s>", fn.Name)
	case KindClass:
		return fmt.Sprintf("<class %s>", v.data.(*Class).Name())
	case KindInstance:
		return fmt.Sprintf("<%s instance>", v.data.(*Instance).class.Name())
	case KindHost:
		return fmt.Sprintf("<host %T>", v.data.(*Host).V)
	default:
		return fmt.Sprintf("<%v>", v.kind)
	}
}

func joinValues(elems []Value) string {
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = e.String()
	}
	return fmt.Sprintf("[%s]", strings.Join(parts, ", "))
}

func (v Value) Truthy() bool {
	switch v.kind {
	case KindNil:
		return false
	case KindBool:
		return v.Bool()
	case KindInt:
		return v.data.(int64) != 0
	case KindFloat:
		return v.data.(float64) != 0
	case KindString:
		return v.data.(string) != ""
	default:
		return true
	}
}

// Equal reports whether two values are equal. Scalars compare by value,
// arrays and hashes element-wise, everything else by identity.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		if isNumeric(v) && isNumeric(other) {
			return v.Float() == other.Float()
		}
		return false
	}
	switch v.kind {
	case KindNil:
		return true
	case KindBool:
		return v.Bool() == other.Bool()
	case KindInt:
		return v.data.(int64) == other.data.(int64)
	case KindFloat:
		return v.data.(float64) == other.data.(float64)
	case KindString:
		return v.data.(string) == other.data.(string)
	case KindArray:
		return slices.EqualFunc(v.Array(), other.Array(), Value.Equal)
	case KindHash:
		left, right := v.Hash(), other.Hash()
		if len(left) != len(right) {
			return false
		}
		for k, lv := range left {
			rv, ok := right[k]
			if !ok || !lv.Equal(rv) {
				return false
			}
		}
		return true
	case KindFunction:
		return v.data.(*Function) == other.data.(*Function)
	case KindClass:
		return v.data.(*Class) == other.data.(*Class)
	case KindInstance:
		return v.data.(*Instance) == other.data.(*Instance)
	case KindItems:
		return v.data.(*Items) == other.data.(*Items)
	case KindHost:
		return v.data.(*Host) == other.data.(*Host)
	default:
		return false
	}
}

func isNumeric(v Value) bool {
	return v.kind == KindInt || v.kind == KindFloat
}

// Compare is the natural ordering used when a sequence is sorted without a
// comparator. Numbers compare numerically, strings and booleans
// lexically, nil sorts last, and mixed kinds fall back to comparing their
// string forms.
func Compare(left, right Value) int {
	switch {
	case left.kind == KindNil && right.kind == KindNil:
		return 0
	case left.kind == KindNil:
		return 1
	case right.kind == KindNil:
		return -1
	case left.kind == KindInt && right.kind == KindInt:
		return cmp.Compare(left.Int(), right.Int())
	case isNumeric(left) && isNumeric(right):
		return cmp.Compare(left.Float(), right.Float())
	case left.kind == KindBool && right.kind == KindBool:
		switch {
		case left.Bool() == right.Bool():
			return 0
		case !left.Bool():
			return -1
		default:
			return 1
		}
	default:
		return strings.Compare(left.String(), right.String())
	}
}
