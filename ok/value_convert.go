package ok

import (
	"fmt"
	"math"
)

// FromGo converts plain Go data, as produced by YAML or JSON decoders, into
// a Value. Values and framework pointers pass through unchanged.
func FromGo(val any) (Value, error) {
	switch v := val.(type) {
	case nil:
		return NewNil(), nil
	case Value:
		return v, nil
	case bool:
		return NewBool(v), nil
	case string:
		return NewString(v), nil
	case int:
		return NewInt(int64(v)), nil
	case int32:
		return NewInt(int64(v)), nil
	case int64:
		return NewInt(v), nil
	case uint:
		return fromUint(uint64(v))
	case uint64:
		return fromUint(v)
	case float32:
		return NewFloat(float64(v)), nil
	case float64:
		return NewFloat(v), nil
	case []string:
		return Strings(v...), nil
	case []Value:
		return NewArray(v), nil
	case []any:
		arr := make([]Value, len(v))
		for i, item := range v {
			converted, err := FromGo(item)
			if err != nil {
				return NewNil(), err
			}
			arr[i] = converted
		}
		return NewArray(arr), nil
	case map[string]Value:
		return NewHash(v), nil
	case map[string]any:
		obj := make(map[string]Value, len(v))
		for key, item := range v {
			converted, err := FromGo(item)
			if err != nil {
				return NewNil(), err
			}
			obj[key] = converted
		}
		return NewHash(obj), nil
	case *Function:
		return NewFunction(v), nil
	case *Class:
		return NewClass(v), nil
	case *Instance:
		return NewInstance(v), nil
	case *Items:
		return NewItems(v), nil
	default:
		return NewNil(), fmt.Errorf("ok: unsupported value type %T", val)
	}
}

func fromUint(v uint64) (Value, error) {
	if v > math.MaxInt64 {
		return NewNil(), fmt.Errorf("ok: integer %d overflows int64", v)
	}
	return NewInt(int64(v)), nil
}

// ToGo converts a Value back into plain Go data. Functions, classes,
// instances and hosts are returned as their Go pointers.
func ToGo(val Value) any {
	switch val.Kind() {
	case KindNil:
		return nil
	case KindBool:
		return val.Bool()
	case KindInt:
		return val.Int()
	case KindFloat:
		return val.Float()
	case KindString:
		return val.String()
	case KindArray, KindItems:
		elems := val.Elements()
		out := make([]any, len(elems))
		for i, item := range elems {
			out[i] = ToGo(item)
		}
		return out
	case KindHash:
		h := val.Hash()
		out := make(map[string]any, len(h))
		for k, item := range h {
			out[k] = ToGo(item)
		}
		return out
	case KindFunction:
		return val.Function()
	case KindClass:
		return val.Class()
	case KindInstance:
		return val.Instance()
	case KindHost:
		return val.Host()
	default:
		return nil
	}
}
