package ok

func (v Value) Kind() ValueKind { return v.kind }

func (v Value) IsNil() bool { return v.kind == KindNil }

func (v Value) Bool() bool {
	if v.kind == KindBool {
		return v.data.(bool)
	}
	return false
}

func (v Value) Int() int64 {
	switch v.kind {
	case KindInt:
		return v.data.(int64)
	case KindFloat:
		return int64(v.data.(float64))
	default:
		return 0
	}
}

func (v Value) Float() float64 {
	switch v.kind {
	case KindFloat:
		return v.data.(float64)
	case KindInt:
		return float64(v.data.(int64))
	default:
		return 0
	}
}

func (v Value) Array() []Value {
	if v.kind != KindArray {
		return nil
	}
	return v.data.([]Value)
}

func (v Value) Hash() map[string]Value {
	if v.kind != KindHash {
		return nil
	}
	return v.data.(map[string]Value)
}

func (v Value) Function() *Function {
	if v.kind != KindFunction {
		return nil
	}
	return v.data.(*Function)
}

func (v Value) Class() *Class {
	if v.kind != KindClass {
		return nil
	}
	return v.data.(*Class)
}

func (v Value) Instance() *Instance {
	if v.kind != KindInstance {
		return nil
	}
	return v.data.(*Instance)
}

func (v Value) Items() *Items {
	if v.kind != KindItems {
		return nil
	}
	return v.data.(*Items)
}

func (v Value) Host() any {
	if v.kind != KindHost {
		return nil
	}
	return v.data.(*Host).V
}

// Elements returns the elements of an array or a sequence, and nil for any
// other kind.
func (v Value) Elements() []Value {
	switch v.kind {
	case KindArray:
		return v.data.([]Value)
	case KindItems:
		return v.data.(*Items).elems
	default:
		return nil
	}
}

// Emitter returns the event hub behind an instance or sequence value.
func (v Value) Emitter() (Emitter, bool) {
	switch v.kind {
	case KindInstance:
		return v.data.(*Instance), true
	case KindItems:
		return v.data.(*Items), true
	default:
		return nil, false
	}
}
