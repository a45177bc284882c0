package ok

func NewNil() Value            { return Value{kind: KindNil} }
func NewBool(b bool) Value     { return Value{kind: KindBool, data: b} }
func NewInt(i int64) Value     { return Value{kind: KindInt, data: i} }
func NewFloat(f float64) Value { return Value{kind: KindFloat, data: f} }
func NewString(s string) Value { return Value{kind: KindString, data: s} }
func NewArray(a []Value) Value { return Value{kind: KindArray, data: a} }
func NewHash(h map[string]Value) Value {
	if h == nil {
		h = map[string]Value{}
	}
	return Value{kind: KindHash, data: h}
}

func NewClass(c *Class) Value          { return Value{kind: KindClass, data: c} }
func NewInstance(inst *Instance) Value { return Value{kind: KindInstance, data: inst} }
func NewItems(items *Items) Value      { return Value{kind: KindItems, data: items} }
func NewHost(v any) Value              { return Value{kind: KindHost, data: &Host{V: v}} }

// NewFunc builds a Function. Keep the returned pointer to unregister it
// from a hub later.
func NewFunc(name string, fn NativeFunc) *Function {
	return &Function{Name: name, Fn: fn}
}

func NewFunction(fn *Function) Value {
	return Value{kind: KindFunction, data: fn}
}

// Method is shorthand for NewFunction(NewFunc(name, fn)).
func Method(name string, fn NativeFunc) Value {
	return NewFunction(NewFunc(name, fn))
}

// Strings builds an array of string values.
func Strings(ss ...string) Value {
	out := make([]Value, len(ss))
	for i, s := range ss {
		out[i] = NewString(s)
	}
	return NewArray(out)
}

// Ints builds an array of int values.
func Ints(is ...int) Value {
	out := make([]Value, len(is))
	for i, n := range is {
		out[i] = NewInt(int64(n))
	}
	return NewArray(out)
}
