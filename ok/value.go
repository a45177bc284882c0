package ok

type ValueKind int

const (
	KindNil ValueKind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
	KindHash
	KindFunction
	KindClass
	KindInstance
	KindItems
	KindHost
)

// Value is the dynamic value carried by members, fields, event arguments
// and sequence elements.
type Value struct {
	kind ValueKind
	data any
}

// NativeFunc is the Go implementation behind a Function. The call carries
// the receiver and the super-call cursor for this invocation.
type NativeFunc func(call *Call, args []Value) (Value, error)

// Function is a named callable. Functions are compared by pointer, which
// is what Off and StopListening use to find registrations.
type Function struct {
	Name string
	Fn   NativeFunc
}

// Host wraps an opaque Go value, such as a rendered element, so it can be
// stored in instance fields.
type Host struct {
	V any
}
