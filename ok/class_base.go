package ok

import (
	"fmt"
	"maps"
	"slices"
)

func (f *Factory) newRoot() *Class {
	root := &Class{
		factory: f,
		name:    "Object",
		own: map[string]Value{
			"toString": Method("toString", func(call *Call, args []Value) (Value, error) {
				return NewString(call.Receiver.String()), nil
			}),
			"hasOwnProperty": Method("hasOwnProperty", func(call *Call, args []Value) (Value, error) {
				name, err := argString("hasOwnProperty", args, 0)
				if err != nil {
					return NewNil(), err
				}
				inst := call.Instance()
				return NewBool(inst != nil && inst.HasOwn(name)), nil
			}),
			memberMergeProperties: Strings(memberMergeProperties),
		},
		statics:   make(map[string]Value),
		mergeKeys: []string{memberMergeProperties},
		policies:  map[string]MergePolicy{memberMergeProperties: MergeConcat},
		ctor: NewFunc("Object", func(call *Call, args []Value) (Value, error) {
			return NewNil(), nil
		}),
	}
	root.chain = []*Class{root}
	f.register(root)
	return root
}

func (f *Factory) buildBase() (*Class, error) {
	return f.Extend(NewClass(f.object), NewHash(map[string]Value{
		memberConstructor: Method("Base", func(call *Call, args []Value) (Value, error) {
			inst := call.Instance()
			if inst == nil || !inst.Has("init") {
				return NewNil(), nil
			}
			return inst.Invoke("init", args...)
		}),
		"init": Method("init", func(call *Call, args []Value) (Value, error) {
			return NewNil(), nil
		}),
		"on":            Method("on", baseOn),
		"off":           Method("off", baseOff),
		"trigger":       Method("trigger", baseTrigger),
		"listenTo":      Method("listenTo", baseListenTo),
		"stopListening": Method("stopListening", baseStopListening),
	}))
}

func baseOn(call *Call, args []Value) (Value, error) {
	inst := call.Instance()
	if inst == nil {
		return NewNil(), fmt.Errorf("ok: on requires an instance receiver")
	}
	event, err := argString("on", args, 0)
	if err != nil {
		return NewNil(), err
	}
	fn, err := argFunction("on", args, 1)
	if err != nil {
		return NewNil(), err
	}
	if len(args) > 2 {
		inst.OnContext(event, fn, args[2])
	} else {
		inst.On(event, fn)
	}
	return NewNil(), nil
}

func baseOff(call *Call, args []Value) (Value, error) {
	inst := call.Instance()
	if inst == nil {
		return NewNil(), fmt.Errorf("ok: off requires an instance receiver")
	}
	event, err := argString("off", args, 0)
	if err != nil {
		return NewNil(), err
	}
	var fn *Function
	if len(args) > 1 {
		fn = args[1].Function()
	}
	inst.Off(event, fn)
	return NewNil(), nil
}

func baseTrigger(call *Call, args []Value) (Value, error) {
	inst := call.Instance()
	if inst == nil {
		return NewNil(), fmt.Errorf("ok: trigger requires an instance receiver")
	}
	event, err := argString("trigger", args, 0)
	if err != nil {
		return NewNil(), err
	}
	return NewNil(), inst.Trigger(event, args[1:]...)
}

func baseListenTo(call *Call, args []Value) (Value, error) {
	inst := call.Instance()
	if inst == nil {
		return NewNil(), fmt.Errorf("ok: listenTo requires an instance receiver")
	}
	if len(args) == 0 {
		return NewNil(), fmt.Errorf("ok: listenTo expects a source")
	}
	other, ok := args[0].Emitter()
	if !ok {
		return NewNil(), fmt.Errorf("ok: listenTo source must be an instance or items, got %s", args[0].Kind())
	}
	event, err := argString("listenTo", args, 1)
	if err != nil {
		return NewNil(), err
	}
	fn, err := argFunction("listenTo", args, 2)
	if err != nil {
		return NewNil(), err
	}
	if len(args) > 3 {
		inst.ListenToContext(other, event, fn, args[3])
	} else {
		inst.ListenTo(other, event, fn)
	}
	return NewNil(), nil
}

func baseStopListening(call *Call, args []Value) (Value, error) {
	inst := call.Instance()
	if inst == nil {
		return NewNil(), fmt.Errorf("ok: stopListening requires an instance receiver")
	}
	var (
		other Emitter
		event string
		fn    *Function
	)
	if len(args) > 0 && !args[0].IsNil() {
		src, ok := args[0].Emitter()
		if !ok {
			return NewNil(), fmt.Errorf("ok: stopListening source must be an instance or items, got %s", args[0].Kind())
		}
		other = src
	}
	if len(args) > 1 {
		event = args[1].String()
	}
	if len(args) > 2 {
		fn = args[2].Function()
	}
	inst.StopListening(other, event, fn)
	return NewNil(), nil
}

// Mixin builds a class from plain functions. Each function becomes a
// static that takes its subject as first argument, and a method that
// passes the receiver as that subject, so the class can be folded into
// other classes with Extend. Super calls made by a method resolve from the
// class the method was folded into.
func (f *Factory) Mixin(name string, fns map[string]*Function) (*Class, error) {
	members := make(map[string]Value, len(fns)+1)
	if name != "" {
		members[memberConstructor] = Method(name, inheritConstructor)
	}
	for _, key := range slices.Sorted(maps.Keys(fns)) {
		fn := fns[key]
		if fn == nil {
			return nil, &InvalidFragmentError{Op: "Factory.Mixin", Got: KindNil, Reason: fmt.Sprintf("mixin function %q is nil", key)}
		}
		members[key] = Method(key, func(call *Call, args []Value) (Value, error) {
			withSubject := append([]Value{call.Receiver}, args...)
			return callFunction(fn, call.Receiver, call.resolve(key), withSubject)
		})
	}
	cls, err := f.Extend(NewClass(f.base), NewHash(members))
	if err != nil {
		return nil, err
	}
	for key, fn := range fns {
		cls.statics[key] = NewFunction(fn)
	}
	return cls, nil
}

func argString(op string, args []Value, idx int) (string, error) {
	if idx >= len(args) {
		return "", fmt.Errorf("ok: %s expects argument %d", op, idx+1)
	}
	if args[idx].Kind() != KindString {
		return "", fmt.Errorf("ok: %s argument %d must be a string, got %s", op, idx+1, args[idx].Kind())
	}
	return args[idx].String(), nil
}

func argFunction(op string, args []Value, idx int) (*Function, error) {
	if idx >= len(args) {
		return nil, fmt.Errorf("ok: %s expects argument %d", op, idx+1)
	}
	fn := args[idx].Function()
	if fn == nil {
		return nil, fmt.Errorf("ok: %s argument %d must be a function, got %s", op, idx+1, args[idx].Kind())
	}
	return fn, nil
}

func argInt(op string, args []Value, idx int) (int, error) {
	if idx >= len(args) {
		return 0, fmt.Errorf("ok: %s expects argument %d", op, idx+1)
	}
	switch args[idx].Kind() {
	case KindInt, KindFloat:
		return int(args[idx].Int()), nil
	default:
		return 0, fmt.Errorf("ok: %s argument %d must be a number, got %s", op, idx+1, args[idx].Kind())
	}
}
