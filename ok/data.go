package ok

import (
	"fmt"
	"maps"
	"slices"
)

func (f *Factory) buildDataClasses() error {
	var err error
	if f.data, err = f.base.Extend(NewHash(map[string]Value{
		memberConstructor: Method("Data", inheritConstructor),
		"get": Method("get", func(call *Call, args []Value) (Value, error) {
			return NewNil(), nil
		}),
		"set": Method("set", func(call *Call, args []Value) (Value, error) {
			return NewNil(), nil
		}),
	})); err != nil {
		return fmt.Errorf("build Data: %w", err)
	}
	if f.property, err = f.data.Extend(propertyMembers()); err != nil {
		return fmt.Errorf("build Property: %w", err)
	}
	if f.mapClass, err = f.data.Extend(mapMembers(f.property)); err != nil {
		return fmt.Errorf("build Map: %w", err)
	}
	if f.collection, err = f.data.Extend(collectionMembers(f.property)); err != nil {
		return fmt.Errorf("build Collection: %w", err)
	}
	if f.controller, err = f.base.Extend(NewHash(map[string]Value{
		memberConstructor: Method("Controller", inheritConstructor),
	})); err != nil {
		return fmt.Errorf("build Controller: %w", err)
	}
	return nil
}

func self(call *Call, op string) (*Instance, error) {
	inst := call.Instance()
	if inst == nil {
		return nil, fmt.Errorf("ok: %s requires an instance receiver, got %s", op, call.Receiver.Kind())
	}
	return inst, nil
}

// handler returns the member function name of inst for use as an event
// handler.
func handler(inst *Instance, name string) (*Function, error) {
	member, ok := inst.Lookup(name)
	if !ok {
		return nil, missingMember(inst.class, name)
	}
	fn := member.Function()
	if fn == nil {
		return nil, notCallable(inst.class, name, member.Kind())
	}
	return fn, nil
}

func optionalArg(args []Value, idx int) Value {
	if idx < len(args) {
		return args[idx]
	}
	return NewNil()
}

// Property holds one value and fires change(property, new, old) whenever
// the value is replaced by one that is not Equal to it.
func propertyMembers() Value {
	return NewHash(map[string]Value{
		memberConstructor: Method("Property", func(call *Call, args []Value) (Value, error) {
			inst, err := self(call, "Property")
			if err != nil {
				return NewNil(), err
			}
			initial := inst.Get("defaultValue")
			if len(args) > 0 {
				initial = args[0]
			}
			if _, err := inst.Invoke("set", initial); err != nil {
				return NewNil(), err
			}
			return call.SuperConstructor(args...)
		}),
		"_value":       NewNil(),
		"defaultValue": NewNil(),
		"getValue": Method("getValue", func(call *Call, args []Value) (Value, error) {
			inst, err := self(call, "getValue")
			if err != nil {
				return NewNil(), err
			}
			return inst.Get("_value"), nil
		}),
		"setValue": Method("setValue", func(call *Call, args []Value) (Value, error) {
			inst, err := self(call, "setValue")
			if err != nil {
				return NewNil(), err
			}
			next := optionalArg(args, 0)
			prev := inst.Get("_value")
			if prev.Equal(next) {
				return NewNil(), nil
			}
			inst.Set("_value", next)
			return NewNil(), inst.Trigger(EventChange, inst.Value(), next, prev)
		}),
		"get": Method("get", func(call *Call, args []Value) (Value, error) {
			inst, err := self(call, "get")
			if err != nil {
				return NewNil(), err
			}
			return inst.Invoke("getValue")
		}),
		"set": Method("set", func(call *Call, args []Value) (Value, error) {
			inst, err := self(call, "set")
			if err != nil {
				return NewNil(), err
			}
			return inst.Invoke("setValue", optionalArg(args, 0))
		}),
	})
}

// Map is a set of named properties. Property changes are re-emitted on
// the map as change(property, new, old).
func mapMembers(property *Class) Value {
	return NewHash(map[string]Value{
		memberConstructor: Method("Map", func(call *Call, args []Value) (Value, error) {
			inst, err := self(call, "Map")
			if err != nil {
				return NewNil(), err
			}
			if _, err := call.SuperConstructor(args...); err != nil {
				return NewNil(), err
			}
			if !inst.HasOwn("properties") {
				inst.Set("properties", NewHash(nil))
			}
			defaults, err := inst.Invoke("getDefaults")
			if err != nil {
				return NewNil(), err
			}
			if defaults.Kind() == KindHash {
				if _, err := inst.Invoke("initProperties", defaults); err != nil {
					return NewNil(), err
				}
			}
			if first := optionalArg(args, 0); first.Kind() == KindHash {
				if _, err := inst.Invoke("setMap", first); err != nil {
					return NewNil(), err
				}
			}
			return NewNil(), nil
		}),
		"properties":         NewNil(),
		"schema":             NewNil(),
		"defaults":           NewNil(),
		"defaultConstructor": NewClass(property),
		"getDefaults": Method("getDefaults", func(call *Call, args []Value) (Value, error) {
			inst, err := self(call, "getDefaults")
			if err != nil {
				return NewNil(), err
			}
			defaults, _ := inst.class.Member("defaults")
			if fn := defaults.Function(); fn != nil {
				return callFunction(fn, inst.Value(), levelUnresolved, nil)
			}
			return defaults, nil
		}),
		"initProperties": Method("initProperties", func(call *Call, args []Value) (Value, error) {
			inst, err := self(call, "initProperties")
			if err != nil {
				return NewNil(), err
			}
			props := optionalArg(args, 0).Hash()
			for _, name := range slices.Sorted(maps.Keys(props)) {
				if _, err := inst.Invoke("initProperty", NewString(name), props[name]); err != nil {
					return NewNil(), err
				}
			}
			return NewNil(), nil
		}),
		"initProperty": Method("initProperty", func(call *Call, args []Value) (Value, error) {
			inst, err := self(call, "initProperty")
			if err != nil {
				return NewNil(), err
			}
			name, err := argString("initProperty", args, 0)
			if err != nil {
				return NewNil(), err
			}
			prop, err := inst.Invoke("getProperty", NewString(name))
			if err != nil {
				return NewNil(), err
			}
			if prop.IsNil() {
				ctor, err := inst.Invoke("getConstructor", NewString(name), optionalArg(args, 1))
				if err != nil {
					return NewNil(), err
				}
				cls := ctor.Class()
				if cls == nil {
					return NewNil(), fmt.Errorf("ok: property %q constructor must be a class, got %s", name, ctor.Kind())
				}
				created, err := cls.New()
				if err != nil {
					return NewNil(), fmt.Errorf("ok: create property %q: %w", name, err)
				}
				if prop, err = inst.Invoke("setProperty", NewString(name), created.Value()); err != nil {
					return NewNil(), err
				}
				change, err := handler(inst, "change")
				if err != nil {
					return NewNil(), err
				}
				inst.ListenTo(created, EventChange, change)
			}
			if len(args) > 1 {
				target := prop.Instance()
				if target == nil {
					return NewNil(), fmt.Errorf("ok: property %q is a %s, not an instance", name, prop.Kind())
				}
				if _, err := target.Invoke("set", args[1]); err != nil {
					return NewNil(), err
				}
			}
			return prop, nil
		}),
		"change": Method("change", func(call *Call, args []Value) (Value, error) {
			inst, err := self(call, "change")
			if err != nil {
				return NewNil(), err
			}
			return NewNil(), inst.Trigger(EventChange, optionalArg(args, 0), optionalArg(args, 1), optionalArg(args, 2))
		}),
		"getConstructor": Method("getConstructor", func(call *Call, args []Value) (Value, error) {
			inst, err := self(call, "getConstructor")
			if err != nil {
				return NewNil(), err
			}
			if schema := inst.Get("schema").Hash(); schema != nil {
				if cls, ok := schema[optionalArg(args, 0).String()]; ok && !cls.IsNil() {
					return cls, nil
				}
			}
			return inst.Get("defaultConstructor"), nil
		}),
		"get": Method("get", func(call *Call, args []Value) (Value, error) {
			inst, err := self(call, "get")
			if err != nil {
				return NewNil(), err
			}
			switch len(args) {
			case 0:
				return inst.Invoke("getMap")
			case 1:
				return inst.Invoke("getValue", args[0])
			default:
				return inst.Invoke("getValues", args...)
			}
		}),
		"getMap": Method("getMap", func(call *Call, args []Value) (Value, error) {
			inst, err := self(call, "getMap")
			if err != nil {
				return NewNil(), err
			}
			out := make(map[string]Value)
			for name, prop := range inst.Get("properties").Hash() {
				v, err := invokeOn(prop, "get")
				if err != nil {
					return NewNil(), err
				}
				out[name] = v
			}
			return NewHash(out), nil
		}),
		"getValue": Method("getValue", func(call *Call, args []Value) (Value, error) {
			inst, err := self(call, "getValue")
			if err != nil {
				return NewNil(), err
			}
			prop, err := inst.Invoke("getProperty", optionalArg(args, 0))
			if err != nil || prop.IsNil() {
				return NewNil(), err
			}
			return invokeOn(prop, "get")
		}),
		"getValues": Method("getValues", func(call *Call, args []Value) (Value, error) {
			inst, err := self(call, "getValues")
			if err != nil {
				return NewNil(), err
			}
			out := make([]Value, 0, len(args))
			for _, name := range args {
				v, err := inst.Invoke("getValue", name)
				if err != nil {
					return NewNil(), err
				}
				out = append(out, v)
			}
			return NewArray(out), nil
		}),
		"getProperty": Method("getProperty", func(call *Call, args []Value) (Value, error) {
			inst, err := self(call, "getProperty")
			if err != nil {
				return NewNil(), err
			}
			prop, ok := inst.Get("properties").Hash()[optionalArg(args, 0).String()]
			if !ok {
				return NewNil(), nil
			}
			return prop, nil
		}),
		"property": Method("property", func(call *Call, args []Value) (Value, error) {
			inst, err := self(call, "property")
			if err != nil {
				return NewNil(), err
			}
			return inst.Invoke("getProperty", args...)
		}),
		"setProperty": Method("setProperty", func(call *Call, args []Value) (Value, error) {
			inst, err := self(call, "setProperty")
			if err != nil {
				return NewNil(), err
			}
			name, err := argString("setProperty", args, 0)
			if err != nil {
				return NewNil(), err
			}
			props := inst.Get("properties").Hash()
			if props == nil {
				props = make(map[string]Value)
				inst.Set("properties", NewHash(props))
			}
			props[name] = optionalArg(args, 1)
			return props[name], nil
		}),
		"set": Method("set", func(call *Call, args []Value) (Value, error) {
			inst, err := self(call, "set")
			if err != nil {
				return NewNil(), err
			}
			if len(args) > 1 {
				return inst.Invoke("setValue", args[0], args[1])
			}
			return inst.Invoke("setMap", optionalArg(args, 0))
		}),
		"setMap": Method("setMap", func(call *Call, args []Value) (Value, error) {
			inst, err := self(call, "setMap")
			if err != nil {
				return NewNil(), err
			}
			attrs := optionalArg(args, 0).Hash()
			for _, name := range slices.Sorted(maps.Keys(attrs)) {
				if _, err := inst.Invoke("setValue", NewString(name), attrs[name]); err != nil {
					return NewNil(), err
				}
			}
			return NewNil(), nil
		}),
		"setValue": Method("setValue", func(call *Call, args []Value) (Value, error) {
			inst, err := self(call, "setValue")
			if err != nil {
				return NewNil(), err
			}
			name := optionalArg(args, 0)
			value := optionalArg(args, 1)
			prop, err := inst.Invoke("getProperty", name)
			if err != nil {
				return NewNil(), err
			}
			if prop.IsNil() {
				return inst.Invoke("initProperty", name, value)
			}
			return invokeOn(prop, "set", value)
		}),
		"destroy": Method("destroy", func(call *Call, args []Value) (Value, error) {
			inst, err := self(call, "destroy")
			if err != nil {
				return NewNil(), err
			}
			for _, prop := range inst.Get("properties").Hash() {
				if src, ok := prop.Emitter(); ok {
					inst.StopListening(src, EventChange, nil)
				}
			}
			return NewNil(), nil
		}),
	})
}

func invokeOn(target Value, name string, args ...Value) (Value, error) {
	inst := target.Instance()
	if inst == nil {
		return NewNil(), fmt.Errorf("ok: cannot invoke %s on %s", name, target.Kind())
	}
	return inst.Invoke(name, args...)
}
