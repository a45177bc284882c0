package ok

import "fmt"

// collectionItems returns the backing sequence of a collection instance.
func collectionItems(inst *Instance) (*Items, error) {
	items := inst.Get("items").Items()
	if items == nil {
		return nil, fmt.Errorf("ok: %s has no items sequence", inst.class.Name())
	}
	return items, nil
}

// listenToItems wires the named handler members of inst to event on items.
func listenToItems(inst *Instance, items *Items, event string, names ...string) error {
	for _, name := range names {
		fn, err := handler(inst, name)
		if err != nil {
			return err
		}
		inst.ListenTo(items, event, fn)
	}
	return nil
}

// compareWith adapts the comparator member of inst to a Comparator. The
// first comparator error is stored in errp.
func compareWith(inst *Instance, errp *error) Comparator {
	return func(a, b Value) int {
		if *errp != nil {
			return 0
		}
		out, err := inst.Invoke("comparator", a, b)
		if err != nil {
			*errp = err
			return 0
		}
		return int(out.Int())
	}
}

// Collection keeps its elements in an internal Items sequence, re-emits
// its add, remove and sort events and forwards change events of the
// elements it holds. Raw values are wrapped with defaultConstructor.
func collectionMembers(property *Class) Value {
	forward := func(event string, arity int) NativeFunc {
		return func(call *Call, args []Value) (Value, error) {
			inst, err := self(call, event)
			if err != nil {
				return NewNil(), err
			}
			out := make([]Value, arity)
			for i := range out {
				out[i] = optionalArg(args, i)
			}
			return NewNil(), inst.Trigger(event, out...)
		}
	}
	return NewHash(map[string]Value{
		memberConstructor: Method("Collection", func(call *Call, args []Value) (Value, error) {
			inst, err := self(call, "Collection")
			if err != nil {
				return NewNil(), err
			}
			inst.Set("items", NewItems(NewSequence()))
			inst.Set("length", NewInt(0))
			if _, err := inst.Invoke("start"); err != nil {
				return NewNil(), err
			}
			if first := optionalArg(args, 0); !first.IsNil() {
				if _, err := inst.Invoke("add", first); err != nil {
					return NewNil(), err
				}
			}
			return inst.Invoke("init")
		}),
		"items":              NewNil(),
		"length":             NewInt(0),
		"defaultConstructor": NewClass(property),
		"start": Method("start", func(call *Call, args []Value) (Value, error) {
			inst, err := self(call, "start")
			if err != nil {
				return NewNil(), err
			}
			if _, err := inst.Invoke("stop"); err != nil {
				return NewNil(), err
			}
			items, err := collectionItems(inst)
			if err != nil {
				return NewNil(), err
			}
			if err := listenToItems(inst, items, EventAdd, "triggerAdd", "updateLength", "watchItem"); err != nil {
				return NewNil(), err
			}
			if err := listenToItems(inst, items, EventRemove, "triggerRemove", "updateLength", "unwatchItem"); err != nil {
				return NewNil(), err
			}
			return NewNil(), listenToItems(inst, items, EventSort, "triggerSort")
		}),
		"stop": Method("stop", func(call *Call, args []Value) (Value, error) {
			inst, err := self(call, "stop")
			if err != nil {
				return NewNil(), err
			}
			if items := inst.Get("items").Items(); items != nil {
				inst.StopListening(items, "", nil)
			}
			return NewNil(), nil
		}),
		"triggerAdd":    Method("triggerAdd", forward(EventAdd, 2)),
		"triggerRemove": Method("triggerRemove", forward(EventRemove, 1)),
		"triggerSort":   Method("triggerSort", forward(EventSort, 1)),
		"triggerChange": Method("triggerChange", forward(EventChange, 3)),
		"updateLength": Method("updateLength", func(call *Call, args []Value) (Value, error) {
			inst, err := self(call, "updateLength")
			if err != nil {
				return NewNil(), err
			}
			items, err := collectionItems(inst)
			if err != nil {
				return NewNil(), err
			}
			inst.Set("length", NewInt(int64(items.Len())))
			return NewNil(), nil
		}),
		"watchItem": Method("watchItem", func(call *Call, args []Value) (Value, error) {
			inst, err := self(call, "watchItem")
			if err != nil {
				return NewNil(), err
			}
			src, ok := optionalArg(args, 0).Emitter()
			if !ok {
				return NewNil(), nil
			}
			fn, err := handler(inst, "triggerChange")
			if err != nil {
				return NewNil(), err
			}
			inst.ListenTo(src, EventChange, fn)
			return NewNil(), nil
		}),
		"unwatchItem": Method("unwatchItem", func(call *Call, args []Value) (Value, error) {
			inst, err := self(call, "unwatchItem")
			if err != nil {
				return NewNil(), err
			}
			src, ok := optionalArg(args, 0).Emitter()
			if !ok {
				return NewNil(), nil
			}
			fn, err := handler(inst, "triggerChange")
			if err != nil {
				return NewNil(), err
			}
			inst.StopListening(src, EventChange, fn)
			return NewNil(), nil
		}),
		"add": Method("add", func(call *Call, args []Value) (Value, error) {
			inst, err := self(call, "add")
			if err != nil {
				return NewNil(), err
			}
			batch := []Value{optionalArg(args, 0)}
			if elems := batch[0].Elements(); batch[0].Kind() == KindArray || batch[0].Kind() == KindItems {
				batch = elems
			}
			for _, item := range batch {
				if _, err := inst.Invoke("addItem", item); err != nil {
					return NewNil(), err
				}
			}
			return NewNil(), nil
		}),
		"addItem": Method("addItem", func(call *Call, args []Value) (Value, error) {
			inst, err := self(call, "addItem")
			if err != nil {
				return NewNil(), err
			}
			items, err := collectionItems(inst)
			if err != nil {
				return NewNil(), err
			}
			raw := optionalArg(args, 0)
			item := raw
			wrapped := false
			if existing := raw.Instance(); existing == nil || !existing.IsA(inst.class.factory.base) {
				ctor, err := inst.Invoke("getConstructor", raw)
				if err != nil {
					return NewNil(), err
				}
				cls := ctor.Class()
				if cls == nil {
					return NewNil(), fmt.Errorf("ok: collection item constructor must be a class, got %s", ctor.Kind())
				}
				created, err := cls.New(raw)
				if err != nil {
					return NewNil(), fmt.Errorf("ok: wrap collection item: %w", err)
				}
				item, wrapped = created.Value(), true
			}
			identified, err := inst.Invoke("identify", item)
			if err != nil {
				return NewNil(), err
			}
			if !identified.IsNil() {
				if wrapped {
					return invokeOn(identified, "set", raw)
				}
				return NewNil(), nil
			}
			after, err := inst.Invoke("findInsertIndex", item)
			if err != nil {
				return NewNil(), err
			}
			_, err = items.Insert(int(after.Int())+1, item)
			return item, err
		}),
		// findInsertIndex returns the index of the element to insert after,
		// or -1 for the front. The item goes after every element that does
		// not sort after it, so equal elements keep insertion order.
		"findInsertIndex": Method("findInsertIndex", func(call *Call, args []Value) (Value, error) {
			inst, err := self(call, "findInsertIndex")
			if err != nil {
				return NewNil(), err
			}
			items, err := collectionItems(inst)
			if err != nil {
				return NewNil(), err
			}
			item := optionalArg(args, 0)
			var cmpErr error
			cmp := compareWith(inst, &cmpErr)
			index := -1
			for i := items.Len() - 1; i >= 0; i-- {
				if cmp(items.At(i), item) <= 0 {
					index = i
					break
				}
			}
			if cmpErr != nil {
				return NewNil(), cmpErr
			}
			return NewInt(int64(index)), nil
		}),
		"getConstructor": Method("getConstructor", func(call *Call, args []Value) (Value, error) {
			inst, err := self(call, "getConstructor")
			if err != nil {
				return NewNil(), err
			}
			return inst.Get("defaultConstructor"), nil
		}),
		"remove": Method("remove", func(call *Call, args []Value) (Value, error) {
			inst, err := self(call, "remove")
			if err != nil {
				return NewNil(), err
			}
			items, err := collectionItems(inst)
			if err != nil {
				return NewNil(), err
			}
			target := optionalArg(args, 0)
			removed := 0
			for i := 0; i < items.Len(); {
				if !items.At(i).Equal(target) {
					i++
					continue
				}
				if _, err := items.Remove(i, 1); err != nil {
					return NewInt(int64(removed)), err
				}
				removed++
			}
			return NewInt(int64(removed)), nil
		}),
		"empty": Method("empty", func(call *Call, args []Value) (Value, error) {
			inst, err := self(call, "empty")
			if err != nil {
				return NewNil(), err
			}
			items, err := collectionItems(inst)
			if err != nil {
				return NewNil(), err
			}
			removed, err := items.Empty()
			return NewArray(removed), err
		}),
		"set": Method("set", func(call *Call, args []Value) (Value, error) {
			inst, err := self(call, "set")
			if err != nil {
				return NewNil(), err
			}
			if _, err := inst.Invoke("empty"); err != nil {
				return NewNil(), err
			}
			if next := optionalArg(args, 0); !next.IsNil() {
				return inst.Invoke("add", next)
			}
			return NewNil(), nil
		}),
		"get": Method("get", func(call *Call, args []Value) (Value, error) {
			inst, err := self(call, "get")
			if err != nil {
				return NewNil(), err
			}
			items, err := collectionItems(inst)
			if err != nil {
				return NewNil(), err
			}
			out := make([]Value, 0, items.Len())
			for _, item := range items.All() {
				v, err := invokeOn(item, "get")
				if err != nil {
					return NewNil(), err
				}
				out = append(out, v)
			}
			return NewArray(out), nil
		}),
		"identify": Method("identify", func(call *Call, args []Value) (Value, error) {
			inst, err := self(call, "identify")
			if err != nil {
				return NewNil(), err
			}
			items, err := collectionItems(inst)
			if err != nil {
				return NewNil(), err
			}
			if i := items.IndexOf(optionalArg(args, 0)); i >= 0 {
				return items.At(i), nil
			}
			return NewNil(), nil
		}),
		"each": Method("each", func(call *Call, args []Value) (Value, error) {
			inst, err := self(call, "each")
			if err != nil {
				return NewNil(), err
			}
			items, err := collectionItems(inst)
			if err != nil {
				return NewNil(), err
			}
			fn, err := argFunction("each", args, 0)
			if err != nil {
				return NewNil(), err
			}
			receiver := inst.Value()
			if len(args) > 1 {
				receiver = args[1]
			}
			for i, item := range items.All() {
				if _, err := callFunction(fn, receiver, levelUnresolved, []Value{item, NewInt(int64(i))}); err != nil {
					return NewNil(), err
				}
			}
			return NewNil(), nil
		}),
		"comparator": Method("comparator", func(call *Call, args []Value) (Value, error) {
			return NewInt(0), nil
		}),
		"sort": Method("sort", func(call *Call, args []Value) (Value, error) {
			inst, err := self(call, "sort")
			if err != nil {
				return NewNil(), err
			}
			items, err := collectionItems(inst)
			if err != nil {
				return NewNil(), err
			}
			if fn := optionalArg(args, 0).Function(); fn != nil {
				inst.Set("comparator", NewFunction(fn))
			}
			var cmpErr error
			if _, err := items.Sort(compareWith(inst, &cmpErr)); err != nil {
				return NewNil(), err
			}
			return NewNil(), cmpErr
		}),
		"at": Method("at", func(call *Call, args []Value) (Value, error) {
			inst, err := self(call, "at")
			if err != nil {
				return NewNil(), err
			}
			items, err := collectionItems(inst)
			if err != nil {
				return NewNil(), err
			}
			index, err := argInt("at", args, 0)
			if err != nil {
				return NewNil(), err
			}
			return items.At(index), nil
		}),
	})
}
