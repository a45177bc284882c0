package ok

import (
	"maps"
	"slices"
)

// Instance is an object built by Class.New. Its class never changes.
type Instance struct {
	*Hub
	class  *Class
	fields map[string]Value
}

// New creates an instance and runs the class constructor with args.
func (c *Class) New(args ...Value) (*Instance, error) {
	inst := &Instance{class: c, fields: make(map[string]Value)}
	inst.Hub = newHub(NewInstance(inst))
	if _, err := callFunction(c.ctor, NewInstance(inst), 0, args); err != nil {
		return nil, err
	}
	return inst, nil
}

// MustNew is New that panics on error.
func (c *Class) MustNew(args ...Value) *Instance {
	inst, err := c.New(args...)
	if err != nil {
		panic(err)
	}
	return inst
}

func (i *Instance) Class() *Class { return i.class }
func (i *Instance) Value() Value  { return NewInstance(i) }

// IsA reports whether the instance's class is c or descends from it.
func (i *Instance) IsA(c *Class) bool {
	return i.class.Inherits(c)
}

// Lookup resolves name through the own fields, then the class chain.
func (i *Instance) Lookup(name string) (Value, bool) {
	if v, ok := i.fields[name]; ok {
		return v, true
	}
	return i.class.Member(name)
}

// Get is Lookup returning Nil for missing members.
func (i *Instance) Get(name string) Value {
	v, _ := i.Lookup(name)
	return v
}

func (i *Instance) Has(name string) bool {
	_, ok := i.Lookup(name)
	return ok
}

// Set stores an own field, shadowing any class member of the same name.
func (i *Instance) Set(name string, v Value) {
	i.fields[name] = v
}

// Unset removes an own field, exposing the class member again.
func (i *Instance) Unset(name string) {
	delete(i.fields, name)
}

func (i *Instance) HasOwn(name string) bool {
	_, ok := i.fields[name]
	return ok
}

// FieldNames lists the own field names, sorted.
func (i *Instance) FieldNames() []string {
	return slices.Sorted(maps.Keys(i.fields))
}

// Invoke calls the member function name with the instance as receiver.
func (i *Instance) Invoke(name string, args ...Value) (Value, error) {
	if member, ok := i.fields[name]; ok {
		return i.invokeMember(i.class, name, member, levelOwn, args)
	}
	for level, cls := range i.class.chain {
		if member, ok := cls.own[name]; ok {
			return i.invokeMember(cls, name, member, level, args)
		}
	}
	return NewNil(), missingMember(i.class, name)
}

func (i *Instance) invokeMember(cls *Class, name string, member Value, level int, args []Value) (Value, error) {
	fn := member.Function()
	if fn == nil {
		return NewNil(), notCallable(cls, name, member.Kind())
	}
	return callFunction(fn, NewInstance(i), level, args)
}

// Clone creates a new instance of the same class. When the class defines
// get and set the state is copied through them, otherwise the own fields
// are copied.
func (i *Instance) Clone() (*Instance, error) {
	clone, err := i.class.New()
	if err != nil {
		return nil, err
	}
	if i.Has("get") && i.Has("set") {
		state, err := i.Invoke("get")
		if err != nil {
			return nil, err
		}
		if _, err := clone.Invoke("set", state); err != nil {
			return nil, err
		}
		return clone, nil
	}
	maps.Copy(clone.fields, i.fields)
	return clone, nil
}

func (i *Instance) String() string {
	return NewInstance(i).String()
}
