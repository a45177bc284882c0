package ok

import (
	"maps"
	"slices"
)

// Config tunes a Factory.
type Config struct {
	// Logf, when set, receives one line per class the factory builds.
	Logf func(format string, args ...any)
}

// Factory is the arena that owns every class it builds. Classes are
// addressed by their index in the arena and may only be extended by the
// factory that built them.
type Factory struct {
	config  Config
	classes []*Class
	named   map[string]*Class

	object     *Class
	base       *Class
	data       *Class
	property   *Class
	mapClass   *Class
	collection *Class
	controller *Class
}

// Class is an immutable class descriptor.
type Class struct {
	id        int
	name      string
	factory   *Factory
	parent    *Class
	chain     []*Class
	own       map[string]Value
	statics   map[string]Value
	mergeKeys []string
	policies  map[string]MergePolicy
	ctor      *Function
}

// NewFactory builds a factory holding the root Object class, Base and the
// data classes (Data, Property, Map, Collection, Controller).
func NewFactory(cfg Config) (*Factory, error) {
	f := &Factory{
		config: cfg,
		named:  make(map[string]*Class),
	}
	f.object = f.newRoot()
	var err error
	if f.base, err = f.buildBase(); err != nil {
		return nil, err
	}
	if err := f.buildDataClasses(); err != nil {
		return nil, err
	}
	return f, nil
}

// MustNewFactory is NewFactory that panics on error.
func MustNewFactory(cfg Config) *Factory {
	f, err := NewFactory(cfg)
	if err != nil {
		panic(err)
	}
	return f
}

func (f *Factory) register(c *Class) {
	c.id = len(f.classes)
	f.classes = append(f.classes, c)
	if c.ctor != nil && c.ctor.Name != "" {
		f.named[c.ctor.Name] = c
	}
	if f.config.Logf != nil {
		if c.parent == nil {
			f.config.Logf("class #%d %s (root)", c.id, c.name)
		} else {
			f.config.Logf("class #%d %s extends %s merge=%v", c.id, c.name, c.parent.name, c.mergeKeys)
		}
	}
}

// Object is the root of every hierarchy built by f.
func (f *Factory) Object() *Class { return f.object }

// Base is the class application hierarchies normally start from. Its
// constructor forwards constructor arguments to init.
func (f *Factory) Base() *Class { return f.base }

func (f *Factory) Data() *Class       { return f.data }
func (f *Factory) Property() *Class   { return f.property }
func (f *Factory) Map() *Class        { return f.mapClass }
func (f *Factory) Collection() *Class { return f.collection }
func (f *Factory) Controller() *Class { return f.controller }

// Class returns the class with the given arena id.
func (f *Factory) Class(id int) (*Class, bool) {
	if id < 0 || id >= len(f.classes) {
		return nil, false
	}
	return f.classes[id], true
}

// Lookup finds the most recent class whose constructor carries name.
func (f *Factory) Lookup(name string) (*Class, bool) {
	c, ok := f.named[name]
	return c, ok
}

// Len is the number of classes in the arena.
func (f *Factory) Len() int { return len(f.classes) }

func (c *Class) ID() int           { return c.id }
func (c *Class) Name() string      { return c.name }
func (c *Class) String() string    { return c.name }
func (c *Class) Factory() *Factory { return c.factory }
func (c *Class) Parent() *Class    { return c.parent }
func (c *Class) Value() Value      { return NewClass(c) }

// Constructor is the function New runs on fresh instances.
func (c *Class) Constructor() *Function { return c.ctor }

// Ancestors lists the parent chain, nearest first, ending at Object.
func (c *Class) Ancestors() []*Class {
	return slices.Clone(c.chain[1:])
}

// Inherits reports whether c is other or descends from it.
func (c *Class) Inherits(other *Class) bool {
	return slices.Contains(c.chain, other)
}

// Own returns a member defined by this class's own fragments, including
// its merged merge-key values.
func (c *Class) Own(name string) (Value, bool) {
	v, ok := c.own[name]
	return v, ok
}

// OwnNames lists the own member names in sorted order.
func (c *Class) OwnNames() []string {
	return slices.Sorted(maps.Keys(c.own))
}

// Member resolves name through the class chain.
func (c *Class) Member(name string) (Value, bool) {
	for _, cls := range c.chain {
		if v, ok := cls.own[name]; ok {
			return v, true
		}
	}
	return NewNil(), false
}

// MemberNames lists every member name visible on instances, sorted.
func (c *Class) MemberNames() []string {
	seen := make(map[string]struct{})
	for _, cls := range c.chain {
		for name := range cls.own {
			seen[name] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(seen))
}

func (c *Class) Static(name string) (Value, bool) {
	v, ok := c.statics[name]
	return v, ok
}

func (c *Class) StaticNames() []string {
	return slices.Sorted(maps.Keys(c.statics))
}

// MergeKeys returns the effective merge keys in declaration order.
func (c *Class) MergeKeys() []string {
	return slices.Clone(c.mergeKeys)
}

// MergePolicy returns the policy resolved for key when c was built.
func (c *Class) MergePolicy(key string) (MergePolicy, bool) {
	p, ok := c.policies[key]
	return p, ok
}

// Extend builds a subclass of c. See Factory.Extend.
func (c *Class) Extend(fragments ...Value) (*Class, error) {
	return c.factory.Extend(NewClass(c), fragments...)
}

// MustExtend is Extend that panics on error.
func (c *Class) MustExtend(fragments ...Value) *Class {
	sub, err := c.Extend(fragments...)
	if err != nil {
		panic(err)
	}
	return sub
}

// CallStatic invokes a static function with the class as receiver.
func (c *Class) CallStatic(name string, args ...Value) (Value, error) {
	member, ok := c.statics[name]
	if !ok {
		return NewNil(), missingMember(c, name)
	}
	fn := member.Function()
	if fn == nil {
		return NewNil(), notCallable(c, name, member.Kind())
	}
	return callFunction(fn, NewClass(c), levelUnresolved, args)
}
