package ok

const (
	// levelOwn marks a function found in an instance's own fields.
	levelOwn = -1
	// levelUnresolved marks a function invoked outside of member dispatch,
	// such as an event handler. Its level is recovered on first super call.
	levelUnresolved = -2
)

// Call is the per-invocation context handed to a NativeFunc. It carries
// the receiver and the super-call cursor: the position, in the receiver's
// class chain, of the class that supplied the running function. Nested
// super calls get a new Call one level further up, so the cursor never
// needs to be restored.
type Call struct {
	Receiver Value
	Function *Function
	level    int
}

func callFunction(fn *Function, receiver Value, level int, args []Value) (Value, error) {
	return fn.Fn(&Call{Receiver: receiver, Function: fn, level: level}, args)
}

// Instance returns the receiver when it is an instance.
func (c *Call) Instance() *Instance {
	return c.Receiver.Instance()
}

// Class returns the class whose member table supplied the running
// function, or nil when it came from the instance itself or cannot be
// located.
func (c *Call) Class() *Class {
	chain := c.chain()
	level := c.level
	if level == levelUnresolved {
		level = c.resolveByIdentity("")
	}
	if level < 0 || level >= len(chain) {
		return nil
	}
	return chain[level]
}

func (c *Call) chain() []*Class {
	if inst := c.Receiver.Instance(); inst != nil {
		return inst.class.chain
	}
	return nil
}

// Super invokes the nearest implementation of name defined above the
// class that supplied the running function, with the same receiver. A
// missing implementation is not an error: Super returns Nil. An empty
// name invokes the parent constructor.
func (c *Call) Super(name string, args ...Value) (Value, error) {
	if name == "" {
		return c.SuperConstructor(args...)
	}
	chain := c.chain()
	if chain == nil {
		return NewNil(), nil
	}
	start := c.resolve(name) + 1
	for i := start; i < len(chain); i++ {
		member, ok := chain[i].own[name]
		if !ok {
			continue
		}
		fn := member.Function()
		if fn == nil {
			return NewNil(), notCallable(chain[i], name, member.Kind())
		}
		return callFunction(fn, c.Receiver, i, args)
	}
	return NewNil(), nil
}

// ParentConstructor returns the constructor of the parent of the class
// that supplied the running function, or nil at the root.
func (c *Call) ParentConstructor() *Function {
	chain := c.chain()
	if chain == nil {
		return nil
	}
	parent := c.constructorLevel() + 1
	if parent < 0 || parent >= len(chain) {
		return nil
	}
	return chain[parent].ctor
}

// SuperConstructor runs ParentConstructor on the receiver.
func (c *Call) SuperConstructor(args ...Value) (Value, error) {
	chain := c.chain()
	if chain == nil {
		return NewNil(), nil
	}
	parent := c.constructorLevel() + 1
	if parent < 0 || parent >= len(chain) {
		return NewNil(), nil
	}
	return callFunction(chain[parent].ctor, c.Receiver, parent, args)
}

func (c *Call) constructorLevel() int {
	if c.level != levelUnresolved {
		return c.level
	}
	for i, cls := range c.chain() {
		if cls.ctor == c.Function {
			return i
		}
	}
	return 0
}

func (c *Call) resolve(name string) int {
	if c.level != levelUnresolved {
		return c.level
	}
	return c.resolveByIdentity(name)
}

// resolveByIdentity finds the level holding the running function, under
// name when given. Unknown functions resolve below the class chain so a
// super call reaches the nearest implementation.
func (c *Call) resolveByIdentity(name string) int {
	inst := c.Receiver.Instance()
	if inst == nil {
		return levelOwn
	}
	holds := func(table map[string]Value) bool {
		if name != "" {
			return table[name].Function() == c.Function
		}
		for _, member := range table {
			if member.Function() == c.Function {
				return true
			}
		}
		return false
	}
	if holds(inst.fields) {
		return levelOwn
	}
	for i, cls := range inst.class.chain {
		if holds(cls.own) {
			return i
		}
	}
	return levelOwn
}

// FindDefiningClass reports where name is defined for v. For an instance
// the own fields are checked first, in which case the instance itself is
// returned; then each class of the chain, nearest first, ending at the
// root Object class. Classes resolve through their own chain. The result
// is Nil and false when nothing defines name.
func FindDefiningClass(v Value, name string) (Value, bool) {
	var chain []*Class
	switch v.Kind() {
	case KindInstance:
		inst := v.Instance()
		if _, ok := inst.fields[name]; ok {
			return v, true
		}
		chain = inst.class.chain
	case KindClass:
		chain = v.Class().chain
	default:
		return NewNil(), false
	}
	for _, cls := range chain {
		if _, ok := cls.own[name]; ok {
			return NewClass(cls), true
		}
	}
	return NewNil(), false
}
