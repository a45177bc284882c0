package ok

import (
	"errors"
	"slices"
	"testing"
)

func speaker(label string) Value {
	return Method("speak", func(call *Call, args []Value) (Value, error) {
		up, err := call.Super("speak", args...)
		if err != nil {
			return NewNil(), err
		}
		if up.IsNil() {
			return NewString(label), nil
		}
		return NewString(label + ">" + up.String()), nil
	})
}

func TestSuperWalksEachAncestorOnce(t *testing.T) {
	f := newTestFactory(t)
	a := f.Base().MustExtend(NewHash(map[string]Value{"speak": speaker("A")}))
	b := a.MustExtend(NewHash(map[string]Value{"speak": speaker("B")}))
	c := b.MustExtend(NewHash(map[string]Value{"speak": speaker("C")}))

	got := mustInvoke(t, c.MustNew(), "speak")
	if got.String() != "C>B>A" {
		t.Fatalf("expected C>B>A, got %q", got.String())
	}
	got = mustInvoke(t, b.MustNew(), "speak")
	if got.String() != "B>A" {
		t.Fatalf("expected B>A, got %q", got.String())
	}
}

func TestSuperSkipsClassesWithoutOverride(t *testing.T) {
	f := newTestFactory(t)
	a := f.Base().MustExtend(NewHash(map[string]Value{"speak": speaker("A")}))
	b := a.MustExtend(NewHash(map[string]Value{"other": NewInt(1)}))
	c := b.MustExtend(NewHash(map[string]Value{"speak": speaker("C")}))

	got := mustInvoke(t, c.MustNew(), "speak")
	if got.String() != "C>A" {
		t.Fatalf("expected C>A, got %q", got.String())
	}
}

func TestSuperMissingMemberReturnsNil(t *testing.T) {
	f := newTestFactory(t)
	cls := f.Base().MustExtend(NewHash(map[string]Value{
		"hook": Method("hook", func(call *Call, args []Value) (Value, error) {
			return call.Super("hook")
		}),
	}))
	got, err := cls.MustNew().Invoke("hook")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.IsNil() {
		t.Fatalf("expected nil, got %v", got)
	}
}

func TestSuperNonFunctionMemberFails(t *testing.T) {
	f := newTestFactory(t)
	parent := f.Base().MustExtend(NewHash(map[string]Value{"hook": NewInt(3)}))
	child := parent.MustExtend(NewHash(map[string]Value{
		"hook": Method("hook", func(call *Call, args []Value) (Value, error) {
			return call.Super("hook")
		}),
	}))
	_, err := child.MustNew().Invoke("hook")
	var memberErr *MemberError
	if !errors.As(err, &memberErr) {
		t.Fatalf("expected MemberError, got %v", err)
	}
	if memberErr.Name != "hook" {
		t.Fatalf("unexpected member error: %v", memberErr)
	}
}

func TestSuperConstructorChain(t *testing.T) {
	f := newTestFactory(t)
	var order []string
	a := f.Base().MustExtend(NewHash(map[string]Value{
		"constructor": Method("A", func(call *Call, args []Value) (Value, error) {
			order = append(order, "A")
			call.Instance().Set("a", args[0])
			return call.SuperConstructor(args...)
		}),
		"init": Method("init", func(call *Call, args []Value) (Value, error) {
			order = append(order, "init")
			return NewNil(), nil
		}),
	}))
	b := a.MustExtend(NewHash(map[string]Value{
		"constructor": Method("B", func(call *Call, args []Value) (Value, error) {
			order = append(order, "B")
			if call.ParentConstructor() != a.Constructor() {
				t.Fatalf("parent constructor should be A's")
			}
			if _, err := call.Super("", args...); err != nil {
				return NewNil(), err
			}
			call.Instance().Set("b", NewBool(true))
			return NewNil(), nil
		}),
	}))
	c := b.MustExtend()

	inst := c.MustNew(str("x"))
	if !slices.Equal(order, []string{"B", "A", "init"}) {
		t.Fatalf("unexpected constructor order %v", order)
	}
	if inst.Get("a").String() != "x" || !inst.Get("b").Bool() {
		t.Fatalf("constructors did not run: %v", inst.FieldNames())
	}
}

func TestSuperFromEventHandler(t *testing.T) {
	f := newTestFactory(t)
	var calls []string
	parent := f.Base().MustExtend(NewHash(map[string]Value{
		"onPing": Method("onPing", func(call *Call, args []Value) (Value, error) {
			calls = append(calls, "parent")
			return NewNil(), nil
		}),
	}))
	child := parent.MustExtend(NewHash(map[string]Value{
		"onPing": Method("onPing", func(call *Call, args []Value) (Value, error) {
			calls = append(calls, "child")
			return call.Super("onPing", args...)
		}),
	}))
	inst := child.MustNew()
	fn := inst.Get("onPing").Function()
	inst.On("ping", fn)
	if err := inst.Trigger("ping"); err != nil {
		t.Fatalf("trigger: %v", err)
	}
	if !slices.Equal(calls, []string{"child", "parent"}) {
		t.Fatalf("unexpected calls %v", calls)
	}
}

func TestMergeKeyConcatenatesAcrossExtends(t *testing.T) {
	f := newTestFactory(t)
	root := f.Base().MustExtend(NewHash(map[string]Value{
		"mergeProperties": Strings("tags"),
		"tags":            Strings("root"),
	}))
	cls := root
	const n = 4
	for i := range n {
		cls = cls.MustExtend(NewHash(map[string]Value{"tags": NewInt(int64(i))}))
	}
	tags, _ := cls.Member("tags")
	assertValues(t, tags.Elements(), str("root"), num(0), num(1), num(2), num(3))
	if len(tags.Elements()) != 1+n {
		t.Fatalf("expected %d tags, got %d", 1+n, len(tags.Elements()))
	}
	if policy, _ := cls.MergePolicy("tags"); policy != MergeConcat {
		t.Fatalf("expected concat policy, got %s", policy)
	}
	keys, _ := cls.Member("mergeProperties")
	assertValues(t, keys.Elements(), str("mergeProperties"), str("tags"))
}

func TestMergeKeyMultipleFragmentsInOrder(t *testing.T) {
	f := newTestFactory(t)
	root := f.Base().MustExtend(NewHash(map[string]Value{
		"mergeProperties": Strings("events"),
		"events":          Strings("a"),
	}))
	cls := root.MustExtend(
		NewHash(map[string]Value{"events": Strings("b", "c")}),
		NewHash(map[string]Value{"events": NewNil()}),
		NewHash(map[string]Value{"events": str("d")}),
	)
	events, _ := cls.Own("events")
	assertValues(t, events.Elements(), str("a"), str("b"), str("c"), str("d"))
}

func TestMergeKeyUnionsHashes(t *testing.T) {
	f := newTestFactory(t)
	root := f.Base().MustExtend(NewHash(map[string]Value{
		"mergeProperties": str("options"),
		"options":         NewHash(map[string]Value{"a": num(1), "b": num(2)}),
	}))
	cls := root.MustExtend(NewHash(map[string]Value{
		"options": NewHash(map[string]Value{"b": num(3), "c": num(4)}),
	}))
	options, _ := cls.Member("options")
	want := NewHash(map[string]Value{"a": num(1), "b": num(3), "c": num(4)})
	if !options.Equal(want) {
		t.Fatalf("expected %v, got %v", want, options)
	}
	if policy, _ := cls.MergePolicy("options"); policy != MergeKeyUnion {
		t.Fatalf("expected union policy, got %s", policy)
	}
}

func TestExtendDoesNotMutateParent(t *testing.T) {
	f := newTestFactory(t)
	summable, err := f.Mixin("Summable", map[string]*Function{"sum": sumFunc()})
	if err != nil {
		t.Fatalf("mixin: %v", err)
	}
	parent := f.Base().MustExtend(NewClass(summable), NewHash(map[string]Value{
		"mergeProperties": Strings("tags"),
		"tags":            Strings("p"),
		"greet":           str("hi"),
	}))
	beforeTags, _ := parent.Own("tags")
	beforeGreet, _ := parent.Own("greet")
	beforeNames := parent.OwnNames()
	beforeStatics := parent.StaticNames()
	instance := parent.MustNew()

	for range 3 {
		parent.MustExtend(NewHash(map[string]Value{
			"mergeProperties": Strings("extra"),
			"tags":            Strings("child"),
			"greet":           str("hello"),
			"extra":           Strings("x"),
		}))
	}

	afterTags, _ := parent.Own("tags")
	afterGreet, _ := parent.Own("greet")
	if !afterTags.Equal(beforeTags) || !afterGreet.Equal(beforeGreet) {
		t.Fatalf("parent members changed: tags=%v greet=%v", afterTags, afterGreet)
	}
	if !slices.Equal(parent.OwnNames(), beforeNames) || !slices.Equal(parent.StaticNames(), beforeStatics) {
		t.Fatalf("parent tables changed")
	}
	if slices.Contains(parent.MergeKeys(), "extra") {
		t.Fatalf("child merge key leaked into parent")
	}
	if instance.Get("greet").String() != "hi" {
		t.Fatalf("parent instance changed: %v", instance.Get("greet"))
	}
}

func TestExtendErrors(t *testing.T) {
	f := newTestFactory(t)
	other := newTestFactory(t)

	_, err := f.Extend(NewInt(1))
	var parentErr *InvalidParentError
	if !errors.As(err, &parentErr) || parentErr.Got != KindInt {
		t.Fatalf("expected InvalidParentError for int parent, got %v", err)
	}
	if _, err := f.Extend(NewClass(other.Base())); !errors.As(err, &parentErr) {
		t.Fatalf("expected InvalidParentError for foreign class, got %v", err)
	}

	tests := []struct {
		name      string
		fragments []Value
		index     int
	}{
		{name: "string fragment", fragments: []Value{str("nope")}, index: 0},
		{name: "second fragment", fragments: []Value{NewHash(nil), Ints(1)}, index: 1},
		{name: "bad merge keys", fragments: []Value{NewHash(map[string]Value{"mergeProperties": Ints(1)})}, index: 0},
		{name: "bad constructor", fragments: []Value{NewHash(map[string]Value{"constructor": str("x")})}, index: 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.Base().Extend(tc.fragments...)
			var fragErr *InvalidFragmentError
			if !errors.As(err, &fragErr) {
				t.Fatalf("expected InvalidFragmentError, got %v", err)
			}
			if fragErr.Index != tc.index {
				t.Fatalf("expected index %d, got %d", tc.index, fragErr.Index)
			}
		})
	}
}

func TestInvokeMissingMember(t *testing.T) {
	f := newTestFactory(t)
	_, err := f.Base().MustNew().Invoke("missing")
	var memberErr *MemberError
	if !errors.As(err, &memberErr) || memberErr.Class != "Base" {
		t.Fatalf("expected MemberError on Base, got %v", err)
	}
}

func TestFindDefiningClass(t *testing.T) {
	f := newTestFactory(t)
	a := f.Base().MustExtend(NewHash(map[string]Value{
		"constructor": Method("A", inheritConstructor),
		"speak":       speaker("A"),
	}))
	b := a.MustExtend(NewHash(map[string]Value{"constructor": Method("B", inheritConstructor)}))
	inst := b.MustNew()
	inst.Set("own", NewBool(true))

	tests := []struct {
		name string
		want Value
		ok   bool
	}{
		{name: "own", want: inst.Value(), ok: true},
		{name: "speak", want: NewClass(a), ok: true},
		{name: "on", want: NewClass(f.Base()), ok: true},
		{name: "toString", want: NewClass(f.Object()), ok: true},
		{name: "missing", want: NewNil(), ok: false},
	}
	for _, tc := range tests {
		got, ok := FindDefiningClass(inst.Value(), tc.name)
		if ok != tc.ok || !got.Equal(tc.want) {
			t.Fatalf("%s: expected %v/%v, got %v/%v", tc.name, tc.want, tc.ok, got, ok)
		}
	}
}

func TestClassNamesAndLookup(t *testing.T) {
	f := newTestFactory(t)
	animal := f.Base().MustExtend(NewHash(map[string]Value{
		"constructor": Method("Animal", inheritConstructor),
	}))
	anon := animal.MustExtend()

	if animal.Name() != "Animal" {
		t.Fatalf("expected Animal, got %q", animal.Name())
	}
	if anon.Name() != "(subclass of Animal)" {
		t.Fatalf("unexpected anonymous name %q", anon.Name())
	}
	found, ok := f.Lookup("Animal")
	if !ok || found != animal {
		t.Fatalf("lookup failed")
	}
	if byID, ok := f.Class(anon.ID()); !ok || byID != anon {
		t.Fatalf("class by id failed")
	}
	if !anon.Inherits(f.Object()) || animal.Inherits(anon) {
		t.Fatalf("unexpected inheritance")
	}
	if got := anon.Ancestors(); len(got) != 3 || got[0] != animal || got[2] != f.Object() {
		t.Fatalf("unexpected ancestors %v", got)
	}
	if inst := anon.MustNew(); mustInvoke(t, inst, "toString").String() != "<(subclass of Animal) instance>" {
		t.Fatalf("unexpected toString")
	}
}

func TestBaseConstructorCallsInit(t *testing.T) {
	f := newTestFactory(t)
	cls := f.Base().MustExtend(NewHash(map[string]Value{
		"init": Method("init", func(call *Call, args []Value) (Value, error) {
			call.Instance().Set("args", NewArray(args))
			return NewNil(), nil
		}),
	}))
	inst := cls.MustNew(num(1), num(2))
	assertValues(t, inst.Get("args").Elements(), num(1), num(2))
	if !mustInvoke(t, inst, "hasOwnProperty", str("args")).Bool() {
		t.Fatalf("args should be an own field")
	}
}

func sumFunc() *Function {
	return NewFunc("sum", func(call *Call, args []Value) (Value, error) {
		subject := args[0]
		if inst := subject.Instance(); inst != nil {
			subject = inst.Get("values")
		}
		var total int64
		for _, v := range subject.Elements() {
			total += v.Int()
		}
		return NewInt(total), nil
	})
}

func TestMixinStaticAndMethod(t *testing.T) {
	f := newTestFactory(t)
	summable, err := f.Mixin("Summable", map[string]*Function{"sum": sumFunc()})
	if err != nil {
		t.Fatalf("mixin: %v", err)
	}
	stats := f.Base().MustExtend(NewClass(summable), NewHash(map[string]Value{
		"values": Ints(1, 2, 3),
	}))

	if got := mustInvoke(t, stats.MustNew(), "sum"); got.Int() != 6 {
		t.Fatalf("expected 6, got %v", got)
	}
	got, err := summable.CallStatic("sum", Ints(4, 5))
	if err != nil || got.Int() != 9 {
		t.Fatalf("expected 9, got %v (%v)", got, err)
	}
	if _, ok := stats.Static("sum"); !ok {
		t.Fatalf("mixin statics should fold into the class")
	}
	if _, err := summable.CallStatic("missing"); err == nil {
		t.Fatalf("expected missing static error")
	}
}

func TestMixinMethodSupersIntoParent(t *testing.T) {
	f := newTestFactory(t)
	loud, err := f.Mixin("Loud", map[string]*Function{
		"greet": NewFunc("greet", func(call *Call, args []Value) (Value, error) {
			inner, err := call.Super("greet")
			if err != nil {
				return NewNil(), err
			}
			return str(inner.String() + "!"), nil
		}),
	})
	if err != nil {
		t.Fatalf("mixin: %v", err)
	}
	parent := f.Base().MustExtend(NewHash(map[string]Value{
		"greet": Method("greet", func(call *Call, args []Value) (Value, error) {
			return str("parent"), nil
		}),
	}))
	child := parent.MustExtend(NewClass(loud))
	inst := child.MustNew()

	if got := mustInvoke(t, inst, "greet"); got.String() != "parent!" {
		t.Fatalf("expected parent!, got %v", got)
	}

	// Handlers carry no dispatch level; the wrapper is found by identity.
	greet, _ := child.Member("greet")
	var heard Value
	inst.On("hello", greet.Function())
	inst.On("hello", NewFunc("after", func(call *Call, args []Value) (Value, error) {
		heard = str("done")
		return NewNil(), nil
	}))
	if err := inst.Trigger("hello"); err != nil {
		t.Fatalf("trigger: %v", err)
	}
	if heard.String() != "done" {
		t.Fatalf("handler chain did not complete")
	}
}
