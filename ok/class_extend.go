package ok

import (
	"fmt"
	"maps"
	"slices"
)

const (
	memberConstructor     = "constructor"
	memberMergeProperties = "mergeProperties"
)

type fragment struct {
	index   int
	members map[string]Value
	statics map[string]Value
}

// Extend builds a new class from parent and zero or more fragments.
//
// A fragment is either a hash of members or a class. A class fragment is
// folded in as its statics followed by its own member table. Fragments
// apply left to right and later members win, except for merge keys: the
// keys named by mergeProperties anywhere in the hierarchy, whose values
// are merged with the parent's value instead (see MergePolicy). A
// "constructor" function member becomes the class constructor; without
// one the class gets a constructor that forwards its arguments to the
// parent constructor. Statics are copied from the parent and overlaid by
// class fragments.
//
// The parent and its instances are never modified.
func (f *Factory) Extend(parentVal Value, fragments ...Value) (*Class, error) {
	const op = "Factory.Extend"
	parent := parentVal.Class()
	if parent == nil {
		return nil, &InvalidParentError{Op: op, Got: parentVal.Kind()}
	}
	if parent.factory != f {
		return nil, &InvalidParentError{
			Op:     op,
			Got:    KindClass,
			Reason: fmt.Sprintf("class %s belongs to another factory", parent.Name()),
		}
	}

	parts, err := expandFragments(op, fragments)
	if err != nil {
		return nil, err
	}
	keys, err := effectiveMergeKeys(op, parent, parts)
	if err != nil {
		return nil, err
	}
	ctor, err := pickConstructor(op, parts)
	if err != nil {
		return nil, err
	}

	cls := &Class{
		factory:   f,
		parent:    parent,
		own:       make(map[string]Value),
		statics:   maps.Clone(parent.statics),
		mergeKeys: keys,
		policies:  make(map[string]MergePolicy, len(keys)),
	}
	if cls.statics == nil {
		cls.statics = make(map[string]Value)
	}

	isMergeKey := make(map[string]bool, len(keys))
	for _, key := range keys {
		isMergeKey[key] = true
	}
	for _, part := range parts {
		for name, member := range part.members {
			if name == memberConstructor || isMergeKey[name] {
				continue
			}
			cls.own[name] = member
		}
		maps.Copy(cls.statics, part.statics)
	}

	for _, key := range keys {
		if key == memberMergeProperties {
			continue
		}
		contributions := make([]Value, 0, len(parts)+1)
		if v, ok := parent.Member(key); ok {
			contributions = append(contributions, v)
		}
		for _, part := range parts {
			if v, ok := part.members[key]; ok {
				contributions = append(contributions, v)
			}
		}
		policy := PolicyFor(contributions)
		cls.policies[key] = policy
		if merged := policy.Merge(contributions); !merged.IsNil() {
			cls.own[key] = merged
		}
	}
	cls.own[memberMergeProperties] = Strings(keys...)
	cls.policies[memberMergeProperties] = MergeConcat

	if ctor == nil {
		ctor = NewFunc("", inheritConstructor)
	}
	cls.ctor = ctor
	cls.chain = append([]*Class{cls}, parent.chain...)
	cls.name = ctor.Name
	if cls.name == "" {
		cls.name = fmt.Sprintf("(subclass of %s)", parent.Name())
	}
	f.register(cls)
	return cls, nil
}

// MustExtend is Extend that panics on error.
func (f *Factory) MustExtend(parent Value, fragments ...Value) *Class {
	cls, err := f.Extend(parent, fragments...)
	if err != nil {
		panic(err)
	}
	return cls
}

func inheritConstructor(call *Call, args []Value) (Value, error) {
	return call.SuperConstructor(args...)
}

func expandFragments(op string, fragments []Value) ([]fragment, error) {
	parts := make([]fragment, 0, len(fragments))
	for i, frag := range fragments {
		switch frag.Kind() {
		case KindHash:
			parts = append(parts, fragment{index: i, members: frag.Hash()})
		case KindClass:
			c := frag.Class()
			parts = append(parts,
				fragment{index: i, statics: c.statics},
				fragment{index: i, members: c.own},
			)
		default:
			return nil, &InvalidFragmentError{Op: op, Index: i, Got: frag.Kind()}
		}
	}
	return parts, nil
}

// effectiveMergeKeys returns the parent's keys followed by new keys
// declared by the fragments, in fragment order.
func effectiveMergeKeys(op string, parent *Class, parts []fragment) ([]string, error) {
	keys := slices.Clone(parent.mergeKeys)
	if !slices.Contains(keys, memberMergeProperties) {
		keys = append([]string{memberMergeProperties}, keys...)
	}
	for _, part := range parts {
		declared, ok := part.members[memberMergeProperties]
		if !ok {
			continue
		}
		names, err := mergeKeyNames(declared)
		if err != nil {
			return nil, &InvalidFragmentError{Op: op, Index: part.index, Got: declared.Kind(), Reason: err.Error()}
		}
		for _, name := range names {
			if !slices.Contains(keys, name) {
				keys = append(keys, name)
			}
		}
	}
	return keys, nil
}

func mergeKeyNames(declared Value) ([]string, error) {
	switch declared.Kind() {
	case KindNil:
		return nil, nil
	case KindString:
		return []string{declared.String()}, nil
	case KindArray, KindItems:
		elems := declared.Elements()
		names := make([]string, 0, len(elems))
		for _, item := range elems {
			if item.Kind() != KindString {
				return nil, fmt.Errorf("mergeProperties entries must be strings, got %s", item.Kind())
			}
			names = append(names, item.String())
		}
		return names, nil
	default:
		return nil, fmt.Errorf("mergeProperties must be a string or an array of strings")
	}
}

func pickConstructor(op string, parts []fragment) (*Function, error) {
	var ctor *Function
	for _, part := range parts {
		member, ok := part.members[memberConstructor]
		if !ok {
			continue
		}
		fn := member.Function()
		if fn == nil {
			return nil, &InvalidFragmentError{
				Op:     op,
				Index:  part.index,
				Got:    member.Kind(),
				Reason: fmt.Sprintf("constructor must be a function, got %s", member.Kind()),
			}
		}
		ctor = fn
	}
	return ctor, nil
}
