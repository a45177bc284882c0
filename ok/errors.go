package ok

import "fmt"

// InvalidParentError is returned by Extend when the parent is not a class
// built by the extending factory.
type InvalidParentError struct {
	// Op is the operation that failed (e.g. "Factory.Extend").
	Op string
	// Got is the kind of the value passed as parent.
	Got ValueKind
	// Reason explains the rejection when the kind alone is not enough.
	Reason string
}

func (e *InvalidParentError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("ok: %s: invalid parent: %s", e.Op, e.Reason)
	}
	return fmt.Sprintf("ok: %s: invalid parent: expected class, got %s", e.Op, e.Got)
}

// InvalidFragmentError is returned by Extend when a fragment is neither a
// member hash nor a class, or declares a malformed reserved member.
type InvalidFragmentError struct {
	Op string
	// Index is the position of the fragment in the Extend call.
	Index  int
	Got    ValueKind
	Reason string
}

func (e *InvalidFragmentError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("ok: %s: fragment %d: %s", e.Op, e.Index, e.Reason)
	}
	return fmt.Sprintf("ok: %s: fragment %d: expected hash or class, got %s", e.Op, e.Index, e.Got)
}

// MemberError reports a direct invocation of a member that is missing or
// not callable. Super calls never produce it for missing members.
type MemberError struct {
	Class  string
	Name   string
	Reason string
}

func (e *MemberError) Error() string {
	return fmt.Sprintf("ok: %s.%s: %s", e.Class, e.Name, e.Reason)
}

func missingMember(class *Class, name string) error {
	return &MemberError{Class: class.Name(), Name: name, Reason: "undefined member"}
}

func notCallable(class *Class, name string, got ValueKind) error {
	return &MemberError{Class: class.Name(), Name: name, Reason: fmt.Sprintf("%s is not callable", got)}
}
