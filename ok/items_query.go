package ok

import (
	"math/rand/v2"
	"slices"
	"strings"
)

// Map returns a sequence of fn applied to every element.
func (s *Items) Map(fn func(v Value, index int) Value) *Items {
	out := make([]Value, len(s.elems))
	for i, v := range s.elems {
		out[i] = fn(v, i)
	}
	return s.derive(out)
}

// Filter returns the elements for which pred holds.
func (s *Items) Filter(pred func(Value) bool) *Items {
	out := make([]Value, 0, len(s.elems))
	for _, v := range s.elems {
		if pred(v) {
			out = append(out, v)
		}
	}
	return s.derive(out)
}

// Reject returns the elements for which pred does not hold.
func (s *Items) Reject(pred func(Value) bool) *Items {
	return s.Filter(func(v Value) bool { return !pred(v) })
}

// Slice returns elements [start, end). Negative bounds count from the end.
func (s *Items) Slice(start, end int) *Items {
	start, end = s.clampIndex(start), s.clampIndex(end)
	if end < start {
		end = start
	}
	return s.derive(slices.Clone(s.elems[start:end]))
}

// First returns the first element, or Nil when empty.
func (s *Items) First() Value { return s.At(0) }

// Last returns the last element, or Nil when empty.
func (s *Items) Last() Value { return s.At(-1) }

// FirstN returns up to n leading elements.
func (s *Items) FirstN(n int) *Items {
	n = max(0, min(n, len(s.elems)))
	return s.derive(slices.Clone(s.elems[:n]))
}

// LastN returns up to n trailing elements.
func (s *Items) LastN(n int) *Items {
	n = max(0, min(n, len(s.elems)))
	return s.derive(slices.Clone(s.elems[len(s.elems)-n:]))
}

// Sample returns a random element, or Nil when empty. A nil r uses the
// global source.
func (s *Items) Sample(r *rand.Rand) Value {
	if len(s.elems) == 0 {
		return NewNil()
	}
	return s.elems[intN(r, len(s.elems))]
}

// SampleN returns up to n distinct elements in random order.
func (s *Items) SampleN(r *rand.Rand, n int) *Items {
	n = max(0, min(n, len(s.elems)))
	pool := slices.Clone(s.elems)
	for i := range n {
		j := i + intN(r, len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return s.derive(pool[:n])
}

func intN(r *rand.Rand, n int) int {
	if r == nil {
		return rand.IntN(n)
	}
	return r.IntN(n)
}

// Uniq drops elements Equal to an earlier one.
func (s *Items) Uniq() *Items {
	out := make([]Value, 0, len(s.elems))
	for _, v := range s.elems {
		if !slices.ContainsFunc(out, v.Equal) {
			out = append(out, v)
		}
	}
	return s.derive(out)
}

// Compact drops Nil elements.
func (s *Items) Compact() *Items {
	return s.Reject(Value.IsNil)
}

// Flatten expands nested arrays and sequences recursively.
func (s *Items) Flatten() *Items {
	return s.derive(flattenValues(nil, s.elems))
}

func flattenValues(out, values []Value) []Value {
	for _, v := range values {
		switch v.Kind() {
		case KindArray, KindItems:
			out = flattenValues(out, v.Elements())
		default:
			out = append(out, v)
		}
	}
	return out
}

// Reversed returns the elements in reverse order.
func (s *Items) Reversed() *Items {
	out := slices.Clone(s.elems)
	slices.Reverse(out)
	return s.derive(out)
}

// SortBy returns the elements stably ordered by the key fn extracts.
func (s *Items) SortBy(key func(Value) Value) *Items {
	type keyed struct {
		key, v Value
	}
	pairs := make([]keyed, len(s.elems))
	for i, v := range s.elems {
		pairs[i] = keyed{key: key(v), v: v}
	}
	slices.SortStableFunc(pairs, func(a, b keyed) int {
		return Compare(a.key, b.key)
	})
	out := make([]Value, len(pairs))
	for i, p := range pairs {
		out[i] = p.v
	}
	return s.derive(out)
}

// Concat appends others, expanding arrays and sequences one level.
func (s *Items) Concat(others ...Value) *Items {
	out := slices.Clone(s.elems)
	for _, other := range others {
		switch other.Kind() {
		case KindArray, KindItems:
			out = append(out, other.Elements()...)
		default:
			out = append(out, other)
		}
	}
	return s.derive(out)
}

// Without drops every element Equal to one of values.
func (s *Items) Without(values ...Value) *Items {
	return s.Reject(func(v Value) bool {
		return slices.ContainsFunc(values, v.Equal)
	})
}

// Chunk splits the sequence into sequences of size elements; the last one
// may be shorter. A non-positive size yields an empty result.
func (s *Items) Chunk(size int) *Items {
	if size <= 0 {
		return s.derive(nil)
	}
	out := make([]Value, 0, (len(s.elems)+size-1)/size)
	for chunk := range slices.Chunk(s.elems, size) {
		out = append(out, NewItems(s.derive(slices.Clone(chunk))))
	}
	return s.derive(out)
}

// Partition splits the elements by pred: matches first, the rest second.
func (s *Items) Partition(pred func(Value) bool) (*Items, *Items) {
	var in, out []Value
	for _, v := range s.elems {
		if pred(v) {
			in = append(in, v)
		} else {
			out = append(out, v)
		}
	}
	return s.derive(in), s.derive(out)
}

// Invoke calls the member name on every instance element and collects the
// results. The first failure stops the walk.
func (s *Items) Invoke(name string, args ...Value) (*Items, error) {
	out := make([]Value, 0, len(s.elems))
	for _, v := range s.elems {
		inst := v.Instance()
		if inst == nil {
			return nil, &MemberError{Class: "Items", Name: name, Reason: "element is a " + v.Kind().String() + ", not an instance"}
		}
		result, err := inst.Invoke(name, args...)
		if err != nil {
			return nil, err
		}
		out = append(out, result)
	}
	return s.derive(out), nil
}

// Find returns the first element for which pred holds.
func (s *Items) Find(pred func(Value) bool) (Value, bool) {
	if i := s.FindIndex(pred); i >= 0 {
		return s.elems[i], true
	}
	return NewNil(), false
}

// FindIndex returns the index of the first match, or -1.
func (s *Items) FindIndex(pred func(Value) bool) int {
	return slices.IndexFunc(s.elems, pred)
}

// IndexOf returns the index of the first element Equal to v, or -1.
func (s *Items) IndexOf(v Value) int {
	return slices.IndexFunc(s.elems, v.Equal)
}

func (s *Items) Includes(v Value) bool { return s.IndexOf(v) >= 0 }

// Reduce folds the elements left to right starting from initial.
func (s *Items) Reduce(fn func(acc, v Value) Value, initial Value) Value {
	acc := initial
	for _, v := range s.elems {
		acc = fn(acc, v)
	}
	return acc
}

// Count returns the number of elements matching pred, or Len for a nil
// pred.
func (s *Items) Count(pred func(Value) bool) int {
	if pred == nil {
		return len(s.elems)
	}
	n := 0
	for _, v := range s.elems {
		if pred(v) {
			n++
		}
	}
	return n
}

func (s *Items) Any(pred func(Value) bool) bool {
	return slices.ContainsFunc(s.elems, pred)
}

// Every reports whether pred holds for all elements. It is true for an
// empty sequence.
func (s *Items) Every(pred func(Value) bool) bool {
	return !slices.ContainsFunc(s.elems, func(v Value) bool { return !pred(v) })
}

func (s *Items) None(pred func(Value) bool) bool {
	return !s.Any(pred)
}

// Join concatenates the string forms of the elements.
func (s *Items) Join(sep string) string {
	parts := make([]string, len(s.elems))
	for i, v := range s.elems {
		parts[i] = v.String()
	}
	return strings.Join(parts, sep)
}

// Min returns the smallest element by Compare, or Nil when empty.
func (s *Items) Min() Value {
	if len(s.elems) == 0 {
		return NewNil()
	}
	return slices.MinFunc(s.elems, Compare)
}

// Max returns the largest element by Compare, or Nil when empty.
func (s *Items) Max() Value {
	if len(s.elems) == 0 {
		return NewNil()
	}
	return slices.MaxFunc(s.elems, Compare)
}
