package ok

import (
	"iter"
	"slices"
)

// Comparator orders two values: negative when a sorts before b, zero when
// they are equivalent and positive otherwise.
type Comparator func(a, b Value) int

// Items is an ordered, index-addressable sequence that announces its
// structural changes on its embedded Hub:
//
//	add(item, index)   once per inserted element, with its final index
//	remove(item)       once per removed element, left to right
//	sort(items)        once per Sort, with the sequence itself
//
// Operations that derive a new sequence build it through the sequence
// factory (see SetFactory), so derived results are independent sequences
// with their own hubs. Items is not safe for concurrent use.
type Items struct {
	*Hub
	elems   []Value
	factory func([]Value) *Items
}

// NewSequence returns a sequence holding a copy of values. No events are
// emitted for the initial elements.
func NewSequence(values ...Value) *Items {
	items := &Items{elems: slices.Clone(values)}
	items.Hub = newHub(NewItems(items))
	return items
}

// SetFactory replaces the function used to wrap derived results. A nil fn
// restores NewSequence. Derived sequences inherit the factory.
func (s *Items) SetFactory(fn func([]Value) *Items) {
	s.factory = fn
}

func (s *Items) derive(values []Value) *Items {
	var out *Items
	if s.factory != nil {
		out = s.factory(values)
	}
	if out == nil {
		out = NewSequence(values...)
	}
	out.factory = s.factory
	return out
}

// Value returns the sequence as a Value. It is what sort events carry.
func (s *Items) Value() Value { return NewItems(s) }

func (s *Items) Len() int { return len(s.elems) }

// Values returns a copy of the elements.
func (s *Items) Values() []Value { return slices.Clone(s.elems) }

// All yields index/element pairs over a snapshot of the sequence.
func (s *Items) All() iter.Seq2[int, Value] {
	snapshot := slices.Clone(s.elems)
	return func(yield func(int, Value) bool) {
		for i, v := range snapshot {
			if !yield(i, v) {
				return
			}
		}
	}
}

// At returns the element at index. Negative indexes count from the end.
// Out of range reads return Nil.
func (s *Items) At(index int) Value {
	if index < 0 {
		index += len(s.elems)
	}
	if index < 0 || index >= len(s.elems) {
		return NewNil()
	}
	return s.elems[index]
}

func (s *Items) String() string { return NewItems(s).String() }

// Push appends items and returns the new length.
func (s *Items) Push(items ...Value) (int, error) {
	for _, item := range items {
		s.elems = append(s.elems, item)
		if err := s.Trigger(EventAdd, item, NewInt(int64(len(s.elems)-1))); err != nil {
			return len(s.elems), err
		}
	}
	return len(s.elems), nil
}

// Pop removes and returns the last element, or Nil when empty.
func (s *Items) Pop() (Value, error) {
	if len(s.elems) == 0 {
		return NewNil(), nil
	}
	last := len(s.elems) - 1
	item := s.elems[last]
	s.elems[last] = Value{}
	s.elems = s.elems[:last]
	return item, s.Trigger(EventRemove, item)
}

// Shift removes and returns the first element, or Nil when empty.
func (s *Items) Shift() (Value, error) {
	if len(s.elems) == 0 {
		return NewNil(), nil
	}
	item := s.elems[0]
	s.elems = slices.Delete(s.elems, 0, 1)
	return item, s.Trigger(EventRemove, item)
}

// Unshift inserts items at the front in argument order and returns the new
// length.
func (s *Items) Unshift(items ...Value) (int, error) {
	return s.Insert(0, items...)
}

// Insert places items contiguously starting at start, shifting later
// elements right. A negative start counts from the end. Each element
// fires add with its final index, left to right. When a handler shrinks
// the sequence, the remaining items go to the end.
func (s *Items) Insert(start int, items ...Value) (int, error) {
	start = s.clampIndex(start)
	for i, item := range items {
		index := min(start+i, len(s.elems))
		s.elems = slices.Insert(s.elems, index, item)
		if err := s.Trigger(EventAdd, item, NewInt(int64(index))); err != nil {
			return len(s.elems), err
		}
	}
	return len(s.elems), nil
}

// Remove deletes up to count elements from start and returns them. A
// negative start counts from the end and a negative count removes through
// the end. Each element fires remove, left to right. Removal stops early
// when a handler leaves nothing at start.
func (s *Items) Remove(start, count int) ([]Value, error) {
	start = s.clampIndex(start)
	if count < 0 || count > len(s.elems)-start {
		count = len(s.elems) - start
	}
	removed := make([]Value, 0, count)
	for ; count > 0 && start < len(s.elems); count-- {
		item := s.elems[start]
		s.elems = slices.Delete(s.elems, start, start+1)
		removed = append(removed, item)
		if err := s.Trigger(EventRemove, item); err != nil {
			return removed, err
		}
	}
	return removed, nil
}

// Empty removes every element.
func (s *Items) Empty() ([]Value, error) {
	return s.Remove(0, -1)
}

// Splice removes count elements at index, inserts items there and returns
// the removed elements as a new sequence.
func (s *Items) Splice(index, count int, items ...Value) (*Items, error) {
	index = s.clampIndex(index)
	var removed []Value
	if count != 0 {
		var err error
		if removed, err = s.Remove(index, count); err != nil {
			return s.derive(removed), err
		}
	}
	if len(items) > 0 {
		if _, err := s.Insert(index, items...); err != nil {
			return s.derive(removed), err
		}
	}
	return s.derive(removed), nil
}

// Set replaces every element with items and returns the new length.
func (s *Items) Set(items ...Value) (int, error) {
	if _, err := s.Empty(); err != nil {
		return len(s.elems), err
	}
	return s.Insert(0, items...)
}

// Sort orders the sequence in place with a stable sort. A nil cmp uses
// Compare. One sort event is fired with the sequence itself.
func (s *Items) Sort(cmp Comparator) (*Items, error) {
	if cmp == nil {
		cmp = Compare
	}
	slices.SortStableFunc(s.elems, cmp)
	return s, s.Trigger(EventSort, s.Value())
}

// Clone returns an independent sequence with the same elements.
func (s *Items) Clone() *Items {
	return s.derive(s.Values())
}

// clampIndex resolves a negative index from the end and clamps the result
// to [0, Len()].
func (s *Items) clampIndex(index int) int {
	n := len(s.elems)
	if index < 0 {
		index += n
	}
	return max(0, min(index, n))
}
