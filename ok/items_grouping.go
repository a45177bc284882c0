package ok

// GroupBy buckets the elements by the string form of key(v). Each bucket
// is a new sequence keeping the original order.
func (s *Items) GroupBy(key func(Value) Value) map[string]*Items {
	buckets := make(map[string][]Value)
	for _, v := range s.elems {
		k := key(v).String()
		buckets[k] = append(buckets[k], v)
	}
	groups := make(map[string]*Items, len(buckets))
	for k, values := range buckets {
		groups[k] = s.derive(values)
	}
	return groups
}

// Tally counts the elements by their string form.
func (s *Items) Tally() map[string]int {
	counts := make(map[string]int)
	for _, v := range s.elems {
		counts[v.String()]++
	}
	return counts
}

// IndexBy maps the string form of key(v) to v. Later elements win.
func (s *Items) IndexBy(key func(Value) Value) map[string]Value {
	index := make(map[string]Value, len(s.elems))
	for _, v := range s.elems {
		index[key(v).String()] = v
	}
	return index
}
