package ok

// MergePolicy says how the values of a merge key are combined across a
// class hierarchy. It is fixed for each key when the class is built.
type MergePolicy int

const (
	// MergeConcat concatenates sequences; scalars count as one element.
	MergeConcat MergePolicy = iota
	// MergeKeyUnion unions hashes; later keys override earlier ones.
	MergeKeyUnion
)

func (p MergePolicy) String() string {
	switch p {
	case MergeConcat:
		return "concat"
	case MergeKeyUnion:
		return "union"
	default:
		return "unknown"
	}
}

// PolicyFor picks MergeKeyUnion when any contribution is a hash and
// MergeConcat otherwise.
func PolicyFor(values []Value) MergePolicy {
	for _, v := range values {
		if v.Kind() == KindHash {
			return MergeKeyUnion
		}
	}
	return MergeConcat
}

// Merge combines values in order. Nil contributions are skipped and the
// result is Nil when nothing contributed. The result never aliases any
// contribution. Under MergeKeyUnion contributions that are not hashes are
// ignored.
func (p MergePolicy) Merge(values []Value) Value {
	contributed := false
	switch p {
	case MergeKeyUnion:
		out := make(map[string]Value)
		for _, v := range values {
			if v.Kind() != KindHash {
				continue
			}
			contributed = true
			for k, item := range v.Hash() {
				out[k] = item
			}
		}
		if !contributed {
			return NewNil()
		}
		return NewHash(out)
	default:
		out := make([]Value, 0, len(values))
		for _, v := range values {
			switch v.Kind() {
			case KindNil:
				continue
			case KindArray, KindItems:
				out = append(out, v.Elements()...)
			default:
				out = append(out, v)
			}
			contributed = true
		}
		if !contributed {
			return NewNil()
		}
		return NewArray(out)
	}
}

// MergeValues merges values with the policy PolicyFor infers. Views use it
// to fold option class names into their inherited ones.
func MergeValues(values ...Value) Value {
	return PolicyFor(values).Merge(values)
}
