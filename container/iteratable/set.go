package iteratable

// Set is a destructively-iteratable set: in-progress iteration observes
// elements added after the iteration started, which is exactly what the
// fixpoint closure of lr1's Analysis.Closure (Desc) needs (add work items
// to a set while draining it).
//
// Equality of elements is Go's built-in ==, so Set is only safe for
// comparable element types (small value structs or pointers), which is
// all this module ever stores in one.
type Set struct {
	elems  []interface{}
	index  map[interface{}]int
	cursor int
}

// New creates a Set, optionally pre-populated.
func New(vals ...interface{}) *Set {
	s := &Set{index: make(map[interface{}]int)}
	for _, v := range vals {
		s.Add(v)
	}
	return s
}

// Add inserts v if not already present. Returns true if it was inserted.
// If an iteration is in progress, the new element will be visited by a
// subsequent call to Next.
func (s *Set) Add(v interface{}) bool {
	if _, ok := s.index[v]; ok {
		return false
	}
	s.index[v] = len(s.elems)
	s.elems = append(s.elems, v)
	return true
}

// Remove deletes v, if present. Removing an element behind the iteration
// cursor does not affect the remainder of an in-progress iteration other
// than shortening it; elements are compacted in place.
func (s *Set) Remove(v interface{}) bool {
	i, ok := s.index[v]
	if !ok {
		return false
	}
	copy(s.elems[i:], s.elems[i+1:])
	s.elems = s.elems[:len(s.elems)-1]
	for j := i; j < len(s.elems); j++ {
		s.index[s.elems[j]] = j
	}
	delete(s.index, v)
	if s.cursor > i {
		s.cursor--
	}
	return true
}

// Contains reports whether v is a member.
func (s *Set) Contains(v interface{}) bool {
	_, ok := s.index[v]
	return ok
}

// Size returns the number of elements.
func (s *Set) Size() int { return len(s.elems) }

// Empty reports whether the set has no elements.
func (s *Set) Empty() bool { return len(s.elems) == 0 }

// Values returns a snapshot slice of all current elements, in insertion
// order.
func (s *Set) Values() []interface{} {
	out := make([]interface{}, len(s.elems))
	copy(out, s.elems)
	return out
}

// AppendTo appends all elements to dst and returns the extended slice,
// mirroring the FOLLOW-set consumption pattern of lr/tables.go
// ("lookaheads.AppendTo(nil)").
func (s *Set) AppendTo(dst []interface{}) []interface{} {
	return append(dst, s.elems...)
}

// Copy returns a shallow copy: same elements, independent set/iteration
// state.
func (s *Set) Copy() *Set {
	c := New()
	for _, v := range s.elems {
		c.Add(v)
	}
	return c
}

// Union adds every element of other into s and returns s, for chaining.
func (s *Set) Union(other *Set) *Set {
	for _, v := range other.elems {
		s.Add(v)
	}
	return s
}

// Difference returns a new set containing the elements of s not present
// in other. Does not mutate s or other.
func (s *Set) Difference(other *Set) *Set {
	d := New()
	for _, v := range s.elems {
		if !other.Contains(v) {
			d.Add(v)
		}
	}
	return d
}

// Equals reports whether s and other contain exactly the same elements.
func (s *Set) Equals(other *Set) bool {
	if other == nil {
		return false
	}
	if len(s.elems) != len(other.elems) {
		return false
	}
	for _, v := range s.elems {
		if !other.Contains(v) {
			return false
		}
	}
	return true
}

// IterateOnce (re)starts an iteration at the beginning. Combined with
// Next/Item, this supports the "drain a worklist that keeps growing"
// pattern: new elements Add-ed during iteration are still visited before
// Next returns false.
func (s *Set) IterateOnce() {
	s.cursor = 0
}

// Next advances the iteration cursor, returning false once every element
// present at the time of the call (including ones added mid-iteration)
// has been visited.
func (s *Set) Next() bool {
	if s.cursor >= len(s.elems) {
		return false
	}
	s.cursor++
	return true
}

// Item returns the element the most recent Next call advanced onto.
func (s *Set) Item() interface{} {
	if s.cursor == 0 || s.cursor > len(s.elems) {
		return nil
	}
	return s.elems[s.cursor-1]
}
