package generalize

import "strings"

// TermSet is an immutable, duplicate-free collection of terms. Iteration
// follows insertion order, which keeps the search deterministic, while
// Equal and Hash ignore order.
type TermSet struct {
	terms []Term
	hash  uint64
}

var emptyTermSet = &TermSet{}

// NewTermSet returns the set of the given terms. Later duplicates are
// dropped.
func NewTermSet(terms ...Term) *TermSet {
	if len(terms) == 0 {
		return emptyTermSet
	}
	b := newTermSetBuilder(len(terms))
	for _, t := range terms {
		b.add(t)
	}
	return b.build()
}

// Len returns the number of terms.
func (s *TermSet) Len() int { return len(s.terms) }

// IsEmpty reports whether the set has no terms.
func (s *TermSet) IsEmpty() bool { return len(s.terms) == 0 }

// At returns the i-th term in iteration order.
func (s *TermSet) At(i int) Term { return s.terms[i] }

// Terms returns a copy of the terms in iteration order.
func (s *TermSet) Terms() []Term {
	out := make([]Term, len(s.terms))
	copy(out, s.terms)
	return out
}

// Hash returns an order-independent hash of the set.
func (s *TermSet) Hash() uint64 { return s.hash }

// Contains reports whether t is a member.
func (s *TermSet) Contains(t Term) bool {
	for _, u := range s.terms {
		if u.Hash() == t.Hash() && u.Equal(t) {
			return true
		}
	}
	return false
}

// Equal reports whether both sets hold the same terms, in any order.
func (s *TermSet) Equal(other *TermSet) bool {
	if s == other {
		return true
	}
	if other == nil || len(s.terms) != len(other.terms) || s.hash != other.hash {
		return false
	}
	for _, t := range s.terms {
		if !other.Contains(t) {
			return false
		}
	}
	return true
}

// Union returns the members of s followed by the members of other that are
// not in s.
func (s *TermSet) Union(other *TermSet) *TermSet {
	if other.IsEmpty() {
		return s
	}
	if s.IsEmpty() {
		return other
	}
	b := newTermSetBuilder(len(s.terms) + len(other.terms))
	for _, t := range s.terms {
		b.add(t)
	}
	for _, t := range other.terms {
		b.add(t)
	}
	return b.build()
}

// Filter returns the members for which keep returns true. The receiver is
// returned as is when nothing is dropped.
func (s *TermSet) Filter(keep func(Term) bool) *TermSet {
	kept := make([]Term, 0, len(s.terms))
	for _, t := range s.terms {
		if keep(t) {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(s.terms) {
		return s
	}
	return newTermSetUnchecked(kept)
}

func (s *TermSet) String() string {
	parts := make([]string, len(s.terms))
	for i, t := range s.terms {
		parts[i] = t.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// termSetBuilder accumulates distinct terms in insertion order.
type termSetBuilder struct {
	terms  []Term
	byHash map[uint64][]Term
}

func newTermSetBuilder(capacity int) *termSetBuilder {
	return &termSetBuilder{
		terms:  make([]Term, 0, capacity),
		byHash: make(map[uint64][]Term, capacity),
	}
}

func (b *termSetBuilder) add(t Term) bool {
	h := t.Hash()
	for _, u := range b.byHash[h] {
		if u.Equal(t) {
			return false
		}
	}
	b.byHash[h] = append(b.byHash[h], t)
	b.terms = append(b.terms, t)
	return true
}

func (b *termSetBuilder) len() int { return len(b.terms) }

func (b *termSetBuilder) build() *TermSet {
	if len(b.terms) == 0 {
		return emptyTermSet
	}
	return newTermSetUnchecked(b.terms)
}

// newTermSetUnchecked wraps terms that are already known to be distinct.
func newTermSetUnchecked(terms []Term) *TermSet {
	if len(terms) == 0 {
		return emptyTermSet
	}
	// Sum of mixed element hashes, independent of order.
	var h uint64
	for _, t := range terms {
		h += mix64(t.Hash())
	}
	return &TermSet{terms: terms, hash: h}
}

// mix64 is the splitmix64 finalizer.
func mix64(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
