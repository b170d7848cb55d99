package generalize

// expression is a pending conjunction goal: v stands for a term that is
// close to every member of terms.
type expression struct {
	v     Var
	terms *TermSet
}

// conjBranch is one branch of a special conjunction run.
type conjBranch struct {
	root  Var
	exprs []expression
	subs  []Substitution
	fresh Var
}

func newConjBranch(terms *TermSet, fresh Var) *conjBranch {
	b := &conjBranch{fresh: fresh}
	b.root = b.freshVar()
	b.exprs = []expression{{v: b.root, terms: terms}}
	return b
}

func (b *conjBranch) freshVar() Var {
	v := b.fresh
	b.fresh++
	return v
}

func (b *conjBranch) clone() *conjBranch {
	return &conjBranch{
		root:  b.root,
		exprs: append([]expression(nil), b.exprs...),
		subs:  append([]Substitution(nil), b.subs...),
		fresh: b.fresh,
	}
}

// consistent reports whether some ground term is close to every member of
// terms. Sets with at most one non-anonymous member are trivially
// consistent.
func (s *Solver) consistent(terms *TermSet) bool {
	s.monitor.record(func(st *Stats) { st.ConsistencyChecks++ })
	_, _, ok := s.runConj(terms, Var0, true)
	if !ok {
		s.monitor.record(func(st *Stats) { st.Inconsistent++ })
	}
	return ok
}

// conjunction returns every ground term close to all members of terms,
// with anonymous argument positions filled by Anon, together with the
// counter value following the variables it used.
func (s *Solver) conjunction(terms *TermSet, fresh Var) (*TermSet, Var) {
	s.monitor.record(func(st *Stats) { st.Conjunctions++ })
	out, freshOut, _ := s.runConj(terms, fresh, false)
	s.log.Debugf("  conjunction: %s => %s", terms, out)
	return out, freshOut
}

// runConj explores REMOVE and REDUCE breadth first. In check mode it stops
// at the first branch that runs out of expressions and reports ok; in
// solution mode it collects the term built by every such branch.
func (s *Solver) runConj(terms *TermSet, fresh Var, check bool) (out *TermSet, freshOut Var, ok bool) {
	branches := []*conjBranch{newConjBranch(terms, fresh)}
	fresh = branches[0].fresh
	var results *termSetBuilder
	if !check {
		results = newTermSetBuilder(1)
	}
	explored := 0
	defer func() {
		s.monitor.record(func(st *Stats) { st.ConjBranches += explored })
	}()

branching:
	for len(branches) > 0 {
		b := branches[0]
		branches = branches[1:]
		explored++
		for len(b.exprs) > 0 {
			e := b.exprs[0]
			b.exprs = b.exprs[1:]
			live := e.terms.Filter(func(t Term) bool { return !IsAnon(t) })
			// REMOVE
			if live.IsEmpty() || (check && live.Len() <= 1) {
				b.subs = append(b.subs, NewSubstitution(e.v, Anon))
				continue
			}
			// REDUCE
			for _, h := range s.prox.CommonProximates(live) {
				q := s.projectArgs(h, live)
				child := b.clone()
				ys := make([]Var, len(q))
				for i := range q {
					ys[i] = child.freshVar()
					child.exprs = append(child.exprs, expression{v: ys[i], terms: q[i]})
				}
				if child.fresh > fresh {
					fresh = child.fresh
				}
				child.subs = append(child.subs, NewSubstitution(e.v, s.headTerm(h, ys)))
				branches = append(branches, child)
			}
			continue branching
		}
		if check {
			return nil, fresh, true
		}
		if b.fresh > fresh {
			fresh = b.fresh
		}
		t := ApplyAll(b.subs, b.root)
		assertf(t.IsGround(), "conjunction of %s left variables in %s", terms, t)
		results.add(t)
	}
	if check {
		return nil, fresh, false
	}
	return results.build(), fresh, true
}
