package generalize

// expand replaces the term sets of every solved AUT in c by their special
// conjunctions, so that each side lists the ground terms the AUT's
// variable may stand for.
func (s *Solver) expand(c *Config) {
	fresh := c.FreshVar()
	for i, aut := range c.S {
		e1, next := s.conjunction(aut.T1, fresh)
		e2, _ := s.conjunction(aut.T2, next)
		assertf(!e1.IsEmpty() && !e2.IsEmpty(), "expanding %s produced an empty side", aut)
		c.S[i] = AUT{Var: aut.Var, T1: e1, T2: e2}
	}
}

// merge folds together solved AUTs whose sides stay consistent when
// joined. The variables of merged AUTs are all bound to one new variable.
// Counter values are only committed to c when a merge happened.
func (s *Solver) merge(c *Config) {
	remaining := c.S
	var result []AUT
	for len(remaining) > 0 {
		collector := remaining[0]
		remaining = remaining[1:]

		var notCollected []AUT
		var merged []Var
		fresh := c.PeekVar()
		for _, candidate := range remaining {
			l, freshL := s.conjunction(collector.T1.Union(candidate.T1), fresh)
			if l.IsEmpty() {
				notCollected = append(notCollected, candidate)
				continue
			}
			r, freshR := s.conjunction(collector.T2.Union(candidate.T2), freshL)
			if r.IsEmpty() {
				notCollected = append(notCollected, candidate)
				continue
			}
			merged = append(merged, candidate.Var)
			collector = AUT{Var: collector.Var, T1: l, T2: r}
			fresh = freshR
		}
		remaining = notCollected

		if len(merged) == 0 {
			result = append(result, collector)
			continue
		}
		merged = append(merged, collector.Var)
		y := NewVariable(fresh)
		c.commitFresh(fresh)
		for _, v := range merged {
			c.addSubstitution(v, y)
		}
		result = append(result, AUT{Var: fresh, T1: collector.T1, T2: collector.T2})
		s.monitor.record(func(st *Stats) { st.Merges += len(merged) - 1 })
		s.log.Debugf("MERGE %v => x%d", merged, fresh)
	}
	c.S = result
}
