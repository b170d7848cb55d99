package generalize

import (
	"encoding/binary"
	"math"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Witness maps each variable of a generalizer to the terms it stands for
// on one side of the problem.
type Witness map[Var]*TermSet

// Vars returns the witnessed variables in ascending order.
func (w Witness) Vars() []Var {
	vars := make([]Var, 0, len(w))
	for v := range w {
		vars = append(vars, v)
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i] < vars[j] })
	return vars
}

// Equal reports whether both witnesses hold equal sets for the same
// variables.
func (w Witness) Equal(other Witness) bool {
	if len(w) != len(other) {
		return false
	}
	for v, terms := range w {
		o, ok := other[v]
		if !ok || !terms.Equal(o) {
			return false
		}
	}
	return true
}

func (w Witness) hash() uint64 {
	var h uint64
	for v, terms := range w {
		h += mix64(uint64(v)*0x9e3779b97f4a7c15 ^ terms.Hash())
	}
	return h
}

func (w Witness) String() string {
	if w == nil {
		return "{}"
	}
	var sb strings.Builder
	sb.WriteByte('{')
	for i, v := range w.Vars() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(NewVariable(v).String())
		sb.WriteString(": ")
		sb.WriteString(w[v].String())
	}
	sb.WriteByte('}')
	return sb.String()
}

// Solution is one generalization r of the problem together with the
// degrees at which r approximates each side. W1 and W2 are nil when
// witnesses were not requested.
type Solution struct {
	Generalizer    Term
	W1, W2         Witness
	Alpha1, Alpha2 float64
}

// Equal reports structural equality of generalizers, degrees and
// witnesses.
func (s Solution) Equal(other Solution) bool {
	return s.Alpha1 == other.Alpha1 && s.Alpha2 == other.Alpha2 &&
		s.Generalizer.Equal(other.Generalizer) &&
		s.W1.Equal(other.W1) && s.W2.Equal(other.W2)
}

// Hash is consistent with Equal.
func (s Solution) Hash() uint64 {
	var buf [8]byte
	d := xxhash.New()
	binary.LittleEndian.PutUint64(buf[:], s.Generalizer.Hash())
	_, _ = d.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(s.Alpha1))
	_, _ = d.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(s.Alpha2))
	_, _ = d.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], s.W1.hash())
	_, _ = d.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], s.W2.hash())
	_, _ = d.Write(buf[:])
	return d.Sum64()
}

func (s Solution) String() string {
	var sb strings.Builder
	sb.WriteString("r.. ")
	sb.WriteString(s.Generalizer.String())
	if s.W1 != nil || s.W2 != nil {
		sb.WriteString("  W1.. ")
		sb.WriteString(s.W1.String())
		sb.WriteString("  W2.. ")
		sb.WriteString(s.W2.String())
	}
	sb.WriteString("  α.. ")
	sb.WriteString(formatDegree(s.Alpha1))
	sb.WriteByte(' ')
	sb.WriteString(formatDegree(s.Alpha2))
	return sb.String()
}

// Solutions is a duplicate-free list of solutions.
type Solutions []Solution

// Contains reports whether an equal solution is present.
func (ss Solutions) Contains(s Solution) bool {
	for _, o := range ss {
		if o.Equal(s) {
			return true
		}
	}
	return false
}

// Generalizers returns the generalizer of every solution, in order.
func (ss Solutions) Generalizers() []Term {
	out := make([]Term, len(ss))
	for i, s := range ss {
		out[i] = s.Generalizer
	}
	return out
}

// Sort orders the solutions by generalizer text, then by degrees.
func (ss Solutions) Sort() {
	sort.SliceStable(ss, func(i, j int) bool {
		a, b := ss[i], ss[j]
		if as, bs := a.Generalizer.String(), b.Generalizer.String(); as != bs {
			return as < bs
		}
		if a.Alpha1 != b.Alpha1 {
			return a.Alpha1 > b.Alpha1
		}
		return a.Alpha2 > b.Alpha2
	})
}

func (ss Solutions) String() string {
	parts := make([]string, len(ss))
	for i, s := range ss {
		parts[i] = s.String()
	}
	return strings.Join(parts, "\n")
}

// buildSolutions turns every configuration into a solution and drops
// duplicates, keeping the first occurrence.
func (s *Solver) buildSolutions(configs []*Config) Solutions {
	seen := make(map[uint64][]int)
	var out Solutions
	for _, c := range configs {
		sol := Solution{
			Generalizer: c.Generalizer(),
			Alpha1:      c.Alpha1,
			Alpha2:      c.Alpha2,
		}
		assertf(sol.Alpha1 >= s.lambda && sol.Alpha2 >= s.lambda,
			"solution %s fell below λ=%s", sol.Generalizer, formatDegree(s.lambda))
		if s.opts.Witness {
			sol.W1, sol.W2 = witnesses(c, sol.Generalizer)
		}
		h := sol.Hash()
		dup := false
		for _, i := range seen[h] {
			if out[i].Equal(sol) {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		seen[h] = append(seen[h], len(out))
		out = append(out, sol)
		s.log.Debugf("solution: %s", sol)
	}
	s.monitor.record(func(st *Stats) { st.Solutions += len(out) })
	s.log.Infof("%d solution(s)", len(out))
	return out
}

// witnesses pushes every variable of r through the solved AUTs of c, once
// per side.
func witnesses(c *Config, r Term) (Witness, Witness) {
	w1, w2 := make(Witness), make(Witness)
	for _, v := range NamedVars(r) {
		w1[v] = witnessSide(c.S, v, func(a AUT) *TermSet { return a.T1 })
		w2[v] = witnessSide(c.S, v, func(a AUT) *TermSet { return a.T2 })
	}
	return w1, w2
}

func witnessSide(auts []AUT, v Var, side func(AUT) *TermSet) *TermSet {
	acc := NewTermSet(NewVariable(v))
	for _, aut := range auts {
		terms := side(aut)
		b := newTermSetBuilder(acc.Len() * terms.Len())
		for i := 0; i < acc.Len(); i++ {
			for j := 0; j < terms.Len(); j++ {
				b.add(Substitution{Var: aut.Var, Term: terms.At(j)}.Apply(acc.At(i)))
			}
		}
		acc = b.build()
	}
	return acc
}
