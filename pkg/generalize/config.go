package generalize

import (
	"fmt"
	"strings"
)

// AUT is an anti-unification triple: the variable Var stands for a
// generalization of the ground terms in T1 and of those in T2.
type AUT struct {
	Var    Var
	T1, T2 *TermSet
}

func (a AUT) String() string {
	return fmt.Sprintf("x%d: %s =^= %s", a.Var, a.T1, a.T2)
}

// Config is the state of one branch of the search. It is mutable and
// owned by exactly one branch; branching clones it.
type Config struct {
	// A holds pending AUTs, S solved AUTs awaiting post-processing.
	A, S []AUT

	// Substitutions are applied in order to Var0 to build the generalizer.
	Substitutions []Substitution

	Alpha1, Alpha2 float64

	fresh Var
}

// NewConfig returns the initial configuration for lhs =^= rhs.
func NewConfig(lhs, rhs Term) *Config {
	c := &Config{Alpha1: 1, Alpha2: 1}
	c.A = append(c.A, AUT{Var: c.FreshVar(), T1: NewTermSet(lhs), T2: NewTermSet(rhs)})
	return c
}

// Clone returns an independent copy. AUTs and terms are immutable and
// therefore shared.
func (c *Config) Clone() *Config {
	return &Config{
		A:             append([]AUT(nil), c.A...),
		S:             append([]AUT(nil), c.S...),
		Substitutions: append([]Substitution(nil), c.Substitutions...),
		Alpha1:        c.Alpha1,
		Alpha2:        c.Alpha2,
		fresh:         c.fresh,
	}
}

// FreshVar allocates the next variable.
func (c *Config) FreshVar() Var {
	v := c.fresh
	c.fresh++
	return v
}

// PeekVar returns a variable id above every id allocated so far without
// allocating it.
func (c *Config) PeekVar() Var {
	return c.fresh + 1
}

// commitFresh moves the counter to v so that PeekVar lies above v.
func (c *Config) commitFresh(v Var) {
	if v > c.fresh {
		c.fresh = v
	}
}

func (c *Config) popA() AUT {
	a := c.A[0]
	c.A = c.A[1:]
	return a
}

func (c *Config) addSubstitution(v Var, t Term) {
	c.Substitutions = append(c.Substitutions, NewSubstitution(v, t))
}

// Generalizer applies the accumulated substitutions to Var0.
func (c *Config) Generalizer() Term {
	return ApplyAll(c.Substitutions, Var0)
}

func (c *Config) String() string {
	var sb strings.Builder
	sb.WriteString(c.Generalizer().String())
	if len(c.A) > 0 {
		sb.WriteString("  A.. ")
		sb.WriteString(joinAUTs(c.A))
	}
	if len(c.S) > 0 {
		sb.WriteString("  S.. ")
		sb.WriteString(joinAUTs(c.S))
	}
	fmt.Fprintf(&sb, "  α.. %s %s", formatDegree(c.Alpha1), formatDegree(c.Alpha2))
	return sb.String()
}

func joinAUTs(auts []AUT) string {
	parts := make([]string, len(auts))
	for i, a := range auts {
		parts[i] = a.String()
	}
	return strings.Join(parts, "; ")
}
