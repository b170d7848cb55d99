package generalize

import "fmt"

// Substitution replaces a single variable by a term.
type Substitution struct {
	Var  Var
	Term Term
}

// NewSubstitution returns {v ↦ t}. It panics when v is AnonVar, which
// would indicate a bug in the caller.
func NewSubstitution(v Var, t Term) Substitution {
	if v == AnonVar {
		panic("generalize: substitution targets the anonymous variable")
	}
	return Substitution{Var: v, Term: t}
}

func (s Substitution) String() string {
	return fmt.Sprintf("x%d ↦ %s", s.Var, s.Term)
}

// Apply substitutes s.Term for every occurrence of s.Var in t. Unchanged
// subtrees are shared with the input.
func (s Substitution) Apply(t Term) Term {
	switch n := t.(type) {
	case *Variable:
		if n.v == s.Var {
			return s.Term
		}
		return n
	case *Function:
		if n.ground {
			return n
		}
		var args []Term
		for i, a := range n.args {
			r := s.Apply(a)
			if args == nil && r != a {
				args = make([]Term, len(n.args))
				copy(args, n.args[:i])
			}
			if args != nil {
				args[i] = r
			}
		}
		if args == nil {
			return n
		}
		return NewFunction(n.head, args...)
	default:
		return t
	}
}

// ApplyAll applies subs to the variable base in list order, so the last
// substitution is applied last.
func ApplyAll(subs []Substitution, base Var) Term {
	var t Term = NewVariable(base)
	for _, s := range subs {
		t = s.Apply(t)
	}
	return t
}
