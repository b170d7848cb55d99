package syntax

import (
	"github.com/gitrdm/proxgen/pkg/generalize"
)

// Problem is a parsed generalization problem.
type Problem struct {
	LHS, RHS  generalize.Term
	Relations []generalize.ProximityRelation
}

// ParseProblem parses an equation and its relations. Arities of the
// symbols in the equation are used to interpret the relations.
func ParseProblem(equation, relations string) (*Problem, error) {
	lhs, rhs, err := ParseEquation(equation)
	if err != nil {
		return nil, err
	}
	rels, err := ParseRelations(relations, Arities(lhs, rhs))
	if err != nil {
		return nil, err
	}
	return &Problem{LHS: lhs, RHS: rhs, Relations: rels}, nil
}

// Arities returns the arity of every symbol in terms. When a symbol is
// used with several arities the first one wins; the solver reports the
// conflict.
func Arities(terms ...generalize.Term) map[string]int {
	out := make(map[string]int)
	var walk func(t generalize.Term)
	walk = func(t generalize.Term) {
		if t.IsVar() {
			return
		}
		if _, ok := out[t.Head()]; !ok {
			out[t.Head()] = len(t.Args())
		}
		for _, a := range t.Args() {
			walk(a)
		}
	}
	for _, t := range terms {
		walk(t)
	}
	return out
}
