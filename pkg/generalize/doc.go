// Package generalize computes approximate anti-unifiers of two ground
// terms under a proximity relation.
//
// Two terms are generalized by a term r with variables such that, for a
// cut value λ, r approximates each side with a degree of at least λ. Symbol
// proximity is given by ProximityRelation values that relate function
// symbols, possibly of different arity, together with a mapping between
// their argument positions. Degrees are aggregated with a t-norm, Minimum
// by default.
//
// The search applies three rules to anti-unification triples (AUTs):
//
//	TRI  both sides are empty, the variable becomes the anonymous term "_"
//	DEC  decompose by every common proximate of the heads on both sides
//	SOL  nothing decomposes, the AUT is solved and kept for witnesses
//
// Solved AUTs are then expanded by the special conjunction, which
// enumerates the ground terms close to every member of a term set, and
// compatible AUTs are merged. Each solution carries the generalizer, the
// two degrees and, on request, a witness per side mapping each variable of
// the generalizer to the terms it stands for.
//
// Basic usage:
//
//	lhs := generalize.NewFunction("f", generalize.NewMappedVariable("a"))
//	rhs := generalize.NewFunction("g", generalize.NewMappedVariable("b"))
//	rels := []generalize.ProximityRelation{
//		{F: "f", G: "g", Proximity: 0.8, ArgRelation: [][]int{{0}}},
//	}
//	sols, err := generalize.Solve(lhs, rhs, rels, 0.5, generalize.Minimum, true, true)
//
// Terms and relations are usually parsed from text with package syntax.
package generalize
