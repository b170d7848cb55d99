package generalize_test

import (
	"fmt"

	"github.com/gitrdm/proxgen/pkg/generalize"
)

// ExampleSolve generalizes f(a,a) and f(b,b). The two differences are
// merged into a single variable.
func ExampleSolve() {
	a := generalize.NewMappedVariable("a")
	b := generalize.NewMappedVariable("b")
	lhs := generalize.NewFunction("f", a, a)
	rhs := generalize.NewFunction("f", b, b)

	sols, err := generalize.Solve(lhs, rhs, nil, 1, generalize.Minimum, true, true)
	if err != nil {
		panic(err)
	}
	for _, s := range sols {
		fmt.Println(s)
	}
	// Output:
	// r.. f(x7,x7)  W1.. {x7: {a}}  W2.. {x7: {b}}  α.. 1 1
}

// ExampleSolveWithOptions relates two function symbols of different arity.
// The second argument of g has no counterpart in f.
func ExampleSolveWithOptions() {
	lhs := generalize.NewFunction("f", generalize.NewMappedVariable("a"))
	rhs := generalize.NewFunction("g", generalize.NewMappedVariable("a"), generalize.NewMappedVariable("b"))
	relations := []generalize.ProximityRelation{
		{F: "f", G: "g", Proximity: 0.7, ArgRelation: [][]int{{0}}},
	}

	opts := generalize.DefaultOptions()
	opts.Witness = false
	sols, err := generalize.SolveWithOptions(lhs, rhs, relations, 0.5, opts)
	if err != nil {
		panic(err)
	}
	sols.Sort()
	for _, s := range sols {
		fmt.Println(s)
	}
	// Output:
	// r.. f(a)  α.. 1 0.7
	// r.. g(a,b)  α.. 0.7 1
}

func ExampleTNormByName() {
	tn, err := generalize.TNormByName("product")
	if err != nil {
		panic(err)
	}
	fmt.Println(tn(0.5, 0.5))
	// Output: 0.25
}
