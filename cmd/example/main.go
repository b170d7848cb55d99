// Package main walks through the generalization library.
//
// Each section builds a small problem, solves it and prints the
// solutions together with the search statistics.
package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/gitrdm/proxgen/pkg/generalize"
	"github.com/gitrdm/proxgen/pkg/syntax"
)

func main() {
	fmt.Println("=== proxgen Examples ===")
	fmt.Println()

	syntacticGeneralization()
	proximateConstants()
	arityMismatch()
	tnormComparison()
	monitoring()
}

// syntacticGeneralization shows that with an empty relation the result is
// the classic least general generalization.
func syntacticGeneralization() {
	fmt.Println("1. Syntactic Generalization:")

	a, b := generalize.NewMappedVariable("a"), generalize.NewMappedVariable("b")
	lhs := generalize.NewFunction("f", a, a, b)
	rhs := generalize.NewFunction("f", b, b, b)

	sols, err := generalize.Solve(lhs, rhs, nil, 1, generalize.Minimum, true, true)
	if err != nil {
		fmt.Printf("   error: %v\n", err)
		return
	}
	fmt.Printf("   %s =^= %s\n", lhs, rhs)
	printSolutions(sols)
	fmt.Println()
}

// proximateConstants relates two constants and shows how λ cuts the
// relation off.
func proximateConstants() {
	fmt.Println("2. Proximate Constants:")

	lhs, rhs, err := syntax.ParseEquation("f(a, c) =^= f(b, c)")
	if err != nil {
		fmt.Printf("   error: %v\n", err)
		return
	}
	rels, err := syntax.ParseRelations("a b {} 0.7", syntax.Arities(lhs, rhs))
	if err != nil {
		fmt.Printf("   error: %v\n", err)
		return
	}

	for _, lambda := range []float64{0.5, 0.8} {
		sols, err := generalize.Solve(lhs, rhs, rels, lambda, generalize.Minimum, true, true)
		if err != nil {
			fmt.Printf("   error: %v\n", err)
			return
		}
		sols.Sort()
		fmt.Printf("   λ = %g:\n", lambda)
		printSolutions(sols)
	}
	fmt.Println()
}

// arityMismatch relates symbols of different arity. Arguments without a
// counterpart disappear from the generalizer.
func arityMismatch() {
	fmt.Println("3. Symbols of Different Arity:")

	p, err := syntax.ParseProblem(
		"book(title, author, year) =^= novel(author, title)",
		"book novel {(1,2), (2,1)} 0.8",
	)
	if err != nil {
		fmt.Printf("   error: %v\n", err)
		return
	}
	solver, err := generalize.NewSolver(p.LHS, p.RHS, p.Relations, 0.6, nil)
	if err != nil {
		fmt.Printf("   error: %v\n", err)
		return
	}
	sols, err := solver.Run()
	if err != nil {
		fmt.Printf("   error: %v\n", err)
		return
	}
	sols.Sort()
	fmt.Printf("   R = %s, type %s\n", solver.ProximityMap().CompactView(), solver.ProximityMap().RestrictionType())
	printSolutions(sols)
	fmt.Println()
}

// tnormComparison solves one problem under different t-norms.
func tnormComparison() {
	fmt.Println("4. T-norms:")

	p, err := syntax.ParseProblem("f(a) =^= g(b)", "f g {(1,1)} 0.8; a b {} 0.8")
	if err != nil {
		fmt.Printf("   error: %v\n", err)
		return
	}
	for _, name := range []string{"min", "product", "lukasiewicz"} {
		tn, err := generalize.TNormByName(name)
		if err != nil {
			fmt.Printf("   error: %v\n", err)
			return
		}
		sols, err := generalize.Solve(p.LHS, p.RHS, p.Relations, 0.6, tn, true, false)
		if err != nil {
			fmt.Printf("   error: %v\n", err)
			return
		}
		sols.Sort()
		fmt.Printf("   %-12s %v\n", name, sols.Generalizers())
	}
	fmt.Println()
}

// monitoring collects search statistics and sends debug logs to stderr.
func monitoring() {
	fmt.Println("5. Monitoring:")

	p, err := syntax.ParseProblem("h(f(a, a), g(b)) =^= h(f(b, b), k(c))", "a b {} 0.9; b c {} 0.9; g k {(1,1)} 0.8")
	if err != nil {
		fmt.Printf("   error: %v\n", err)
		return
	}

	logger := log.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(log.WarnLevel)
	if os.Getenv("PROXGEN_DEBUG") != "" {
		logger.SetLevel(log.DebugLevel)
	}

	opts := generalize.DefaultOptions()
	opts.Logger = logger
	opts.Monitor = generalize.NewMonitor()
	sols, err := generalize.SolveWithOptions(p.LHS, p.RHS, p.Relations, 0.7, opts)
	if err != nil {
		fmt.Printf("   error: %v\n", err)
		return
	}

	st := opts.Monitor.GetStats()
	fmt.Printf("   %d solution(s)\n", len(sols))
	fmt.Printf("   rules: TRI %d, DEC %d, SOL %d\n", st.Trivial, st.Decompose, st.Solve)
	fmt.Printf("   configurations: %d created, %d linear, peak queue %d\n", st.Branches, st.LinearConfigs, st.MaxQueue)
	fmt.Printf("   conjunctions: %d runs, %d checks, %d branches\n", st.Conjunctions, st.ConsistencyChecks, st.ConjBranches)
	fmt.Printf("   merges: %d, memo hits/misses: %d/%d\n", st.Merges, st.CacheHits, st.CacheMisses)
	fmt.Printf("   time: search %v, post-processing %v\n", st.SearchTime, st.PostTime)
}

func printSolutions(sols generalize.Solutions) {
	if len(sols) == 0 {
		fmt.Println("   no solutions")
		return
	}
	for _, s := range sols {
		fmt.Printf("   %s\n", s)
	}
}
