package main

import (
	"strings"

	"github.com/spf13/pflag"

	"github.com/gitrdm/proxgen/pkg/generalize"
	"github.com/gitrdm/proxgen/pkg/problem"
)

// solverFlags are the settings shared by solve and batch. A flag given on
// the command line overrides the value from a problem file.
type solverFlags struct {
	fs *pflag.FlagSet

	lambda      float64
	tnorm       string
	noMerge     bool
	noWitness   bool
	maxBranches int
	cacheSize   int
	metrics     bool
}

func newSolverFlags() *solverFlags {
	f := &solverFlags{}
	fs := pflag.NewFlagSet("solver", pflag.ContinueOnError)
	fs.Float64VarP(&f.lambda, "lambda", "l", 1, "cut value λ in [0,1]; used when the problem sets none")
	fs.StringVarP(&f.tnorm, "tnorm", "t", "min", "t-norm combining degrees, one of: "+strings.Join(generalize.TNormNames(), ", "))
	fs.BoolVar(&f.noMerge, "no-merge", false, "skip merging of solved AUTs")
	fs.BoolVar(&f.noWitness, "no-witness", false, "skip witness computation")
	fs.IntVar(&f.maxBranches, "max-branches", 0, "fail when a solve creates more configurations (0 means no limit)")
	fs.IntVar(&f.cacheSize, "cache-size", generalize.DefaultCacheSize, "entries in the common proximates memo")
	fs.BoolVar(&f.metrics, "metrics", false, "print search metrics in Prometheus text format")
	f.fs = fs
	return f
}

// apply writes the flags given on the command line into p. λ is also
// filled in when p has none.
func (f *solverFlags) apply(p *problem.Problem) {
	if f.fs.Changed("lambda") || p.Lambda == nil {
		lambda := f.lambda
		p.Lambda = &lambda
	}
	if f.fs.Changed("tnorm") {
		p.TNorm = f.tnorm
	}
	if f.fs.Changed("no-merge") {
		merge := !f.noMerge
		p.Merge = &merge
	}
	if f.fs.Changed("no-witness") {
		witness := !f.noWitness
		p.Witness = &witness
	}
	if f.fs.Changed("max-branches") {
		p.MaxBranches = f.maxBranches
	}
}

// options returns the base options for a solve. Settings from the
// problem are applied on top by problem.Problem.Solve.
func (f *solverFlags) options() (*generalize.Options, error) {
	opts := generalize.DefaultOptions()
	tn, err := generalize.TNormByName(f.tnorm)
	if err != nil {
		return nil, err
	}
	opts.TNorm = tn
	opts.Merge = !f.noMerge
	opts.Witness = !f.noWitness
	opts.MaxBranches = f.maxBranches
	opts.CacheSize = f.cacheSize
	return opts, nil
}
