package generalize

import (
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Solver computes the approximate generalizations of one problem.
//
// A Solver is not safe for concurrent use: its proximity map memoises
// common proximates on demand. Solve independent problems with independent
// solvers.
type Solver struct {
	lhs, rhs Term
	lambda   float64
	prox     *ProximityMap
	opts     *Options
	log      logrus.FieldLogger
	monitor  *Monitor

	// branches counts configurations created by the current run.
	branches int
}

// NewSolver validates the problem lhs =^= rhs under relations and λ and
// prepares a solver for it. Nil opts selects DefaultOptions.
func NewSolver(lhs, rhs Term, relations []ProximityRelation, lambda float64, opts *Options) (*Solver, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	opts = opts.withDefaults()
	if opts.MaxBranches < 0 {
		return nil, errors.Wrapf(ErrInvalidArgument, "max branches %d must not be negative", opts.MaxBranches)
	}
	prox, err := NewProximityMap(lhs, rhs, relations, lambda, opts)
	if err != nil {
		return nil, err
	}
	return &Solver{
		lhs:     lhs,
		rhs:     rhs,
		lambda:  lambda,
		prox:    prox,
		opts:    opts,
		log:     opts.Logger,
		monitor: opts.Monitor,
	}, nil
}

// Solve computes the generalizations of lhs and rhs. It is the one-call
// form of NewSolver followed by Run.
func Solve(lhs, rhs Term, relations []ProximityRelation, lambda float64, tnorm TNorm, merge, witness bool) (Solutions, error) {
	opts := DefaultOptions()
	opts.TNorm = tnorm
	opts.Merge = merge
	opts.Witness = witness
	return SolveWithOptions(lhs, rhs, relations, lambda, opts)
}

// SolveWithOptions is Solve with full control over the solver options.
func SolveWithOptions(lhs, rhs Term, relations []ProximityRelation, lambda float64, opts *Options) (Solutions, error) {
	s, err := NewSolver(lhs, rhs, relations, lambda, opts)
	if err != nil {
		return nil, err
	}
	return s.Run()
}

// ProximityMap returns the validated proximity map, including both
// restriction types for reporting.
func (s *Solver) ProximityMap() *ProximityMap { return s.prox }

// Lambda returns the cut threshold.
func (s *Solver) Lambda() float64 { return s.lambda }

// Run executes the search and post-processing and returns the distinct
// solutions. An empty result is not an error.
func (s *Solver) Run() (solutions Solutions, err error) {
	defer recoverInvariant(&err)

	s.log.Infof("solving: %s =^= %s λ=%s", s.lhs, s.rhs, formatDegree(s.lambda))
	s.prox.logSummary(s.log)

	start := time.Now()
	linear, err := s.applyRules()
	s.monitor.record(func(st *Stats) { st.SearchTime += time.Since(start) })
	if err != nil {
		return nil, err
	}

	if !s.opts.Merge && !s.opts.Witness {
		return s.buildSolutions(linear), nil
	}

	start = time.Now()
	defer func() {
		s.monitor.record(func(st *Stats) { st.PostTime += time.Since(start) })
	}()

	s.logConfigs("linear", linear)
	for _, c := range linear {
		s.expand(c)
	}
	if s.opts.Merge {
		s.logConfigs("expanded", linear)
		for _, c := range linear {
			s.merge(c)
		}
	}
	return s.buildSolutions(linear), nil
}

// applyRules runs TRI, DEC and SOL until every configuration is linear.
func (s *Solver) applyRules() ([]*Config, error) {
	s.branches = 0
	if err := s.countBranches(1); err != nil {
		return nil, err
	}
	branches := []*Config{NewConfig(s.lhs, s.rhs)}
	var linear []*Config

branching:
	for len(branches) > 0 {
		s.monitor.recordQueue(len(branches))
		c := branches[0]
		branches = branches[1:]
		for len(c.A) > 0 {
			aut := c.popA()
			// TRI
			if aut.T1.IsEmpty() && aut.T2.IsEmpty() {
				c.addSubstitution(aut.Var, Anon)
				s.monitor.record(func(st *Stats) { st.Trivial++ })
				s.log.Debugf("TRI => %s", c)
				continue
			}
			// DEC
			children := s.decompose(aut, c)
			if len(children) > 0 {
				if err := s.countBranches(len(children)); err != nil {
					return nil, err
				}
				branches = append(branches, children...)
				s.monitor.record(func(st *Stats) { st.Decompose++ })
				if debugEnabled(s.log) {
					for _, child := range children {
						s.log.Debugf("DEC => %s", child)
					}
				}
				continue branching
			}
			// SOL
			c.S = append(c.S, aut)
			s.monitor.record(func(st *Stats) { st.Solve++ })
			s.log.Debugf("SOL => %s", c)
		}
		linear = append(linear, c)
		s.monitor.record(func(st *Stats) { st.LinearConfigs++ })
	}
	return linear, nil
}

func (s *Solver) countBranches(n int) error {
	s.branches += n
	s.monitor.record(func(st *Stats) { st.Branches += n })
	if s.opts.MaxBranches > 0 && s.branches > s.opts.MaxBranches {
		return errors.Wrapf(ErrBranchLimit, "created %d configurations, limit is %d", s.branches, s.opts.MaxBranches)
	}
	return nil
}

// decompose returns one child of c per common proximate h of the AUT's
// terms whose argument mapping stays within λ (and, for non-mapping
// relations, is consistent).
func (s *Solver) decompose(aut AUT, c *Config) []*Config {
	var children []*Config
	for _, h := range s.prox.CommonProximates(aut.T1.Union(aut.T2)) {
		q1, alpha1, ok := s.mapArgs(h, aut.T1, c.Alpha1)
		if !ok {
			continue
		}
		q2, alpha2, ok := s.mapArgs(h, aut.T2, c.Alpha2)
		if !ok {
			continue
		}
		if !s.prox.RestrictionType().Mapping && !(s.allConsistent(q1) && s.allConsistent(q2)) {
			s.monitor.record(func(st *Stats) { st.RejectedDecomposes++ })
			continue
		}

		child := c.Clone()
		child.Alpha1 = alpha1
		child.Alpha2 = alpha2
		ys := make([]Var, len(q1))
		for i := range q1 {
			ys[i] = child.FreshVar()
			child.A = append(child.A, AUT{Var: ys[i], T1: q1[i], T2: q2[i]})
		}
		child.addSubstitution(aut.Var, s.headTerm(h, ys))
		children = append(children, child)
	}
	return children
}

func (s *Solver) allConsistent(q []*TermSet) bool {
	for _, terms := range q {
		if !s.consistent(terms) {
			return false
		}
	}
	return true
}

// mapArgs aggregates beta with the degree between h and the head of every
// term and, if the aggregate stays at or above λ, collects in q[i] the
// arguments that position i of h is related to. For example with
// terms = {f(a,b), g(c)}, h→f {(1,1),(2,2)} and h→g {(2,1)}, q is
// [{a}, {b,c}].
func (s *Solver) mapArgs(h string, terms *TermSet, beta float64) (q []*TermSet, alpha float64, ok bool) {
	for i := 0; i < terms.Len(); i++ {
		rel := s.relation(h, terms.At(i).Head())
		beta = s.opts.TNorm(beta, rel.Proximity)
		if beta < s.lambda {
			return nil, beta, false
		}
	}
	return s.projectArgs(h, terms), beta, true
}

// projectArgs collects the related arguments of terms per position of h,
// without regard to degrees.
func (s *Solver) projectArgs(h string, terms *TermSet) []*TermSet {
	arity := s.prox.Arity(h)
	assertf(arity >= 0, "unknown symbol %s", h)
	builders := make([]*termSetBuilder, arity)
	for i := range builders {
		builders[i] = newTermSetBuilder(terms.Len())
	}
	for i := 0; i < terms.Len(); i++ {
		t := terms.At(i)
		rel := s.relation(h, t.Head())
		args := t.Args()
		for hIdx, related := range rel.ArgRelation {
			for _, tIdx := range related {
				assertf(tIdx < len(args), "relation %s references argument %d of %s", rel, tIdx+1, t)
				builders[hIdx].add(args[tIdx])
			}
		}
	}
	q := make([]*TermSet, arity)
	for i, b := range builders {
		q[i] = b.build()
	}
	return q
}

func (s *Solver) relation(f, g string) ProximityRelation {
	rel, ok := s.prox.Relation(f, g)
	assertf(ok, "no proximity relation between %s and %s", f, g)
	return rel
}

// headTerm builds h applied to fresh variables ys, or the nullary symbol h.
func (s *Solver) headTerm(h string, ys []Var) Term {
	if s.prox.IsMappedVariable(h) {
		return NewMappedVariable(h)
	}
	args := make([]Term, len(ys))
	for i, y := range ys {
		args[i] = NewVariable(y)
	}
	return NewFunction(h, args...)
}

func (s *Solver) logConfigs(stage string, configs []*Config) {
	if !debugEnabled(s.log) {
		return
	}
	for _, c := range configs {
		s.log.WithField("stage", stage).Debug(c.String())
	}
}
