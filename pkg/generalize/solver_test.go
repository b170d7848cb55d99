package generalize

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// view is a comparable rendering of a solution.
type view struct {
	R              string
	W1, W2         string
	Alpha1, Alpha2 float64
}

func views(sols Solutions) []view {
	sols.Sort()
	out := make([]view, len(sols))
	for i, s := range sols {
		out[i] = view{s.Generalizer.String(), s.W1.String(), s.W2.String(), s.Alpha1, s.Alpha2}
	}
	return out
}

func TestSolveScenarios(t *testing.T) {
	tests := []struct {
		name      string
		lhs, rhs  Term
		relations []ProximityRelation
		lambda    float64
		want      []view
	}{
		{
			name:   "identical terms",
			lhs:    fn("f", mv("a"), mv("b")),
			rhs:    fn("f", mv("a"), mv("b")),
			lambda: 1,
			want:   []view{{"f(a,b)", "{}", "{}", 1, 1}},
		},
		{
			name:      "relation below the cut",
			lhs:       mv("a"),
			rhs:       mv("b"),
			relations: []ProximityRelation{rel("a", "b", 0.5)},
			lambda:    0.7,
			want:      []view{{"x0", "{x0: {a}}", "{x0: {b}}", 1, 1}},
		},
		{
			name:      "proximate constants",
			lhs:       mv("a"),
			rhs:       mv("b"),
			relations: []ProximityRelation{rel("a", "b", 0.8)},
			lambda:    0.6,
			want: []view{
				{"a", "{}", "{}", 1, 0.8},
				{"b", "{}", "{}", 0.8, 1},
			},
		},
		{
			name:   "swapped arguments",
			lhs:    fn("f", mv("a"), mv("b")),
			rhs:    fn("f", mv("b"), mv("a")),
			lambda: 1,
			want:   []view{{"f(x1,x2)", "{x1: {a}, x2: {b}}", "{x1: {b}, x2: {a}}", 1, 1}},
		},
		{
			name:      "inconsistent argument mapping",
			lhs:       fn("f", mv("a")),
			rhs:       fn("g", mv("a"), mv("b")),
			relations: []ProximityRelation{rel("f", "g", 0.8, []int{0, 1})},
			lambda:    0.5,
			want:      []view{{"g(a,x2)", "{x2: {a}}", "{x2: {b}}", 0.8, 1}},
		},
		{
			name:   "repeated differences merge",
			lhs:    fn("f", mv("a"), mv("a")),
			rhs:    fn("f", mv("b"), mv("b")),
			lambda: 1,
			want:   []view{{"f(x7,x7)", "{x7: {a}}", "{x7: {b}}", 1, 1}},
		},
		{
			name: "dropped argument positions become anonymous",
			lhs:  fn("f", mv("a")),
			rhs:  fn("k", mv("b")),
			relations: []ProximityRelation{
				rel("g", "f", 0.9, []int{0}, nil),
				rel("g", "k", 0.9, []int{0}, nil),
			},
			lambda: 0.5,
			want:   []view{{"g(x1,_)", "{x1: {a}}", "{x1: {b}}", 0.9, 0.9}},
		},
		{
			name:      "heads closer than the cut do not decompose",
			lhs:       fn("f", mv("a")),
			rhs:       fn("g", mv("a"), mv("b")),
			relations: []ProximityRelation{rel("f", "g", 0.8, []int{0, 1})},
			lambda:    0.9,
			want:      []view{{"x0", "{x0: {f(a)}}", "{x0: {g(a,b)}}", 1, 1}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sols, err := Solve(tt.lhs, tt.rhs, tt.relations, tt.lambda, Minimum, true, true)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, views(sols)); diff != "" {
				t.Errorf("solutions mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSolveWithoutPostProcessing(t *testing.T) {
	lhs := fn("f", mv("a"), mv("a"))
	rhs := fn("f", mv("b"), mv("b"))

	t.Run("witnesses without merging", func(t *testing.T) {
		sols, err := Solve(lhs, rhs, nil, 1, Minimum, false, true)
		require.NoError(t, err)
		assert.Equal(t, []view{{"f(x1,x2)", "{x1: {a}, x2: {a}}", "{x1: {b}, x2: {b}}", 1, 1}}, views(sols))
	})

	t.Run("neither merging nor witnesses", func(t *testing.T) {
		sols, err := Solve(lhs, rhs, nil, 1, Minimum, false, false)
		require.NoError(t, err)
		require.Len(t, sols, 1)
		assert.Equal(t, "f(x1,x2)", sols[0].Generalizer.String())
		assert.Nil(t, sols[0].W1)
		assert.Nil(t, sols[0].W2)
	})

	t.Run("merging without witnesses", func(t *testing.T) {
		sols, err := Solve(lhs, rhs, nil, 1, Minimum, true, false)
		require.NoError(t, err)
		require.Len(t, sols, 1)
		assert.Equal(t, "f(x7,x7)", sols[0].Generalizer.String())
		assert.Nil(t, sols[0].W1)
	})
}

func TestSolveTNorms(t *testing.T) {
	lhs := fn("f", mv("a"))
	rhs := fn("g", mv("b"))
	relations := []ProximityRelation{
		rel("f", "g", 0.8, []int{0}),
		rel("a", "b", 0.8),
	}

	t.Run("minimum", func(t *testing.T) {
		sols, err := Solve(lhs, rhs, relations, 0.7, Minimum, true, true)
		require.NoError(t, err)
		assert.Equal(t, []view{
			{"f(a)", "{}", "{}", 1, 0.8},
			{"f(b)", "{}", "{}", 0.8, 0.8},
			{"g(a)", "{}", "{}", 0.8, 0.8},
			{"g(b)", "{}", "{}", 0.8, 1},
		}, views(sols))
	})

	t.Run("product", func(t *testing.T) {
		sols, err := Solve(lhs, rhs, relations, 0.7, Product, true, true)
		require.NoError(t, err)
		assert.Equal(t, []view{
			{"f(b)", "{}", "{}", 0.8, 0.8},
			{"g(a)", "{}", "{}", 0.8, 0.8},
		}, views(sols))
	})
}

func TestSolveProperties(t *testing.T) {
	problems := []struct {
		lhs, rhs  Term
		relations []ProximityRelation
	}{
		{fn("f", mv("a"), mv("b")), fn("g", mv("b"), mv("c")), []ProximityRelation{
			rel("f", "g", 0.7, []int{1}, []int{0}),
			rel("a", "c", 0.6),
			rel("b", "c", 0.9),
		}},
		{fn("h", mv("a"), fn("f", mv("b"))), fn("h", mv("c"), fn("f", mv("a"))), []ProximityRelation{
			rel("a", "b", 0.4),
			rel("b", "c", 0.8),
			rel("a", "c", 0.5),
		}},
		{fn("p", mv("a"), mv("b"), mv("c")), fn("q", mv("d"), mv("e")), []ProximityRelation{
			rel("p", "q", 0.75, []int{0}, []int{0, 1}, nil),
			rel("a", "d", 0.9),
			rel("b", "e", 0.85),
			rel("c", "d", 0.6),
		}},
	}
	lambdas := []float64{0, 0.3, 0.5, 0.7, 0.9, 1}

	t.Run("degrees never fall below lambda", func(t *testing.T) {
		for _, p := range problems {
			for _, lambda := range lambdas {
				sols, err := Solve(p.lhs, p.rhs, p.relations, lambda, Minimum, true, true)
				require.NoError(t, err)
				for _, s := range sols {
					assert.GreaterOrEqual(t, s.Alpha1, lambda, "%s =^= %s λ=%v: %s", p.lhs, p.rhs, lambda, s)
					assert.GreaterOrEqual(t, s.Alpha2, lambda, "%s =^= %s λ=%v: %s", p.lhs, p.rhs, lambda, s)
				}
			}
		}
	})

	t.Run("witnesses are never empty", func(t *testing.T) {
		for _, p := range problems {
			for _, lambda := range lambdas {
				sols, err := Solve(p.lhs, p.rhs, p.relations, lambda, Minimum, true, true)
				require.NoError(t, err)
				for _, s := range sols {
					for _, v := range NamedVars(s.Generalizer) {
						assert.False(t, s.W1[v].IsEmpty(), "W1[x%d] of %s", v, s)
						assert.False(t, s.W2[v].IsEmpty(), "W2[x%d] of %s", v, s)
					}
				}
			}
		}
	})

	t.Run("solutions are distinct", func(t *testing.T) {
		for _, p := range problems {
			sols, err := Solve(p.lhs, p.rhs, p.relations, 0.5, Minimum, true, true)
			require.NoError(t, err)
			for i := range sols {
				for j := i + 1; j < len(sols); j++ {
					assert.False(t, sols[i].Equal(sols[j]), "%s duplicated", sols[i])
				}
			}
		}
	})

	t.Run("identical terms generalize to themselves", func(t *testing.T) {
		for _, p := range problems {
			for _, term := range []Term{p.lhs, p.rhs} {
				for _, lambda := range lambdas {
					sols, err := Solve(term, term, nil, lambda, Minimum, true, true)
					require.NoError(t, err)
					require.Len(t, sols, 1)
					assert.True(t, term.Equal(sols[0].Generalizer))
					assert.Empty(t, NamedVars(sols[0].Generalizer))
					assert.Equal(t, 1.0, sols[0].Alpha1)
					assert.Equal(t, 1.0, sols[0].Alpha2)
				}
			}
		}
	})

	t.Run("no substitution targets the anonymous variable", func(t *testing.T) {
		for _, p := range problems {
			s, err := NewSolver(p.lhs, p.rhs, p.relations, 0.5, nil)
			require.NoError(t, err)
			linear, err := s.applyRules()
			require.NoError(t, err)
			for _, c := range linear {
				for _, sub := range c.Substitutions {
					assert.NotEqual(t, AnonVar, sub.Var)
				}
			}
		}
	})

	t.Run("merging is idempotent", func(t *testing.T) {
		for _, p := range problems {
			s, err := NewSolver(p.lhs, p.rhs, p.relations, 0.5, nil)
			require.NoError(t, err)
			linear, err := s.applyRules()
			require.NoError(t, err)
			for _, c := range linear {
				s.expand(c)
				s.merge(c)
				once := c.Clone()
				s.merge(c)
				assert.True(t, once.Generalizer().Equal(c.Generalizer()))
				require.Len(t, c.S, len(once.S))
				for i := range c.S {
					assert.Equal(t, once.S[i].Var, c.S[i].Var)
					assert.True(t, once.S[i].T1.Equal(c.S[i].T1))
					assert.True(t, once.S[i].T2.Equal(c.S[i].T2))
				}
			}
		}
	})
}

func TestSolveErrors(t *testing.T) {
	_, err := Solve(mv("a"), mv("b"), nil, 2, Minimum, true, true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	opts := DefaultOptions()
	opts.MaxBranches = -1
	_, err = NewSolver(mv("a"), mv("b"), nil, 0.5, opts)
	assert.Equal(t, ErrInvalidArgument, errors.Cause(err))
}

func TestSolveBranchLimit(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxBranches = 2
	_, err := SolveWithOptions(mv("a"), mv("b"), []ProximityRelation{rel("a", "b", 0.8)}, 0.6, opts)
	require.Error(t, err)
	assert.Equal(t, ErrBranchLimit, errors.Cause(err))

	opts.MaxBranches = 3
	sols, err := SolveWithOptions(mv("a"), mv("b"), []ProximityRelation{rel("a", "b", 0.8)}, 0.6, opts)
	require.NoError(t, err)
	assert.Len(t, sols, 2)
}

func TestRecoverInvariant(t *testing.T) {
	run := func() (err error) {
		defer recoverInvariant(&err)
		assertf(false, "broken %d", 42)
		return nil
	}
	err := run()
	require.Error(t, err)
	assert.Equal(t, ErrInvariantViolation, errors.Cause(err))
	assert.Contains(t, err.Error(), "broken 42")

	assert.Panics(t, func() {
		var err error
		defer recoverInvariant(&err)
		panic("unrelated")
	})
}

func TestSolverMonitor(t *testing.T) {
	monitor := NewMonitor()
	opts := DefaultOptions()
	opts.Monitor = monitor

	_, err := SolveWithOptions(fn("f", mv("a"), mv("a")), fn("f", mv("b"), mv("b")), nil, 1, opts)
	require.NoError(t, err)

	stats := monitor.GetStats()
	assert.Equal(t, 1, stats.Decompose)
	assert.Equal(t, 2, stats.Solve)
	assert.Equal(t, 0, stats.Trivial)
	assert.Equal(t, 2, stats.Branches)
	assert.Equal(t, 1, stats.LinearConfigs)
	assert.Equal(t, 1, stats.Merges)
	assert.Equal(t, 1, stats.Solutions)
	assert.Positive(t, stats.Conjunctions)

	monitor.Reset()
	assert.Equal(t, Stats{}, monitor.GetStats())
}

func TestSolverRejectsInconsistentDecomposition(t *testing.T) {
	monitor := NewMonitor()
	opts := DefaultOptions()
	opts.Monitor = monitor

	s, err := NewSolver(fn("f", mv("a")), fn("g", mv("a"), mv("b")),
		[]ProximityRelation{rel("f", "g", 0.8, []int{0, 1})}, 0.5, opts)
	require.NoError(t, err)
	assert.Equal(t, RestrictionType{Correspondence: true, Mapping: false}, s.ProximityMap().RestrictionType())

	_, err = s.Run()
	require.NoError(t, err)
	assert.Equal(t, 1, monitor.GetStats().RejectedDecomposes)
}

func TestSolverLogging(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	opts := DefaultOptions()
	opts.Logger = logger

	_, err := SolveWithOptions(mv("a"), mv("b"), []ProximityRelation{rel("a", "a", 0.4), rel("a", "b", 0.9)}, 0.5, opts)
	require.NoError(t, err)

	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			warned = true
			assert.Equal(t, "a a {} [0.4]", e.Data["relation"])
		}
	}
	assert.True(t, warned, "self relation should be reported")
	assert.Equal(t, "2 solution(s)", hook.LastEntry().Message)
}
