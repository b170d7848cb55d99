package syntax

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitrdm/proxgen/pkg/generalize"
)

func TestParseTerm(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"a", "a"},
		{"a()", "a"},
		{"f(a)", "f(a)"},
		{" f ( a , g(b,c) ) ", "f(a,g(b,c))"},
		{"f(\n  a,\n  b)", "f(a,b)"},
		{"long_name'(x.1, y-2)", "long_name'(x.1,y-2)"},
		{"f(a) # trailing comment", "f(a)"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			term, err := ParseTerm(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, term.String())
			assert.True(t, term.IsGround())
		})
	}
}

func TestParseTermNullary(t *testing.T) {
	term, err := ParseTerm("c()")
	require.NoError(t, err)
	assert.IsType(t, &generalize.MappedVariable{}, term)
}

func TestParseTermErrors(t *testing.T) {
	tests := []struct {
		src string
		pos int
	}{
		{"", 0},
		{"f(a", 3},
		{"f(a,)", 4},
		{"f(a) b", 5},
		{"f(_)", 2},
		{"f(a;b)", 3},
		{"f(a) = g(b)", 5},
		{"f(ä)", 2},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := ParseTerm(tt.src)
			require.Error(t, err)
			var serr *Error
			require.True(t, errors.As(err, &serr))
			assert.Equal(t, tt.pos, serr.Pos)
			assert.True(t, errors.Is(err, generalize.ErrInvalidArgument))
			assert.Equal(t, generalize.ErrInvalidArgument, errors.Cause(err))
		})
	}
}

func TestErrorPosition(t *testing.T) {
	_, err := ParseTerm("f(a,\n  b c)")
	require.Error(t, err)
	var serr *Error
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, 2, serr.Line)
	assert.Equal(t, 5, serr.Col)
	assert.Equal(t, "syntax error at 2:5: expected , or ) but saw \"c\"", err.Error())
}

func TestParseEquation(t *testing.T) {
	for _, src := range []string{"f(a, b) =^= g(c)", "f(a,b)==g(c)"} {
		lhs, rhs, err := ParseEquation(src)
		require.NoError(t, err)
		assert.Equal(t, "f(a,b)", lhs.String())
		assert.Equal(t, "g(c)", rhs.String())
	}

	_, _, err := ParseEquation("f(a) g(b)")
	assert.Error(t, err)
	_, _, err = ParseEquation("f(a) =^=")
	assert.Error(t, err)
}

func TestParseRelations(t *testing.T) {
	arities := map[string]int{"f": 2, "g": 1, "a": 0, "b": 0}

	t.Run("separators and forms", func(t *testing.T) {
		rels, err := ParseRelations(`
			f g {(1,1), (2,1)} [0.7]
			a b {} 0.5; b c {} [1]
			# ignored
		`, arities)
		require.NoError(t, err)
		require.Len(t, rels, 3)

		assert.Equal(t, generalize.ProximityRelation{F: "f", G: "g", Proximity: 0.7, ArgRelation: [][]int{{0}, {0}}}, rels[0])
		assert.Equal(t, generalize.ProximityRelation{F: "a", G: "b", Proximity: 0.5, ArgRelation: [][]int{}}, rels[1])
		assert.Equal(t, "c", rels[2].G)
		assert.Equal(t, 1.0, rels[2].Proximity)
	})

	t.Run("known arity leaves positions empty", func(t *testing.T) {
		rels, err := ParseRelations("f h {(2,3)} 0.9", arities)
		require.NoError(t, err)
		assert.Equal(t, [][]int{nil, {2}}, rels[0].ArgRelation)
	})

	t.Run("unknown symbol takes largest position", func(t *testing.T) {
		rels, err := ParseRelations("k h {(3,1), (1,1), (3,2)} 0.9", arities)
		require.NoError(t, err)
		assert.Equal(t, [][]int{{0}, nil, {0, 1}}, rels[0].ArgRelation)
	})

	t.Run("empty input", func(t *testing.T) {
		rels, err := ParseRelations("  \n ; ", arities)
		require.NoError(t, err)
		assert.Empty(t, rels)
	})

	errs := []string{
		"f g {(1,1)}",
		"f g {(3,1)} 0.5",
		"f g {(0,1)} 0.5",
		"f g {(1,1) (2,1)} 0.5",
		"f g {(1,x)} 0.5",
		"f g {} 1.5",
		"f g {} [0.5",
		"f {} 0.5",
		"f g {} 0.5 a b {} 0.5",
		"_ g {} 0.5",
	}
	for _, src := range errs {
		t.Run("error "+src, func(t *testing.T) {
			_, err := ParseRelations(src, arities)
			require.Error(t, err)
			assert.True(t, errors.Is(err, generalize.ErrInvalidArgument))
		})
	}
}

func TestParseProblem(t *testing.T) {
	p, err := ParseProblem("f(a, b) =^= g(a)", "f g {(1,1)} 0.8")
	require.NoError(t, err)
	assert.Equal(t, "f(a,b)", p.LHS.String())
	require.Len(t, p.Relations, 1)
	assert.Equal(t, [][]int{{0}, nil}, p.Relations[0].ArgRelation)

	sols, err := generalize.Solve(p.LHS, p.RHS, p.Relations, 0.5, generalize.Minimum, true, true)
	require.NoError(t, err)
	assert.NotEmpty(t, sols)
}

func TestArities(t *testing.T) {
	lhs, rhs, err := ParseEquation("f(a, g(b)) =^= h")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"f": 2, "a": 0, "g": 1, "b": 0, "h": 0}, Arities(lhs, rhs))
}
