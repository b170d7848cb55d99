package generalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubstitutionApply(t *testing.T) {
	s := NewSubstitution(1, mv("a"))

	assert.True(t, s.Apply(x(1)).Equal(mv("a")))
	assert.True(t, s.Apply(x(2)).Equal(x(2)))
	assert.True(t, s.Apply(fn("f", x(1), fn("g", x(1), x(2)))).Equal(fn("f", mv("a"), fn("g", mv("a"), x(2)))))

	t.Run("unchanged subtrees are shared", func(t *testing.T) {
		sub := fn("g", x(2))
		term := fn("f", x(1), sub)
		out := s.Apply(term).(*Function)
		assert.Same(t, sub, out.Args()[1])

		untouched := fn("h", x(5))
		assert.Same(t, untouched, s.Apply(untouched))
	})

	assert.Equal(t, "x1 ↦ a", s.String())
	assert.Panics(t, func() { NewSubstitution(AnonVar, mv("a")) })
}

func TestApplyAll(t *testing.T) {
	subs := []Substitution{
		NewSubstitution(0, fn("f", x(1), x(2))),
		NewSubstitution(1, mv("a")),
		NewSubstitution(2, fn("g", x(3))),
		NewSubstitution(3, Anon),
	}
	assert.Equal(t, "f(a,g(_))", ApplyAll(subs, Var0).String())
	assert.Equal(t, "x7", ApplyAll(subs, 7).String())
	assert.Equal(t, "x0", ApplyAll(nil, Var0).String())
}
