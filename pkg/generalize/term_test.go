package generalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func mv(name string) Term { return NewMappedVariable(name) }

func fn(head string, args ...Term) Term { return NewFunction(head, args...) }

func x(v Var) Term { return NewVariable(v) }

func TestTermString(t *testing.T) {
	tests := []struct {
		name string
		term Term
		want string
	}{
		{"variable", x(3), "x3"},
		{"mapped variable", mv("a"), "a"},
		{"anonymous", Anon, "_"},
		{"function", fn("f", mv("a"), x(1)), "f(a,x1)"},
		{"nested", fn("f", fn("g", mv("a")), mv("b")), "f(g(a),b)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.term.String())
		})
	}
}

func TestTermEquality(t *testing.T) {
	t.Run("structurally equal terms are equal and hash equally", func(t *testing.T) {
		a := fn("f", fn("g", mv("a")), x(2))
		b := fn("f", fn("g", mv("a")), x(2))
		assert.True(t, a.Equal(b))
		assert.Equal(t, a.Hash(), b.Hash())
	})

	t.Run("shapes never compare equal", func(t *testing.T) {
		assert.False(t, mv("x0").Equal(x(0)))
		assert.False(t, x(0).Equal(mv("x0")))
		assert.False(t, fn("a", mv("b")).Equal(mv("a")))
	})

	t.Run("argument order matters", func(t *testing.T) {
		assert.False(t, fn("f", mv("a"), mv("b")).Equal(fn("f", mv("b"), mv("a"))))
	})

	t.Run("different heads differ", func(t *testing.T) {
		assert.False(t, fn("f", mv("a")).Equal(fn("g", mv("a"))))
	})
}

func TestTermProperties(t *testing.T) {
	ground := fn("f", mv("a"), fn("g", mv("b")))
	open := fn("f", mv("a"), fn("g", x(4)))

	assert.True(t, ground.IsGround())
	assert.False(t, open.IsGround())
	assert.True(t, x(1).IsVar())
	assert.False(t, mv("a").IsVar())
	assert.Equal(t, "f", open.Head())
	assert.Equal(t, "", x(1).Head())
	assert.Len(t, open.Args(), 2)
	assert.Nil(t, mv("a").Args())
	assert.True(t, IsAnon(Anon))
	assert.False(t, IsAnon(mv("a")))
}

func TestNewTerm(t *testing.T) {
	assert.IsType(t, &MappedVariable{}, NewTerm("a"))
	assert.IsType(t, &Function{}, NewTerm("f", mv("a")))
	assert.Panics(t, func() { NewFunction("f") })
}

func TestNamedVars(t *testing.T) {
	term := fn("f", x(3), fn("g", x(1), x(3)), mv("a"))
	assert.Equal(t, []Var{1, 3}, NamedVars(term))
	assert.Empty(t, NamedVars(fn("f", mv("a"))))
}
