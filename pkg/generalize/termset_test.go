package generalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTermSet(t *testing.T) {
	t.Run("drops duplicates and keeps insertion order", func(t *testing.T) {
		s := NewTermSet(mv("b"), mv("a"), mv("b"))
		assert.Equal(t, 2, s.Len())
		assert.Equal(t, "{b, a}", s.String())
	})

	t.Run("equality ignores order", func(t *testing.T) {
		s1 := NewTermSet(mv("a"), fn("f", mv("b")))
		s2 := NewTermSet(fn("f", mv("b")), mv("a"))
		assert.True(t, s1.Equal(s2))
		assert.Equal(t, s1.Hash(), s2.Hash())
		assert.False(t, s1.Equal(NewTermSet(mv("a"))))
	})

	t.Run("union appends new members", func(t *testing.T) {
		u := NewTermSet(mv("a"), mv("b")).Union(NewTermSet(mv("b"), mv("c")))
		assert.Equal(t, "{a, b, c}", u.String())
	})

	t.Run("union with empty returns operand", func(t *testing.T) {
		s := NewTermSet(mv("a"))
		assert.Same(t, s, s.Union(NewTermSet()))
		assert.Same(t, s, NewTermSet().Union(s))
	})

	t.Run("filter", func(t *testing.T) {
		s := NewTermSet(mv("a"), Anon, mv("b"))
		kept := s.Filter(func(t Term) bool { return !IsAnon(t) })
		assert.Equal(t, "{a, b}", kept.String())
		assert.Same(t, kept, kept.Filter(func(Term) bool { return true }))
		assert.True(t, s.Filter(func(Term) bool { return false }).IsEmpty())
	})

	t.Run("contains", func(t *testing.T) {
		s := NewTermSet(fn("f", mv("a")))
		assert.True(t, s.Contains(fn("f", mv("a"))))
		assert.False(t, s.Contains(mv("a")))
	})

	t.Run("terms returns a copy", func(t *testing.T) {
		s := NewTermSet(mv("a"))
		terms := s.Terms()
		terms[0] = mv("z")
		assert.True(t, s.Contains(mv("a")))
	})
}
