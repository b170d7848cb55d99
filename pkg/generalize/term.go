package generalize

import (
	"encoding/binary"
	"fmt"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
	mapset "github.com/deckarep/golang-set/v2"
)

// Var identifies a generalization variable. Identifiers are handed out by a
// fresh-variable counter, starting at Var0 for the root of a problem.
type Var int

const (
	// Var0 is the root variable of every problem.
	Var0 Var = 0

	// AnonVar is reserved for the anonymous placeholder. It is never the
	// target of a substitution.
	AnonVar Var = -1

	anonName = "_"
)

// Term is a node of a first-order term. There are exactly three shapes:
// *Variable, *MappedVariable and *Function. Terms are immutable once
// built, so subtrees are freely shared between configurations.
type Term interface {
	// String returns the surface representation of the term.
	String() string

	// Equal reports structural equality.
	Equal(other Term) bool

	// Hash returns the cached structural hash. Equal terms hash equally.
	Hash() uint64

	// IsVar reports whether the term is a *Variable.
	IsVar() bool

	// IsGround reports whether no *Variable occurs in the term.
	IsGround() bool

	// Head returns the symbol of a mapped variable or function, or the
	// empty string for a variable.
	Head() string

	// Args returns the children of a function term. Callers must not
	// modify the returned slice.
	Args() []Term
}

const (
	tagVariable byte = iota + 1
	tagMapped
	tagFunction
)

// Variable is a free generalization variable.
type Variable struct {
	v    Var
	hash uint64
}

// NewVariable returns the variable term for v.
func NewVariable(v Var) *Variable {
	var buf [9]byte
	buf[0] = tagVariable
	binary.LittleEndian.PutUint64(buf[1:], uint64(v))
	return &Variable{v: v, hash: xxhash.Sum64(buf[:])}
}

// Var returns the variable identifier.
func (t *Variable) Var() Var { return t.v }

func (t *Variable) String() string { return fmt.Sprintf("x%d", t.v) }

func (t *Variable) Equal(other Term) bool {
	o, ok := other.(*Variable)
	return ok && o.v == t.v
}

func (t *Variable) Hash() uint64   { return t.hash }
func (t *Variable) IsVar() bool    { return true }
func (t *Variable) IsGround() bool { return false }
func (t *Variable) Head() string   { return "" }
func (t *Variable) Args() []Term   { return nil }

// MappedVariable is a named nullary symbol. Under a proximity map it
// behaves like a constant that may be approximated by other nullary
// symbols.
type MappedVariable struct {
	name string
	hash uint64
}

// Anon is the anonymous placeholder. It marks argument positions that do
// not contribute to a generalization.
var Anon = NewMappedVariable(anonName)

// NewMappedVariable returns the nullary symbol called name.
func NewMappedVariable(name string) *MappedVariable {
	d := xxhash.New()
	_, _ = d.Write([]byte{tagMapped})
	_, _ = d.WriteString(name)
	return &MappedVariable{name: name, hash: d.Sum64()}
}

// IsAnon reports whether the term is the anonymous placeholder.
func IsAnon(t Term) bool {
	m, ok := t.(*MappedVariable)
	return ok && m.name == anonName
}

func (t *MappedVariable) String() string { return t.name }

func (t *MappedVariable) Equal(other Term) bool {
	o, ok := other.(*MappedVariable)
	return ok && o.name == t.name
}

func (t *MappedVariable) Hash() uint64   { return t.hash }
func (t *MappedVariable) IsVar() bool    { return false }
func (t *MappedVariable) IsGround() bool { return true }
func (t *MappedVariable) Head() string   { return t.name }
func (t *MappedVariable) Args() []Term   { return nil }

// Function is a symbol of positive arity applied to its arguments.
type Function struct {
	head   string
	args   []Term
	hash   uint64
	ground bool
}

// NewFunction builds head(args...). It panics when args is empty; use
// NewTerm to build a term whose arity is not known in advance.
func NewFunction(head string, args ...Term) *Function {
	if len(args) == 0 {
		panic(fmt.Sprintf("generalize: function %q needs at least one argument", head))
	}
	d := xxhash.New()
	_, _ = d.Write([]byte{tagFunction})
	_, _ = d.WriteString(head)
	_, _ = d.Write([]byte{0})
	var buf [8]byte
	ground := true
	for _, a := range args {
		binary.LittleEndian.PutUint64(buf[:], a.Hash())
		_, _ = d.Write(buf[:])
		ground = ground && a.IsGround()
	}
	return &Function{head: head, args: args, hash: d.Sum64(), ground: ground}
}

// NewTerm builds head(args...), or the nullary symbol head when no
// arguments are given.
func NewTerm(head string, args ...Term) Term {
	if len(args) == 0 {
		return NewMappedVariable(head)
	}
	return NewFunction(head, args...)
}

func (t *Function) String() string {
	var sb strings.Builder
	sb.WriteString(t.head)
	sb.WriteByte('(')
	for i, a := range t.args {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(a.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

func (t *Function) Equal(other Term) bool {
	o, ok := other.(*Function)
	if !ok || o.hash != t.hash || o.head != t.head || len(o.args) != len(t.args) {
		return false
	}
	for i := range t.args {
		if !t.args[i].Equal(o.args[i]) {
			return false
		}
	}
	return true
}

func (t *Function) Hash() uint64   { return t.hash }
func (t *Function) IsVar() bool    { return false }
func (t *Function) IsGround() bool { return t.ground }
func (t *Function) Head() string   { return t.head }
func (t *Function) Args() []Term   { return t.args }

// Arity returns the number of arguments.
func (t *Function) Arity() int { return len(t.args) }

// NamedVars returns the variables occurring in t in ascending order.
func NamedVars(t Term) []Var {
	seen := mapset.NewThreadUnsafeSet[Var]()
	collectVars(t, seen)
	vars := seen.ToSlice()
	sort.Slice(vars, func(i, j int) bool { return vars[i] < vars[j] })
	return vars
}

func collectVars(t Term, seen mapset.Set[Var]) {
	switch n := t.(type) {
	case *Variable:
		seen.Add(n.v)
	case *Function:
		if n.ground {
			return
		}
		for _, a := range n.args {
			collectVars(a, seen)
		}
	}
}

// walkSymbols calls fn for every mapped variable and function node of t.
func walkSymbols(t Term, fn func(head string, arity int) error) error {
	switch n := t.(type) {
	case *MappedVariable:
		return fn(n.name, 0)
	case *Function:
		if err := fn(n.head, len(n.args)); err != nil {
			return err
		}
		for _, a := range n.args {
			if err := walkSymbols(a, fn); err != nil {
				return err
			}
		}
	}
	return nil
}
