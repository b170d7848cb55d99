package syntax

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/pkg/errors"

	"github.com/gitrdm/proxgen/pkg/generalize"
)

type parser struct {
	src    string
	toks   []Token
	inx    int
	inList bool // newlines separate relations
}

func newParser(src string) (*parser, error) {
	toks, err := scan(src)
	if err != nil {
		return nil, err
	}
	return &parser{src: src, toks: toks}, nil
}

// next consumes and returns the next token. Outside relation lists
// newlines are skipped.
func (p *parser) next() Token {
	for {
		tk := p.toks[p.inx]
		if tk.Code != EOF {
			p.inx++
		}
		if tk.Code == NEWLINE && !p.inList {
			continue
		}
		return tk
	}
}

func (p *parser) peek() Token {
	save := p.inx
	tk := p.next()
	p.inx = save
	return tk
}

func (p *parser) errorf(tk Token, format string, args ...interface{}) *Error {
	return newError(p.src, tk.Pos, format, args...)
}

func (p *parser) must(tc TokenCode) (Token, error) {
	tk := p.next()
	if tk.Code != tc {
		return tk, p.errorf(tk, "expected %s but saw %s", tc, tk)
	}
	return tk, nil
}

func (p *parser) symbol() (Token, error) {
	tk, err := p.must(IDENT)
	if err != nil {
		return tk, err
	}
	if tk.Text == "_" {
		return tk, p.errorf(tk, "symbol %q is reserved", "_")
	}
	return tk, nil
}

// term := IDENT [ "(" [ term { "," term } ] ")" ]
func (p *parser) term() (generalize.Term, error) {
	head, err := p.symbol()
	if err != nil {
		return nil, err
	}
	if p.peek().Code != LPAREN {
		return generalize.NewMappedVariable(head.Text), nil
	}
	p.next()
	var args []generalize.Term
	if p.peek().Code == RPAREN {
		p.next()
		return generalize.NewMappedVariable(head.Text), nil
	}
	for {
		arg, err := p.term()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		tk := p.next()
		if tk.Code == RPAREN {
			break
		}
		if tk.Code != COMMA {
			return nil, p.errorf(tk, "expected , or ) but saw %s", tk)
		}
	}
	return generalize.NewFunction(head.Text, args...), nil
}

func (p *parser) end() error {
	if tk := p.next(); tk.Code != EOF {
		return p.errorf(tk, "unexpected %s after end of input", tk)
	}
	return nil
}

// ParseTerm parses a single ground term such as "f(a, g(b))". A symbol
// without arguments, or with an empty argument list, is nullary.
func ParseTerm(src string) (generalize.Term, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, err
	}
	t, err := p.term()
	if err != nil {
		return nil, err
	}
	return t, p.end()
}

// ParseEquation parses "lhs =^= rhs". The separator "==" is accepted as
// well.
func ParseEquation(src string) (lhs, rhs generalize.Term, err error) {
	p, err := newParser(src)
	if err != nil {
		return nil, nil, err
	}
	if lhs, err = p.term(); err != nil {
		return nil, nil, err
	}
	if tk := p.next(); tk.Code != APPROX && tk.Code != EQEQ {
		return nil, nil, p.errorf(tk, "expected =^= but saw %s", tk)
	}
	if rhs, err = p.term(); err != nil {
		return nil, nil, err
	}
	return lhs, rhs, p.end()
}

// ParseRelations parses proximity relations separated by ";" or newlines:
//
//	f g {(1,1), (2,1)} [0.7]
//	a b {} 0.8
//
// A pair (i,j) relates argument i of the first symbol to argument j of the
// second, counting from 1. The square brackets around the degree are
// optional. arities gives the arity of known symbols; the first symbol of a
// relation that is not listed gets the largest position it references.
func ParseRelations(src string, arities map[string]int) ([]generalize.ProximityRelation, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, err
	}
	p.inList = true
	var out []generalize.ProximityRelation
	for {
		tk := p.peek()
		switch tk.Code {
		case EOF:
			return out, nil
		case NEWLINE, SEMICOLON:
			p.next()
			continue
		}
		r, err := p.relation(arities)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
		if tk := p.next(); tk.Code != NEWLINE && tk.Code != SEMICOLON && tk.Code != EOF {
			return nil, p.errorf(tk, "expected ; or newline after relation but saw %s", tk)
		}
	}
}

// relation := IDENT IDENT "{" [ pair { "," pair } ] "}" ( "[" IDENT "]" | IDENT )
func (p *parser) relation(arities map[string]int) (generalize.ProximityRelation, error) {
	var r generalize.ProximityRelation
	f, err := p.symbol()
	if err != nil {
		return r, err
	}
	g, err := p.symbol()
	if err != nil {
		return r, err
	}
	if _, err := p.must(LBRACE); err != nil {
		return r, err
	}
	var pairs [][2]int
	if p.peek().Code == RBRACE {
		p.next()
	} else {
		for {
			pair, err := p.pair()
			if err != nil {
				return r, err
			}
			pairs = append(pairs, pair)
			tk := p.next()
			if tk.Code == RBRACE {
				break
			}
			if tk.Code != COMMA {
				return r, p.errorf(tk, "expected , or } but saw %s", tk)
			}
		}
	}
	degree, err := p.degree()
	if err != nil {
		return r, err
	}

	r, msg := relationFromPairs(f.Text, g.Text, degree, pairs, arities)
	if msg != "" {
		return r, p.errorf(f, "%s", msg)
	}
	return r, nil
}

// RelationFromPairs builds the relation between f and g from 1-based
// argument pairs (i, j). arities is consulted for the arity of f as in
// ParseRelations.
func RelationFromPairs(f, g string, degree float64, pairs [][2]int, arities map[string]int) (generalize.ProximityRelation, error) {
	r, msg := relationFromPairs(f, g, degree, pairs, arities)
	if msg != "" {
		return r, errors.Wrap(generalize.ErrInvalidArgument, msg)
	}
	return r, nil
}

func relationFromPairs(f, g string, degree float64, pairs [][2]int, arities map[string]int) (generalize.ProximityRelation, string) {
	var r generalize.ProximityRelation
	arity, ok := arities[f]
	if !ok {
		for _, pr := range pairs {
			if pr[0] > arity {
				arity = pr[0]
			}
		}
	}
	args := make([][]int, arity)
	for _, pr := range pairs {
		if pr[0] < 1 || pr[1] < 1 {
			return r, fmt.Sprintf("relation %s %s has non-positive position in (%d,%d)", f, g, pr[0], pr[1])
		}
		if pr[0] > arity {
			return r, fmt.Sprintf("relation %s %s references argument %d of %s, which has arity %d", f, g, pr[0], f, arity)
		}
		args[pr[0]-1] = append(args[pr[0]-1], pr[1]-1)
	}
	for _, js := range args {
		sort.Ints(js)
	}
	return generalize.ProximityRelation{F: f, G: g, Proximity: degree, ArgRelation: args}, ""
}

// pair := "(" IDENT "," IDENT ")"
func (p *parser) pair() ([2]int, error) {
	var pr [2]int
	if _, err := p.must(LPAREN); err != nil {
		return pr, err
	}
	for k := 0; k < 2; k++ {
		tk, err := p.must(IDENT)
		if err != nil {
			return pr, err
		}
		n, err := strconv.Atoi(tk.Text)
		if err != nil || n < 1 {
			return pr, p.errorf(tk, "argument position %s must be a positive integer", tk.Text)
		}
		pr[k] = n
		want := COMMA
		if k == 1 {
			want = RPAREN
		}
		if _, err := p.must(want); err != nil {
			return pr, err
		}
	}
	return pr, nil
}

func (p *parser) degree() (float64, error) {
	bracket := p.peek().Code == LBRACK
	if bracket {
		p.next()
	}
	tk, err := p.must(IDENT)
	if err != nil {
		return 0, err
	}
	d, err := strconv.ParseFloat(tk.Text, 64)
	if err != nil || d < 0 || d > 1 {
		return 0, p.errorf(tk, "proximity %s must be a number in [0,1]", tk.Text)
	}
	if bracket {
		if _, err := p.must(RBRACK); err != nil {
			return 0, err
		}
	}
	return d, nil
}
