package syntax

import (
	"fmt"
	"unicode/utf8"
)

// TokenCode is the class of a lexical token.
type TokenCode int

const (
	ILLEGAL TokenCode = iota
	EOF
	NEWLINE

	IDENT // f, a1, 0.75, 2

	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }
	LBRACK    // [
	RBRACK    // ]
	COMMA     // ,
	SEMICOLON // ;
	APPROX    // =^=
	EQEQ      // ==
)

var tokenNames = map[TokenCode]string{
	ILLEGAL:   "illegal token",
	EOF:       "end of input",
	NEWLINE:   "newline",
	IDENT:     "identifier",
	LPAREN:    "(",
	RPAREN:    ")",
	LBRACE:    "{",
	RBRACE:    "}",
	LBRACK:    "[",
	RBRACK:    "]",
	COMMA:     ",",
	SEMICOLON: ";",
	APPROX:    "=^=",
	EQEQ:      "==",
}

func (tc TokenCode) String() string {
	if s, ok := tokenNames[tc]; ok {
		return s
	}
	return fmt.Sprintf("token(%d)", int(tc))
}

// Token is one lexeme with its byte offset in the source.
type Token struct {
	Code TokenCode
	Text string
	Pos  int
}

func (t Token) String() string {
	switch t.Code {
	case IDENT:
		return fmt.Sprintf("%q", t.Text)
	case ILLEGAL:
		return fmt.Sprintf("illegal %q", t.Text)
	}
	return t.Code.String()
}

func isIdentByte(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || '0' <= ch && ch <= '9' ||
		ch == '_' || ch == '.' || ch == '\'' || ch == '-'
}

// scan splits src into tokens. A '#' starts a comment running to the end of
// the line. The returned slice always ends with an EOF token.
func scan(src string) ([]Token, error) {
	var toks []Token
	inx := 0
	for inx < len(src) {
		ch := src[inx]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\r':
			inx++
		case ch == '\n':
			toks = append(toks, Token{NEWLINE, "\n", inx})
			inx++
		case ch == '#':
			for inx < len(src) && src[inx] != '\n' {
				inx++
			}
		case isIdentByte(ch):
			start := inx
			for inx < len(src) && isIdentByte(src[inx]) {
				inx++
			}
			toks = append(toks, Token{IDENT, src[start:inx], start})
		case ch == '=':
			switch {
			case hasPrefixAt(src, inx, "=^="):
				toks = append(toks, Token{APPROX, "=^=", inx})
				inx += 3
			case hasPrefixAt(src, inx, "=="):
				toks = append(toks, Token{EQEQ, "==", inx})
				inx += 2
			default:
				return nil, newError(src, inx, "unexpected %q, want =^= or ==", "=")
			}
		default:
			code, ok := punctuation[ch]
			if !ok {
				r, _ := utf8.DecodeRuneInString(src[inx:])
				return nil, newError(src, inx, "unexpected character %q", r)
			}
			toks = append(toks, Token{code, string(ch), inx})
			inx++
		}
	}
	return append(toks, Token{EOF, "", len(src)}), nil
}

var punctuation = map[byte]TokenCode{
	'(': LPAREN,
	')': RPAREN,
	'{': LBRACE,
	'}': RBRACE,
	'[': LBRACK,
	']': RBRACK,
	',': COMMA,
	';': SEMICOLON,
}

func hasPrefixAt(s string, inx int, prefix string) bool {
	return len(s)-inx >= len(prefix) && s[inx:inx+len(prefix)] == prefix
}
