package lql

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lexer tokenizes LQL source text. Queries are single-line, so positions
// are tracked as byte offset plus column only.
type Lexer struct {
	input  string
	pos    int // current byte position
	col    int // 1-based
	tokens []Token
	errors []error
}

// NewLexer creates a lexer for the given input.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input, col: 1}
}

// Tokenize scans the entire input and returns all tokens plus any errors.
func (l *Lexer) Tokenize() ([]Token, []error) {
	for {
		tok := l.next()
		l.tokens = append(l.tokens, tok)
		if tok.Type == TokenEOF {
			break
		}
	}
	return l.tokens, l.errors
}

// peek returns the current rune without advancing.
func (l *Lexer) peek() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	return r
}

// peekAt returns the rune at offset from the current position.
func (l *Lexer) peekAt(offset int) rune {
	p := l.pos + offset
	if p >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[p:])
	return r
}

// advance moves forward by one rune and returns it.
func (l *Lexer) advance() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += size
	l.col++
	return r
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		r := l.peek()
		if r == ' ' || r == '\t' || r == '\r' || r == '\n' {
			l.advance()
		} else {
			break
		}
	}
}

// next scans and returns the next token.
func (l *Lexer) next() Token {
	l.skipWhitespace()

	if l.pos >= len(l.input) {
		return Token{Type: TokenEOF, Pos: l.pos, Col: l.col}
	}

	startPos := l.pos
	startCol := l.col
	r := l.peek()

	if r == '"' || r == '\'' {
		return l.scanString(startPos, startCol)
	}

	if r >= '0' && r <= '9' {
		return l.scanNumber(startPos, startCol)
	}

	if isIdentStart(r) {
		return l.scanIdent(startPos, startCol)
	}

	// Two-character operators
	if r == '!' && l.peekAt(1) == '=' {
		l.advance()
		l.advance()
		return Token{Type: TokenNEQ, Literal: "!=", Pos: startPos, Col: startCol}
	}
	if r == '>' && l.peekAt(1) == '=' {
		l.advance()
		l.advance()
		return Token{Type: TokenGTE, Literal: ">=", Pos: startPos, Col: startCol}
	}
	if r == '<' && l.peekAt(1) == '=' {
		l.advance()
		l.advance()
		return Token{Type: TokenLTE, Literal: "<=", Pos: startPos, Col: startCol}
	}

	// Single-character operators
	l.advance()
	switch r {
	case '=':
		return Token{Type: TokenEQ, Literal: "=", Pos: startPos, Col: startCol}
	case '>':
		return Token{Type: TokenGT, Literal: ">", Pos: startPos, Col: startCol}
	case '<':
		return Token{Type: TokenLT, Literal: "<", Pos: startPos, Col: startCol}
	case ',':
		return Token{Type: TokenComma, Literal: ",", Pos: startPos, Col: startCol}
	case '(':
		return Token{Type: TokenLParen, Literal: "(", Pos: startPos, Col: startCol}
	case ')':
		return Token{Type: TokenRParen, Literal: ")", Pos: startPos, Col: startCol}
	case '[':
		return Token{Type: TokenLBrack, Literal: "[", Pos: startPos, Col: startCol}
	case ']':
		return Token{Type: TokenRBrack, Literal: "]", Pos: startPos, Col: startCol}
	}

	l.errors = append(l.errors, fmt.Errorf("col %d: unexpected character %q", startCol, r))
	return Token{Type: TokenIdent, Literal: string(r), Pos: startPos, Col: startCol}
}

// scanString reads a quoted string literal. Both double and single quotes
// are accepted; the closing quote must match the opening one.
func (l *Lexer) scanString(startPos, startCol int) Token {
	quote := l.advance() // consume opening quote
	var b strings.Builder
	for l.pos < len(l.input) {
		r := l.advance()
		if r == quote {
			return Token{Type: TokenString, Literal: b.String(), Pos: startPos, Col: startCol}
		}
		if r == '\\' {
			next := l.advance()
			switch next {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case '\\':
				b.WriteByte('\\')
			case '"':
				b.WriteByte('"')
			case '\'':
				b.WriteByte('\'')
			default:
				b.WriteByte('\\')
				b.WriteRune(next)
			}
			continue
		}
		b.WriteRune(r)
	}
	l.errors = append(l.errors, fmt.Errorf("col %d: unterminated string", startCol))
	return Token{Type: TokenString, Literal: b.String(), Pos: startPos, Col: startCol}
}

// scanNumber reads an integer or float literal.
func (l *Lexer) scanNumber(startPos, startCol int) Token {
	start := l.pos
	isFloat := false
	for l.pos < len(l.input) {
		r := l.peek()
		if r >= '0' && r <= '9' {
			l.advance()
		} else if r == '.' && !isFloat {
			// Only consume the dot when a digit follows.
			if l.peekAt(1) >= '0' && l.peekAt(1) <= '9' {
				isFloat = true
				l.advance()
			} else {
				break
			}
		} else if r == '-' && l.pos > start && l.input[l.pos-1] >= '0' && l.input[l.pos-1] <= '9' && looksLikeDate(l.input[start:l.pos]) {
			// Date literals such as 2024-06-01 lex as a single token.
			l.advance()
		} else {
			break
		}
	}
	lit := l.input[start:l.pos]
	if strings.Contains(lit, "-") {
		// Dates are handed to the parser as strings.
		return Token{Type: TokenString, Literal: lit, Pos: startPos, Col: startCol}
	}
	if isFloat {
		return Token{Type: TokenFloat, Literal: lit, Pos: startPos, Col: startCol}
	}
	return Token{Type: TokenInt, Literal: lit, Pos: startPos, Col: startCol}
}

// looksLikeDate reports whether the digits consumed so far could be the
// year or year-month prefix of an ISO date.
func looksLikeDate(s string) bool {
	n := len(s)
	return n == 4 || n == 7
}

// scanIdent reads an identifier or keyword.
func (l *Lexer) scanIdent(startPos, startCol int) Token {
	start := l.pos
	for l.pos < len(l.input) {
		r := l.peek()
		if isIdentPart(r) {
			l.advance()
		} else {
			break
		}
	}
	lit := l.input[start:l.pos]
	return Token{Type: LookupKeyword(lit), Literal: lit, Pos: startPos, Col: startCol}
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || r == '-' || r == '.' || r == '@' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
