package lql

import (
	"fmt"
	"strings"
)

// Parser implements a recursive descent parser for LQL.
//
// The parser validates field names against the whitelist it is constructed
// with: an unrecognized field is a parse error, not something discovered at
// execution time.
type Parser struct {
	tokens []Token
	pos    int
	fields []string
	known  map[string]bool
	errors []*ParseError
}

// NewParser creates a parser from a token slice (typically from
// Lexer.Tokenize) and the set of searchable field names.
func NewParser(tokens []Token, fields []string) *Parser {
	known := make(map[string]bool, len(fields))
	for _, f := range fields {
		known[f] = true
	}
	return &Parser{tokens: tokens, fields: fields, known: known}
}

// Parse runs lexer and parser over the input in one step.
func Parse(input string, fields []string) (*Query, []*ParseError) {
	tokens, lexErrs := NewLexer(input).Tokenize()
	p := NewParser(tokens, fields)
	for _, err := range lexErrs {
		p.errors = append(p.errors, &ParseError{Message: err.Error()})
	}
	q, errs := p.parse()
	if len(errs) > 0 {
		return nil, errs
	}
	return q, nil
}

// ParseTokens parses an already-tokenized query.
func (p *Parser) ParseTokens() (*Query, []*ParseError) {
	q, errs := p.parse()
	if len(errs) > 0 {
		return nil, errs
	}
	return q, nil
}

func (p *Parser) parse() (*Query, []*ParseError) {
	q := &Query{}

	if p.atEnd() {
		p.addError(p.peek(), "empty query")
		return nil, p.errors
	}

	if !p.check(TokenOrder) {
		q.Expr = p.parseOrExpr()
	}

	if p.check(TokenOrder) {
		q.OrderBy = p.parseOrderBy()
	}

	if !p.atEnd() {
		tok := p.peek()
		p.addError(tok, fmt.Sprintf("unexpected %s after end of query", tok.Type))
	}

	if len(p.errors) > 0 {
		return nil, p.errors
	}
	return q, nil
}

// ── Token navigation ────────────────────────────────────────────────────────

func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) advance() Token {
	tok := p.peek()
	if tok.Type != TokenEOF {
		p.pos++
	}
	return tok
}

func (p *Parser) atEnd() bool {
	return p.peek().Type == TokenEOF
}

func (p *Parser) check(t TokenType) bool {
	return p.peek().Type == t
}

func (p *Parser) match(types ...TokenType) (Token, bool) {
	for _, t := range types {
		if p.check(t) {
			return p.advance(), true
		}
	}
	return Token{}, false
}

func (p *Parser) expect(t TokenType) (Token, bool) {
	if p.check(t) {
		return p.advance(), true
	}
	tok := p.peek()
	p.addError(tok, fmt.Sprintf("expected %s, got %s", t, tok.Type))
	return tok, false
}

func (p *Parser) addError(tok Token, msg string) {
	p.errors = append(p.errors, &ParseError{
		Message: msg,
		Col:     tok.Col,
		Pos:     tok.Pos,
	})
}

func (p *Parser) addErrorWithSuggestion(tok Token, msg, suggestion string) {
	p.errors = append(p.errors, &ParseError{
		Message:    msg,
		Col:        tok.Col,
		Pos:        tok.Pos,
		Suggestion: suggestion,
	})
}

// ── Expressions ─────────────────────────────────────────────────────────────

func (p *Parser) parseOrExpr() Expr {
	left := p.parseAndExpr()
	if left == nil {
		return nil
	}
	for p.check(TokenOr) {
		opTok := p.advance()
		right := p.parseAndExpr()
		if right == nil {
			return left
		}
		left = &BinaryExpr{TokenPos: opTok.Pos, Op: LogicOr, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseAndExpr() Expr {
	left := p.parseUnaryExpr()
	if left == nil {
		return nil
	}
	for p.check(TokenAnd) {
		opTok := p.advance()
		right := p.parseUnaryExpr()
		if right == nil {
			return left
		}
		left = &BinaryExpr{TokenPos: opTok.Pos, Op: LogicAnd, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseUnaryExpr() Expr {
	if tok, ok := p.match(TokenNot); ok {
		expr := p.parseUnaryExpr()
		if expr == nil {
			return nil
		}
		return &NotExpr{TokenPos: tok.Pos, Expr: expr}
	}

	if p.check(TokenLParen) {
		p.advance() // consume '('
		expr := p.parseOrExpr()
		p.expect(TokenRParen)
		return expr
	}

	return p.parseComparison()
}

func (p *Parser) parseComparison() Expr {
	if !p.check(TokenIdent) {
		p.addError(p.peek(), fmt.Sprintf("expected field name, got %s", p.peek().Type))
		p.advance()
		return nil
	}

	fieldTok := p.advance()
	field := p.resolveField(fieldTok)
	if field == "" {
		p.skipComparisonTail()
		return nil
	}

	if p.check(TokenIn) {
		inTok := p.advance()
		values := p.parseListLiteral()
		if len(values) == 0 {
			p.addError(inTok, "'in' requires a non-empty list of values")
			return nil
		}
		return &InExpr{TokenPos: fieldTok.Pos, Field: field, Values: values}
	}

	opTok := p.peek()
	op, ok := p.parseCompOp()
	if !ok {
		p.addError(opTok, fmt.Sprintf("expected comparison operator (=, !=, >, <, >=, <=, in), got %s", opTok.Type))
		p.advance()
		return nil
	}

	val, ok := p.parseLiteral()
	if !ok {
		return nil
	}
	return &CompareExpr{TokenPos: fieldTok.Pos, Field: field, Op: op, Value: val}
}

// skipComparisonTail discards the operator and value of a comparison whose
// field was already rejected, so one bad field yields one diagnostic.
func (p *Parser) skipComparisonTail() {
	if p.check(TokenIn) {
		p.advance()
		if p.check(TokenLBrack) {
			p.advance()
			for !p.check(TokenRBrack) && !p.atEnd() {
				p.advance()
			}
			if p.check(TokenRBrack) {
				p.advance()
			}
		}
		return
	}
	if p.peek().Type.IsComparisonOp() {
		p.advance()
		switch p.peek().Type {
		case TokenString, TokenIdent, TokenInt, TokenFloat:
			p.advance()
		}
	}
}

// resolveField lowercases and validates a field name against the whitelist.
// Returns "" after recording a parse error for unknown fields.
func (p *Parser) resolveField(tok Token) string {
	name := strings.ToLower(tok.Literal)
	if p.known[name] {
		return name
	}
	if s := SuggestFrom(name, p.fields, 3); s != "" {
		p.addErrorWithSuggestion(tok, fmt.Sprintf("unknown field '%s'", tok.Literal), s)
	} else {
		p.addError(tok, fmt.Sprintf("unknown field '%s'", tok.Literal))
	}
	return ""
}

func (p *Parser) parseCompOp() (CompOp, bool) {
	switch p.peek().Type {
	case TokenEQ:
		p.advance()
		return CompEQ, true
	case TokenNEQ:
		p.advance()
		return CompNEQ, true
	case TokenGT:
		p.advance()
		return CompGT, true
	case TokenLT:
		p.advance()
		return CompLT, true
	case TokenGTE:
		p.advance()
		return CompGTE, true
	case TokenLTE:
		p.advance()
		return CompLTE, true
	default:
		return 0, false
	}
}

func (p *Parser) parseLiteral() (Literal, bool) {
	tok := p.peek()
	switch tok.Type {
	case TokenString, TokenIdent:
		p.advance()
		return Literal{TokenPos: tok.Pos, Type: LitString, Raw: tok.Literal}, true
	case TokenInt:
		p.advance()
		return Literal{TokenPos: tok.Pos, Type: LitInt, Raw: tok.Literal}, true
	case TokenFloat:
		p.advance()
		return Literal{TokenPos: tok.Pos, Type: LitFloat, Raw: tok.Literal}, true
	default:
		p.addError(tok, fmt.Sprintf("expected literal value, got %s", tok.Type))
		p.advance()
		return Literal{}, false
	}
}

func (p *Parser) parseListLiteral() []Literal {
	if _, ok := p.expect(TokenLBrack); !ok {
		return nil
	}

	var values []Literal
	for !p.check(TokenRBrack) && !p.atEnd() {
		val, ok := p.parseLiteral()
		if !ok {
			break
		}
		values = append(values, val)
		if !p.check(TokenRBrack) {
			if _, ok := p.expect(TokenComma); !ok {
				break
			}
		}
	}

	p.expect(TokenRBrack)
	return values
}

// ── ORDER BY clause ─────────────────────────────────────────────────────────

func (p *Parser) parseOrderBy() []OrderItem {
	p.advance() // consume 'order'
	if _, ok := p.expect(TokenBy); !ok {
		return nil
	}

	var items []OrderItem
	item, ok := p.parseOrderItem()
	if !ok {
		return nil
	}
	items = append(items, item)

	for p.check(TokenComma) {
		p.advance() // consume ','
		item, ok := p.parseOrderItem()
		if !ok {
			break
		}
		items = append(items, item)
	}

	return items
}

func (p *Parser) parseOrderItem() (OrderItem, bool) {
	if !p.check(TokenIdent) {
		p.addError(p.peek(), fmt.Sprintf("expected field name after 'order by', got %s", p.peek().Type))
		p.advance()
		return OrderItem{}, false
	}

	fieldTok := p.advance()
	field := p.resolveField(fieldTok)
	if field == "" {
		p.match(TokenAsc, TokenDesc)
		return OrderItem{}, false
	}

	item := OrderItem{Field: field}
	if p.check(TokenDesc) {
		p.advance()
		item.Desc = true
	} else if p.check(TokenAsc) {
		p.advance()
	}
	return item, true
}
