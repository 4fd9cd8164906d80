// Package lql implements the lexer, parser, and AST for LQL, the issue
// search query language.
//
// An LQL query is a boolean combination of field comparisons with an
// optional trailing ordering clause:
//
//	status = "In Progress" and priority in ["High", "Urgent"] order by created desc
//
// Parsing is pure and total: any input yields either a complete AST or a
// list of ParseErrors. Field names are validated against a whitelist at
// parse time.
package lql

import "strings"

// TokenType identifies the kind of lexical token.
type TokenType int

const (
	// Literals and identifiers
	TokenEOF    TokenType = iota
	TokenIdent            // unquoted identifier (field name or bare value)
	TokenString           // "quoted string"
	TokenInt              // 123
	TokenFloat            // 1.23

	// Operators
	TokenEQ    // =
	TokenNEQ   // !=
	TokenGT    // >
	TokenLT    // <
	TokenGTE   // >=
	TokenLTE   // <=
	TokenComma // ,

	// Grouping
	TokenLParen // (
	TokenRParen // )
	TokenLBrack // [
	TokenRBrack // ]

	// Keywords
	TokenAnd
	TokenOr
	TokenNot
	TokenIn
	TokenOrder
	TokenBy
	TokenAsc
	TokenDesc
)

// String returns a human-readable name for the token type.
func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenIdent:
		return "identifier"
	case TokenString:
		return "string"
	case TokenInt:
		return "integer"
	case TokenFloat:
		return "float"
	case TokenEQ:
		return "="
	case TokenNEQ:
		return "!="
	case TokenGT:
		return ">"
	case TokenLT:
		return "<"
	case TokenGTE:
		return ">="
	case TokenLTE:
		return "<="
	case TokenComma:
		return ","
	case TokenLParen:
		return "("
	case TokenRParen:
		return ")"
	case TokenLBrack:
		return "["
	case TokenRBrack:
		return "]"
	case TokenAnd:
		return "and"
	case TokenOr:
		return "or"
	case TokenNot:
		return "not"
	case TokenIn:
		return "in"
	case TokenOrder:
		return "order"
	case TokenBy:
		return "by"
	case TokenAsc:
		return "asc"
	case TokenDesc:
		return "desc"
	default:
		return "unknown"
	}
}

// Token represents a single lexical token in an LQL query.
type Token struct {
	Type    TokenType
	Literal string // raw text of the token
	Pos     int    // byte offset in source
	Col     int    // 1-based column number
}

// keywords maps lowercase keyword strings to their token types.
var keywords = map[string]TokenType{
	"and":   TokenAnd,
	"or":    TokenOr,
	"not":   TokenNot,
	"in":    TokenIn,
	"order": TokenOrder,
	"by":    TokenBy,
	"asc":   TokenAsc,
	"desc":  TokenDesc,
}

// LookupKeyword returns the keyword token type for an identifier, or
// TokenIdent if the identifier is not a keyword. Lookup is case-insensitive.
func LookupKeyword(ident string) TokenType {
	if tok, ok := keywords[strings.ToLower(ident)]; ok {
		return tok
	}
	return TokenIdent
}

// IsComparisonOp reports whether the token type is a comparison operator.
func (t TokenType) IsComparisonOp() bool {
	switch t {
	case TokenEQ, TokenNEQ, TokenGT, TokenLT, TokenGTE, TokenLTE:
		return true
	}
	return false
}
