package lexer

import (
	"fmt"

	"mlox/internal/value"
)

type TokenType string

const (
	// Single-character tokens
	TokenLParen    TokenType = "("
	TokenRParen    TokenType = ")"
	TokenLBrace    TokenType = "{"
	TokenRBrace    TokenType = "}"
	TokenComma     TokenType = ","
	TokenDot       TokenType = "."
	TokenMinus     TokenType = "-"
	TokenPlus      TokenType = "+"
	TokenSemicolon TokenType = ";"
	TokenSlash     TokenType = "/"
	TokenStar      TokenType = "*"

	// One or two character tokens
	TokenNot         TokenType = "!"
	TokenNotEqual    TokenType = "!="
	TokenEqual       TokenType = "="
	TokenDoubleEqual TokenType = "=="
	TokenGT          TokenType = ">"
	TokenGE          TokenType = ">="
	TokenLT          TokenType = "<"
	TokenLE          TokenType = "<="

	// Literals
	TokenIdent  TokenType = "IDENT"
	TokenString TokenType = "STRING"
	TokenNumber TokenType = "NUMBER"

	// Keywords
	TokenAnd    TokenType = "AND"
	TokenClass  TokenType = "CLASS"
	TokenElse   TokenType = "ELSE"
	TokenFalse  TokenType = "FALSE"
	TokenFor    TokenType = "FOR"
	TokenFun    TokenType = "FUN"
	TokenIf     TokenType = "IF"
	TokenNull   TokenType = "NULL"
	TokenOr     TokenType = "OR"
	TokenPrint  TokenType = "PRINT"
	TokenReturn TokenType = "RETURN"
	TokenSuper  TokenType = "SUPER"
	TokenThis   TokenType = "THIS"
	TokenTrue   TokenType = "TRUE"
	TokenVar    TokenType = "VAR"
	TokenWhile  TokenType = "WHILE"

	TokenEOF TokenType = "EOF"
)

// keywords is never written after initialization.
var keywords = map[string]TokenType{
	"and":   TokenAnd,
	"class": TokenClass,
	"else":  TokenElse,
	"false": TokenFalse,
	"for":   TokenFor,
	"fun":   TokenFun,
	"if":    TokenIf,
	"null":  TokenNull,
	"or":    TokenOr,
	"print": TokenPrint,
	"ret":   TokenReturn,
	"super": TokenSuper,
	"this":  TokenThis,
	"true":  TokenTrue,
	"var":   TokenVar,
	"while": TokenWhile,
}

// LookupKeyword returns the keyword type for text, or TokenIdent.
func LookupKeyword(text string) TokenType {
	if t, ok := keywords[text]; ok {
		return t
	}
	return TokenIdent
}

type Token struct {
	Type    TokenType
	Lexeme  string
	Literal value.Value // nil unless Type is TokenString or TokenNumber
	Line    int
}

func (t Token) String() string {
	if t.Literal != nil {
		return fmt.Sprintf("%d [%s] '%s' %s", t.Line, t.Type, t.Lexeme, t.Literal)
	}
	return fmt.Sprintf("%d [%s] '%s'", t.Line, t.Type, t.Lexeme)
}
