package parser

import (
	"mlox/internal/lexer"
	"mlox/internal/value"
)

// Expr is an expression node. Nodes hold only successfully parsed children.
type Expr interface {
	exprNode()
}

// Literal expression: 1, "a", true, null
type Literal struct {
	Value value.Value
}

// Grouping expression: (expr)
type Grouping struct {
	Expression Expr
}

// Unary expression: !x, -x
type Unary struct {
	Operator lexer.Token
	Right    Expr
}

// Binary expression: a + b
type Binary struct {
	Left     Expr
	Operator lexer.Token
	Right    Expr
}

// Logical expression: a and b, a or b
type Logical struct {
	Left     Expr
	Operator lexer.Token
	Right    Expr
}

// Variable expression: x
type Variable struct {
	Name lexer.Token
}

// Assignment expression: x = 42
type Assign struct {
	Name  lexer.Token
	Value Expr
}

func (*Literal) exprNode()  {}
func (*Grouping) exprNode() {}
func (*Unary) exprNode()    {}
func (*Binary) exprNode()   {}
func (*Logical) exprNode()  {}
func (*Variable) exprNode() {}
func (*Assign) exprNode()   {}
