// internal/parser/stmt.go
package parser

import "mlox/internal/lexer"

// Stmt represents a statement.
type Stmt interface {
	stmtNode()
}

// ExpressionStmt wraps a raw expression as a statement.
type ExpressionStmt struct {
	Expr Expr
}

// PrintStmt wraps an expression to print.
type PrintStmt struct {
	Expr Expr
}

// VarStmt represents a variable declaration: var x = expr.
// Initializer is nil when omitted.
type VarStmt struct {
	Name        lexer.Token
	Initializer Expr
}

// BlockStmt introduces a new scope.
type BlockStmt struct {
	Stmts []Stmt
}

// IfStmt has a nil Else when there is no else branch.
type IfStmt struct {
	Condition Expr
	Then      Stmt
	Else      Stmt
}

type WhileStmt struct {
	Condition Expr
	Body      Stmt
}

func (*ExpressionStmt) stmtNode() {}
func (*PrintStmt) stmtNode()      {}
func (*VarStmt) stmtNode()        {}
func (*BlockStmt) stmtNode()      {}
func (*IfStmt) stmtNode()         {}
func (*WhileStmt) stmtNode()      {}
