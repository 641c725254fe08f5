package parser

import (
	"fmt"
	"strconv"
	"strings"

	"mlox/internal/value"
)

// Print renders an Expr or Stmt in parenthesized prefix form, e.g.
// (+ 1 (* 2 3)). Strings are quoted so they can be told apart from names.
func Print(node interface{}) string {
	var sb strings.Builder
	printNode(&sb, node)
	return sb.String()
}

// PrintProgram renders one statement per line.
func PrintProgram(stmts []Stmt) string {
	var sb strings.Builder
	for _, s := range stmts {
		printNode(&sb, s)
		sb.WriteByte('\n')
	}
	return sb.String()
}

func printNode(sb *strings.Builder, node interface{}) {
	switch n := node.(type) {
	case *Literal:
		if s, ok := n.Value.(value.String); ok {
			sb.WriteString(strconv.Quote(string(s)))
		} else {
			sb.WriteString(value.Display(n.Value))
		}
	case *Grouping:
		parenthesize(sb, "group", n.Expression)
	case *Unary:
		parenthesize(sb, n.Operator.Lexeme, n.Right)
	case *Binary:
		parenthesize(sb, n.Operator.Lexeme, n.Left, n.Right)
	case *Logical:
		parenthesize(sb, n.Operator.Lexeme, n.Left, n.Right)
	case *Variable:
		sb.WriteString(n.Name.Lexeme)
	case *Assign:
		parenthesize(sb, "= "+n.Name.Lexeme, n.Value)

	case *ExpressionStmt:
		parenthesize(sb, ";", n.Expr)
	case *PrintStmt:
		parenthesize(sb, "print", n.Expr)
	case *VarStmt:
		if n.Initializer == nil {
			parenthesize(sb, "var "+n.Name.Lexeme)
		} else {
			parenthesize(sb, "var "+n.Name.Lexeme, n.Initializer)
		}
	case *BlockStmt:
		parts := make([]interface{}, len(n.Stmts))
		for i, s := range n.Stmts {
			parts[i] = s
		}
		parenthesize(sb, "block", parts...)
	case *IfStmt:
		if n.Else == nil {
			parenthesize(sb, "if", n.Condition, n.Then)
		} else {
			parenthesize(sb, "if-else", n.Condition, n.Then, n.Else)
		}
	case *WhileStmt:
		parenthesize(sb, "while", n.Condition, n.Body)
	default:
		fmt.Fprintf(sb, "<%T>", node)
	}
}

func parenthesize(sb *strings.Builder, name string, parts ...interface{}) {
	sb.WriteByte('(')
	sb.WriteString(name)
	for _, part := range parts {
		sb.WriteByte(' ')
		printNode(sb, part)
	}
	sb.WriteByte(')')
}
