package formatter

import (
	"math"
	"strings"

	"mlox/internal/parser"
	"mlox/internal/value"
)

// infLiteral is a decimal literal too large for a float64.
var infLiteral = "1" + strings.Repeat("0", 309)

// Formatter prints a parsed program back as source. Comments are not kept,
// and for loops come out in their desugared while form.
type Formatter struct {
	indent    int
	indentStr string
	output    strings.Builder
	lineBreak string
}

func NewFormatter() *Formatter {
	return &Formatter{
		indent:    0,
		indentStr: "    ", // 4 spaces
		lineBreak: "\n",
	}
}

func (f *Formatter) Format(stmts []parser.Stmt) string {
	f.output.Reset()
	f.indent = 0

	for _, stmt := range stmts {
		f.formatStmt(stmt)
	}

	return f.output.String()
}

func (f *Formatter) writeIndent() {
	for i := 0; i < f.indent; i++ {
		f.output.WriteString(f.indentStr)
	}
}

func (f *Formatter) formatStmt(stmt parser.Stmt) {
	switch s := stmt.(type) {
	case *parser.ExpressionStmt:
		f.writeIndent()
		f.formatExpr(s.Expr)
		f.output.WriteString(";")
		f.output.WriteString(f.lineBreak)

	case *parser.PrintStmt:
		f.writeIndent()
		f.output.WriteString("print ")
		f.formatExpr(s.Expr)
		f.output.WriteString(";")
		f.output.WriteString(f.lineBreak)

	case *parser.VarStmt:
		f.writeIndent()
		f.output.WriteString("var ")
		f.output.WriteString(s.Name.Lexeme)
		if s.Initializer != nil {
			f.output.WriteString(" = ")
			f.formatExpr(s.Initializer)
		}
		f.output.WriteString(";")
		f.output.WriteString(f.lineBreak)

	case *parser.BlockStmt:
		f.writeIndent()
		f.formatBlock(s)
		f.output.WriteString(f.lineBreak)

	case *parser.IfStmt:
		f.writeIndent()
		f.formatIf(s)

	case *parser.WhileStmt:
		f.writeIndent()
		f.output.WriteString("while (")
		f.formatExpr(s.Condition)
		f.output.WriteString(")")
		if f.formatBody(s.Body) {
			f.output.WriteString(f.lineBreak)
		}
	}
}

// formatIf starts at the current position, so else-if chains stay flat.
func (f *Formatter) formatIf(s *parser.IfStmt) {
	f.output.WriteString("if (")
	f.formatExpr(s.Condition)
	f.output.WriteString(")")
	inline := f.formatBody(s.Then)
	if s.Else == nil {
		if inline {
			f.output.WriteString(f.lineBreak)
		}
		return
	}

	if inline {
		f.output.WriteString(" else")
	} else {
		f.writeIndent()
		f.output.WriteString("else")
	}
	if elseIf, ok := s.Else.(*parser.IfStmt); ok {
		f.output.WriteString(" ")
		f.formatIf(elseIf)
		return
	}
	if f.formatBody(s.Else) {
		f.output.WriteString(f.lineBreak)
	}
}

// formatBody writes a block on the current line and reports true; any other
// statement goes on its own indented line, and it reports false.
func (f *Formatter) formatBody(stmt parser.Stmt) bool {
	if block, ok := stmt.(*parser.BlockStmt); ok {
		f.output.WriteString(" ")
		f.formatBlock(block)
		return true
	}
	f.output.WriteString(f.lineBreak)
	f.indent++
	f.formatStmt(stmt)
	f.indent--
	return false
}

func (f *Formatter) formatBlock(block *parser.BlockStmt) {
	if len(block.Stmts) == 0 {
		f.output.WriteString("{}")
		return
	}
	f.output.WriteString("{")
	f.output.WriteString(f.lineBreak)

	f.indent++
	for _, stmt := range block.Stmts {
		f.formatStmt(stmt)
	}
	f.indent--

	f.writeIndent()
	f.output.WriteString("}")
}

func (f *Formatter) formatExpr(expr parser.Expr) {
	switch e := expr.(type) {
	case *parser.Binary:
		f.formatExpr(e.Left)
		f.output.WriteString(" ")
		f.output.WriteString(e.Operator.Lexeme)
		f.output.WriteString(" ")
		f.formatExpr(e.Right)

	case *parser.Logical:
		f.formatExpr(e.Left)
		f.output.WriteString(" ")
		f.output.WriteString(e.Operator.Lexeme)
		f.output.WriteString(" ")
		f.formatExpr(e.Right)

	case *parser.Grouping:
		f.output.WriteString("(")
		f.formatExpr(e.Expression)
		f.output.WriteString(")")

	case *parser.Literal:
		switch v := e.Value.(type) {
		case value.String:
			// A string can never contain its own quote character.
			quote := "\""
			if strings.Contains(string(v), "\"") {
				quote = "'"
			}
			f.output.WriteString(quote)
			f.output.WriteString(string(v))
			f.output.WriteString(quote)
		case value.Number:
			if math.IsInf(float64(v), 1) {
				// Only an overflowing literal scans to +Inf, and 1e309
				// overflows too.
				f.output.WriteString(infLiteral)
			} else {
				f.output.WriteString(v.String())
			}
		default:
			f.output.WriteString(value.Display(e.Value))
		}

	case *parser.Variable:
		f.output.WriteString(e.Name.Lexeme)

	case *parser.Assign:
		f.output.WriteString(e.Name.Lexeme)
		f.output.WriteString(" = ")
		f.formatExpr(e.Value)

	case *parser.Unary:
		f.output.WriteString(e.Operator.Lexeme)
		f.formatExpr(e.Right)
	}
}
