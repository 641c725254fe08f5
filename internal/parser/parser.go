// internal/parser/parser.go
package parser

import (
	"fmt"

	"mlox/internal/errors"
	"mlox/internal/lexer"
	"mlox/internal/value"
)

type Parser struct {
	tokens  []lexer.Token
	current int
	Errors  errors.List
	file    string
}

func NewParser(tokens []lexer.Token) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != lexer.TokenEOF {
		line := 1
		if len(tokens) > 0 {
			line = tokens[len(tokens)-1].Line
		}
		tokens = append(tokens[:len(tokens):len(tokens)], lexer.Token{Type: lexer.TokenEOF, Line: line})
	}
	return &Parser{
		tokens: tokens,
	}
}

// NewParserWithFile tags every parse error with file.
func NewParserWithFile(tokens []lexer.Token, file string) *Parser {
	p := NewParser(tokens)
	p.file = file
	return p
}

// Parse parses the whole token stream. Statements that failed to parse are
// left out of the result and every failure is returned as an errors.List;
// callers must not evaluate a unit that produced an error.
func (p *Parser) Parse() ([]Stmt, error) {
	var stmts []Stmt
	for !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	return stmts, p.Errors.Err()
}

// declaration is the recovery point: a failure anywhere below it unwinds
// here, and parsing resumes at the next statement boundary.
func (p *Parser) declaration() (stmt Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(*errors.Error); !ok {
				panic(r)
			}
			p.synchronize()
			stmt = nil
		}
	}()

	if p.match(lexer.TokenVar) {
		return p.varDeclaration()
	}
	return p.statement()
}

func (p *Parser) varDeclaration() Stmt {
	name := p.consume(lexer.TokenIdent, "Expect variable name.")
	var initializer Expr
	if p.match(lexer.TokenEqual) {
		initializer = p.expression()
	}
	p.consume(lexer.TokenSemicolon, "Expect ';' after variable declaration.")
	return &VarStmt{Name: name, Initializer: initializer}
}

func (p *Parser) statement() Stmt {
	switch {
	case p.match(lexer.TokenIf):
		return p.ifStatement()
	case p.match(lexer.TokenWhile):
		return p.whileStatement()
	case p.match(lexer.TokenFor):
		return p.forStatement()
	case p.match(lexer.TokenPrint):
		return p.printStatement()
	case p.match(lexer.TokenLBrace):
		return &BlockStmt{Stmts: p.block()}
	}
	return p.expressionStatement()
}

func (p *Parser) ifStatement() Stmt {
	p.consume(lexer.TokenLParen, "Expect '(' after 'if'.")
	condition := p.expression()
	p.consume(lexer.TokenRParen, "Expect ')' after if condition.")

	thenBranch := p.statement()
	var elseBranch Stmt
	if p.match(lexer.TokenElse) {
		elseBranch = p.statement()
	}
	return &IfStmt{Condition: condition, Then: thenBranch, Else: elseBranch}
}

func (p *Parser) whileStatement() Stmt {
	p.consume(lexer.TokenLParen, "Expect '(' after 'while'.")
	condition := p.expression()
	p.consume(lexer.TokenRParen, "Expect ')' after condition.")
	return &WhileStmt{Condition: condition, Body: p.statement()}
}

// forStatement desugars
//
//	for (init; cond; incr) body
//
// into
//
//	{ init; while (cond) { body; incr; } }
//
// so a variable declared in init lives in the outer block for the whole loop.
func (p *Parser) forStatement() Stmt {
	p.consume(lexer.TokenLParen, "Expect '(' after 'for'.")

	var initializer Stmt
	switch {
	case p.match(lexer.TokenSemicolon):
	case p.match(lexer.TokenVar):
		initializer = p.varDeclaration()
	default:
		initializer = p.expressionStatement()
	}

	var condition Expr
	if !p.check(lexer.TokenSemicolon) {
		condition = p.expression()
	}
	p.consume(lexer.TokenSemicolon, "Expect ';' after loop condition.")

	var increment Expr
	if !p.check(lexer.TokenRParen) {
		increment = p.expression()
	}
	p.consume(lexer.TokenRParen, "Expect ')' after for clauses.")

	body := p.statement()
	if increment != nil {
		body = &BlockStmt{Stmts: []Stmt{body, &ExpressionStmt{Expr: increment}}}
	}
	if condition == nil {
		condition = &Literal{Value: value.Bool(true)}
	}
	body = &WhileStmt{Condition: condition, Body: body}
	if initializer != nil {
		body = &BlockStmt{Stmts: []Stmt{initializer, body}}
	}
	return body
}

func (p *Parser) printStatement() Stmt {
	expr := p.expression()
	p.consume(lexer.TokenSemicolon, "Expect ';' after value.")
	return &PrintStmt{Expr: expr}
}

func (p *Parser) expressionStatement() Stmt {
	expr := p.expression()
	p.consume(lexer.TokenSemicolon, "Expect ';' after expression.")
	return &ExpressionStmt{Expr: expr}
}

func (p *Parser) block() []Stmt {
	var stmts []Stmt
	for !p.check(lexer.TokenRBrace) && !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	p.consume(lexer.TokenRBrace, "Expect '}' after block.")
	return stmts
}

// --- Expression Parsing with Precedence ---

func (p *Parser) expression() Expr {
	return p.assignment()
}

func (p *Parser) assignment() Expr {
	expr := p.or()
	if p.match(lexer.TokenEqual) {
		equals := p.previous()
		val := p.assignment()
		if v, ok := expr.(*Variable); ok {
			return &Assign{Name: v.Name, Value: val}
		}
		// Reported without unwinding: the tokens are well formed, only the
		// target is wrong.
		p.report(equals, errors.InvalidAssignmentTarget, "Invalid assignment target.")
	}
	return expr
}

func (p *Parser) or() Expr {
	expr := p.and()
	for p.match(lexer.TokenOr) {
		operator := p.previous()
		right := p.and()
		expr = &Logical{Left: expr, Operator: operator, Right: right}
	}
	return expr
}

func (p *Parser) and() Expr {
	expr := p.equality()
	for p.match(lexer.TokenAnd) {
		operator := p.previous()
		right := p.equality()
		expr = &Logical{Left: expr, Operator: operator, Right: right}
	}
	return expr
}

func (p *Parser) equality() Expr {
	return p.binary(p.comparison, lexer.TokenNotEqual, lexer.TokenDoubleEqual)
}

func (p *Parser) comparison() Expr {
	return p.binary(p.term, lexer.TokenGT, lexer.TokenGE, lexer.TokenLT, lexer.TokenLE)
}

func (p *Parser) term() Expr {
	return p.binary(p.factor, lexer.TokenMinus, lexer.TokenPlus)
}

func (p *Parser) factor() Expr {
	return p.binary(p.unary, lexer.TokenSlash, lexer.TokenStar)
}

// binary parses one left-associative tier: operands come from next, and the
// loop folds while the next token is one of ops.
func (p *Parser) binary(next func() Expr, ops ...lexer.TokenType) Expr {
	expr := next()
	for p.match(ops...) {
		operator := p.previous()
		right := next()
		expr = &Binary{Left: expr, Operator: operator, Right: right}
	}
	return expr
}

func (p *Parser) unary() Expr {
	if p.match(lexer.TokenNot, lexer.TokenMinus) {
		operator := p.previous()
		right := p.unary()
		return &Unary{Operator: operator, Right: right}
	}
	return p.primary()
}

func (p *Parser) primary() Expr {
	tok := p.peek()
	switch tok.Type {
	case lexer.TokenFalse:
		p.advance()
		return &Literal{Value: value.Bool(false)}
	case lexer.TokenTrue:
		p.advance()
		return &Literal{Value: value.Bool(true)}
	case lexer.TokenNull:
		p.advance()
		return &Literal{Value: value.Null{}}
	case lexer.TokenNumber, lexer.TokenString:
		p.advance()
		return &Literal{Value: tok.Literal}
	case lexer.TokenIdent:
		p.advance()
		return &Variable{Name: tok}
	case lexer.TokenLParen:
		p.advance()
		expr := p.expression()
		p.consume(lexer.TokenRParen, "Expect ')' after expression.")
		return &Grouping{Expression: expr}
	}
	panic(p.report(tok, errors.UnexpectedToken, "Expect expression."))
}

// --- Utility methods ---

func (p *Parser) synchronize() {
	p.advance()
	for !p.isAtEnd() {
		if p.previous().Type == lexer.TokenSemicolon {
			return
		}
		switch p.peek().Type {
		case lexer.TokenClass, lexer.TokenFun, lexer.TokenVar, lexer.TokenFor,
			lexer.TokenIf, lexer.TokenWhile, lexer.TokenPrint, lexer.TokenReturn:
			return
		}
		p.advance()
	}
}

// report records a parse error at tok and returns it.
func (p *Parser) report(tok lexer.Token, kind errors.Kind, msg string) *errors.Error {
	where := fmt.Sprintf(" at '%s'", tok.Lexeme)
	if tok.Type == lexer.TokenEOF {
		where = " at end"
	}
	err := errors.NewParseError(kind, msg, tok.Line, where)
	if p.file != "" {
		err = err.WithFile(p.file)
	}
	p.Errors = append(p.Errors, err)
	return err
}

func (p *Parser) match(types ...lexer.TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(t lexer.TokenType, msg string) lexer.Token {
	if p.check(t) {
		return p.advance()
	}
	panic(p.report(p.peek(), errors.UnexpectedToken, msg))
}

func (p *Parser) check(t lexer.TokenType) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Type == t
}

func (p *Parser) advance() lexer.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) previous() lexer.Token {
	if p.current == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.current-1]
}

func (p *Parser) peek() lexer.Token {
	return p.tokens[p.current]
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == lexer.TokenEOF
}
