// Package interpreter evaluates parsed programs by walking the tree.
package interpreter

import (
	"fmt"
	"io"
	"log"
	"math"
	"strings"

	"mlox/internal/errors"
	"mlox/internal/lexer"
	"mlox/internal/parser"
	"mlox/internal/value"
)

// maxStringLen bounds the result of string repetition.
const maxStringLen = 1 << 30

type Interpreter struct {
	env    *Environment
	out    io.Writer
	echo   bool
	logger *log.Logger
	depth  int
}

type Option func(*Interpreter)

// WithEcho makes expression statements given directly to Interpret print
// their value, the way an interactive session shows results. Nested ones,
// including unbraced if and while bodies, stay silent.
func WithEcho(echo bool) Option {
	return func(i *Interpreter) { i.echo = echo }
}

// WithLogger enables execution tracing.
func WithLogger(logger *log.Logger) Option {
	return func(i *Interpreter) { i.logger = logger }
}

// New returns an interpreter that runs in env and prints to out. A nil env
// gets a fresh root scope.
func New(env *Environment, out io.Writer, opts ...Option) *Interpreter {
	if env == nil {
		env = NewEnvironment(nil)
	}
	i := &Interpreter{env: env, out: out}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Interpret executes stmts in order and stops at the first error. Runtime
// failures are *errors.Error values with Phase RuntimeError.
func (i *Interpreter) Interpret(stmts []parser.Stmt) error {
	for _, stmt := range stmts {
		if es, ok := stmt.(*parser.ExpressionStmt); ok && i.echo {
			if err := i.echoExpression(es); err != nil {
				return err
			}
			continue
		}
		if err := i.execute(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (i *Interpreter) echoExpression(s *parser.ExpressionStmt) error {
	if i.logger != nil {
		i.logger.Printf("exec depth=%d %s", i.depth, parser.Print(s))
	}
	v, err := i.evaluate(s.Expr)
	if err != nil {
		return err
	}
	return i.print(v)
}

func (i *Interpreter) execute(stmt parser.Stmt) error {
	if i.logger != nil {
		i.logger.Printf("exec depth=%d %s", i.depth, parser.Print(stmt))
	}
	switch s := stmt.(type) {
	case *parser.ExpressionStmt:
		_, err := i.evaluate(s.Expr)
		return err
	case *parser.PrintStmt:
		v, err := i.evaluate(s.Expr)
		if err != nil {
			return err
		}
		return i.print(v)
	case *parser.VarStmt:
		var v value.Value = value.Null{}
		if s.Initializer != nil {
			var err error
			if v, err = i.evaluate(s.Initializer); err != nil {
				return err
			}
		}
		i.env.Define(s.Name.Lexeme, v)
		return nil
	case *parser.BlockStmt:
		return i.executeBlock(s.Stmts, NewEnvironment(i.env))
	case *parser.IfStmt:
		cond, err := i.evaluate(s.Condition)
		if err != nil {
			return err
		}
		if value.Truthy(cond) {
			return i.execute(s.Then)
		}
		if s.Else != nil {
			return i.execute(s.Else)
		}
		return nil
	case *parser.WhileStmt:
		for {
			cond, err := i.evaluate(s.Condition)
			if err != nil {
				return err
			}
			if !value.Truthy(cond) {
				return nil
			}
			if err := i.execute(s.Body); err != nil {
				return err
			}
		}
	default:
		panic(fmt.Sprintf("interpreter: unknown statement %T", s))
	}
}

// executeBlock runs stmts in env and always restores the previous scope.
func (i *Interpreter) executeBlock(stmts []parser.Stmt, env *Environment) error {
	previous := i.env
	i.env = env
	i.depth++
	defer func() {
		i.env = previous
		i.depth--
	}()

	for _, stmt := range stmts {
		if err := i.execute(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (i *Interpreter) print(v value.Value) error {
	_, err := fmt.Fprintln(i.out, value.Display(v))
	return err
}

func (i *Interpreter) evaluate(expr parser.Expr) (value.Value, error) {
	switch e := expr.(type) {
	case *parser.Literal:
		return e.Value, nil
	case *parser.Grouping:
		return i.evaluate(e.Expression)
	case *parser.Unary:
		return i.unary(e)
	case *parser.Binary:
		left, err := i.evaluate(e.Left)
		if err != nil {
			return nil, err
		}
		right, err := i.evaluate(e.Right)
		if err != nil {
			return nil, err
		}
		return binary(e.Operator, left, right)
	case *parser.Logical:
		left, err := i.evaluate(e.Left)
		if err != nil {
			return nil, err
		}
		if e.Operator.Type == lexer.TokenOr {
			if value.Truthy(left) {
				return left, nil
			}
		} else if !value.Truthy(left) {
			return left, nil
		}
		return i.evaluate(e.Right)
	case *parser.Variable:
		return i.env.Get(e.Name)
	case *parser.Assign:
		v, err := i.evaluate(e.Value)
		if err != nil {
			return nil, err
		}
		if err := i.env.Assign(e.Name, v); err != nil {
			return nil, err
		}
		return v, nil
	default:
		panic(fmt.Sprintf("interpreter: unknown expression %T", e))
	}
}

func (i *Interpreter) unary(e *parser.Unary) (value.Value, error) {
	right, err := i.evaluate(e.Right)
	if err != nil {
		return nil, err
	}
	switch e.Operator.Type {
	case lexer.TokenNot:
		return value.Bool(!value.Truthy(right)), nil
	case lexer.TokenMinus:
		if n, ok := right.(value.Number); ok {
			return -n, nil
		}
		return nil, errors.NewRuntimeError(errors.TypeMismatch,
			fmt.Sprintf("Operand of '-' must be a number, got %s.", value.KindOf(right)),
			e.Operator.Line)
	}
	panic(fmt.Sprintf("interpreter: unknown unary operator %s", e.Operator.Type))
}

func binary(op lexer.Token, left, right value.Value) (value.Value, error) {
	switch op.Type {
	case lexer.TokenDoubleEqual:
		return value.Bool(value.Equal(left, right)), nil
	case lexer.TokenNotEqual:
		return value.Bool(!value.Equal(left, right)), nil
	}

	ln, lNum := left.(value.Number)
	rn, rNum := right.(value.Number)
	ls, lStr := left.(value.String)
	rs, rStr := right.(value.String)

	switch op.Type {
	case lexer.TokenPlus:
		switch {
		case lNum && rNum:
			return ln + rn, nil
		case lStr && rStr:
			return ls + rs, nil
		}
		return nil, mismatch(op, left, right, "two numbers or two strings")
	case lexer.TokenMinus, lexer.TokenSlash:
		if !lNum || !rNum {
			return nil, mismatch(op, left, right, "numbers")
		}
		if op.Type == lexer.TokenMinus {
			return ln - rn, nil
		}
		return ln / rn, nil
	case lexer.TokenStar:
		switch {
		case lNum && rNum:
			return ln * rn, nil
		case lStr && rNum:
			return repeat(op, ls, rn)
		case lNum && rStr:
			return repeat(op, rs, ln)
		}
		return nil, mismatch(op, left, right, "numbers, or a string and a number")
	case lexer.TokenGT, lexer.TokenGE, lexer.TokenLT, lexer.TokenLE:
		var cmp int
		switch {
		case lNum && rNum:
			if math.IsNaN(float64(ln)) || math.IsNaN(float64(rn)) {
				return value.Bool(false), nil
			}
			cmp = compareNumbers(ln, rn)
		case lStr && rStr:
			cmp = strings.Compare(string(ls), string(rs))
		default:
			return nil, mismatch(op, left, right, "two numbers or two strings")
		}
		switch op.Type {
		case lexer.TokenGT:
			return value.Bool(cmp > 0), nil
		case lexer.TokenGE:
			return value.Bool(cmp >= 0), nil
		case lexer.TokenLT:
			return value.Bool(cmp < 0), nil
		default:
			return value.Bool(cmp <= 0), nil
		}
	}
	panic(fmt.Sprintf("interpreter: unknown binary operator %s", op.Type))
}

func compareNumbers(a, b value.Number) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// repeat concatenates s with itself trunc(n) times. Counts below one and NaN
// give the empty string.
func repeat(op lexer.Token, s value.String, n value.Number) (value.Value, error) {
	f := float64(n)
	if math.IsInf(f, 0) {
		return nil, errors.NewRuntimeError(errors.InvalidOperand,
			fmt.Sprintf("Repeat count for '%s' must be finite.", op.Lexeme), op.Line)
	}
	if math.IsNaN(f) || f < 1 || s == "" {
		return value.String(""), nil
	}
	if f > float64(maxStringLen/len(s)) {
		return nil, errors.NewRuntimeError(errors.InvalidOperand,
			fmt.Sprintf("Repeated string for '%s' is too long.", op.Lexeme), op.Line)
	}
	return value.String(strings.Repeat(string(s), int(f))), nil
}

func mismatch(op lexer.Token, left, right value.Value, want string) *errors.Error {
	return errors.NewRuntimeError(errors.TypeMismatch,
		fmt.Sprintf("Operands of '%s' must be %s, got %s and %s.",
			op.Lexeme, want, value.KindOf(left), value.KindOf(right)),
		op.Line)
}
