package interpreter

import (
	"bytes"
	stderrors "errors"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mlox/internal/errors"
	"mlox/internal/lexer"
	"mlox/internal/parser"
	"mlox/internal/value"
)

func parse(t *testing.T, source string) []parser.Stmt {
	t.Helper()
	tokens, err := lexer.Scan(source)
	require.NoError(t, err)
	stmts, err := parser.NewParser(tokens).Parse()
	require.NoError(t, err)
	return stmts
}

// run executes source with echo on and returns everything written.
func run(t *testing.T, source string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := New(nil, &out, WithEcho(true)).Interpret(parse(t, source))
	return out.String(), err
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"precedence", "1 + 2 * 3;", "7\n"},
		{"grouping", "(1 + 2) * 3;", "9\n"},
		{"float", "0.1 + 0.2;", "0.30000000000000004\n"},
		{"division", "7 / 2;", "3.5\n"},
		{"divide by zero", "1 / 0;", "+Inf\n"},
		{"negate", "-(3 - 5);", "2\n"},
		{"concat", `"a" + "b" + "c";`, "abc\n"},
		{"repeat", `"ab" * 3;`, "ababab\n"},
		{"repeat reversed", `3 * "x";`, "xxx\n"},
		{"repeat truncates", `"ab" * 2.9;`, "abab\n"},
		{"repeat zero", `"ab" * 0;`, "\n"},
		{"repeat negative", `"ab" * -2;`, "\n"},
		{"not zero", "!0;", "true\n"},
		{"not null", "!null;", "true\n"},
		{"not empty", `!"";`, "true\n"},
		{"not string", `!"x";`, "false\n"},
		{"not number", "!2;", "false\n"},
		{"cross kind equality", `1 == "1";`, "false\n"},
		{"null equality", "null == null;", "true\n"},
		{"null vs false", "null == false;", "false\n"},
		{"not equal", "1 != 2;", "true\n"},
		{"string compare", `"apple" < "banana";`, "true\n"},
		{"string compare eq", `"b" >= "b";`, "true\n"},
		{"number compare", "2 <= 1;", "false\n"},
		{"and value", `1 and "two";`, "two\n"},
		{"and falsy", `0 and "two";`, "0\n"},
		{"or value", `null or "default";`, "default\n"},
		{"or truthy", `"x" or 1;`, "x\n"},
		{"print", "print 1; print \"two\"; print true; print null;", "1\ntwo\ntrue\nnull\n"},
		{"assignment value", "var a; print a = 3;", "3\n"},
		{"chained assignment", "var a; var b; a = b = 4; print a; print b;", "4\n4\n4\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := run(t, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestShortCircuit(t *testing.T) {
	for _, input := range []string{
		"false and (1/0);",
		"false and undefinedName;",
		"true or undefinedName;",
		`false and ("a" - 1);`,
	} {
		t.Run(input, func(t *testing.T) {
			_, err := run(t, input)
			assert.NoError(t, err)
		})
	}
}

func TestScoping(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"shadow", "var a = 1; { var a = 2; print a; } print a;", "2\n1\n"},
		{"assign outer", "var a = 1; { a = 2; } print a;", "2\n"},
		{"nested", "var a = 1; { var b = 2; { print a + b; } }", "3\n"},
		{"redeclare", "var a = 1; var a = 2; print a;", "2\n"},
		{"for", "for (var i = 0; i < 3; i = i + 1) print i;", "0\n1\n2\n"},
		{"while", "var i = 3; while (i > 0) { print i; i = i - 1; }", "3\n2\n1\n"},
		{"if else", "if (0) print 1; else print 2;", "2\n"},
		{"if no else", "if (null) print 1;", ""},
		{"if truthy string", `if ("x") print "yes";`, "yes\n"},
		{"block echo suppressed", "{ 1 + 1; }", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := run(t, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestForVariableNotVisibleAfterLoop(t *testing.T) {
	got, err := run(t, "for (var i = 0; i < 1; i = i + 1) print i; print i;")
	assert.Equal(t, "0\n", got)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, &errors.Error{Kind: errors.UndefinedVariable}))
}

func TestRuntimeErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		kind    errors.Kind
		message string
	}{
		{"undefined read", "print x;", errors.UndefinedVariable, "Undefined variable 'x'."},
		{"undefined assign", "x = 1;", errors.UndefinedVariable, "Undefined variable 'x'."},
		{"add mixed", `1 + "a";`, errors.TypeMismatch, "Operands of '+' must be two numbers or two strings, got number and string."},
		{"subtract strings", `"a" - "b";`, errors.TypeMismatch, "Operands of '-' must be numbers, got string and string."},
		{"divide bool", "true / 1;", errors.TypeMismatch, "Operands of '/' must be numbers, got boolean and number."},
		{"multiply strings", `"a" * "b";`, errors.TypeMismatch, "Operands of '*' must be numbers, or a string and a number, got string and string."},
		{"compare mixed", `1 < "2";`, errors.TypeMismatch, "Operands of '<' must be two numbers or two strings, got number and string."},
		{"compare null", "null > null;", errors.TypeMismatch, "Operands of '>' must be two numbers or two strings, got null and null."},
		{"negate string", `-"a";`, errors.TypeMismatch, "Operand of '-' must be a number, got string."},
		{"repeat infinite", `"a" * (1/0);`, errors.InvalidOperand, "Repeat count for '*' must be finite."},
		{"repeat huge", `"a" * 10000000000000;`, errors.InvalidOperand, "Repeated string for '*' is too long."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.input)
			require.Error(t, err)
			var rerr *errors.Error
			require.True(t, stderrors.As(err, &rerr))
			assert.Equal(t, errors.RuntimeError, rerr.Phase)
			assert.Equal(t, tt.kind, rerr.Kind)
			assert.Equal(t, tt.message, rerr.Message)
			assert.Equal(t, 1, rerr.Location.Line)
		})
	}
}

func TestRuntimeErrorStopsUnit(t *testing.T) {
	got, err := run(t, "print 1;\nprint nope;\nprint 3;")
	require.Error(t, err)
	assert.Equal(t, "1\n", got)

	var rerr *errors.Error
	require.True(t, stderrors.As(err, &rerr))
	assert.Equal(t, 2, rerr.Location.Line)
}

func TestBlockRestoresScopeOnError(t *testing.T) {
	root := NewEnvironment(nil)
	interp := New(root, &bytes.Buffer{})

	err := interp.Interpret(parse(t, "{ var inner = 1; { print missing; } }"))
	require.Error(t, err)
	assert.Same(t, root, interp.env)
	assert.Empty(t, root.Names())
}

func TestEnvironmentPersistsAcrossCalls(t *testing.T) {
	root := NewEnvironment(nil)
	var out bytes.Buffer

	require.NoError(t, New(root, &out).Interpret(parse(t, "var a = 1;")))
	require.NoError(t, New(root, &out).Interpret(parse(t, "a = a + 1; print a;")))
	assert.Equal(t, "2\n", out.String())

	got, err := root.Get(lexer.Token{Type: lexer.TokenIdent, Lexeme: "a"})
	require.NoError(t, err)
	assert.Equal(t, value.Number(2), got)
}

func TestEchoOnlyTopLevelStatements(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"while body", "while (false) 1; var i = 0; while (i < 2) i = i + 1;", ""},
		{"if body", "if (true) 5;", ""},
		{"else body", "if (false) 1; else 2;", ""},
		{"braced body", "var i = 0; while (i < 2) { i = i + 1; }", ""},
		{"top level after loop", "var i = 0; while (i < 2) i = i + 1; i;", "2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := run(t, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEchoOffByDefault(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, New(nil, &out).Interpret(parse(t, "1 + 2;")))
	assert.Empty(t, out.String())
}

func TestLoggerTracesStatements(t *testing.T) {
	var out, trace bytes.Buffer
	logger := log.New(&trace, "", 0)
	require.NoError(t, New(nil, &out, WithLogger(logger)).Interpret(parse(t, "{ print 1; }")))
	lines := strings.Split(strings.TrimSpace(trace.String()), "\n")
	assert.Equal(t, []string{
		"exec depth=0 (block (print 1))",
		"exec depth=1 (print 1)",
	}, lines)
}
