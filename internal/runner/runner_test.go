package runner

import (
	"bytes"
	stderrors "errors"
	"log"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mlox/internal/errors"
	"mlox/internal/interpreter"
	"mlox/internal/lexer"
	"mlox/internal/value"
)

func runEcho(source string) (string, Result) {
	var out bytes.Buffer
	res := RunUnit(source, interpreter.NewEnvironment(nil), WithOutput(&out), WithEcho(true))
	return out.String(), res
}

func TestRunUnitProperties(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1 + 2 * 3;", "7\n"},
		{"(1 + 2) * 3;", "9\n"},
		{`"a" + "b" + "c";`, "abc\n"},
		{`"ab" * 3;`, "ababab\n"},
		{`3 * "x";`, "xxx\n"},
		{"!0;", "true\n"},
		{"!null;", "true\n"},
		{`!"";`, "true\n"},
		{`!"x";`, "false\n"},
		{`1 == "1";`, "false\n"},
		{"null == null;", "true\n"},
		{"var a = 1; { var a = 2; print a; } print a;", "2\n1\n"},
		{"var a = 1; { a = 2; } print a;", "2\n"},
		{"for (var i = 0; i < 3; i = i + 1) print i;", "0\n1\n2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, res := runEcho(tt.input)
			require.Equal(t, StatusOK, res.Status, "%v", res.Err())
			assert.Equal(t, tt.want, got)
			assert.NoError(t, res.Err())
		})
	}
}

func TestShortCircuitDoesNotEvaluateRight(t *testing.T) {
	_, res := runEcho("false and (1/0);")
	assert.Equal(t, StatusOK, res.Status)
	_, res = runEcho("false and missing;")
	assert.Equal(t, StatusOK, res.Status)
}

func TestParseErrorBlocksWholeUnit(t *testing.T) {
	got, res := runEcho("print 1 +;\nprint 2;")
	assert.Empty(t, got, "no statement of a failed unit may run")
	require.Equal(t, StatusScanOrParseFailed, res.Status)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, "[line 1] Error at ';': Expect expression.", res.Diagnostics[0].Error())
	assert.Equal(t, "print 1 +;", res.Diagnostics[0].Source)
	assert.Nil(t, res.Runtime)
}

func TestScanErrorBlocksWholeUnit(t *testing.T) {
	got, res := runEcho("print 1;\nprint 'open")
	assert.Empty(t, got)
	require.Equal(t, StatusScanOrParseFailed, res.Status)
	assert.True(t, stderrors.Is(res.Err(), &errors.Error{Kind: errors.UnterminatedString}))
}

func TestAllErrorsCollected(t *testing.T) {
	_, res := runEcho("var a = #;\nprint (1;\n1 = 2;\nprint ok;")
	require.Equal(t, StatusScanOrParseFailed, res.Status)

	type diag struct {
		Phase errors.Phase
		Kind  errors.Kind
		Line  int
	}
	var got []diag
	for _, d := range res.Diagnostics {
		got = append(got, diag{d.Phase, d.Kind, d.Location.Line})
	}
	want := []diag{
		{errors.ScanError, errors.UnexpectedCharacter, 1},
		{errors.ParseError, errors.UnexpectedToken, 1},
		{errors.ParseError, errors.UnexpectedToken, 2},
		{errors.ParseError, errors.InvalidAssignmentTarget, 3},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
	}
}

func TestRuntimeFailure(t *testing.T) {
	env := interpreter.NewEnvironment(nil)
	var out bytes.Buffer
	res := RunUnit("print 1;\nundefined = 2;\nprint 3;", env, WithOutput(&out), WithFile("s.lox"))

	assert.Equal(t, "1\n", out.String())
	require.Equal(t, StatusRuntimeFailed, res.Status)
	require.NotNil(t, res.Runtime)
	assert.Equal(t, errors.UndefinedVariable, res.Runtime.Kind)
	assert.Equal(t, 2, res.Runtime.Location.Line)
	assert.Equal(t, "s.lox", res.Runtime.Location.File)
	assert.Equal(t, "undefined = 2;", res.Runtime.Source)
	assert.Equal(t, "runtime failed", res.Status.String())
}

func TestEchoSkipsNestedExpressionStatements(t *testing.T) {
	got, res := runEcho("while (false) 1; var i = 0; while (i < 2) i = i + 1;")
	require.Equal(t, StatusOK, res.Status)
	assert.Empty(t, got)

	got, res = runEcho("if (true) 5;")
	require.Equal(t, StatusOK, res.Status)
	assert.Empty(t, got)
}

func TestLoggerReceivesErrorDetail(t *testing.T) {
	var trace bytes.Buffer
	logger := log.New(&trace, "", 0)

	RunUnit("print 1 +;", nil, WithLogger(logger))
	assert.Contains(t, trace.String(), "UnexpectedToken: Expect expression.")
	assert.Contains(t, trace.String(), "1 | print 1 +;")

	trace.Reset()
	RunUnit("var a = 1;\nprint b;", nil, WithLogger(logger), WithFile("t.lox"))
	assert.Contains(t, trace.String(), "UndefinedVariable: Undefined variable 'b'.")
	assert.Contains(t, trace.String(), "at t.lox:2")
	assert.Contains(t, trace.String(), "2 | print b;")
}

func TestEnvironmentPersistsAcrossUnits(t *testing.T) {
	env := interpreter.NewEnvironment(nil)
	var out bytes.Buffer

	for _, line := range []string{"var count = 1;", "count = count + 1;", "print nope;", "print count;"} {
		RunUnit(line, env, WithOutput(&out))
	}
	assert.Equal(t, "2\n", out.String())

	v, err := env.Get(lexer.Token{Type: lexer.TokenIdent, Lexeme: "count"})
	require.NoError(t, err)
	assert.Equal(t, value.Number(2), v)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, stderrors.New("sink closed") }

func TestOutputErrorIsRuntimeFailure(t *testing.T) {
	res := RunUnit("print 1;", nil, WithOutput(failingWriter{}))
	require.Equal(t, StatusRuntimeFailed, res.Status)
	assert.Nil(t, res.Runtime)
	assert.EqualError(t, res.Err(), "sink closed")
}

func TestLoggerReceivesPhases(t *testing.T) {
	var trace bytes.Buffer
	res := RunUnit("print 1;", nil, WithLogger(log.New(&trace, "", 0)))
	require.Equal(t, StatusOK, res.Status)
	assert.Contains(t, trace.String(), "parsed 1 statements, 0 diagnostics")
	assert.Contains(t, trace.String(), "exec depth=0 (print 1)")
}

func TestCompile(t *testing.T) {
	stmts, diags := Compile("var a = 1; print a;", "")
	assert.Empty(t, diags)
	assert.Len(t, stmts, 2)
}
