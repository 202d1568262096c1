package parser

import (
	"testing"

	"github.com/loxlang/golox/internal/diag"
	"github.com/loxlang/golox/internal/scanner"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, source string) (string, *diag.Sink) {
	t.Helper()
	sink := &diag.Sink{}
	tokens := scanner.New(source, sink).ScanTokens()
	stmts := New(tokens, sink).Parse()

	var out string
	for i, s := range stmts {
		if i > 0 {
			out += " "
		}
		out += s.String()
	}
	return out, sink
}

func TestParsePrecedenceAndAssociativity(t *testing.T) {
	out, sink := parse(t, "1 + 2 * 3 - -4;")
	require.False(t, sink.HadError())
	require.Equal(t, "(- (+ 1 (* 2 3)) (- 4));", out)
}

func TestParseTernaryIsRightAssociative(t *testing.T) {
	out, sink := parse(t, "true ? 1 : false ? 2 : 3;")
	require.False(t, sink.HadError())
	require.Equal(t, "(?: true 1 (?: false 2 3));", out)
}

func TestParseAssignmentTargetsVariableAndProperty(t *testing.T) {
	out, sink := parse(t, "x = 1; obj.field = 2;")
	require.False(t, sink.HadError())
	require.Equal(t, "(= x 1); (set obj field 2);", out)
}

func TestParseInvalidAssignmentTargetReportsButContinues(t *testing.T) {
	out, sink := parse(t, "1 = 2; var x = 3;")
	require.True(t, sink.HadError())
	require.Equal(t, "1; (var x 3)", out)
}

func TestParseClassWithSuperclassAndMethods(t *testing.T) {
	out, sink := parse(t, "class Cake < Pastry { taste() { return 1; } }")
	require.False(t, sink.HadError())
	require.Equal(t, "(class Cake < Pastry)", out)
}

func TestParseForDesugarsToWhile(t *testing.T) {
	out, sink := parse(t, "for (var i = 0; i < 3; i = i + 1) print i;")
	require.False(t, sink.HadError())
	require.Contains(t, out, "(while (< i 3)")
	require.Contains(t, out, "(var i 0)")
}

func TestParseCallChainAndPropertyAccess(t *testing.T) {
	out, sink := parse(t, "a.b(1, 2).c;")
	require.False(t, sink.HadError())
	require.Equal(t, "(get (call (get a b) 1 2) c);", out)
}

func TestParseMissingSemicolonReportsAndSynchronizes(t *testing.T) {
	out, sink := parse(t, "var x = 1 var y = 2; print y;")
	require.True(t, sink.HadError())
	require.Equal(t, "(print y)", out)
}

func TestParseUnexpectedBinaryOperatorAtStartRecovers(t *testing.T) {
	out, sink := parse(t, "* 1; 2;")
	require.True(t, sink.HadError())
	require.Equal(t, "1; 2;", out)
}

func TestParseExpressionForSingleExpressionMode(t *testing.T) {
	sink := &diag.Sink{}
	tokens := scanner.New("1 + 2", sink).ScanTokens()
	expr := New(tokens, sink).ParseExpression()

	require.NotNil(t, expr)
	require.Equal(t, "(+ 1 2)", expr.String())
}
