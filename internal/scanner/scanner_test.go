package scanner

import (
	"testing"

	"github.com/loxlang/golox/internal/diag"
	"github.com/loxlang/golox/internal/token"
	"github.com/stretchr/testify/require"
)

func kinds(tokens []token.Token) []token.Kind {
	ks := make([]token.Kind, len(tokens))
	for i, tok := range tokens {
		ks[i] = tok.Kind
	}
	return ks
}

func TestScanTokensPunctuationAndOperators(t *testing.T) {
	sink := &diag.Sink{}
	s := New("(){},.-+;*?: ! != = == < <= > >=", sink)
	got := kinds(s.ScanTokens())

	require.False(t, sink.HadError())
	require.Equal(t, []token.Kind{
		token.LeftParen, token.RightParen, token.LeftBrace, token.RightBrace,
		token.Comma, token.Dot, token.Minus, token.Plus, token.Semicolon,
		token.Star, token.Question, token.Colon,
		token.Bang, token.BangEqual, token.Equal, token.EqualEqual,
		token.Less, token.LessEqual, token.Greater, token.GreaterEqual,
		token.EOF,
	}, got)
}

func TestScanTokensStringLiteralExcludesQuotes(t *testing.T) {
	sink := &diag.Sink{}
	s := New(`"hello world"`, sink)
	tokens := s.ScanTokens()

	require.False(t, sink.HadError())
	require.Equal(t, token.String, tokens[0].Kind)
	require.Equal(t, "hello world", tokens[0].Lexeme)
}

func TestScanTokensUnterminatedStringReportsError(t *testing.T) {
	sink := &diag.Sink{}
	s := New(`"oops`, sink)
	s.ScanTokens()

	require.True(t, sink.HadError())
}

func TestScanTokensNumberLiteral(t *testing.T) {
	sink := &diag.Sink{}
	s := New("1234.5678", sink)
	tokens := s.ScanTokens()

	require.False(t, sink.HadError())
	require.Equal(t, token.Number, tokens[0].Kind)
	require.Equal(t, "1234.5678", tokens[0].Lexeme)
}

func TestScanTokensKeywordsAndIdentifiers(t *testing.T) {
	sink := &diag.Sink{}
	s := New("var orchid = 1; or orchestra", sink)
	tokens := s.ScanTokens()

	require.False(t, sink.HadError())
	require.Equal(t, token.Var, tokens[0].Kind)
	require.Equal(t, token.Identifier, tokens[1].Kind)
	require.Equal(t, "orchid", tokens[1].Lexeme)
	require.Equal(t, token.Or, tokens[5].Kind)
	require.Equal(t, token.Identifier, tokens[6].Kind)
	require.Equal(t, "orchestra", tokens[6].Lexeme)
}

func TestScanTokensLineCommentIsIgnored(t *testing.T) {
	sink := &diag.Sink{}
	s := New("1 // a comment\n2", sink)
	tokens := s.ScanTokens()

	require.False(t, sink.HadError())
	require.Equal(t, []token.Kind{token.Number, token.Number, token.EOF}, kinds(tokens))
	require.Equal(t, 2, tokens[1].Line)
}

func TestScanTokensNestedBlockComment(t *testing.T) {
	sink := &diag.Sink{}
	s := New("1 /* outer /* inner */ still outer */ 2", sink)
	tokens := s.ScanTokens()

	require.False(t, sink.HadError())
	require.Equal(t, []token.Kind{token.Number, token.Number, token.EOF}, kinds(tokens))
}

func TestScanTokensUnexpectedCharacterReportsAndContinues(t *testing.T) {
	sink := &diag.Sink{}
	s := New("1 @ 2", sink)
	tokens := s.ScanTokens()

	require.True(t, sink.HadError())
	require.Equal(t, []token.Kind{token.Number, token.Number, token.EOF}, kinds(tokens))
}
