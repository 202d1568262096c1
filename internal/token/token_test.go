package token

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindString(t *testing.T) {
	require.Equal(t, "LEFT_PAREN", LeftParen.String())
	require.Equal(t, "BANG_EQUAL", BangEqual.String())
	require.Equal(t, "EOF", EOF.String())
}

func TestKeywordsCoverEveryReservedWord(t *testing.T) {
	words := []string{
		"and", "class", "else", "false", "for", "fun", "if", "nil",
		"or", "print", "return", "super", "this", "true", "var", "while", "break",
	}
	for _, w := range words {
		_, ok := Keywords[w]
		require.True(t, ok, "missing keyword %q", w)
	}
	require.Len(t, Keywords, len(words))
}

func TestTokenString(t *testing.T) {
	tok := Token{Kind: Identifier, Lexeme: "x", Line: 3}
	require.Equal(t, `IDENTIFIER "x" line 3`, tok.String())
}
