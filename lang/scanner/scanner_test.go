package scanner_test

import (
	"testing"

	"github.com/mna/ember/lang/scanner"
	"github.com/mna/ember/lang/token"
	"github.com/stretchr/testify/require"
)

func scanAll(t *testing.T, src string) []scanner.Token {
	t.Helper()
	s := scanner.New(src)
	var toks []scanner.Token
	for {
		tok := s.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

func TestScanPunctuationAndOperators(t *testing.T) {
	toks := scanAll(t, "(){};,.-+/*!!====<<=>>=")
	want := []token.Token{
		token.LPAREN, token.RPAREN, token.LBRACE, token.RBRACE, token.SEMI,
		token.COMMA, token.DOT, token.MINUS, token.PLUS, token.SLASH, token.STAR,
		token.BANG, token.BANG_EQ, token.EQ_EQ, token.EQ, token.LT, token.LT_EQ, token.GT,
		token.GT_EQ, token.EOF,
	}
	require.Len(t, toks, len(want))
	for i, k := range want {
		require.Equalf(t, k, toks[i].Kind, "token %d", i)
	}
}

func TestScanKeywordsAndIdentifiers(t *testing.T) {
	toks := scanAll(t, "class fun this super nilly")
	require.Equal(t, token.CLASS, toks[0].Kind)
	require.Equal(t, token.FUN, toks[1].Kind)
	require.Equal(t, token.THIS, toks[2].Kind)
	require.Equal(t, token.SUPER, toks[3].Kind)
	require.Equal(t, token.IDENT, toks[4].Kind, "nilly is an identifier, not the nil keyword")
}

func TestScanNumbers(t *testing.T) {
	src := "123 45.67 8."
	toks := scanAll(t, src)
	require.Equal(t, token.NUMBER, toks[0].Kind)
	require.Equal(t, "123", toks[0].Lexeme(src))
	require.Equal(t, token.NUMBER, toks[1].Kind)
	require.Equal(t, "45.67", toks[1].Lexeme(src))
	// a trailing dot not followed by a digit is not part of the number.
	require.Equal(t, token.NUMBER, toks[2].Kind)
	require.Equal(t, "8", toks[2].Lexeme(src))
	require.Equal(t, token.DOT, toks[3].Kind)
}

func TestScanStrings(t *testing.T) {
	src := `"hello, world"`
	toks := scanAll(t, src)
	require.Equal(t, token.STRING, toks[0].Kind)
	require.Equal(t, src, toks[0].Lexeme(src))
}

func TestScanUnterminatedString(t *testing.T) {
	toks := scanAll(t, `"hello`)
	require.Equal(t, token.ILLEGAL, toks[0].Kind)
	require.Equal(t, "Unterminated string.", toks[0].Message)
}

func TestScanMultilineStringTracksLine(t *testing.T) {
	src := "\"a\nb\"\nc"
	toks := scanAll(t, src)
	require.Equal(t, token.STRING, toks[0].Kind)
	require.Equal(t, 2, toks[0].Line)
	require.Equal(t, token.IDENT, toks[1].Kind)
	require.Equal(t, 3, toks[1].Line)
}

func TestSkipsLineComments(t *testing.T) {
	toks := scanAll(t, "// a comment\nvar")
	require.Equal(t, token.VAR, toks[0].Kind)
	require.Equal(t, 2, toks[0].Line)
}

func TestUnexpectedCharacter(t *testing.T) {
	toks := scanAll(t, "@")
	require.Equal(t, token.ILLEGAL, toks[0].Kind)
	require.Equal(t, "Unexpected character.", toks[0].Message)
}
