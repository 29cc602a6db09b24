package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func types(toks []Token) []TokenType {
	out := make([]TokenType, len(toks))
	for i, tok := range toks {
		out[i] = tok.Type
	}
	return out
}

func TestAssignStatement(t *testing.T) {
	toks := New("x := y + 1").Tokens()

	assert.Equal(t, []TokenType{IDENT, WALRUS, IDENT, PLUS, NUMBER, EOF}, types(toks))
	assert.Equal(t, "x", toks[0].Lit)
	assert.Equal(t, "1", toks[4].Lit)
}

func TestKeywordsAreCaseInsensitive(t *testing.T) {
	toks := New("loop X do ... end\nWHILE x != 0 DO x := x - 1 END").Tokens()

	assert.Equal(t, []TokenType{
		LOOP, IDENT, DO, ELLIPSIS, END, NEWLINE,
		WHILE, IDENT, NEQ, NUMBER, DO, IDENT, WALRUS, IDENT, MINUS, NUMBER, END, EOF,
	}, types(toks))
}

func TestOperators(t *testing.T) {
	toks := New("= == != < <= > >= + - * := :: -> ( ) ,").Tokens()

	assert.Equal(t, []TokenType{
		ASSIGN, EQ, NEQ, LT, LTE, GT, GTE, PLUS, MINUS, STAR,
		WALRUS, PATHSEP, ARROW, LPAREN, RPAREN, COMMA, EOF,
	}, types(toks))
}

func TestSeparators(t *testing.T) {
	toks := New("x := 1; y := 2\nz := 3").Tokens()

	var newlines int
	for _, tok := range toks {
		if tok.Type == NEWLINE {
			newlines++
		}
	}
	assert.Equal(t, 2, newlines)
}

func TestLineComment(t *testing.T) {
	toks := New("x := 1 # trailing comment\n# whole line\ny := 2").Tokens()

	assert.Equal(t, []TokenType{
		IDENT, WALRUS, NUMBER, NEWLINE, NEWLINE, IDENT, WALRUS, NUMBER, EOF,
	}, types(toks))
}

func TestBlockComment(t *testing.T) {
	toks := New("### block\nspanning lines ### x := 1").Tokens()

	assert.Equal(t, []TokenType{IDENT, WALRUS, NUMBER, EOF}, types(toks))
}

func TestImportLine(t *testing.T) {
	toks := New("FROM fs::a IMPORT d AS c").Tokens()

	assert.Equal(t, []TokenType{
		FROM, IDENT, PATHSEP, IDENT, IMPORT, IDENT, AS, IDENT, EOF,
	}, types(toks))
}

func TestPositions(t *testing.T) {
	toks := New("x := 1\ny := 2").Tokens()

	require.GreaterOrEqual(t, len(toks), 8)
	assert.Equal(t, 1, toks[0].Line)
	assert.Equal(t, 2, toks[4].Line) // y on the second line
}

func TestUnderscoreIdents(t *testing.T) {
	toks := New("_0 := _zero + 0").Tokens()

	assert.Equal(t, []TokenType{IDENT, WALRUS, IDENT, PLUS, NUMBER, EOF}, types(toks))
	assert.Equal(t, "_0", toks[0].Lit)
	assert.Equal(t, "_zero", toks[2].Lit)
}

func TestIllegalRune(t *testing.T) {
	toks := New("x ? y").Tokens()

	assert.Equal(t, []TokenType{IDENT, ILLEGAL, IDENT, EOF}, types(toks))
}
