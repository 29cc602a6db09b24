package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/unicode/norm"
)

func TestNormalizeStripsBOM(t *testing.T) {
	src := append([]byte{0xEF, 0xBB, 0xBF}, []byte("x := 1")...)

	assert.Equal(t, []byte("x := 1"), Normalize(src))
}

func TestNormalizeNFC(t *testing.T) {
	// "é" in decomposed form normalizes to the composed form, so the
	// two spellings lex identically.
	decomposed := norm.NFD.Bytes([]byte("café := 1"))
	composed := norm.NFC.Bytes([]byte("café := 1"))

	assert.Equal(t, composed, Normalize(decomposed))
}

func TestNormalizeIsStableOnASCII(t *testing.T) {
	src := []byte("LOOP x DO x := x - 1 END")

	assert.Equal(t, src, Normalize(src))
}
