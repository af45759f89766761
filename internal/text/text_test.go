package text

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSingleCharacterOf(t *testing.T) {
	tests := []struct {
		in   string
		want rune
	}{
		{"A", 'A'},
		{"\x00", 0},
		{"é", 'é'},
		{"😀", '😀'},
		{"\xff", utf8.RuneError},
	}
	for _, tt := range tests {
		got, err := SingleCharacterOf(tt.in)
		require.NoError(t, err, "%q", tt.in)
		assert.Equal(t, tt.want, got, "%q", tt.in)
	}
}

func TestSingleCharacterOfMalformed(t *testing.T) {
	for _, in := range []string{"", "AB", "é"} {
		_, err := SingleCharacterOf(in)
		assert.ErrorIs(t, err, ErrMalformedText, "%q", in)
	}
	_, err := SingleCharacterOf("AB")
	assert.EqualError(t, err, "text is not a single character: length 2")
}
