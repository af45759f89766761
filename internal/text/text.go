// Package text extracts the single character carried by a text value.
package text

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// ErrMalformedText is returned when a text value is not exactly one character long.
var ErrMalformedText = errors.New("text is not a single character")

// SingleCharacterOf returns the only code point of s.
// Invalid UTF-8 bytes count as one character each, as the decoder sees them.
func SingleCharacterOf(s string) (rune, error) {
	if n := utf8.RuneCountInString(s); n != 1 {
		return 0, fmt.Errorf("%w: length %d", ErrMalformedText, n)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}
