// Package lotid packs an (id, lot) byte pair into a three-symbol token that
// operators can type by hand, and unpacks it again.
package lotid

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Alphabet is the ordered 43-symbol table. The index of a symbol is its
// base-43 digit value.
const Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ-+/$.% "

const (
	// TokenLength is the number of symbols in every token.
	TokenLength = 3

	base      = uint32(len(Alphabet))
	whitening = 0xE19A
)

var (
	ErrInvalidSymbol = errors.New("invalid symbol")
	ErrInvalidLength = errors.New("token must be exactly 3 characters")
)

// Token is an encoded (id, lot) pair. Symbols are stored least-significant
// digit first.
type Token [TokenLength]byte

func (t Token) String() string {
	return string(t[:])
}

// Encode packs id and lot into a token. All 65536 combinations fit because
// 43^3 > 2^16.
func Encode(id, lot byte) Token {
	value := (uint32(lot)<<8 | uint32(id)) ^ whitening

	var out Token
	for i := range out {
		out[i] = Alphabet[value%base]
		value /= base
	}
	return out
}

// Decode parses a typed token. Lookup is case-insensitive.
func Decode(s string) (id, lot byte, err error) {
	if utf8.RuneCountInString(s) != TokenLength {
		return 0, 0, fmt.Errorf("%w (got %d)", ErrInvalidLength, utf8.RuneCountInString(s))
	}

	var chars [TokenLength]rune
	i := 0
	for _, r := range s {
		chars[i] = r
		i++
	}
	return DecodeToken(chars)
}

// DecodeToken unpacks three symbols. Any symbol outside the alphabet fails
// the whole token; no partial result is returned.
func DecodeToken(chars [TokenLength]rune) (id, lot byte, err error) {
	var value uint32
	weight := uint32(1)
	for pos, ch := range chars {
		idx := symbolIndex(ch)
		if idx < 0 {
			return 0, 0, fmt.Errorf("%w %q at position %d", ErrInvalidSymbol, ch, pos+1)
		}
		value += uint32(idx) * weight
		weight *= base
	}

	value ^= whitening
	return byte(value & 0xFF), byte((value >> 8) & 0xFF), nil
}

func symbolIndex(r rune) int {
	if r >= utf8.RuneSelf {
		return -1
	}
	upper := r
	if r >= 'a' && r <= 'z' {
		upper = r - ('a' - 'A')
	}
	return strings.IndexRune(Alphabet, upper)
}
