package lotid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeKnownToken(t *testing.T) {
	// 0x0000 ^ 0xE19A = 57754 = 5 + 10*43 + 31*43^2
	assert.Equal(t, "5AV", Encode(0, 0).String())
}

func TestRoundTripAllPairs(t *testing.T) {
	for id := 0; id <= 255; id++ {
		for lot := 0; lot <= 255; lot++ {
			tok := Encode(byte(id), byte(lot))

			require.Len(t, tok.String(), TokenLength)
			for _, c := range tok {
				require.True(t, strings.IndexByte(Alphabet, c) >= 0, "symbol %q not in alphabet", c)
			}

			gotID, gotLot, err := Decode(tok.String())
			require.NoError(t, err)
			require.Equal(t, byte(id), gotID)
			require.Equal(t, byte(lot), gotLot)
		}
	}
}

func TestEncodeStaysWithinThreeDigits(t *testing.T) {
	for packed := 0; packed <= 0xFFFF; packed++ {
		value := uint32(packed) ^ whitening
		require.Less(t, value, base*base*base)
	}
}

func TestAlphabetHasNoDuplicates(t *testing.T) {
	require.Len(t, Alphabet, 43)
	seen := map[rune]bool{}
	for _, r := range Alphabet {
		assert.False(t, seen[r], "duplicate symbol %q", r)
		seen[r] = true
	}
}

func TestDecodeRejectsForeignSymbols(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"leading bang", "!AA"},
		{"trailing hash", "AA#"},
		{"underscore", "A_A"},
		{"non-ascii", "AÄA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Decode(tt.input)
			assert.ErrorIs(t, err, ErrInvalidSymbol)
		})
	}

	_, _, err := DecodeToken([3]rune{'!', 'A', 'A'})
	assert.ErrorIs(t, err, ErrInvalidSymbol)
}

func TestDecodeIsCaseInsensitive(t *testing.T) {
	lowerID, lowerLot, err := Decode("a1g")
	require.NoError(t, err)
	upperID, upperLot, err := Decode("A1G")
	require.NoError(t, err)

	assert.Equal(t, upperID, lowerID)
	assert.Equal(t, upperLot, lowerLot)
}

func TestDecodeAcceptsSpaceSymbol(t *testing.T) {
	_, _, err := Decode("  0")
	assert.NoError(t, err)
}

func TestDecodeRejectsWrongLength(t *testing.T) {
	for _, input := range []string{"", "AB", "ABCD"} {
		_, _, err := Decode(input)
		assert.ErrorIs(t, err, ErrInvalidLength, "input %q", input)
	}
}
