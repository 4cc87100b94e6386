// internal/maestro/codec_test.go
package maestro

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPackWordRoundTrip(t *testing.T) {
	for v := 0; v <= maxWord; v++ {
		lsb, msb, err := packWord(v)
		require.NoError(t, err)
		require.Equal(t, v, unpackWord(lsb, msb))
	}
}

func TestPackWord(t *testing.T) {
	testCases := []struct {
		name  string
		value int
		lsb   byte
		msb   byte
	}{
		{"zero", 0, 0x00, 0x00},
		{"seven bits", 127, 0x7F, 0x00},
		{"eighth bit", 128, 0x00, 0x01},
		{"servo center", 6000, 0x70, 0x2E},
		{"max", 16383, 0x7F, 0x7F},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			lsb, msb, err := packWord(tc.value)
			require.NoError(t, err)
			require.Equal(t, tc.lsb, lsb)
			require.Equal(t, tc.msb, msb)
		})
	}
}

func TestPackWordOutOfRange(t *testing.T) {
	for _, v := range []int{-1, maxWord + 1, 1 << 20} {
		_, _, err := packWord(v)
		var rangeErr *ValueRangeError
		require.ErrorAs(t, err, &rangeErr)
		require.Equal(t, v, rangeErr.Value)
	}
}

// Responses are byte-aligned words; the 7-bit pair reconstruction
// must not be applied to them.
func TestResponseWord(t *testing.T) {
	require.Equal(t, 6000, responseWord(0x70, 0x17))
	require.Equal(t, 0x0123, responseWord(0x23, 0x01))
	require.Equal(t, 0xFFFF, responseWord(0xFF, 0xFF))

	// Same byte pair, different schemes.
	require.NotEqual(t, responseWord(0x70, 0x2E), unpackWord(0x70, 0x2E))
	require.Equal(t, 6000, unpackWord(0x70, 0x2E))
}
