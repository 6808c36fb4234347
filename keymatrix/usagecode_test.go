package keymatrix

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUsageCodeValid(t *testing.T) {
	cases := []struct {
		code byte
		want bool
	}{
		{0x00, false}, // below Z1
		{0x03, false}, // below Z1
		{0x04, true},  // Z1 lo
		{0x65, true},  // Z1 hi
		{0x66, false}, // gap between zones
		{0x67, false}, // gap between zones
		{0x68, true},  // Z2 lo
		{0x9c, true},  // Z2 hi
		{0x9d, false}, // above Z2
		{0xe0, false}, // modifier code, excluded
		{0xe7, false}, // modifier code, excluded
		{0xff, false},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, UsageCode(tc.code).Valid(), "code 0x%02x", tc.code)
	}
}

func TestFromByte(t *testing.T) {
	_, ok := FromByte(0x66)
	require.False(t, ok, "FromByte(0x66) in zone gap")

	c, ok := FromByte(0x04)
	require.True(t, ok)
	require.Equal(t, DefaultA, c)
}
