package keymatrix

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultMapping(t *testing.T) {
	require.Equal(t, Mapping{DefaultA, DefaultB, DefaultC}, DefaultMapping())
}

func TestMappingBytesRoundTrip(t *testing.T) {
	m := DefaultMapping()

	got, ok := FromBytes(m.Bytes())
	require.True(t, ok)
	require.Equal(t, m, got)
}

func TestFromBytesRejectsInvalidSlot(t *testing.T) {
	b := [NumButtons]byte{0x04, 0x66, 0x06} // middle byte in the zone gap

	_, ok := FromBytes(b)
	require.False(t, ok)
}
