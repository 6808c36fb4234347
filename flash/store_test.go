package flash

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/usb-keypad/firmware/keymatrix"
)

const testPageBase = 0x1000

func TestOpenFactoryBootErasesAndWritesDefault(t *testing.T) {
	ctrl := NewFakeController(testPageBase, 32)

	s, err := Open(ctrl, testPageBase, 32)
	require.NoError(t, err)
	require.Equal(t, 0, s.LastValidIndex())

	m, ok := s.Load()
	require.True(t, ok)
	require.Equal(t, keymatrix.DefaultMapping(), m)
}

func TestStoreRemapThenPersist(t *testing.T) {
	ctrl := NewFakeController(testPageBase, 32)

	s, err := Open(ctrl, testPageBase, 32)
	require.NoError(t, err)

	remapped := keymatrix.Mapping{0x07, 0x08, 0x09}

	require.NoError(t, s.Store(remapped))
	require.Equal(t, 1, s.LastValidIndex())

	m, ok := s.Load()
	require.True(t, ok)
	require.Equal(t, remapped, m)

	// Reopening the same page must recover the same mapping.
	reopened, err := Open(ctrl, testPageBase, 32)
	require.NoError(t, err)

	m, ok = reopened.Load()
	require.True(t, ok)
	require.Equal(t, remapped, m)
}

func TestStoreWrapsPageWhenFull(t *testing.T) {
	// entrySize() is 4 for NumButtons == 3, so an 8-byte page holds
	// exactly 2 slots: one Open() factory write, then one Store() fills
	// the page, and the next Store() must erase and wrap to slot 0.
	pageSize := 8
	ctrl := NewFakeController(testPageBase, pageSize)

	s, err := Open(ctrl, testPageBase, pageSize)
	require.NoError(t, err)
	require.Equal(t, pageSize/entrySize(), s.NumSlots())

	first := keymatrix.Mapping{0x07, 0x07, 0x07}
	require.NoError(t, s.Store(first))
	require.Equal(t, 1, s.LastValidIndex())

	second := keymatrix.Mapping{0x08, 0x08, 0x08}
	require.NoError(t, s.Store(second))
	require.Equal(t, 0, s.LastValidIndex())

	m, ok := s.Load()
	require.True(t, ok)
	require.Equal(t, second, m)
}

func TestStoreReturnsNotErasedOnCorruptedSlot(t *testing.T) {
	pageSize := 32
	ctrl := NewFakeController(testPageBase, pageSize)

	s, err := Open(ctrl, testPageBase, pageSize)
	require.NoError(t, err)

	// Corrupt the next slot so it no longer reads as erased.
	next := s.slotAddr(s.LastValidIndex() + 1)
	require.NoError(t, ctrl.Program(next, []byte{0x01, 0x02}))

	err = s.Store(keymatrix.Mapping{0x07, 0x08, 0x09})
	require.ErrorIs(t, err, ErrNotErased)
}

func TestResetToDefaultRecoversFromNotErased(t *testing.T) {
	pageSize := 32
	ctrl := NewFakeController(testPageBase, pageSize)

	s, err := Open(ctrl, testPageBase, pageSize)
	require.NoError(t, err)

	next := s.slotAddr(s.LastValidIndex() + 1)
	require.NoError(t, ctrl.Program(next, []byte{0x01, 0x02}))

	err = s.Store(keymatrix.Mapping{0x07, 0x08, 0x09})
	require.ErrorIs(t, err, ErrNotErased)

	require.NoError(t, s.ResetToDefault())
	require.Equal(t, 0, s.LastValidIndex())

	m, ok := s.Load()
	require.True(t, ok)
	require.Equal(t, keymatrix.DefaultMapping(), m)

	// The retried Store after recovery must now succeed.
	retry := keymatrix.Mapping{0x07, 0x08, 0x09}
	require.NoError(t, s.Store(retry))
}

func TestLoadRejectsCorruptedUsageCode(t *testing.T) {
	ctrl := NewFakeController(testPageBase, 32)

	s, err := Open(ctrl, testPageBase, 32)
	require.NoError(t, err)

	// Poke an invalid usage code byte directly into slot 0's payload,
	// bypassing Store to simulate flash corruption.
	require.NoError(t, ctrl.Program(testPageBase, []byte{Magic, 0x66, 0x05, 0x06}))

	_, ok := s.Load()
	require.False(t, ok)
}

func TestProgramRejectsOddLength(t *testing.T) {
	ctrl := NewFakeController(testPageBase, 32)

	err := ctrl.Program(testPageBase, []byte{0x01})
	require.ErrorIs(t, err, ErrWrongRange)
}
