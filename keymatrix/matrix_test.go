package keymatrix

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/usb-keypad/firmware/command"
	"github.com/usb-keypad/firmware/debounce"
)

// fakeDebouncer lets tests set each button's debounced state directly,
// without driving a real debounce algorithm (out of scope here, see
// debounce.Debouncer).
type fakeDebouncer struct {
	states [NumButtons]debounce.State
	errIdx map[int]bool
}

func (f *fakeDebouncer) Update(uint32) bool { return false }

func (f *fakeDebouncer) GetState(i int) (debounce.State, error) {
	if f.errIdx[i] {
		return 0, errors.New("fake: bad index")
	}
	if i < 0 || i >= NumButtons {
		return 0, errors.New("fake: out of range")
	}
	return f.states[i], nil
}

type fakeStore struct {
	stored Mapping
	saved  bool
	err    error
}

func (f *fakeStore) Store(m Mapping) error {
	if f.err != nil {
		return f.err
	}
	f.stored = m
	f.saved = true
	return nil
}

func TestMatrixApplySetSlot(t *testing.T) {
	m := New(DefaultMapping())

	require.NoError(t, m.Apply(command.NewSetSlot(1, 0x07), &fakeStore{}))
	require.Equal(t, UsageCode(0x07), m.Mapping()[1])
}

func TestMatrixApplySetSlotOutOfRangeIsNoop(t *testing.T) {
	m := New(DefaultMapping())
	before := m.Mapping()

	require.NoError(t, m.Apply(command.NewSetSlot(9, 0x07), &fakeStore{}))
	require.Equal(t, before, m.Mapping())
}

func TestMatrixApplySetSlotInvalidCodeIsNoop(t *testing.T) {
	m := New(DefaultMapping())
	before := m.Mapping()

	require.NoError(t, m.Apply(command.NewSetSlot(0, 0x66), &fakeStore{}))
	require.Equal(t, before, m.Mapping())
}

func TestMatrixApplySave(t *testing.T) {
	m := New(DefaultMapping())
	store := &fakeStore{}

	require.NoError(t, m.Apply(command.NewSave(), store))
	require.True(t, store.saved)
	require.Equal(t, m.Mapping(), store.stored)
}

func TestMatrixApplySavePropagatesError(t *testing.T) {
	m := New(DefaultMapping())
	wantErr := errors.New("boom")
	store := &fakeStore{err: wantErr}

	err := m.Apply(command.NewSave(), store)
	require.ErrorIs(t, err, wantErr)
}

func TestComposeReportIncludesPressedAndHeld(t *testing.T) {
	m := New(DefaultMapping())
	d := &fakeDebouncer{states: [NumButtons]debounce.State{
		debounce.ChangedToPressed,
		debounce.Pressed,
		debounce.UnPressed,
	}}

	r := m.ComposeReport(d)

	require.Equal(t, NewReport(0, []UsageCode{DefaultA, DefaultB}), r)
}

func TestComposeReportTreatsGetStateErrorAsUnpressed(t *testing.T) {
	m := New(DefaultMapping())
	d := &fakeDebouncer{
		states: [NumButtons]debounce.State{debounce.Pressed, debounce.Pressed, debounce.Pressed},
		errIdx: map[int]bool{0: true},
	}

	r := m.ComposeReport(d)

	require.Equal(t, NewReport(0, []UsageCode{DefaultB, DefaultC}), r)
}
