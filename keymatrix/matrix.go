package keymatrix

import (
	"github.com/usb-keypad/firmware/command"
	"github.com/usb-keypad/firmware/debounce"
)

// Store is the persistence side-effect Apply needs for a Save command.
// flash.Store satisfies it.
type Store interface {
	Store(Mapping) error
}

// Matrix holds the current button-to-usage-code Mapping and turns
// debounced button state into HID input reports (spec §4.3).
type Matrix struct {
	mapping Mapping
}

// New builds a Matrix starting from the given Mapping.
func New(m Mapping) *Matrix {
	return &Matrix{mapping: m}
}

// Mapping returns the current mapping.
func (m *Matrix) Mapping() Mapping {
	return m.mapping
}

// Apply executes a decoded Command against the matrix. SetSlot
// overwrites one slot in RAM and never touches flash; an undecodable
// usage code byte is a no-op, since range-checking a SetSlot's value is
// this method's job, not the control interface's (spec §4.2/§4.3). Save
// persists the current mapping via store.
func (m *Matrix) Apply(cmd command.Command, store Store) error {
	switch cmd.Kind {
	case command.SetSlot:
		if cmd.Slot < 0 || cmd.Slot >= NumButtons {
			return nil
		}

		code, ok := FromByte(cmd.Code)
		if !ok {
			return nil
		}

		m.mapping[cmd.Slot] = code
		return nil

	case command.Save:
		return store.Store(m.mapping)

	default:
		return nil
	}
}

// ComposeReport builds the HID input report for the current tick: slot i
// contributes its mapped usage code iff the debouncer reports button i
// as just-pressed or held (spec §4.3 — both states count, so a held
// button keeps auto-repeating via the host's own keyboard repeat). A
// button whose state query errors is treated as unpressed.
func (m *Matrix) ComposeReport(d debounce.Debouncer) Report {
	var pressed []UsageCode

	for i, code := range m.mapping {
		state, err := d.GetState(i)
		if err != nil {
			continue
		}

		if state == debounce.ChangedToPressed || state == debounce.Pressed {
			pressed = append(pressed, code)
		}
	}

	return NewReport(0, pressed)
}
