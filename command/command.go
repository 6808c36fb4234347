// Package command defines the tagged records the control interface
// enqueues for the scan task to apply, and the lock-free single-producer
// single-consumer queue that carries them.
package command

// Kind tags a Command's variant.
type Kind uint8

const (
	// SetSlot overwrites one mapping slot in RAM. Never touches flash.
	SetSlot Kind = iota
	// Save persists the current in-RAM mapping to flash.
	Save
)

// Command is one decoded control-interface request. For SetSlot, Slot is
// the button index (0, 1 or 2) and Code is the raw usage-code byte as
// received from the host: it is not validated here, per the control
// protocol's contract that range checking is the Key Matrix's job.
type Command struct {
	Kind Kind
	Slot int
	Code byte
}

// NewSetSlot builds a SetSlot command for button slot i.
func NewSetSlot(i int, code byte) Command {
	return Command{Kind: SetSlot, Slot: i, Code: code}
}

// NewSave builds a Save command.
func NewSave() Command {
	return Command{Kind: Save}
}

// FromControlCode decodes the single-byte command field of a control-OUT
// SetReport payload (spec §6: 1..4) into a Command carrying value as its
// raw, not-yet-validated byte. It reports false for any cmd outside
// {1,2,3,4}.
func FromControlCode(cmd byte, value byte) (Command, bool) {
	switch cmd {
	case 1:
		return NewSetSlot(0, value), true
	case 2:
		return NewSetSlot(1, value), true
	case 3:
		return NewSetSlot(2, value), true
	case 4:
		return NewSave(), true
	default:
		return Command{}, false
	}
}
