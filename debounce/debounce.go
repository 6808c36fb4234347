// Package debounce defines the contract of the debouncer collaborator
// (spec §6): a black box that turns noisy raw GPIO samples into stable
// per-button state. The debounce algorithm itself is out of scope for
// this core; only the interface the scan task and Key Matrix program
// against lives here.
package debounce

// State is the debounced state of one button.
type State int

const (
	// UnPressed: the button is released and has been for at least the
	// release threshold.
	UnPressed State = iota
	// ChangedToPressed: this is the first tick the button reads pressed.
	ChangedToPressed
	// Pressed: the button has been pressed for more than one tick
	// (held / auto-repeat).
	Pressed
	// ChangedToUnpressed: this is the first tick the button reads
	// released after having been pressed.
	ChangedToUnpressed
)

// Debouncer turns raw GPIO samples into per-button debounced state. A
// conforming implementation is constructed with press and release
// thresholds measured in sample ticks; this package only documents the
// interface it must satisfy.
type Debouncer interface {
	// Update samples the current raw GPIO bits (one bit per button,
	// active-high) and returns whether any button's debounced state
	// changed on this tick.
	Update(gpioBits uint32) bool

	// GetState returns the debounced state of button index (0..N-1). It
	// errors if index is out of range.
	GetState(index int) (State, error)
}
