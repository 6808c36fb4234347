// Package keymatrix maps debounced button state to an HID keyboard input
// report, and applies remap/save commands to the persisted button layout.
package keymatrix

// UsageCode identifies a single standard key on the HID Keyboard/Keypad
// usage page (USB HID Usage Tables, page 0x07). Only usage codes from the
// two non-reserved, non-modifier zones below may be assigned to a button;
// modifier codes (0xE0-0xE7) are deliberately excluded, since remapping a
// button to a modifier is out of scope.
type UsageCode uint8

// The two valid zones of the Keyboard/Keypad usage page. Z1 covers the
// primary 101/104-key set (letters, digits, punctuation, function keys,
// navigation, numeric keypad, up to the Application key). Z2 covers the
// extended F13-F24 and localization/multimedia keys. The gap between them
// (Keyboard Power and Keypad Equal Sign) and everything above Z2 up to the
// modifier codes is reserved and not assignable.
const (
	Zone1Lo UsageCode = 0x04
	Zone1Hi UsageCode = 0x65

	Zone2Lo UsageCode = 0x68
	Zone2Hi UsageCode = 0x9c
)

// Factory default usage codes for slots 0, 1, 2.
const (
	DefaultA UsageCode = 0x04 // Keyboard a and A
	DefaultB UsageCode = 0x05 // Keyboard b and B
	DefaultC UsageCode = 0x06 // Keyboard c and C
)

// Valid reports whether c lies in Z1 or Z2.
func (c UsageCode) Valid() bool {
	return (c >= Zone1Lo && c <= Zone1Hi) || (c >= Zone2Lo && c <= Zone2Hi)
}

// FromByte decodes b into a UsageCode, rejecting bytes outside Z1 ∪ Z2.
func FromByte(b byte) (UsageCode, bool) {
	c := UsageCode(b)
	return c, c.Valid()
}
