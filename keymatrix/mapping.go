package keymatrix

// NumButtons is the number of physical buttons the keypad exposes.
const NumButtons = 3

// Mapping is the persistent button-to-usage-code configuration. Slot i
// holds the usage code sent when button i is pressed.
type Mapping [NumButtons]UsageCode

// DefaultMapping returns the factory-default configuration [A, B, C].
func DefaultMapping() Mapping {
	return Mapping{DefaultA, DefaultB, DefaultC}
}

// Bytes reinterprets m as its on-the-wire byte form, one byte per slot in
// slot order. Every usage code in m is assumed valid; callers that read
// bytes of unknown provenance must go through FromBytes instead.
func (m Mapping) Bytes() [NumButtons]byte {
	var b [NumButtons]byte

	for i, c := range m {
		b[i] = byte(c)
	}

	return b
}

// FromBytes decodes b into a Mapping, validating each byte against Z1 ∪
// Z2. It returns false if any byte is invalid, in which case the zero
// Mapping is returned and must be discarded by the caller.
func FromBytes(b [NumButtons]byte) (Mapping, bool) {
	var m Mapping

	for i, raw := range b {
		c, ok := FromByte(raw)
		if !ok {
			return Mapping{}, false
		}

		m[i] = c
	}

	return m, true
}
