package flash

import "github.com/usb-keypad/firmware/keymatrix"

// entrySize is the fixed per-entry size in bytes: a magic byte, N usage
// code bytes, and an optional pad byte to reach an even length (spec
// §3: ⌈(N+1)/2⌉·2).
func entrySize() int {
	n := keymatrix.NumButtons + 1
	return ((n + 1) / 2) * 2
}

// Store is the wear-leveled configuration store. It owns a Controller
// bound to a single erase page and tracks which slot currently holds the
// most recently written entry.
type Store struct {
	ctrl           Controller
	pageBase       uint32
	entrySize      int
	numSlots       int
	lastValidIndex int
}

// Open probes the page through ctrl and returns a ready Store. If slot 0
// does not start with Magic, the page is erased and a factory-default
// entry is written to slot 0; otherwise the last contiguous run of magic
// slots starting at 0 determines lastValidIndex (spec §4.1 "On open").
func Open(ctrl Controller, pageBase uint32, pageSize int) (*Store, error) {
	s := &Store{
		ctrl:      ctrl,
		pageBase:  pageBase,
		entrySize: entrySize(),
		numSlots:  pageSize / entrySize(),
	}

	if s.ctrl.ReadByte(s.slotAddr(0)) != Magic {
		if err := s.resetToDefault(); err != nil {
			return nil, err
		}
		return s, nil
	}

	idx := 0
	for i := 1; i < s.numSlots; i++ {
		if s.ctrl.ReadByte(s.slotAddr(i)) != Magic {
			break
		}
		idx = i
	}
	s.lastValidIndex = idx

	return s, nil
}

func (s *Store) slotAddr(index int) uint32 {
	return s.pageBase + uint32(index*s.entrySize)
}

// LastValidIndex returns the index of the slot holding the current
// entry.
func (s *Store) LastValidIndex() int {
	return s.lastValidIndex
}

// NumSlots returns how many entries the page can hold.
func (s *Store) NumSlots() int {
	return s.numSlots
}

// Load reads the mapping out of slot[lastValidIndex]. It returns false
// if any of the N usage-code bytes following the magic byte is outside
// Z1 ∪ Z2 (spec §4.1 "On load"); the caller is expected to fall back to
// the factory default without rewriting flash.
func (s *Store) Load() (keymatrix.Mapping, bool) {
	base := s.slotAddr(s.lastValidIndex)

	var raw [keymatrix.NumButtons]byte
	for i := range raw {
		raw[i] = s.ctrl.ReadByte(base + 1 + uint32(i))
	}

	return keymatrix.FromBytes(raw)
}

func (s *Store) encode(m keymatrix.Mapping) []byte {
	entry := make([]byte, s.entrySize)
	entry[0] = Magic

	mb := m.Bytes()
	copy(entry[1:], mb[:])

	return entry
}

// Store appends m to the next free slot, or wraps the page if it is
// full (spec §4.1 "On store"). If the next slot's first byte is not
// Erased, the page is assumed corrupted and ErrNotErased is returned
// without touching flash; the caller's recovery policy is one
// ResetToDefault followed by a retry.
func (s *Store) Store(m keymatrix.Mapping) error {
	entry := s.encode(m)

	if s.lastValidIndex+1 < s.numSlots {
		next := s.slotAddr(s.lastValidIndex + 1)

		if s.ctrl.ReadByte(next) != Erased {
			return ErrNotErased
		}

		if err := s.ctrl.Program(next, entry); err != nil {
			return err
		}

		s.lastValidIndex++
		return nil
	}

	if err := s.ctrl.ErasePage(); err != nil {
		return err
	}

	if err := s.ctrl.Program(s.pageBase, entry); err != nil {
		return err
	}

	s.lastValidIndex = 0
	return nil
}

// ResetToDefault erases the page and writes the factory-default mapping
// at slot 0.
func (s *Store) ResetToDefault() error {
	return s.resetToDefault()
}

func (s *Store) resetToDefault() error {
	if err := s.ctrl.ErasePage(); err != nil {
		return err
	}

	entry := s.encode(keymatrix.DefaultMapping())
	if err := s.ctrl.Program(s.pageBase, entry); err != nil {
		return err
	}

	s.lastValidIndex = 0
	return nil
}
