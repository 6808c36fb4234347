package flash

import "errors"

// Error taxonomy (spec §7). All but ErrNotErased originate from the
// flash programming protocol and leave the flash peripheral locked.
var (
	// ErrUnlock means the flash controller could not be unlocked.
	// Terminal: further attempts are futile until a hardware reset.
	ErrUnlock = errors.New("flash: unlock error")

	// ErrVerification means programmed or erased content did not read
	// back as expected. May be transient.
	ErrVerification = errors.New("flash: verification error")

	// ErrErase means a write-protection fault occurred during a page
	// erase.
	ErrErase = errors.New("flash: erase error")

	// ErrProgramming means a write-protect or programming fault
	// occurred during a half-word write.
	ErrProgramming = errors.New("flash: programming error")

	// ErrNotErased means the slot Store was about to append to does
	// not read as erased (0xFF), indicating corruption.
	ErrNotErased = errors.New("flash: next slot is not erased")

	// ErrWrongRange means a destination range fell outside the
	// configured flash page, or had odd length. Indicates a caller bug.
	ErrWrongRange = errors.New("flash: destination range invalid")
)
