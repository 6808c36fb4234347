// Package flash implements the wear-leveled configuration store (spec
// §4.1): successive Mappings are appended into a single erase page until
// it is exhausted, at which point it is erased and writing starts over
// at slot 0.
package flash

import (
	"unsafe"

	"github.com/usb-keypad/firmware/internal/reg"
)

// Magic marks a slot as holding a committed entry. Erased flash reads as
// Erased.
const (
	Magic   byte = 0x55
	Erased  byte = 0xff
)

// Controller is the target-specific flash programming protocol (spec
// §4.1 "Flash programming protocol"): unlocking, page erase with
// busy-poll and full-page verification, and half-word programming with
// busy-poll and readback verification. Store is built against this
// interface so it has no chip-specific code of its own; STM32Controller
// is the concrete driver for the STM32F1-style FLASH peripheral the
// original firmware targeted.
type Controller interface {
	// ErasePage erases the entire configured page and verifies every
	// half-word reads back as 0xFFFF.
	ErasePage() error

	// Program writes data (which must have even length and fit inside
	// the configured page) starting at addr, verifying each half-word
	// against what was written.
	Program(addr uint32, data []byte) error

	// ReadByte returns the current content of the byte at addr.
	ReadByte(addr uint32) byte
}

// Registers holds the addresses of the four flash-controller registers
// the programming protocol touches (STM32F1 FLASH_KEYR/CR/SR/AR and
// workalikes).
type Registers struct {
	Keyr uint32
	Cr   uint32
	Sr   uint32
	Ar   uint32
}

// Bit positions within Cr and Sr (STM32F1 FLASH_CR/FLASH_SR layout).
const (
	crPG  = 0
	crPER = 1
	crSTRT = 6
	crLOCK = 7

	srBSY      = 0
	srPGERR    = 2
	srWRPRTERR = 4
)

// Unlock key sequence (STM32F1 reference manual, also used verbatim by
// the original firmware's key1/key2 constants).
const (
	key1 uint32 = 0x45670123
	key2 uint32 = 0xcdef89ab
)

// STM32Controller drives an STM32F1-style flash controller against a
// fixed page. It is the concrete, hardware-facing half of Controller;
// FakeController (in fake.go) is the in-memory half used by tests.
type STM32Controller struct {
	Regs     Registers
	PageBase uint32
	PageSize uint32
	FlashEnd uint32
}

func (c *STM32Controller) unlock() error {
	reg.Wait(c.Regs.Sr, srBSY, 1, 0)

	reg.Write(c.Regs.Keyr, key1)
	reg.Write(c.Regs.Keyr, key2)

	if reg.Get(c.Regs.Cr, crLOCK, 1) == 0 {
		return nil
	}

	return ErrUnlock
}

func (c *STM32Controller) lock() {
	reg.Wait(c.Regs.Sr, srBSY, 1, 0)
	reg.Set(c.Regs.Cr, crLOCK)
}

func (c *STM32Controller) ErasePage() error {
	if err := c.unlock(); err != nil {
		return err
	}

	reg.Set(c.Regs.Cr, crPER)
	reg.Write(c.Regs.Ar, c.PageBase)
	reg.Set(c.Regs.Cr, crSTRT)
	reg.Wait(c.Regs.Sr, srBSY, 1, 0)

	wrprterr := reg.Get(c.Regs.Sr, srWRPRTERR, 1)
	reg.Clear(c.Regs.Cr, crPER)
	c.lock()

	if wrprterr == 1 {
		return ErrErase
	}

	for addr := c.PageBase; addr < c.PageBase+c.PageSize; addr += 2 {
		if readHalfword(addr) != 0xffff {
			return ErrVerification
		}
	}

	return nil
}

func (c *STM32Controller) Program(addr uint32, data []byte) error {
	if len(data)%2 != 0 || addr < c.PageBase || uint64(addr)+uint64(len(data)) > uint64(c.FlashEnd) {
		return ErrWrongRange
	}

	if err := c.unlock(); err != nil {
		return err
	}

	for i := 0; i < len(data); i += 2 {
		reg.Set(c.Regs.Cr, crPG)
		reg.Wait(c.Regs.Sr, srBSY, 1, 0)

		hword := uint16(data[i]) | uint16(data[i+1])<<8
		writeHalfword(addr+uint32(i), hword)

		reg.Wait(c.Regs.Sr, srBSY, 1, 0)
		reg.Clear(c.Regs.Cr, crPG)

		if reg.Get(c.Regs.Sr, srPGERR, 1) == 1 || reg.Get(c.Regs.Sr, srWRPRTERR, 1) == 1 {
			c.lock()
			return ErrProgramming
		}

		if readHalfword(addr+uint32(i)) != hword {
			c.lock()
			return ErrVerification
		}
	}

	c.lock()
	return nil
}

func (c *STM32Controller) ReadByte(addr uint32) byte {
	return *(*byte)(unsafe.Pointer(uintptr(addr)))
}

func readHalfword(addr uint32) uint16 {
	return *(*uint16)(unsafe.Pointer(uintptr(addr)))
}

func writeHalfword(addr uint32, v uint16) {
	*(*uint16)(unsafe.Pointer(uintptr(addr))) = v
}
