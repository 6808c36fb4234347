// https://github.com/usbarmory/tamago
//
// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package reg provides atomic access to memory-mapped peripheral
// registers, the primitive the flash controller and the board's GPIO
// sampling are built on.
package reg

import (
	"sync/atomic"
	"time"
	"unsafe"
)

// Read returns the full 32-bit value at addr.
func Read(addr uint32) uint32 {
	r := (*uint32)(unsafe.Pointer(uintptr(addr)))
	return atomic.LoadUint32(r)
}

// Write stores val at addr.
func Write(addr uint32, val uint32) {
	r := (*uint32)(unsafe.Pointer(uintptr(addr)))
	atomic.StoreUint32(r, val)
}

// Get returns the field at addr starting at bit pos, masked by n.
func Get(addr uint32, pos int, n uint32) uint32 {
	return (Read(addr) >> pos) & n
}

// SetN sets the field at addr starting at bit pos, masked by n, to val.
func SetN(addr uint32, pos int, n uint32, val uint32) {
	for {
		old := Read(addr)
		new := (old &^ (n << pos)) | ((val & n) << pos)

		r := (*uint32)(unsafe.Pointer(uintptr(addr)))
		if atomic.CompareAndSwapUint32(r, old, new) {
			return
		}
	}
}

// Set raises bit pos at addr.
func Set(addr uint32, pos int) {
	for {
		old := Read(addr)
		new := old | (1 << pos)

		r := (*uint32)(unsafe.Pointer(uintptr(addr)))
		if atomic.CompareAndSwapUint32(r, old, new) {
			return
		}
	}
}

// Clear lowers bit pos at addr.
func Clear(addr uint32, pos int) {
	for {
		old := Read(addr)
		new := old &^ (1 << pos)

		r := (*uint32)(unsafe.Pointer(uintptr(addr)))
		if atomic.CompareAndSwapUint32(r, old, new) {
			return
		}
	}
}

// Wait blocks until the field at addr starting at bit pos, masked by n,
// equals val, polling indefinitely.
func Wait(addr uint32, pos int, n uint32, val uint32) {
	for Get(addr, pos, n) != val {
	}
}

// WaitFor is like Wait but gives up after timeout, returning false.
func WaitFor(timeout time.Duration, addr uint32, pos int, n uint32, val uint32) bool {
	start := time.Now()

	for Get(addr, pos, n) != val {
		if time.Since(start) >= timeout {
			return false
		}
	}

	return true
}
