// Package bluepill provides the board-specific hooks for the STM32F103
// "Blue Pill" target the original keypad firmware ran on: button GPIO
// sampling and the flash controller wiring for the config store. It
// plays the role spec §1 assumes the firmware core is handed an
// already-initialized GPIO and flash controller.
//
// The USB device controller is deliberately not provided here. Neither
// this board nor the original firmware implements one at the register
// level: the original links the external stm32f1xx_hal USB peripheral
// driver and hands the resulting bus handle to the application, exactly
// the usbbus.Bus seam this firmware core is built against. A production
// build of this package links that equivalent driver and passes its
// handle to hid.NewDevice.
package bluepill

import (
	"github.com/usb-keypad/firmware/flash"
	"github.com/usb-keypad/firmware/internal/reg"
)

// Peripheral base addresses (STM32F103 reference manual).
const (
	gpioaBase = 0x40010800
	gpioaIDR  = gpioaBase + 0x08

	flashBase = 0x40022000
	flashKeyr = flashBase + 0x04
	flashCr   = flashBase + 0x10
	flashSr   = flashBase + 0x0c
	flashAr   = flashBase + 0x14

	// flashStart and flashSizeKB match the original firmware's 64K
	// part; configPageBase is the last 1K page, reserved for the
	// config store.
	flashStart    = 0x08000000
	flashSizeKB   = 64
	pageSize      = 1024
	configPageBase = flashStart + (flashSizeKB-1)*pageSize
	flashEnd      = flashStart + flashSizeKB*pageSize
)

// buttonMask covers PA0..PA2, wired to the shoot/left/right buttons with
// external pull-ups (spec §1: buttons read active-low).
const buttonMask = 0x7

// GPIOSampler reads the raw state of PA0..PA2 from the GPIOA input data
// register. The scheduler inverts the bits before handing them to the
// debouncer, since the lines are active-low.
func GPIOSampler() uint32 {
	return reg.Read(gpioaIDR) & buttonMask
}

// NewFlashController returns the STM32Controller bound to the board's
// last 1K flash page, ready to be passed to flash.Open.
func NewFlashController() *flash.STM32Controller {
	return &flash.STM32Controller{
		Regs: flash.Registers{
			Keyr: flashKeyr,
			Cr:   flashCr,
			Sr:   flashSr,
			Ar:   flashAr,
		},
		PageBase: configPageBase,
		PageSize: pageSize,
		FlashEnd: flashEnd,
	}
}

// ConfigPageBase and ConfigPageSize describe the page NewFlashController
// is bound to, for callers that need to pass them to flash.Open.
const (
	ConfigPageBase = configPageBase
	ConfigPageSize = pageSize
)
