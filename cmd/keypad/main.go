// Command keypad is the firmware entry point for the three-button
// programmable USB HID keypad (spec §1). It wires together the flash
// config store, the key matrix, the composite HID device and the two
// scheduler tasks, then runs the scan task on a ticker and blocks in the
// USB task. The setup and endpoint-complete channels the USB task reads
// are created in main and nothing in this package sends on them, so the
// USB task receives no events.
package main

import (
	"log"
	"time"

	"github.com/usb-keypad/firmware/board/bluepill"
	"github.com/usb-keypad/firmware/command"
	"github.com/usb-keypad/firmware/debounce"
	"github.com/usb-keypad/firmware/flash"
	"github.com/usb-keypad/firmware/hid"
	"github.com/usb-keypad/firmware/keymatrix"
	"github.com/usb-keypad/firmware/scheduler"
	"github.com/usb-keypad/firmware/usbbus"
)

// USB vendor/product identifiers and strings for the device descriptor,
// matching the reserved test VID/PID pair the original firmware
// registered (spec §6): not assigned for production use. No code in this
// repository emits the device descriptor, and these constants are not
// referenced.
const (
	vendorID  = 0x16c0
	productID = 0x27dd

	manufacturer = "usb-keypad"
	product      = "Programmable Keypad"
	serialNumber = "0001"

	// scanInterval is the button-scan task's tick period (spec §4.4: 200 Hz).
	scanInterval = 5 * time.Millisecond
)

// usbBus and debouncer are supplied by board-specific integration code
// at link time. Both are treated as already-initialized handles this
// firmware core is wired against (spec §1, §6): usbBus by the board's
// USB peripheral driver (see board/bluepill for why no register-level
// driver lives in this repository), debouncer by whatever concrete
// debounce algorithm the board chooses, since the debounce contract is
// intentionally implementation-free here.
var (
	usbBus    usbbus.Bus
	debouncer debounce.Debouncer
)

func main() {
	flashCtrl := bluepill.NewFlashController()

	store, err := flash.Open(flashCtrl, bluepill.ConfigPageBase, bluepill.ConfigPageSize)
	if err != nil {
		log.Fatalf("keypad: opening config store: %v", err)
	}

	mapping, ok := store.Load()
	if !ok {
		log.Println("keypad: stored mapping invalid, falling back to factory default")
		mapping = keymatrix.DefaultMapping()
	}

	matrix := keymatrix.New(mapping)
	queue := new(command.Queue)
	device := hid.NewDevice(usbBus, queue)

	sched := scheduler.New(matrix, debouncer, device, store, bluepill.GPIOSampler)

	tick := make(chan struct{})
	go runTicker(tick, scanInterval)
	go sched.ScanTask(tick)

	setups := make(chan scheduler.SetupEvent)
	completes := make(chan usbbus.EndpointAddress)

	log.Println("keypad: init finished")
	sched.UsbTask(setups, completes, noopReply, usbBus.Stall)
}

func runTicker(tick chan<- struct{}, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()

	for range t.C {
		tick <- struct{}{}
	}
}

func noopReply(data []byte) {}
