package scheduler

import (
	"errors"
	"log"

	"github.com/usb-keypad/firmware/debounce"
	"github.com/usb-keypad/firmware/flash"
	"github.com/usb-keypad/firmware/hid"
	"github.com/usb-keypad/firmware/keymatrix"
	"github.com/usb-keypad/firmware/usbbus"
)

// Sampler reads the raw GPIO input register for the three button lines,
// active-low (spec §4.4 — buttons are wired to ground through a
// pull-up). The scan task inverts the bits it gets back before handing
// them to the debouncer.
type Sampler func() uint32

// SetupEvent carries one control transfer handed off to the USB task:
// Data is nil for a device-to-host (IN) transfer and non-nil for a
// host-to-device (OUT) transfer.
type SetupEvent struct {
	Setup hid.SetupData
	Data  []byte
}

// Scheduler owns the two cooperating tasks of spec §4.4 and the
// critical section that lets them share a hid.Device safely.
type Scheduler struct {
	Matrix    *keymatrix.Matrix
	Debouncer debounce.Debouncer
	Device    *hid.Device
	Store     *flash.Store
	Sample    Sampler

	lock PriorityLock
}

// New builds a Scheduler wiring together the components spec §1 already
// hands the firmware core pre-initialized.
func New(m *keymatrix.Matrix, d debounce.Debouncer, dev *hid.Device, store *flash.Store, sample Sampler) *Scheduler {
	return &Scheduler{
		Matrix:    m,
		Debouncer: d,
		Device:    dev,
		Store:     store,
		Sample:    sample,
	}
}

// ScanTask runs the 200 Hz button-scan task: it fires once per receive on
// tick, which the caller binds to a hardware timer interrupt or a
// time.Ticker. It returns only when tick is closed.
func (s *Scheduler) ScanTask(tick <-chan struct{}) {
	for range tick {
		s.scanOnce()
	}
}

func (s *Scheduler) scanOnce() {
	raw := s.Sample()
	changed := s.Debouncer.Update(^raw)

	if changed {
		report := s.Matrix.ComposeReport(s.Debouncer)

		s.lock.Do(func() {
			if s.Device.SetReport(report) {
				if _, err := s.Device.Write(report[:]); err != nil {
					log.Printf("scheduler: report write failed: %v", err)
				}
			}
		})
	}

	cmd, ok := s.Device.Queue.Pop()
	if !ok {
		return
	}

	if err := s.Matrix.Apply(cmd, s.Store); err != nil {
		s.recoverFromStoreError(err)
	}
}

// recoverFromStoreError implements spec §7's NotErased recovery policy:
// reset the page to factory defaults and retry once; a second failure is
// unrecoverable corruption and is fatal.
func (s *Scheduler) recoverFromStoreError(err error) {
	if !errors.Is(err, flash.ErrNotErased) {
		panic(err)
	}

	log.Println("scheduler: config page not erased, resetting to factory default")

	if rerr := s.Store.ResetToDefault(); rerr != nil {
		panic(rerr)
	}

	if rerr := s.Store.Store(s.Matrix.Mapping()); rerr != nil {
		panic(rerr)
	}
}

// UsbTask runs the USB control-transfer task: it serves setup packets
// delivered on setups and endpoint-in-complete notifications delivered
// on completes, replying through reply and stalling through stall. It
// returns only when either channel is closed.
func (s *Scheduler) UsbTask(setups <-chan SetupEvent, completes <-chan usbbus.EndpointAddress, reply func([]byte), stall func(usbbus.EndpointAddress)) {
	for {
		select {
		case ev, open := <-setups:
			if !open {
				return
			}
			s.handleSetup(ev, reply, stall)

		case addr, open := <-completes:
			if !open {
				return
			}

			s.lock.Do(func() {
				s.Device.EndpointInComplete(addr)
			})
		}
	}
}

func (s *Scheduler) handleSetup(ev SetupEvent, reply func([]byte), stall func(usbbus.EndpointAddress)) {
	if ev.Data == nil {
		var (
			resp []byte
			ok   bool
		)

		s.lock.Do(func() {
			resp, ok = s.Device.ControlIn(ev.Setup)
		})

		if !ok {
			stall(s.Device.ControlEndpoint)
			return
		}

		reply(resp)
		return
	}

	var accepted bool

	s.lock.Do(func() {
		accepted = s.Device.ControlOut(ev.Setup, ev.Data)
	})

	if !accepted {
		stall(s.Device.ControlEndpoint)
	}
}
