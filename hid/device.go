// Package hid implements the composite two-interface HID class device
// described in spec §4.2: a boot-protocol keyboard interface for typing,
// and a vendor-defined control interface carrying feature reports used
// to remap buttons and persist the mapping.
//
// This package owns descriptor service, input-report streaming with its
// backpressure state machine, and control-transfer decoding. It does not
// own the register-level USB controller: all bus I/O goes through the
// usbbus.Bus interface, the "already-initialized USB bus handle" spec §1
// hands to this core.
package hid

import (
	"github.com/usb-keypad/firmware/command"
	"github.com/usb-keypad/firmware/keymatrix"
	"github.com/usb-keypad/firmware/usbbus"
)

// Device is the composite HID class state machine.
type Device struct {
	KeyboardInterfaceNumber uint8
	ControlInterfaceNumber  uint8

	KeyboardEndpoint usbbus.EndpointAddress
	ControlEndpoint  usbbus.EndpointAddress

	Bus   usbbus.Bus
	Queue *command.Queue

	lastReport       keymatrix.Report
	haveReport       bool
	awaitingComplete bool
}

// NewDevice builds a Device for the given bus handle and command queue,
// with keyboard = interface 0 / endpoint 0x81 and control = interface 1
// / endpoint 0x82, per spec §4.2.
func NewDevice(bus usbbus.Bus, queue *command.Queue) *Device {
	return &Device{
		KeyboardInterfaceNumber: 0,
		ControlInterfaceNumber:  1,
		KeyboardEndpoint:        usbbus.DirIn | 1,
		ControlEndpoint:         usbbus.DirIn | 2,
		Bus:                     bus,
		Queue:                   queue,
	}
}

// SetReport records r as the current keyboard report, returning true iff
// it differs from the last report seen (spec §4.2). The caller is
// expected to follow a true result with Write.
func (d *Device) SetReport(r keymatrix.Report) bool {
	if d.haveReport && r == d.lastReport {
		return false
	}

	d.lastReport = r
	d.haveReport = true

	return true
}

// Write transmits data on the keyboard interrupt IN endpoint. If a
// previous write is still in flight (awaitingComplete), it is a no-op
// that returns 0 so the caller retries on the next tick. A payload of at
// least 8 bytes arms awaitingComplete until EndpointInComplete fires.
func (d *Device) Write(data []byte) (int, error) {
	if d.awaitingComplete {
		return 0, nil
	}

	if len(data) >= keymatrix.ReportLength {
		d.awaitingComplete = true
	}

	return d.Bus.Write(d.KeyboardEndpoint, data)
}

// EndpointInComplete is the endpoint-in-complete callback: it clears the
// backpressure flag when the keyboard endpoint's transfer finishes.
func (d *Device) EndpointInComplete(addr usbbus.EndpointAddress) {
	if addr == d.KeyboardEndpoint {
		d.awaitingComplete = false
	}
}

// Reset clears transfer state on a USB bus reset.
func (d *Device) Reset() {
	d.awaitingComplete = false
}

// ControlIn dispatches a device-to-host control transfer. It returns the
// response bytes and true if the request is understood and accepted;
// otherwise the caller should stall the control endpoint.
func (d *Device) ControlIn(setup SetupData) (response []byte, ok bool) {
	switch {
	case setup.RequestType == Standard && setup.Recipient == RecipientInterface && setup.Request == reqGetDescriptor:
		return d.getReportDescriptor(setup)
	case setup.RequestType == Class && setup.Recipient == RecipientInterface && setup.Request == reqGetReport:
		return d.getReport(setup)
	default:
		return nil, false
	}
}

func (d *Device) getReportDescriptor(setup SetupData) ([]byte, bool) {
	dtype, _ := setup.DescriptorTypeIndex()
	if dtype != descReport {
		return nil, false
	}

	var desc []byte

	switch uint16(setup.Index) {
	case uint16(d.KeyboardInterfaceNumber):
		desc = KeyboardReportDescriptor
	case uint16(d.ControlInterfaceNumber):
		desc = ControlReportDescriptor
	default:
		return nil, false
	}

	return trim(desc, setup.Length), true
}

func (d *Device) getReport(setup SetupData) ([]byte, bool) {
	reportType, _ := setup.ReportTypeID()
	if reportType != ReportTypeInput && reportType != ReportTypeFeature {
		return nil, false
	}

	var response []byte

	switch uint16(setup.Index) {
	case uint16(d.KeyboardInterfaceNumber):
		response = d.lastReport[:]
	case uint16(d.ControlInterfaceNumber):
		response = make([]byte, keymatrix.ReportLength)
	default:
		return nil, false
	}

	if setup.Length < uint16(len(response)) {
		return nil, false
	}

	return response, true
}

// ControlOut dispatches a host-to-device control transfer carrying data.
// Only a class-specific SetReport on the control interface, with exactly
// two data bytes, is accepted (spec §4.2/§6); anything else is silently
// ignored. The decoded command is enqueued on Queue; if the queue is
// full the transfer is rejected so the host retries.
func (d *Device) ControlOut(setup SetupData, data []byte) bool {
	if setup.RequestType != Class || setup.Recipient != RecipientInterface {
		return false
	}

	if uint16(setup.Index) != uint16(d.ControlInterfaceNumber) {
		return false
	}

	if setup.Request != reqSetReport || len(data) != 2 {
		return false
	}

	cmd, ok := command.FromControlCode(data[0], data[1])
	if !ok {
		return false
	}

	return d.Queue.Push(cmd)
}

func trim(buf []byte, wLength uint16) []byte {
	if int(wLength) < len(buf) {
		buf = buf[:wLength]
	}
	return buf
}
