package hid

import (
	"bytes"
	"encoding/binary"
)

// USB descriptor type codes (USB 2.0 Table 9-5, plus the HID class
// values from the HID 1.11 spec §7.1).
const (
	descInterface = 4
	descEndpoint  = 5
	descHID       = 0x21
	descReport    = 0x22
)

// USB HID class constants.
const (
	classHID          = 0x03
	subclassNone      = 0x00
	protocolKeyboard  = 0x01
	protocolNone      = 0x00
	keyboardEndpointMaxPacket = 8
	keyboardEndpointInterval  = 10 // ms
)

// KeyboardReportDescriptor is the standard boot-keyboard HID report
// descriptor: modifier byte, reserved byte, six-byte usage-code array
// drawn from usage page 0x07 range 0x00..0xFB (spec §6).
var KeyboardReportDescriptor = []byte{
	0x05, 0x01, // Usage Page (Generic Desktop)
	0x09, 0x06, // Usage (Keyboard)
	0xa1, 0x01, // Collection (Application)
	0x05, 0x07, //   Usage Page (Kbrd/Keypad)
	0x19, 0xe0, //   Usage Minimum (0xE0)
	0x29, 0xe7, //   Usage Maximum (0xE7)
	0x15, 0x00, //   Logical Minimum (0)
	0x25, 0x01, //   Logical Maximum (1)
	0x75, 0x01, //   Report Size (1)
	0x95, 0x08, //   Report Count (8)
	0x81, 0x02, //   Input (Data,Var,Abs) - modifier byte
	0x95, 0x01, //   Report Count (1)
	0x75, 0x08, //   Report Size (8)
	0x81, 0x03, //   Input (Const,Var,Abs) - reserved byte
	0x95, 0x06, //   Report Count (6)
	0x75, 0x08, //   Report Size (8)
	0x15, 0x00, //   Logical Minimum (0)
	0x26, 0xfb, 0x00, //   Logical Maximum (251)
	0x05, 0x07, //   Usage Page (Kbrd/Keypad)
	0x19, 0x00, //   Usage Minimum (0)
	0x29, 0xfb, //   Usage Maximum (251)
	0x81, 0x00, //   Input (Data,Array,Abs) - key array
	0xc0, // End Collection
}

// ControlReportDescriptor is the vendor-defined feature-report
// descriptor the control interface exposes: usage page 0xFF00, usage
// 0x01, a 2-byte Feature field ranging 0..255 (spec §6).
var ControlReportDescriptor = []byte{
	0x06, 0x00, 0xff, // Usage Page (Vendor Defined 0xFF00)
	0x09, 0x01, // Usage (0x01)
	0xa1, 0x01, // Collection (Application)
	0x15, 0x00, //   Logical Minimum (0)
	0x25, 0xff, //   Logical Maximum (255)
	0x75, 0x08, //   Report Size (8)
	0x95, 0x02, //   Report Count (2)
	0xb1, 0x02, //   Feature (Data,Var,Abs)
	0xc0, // End Collection
}

// hidDescriptor implements HID 1.11 §6.2.1, the class-specific
// descriptor that tells the host where to find the report descriptor
// and how long it is.
type hidDescriptor struct {
	Length                 uint8
	DescriptorType         uint8
	BcdHID                 uint16
	CountryCode            uint8
	NumDescriptors         uint8
	ReportDescriptorType   uint8
	ReportDescriptorLength uint16
}

func newHIDDescriptor(reportLen int) hidDescriptor {
	return hidDescriptor{
		Length:                 9,
		DescriptorType:         descHID,
		BcdHID:                 0x0111,
		CountryCode:            0,
		NumDescriptors:         1,
		ReportDescriptorType:   descReport,
		ReportDescriptorLength: uint16(reportLen),
	}
}

func (d hidDescriptor) bytes() []byte {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, &d)
	return buf.Bytes()
}

// interfaceDescriptor builds a standard 9-byte interface descriptor
// (USB 2.0 Table 9-12).
func interfaceDescriptor(number, class, subclass, protocol uint8) []byte {
	return []byte{
		9, descInterface,
		number,
		0, // bAlternateSetting
		1, // bNumEndpoints
		class, subclass, protocol,
		0, // iInterface
	}
}

// endpointDescriptor builds a standard 7-byte interrupt endpoint
// descriptor (USB 2.0 Table 9-13).
func endpointDescriptor(addr uint8, maxPacket uint16, interval uint8) []byte {
	b := []byte{
		7, descEndpoint,
		addr,
		0x03, // bmAttributes: Interrupt
		0, 0, // wMaxPacketSize, filled below
		interval,
	}
	binary.LittleEndian.PutUint16(b[4:6], maxPacket)
	return b
}

// ConfigurationDescriptors emits, in order, the keyboard interface
// descriptor block and the control interface descriptor block (spec
// §4.2): each is an interface descriptor, a HID descriptor referencing
// its report descriptor by length, and an interrupt IN endpoint
// descriptor. The control interface's endpoint exists only to satisfy
// OS HID driver expectations and is never written to.
func (d *Device) ConfigurationDescriptors() []byte {
	var out []byte

	out = append(out, interfaceDescriptor(d.KeyboardInterfaceNumber, classHID, subclassNone, protocolKeyboard)...)
	out = append(out, newHIDDescriptor(len(KeyboardReportDescriptor)).bytes()...)
	out = append(out, endpointDescriptor(uint8(d.KeyboardEndpoint), keyboardEndpointMaxPacket, keyboardEndpointInterval)...)

	out = append(out, interfaceDescriptor(d.ControlInterfaceNumber, classHID, subclassNone, protocolNone)...)
	out = append(out, newHIDDescriptor(len(ControlReportDescriptor)).bytes()...)
	out = append(out, endpointDescriptor(uint8(d.ControlEndpoint), keyboardEndpointMaxPacket, keyboardEndpointInterval)...)

	return out
}
