// Package usbbus abstracts the USB peripheral this core is built on top
// of. Clock tree setup, pin muxing, and the register-level transfer
// engine (queue heads, transfer descriptors, DMA) that actually clocks
// bytes onto the wire are a board's responsibility and are out of scope
// here (spec §1): this core only ever sees an already-initialized Bus.
package usbbus

// EndpointAddress is a USB endpoint address, direction bit included
// (0x80 set for IN endpoints).
type EndpointAddress uint8

// DirIn marks an endpoint address as device-to-host.
const DirIn EndpointAddress = 0x80

// Bus is the interface the HID class device drives. A real board
// implements it against its USB controller's interrupt-IN endpoint
// machinery; Fake (in this package) implements it in memory for tests.
type Bus interface {
	// Write attempts to transmit data on the IN endpoint addr. It
	// returns the number of bytes actually accepted: 0 means the
	// endpoint is busy (the previous transfer has not completed) and
	// the caller must retry on a later tick, mirroring the hardware's
	// own backpressure.
	Write(addr EndpointAddress, data []byte) (int, error)

	// Stall forces endpoint addr to return a STALL handshake to the
	// host, used for malformed or unsupported requests.
	Stall(addr EndpointAddress)
}
