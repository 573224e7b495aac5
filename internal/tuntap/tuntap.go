//go:build linux
// +build linux

package tuntap

import (
	"fmt"
	"syscall"
	"unsafe"

	"go.aporeto.io/clatd/constants"
)

// Device is one open handle on the tun clone device.
type Device struct {
	fd   int
	name string
}

// Open opens the tun clone device. The descriptor is not attached to an
// interface yet. Opening does not need root: membership in the vpn group is
// enough.
func Open() (*Device, error) {

	fd, err := syscall.Open(constants.TunDevicePath, syscall.O_RDWR|syscall.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("unable to open %s: %s", constants.TunDevicePath, err)
	}

	return &Device{fd: fd}, nil
}

// Attach creates the named tun interface on this descriptor. The packet
// information header stays enabled: every frame read from the device starts
// with 4 bytes of flags and protocol.
func (d *Device) Attach(name string) error {

	if len(name) >= constants.DeviceNameSize {
		return fmt.Errorf("interface name too long '%s'", name)
	}

	ifr := &ifreqDevType{
		ifrFlags: IFF_TUN,
	}
	copy(ifr.ifrName[:], name)

	if err := ioctl(uintptr(d.fd), syscall.TUNSETIFF, uintptr(unsafe.Pointer(ifr))); err != nil {
		return fmt.Errorf("unable to attach tun device %s: %s", name, err)
	}

	d.name = name
	return nil
}

// Name returns the attached interface name, empty before Attach.
func (d *Device) Name() string {
	return d.name
}

// Fd returns the raw descriptor for polling.
func (d *Device) Fd() int {
	return d.fd
}

// SetNonblocking switches the descriptor to nonblocking reads. Must be done
// before the device is handed to the event loop.
func (d *Device) SetNonblocking() error {

	if err := syscall.SetNonblock(d.fd, true); err != nil {
		return fmt.Errorf("set_nonblocking failed: %s", err)
	}
	return nil
}

// Read reads one frame, including the packet information header.
func (d *Device) Read(b []byte) (int, error) {
	return read(d.fd, b)
}

// Write writes one frame, including the packet information header.
func (d *Device) Write(b []byte) (int, error) {
	return write(d.fd, b)
}

// Close releases the descriptor, destroying the interface unless it was
// made persistent elsewhere.
func (d *Device) Close() error {
	return syscall.Close(d.fd)
}
