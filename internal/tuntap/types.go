package tuntap

import "go.aporeto.io/clatd/constants"

// DeviceFlags are the flags accepted by the ioctl creating a tun device.
type DeviceFlags uint16

// Keep names similar to what kernel headers have.
// nolint
const (
	IFF_TUN   DeviceFlags = 0x0001
	IFF_TAP   DeviceFlags = 0x0002
	IFF_NO_PI DeviceFlags = 0x1000
)

// ifreqDevType is the request passed to TUNSETIFF, padded to the kernel's
// ifreq size so the ioctl never reads past the allocation.
type ifreqDevType struct {
	ifrName  [constants.DeviceNameSize]byte
	ifrFlags DeviceFlags
	pad      [22]byte // nolint: structcheck
}
