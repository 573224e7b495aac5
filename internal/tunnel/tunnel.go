package tunnel

import (
	"fmt"
	"net"

	"go.aporeto.io/clatd/constants"
	"go.uber.org/zap"
)

// DeviceName is an interface name that fits the kernel's name buffer.
type DeviceName string

// NewDeviceName derives the translation device name for an uplink interface
// by prepending the device prefix. Names that would not fit the kernel's
// buffer are rejected, never truncated.
func NewDeviceName(uplink string) (DeviceName, error) {
	name := constants.DevicePrefix + uplink
	if len(name) >= constants.DeviceNameSize {
		return "", fmt.Errorf("interface name too long '%s'", name)
	}
	return DeviceName(name), nil
}

func (d DeviceName) String() string {
	return string(d)
}

// TunDevice is the application-facing tun device. Read returns raw frames
// including the packet information header.
type TunDevice interface {
	Fd() int
	Read(b []byte) (int, error)
	Write(b []byte) (int, error)
	Attach(name string) error
	SetNonblocking() error
	Close() error
}

// PacketWriter sends fully formed IPv6 packets to the uplink. It also owns
// the anycast membership of the translation address, which lives and dies
// with the socket.
type PacketWriter interface {
	WritePacket(b []byte) error
	JoinAnycast(ip net.IP, ifindex int) error
	LeaveAnycast(ip net.IP) error
	Close() error
}

// PacketReader delivers uplink IPv6 packets addressed to the translation
// address. The address filter may be replaced at any time.
type PacketReader interface {
	Fd() int
	ReadPacket(b []byte) (int, error)
	SetAddressFilter(ip net.IP) error
	Close() error
}

// Tunnel is the mutable state of one clat instance. It is created by the
// orchestrator, populated during bootstrap, and read-only once the event
// loop starts.
type Tunnel struct {
	// Uplink is the interface carrying IPv6 toward the network.
	Uplink string

	// Device is the derived name of the tun device.
	Device DeviceName

	// Tun is valid only after interface creation succeeds.
	Tun TunDevice

	// Writer and Reader are valid only after raw socket acquisition
	// succeeds.
	Writer PacketWriter
	Reader PacketReader

	// NetID selects the policy domain, constants.NetIDUnset for default.
	NetID uint32

	// Mark is applied to the write socket, constants.MarkUnset for none.
	Mark uint32
}

// Close releases every descriptor the tunnel holds. Errors are logged, not
// returned: teardown continues past individual failures.
func (t *Tunnel) Close() {
	if t.Tun != nil {
		if err := t.Tun.Close(); err != nil {
			zap.L().Warn("unable to close tun device", zap.Error(err))
		}
	}
	if t.Reader != nil {
		if err := t.Reader.Close(); err != nil {
			zap.L().Warn("unable to close packet socket", zap.Error(err))
		}
	}
	if t.Writer != nil {
		if err := t.Writer.Close(); err != nil {
			zap.L().Warn("unable to close raw socket", zap.Error(err))
		}
	}
}
