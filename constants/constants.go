package constants

import "time"

const (
	// Version is the daemon version reported in the startup log.
	Version = "1.4"

	// DevicePrefix is prepended to the uplink interface name to derive the
	// name of the translation tun device.
	DevicePrefix = "v4-"

	// DeviceNameSize is the kernel buffer for an interface name, including
	// the terminating byte. Usable name length is DeviceNameSize - 1.
	DeviceNameSize = 16
)

const (
	// NetIDUnset is the sentinel for an absent network id.
	NetIDUnset = uint32(0)

	// MarkUnset is the sentinel for an absent socket mark. An unset mark
	// is never applied to a socket.
	MarkUnset = uint32(0)
)

const (
	// MaxMTU caps the tun device MTU.
	MaxMTU = 65536

	// MinMTU is the smallest MTU an IPv6 link must carry.
	MinMTU = 1280

	// MTUDelta is the worst-case growth when translating IPv4 to IPv6:
	// 20 bytes of header difference plus an 8 byte fragment header.
	MTUDelta = 28

	// TunHeaderSize is the packet information header the tun device
	// prepends to every packet.
	TunHeaderSize = 4

	// PacketLen sizes receive buffers: the largest possible packet plus
	// the tun packet information header.
	PacketLen = MaxMTU + TunHeaderSize
)

// Identity adopted when the daemon drops root. The values are the platform's
// reserved service ids: the clat service user, the group allowed to create
// inet sockets, and the group allowed to own tun devices.
const (
	// UIDClat is the unprivileged user the daemon runs as.
	UIDClat = 1029
	// GIDClat is the primary group of the clat user.
	GIDClat = 1029
	// GIDInet is the supplementary group permitting inet socket creation.
	GIDInet = 3003
	// GIDVpn is the supplementary group permitting tun device access.
	GIDVpn = 1016
)

const (
	// ConfigPath is the default daemon configuration file.
	ConfigPath = "/etc/clatd.conf"

	// TunDevicePath is the tun clone device.
	TunDevicePath = "/dev/net/tun"
)

const (
	// NoTrafficPollBound caps how long the event loop waits for traffic
	// before running housekeeping anyway.
	NoTrafficPollBound = 90 * time.Second

	// AddressPollInterval is how often the event loop re-checks the uplink
	// for an address change.
	AddressPollInterval = 30 * time.Second
)
