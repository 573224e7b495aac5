//go:build linux
// +build linux

package rawsocket

import (
	"fmt"
	"net"

	"go.aporeto.io/clatd/constants"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

const (
	// ipv6HeaderLen is the fixed IPv6 header size; nothing shorter can be
	// routed.
	ipv6HeaderLen = 40

	// dstOffset is where the destination address sits in an IPv6 header.
	dstOffset = 24
)

type rawSocket struct {
	fd int
}

// SocketWriter sends fully formed IPv6 packets toward the uplink and owns
// the anycast membership of the translation address.
type SocketWriter interface {
	WritePacket(buf []byte) error
	JoinAnycast(ip net.IP, ifindex int) error
	LeaveAnycast(ip net.IP) error
	Close() error
}

// CreateSocket opens the nonblocking raw IPv6 send socket and applies the
// socket mark. It must run while the process still holds the capability to
// create raw sockets.
func CreateSocket(mark uint32) (SocketWriter, error) {

	fd, err := unix.Socket(unix.AF_INET6, unix.SOCK_RAW|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, unix.IPPROTO_RAW)
	if err != nil {
		return nil, fmt.Errorf("raw socket failed: %s", err)
	}

	// The translator hands over complete packets, transport checksums
	// included.
	if err := unix.SetsockoptInt(fd, unix.SOL_IPV6, unix.IPV6_CHECKSUM, 0); err != nil {
		zap.L().Warn("could not disable checksum on raw socket", zap.Error(err))
	}

	if mark != constants.MarkUnset {
		if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_MARK, int(mark)); err != nil {
			zap.L().Error("could not set mark on raw socket", zap.Error(err))
		}
	}

	return &rawSocket{fd: fd}, nil
}

// WritePacket routes one packet by the destination address the packet
// itself carries.
func (s *rawSocket) WritePacket(buf []byte) error {

	if len(buf) < ipv6HeaderLen {
		return fmt.Errorf("unable to write packet: short packet of %d bytes", len(buf))
	}

	var to unix.SockaddrInet6
	copy(to.Addr[:], buf[dstOffset:dstOffset+16])

	if err := unix.Sendto(s.fd, buf, 0, &to); err != nil {
		return fmt.Errorf("unable to write packet: %s", err)
	}
	return nil
}

// JoinAnycast claims the translation address on the uplink so neighbor
// discovery answers for it without the address being assigned to the
// kernel.
func (s *rawSocket) JoinAnycast(ip net.IP, ifindex int) error {

	mreq, err := anycastReq(ip, ifindex)
	if err != nil {
		return err
	}

	if err := unix.SetsockoptIPv6Mreq(s.fd, unix.SOL_IPV6, unix.IPV6_JOIN_ANYCAST, mreq); err != nil {
		return fmt.Errorf("unable to join anycast group for %s: %s", ip, err)
	}
	return nil
}

// LeaveAnycast releases the claim. The kernel also releases it when the
// socket closes; an explicit leave keeps shutdown deterministic.
func (s *rawSocket) LeaveAnycast(ip net.IP) error {

	mreq, err := anycastReq(ip, 0)
	if err != nil {
		return err
	}

	if err := unix.SetsockoptIPv6Mreq(s.fd, unix.SOL_IPV6, unix.IPV6_LEAVE_ANYCAST, mreq); err != nil {
		return fmt.Errorf("unable to leave anycast group for %s: %s", ip, err)
	}
	return nil
}

func (s *rawSocket) Close() error {
	return unix.Close(s.fd)
}

func anycastReq(ip net.IP, ifindex int) (*unix.IPv6Mreq, error) {

	ip16 := ip.To16()
	if ip16 == nil || ip.To4() != nil {
		return nil, fmt.Errorf("unable to build anycast request: %s is not an IPv6 address", ip)
	}

	mreq := &unix.IPv6Mreq{Interface: uint32(ifindex)}
	copy(mreq.Multiaddr[:], ip16)
	return mreq, nil
}
