//go:build linux
// +build linux

package packetsocket

import (
	"encoding/binary"
	"fmt"
	"net"

	"github.com/mdlayher/packet"
	"go.aporeto.io/clatd/constants"
	"golang.org/x/net/bpf"
	"golang.org/x/sys/unix"
)

// Offsets of the destination address words in an IPv6 header. The socket is
// cooked, so the header starts at offset zero.
const (
	dstWord0 = 24
	dstWord1 = 28
	dstWord2 = 32
	dstWord3 = 36
)

// Reader receives the uplink's IPv6 packets addressed to the translation
// address. Delivery is gated by a classic BPF filter that is replaced every
// time the address changes.
type Reader struct {
	conn *packet.Conn
	fd   int
}

// Open binds a cooked packet socket to the uplink for IPv6. Nothing is
// delivered until a real address filter is installed: the socket starts
// with a reject-all filter so early traffic cannot queue up behind the
// configuration steps. Must run while the process can still create raw
// sockets.
func Open(uplink string) (*Reader, error) {

	ifi, err := net.InterfaceByName(uplink)
	if err != nil {
		return nil, fmt.Errorf("unable to find uplink interface %s: %s", uplink, err)
	}

	reject, err := bpf.Assemble([]bpf.Instruction{
		bpf.RetConstant{Val: 0},
	})
	if err != nil {
		return nil, fmt.Errorf("unable to assemble receive filter: %s", err)
	}

	conn, err := packet.Listen(ifi, packet.Datagram, unix.ETH_P_IPV6, &packet.Config{Filter: reject})
	if err != nil {
		return nil, fmt.Errorf("packet socket failed: %s", err)
	}

	sc, err := conn.SyscallConn()
	if err != nil {
		conn.Close() // nolint: errcheck
		return nil, fmt.Errorf("packet socket failed: %s", err)
	}

	var fd int
	if err := sc.Control(func(f uintptr) { fd = int(f) }); err != nil {
		conn.Close() // nolint: errcheck
		return nil, fmt.Errorf("packet socket failed: %s", err)
	}

	return &Reader{conn: conn, fd: fd}, nil
}

// SetAddressFilter accepts exactly the packets destined to ip, replacing
// any previous filter.
func (r *Reader) SetAddressFilter(ip net.IP) error {

	prog, err := addressFilterProgram(ip)
	if err != nil {
		return err
	}

	raw, err := bpf.Assemble(prog)
	if err != nil {
		return fmt.Errorf("unable to assemble receive filter: %s", err)
	}

	if err := r.conn.SetBPF(raw); err != nil {
		return fmt.Errorf("attach packet filter failed: %s", err)
	}
	return nil
}

// ReadPacket reads one packet without blocking. The error is returned
// untouched so callers can distinguish an empty socket (EAGAIN) from real
// failures.
func (r *Reader) ReadPacket(b []byte) (int, error) {

	n, _, err := unix.Recvfrom(r.fd, b, 0)
	if err != nil {
		return 0, err
	}
	return n, nil
}

// Fd returns the raw descriptor for polling.
func (r *Reader) Fd() int {
	return r.fd
}

// Close releases the socket.
func (r *Reader) Close() error {
	return r.conn.Close()
}

// addressFilterProgram compares the packet's destination against ip one
// 32-bit word at a time. BPF loads convert to host byte order, so each
// comparison value is the big-endian word read as a host integer. A match
// returns the full packet, anything else is dropped.
func addressFilterProgram(ip net.IP) ([]bpf.Instruction, error) {

	ip16 := ip.To16()
	if ip16 == nil || ip.To4() != nil {
		return nil, fmt.Errorf("unable to build receive filter: %s is not an IPv6 address", ip)
	}

	return []bpf.Instruction{
		bpf.LoadAbsolute{Off: dstWord0, Size: 4},
		bpf.JumpIf{Cond: bpf.JumpEqual, Val: binary.BigEndian.Uint32(ip16[0:4]), SkipFalse: 7},
		bpf.LoadAbsolute{Off: dstWord1, Size: 4},
		bpf.JumpIf{Cond: bpf.JumpEqual, Val: binary.BigEndian.Uint32(ip16[4:8]), SkipFalse: 5},
		bpf.LoadAbsolute{Off: dstWord2, Size: 4},
		bpf.JumpIf{Cond: bpf.JumpEqual, Val: binary.BigEndian.Uint32(ip16[8:12]), SkipFalse: 3},
		bpf.LoadAbsolute{Off: dstWord3, Size: 4},
		bpf.JumpIf{Cond: bpf.JumpEqual, Val: binary.BigEndian.Uint32(ip16[12:16]), SkipFalse: 1},
		bpf.RetConstant{Val: constants.PacketLen},
		bpf.RetConstant{Val: 0},
	}, nil
}
