//go:build linux
// +build linux

package netconfig

import (
	"errors"
	"fmt"
	"net"
	"net/netip"
	"time"

	"github.com/mdlayher/ndp"
	"github.com/vishvananda/netlink"
	"go.aporeto.io/clatd/internal/config"
	"go.aporeto.io/clatd/internal/tunnel"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// Swappable bindings to the netlink machinery.
var (
	linkByName = netlink.LinkByName
	addrAdd    = netlink.AddrAdd
	addrList   = netlink.AddrList
	linkSetMTU = netlink.LinkSetMTU
	linkSetUp  = netlink.LinkSetUp
	selectIPv4 = config.SelectIPv4Address
)

// ConflictProber checks whether another host on the uplink already answers
// for an address.
type ConflictProber interface {
	Probe(address net.IP) (bool, error)
	Close() error
}

// Manager owns the interface configuration and the one value that changes
// while the daemon runs: the tunnel's current IPv6 address.
type Manager struct {
	cfg     *config.Config
	prober  ConflictProber
	localV4 net.IP
	localV6 net.IP
	mtu     int
	ipv4MTU int
}

// NewManager returns a Manager for the given process configuration. A nil
// prober disables address conflict probing.
func NewManager(cfg *config.Config, prober ConflictProber) *Manager {
	return &Manager{cfg: cfg, prober: prober}
}

// ConfigureTunnel sizes, attaches, addresses and raises the tun interface.
// It runs exactly once, before the event loop.
func (m *Manager) ConfigureTunnel(t *tunnel.Tunnel) error {

	uplinkMTU, err := interfaceMTU(m.cfg.UplinkInterface)
	if err != nil {
		zap.L().Warn("Unable to read the uplink MTU",
			zap.String("interface", m.cfg.UplinkInterface),
			zap.Error(err),
		)
		uplinkMTU = -1
	}

	m.mtu = config.ClampMTU(m.cfg.MTU, uplinkMTU)
	m.ipv4MTU = config.DeriveIPv4MTU(m.cfg.IPv4MTU, m.mtu)

	if err := t.Tun.Attach(string(t.Device)); err != nil {
		return err
	}

	if err := t.Tun.SetNonblocking(); err != nil {
		return err
	}

	ipv4, err := selectIPv4(m.cfg.IPv4LocalSubnet, m.cfg.IPv4LocalPrefixLen)
	if err != nil {
		return err
	}
	m.localV4 = ipv4

	if err := addAddress(string(t.Device), ipv4, 32); err != nil {
		return fmt.Errorf("unable to add %s to %s: %s", ipv4, t.Device, err)
	}

	zap.L().Info("Using IPv4 address",
		zap.String("ip", ipv4.String()),
		zap.String("interface", string(t.Device)),
	)

	if err := interfaceUp(string(t.Device), m.ipv4MTU); err != nil {
		return fmt.Errorf("unable to bring up %s: %s", t.Device, err)
	}

	return nil
}

// UpdateIPv6Address recomputes the tunnel address from the uplink's current
// global IPv6 prefix. A missing uplink or a missing address is not an
// error, the address may appear later. Rewiring failures are errors: once
// the anycast membership or the receive filter cannot be installed the
// tunnel is broken.
func (m *Manager) UpdateIPv6Address(t *tunnel.Tunnel) error {

	link, err := linkByName(m.cfg.UplinkInterface)
	if err != nil {
		zap.L().Error("Unable to find an IPv6 address on the uplink",
			zap.String("interface", m.cfg.UplinkInterface),
			zap.Error(err),
		)
		return nil
	}

	current, err := firstGlobalAddress(link)
	if err != nil || current == nil {
		zap.L().Error("Unable to find an IPv6 address on the uplink",
			zap.String("interface", m.cfg.UplinkInterface),
			zap.Error(err),
		)
		return nil
	}

	if m.localV6 != nil && prefixEqual(current, m.localV6) {
		return nil
	}

	address, err := m.cfg.GenerateIPv6Address(current)
	if err != nil {
		return err
	}

	if m.prober != nil {
		if conflict, perr := m.prober.Probe(address); perr != nil {
			zap.L().Debug("Neighbor probe failed", zap.Error(perr))
		} else if conflict {
			zap.L().Warn("Another host already claims the tunnel address",
				zap.String("ip", address.String()),
			)
		}
	}

	if m.localV6 == nil {
		zap.L().Info("Using IPv6 address",
			zap.String("ip", address.String()),
			zap.String("interface", m.cfg.UplinkInterface),
		)
	} else {
		zap.L().Info("Tunnel IPv6 address changed",
			zap.String("from", m.localV6.String()),
			zap.String("to", address.String()),
		)
		if err := t.Writer.LeaveAnycast(m.localV6); err != nil {
			zap.L().Warn("Unable to leave the previous anycast group",
				zap.String("ip", m.localV6.String()),
				zap.Error(err),
			)
		}
	}

	if err := t.Writer.JoinAnycast(address, link.Attrs().Index); err != nil {
		return err
	}

	if err := t.Reader.SetAddressFilter(address); err != nil {
		return err
	}

	m.localV6 = address
	return nil
}

// LocalIPv4 returns the address selected for the tun interface.
func (m *Manager) LocalIPv4() net.IP {
	return m.localV4
}

// LocalIPv6 returns the currently claimed tunnel address, nil before the
// first successful update.
func (m *Manager) LocalIPv6() net.IP {
	return m.localV6
}

// Cleanup releases the claimed address on the way out. Failures are logged,
// shutdown continues regardless.
func (m *Manager) Cleanup(t *tunnel.Tunnel) {

	if m.localV6 == nil {
		return
	}

	if err := t.Writer.LeaveAnycast(m.localV6); err != nil {
		zap.L().Warn("Unable to leave the anycast group",
			zap.String("ip", m.localV6.String()),
			zap.Error(err),
		)
	}
}

// interfaceMTU reads the current MTU of an interface.
func interfaceMTU(name string) (int, error) {

	link, err := linkByName(name)
	if err != nil {
		return 0, fmt.Errorf("unable to find interface %s: %s", name, err)
	}
	return link.Attrs().MTU, nil
}

// addAddress assigns ip/prefixLen to the named interface.
func addAddress(name string, ip net.IP, prefixLen int) error {

	link, err := linkByName(name)
	if err != nil {
		return err
	}

	bits := 8 * net.IPv6len
	if ip.To4() != nil {
		bits = 8 * net.IPv4len
	}

	return addrAdd(link, &netlink.Addr{
		IPNet: &net.IPNet{IP: ip, Mask: net.CIDRMask(prefixLen, bits)},
	})
}

// interfaceUp applies the MTU and raises the link.
func interfaceUp(name string, mtu int) error {

	link, err := linkByName(name)
	if err != nil {
		return err
	}

	if err := linkSetMTU(link, mtu); err != nil {
		return err
	}

	return linkSetUp(link)
}

// firstGlobalAddress returns the first globally scoped IPv6 address on the
// link, or nil when the link has none.
func firstGlobalAddress(link netlink.Link) (net.IP, error) {

	addrs, err := addrList(link, netlink.FAMILY_V6)
	if err != nil {
		return nil, fmt.Errorf("unable to list addresses: %s", err)
	}

	for _, addr := range addrs {
		if addr.Scope == unix.RT_SCOPE_UNIVERSE {
			return addr.IP, nil
		}
	}

	return nil, nil
}

// prefixEqual compares the /64 prefixes of two addresses.
func prefixEqual(a, b net.IP) bool {

	a16 := a.To16()
	b16 := b.To16()
	if a16 == nil || b16 == nil {
		return false
	}

	for i := 0; i < 8; i++ {
		if a16[i] != b16[i] {
			return false
		}
	}
	return true
}

// Prober solicits the uplink for an existing owner of an address before we
// claim it. The kernel hands out the raw ICMPv6 socket underneath only to
// CAP_NET_RAW holders, so the socket is opened while that capability is
// still held and retained for the lifetime of the daemon.
type Prober struct {
	conn   *ndp.Conn
	hwaddr net.HardwareAddr
}

// NewProber opens a neighbor discovery socket on the uplink. Uplinks
// without a 6-byte hardware address cannot carry a source link-layer
// option and cannot be probed.
func NewProber(uplink string) (*Prober, error) {

	ifi, err := net.InterfaceByName(uplink)
	if err != nil {
		return nil, fmt.Errorf("unable to find uplink interface %s: %s", uplink, err)
	}

	if len(ifi.HardwareAddr) != 6 {
		return nil, fmt.Errorf("uplink %s has no hardware address to probe with", uplink)
	}

	conn, _, err := ndp.Listen(ifi, ndp.LinkLocal)
	if err != nil {
		return nil, fmt.Errorf("unable to open a neighbor discovery socket on %s: %s", uplink, err)
	}

	return &Prober{conn: conn, hwaddr: ifi.HardwareAddr}, nil
}

// Probe solicits the link for the address and reports whether another host
// advertised it. The probe is advisory.
func (p *Prober) Probe(address net.IP) (bool, error) {

	target, ok := netip.AddrFromSlice(address.To16())
	if !ok {
		return false, fmt.Errorf("unable to probe %s: not an address", address)
	}

	snm, err := ndp.SolicitedNodeMulticast(target)
	if err != nil {
		return false, err
	}

	ns := &ndp.NeighborSolicitation{
		TargetAddress: target,
		Options: []ndp.Option{
			&ndp.LinkLayerAddress{
				Direction: ndp.Source,
				Addr:      p.hwaddr,
			},
		},
	}

	if err := p.conn.WriteTo(ns, nil, snm); err != nil {
		return false, err
	}

	if err := p.conn.SetReadDeadline(time.Now().Add(time.Second)); err != nil {
		return false, err
	}

	for {
		msg, _, _, err := p.conn.ReadFrom()
		if err != nil {
			var nerr net.Error
			if errors.As(err, &nerr) && nerr.Timeout() {
				return false, nil
			}
			return false, err
		}

		if na, ok := msg.(*ndp.NeighborAdvertisement); ok && na.TargetAddress == target {
			return true, nil
		}
	}
}

// Close releases the neighbor discovery socket.
func (p *Prober) Close() error {
	return p.conn.Close()
}
