package config

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/magiconair/properties"
	"github.com/pkg/errors"
	"go.aporeto.io/clatd/constants"
	"go.uber.org/zap"
)

// PrefixDiscoverer resolves the translation prefix when it is not given on
// the command line or pinned in the configuration file.
type PrefixDiscoverer interface {
	Discover(ctx context.Context, hostname string, mark uint32) (net.IP, error)
}

// Config is the process configuration. It is assembled once by Load and is
// read-only afterward.
type Config struct {

	// UplinkInterface is the name of the IPv6 uplink.
	UplinkInterface string

	// PlatSubnet is the /96 translation prefix.
	PlatSubnet net.IP

	// IPv4LocalSubnet and IPv4LocalPrefixLen describe the pool the local
	// IPv4 address is picked from.
	IPv4LocalSubnet    net.IP
	IPv4LocalPrefixLen int

	// HostID optionally pins the interface id of the tunnel's IPv6
	// address. Nil means a fresh random id on every prefix change.
	HostID net.IP

	// MTU and IPv4MTU are the requested values from the configuration
	// file. Negative values mean unset; clamping happens at interface
	// configuration time when the uplink MTU is known.
	MTU     int
	IPv4MTU int
}

// Load reads the configuration file and resolves the translation prefix.
// platPrefix is the raw command-line override and wins over everything;
// otherwise the file decides between a pinned plat_subnet and DNS64
// discovery via the supplied discoverer.
func Load(ctx context.Context, path string, uplink string, platPrefix string, mark uint32, discoverer PrefixDiscoverer) (*Config, error) {

	props, err := properties.LoadFile(path, properties.UTF8)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read the configuration file %s", path)
	}

	cfg := &Config{UplinkInterface: uplink}

	if cfg.MTU, err = intItem(props, "mtu", -1); err != nil {
		return nil, err
	}

	if cfg.IPv4MTU, err = intItem(props, "ipv4mtu", -1); err != nil {
		return nil, err
	}

	subnet := props.GetString("ipv4_local_subnet", "192.0.0.4")
	if cfg.IPv4LocalSubnet = net.ParseIP(subnet); cfg.IPv4LocalSubnet.To4() == nil {
		return nil, fmt.Errorf("unable to parse ipv4_local_subnet %s", subnet)
	}

	if cfg.IPv4LocalPrefixLen, err = intItem(props, "ipv4_local_prefixlen", 29); err != nil {
		return nil, err
	}

	if hostID := props.GetString("ipv6_host_id", ""); hostID != "" {
		if cfg.HostID = net.ParseIP(hostID); cfg.HostID == nil || cfg.HostID.To4() != nil {
			return nil, fmt.Errorf("unable to parse ipv6_host_id %s", hostID)
		}
	}

	if cfg.PlatSubnet, err = resolvePlatSubnet(ctx, props, platPrefix, mark, discoverer); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolvePlatSubnet applies the prefix precedence: command line, then the
// pinned plat_subnet when discovery is disabled, then DNS64 discovery.
func resolvePlatSubnet(ctx context.Context, props *properties.Properties, platPrefix string, mark uint32, discoverer PrefixDiscoverer) (net.IP, error) {

	if platPrefix != "" {
		zap.L().Info("Plat prefix specified on the command line", zap.String("prefix", platPrefix))
		prefix := net.ParseIP(platPrefix)
		if prefix == nil || prefix.To4() != nil {
			return nil, fmt.Errorf("invalid IPv6 address specified for plat prefix: %s", platPrefix)
		}
		return prefix, nil
	}

	fromDNS64, err := boolItem(props, "plat_from_dns64", true)
	if err != nil {
		return nil, err
	}

	if !fromDNS64 {
		pinned := props.GetString("plat_subnet", "")
		if pinned == "" {
			return nil, fmt.Errorf("plat_subnet config item needed")
		}
		prefix := net.ParseIP(pinned)
		if prefix == nil || prefix.To4() != nil {
			return nil, fmt.Errorf("unable to parse plat_subnet %s", pinned)
		}
		return prefix, nil
	}

	if discoverer == nil {
		return nil, fmt.Errorf("plat_from_dns64 is enabled but no discoverer is available")
	}

	hostname := props.GetString("plat_from_dns64_hostname", "ipv4only.arpa")

	prefix, err := discoverer.Discover(ctx, hostname, mark)
	if err != nil {
		return nil, errors.Wrap(err, "unable to discover the translation prefix")
	}

	return prefix, nil
}

// intItem parses an integer configuration value. Unlike the permissive
// getters, a present but malformed value is an error.
func intItem(props *properties.Properties, key string, def int) (int, error) {

	raw, ok := props.Get(key)
	if !ok {
		return def, nil
	}

	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("unable to parse %s value %s", key, raw)
	}
	return value, nil
}

// boolItem parses a boolean configuration value, accepting the yes/no form
// the configuration file traditionally uses.
func boolItem(props *properties.Properties, key string, def bool) (bool, error) {

	raw, ok := props.Get(key)
	if !ok {
		return def, nil
	}

	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes", "true", "1", "on":
		return true, nil
	case "no", "false", "0", "off":
		return false, nil
	}
	return false, fmt.Errorf("unable to parse %s value %s", key, raw)
}

// ClampMTU bounds the requested tunnel MTU, falling back to the uplink's
// MTU when unset and never going below the IPv6 minimum link MTU.
func ClampMTU(requested int, uplinkMTU int) int {

	mtu := requested

	if mtu > constants.MaxMTU {
		zap.L().Warn("Requested MTU is above the maximum",
			zap.Int("max", constants.MaxMTU),
			zap.Int("requested", mtu),
		)
		mtu = constants.MaxMTU
	}

	if mtu <= 0 {
		mtu = uplinkMTU
		zap.L().Info("Using the uplink MTU", zap.Int("mtu", mtu))
	}

	if mtu < constants.MinMTU {
		zap.L().Warn("MTU is too small", zap.Int("mtu", mtu))
		mtu = constants.MinMTU
	}

	return mtu
}

// DeriveIPv4MTU bounds the IPv4-facing MTU so a maximally-sized translated
// packet still fits the tunnel MTU after header growth.
func DeriveIPv4MTU(requested int, mtu int) int {

	if requested <= 0 || requested > mtu-constants.MTUDelta {
		derived := mtu - constants.MTUDelta
		zap.L().Info("Adjusted the IPv4 MTU", zap.Int("ipv4mtu", derived))
		return derived
	}
	return requested
}

// addressIsFree reports whether an IPv4 address (host byte order) is not
// already assigned to this host. Swappable for tests.
var addressIsFree = ipv4AddressIsFree

// SelectIPv4Address picks the first unassigned address in the configured
// pool, starting at the configured address and wrapping around the prefix,
// so 192.0.0.4/29 checks .4 through .7 and then .0 through .3.
func SelectIPv4Address(subnet net.IP, prefixLen int) (net.IP, error) {

	ip4 := subnet.To4()
	if ip4 == nil || prefixLen < 16 || prefixLen > 32 {
		return nil, fmt.Errorf("no free IPv4 address in %s/%d", subnet, prefixLen)
	}

	mask := uint32(0xffffffff) << (32 - uint(prefixLen))
	start := binary.BigEndian.Uint32(ip4)
	prefix := start & mask

	for candidate := start; ; {

		if addressIsFree(candidate) {
			chosen := make(net.IP, net.IPv4len)
			binary.BigEndian.PutUint32(chosen, candidate)
			return chosen, nil
		}

		candidate = prefix | ((candidate + 1) & ^mask)
		if candidate == start {
			return nil, fmt.Errorf("no free IPv4 address in %s/%d", subnet, prefixLen)
		}
	}
}

// ipv4AddressIsFree probes by connecting a UDP socket towards the
// candidate: if the kernel picks the candidate itself as the source, the
// address is already assigned here and cannot be reused.
func ipv4AddressIsFree(addr uint32) bool {

	ip := make(net.IP, net.IPv4len)
	binary.BigEndian.PutUint32(ip, addr)

	conn, err := net.DialUDP("udp4", nil, &net.UDPAddr{IP: ip, Port: 53})
	if err != nil {
		return true
	}
	defer conn.Close() // nolint: errcheck

	local, ok := conn.LocalAddr().(*net.UDPAddr)
	return !ok || !local.IP.Equal(ip)
}

// GenerateIPv6Address composes the tunnel's IPv6 address from the uplink's
// /64 prefix and the interface id: the pinned host id when configured,
// fresh random bits otherwise.
func (c *Config) GenerateIPv6Address(prefix net.IP) (net.IP, error) {

	p16 := prefix.To16()
	if p16 == nil || prefix.To4() != nil {
		return nil, fmt.Errorf("unable to generate an IPv6 address from prefix %s", prefix)
	}

	address := make(net.IP, net.IPv6len)
	copy(address, p16[:8])

	if c.HostID != nil {
		copy(address[8:], c.HostID.To16()[8:])
		return address, nil
	}

	if _, err := rand.Read(address[8:]); err != nil {
		return nil, fmt.Errorf("unable to generate an interface id: %s", err)
	}

	return address, nil
}
