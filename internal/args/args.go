package args

import (
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.aporeto.io/clatd/internal/tunnel"
)

// ErrHelp is returned by Parse when the help flag is given. The caller
// prints Usage and exits successfully without touching anything else.
var ErrHelp = flag.ErrHelp

// Config is the validated command line of one daemon run.
type Config struct {
	// UplinkInterface carries IPv6 toward the network.
	UplinkInterface string

	// PlatPrefix is the translation prefix given on the command line. It
	// is passed through uninterpreted; empty means discover or read from
	// the configuration file.
	PlatPrefix string

	// Device is the derived tun device name.
	Device tunnel.DeviceName

	// NetID and Mark are zero when the flags were absent.
	NetID uint32
	Mark  uint32

	rawNetID string
	rawMark  string
}

// NetIDString returns the network id as given on the command line, or
// "(none)" when the flag was absent. Used for the startup log.
func (c *Config) NetIDString() string {
	if c.rawNetID == "" {
		return "(none)"
	}
	return c.rawNetID
}

// MarkString returns the socket mark as given on the command line, or
// "(none)" when the flag was absent.
func (c *Config) MarkString() string {
	if c.rawMark == "" {
		return "(none)"
	}
	return c.rawMark
}

// Usage returns the command line help text.
func Usage() string {
	var b strings.Builder
	b.WriteString("clatd arguments:\n")
	b.WriteString("-i [uplink interface]\n")
	b.WriteString("-p [plat prefix]\n")
	b.WriteString("-n [NetId]\n")
	b.WriteString("-m [socket mark]\n")
	return b.String()
}

// Parse validates the command line, excluding the program name. It returns
// ErrHelp for the help flag; any other error means the process must exit
// nonzero before attempting a single privileged operation.
func Parse(argv []string) (*Config, error) {

	fs := flag.NewFlagSet("clatd", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	uplink := fs.String("i", "", "uplink interface")
	prefix := fs.String("p", "", "plat prefix")
	netID := fs.String("n", "", "NetId")
	mark := fs.String("m", "", "socket mark")

	if err := fs.Parse(argv); err != nil {
		if err == flag.ErrHelp {
			return nil, ErrHelp
		}
		return nil, fmt.Errorf("unable to parse arguments: %s", err)
	}

	if *uplink == "" {
		return nil, fmt.Errorf("clatd called without an interface")
	}

	c := &Config{
		UplinkInterface: *uplink,
		PlatPrefix:      *prefix,
		rawNetID:        *netID,
		rawMark:         *mark,
	}

	if *netID != "" {
		v, err := parseUnsigned(*netID)
		if err != nil {
			return nil, fmt.Errorf("invalid NetID %s", *netID)
		}
		c.NetID = v
	}

	if *mark != "" {
		v, err := parseUnsigned(*mark)
		if err != nil {
			return nil, fmt.Errorf("invalid mark %s", *mark)
		}
		c.Mark = v
	}

	device, err := tunnel.NewDeviceName(c.UplinkInterface)
	if err != nil {
		return nil, err
	}
	c.Device = device

	return c, nil
}

// parseUnsigned parses a decimal, hexadecimal (0x) or octal (leading 0)
// unsigned integer. The whole string must be consumed: no sign, no blanks,
// no digit separators, no 0b/0o prefixes, no trailing characters, no
// overflow past 32 bits.
func parseUnsigned(s string) (uint32, error) {
	lower := strings.ToLower(s)
	if strings.ContainsRune(s, '_') || strings.HasPrefix(lower, "0b") || strings.HasPrefix(lower, "0o") {
		return 0, fmt.Errorf("unable to parse %q as an unsigned integer", s)
	}
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("unable to parse %q as an unsigned integer: %s", s, err)
	}
	return uint32(v), nil
}
