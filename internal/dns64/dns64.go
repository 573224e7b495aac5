//go:build linux
// +build linux

package dns64

import (
	"context"
	"fmt"
	"net"
	"syscall"
	"time"

	"github.com/miekg/dns"
	"github.com/pkg/errors"
	"go.aporeto.io/clatd/constants"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

const (
	resolvConfPath = "/etc/resolv.conf"
	queryTimeout   = 5 * time.Second
	maxBackoff     = 120 * time.Second
)

// The well-known addresses a DNS64 synthesizes for the detection hostname.
var (
	wellKnown170 = net.IPv4(192, 0, 0, 170)
	wellKnown171 = net.IPv4(192, 0, 0, 171)
)

// Resolver discovers the translation prefix by resolving a hostname that
// only exists in the IPv4 internet: any AAAA answer must have been
// synthesized by a DNS64, and carries the prefix in its upper 96 bits.
type Resolver struct {
	uplink         string
	initialBackoff time.Duration
	query          func(ctx context.Context, hostname string, mark uint32) ([]net.IP, error)
}

// NewResolver returns a Resolver whose queries are bound to the uplink so
// policy routing sends them over the right network.
func NewResolver(uplink string) *Resolver {

	r := &Resolver{
		uplink:         uplink,
		initialBackoff: time.Second,
	}
	r.query = r.queryDNS
	return r
}

// Discover retries the detection query with exponential backoff until it
// yields a usable prefix or the context is canceled. A name that resolves
// to garbage is retried like a failed query.
func (r *Resolver) Discover(ctx context.Context, hostname string, mark uint32) (net.IP, error) {

	backoff := r.initialBackoff

	for {
		answers, err := r.query(ctx, hostname, mark)
		if err == nil {
			var prefix net.IP
			if prefix, err = prefixFromAnswers(answers); err == nil {
				zap.L().Info("Discovered the translation prefix",
					zap.String("prefix", prefix.String()),
					zap.String("hostname", hostname),
				)
				return prefix, nil
			}
		}

		zap.L().Warn("DNS64 detection failed",
			zap.String("hostname", hostname),
			zap.Error(err),
		)

		select {
		case <-ctx.Done():
			return nil, errors.Wrap(ctx.Err(), "DNS64 detection aborted")
		case <-time.After(backoff):
		}

		backoff = nextBackoff(backoff)
	}
}

// nextBackoff doubles the wait up to the cap.
func nextBackoff(current time.Duration) time.Duration {

	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

// queryDNS asks each configured nameserver for AAAA records of the
// detection hostname, returning the first server's usable answer set.
func (r *Resolver) queryDNS(ctx context.Context, hostname string, mark uint32) ([]net.IP, error) {

	conf, err := dns.ClientConfigFromFile(resolvConfPath)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read the resolver configuration")
	}

	if len(conf.Servers) == 0 {
		return nil, fmt.Errorf("no nameservers configured")
	}

	client := &dns.Client{
		Net: "udp",
		Dialer: &net.Dialer{
			Timeout: queryTimeout,
			Control: controlSocket(r.uplink, mark),
		},
	}

	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(hostname), dns.TypeAAAA)

	var lastErr error

	for _, server := range conf.Servers {

		reply, _, err := client.ExchangeContext(ctx, msg, net.JoinHostPort(server, conf.Port))
		if err != nil {
			lastErr = err
			continue
		}

		if reply.Rcode != dns.RcodeSuccess {
			lastErr = fmt.Errorf("query for %s returned %s", hostname, dns.RcodeToString[reply.Rcode])
			continue
		}

		var answers []net.IP
		for _, rr := range reply.Answer {
			if aaaa, ok := rr.(*dns.AAAA); ok {
				answers = append(answers, aaaa.AAAA)
			}
		}

		if len(answers) == 0 {
			lastErr = fmt.Errorf("no AAAA records for %s", hostname)
			continue
		}

		return answers, nil
	}

	return nil, lastErr
}

// controlSocket marks the resolver socket and pins it to the uplink before
// the kernel connects it.
func controlSocket(uplink string, mark uint32) func(network, address string, c syscall.RawConn) error {

	return func(network, address string, c syscall.RawConn) error {

		var serr error

		err := c.Control(func(fd uintptr) {

			if mark != constants.MarkUnset {
				if serr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_MARK, int(mark)); serr != nil {
					return
				}
			}

			if uplink != "" {
				serr = unix.BindToDevice(int(fd), uplink)
			}
		})

		if err != nil {
			return err
		}
		return serr
	}
}

// prefixFromAnswers derives the /96 prefix from synthesized answers. Every
// answer must embed one of the well-known detection addresses in its last
// four bytes, and all answers must agree on the upper 96 bits.
func prefixFromAnswers(answers []net.IP) (net.IP, error) {

	var prefix net.IP

	for _, answer := range answers {

		ip16 := answer.To16()
		if ip16 == nil || answer.To4() != nil {
			return nil, fmt.Errorf("answer %s is not an IPv6 address", answer)
		}

		embedded := net.IPv4(ip16[12], ip16[13], ip16[14], ip16[15])
		if !embedded.Equal(wellKnown170) && !embedded.Equal(wellKnown171) {
			return nil, fmt.Errorf("answer %s does not embed a well-known IPv4 address", answer)
		}

		candidate := make(net.IP, net.IPv6len)
		copy(candidate, ip16[:12])

		if prefix == nil {
			prefix = candidate
			continue
		}

		if !prefix.Equal(candidate) {
			return nil, fmt.Errorf("answers disagree on the translation prefix")
		}
	}

	if prefix == nil {
		return nil, fmt.Errorf("no answers to derive a prefix from")
	}

	return prefix, nil
}
