//go:build linux
// +build linux

// Package clatd drives the lifecycle of a user-space 464XLAT CLAT: shed
// privilege, acquire the privileged sockets and the tun device in the right
// order, configure addressing, and shuttle packets until told to stop.
package clatd

import (
	"context"
	"os"
	"os/signal"

	"go.aporeto.io/clatd/constants"
	"go.aporeto.io/clatd/internal/args"
	"go.aporeto.io/clatd/internal/config"
	"go.aporeto.io/clatd/internal/datapath"
	"go.aporeto.io/clatd/internal/netconfig"
	"go.aporeto.io/clatd/internal/packetsocket"
	"go.aporeto.io/clatd/internal/privilege"
	"go.aporeto.io/clatd/internal/rawsocket"
	"go.aporeto.io/clatd/internal/tunnel"
	"go.aporeto.io/clatd/internal/tuntap"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// privilegeSequencer narrows process privilege, one way only.
type privilegeSequencer interface {
	DropRoot(cred privilege.Credentials) error
	Narrow() error
}

// addressManager owns interface configuration and the mutable tunnel
// address state.
type addressManager interface {
	ConfigureTunnel(t *tunnel.Tunnel) error
	UpdateIPv6Address(t *tunnel.Tunnel) error
	Cleanup(t *tunnel.Tunnel)
}

// eventLoop blocks moving packets until stopped.
type eventLoop interface {
	Run(ctx context.Context) error
}

// Bindings to the privileged machinery, swappable in tests.
var (
	createSocketWriter = func(mark uint32) (tunnel.PacketWriter, error) {
		return rawsocket.CreateSocket(mark)
	}

	createPacketReader = func(uplink string) (tunnel.PacketReader, error) {
		return packetsocket.Open(uplink)
	}

	createConflictProber = func(uplink string) (netconfig.ConflictProber, error) {
		p, err := netconfig.NewProber(uplink)
		if err != nil {
			return nil, err
		}
		return p, nil
	}

	openTunDevice = func() (tunnel.TunDevice, error) {
		return tuntap.Open()
	}

	loadConfiguration = config.Load

	installSignals = func(c chan<- os.Signal) error {
		signal.Notify(c, unix.SIGTERM)
		return nil
	}

	newSequencer = func() privilegeSequencer {
		return privilege.NewSequencer()
	}

	newAddressManager = func(cfg *config.Config, prober netconfig.ConflictProber) addressManager {
		return netconfig.NewManager(cfg, prober)
	}

	newEventLoop = func(tun tunnel.TunDevice, reader tunnel.PacketReader, translator datapath.Translator, updater func() error) eventLoop {
		return datapath.NewLoop(tun, reader, translator, updater)
	}
)

// Daemon is one clat instance.
type Daemon struct {
	args    *args.Config
	options *options
	tunnel  *tunnel.Tunnel
	prober  netconfig.ConflictProber
}

// New assembles a Daemon from parsed arguments and options.
func New(cfg *args.Config, opts ...Option) *Daemon {

	o := defaultOptions(cfg.UplinkInterface)
	for _, opt := range opts {
		opt(o)
	}

	return &Daemon{
		args:    cfg,
		options: o,
		tunnel: &tunnel.Tunnel{
			Uplink: cfg.UplinkInterface,
			Device: cfg.Device,
			NetID:  cfg.NetID,
			Mark:   cfg.Mark,
		},
	}
}

// Run executes the fixed bootstrap sequence, blocks in the event loop, and
// tears the tunnel down on the way out. It returns nil on a clean stop
// (termination signal or tun removal) and a kinded error otherwise.
func (d *Daemon) Run(ctx context.Context) error {

	zap.L().Info("Starting clat",
		zap.String("version", constants.Version),
		zap.String("interface", d.args.UplinkInterface),
		zap.String("netid", d.args.NetIDString()),
		zap.String("mark", d.args.MarkString()),
	)

	sequencer := newSequencer()

	if err := sequencer.DropRoot(d.options.credentials); err != nil {
		return d.fail(KindPrivilege, err)
	}

	writer, err := createSocketWriter(d.args.Mark)
	if err != nil {
		return d.fail(KindResource, err)
	}
	d.tunnel.Writer = writer

	reader, err := createPacketReader(d.args.UplinkInterface)
	if err != nil {
		return d.fail(KindResource, err)
	}
	d.tunnel.Reader = reader

	// The conflict prober needs a raw ICMPv6 socket, which the kernel hands
	// out only while CAP_NET_RAW is still held. Probes are advisory: failing
	// to open the socket disables them, not the daemon.
	prober, err := createConflictProber(d.args.UplinkInterface)
	if err != nil {
		zap.L().Warn("Unable to open a neighbor discovery socket, conflict probes are disabled",
			zap.String("interface", d.args.UplinkInterface),
			zap.Error(err),
		)
	}
	d.prober = prober

	if err := sequencer.Narrow(); err != nil {
		return d.fail(KindPrivilege, err)
	}

	tun, err := openTunDevice()
	if err != nil {
		return d.fail(KindResource, err)
	}
	d.tunnel.Tun = tun

	os.Unsetenv(constants.EnvAndroidDNSMode) // nolint: errcheck

	cfg, err := loadConfiguration(ctx, d.options.configPath, d.args.UplinkInterface, d.args.PlatPrefix, d.args.Mark, d.options.discoverer)
	if err != nil {
		return d.fail(KindResource, err)
	}

	manager := newAddressManager(cfg, d.prober)

	if err := manager.ConfigureTunnel(d.tunnel); err != nil {
		return d.fail(KindResource, err)
	}

	// The uplink may not have a global address yet. The update logs and
	// succeeds in that case, the loop retries it on its cadence.
	if err := manager.UpdateIPv6Address(d.tunnel); err != nil {
		return d.fail(KindResource, err)
	}

	signals := make(chan os.Signal, 1)
	if err := installSignals(signals); err != nil {
		return d.fail(KindSignalSetup, err)
	}
	defer signal.Stop(signals)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		select {
		case sig := <-signals:
			zap.L().Info("Termination signal received", zap.String("signal", sig.String()))
			cancel()
		case <-runCtx.Done():
		}
	}()

	loop := newEventLoop(d.tunnel.Tun, d.tunnel.Reader, d.options.translator, func() error {
		return manager.UpdateIPv6Address(d.tunnel)
	})

	err = loop.Run(runCtx)

	zap.L().Info("Shutting down clat", zap.String("interface", d.args.UplinkInterface))

	manager.Cleanup(d.tunnel)
	d.tunnel.Close()
	d.closeProber()

	if err != nil {
		return newError(KindResource, err)
	}
	return nil
}

// fail releases whatever the daemon already holds and tags the error.
func (d *Daemon) fail(kind Kind, err error) error {
	d.tunnel.Close()
	d.closeProber()
	return newError(kind, err)
}

func (d *Daemon) closeProber() {
	if d.prober != nil {
		d.prober.Close() // nolint: errcheck
	}
}
