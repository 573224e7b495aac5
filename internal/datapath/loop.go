//go:build linux
// +build linux

package datapath

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"go.aporeto.io/clatd/constants"
	"go.aporeto.io/clatd/internal/dump"
	"go.aporeto.io/clatd/internal/tunnel"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// Loop shuttles packets between the tun device and the uplink socket until
// it is told to stop or the tun device disappears.
type Loop struct {
	tun        tunnel.TunDevice
	reader     tunnel.PacketReader
	translator Translator
	updater    func() error

	pollTimeout    time.Duration
	updateInterval time.Duration
}

// NewLoop wires the loop to its descriptors, the translator and the
// periodic address updater.
func NewLoop(tun tunnel.TunDevice, reader tunnel.PacketReader, translator Translator, updater func() error) *Loop {

	if translator == nil {
		translator = NewDiscardTranslator()
	}

	return &Loop{
		tun:            tun,
		reader:         reader,
		translator:     translator,
		updater:        updater,
		pollTimeout:    constants.NoTrafficPollBound,
		updateInterval: constants.AddressPollInterval,
	}
}

// Run polls the descriptors on the calling goroutine. It returns nil on a
// requested stop or when the tun device is removed, and an error only when
// the tunnel cannot keep running. Cancel ctx to stop.
func (l *Loop) Run(ctx context.Context) error {

	var pipe [2]int
	if err := unix.Pipe2(pipe[:], unix.O_NONBLOCK|unix.O_CLOEXEC); err != nil {
		return fmt.Errorf("unable to create the stop pipe: %s", err)
	}
	stopR, stopW := pipe[0], pipe[1]

	// The watcher turns a context cancellation into a poll wakeup. It must
	// be fully stopped before the pipe descriptors can be closed.
	watcherDone := make(chan struct{})
	loopDone := make(chan struct{})

	go func() {
		defer close(watcherDone)
		select {
		case <-ctx.Done():
			unix.Write(stopW, []byte{0}) // nolint: errcheck
		case <-loopDone:
		}
	}()

	defer func() {
		close(loopDone)
		<-watcherDone
		unix.Close(stopR) // nolint: errcheck
		unix.Close(stopW) // nolint: errcheck
	}()

	pollFds := []unix.PollFd{
		{Fd: int32(l.reader.Fd()), Events: unix.POLLIN},
		{Fd: int32(l.tun.Fd()), Events: unix.POLLIN},
		{Fd: int32(stopR), Events: unix.POLLIN},
	}

	buf := make([]byte, constants.PacketLen)
	nextUpdate := time.Now().Add(l.updateInterval)

	for {
		for i := range pollFds {
			pollFds[i].Revents = 0
		}

		n, err := unix.Poll(pollFds, int(l.pollTimeout/time.Millisecond))
		if err != nil {
			if err != unix.EINTR {
				zap.L().Warn("Polling the tunnel descriptors failed", zap.Error(err))
			}
		} else if n > 0 {

			if pollFds[2].Revents != 0 {
				return nil
			}

			if rev := pollFds[0].Revents; rev != 0 {
				l.serviceUplink(rev, buf)
			}

			if rev := pollFds[1].Revents; rev != 0 {
				if removed := l.serviceTun(buf); removed {
					return nil
				}
			}
		}

		if !time.Now().Before(nextUpdate) {
			if err := l.updater(); err != nil {
				return err
			}
			nextUpdate = time.Now().Add(l.updateInterval)
		}
	}
}

// serviceUplink handles one wakeup of the uplink socket. Anything but
// readable data means a queued socket error: reading zero bytes clears it
// so poll does not spin on POLLERR.
func (l *Loop) serviceUplink(revents int16, buf []byte) {

	if revents&unix.POLLIN == 0 {
		_, _, err := unix.Recvfrom(l.reader.Fd(), nil, unix.MSG_PEEK)
		zap.L().Warn("Clearing an error on the uplink socket", zap.Error(err))
		return
	}

	n, err := l.reader.ReadPacket(buf)
	if err != nil {
		if err != unix.EAGAIN {
			zap.L().Warn("Unable to read from the uplink socket", zap.Error(err))
		}
		return
	}

	dump.IPv6(buf[:n])

	if err := l.translator.Translate(ToIPv4, buf[:n]); err != nil {
		zap.L().Warn("Translation failed",
			zap.String("direction", ToIPv4.String()),
			zap.Error(err),
		)
	}
}

// serviceTun handles one wakeup of the tun device and reports whether the
// device is gone. Each read returns one packet prefixed with the 4-byte
// packet information header.
func (l *Loop) serviceTun(buf []byte) bool {

	n, err := l.tun.Read(buf)
	if err != nil {
		if err != unix.EAGAIN {
			zap.L().Warn("Unable to read from the tun device", zap.Error(err))
		}
		return false
	}

	if n == 0 {
		zap.L().Warn("The tun device was removed, stopping")
		return true
	}

	if n < constants.TunHeaderSize {
		zap.L().Warn("Short read on the tun device", zap.Int("bytes", n))
		return false
	}

	// tun_pi: flags are host order, proto is big-endian on the wire.
	flags := binary.NativeEndian.Uint16(buf[0:2])
	proto := binary.BigEndian.Uint16(buf[2:4])

	if proto != unix.ETH_P_IP {
		zap.L().Warn("Unknown packet type on the tun device",
			zap.String("protocol", fmt.Sprintf("0x%x", proto)),
		)
		return false
	}

	if flags != 0 {
		zap.L().Warn("Unexpected flags on the tun device", zap.Uint16("flags", flags))
	}

	packet := buf[constants.TunHeaderSize:n]

	dump.IPv4(packet)

	if err := l.translator.Translate(ToIPv6, packet); err != nil {
		zap.L().Warn("Translation failed",
			zap.String("direction", ToIPv6.String()),
			zap.Error(err),
		)
	}

	return false
}
