// Package dump traces packets crossing the tunnel when debug logging is
// enabled. Decoding only happens once the level check passes, so the hot
// path pays nothing in production.
package dump

import (
	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"go.uber.org/zap"
)

// IPv4 traces a packet read from the tun device.
func IPv4(data []byte) {
	trace("ipv4", layers.LayerTypeIPv4, data)
}

// IPv6 traces a packet received from the uplink.
func IPv6(data []byte) {
	trace("ipv6", layers.LayerTypeIPv6, data)
}

func trace(family string, first gopacket.LayerType, data []byte) {

	ce := zap.L().Check(zap.DebugLevel, "Tracing packet")
	if ce == nil {
		return
	}

	fields := []zap.Field{
		zap.String("family", family),
		zap.Int("length", len(data)),
	}

	pkt := gopacket.NewPacket(data, first, gopacket.DecodeOptions{Lazy: true, NoCopy: true})

	if layer := pkt.NetworkLayer(); layer != nil {
		flow := layer.NetworkFlow()
		fields = append(fields,
			zap.String("src", flow.Src().String()),
			zap.String("dst", flow.Dst().String()),
		)
	} else if errLayer := pkt.ErrorLayer(); errLayer != nil {
		fields = append(fields, zap.Error(errLayer.Error()))
	}

	ce.Write(fields...)
}
