package datapath

import (
	"go.uber.org/zap"
)

// Direction tells the translator which way a packet is crossing the
// address-family boundary.
type Direction int

const (
	// ToIPv6 carries traffic read from the tun device towards the uplink.
	ToIPv6 Direction = iota

	// ToIPv4 carries uplink traffic back towards the tun device.
	ToIPv4
)

func (d Direction) String() string {

	switch d {
	case ToIPv6:
		return "to-ipv6"
	case ToIPv4:
		return "to-ipv4"
	}
	return "unknown"
}

// Translator rewrites packets across the address-family boundary and sends
// them out the corresponding side. Implementations are injected; the loop
// only delivers.
type Translator interface {
	Translate(dir Direction, packet []byte) error
}

// discard drops everything. It keeps the daemon functional for lifecycle
// purposes when no translator is injected.
type discard struct{}

// NewDiscardTranslator returns the default do-nothing translator.
func NewDiscardTranslator() Translator {
	return discard{}
}

func (discard) Translate(dir Direction, packet []byte) error {

	zap.L().Debug("Discarding packet",
		zap.String("direction", dir.String()),
		zap.Int("length", len(packet)),
	)
	return nil
}
