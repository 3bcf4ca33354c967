// Package trace implements the Ostrich address-trace acquisition path:
// the wire-flag assembly, the packet decoder (whose address width is
// runtime-configurable), a HitMap accumulator, and buffer/map/file sinks.
package trace

import "github.com/moates-tools/godriver/internal/protocol"

// Config configures one trace request. It is consumed fresh for each
// request; nothing here is mutated by the device.
type Config struct {
	Windowed        bool
	Triggered       bool
	NonRedundant    bool
	RelativeAddr    bool
	AddressBytes    int // 1, 2, or 3
	AddrsPerPacket  int // 1..255
	PacketsPerTrace int // 1..255
	Start, End      int
	EmuBank         byte
}

// ResponseLen returns the expected total response length: (address_bytes
// * addrs_per_packet * packets_per_trace) + 2 bracketing Ack bytes.
func (c Config) ResponseLen() int {
	return c.AddressBytes*c.AddrsPerPacket*c.PacketsPerTrace + 2
}

// flags assembles the wire flag byte. A triggered trace forces
// non-redundant=true and windowed=false regardless of the caller's
// settings, per the device's own command semantics.
func (c Config) flags() protocol.TraceFlags {
	var f protocol.TraceFlags

	triggered := c.Triggered
	windowed := c.Windowed
	nonRedundant := c.NonRedundant
	if triggered {
		nonRedundant = true
		windowed = false
	}

	if windowed {
		f |= protocol.TraceWindowed
	}
	if nonRedundant {
		f |= protocol.TraceNonRedundant
	}
	if triggered {
		f |= protocol.TraceTriggerStart | protocol.TraceTriggerEnd
	}
	if c.RelativeAddr {
		f |= protocol.TraceRelativeAddr
	}
	return f.SetAddrWidth(c.AddressBytes)
}

// Header builds the trace command header for this configuration.
func (c Config) Header() []byte {
	return protocol.TraceHeader(c.flags(), byte(c.AddrsPerPacket), byte(c.PacketsPerTrace), c.EmuBank, c.Start, c.End)
}
