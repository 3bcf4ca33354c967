package trace

import "github.com/moates-tools/godriver/internal/protocol"

// Decoder walks a trace packet payload reconstructing addresses
// MSB-first at a runtime-configured width.
type Decoder struct {
	AddressBytes int
}

// Decode splits payload into n := len(payload)/AddressBytes integers,
// each assembled MSB-first. An address >= MaxAddress is reported as
// ErrMalformedTrace, matching the packet's own framing error.
func (d Decoder) Decode(payload []byte) ([]int, error) {
	if d.AddressBytes <= 0 || len(payload)%d.AddressBytes != 0 {
		return nil, protocol.ErrMalformedTrace
	}
	n := len(payload) / d.AddressBytes
	out := make([]int, 0, n)
	for i := 0; i < n; i++ {
		chunk := payload[i*d.AddressBytes : (i+1)*d.AddressBytes]
		addr := 0
		for _, b := range chunk {
			addr = addr<<8 | int(b)
		}
		if addr >= MaxAddress {
			return nil, protocol.ErrMalformedTrace
		}
		out = append(out, addr)
	}
	return out, nil
}

// Encode is the Decoder's inverse, used by the property-test suite to
// assert a decode/encode bijection: it packs n addresses MSB-first at
// the configured width.
func (d Decoder) Encode(addrs []int) []byte {
	out := make([]byte, 0, len(addrs)*d.AddressBytes)
	for _, a := range addrs {
		buf := make([]byte, d.AddressBytes)
		v := a
		for i := d.AddressBytes - 1; i >= 0; i-- {
			buf[i] = byte(v & 0xFF)
			v >>= 8
		}
		out = append(out, buf...)
	}
	return out
}
