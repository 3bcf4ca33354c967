package trace

import (
	"math/rand"
	"testing"
)

func TestDecodeEncodeBijection(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, width := range []int{1, 2, 3} {
		dec := Decoder{AddressBytes: width}
		max := 1
		for i := 0; i < width; i++ {
			max *= 256
		}
		if max > MaxAddress {
			max = MaxAddress
		}
		addrs := make([]int, 16)
		for i := range addrs {
			addrs[i] = rng.Intn(max)
		}
		encoded := dec.Encode(addrs)
		got, err := dec.Decode(encoded)
		if err != nil {
			t.Fatalf("width %d: unexpected error: %v", width, err)
		}
		if len(got) != len(addrs) {
			t.Fatalf("width %d: got %d addresses, want %d", width, len(got), len(addrs))
		}
		for i := range addrs {
			if got[i] != addrs[i] {
				t.Errorf("width %d: addr[%d] = %d, want %d", width, i, got[i], addrs[i])
			}
		}
	}
}

func TestDecodeRejectsOutOfRangeAddress(t *testing.T) {
	dec := Decoder{AddressBytes: 3}
	encoded := dec.Encode([]int{MaxAddress})
	if _, err := dec.Decode(encoded); err == nil {
		t.Error("expected error decoding an address >= MaxAddress")
	}
}

func TestDecodeRejectsMisalignedPayload(t *testing.T) {
	dec := Decoder{AddressBytes: 2}
	if _, err := dec.Decode([]byte{1, 2, 3}); err == nil {
		t.Error("expected error decoding a payload not a multiple of AddressBytes")
	}
}

// TestDecodeScenarioS4 covers address_bytes=2, 4 addrs/packet, 2
// packets/trace: the hit map's multiples of 0x10 from 0x10 to 0x80
// should all register.
func TestDecodeScenarioS4(t *testing.T) {
	cfg := Config{AddressBytes: 2, AddrsPerPacket: 4, PacketsPerTrace: 2}
	addrs := []int{0x10, 0x20, 0x30, 0x40, 0x50, 0x60, 0x70, 0x80}

	dec := Decoder{AddressBytes: cfg.AddressBytes}
	payload := dec.Encode(addrs)
	if len(payload)+2 != cfg.ResponseLen() {
		t.Fatalf("payload+brackets = %d, want %d", len(payload)+2, cfg.ResponseLen())
	}

	got, err := dec.Decode(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	hm := NewHitMap()
	ToMap(got, hm)
	for addr := 0x10; addr <= 0x80; addr += 0x10 {
		if !hm.Hit(addr) {
			t.Errorf("expected hit at 0x%x", addr)
		}
	}
}
