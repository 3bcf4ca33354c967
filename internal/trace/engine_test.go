package trace

import (
	"testing"

	"github.com/moates-tools/godriver/internal/protocol"
	"github.com/moates-tools/godriver/internal/transport"
	"github.com/moates-tools/godriver/internal/transport/mocktransport"
)

func TestEngineAcquireDecodesResponse(t *testing.T) {
	tr := mocktransport.New()
	if err := tr.Open(transport.DefaultFraming()); err != nil {
		t.Fatalf("open: %v", err)
	}

	cfg := Config{AddressBytes: 2, AddrsPerPacket: 2, PacketsPerTrace: 1}
	dec := Decoder{AddressBytes: cfg.AddressBytes}
	payload := dec.Encode([]int{0x100, 0x200})

	resp := append([]byte{protocol.Ack}, payload...)
	resp = append(resp, protocol.Ack)
	tr.QueueReply(resp)

	e := New(tr)
	got, err := e.Acquire(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0] != 0x100 || got[1] != 0x200 {
		t.Errorf("unexpected addresses: %v", got)
	}
	if len(tr.Sent) != 1 {
		t.Fatalf("expected 1 sent frame, got %d", len(tr.Sent))
	}
}

func TestEngineAcquireRejectsMalformedResponse(t *testing.T) {
	tr := mocktransport.New()
	if err := tr.Open(transport.DefaultFraming()); err != nil {
		t.Fatalf("open: %v", err)
	}

	cfg := Config{AddressBytes: 1, AddrsPerPacket: 1, PacketsPerTrace: 1}
	tr.QueueReply([]byte{0x00, 0x01, 0x02}) // missing Ack brackets

	e := New(tr)
	if _, err := e.Acquire(cfg); err != protocol.ErrMalformedTrace {
		t.Errorf("expected ErrMalformedTrace, got %v", err)
	}
}
