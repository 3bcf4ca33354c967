package protocol

import "testing"

func TestBuildCommandChecksumCoversHeaderOnly(t *testing.T) {
	header := VersionHeader()
	frame := BuildCommand(header, nil)
	if len(frame) != len(header)+1 {
		t.Fatalf("expected %d bytes, got %d", len(header)+1, len(frame))
	}
	want := checksum8(header)
	if frame[len(frame)-1] != want {
		t.Errorf("checksum = %#x, want %#x", frame[len(frame)-1], want)
	}
}

func TestBuildCommandChecksumCoversHeaderAndPayload(t *testing.T) {
	header := ProgrammerWriteHeader('5', 4, true, 1, 0x1000)
	payload := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	frame := BuildCommand(header, payload)

	want := checksum8(append(append([]byte{}, header...), payload...))
	if frame[len(frame)-1] != want {
		t.Errorf("checksum = %#x, want %#x", frame[len(frame)-1], want)
	}
	if len(frame) != len(header)+len(payload)+1 {
		t.Fatalf("unexpected frame length %d", len(frame))
	}
}

func TestSplitAddr16(t *testing.T) {
	cases := []struct {
		addr   int
		hi, lo byte
	}{
		{0x0000, 0x00, 0x00},
		{0x00FF, 0x00, 0xFF},
		{0x0100, 0x01, 0x00},
		{0xFFFF, 0xFF, 0xFF},
	}
	for _, c := range cases {
		hi, lo := SplitAddr16(c.addr)
		if hi != c.hi || lo != c.lo {
			t.Errorf("SplitAddr16(%#x) = (%#x,%#x), want (%#x,%#x)", c.addr, hi, lo, c.hi, c.lo)
		}
	}
}

func TestParseReadResponseGoodChecksum(t *testing.T) {
	data := []byte{1, 2, 3, 4}
	raw := append(append([]byte{}, data...), checksum8(data))
	resp, err := ParseReadResponse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Data) != string(data) {
		t.Errorf("data mismatch: got %v want %v", resp.Data, data)
	}
}

func TestParseReadResponseBadChecksum(t *testing.T) {
	data := []byte{1, 2, 3, 4}
	raw := append(append([]byte{}, data...), checksum8(data)+1)
	if _, err := ParseReadResponse(raw); err != ErrChecksumMismatch {
		t.Fatalf("expected ErrChecksumMismatch, got %v", err)
	}
}

func TestExpectAck(t *testing.T) {
	if err := ExpectAck([]byte{'O'}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ExpectAck([]byte{'X'}); err != ErrDeviceReject {
		t.Errorf("expected ErrDeviceReject, got %v", err)
	}
}

func TestParseTraceResponse(t *testing.T) {
	payload := []byte{1, 2, 3, 4}
	raw := append(append([]byte{Ack}, payload...), Ack)
	got, err := ParseTraceResponse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("payload mismatch: got %v want %v", got, payload)
	}

	bad := append(append([]byte{'X'}, payload...), Ack)
	if _, err := ParseTraceResponse(bad); err != ErrMalformedTrace {
		t.Errorf("expected ErrMalformedTrace, got %v", err)
	}
}
