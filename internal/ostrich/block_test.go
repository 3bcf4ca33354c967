package ostrich

import "testing"

func checksum8(b []byte) byte {
	var sum byte
	for _, c := range b {
		sum += c
	}
	return sum
}

func TestWriteAndReadByteMode(t *testing.T) {
	tr := openMock(t)
	e := New(tr)
	e.SetBlockSize(64)

	data := make([]byte, 200)
	for i := range data {
		data[i] = byte(i)
	}
	tr.QueueReply([]byte{'O'})
	tr.QueueReply([]byte{'O'})
	tr.QueueReply([]byte{'O'})
	tr.QueueReply([]byte{'O'})
	if err := e.Write(data); err != nil {
		t.Fatalf("unexpected write error: %v", err)
	}
	if len(tr.Sent) != 4 {
		t.Fatalf("expected 4 write frames (64*3+8), got %d", len(tr.Sent))
	}

	for _, size := range []int{64, 64, 64, 8} {
		chunk := make([]byte, size)
		tr.QueueReply(append(chunk, checksum8(chunk)))
	}
	if _, err := e.Read(200); err != nil {
		t.Fatalf("unexpected read error: %v", err)
	}
}

func TestWriteBulkMode(t *testing.T) {
	tr := openMock(t)
	e := New(tr)
	e.SetBlockSize(512)

	data := make([]byte, 512)
	tr.QueueReply([]byte{'O'})
	if err := e.Write(data); err != nil {
		t.Fatalf("unexpected write error: %v", err)
	}
	if len(tr.Sent) != 1 {
		t.Fatalf("expected 1 bulk write frame, got %d", len(tr.Sent))
	}
	sent := tr.Sent[0]
	if sent[0] != 'Z' || sent[1] != 'W' {
		t.Errorf("expected bulk write header Z,W got %v", sent[:2])
	}
}
