package session

import (
	"testing"

	"github.com/moates-tools/godriver/internal/chip"
	"github.com/moates-tools/godriver/internal/programmer"
	"github.com/moates-tools/godriver/internal/transport"
	"github.com/moates-tools/godriver/internal/transport/mocktransport"
)

func testRecord() chip.Record {
	return chip.Record{
		Kind: chip.SST27SF512, Name: "TESTCHIP", FamilyByte: '5',
		Size: 16, Banks: 1,
		Ops: chip.OpErase | chip.OpWrite | chip.OpRead | chip.OpBlankVerify,
	}
}

func TestWriteFileToChipHappyPath(t *testing.T) {
	tr := mocktransport.New()
	if err := tr.Open(transport.DefaultFraming()); err != nil {
		t.Fatalf("open: %v", err)
	}

	s := New(tr, nil)
	rec := testRecord()
	image := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}

	tr.QueueReply([]byte{0x4F}) // erase ack

	blank := make([]byte, 16)
	for i := range blank {
		blank[i] = 0xFF
	}
	tr.QueueReply(append(blank, checksum8(blank))) // blank-check read

	tr.QueueReply([]byte{0x4F}) // write ack

	tr.QueueReply(append(append([]byte{}, image...), checksum8(image))) // read-back verify

	eng := programmer.New(tr, rec)
	if err := s.WriteFileToChip(eng, image); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWriteFileToChipAbortsOnEraseFailure(t *testing.T) {
	tr := mocktransport.New()
	if err := tr.Open(transport.DefaultFraming()); err != nil {
		t.Fatalf("open: %v", err)
	}

	s := New(tr, nil)
	rec := testRecord()
	tr.QueueTimeout() // erase never acks

	eng := programmer.New(tr, rec)
	if err := s.WriteFileToChip(eng, []byte{1, 2, 3}); err == nil {
		t.Error("expected erase failure to abort the composite operation")
	}
}
