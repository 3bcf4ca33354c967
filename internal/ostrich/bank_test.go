package ostrich

import (
	"testing"

	"github.com/moates-tools/godriver/internal/transport"
	"github.com/moates-tools/godriver/internal/transport/mocktransport"
)

func openMock(t *testing.T) *mocktransport.Mock {
	t.Helper()
	tr := mocktransport.New()
	if err := tr.Open(transport.DefaultFraming()); err != nil {
		t.Fatalf("open mock: %v", err)
	}
	return tr
}

// TestSetBankWholeCrossing covers scenario S3: mirror starts at slot 0
// for all roles, caller sets Update = Whole, and all three roles should
// force to Whole via three bank-set frames.
func TestSetBankWholeCrossing(t *testing.T) {
	tr := openMock(t)
	e := New(tr)
	e.mirror.commit(RoleEmulation, 0)
	e.mirror.commit(RolePersistent, 0)
	e.mirror.commit(RoleUpdate, 0)

	tr.QueueReply([]byte{'O'})
	tr.QueueReply([]byte{'O'})
	tr.QueueReply([]byte{'O'})

	if err := e.SetBank(RoleUpdate, Whole); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tr.Sent) != 3 {
		t.Fatalf("expected 3 bank-set frames, got %d", len(tr.Sent))
	}
	for _, r := range []Role{RoleEmulation, RolePersistent, RoleUpdate} {
		slot, ok := e.mirror.Slot(r)
		if !ok || slot != Whole {
			t.Errorf("role %v: slot=%d ok=%v, want Whole", r, slot, ok)
		}
	}
	if e.CurrentBankSize() != MaxImageSize {
		t.Errorf("CurrentBankSize = %d, want %d", e.CurrentBankSize(), MaxImageSize)
	}
}

func TestSetBankWholeCrossingIncoherentOnPartialAck(t *testing.T) {
	tr := openMock(t)
	e := New(tr)
	e.mirror.commit(RoleEmulation, 0)
	e.mirror.commit(RolePersistent, 0)
	e.mirror.commit(RoleUpdate, 0)

	tr.QueueReply([]byte{'O'})
	tr.QueueReply([]byte{'X'}) // device rejects the second set

	err := e.SetBank(RoleUpdate, Whole)
	if err == nil {
		t.Fatal("expected an error")
	}
	if slot, ok := e.mirror.Slot(RolePersistent); ok && slot == Whole {
		t.Error("mirror should not have committed Whole on partial failure")
	}
}

func TestSetBankNonCrossingUpdatesOneRole(t *testing.T) {
	tr := openMock(t)
	e := New(tr)
	tr.QueueReply([]byte{'O'})

	if err := e.SetBank(RoleUpdate, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tr.Sent) != 1 {
		t.Fatalf("expected 1 frame for a non-crossing set, got %d", len(tr.Sent))
	}
	if slot, ok := e.mirror.Slot(RoleUpdate); !ok || slot != 3 {
		t.Errorf("mirror slot = %d (ok=%v), want 3", slot, ok)
	}
}

func TestGetBankAdoptsFirstValue(t *testing.T) {
	tr := openMock(t)
	e := New(tr)
	tr.QueueReply([]byte{5})

	slot, err := e.GetBank(RoleEmulation)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if slot != 5 {
		t.Errorf("slot = %d, want 5", slot)
	}
	if mirrored, ok := e.mirror.Slot(RoleEmulation); !ok || mirrored != 5 {
		t.Errorf("mirror not adopted: slot=%d ok=%v", mirrored, ok)
	}
}

func TestGetBankReconcilesDisagreement(t *testing.T) {
	tr := openMock(t)
	e := New(tr)
	e.mirror.commit(RoleEmulation, 2)

	tr.QueueReply([]byte{7})  // device reports 7, disagreeing with mirror's 2
	tr.QueueReply([]byte{'O'}) // reconciling set acknowledged

	slot, err := e.GetBank(RoleEmulation)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if slot != 2 {
		t.Errorf("GetBank should return the reconciled mirror value 2, got %d", slot)
	}
}
