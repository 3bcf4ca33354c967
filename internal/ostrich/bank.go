// Package ostrich implements the Ostrich RAM-based EEPROM emulator
// engine: the three-role bank mirror with Whole-boundary coherence, the
// bulk-aware block read/write pipeline, and (in internal/trace) the
// address-trace acquisition path.
package ostrich

import (
	"github.com/moates-tools/godriver/internal/protocol"
)

// MaxImageSize is the emulator's maximum contiguous view: 512 KiB.
const MaxImageSize = 512 * 1024

// BankCount is the number of numbered 64 KiB banks the Whole view carves
// the 512 KiB address space into.
const BankCount = 8

// BankSize is the size of one numbered bank.
const BankSize = MaxImageSize / BankCount

// Whole is the special slot value that presents the full 512 KiB
// contiguously instead of one 64 KiB bank.
const Whole = BankCount

// Role identifies one of the three independent bank-role pointers the
// emulator maintains.
type Role int

const (
	RoleEmulation Role = iota
	RolePersistent
	RoleUpdate
)

func (r Role) wire() protocol.BankRole {
	switch r {
	case RoleEmulation:
		return protocol.RoleEmulation
	case RolePersistent:
		return protocol.RolePersistent
	default:
		return protocol.RoleUpdate
	}
}

// BankMirror is the host-side mirror of the device's three bank-role
// pointers, kept coherent with the device per the Whole-boundary
// invariant: if any role holds Whole, all three do.
type BankMirror struct {
	slot      [3]int // indexed by Role
	hasValue  [3]bool
}

// NewBankMirror returns a mirror with no roles yet known; the first
// GetBank call for each role simply adopts the device's reported value.
func NewBankMirror() *BankMirror {
	return &BankMirror{}
}

// Slot returns the host-mirrored slot for role, and whether it is known.
func (m *BankMirror) Slot(role Role) (int, bool) {
	return m.slot[role], m.hasValue[role]
}

// crossesWholeBoundary reports whether moving role from its current slot
// to newSlot crosses the Whole<->numbered-slot boundary, considering the
// other two roles' current slots: a crossing happens when newSlot==Whole
// and ANY role (not just this one) currently holds a non-Whole slot, or
// newSlot!=Whole and any role currently holds Whole.
func (m *BankMirror) crossesWholeBoundary(newSlot int) bool {
	anyWhole, anyNonWhole := false, false
	for r := 0; r < 3; r++ {
		if !m.hasValue[r] {
			continue
		}
		if m.slot[r] == Whole {
			anyWhole = true
		} else {
			anyNonWhole = true
		}
	}
	if newSlot == Whole && anyNonWhole {
		return true
	}
	if newSlot != Whole && anyWhole {
		return true
	}
	return false
}

// commit records a successful set of role to slot.
func (m *BankMirror) commit(role Role, slot int) {
	m.slot[role] = slot
	m.hasValue[role] = true
}

// commitAll records all three roles set to slot, for a Whole-boundary
// crossing transition.
func (m *BankMirror) commitAll(slot int) {
	for r := 0; r < 3; r++ {
		m.commit(Role(r), slot)
	}
}

// BankSizeFor returns the size in bytes of the view slot presents: the
// full MaxImageSize for Whole, or BankSize for a numbered slot.
func BankSizeFor(slot int) int {
	if slot == Whole {
		return MaxImageSize
	}
	return BankSize
}
