package ostrich

import (
	glog "github.com/moates-tools/godriver/internal/log"
	"github.com/moates-tools/godriver/internal/protocol"
	"github.com/moates-tools/godriver/internal/transport"
)

// Engine drives the Ostrich emulator's bank-role and block-I/O
// operations over a transport, mirroring bank state on the host per
// BankMirror's Whole-boundary coherence rule.
type Engine struct {
	tr      transport.Transport
	mirror  *BankMirror
	bulk    *BlockWindow
	log     *glog.Logger
	currentBankSize int
}

// New returns an Engine bound to tr, with a default 256-byte block
// window (the smallest size BlockWindow.Bulk treats as bulk mode).
func New(tr transport.Transport) *Engine {
	return &Engine{
		tr:     tr,
		mirror: NewBankMirror(),
		bulk:   NewBlockWindow(256),
		log:    glog.NewNop(),
	}
}

// WithLogger overrides the engine's logger.
func (e *Engine) WithLogger(l *glog.Logger) *Engine {
	e.log = l
	return e
}

func (e *Engine) sendCommand(header []byte) error {
	frame := protocol.BuildCommand(header, nil)
	e.log.Frame("tx", frame)
	if _, err := e.tr.Write(frame); err != nil {
		return protocol.ErrTransportIO
	}
	return nil
}

func (e *Engine) readByte() (byte, error) {
	buf := make([]byte, 1)
	if _, err := e.tr.ReadExact(buf); err != nil {
		return 0, protocol.ErrTransportIO
	}
	e.log.Frame("rx", buf)
	return buf[0], nil
}

// SetBank sets role to slot. If the transition crosses the Whole
// boundary, all three roles are force-set in a single sequence of three
// bank-set commands; if fewer than three come back acknowledged the
// operation aborts and reports ErrBankIncoherent without updating the
// mirror.
func (e *Engine) SetBank(role Role, slot int) error {
	if e.mirror.crossesWholeBoundary(slot) {
		roles := [3]Role{RoleEmulation, RolePersistent, RoleUpdate}
		acked := 0
		for _, r := range roles {
			if err := e.setOneBank(r, slot); err != nil {
				return protocol.ErrBankIncoherent
			}
			acked++
		}
		if acked != 3 {
			return protocol.ErrBankIncoherent
		}
		e.mirror.commitAll(slot)
		e.currentBankSize = BankSizeFor(slot)
		return nil
	}

	if err := e.setOneBank(role, slot); err != nil {
		return err
	}
	e.mirror.commit(role, slot)
	e.currentBankSize = BankSizeFor(slot)
	return nil
}

func (e *Engine) setOneBank(role Role, slot int) error {
	header := protocol.BankSetHeader(role.wire(), byte(slot))
	if err := e.sendCommand(header); err != nil {
		return err
	}
	b, err := e.readByte()
	if err != nil {
		return err
	}
	return protocol.ExpectAck([]byte{b})
}

// queryBank reads role's slot directly off the wire, bypassing the
// mirror entirely.
func (e *Engine) queryBank(role Role) (int, error) {
	header := protocol.BankGetHeader(role.wire())
	if err := e.sendCommand(header); err != nil {
		return 0, err
	}
	b, err := e.readByte()
	if err != nil {
		return 0, err
	}
	return int(b), nil
}

// GetBank queries the device for role's current slot. If the mirror
// already has a value for role and it disagrees with the device, the
// mirror is reconciled by issuing a SetBank; on the very first call for
// a role the mirror simply adopts the device's value.
func (e *Engine) GetBank(role Role) (int, error) {
	slot, err := e.queryBank(role)
	if err != nil {
		return 0, err
	}

	known, ok := e.mirror.Slot(role)
	if !ok {
		e.mirror.commit(role, slot)
		e.currentBankSize = BankSizeFor(slot)
		return slot, nil
	}
	if known != slot {
		if err := e.SetBank(role, known); err != nil {
			return 0, err
		}
		return known, nil
	}
	return slot, nil
}

// CurrentBankSize is the byte size of the view last established by
// SetBank/GetBank (BankSize or MaxImageSize).
func (e *Engine) CurrentBankSize() int {
	return e.currentBankSize
}
