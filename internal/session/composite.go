package session

import (
	"fmt"

	"github.com/moates-tools/godriver/internal/ostrich"
	"github.com/moates-tools/godriver/internal/programmer"
)

// WriteFileToChip runs the burn pipeline's erase/blank-check/write/verify
// steps against eng, which must already be bound to this session's
// transport. The pipeline's first step, probe, is not repeated here: it
// already ran once, at autobaud, inside Session.Open, and the CLIs only
// construct eng against s.Transport() after Open has returned
// successfully. Re-probing mid-composite-op would re-run the autobaud
// handshake on a link already established at the negotiated baud.
// WriteFileToChip stops at the first failing sub-step and wraps that
// step's error so errors.Is still reaches the protocol sentinel
// underneath.
func (s *Session) WriteFileToChip(eng *programmer.Engine, image []byte) error {
	return s.withOp("write-file-to-chip", func() error {
		if err := eng.Erase(); err != nil {
			return fmt.Errorf("session: erase: %w", err)
		}

		blank, err := eng.VerifyBlank()
		if err != nil {
			return fmt.Errorf("session: blank-check: %w", err)
		}
		if !blank {
			return fmt.Errorf("session: blank-check: chip not blank after erase")
		}

		if err := eng.Write(image); err != nil {
			return fmt.Errorf("session: write: %w", err)
		}

		if err := eng.ReadBackVerify(image); err != nil {
			return fmt.Errorf("session: read-back verify: %w", err)
		}
		return nil
	})
}

// SwitchBank sets role to slot on eng under the session's exclusivity
// gate, so a bank switch never interleaves with an in-flight block
// transfer on the same transport.
func (s *Session) SwitchBank(eng *ostrich.Engine, role ostrich.Role, slot int) error {
	return s.withOp("switch-bank", func() error {
		if err := eng.SetBank(role, slot); err != nil {
			return fmt.Errorf("session: switch bank: %w", err)
		}
		return nil
	})
}
