// Package session owns one transport exclusively for the lifetime of a
// CLI invocation: autobaud/identity probing, a weight-1 exclusivity
// gate, and the composite operations the CLIs call directly.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	glog "github.com/moates-tools/godriver/internal/log"
	"github.com/moates-tools/godriver/internal/protocol"
	"github.com/moates-tools/godriver/internal/transport"
)

// ErrSessionBusy is returned when an operation is attempted while
// another is already in flight on the same Session. Exclusivity is
// enforced with TryAcquire, never a blocking Acquire: the protocol is
// synchronous and non-queued by design, so a busy session fails fast
// rather than queuing the caller.
var ErrSessionBusy = errors.New("session: operation already in flight")

// DeviceIdentity is filled in by probe() and cleared when Close releases
// the transport. A transport I/O failure during an operation does not
// clear it.
type DeviceIdentity struct {
	HardwareVersion     byte
	FirmwareVersion     byte
	HardwareVersionChar byte

	IsEmulator   bool
	VendorID     byte
	SerialNumber [8]byte
}

// Session owns one transport.Transport exclusively, tags every
// operation with a correlation UUID, and exposes the composite
// operations used by the CLI layer.
type Session struct {
	tr   transport.Transport
	sem  *semaphore.Weighted
	id   uuid.UUID
	log  *glog.Logger
	ident DeviceIdentity
}

// New returns a Session bound to tr, with a fresh correlation UUID.
func New(tr transport.Transport, log *glog.Logger) *Session {
	if log == nil {
		log = glog.NewNop()
	}
	id := uuid.New()
	return &Session{
		tr:  tr,
		sem: semaphore.NewWeighted(1),
		id:  id,
		log: log.WithSession(id.String()),
	}
}

// ID returns the session's correlation UUID.
func (s *Session) ID() uuid.UUID { return s.id }

// Identity returns the device identity filled in by the most recent
// successful Open.
func (s *Session) Identity() DeviceIdentity { return s.ident }

func (s *Session) acquire() error {
	if !s.sem.TryAcquire(1) {
		return ErrSessionBusy
	}
	return nil
}

func (s *Session) release() {
	s.sem.Release(1)
}

// Open acquires the transport, opens it at the device's preferred
// framing, and runs the identity probe. isEmulator selects the
// additional serial/vendor probe the Ostrich family answers.
func (s *Session) Open(ctx context.Context, isEmulator bool) error {
	if err := s.acquire(); err != nil {
		return err
	}
	defer s.release()

	if err := s.tr.Open(transport.DefaultFraming()); err != nil {
		return fmt.Errorf("session: open transport: %w", protocol.ErrTransportIO)
	}

	ident, err := probe(s.tr, s.log, isEmulator)
	if err != nil {
		return err
	}
	s.ident = *ident
	s.log = s.log.WithDevice(ident.HardwareVersion, ident.FirmwareVersion, ident.HardwareVersionChar)
	return nil
}

// Close releases the underlying transport. Safe to call more than
// once.
func (s *Session) Close() error {
	s.ident = DeviceIdentity{}
	return s.tr.Close()
}

// Logger returns the session's child logger, carrying the correlation
// id and (once probed) device identity fields.
func (s *Session) Logger() *glog.Logger { return s.log }

// Transport returns the session's underlying transport, for
// constructing an engine bound to this session.
func (s *Session) Transport() transport.Transport { return s.tr }

// withOp wraps fn with the exclusivity gate, used by every composite
// operation below.
func (s *Session) withOp(name string, fn func() error) error {
	if err := s.acquire(); err != nil {
		return err
	}
	defer s.release()
	s.log.Op(name)
	return fn()
}
