// Package mocktransport is a scriptable, in-memory transport.Transport used
// by the programmer/ostrich/session/trace test suites. It never touches
// a real serial line.
package mocktransport

import (
	"bytes"
	"time"

	"github.com/moates-tools/godriver/internal/transport"
)

// Mock is a bytes.Buffer-backed fake serial line. Writes are recorded in
// Sent for assertions; reads are served from a queue of canned replies
// pushed with QueueReply. Calling QueueTimeout instead causes the next
// ReadExact to fail with transport.ErrShort, simulating a device that
// never answers.
type Mock struct {
	Opened  bool
	Framing transport.Framing
	Sent    [][]byte

	replies [][]byte
	timeout []bool
}

// New returns an unopened mock transport.
func New() *Mock {
	return &Mock{}
}

func (m *Mock) Open(framing transport.Framing) error {
	m.Opened = true
	m.Framing = framing
	return nil
}

func (m *Mock) SetFraming(framing transport.Framing) error {
	if !m.Opened {
		return transport.ErrClosed
	}
	m.Framing = framing
	return nil
}

func (m *Mock) SetReadTimeout(time.Duration) error {
	if !m.Opened {
		return transport.ErrClosed
	}
	return nil
}

func (m *Mock) Write(p []byte) (int, error) {
	if !m.Opened {
		return 0, transport.ErrClosed
	}
	cp := append([]byte(nil), p...)
	m.Sent = append(m.Sent, cp)
	return len(p), nil
}

// QueueReply appends a canned response to be served by the next
// ReadExact call(s). A single queued reply may satisfy several ReadExact
// calls if they request it in pieces.
func (m *Mock) QueueReply(p []byte) {
	m.replies = append(m.replies, append([]byte(nil), p...))
	m.timeout = append(m.timeout, false)
}

// QueueTimeout causes the next ReadExact to return transport.ErrShort,
// simulating a silent device.
func (m *Mock) QueueTimeout() {
	m.replies = append(m.replies, nil)
	m.timeout = append(m.timeout, true)
}

func (m *Mock) ReadExact(p []byte) (int, error) {
	if !m.Opened {
		return 0, transport.ErrClosed
	}
	if len(m.replies) == 0 {
		return 0, transport.ErrShort
	}
	if m.timeout[0] {
		m.replies = m.replies[1:]
		m.timeout = m.timeout[1:]
		return 0, transport.ErrShort
	}
	buf := bytes.NewBuffer(m.replies[0])
	n, _ := buf.Read(p)
	if n < len(p) {
		m.replies = m.replies[1:]
		m.timeout = m.timeout[1:]
		return n, transport.ErrShort
	}
	m.replies[0] = buf.Bytes()
	if buf.Len() == 0 {
		m.replies = m.replies[1:]
		m.timeout = m.timeout[1:]
	}
	return n, nil
}

func (m *Mock) Purge(transport.Direction) error {
	if !m.Opened {
		return transport.ErrClosed
	}
	return nil
}

func (m *Mock) Close() error {
	m.Opened = false
	return nil
}
