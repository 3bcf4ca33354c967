package trace

import (
	glog "github.com/moates-tools/godriver/internal/log"
	"github.com/moates-tools/godriver/internal/protocol"
	"github.com/moates-tools/godriver/internal/transport"
)

// Engine drives one trace acquisition over a transport: it sends the
// configured header, reads the bracketed response, and decodes it into
// addresses.
type Engine struct {
	tr  transport.Transport
	log *glog.Logger
}

// New returns an Engine bound to tr.
func New(tr transport.Transport) *Engine {
	return &Engine{tr: tr, log: glog.NewNop()}
}

// WithLogger overrides the engine's logger.
func (e *Engine) WithLogger(l *glog.Logger) *Engine {
	e.log = l
	return e
}

// Acquire sends cfg's trace command and returns the decoded addresses.
func (e *Engine) Acquire(cfg Config) ([]int, error) {
	header := cfg.Header()
	frame := protocol.BuildCommand(header, nil)
	e.log.Frame("tx", frame)
	if _, err := e.tr.Write(frame); err != nil {
		return nil, protocol.ErrTransportIO
	}

	raw := make([]byte, cfg.ResponseLen())
	if _, err := e.tr.ReadExact(raw); err != nil {
		return nil, protocol.ErrTransportIO
	}
	e.log.Frame("rx", raw)

	payload, err := protocol.ParseTraceResponse(raw)
	if err != nil {
		return nil, err
	}

	dec := Decoder{AddressBytes: cfg.AddressBytes}
	return dec.Decode(payload)
}
