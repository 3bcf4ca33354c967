// Package programmer implements the Burn1/2 chip-family-aware
// erase/write/read/verify pipeline, with bank handling for multi-bank
// flash parts and automatic flush-top offset placement for under-sized
// images.
package programmer

import (
	"time"

	"github.com/moates-tools/godriver/internal/chip"
	glog "github.com/moates-tools/godriver/internal/log"
	"github.com/moates-tools/godriver/internal/protocol"
	"github.com/moates-tools/godriver/internal/transport"
)

// defaultBlockSize is the per-transfer byte count used for write/read
// pipelines; it equals the 256-byte single-command limit common to all
// Burn1/2 chip families.
const defaultBlockSize = 256

// eraseSettle is the minimum wait the host observes after issuing an
// erase before reading the acknowledgement, per the device's ~500ms/bank
// settling time.
const eraseSettle = 1 * time.Second

// ProgressEvent reports block-transfer progress for a long-running
// operation, consumed by a CLI progress display. Engines never import
// the UI layer; they only call an optional callback.
type ProgressEvent struct {
	Op    string
	Done  int
	Total int
}

// Engine drives one chip family's erase/write/read/verify pipeline over
// a transport. It holds no host-visible mutable state beyond the block
// size and optional progress callback; the image buffer is always an
// explicit argument, never an instance-level cursor.
type Engine struct {
	tr        transport.Transport
	rec       chip.Record
	blockSize int
	sleep     func(time.Duration)
	onProgress func(ProgressEvent)
	log       *glog.Logger
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithBlockSize overrides the default 256-byte transfer size.
func WithBlockSize(n int) Option {
	return func(e *Engine) { e.blockSize = n }
}

// WithProgress registers a progress callback.
func WithProgress(fn func(ProgressEvent)) Option {
	return func(e *Engine) { e.onProgress = fn }
}

// WithLogger overrides the engine's logger (defaults to a no-op logger).
func WithLogger(l *glog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// withSleeper overrides the erase-settle wait, for tests.
func withSleeper(fn func(time.Duration)) Option {
	return func(e *Engine) { e.sleep = fn }
}

// New returns an Engine bound to tr for the given chip family.
func New(tr transport.Transport, rec chip.Record, opts ...Option) *Engine {
	e := &Engine{
		tr:        tr,
		rec:       rec,
		blockSize: defaultBlockSize,
		sleep:     time.Sleep,
		log:       glog.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) progress(op string, done, total int) {
	if e.onProgress != nil {
		e.onProgress(ProgressEvent{Op: op, Done: done, Total: total})
	}
}

func (e *Engine) sendCommand(header []byte) error {
	frame := protocol.BuildCommand(header, nil)
	e.log.Frame("tx", frame)
	_, err := e.tr.Write(frame)
	if err != nil {
		return protocol.ErrTransportIO
	}
	return nil
}

func (e *Engine) readAck() error {
	buf := make([]byte, 1)
	if _, err := e.tr.ReadExact(buf); err != nil {
		return protocol.ErrTransportIO
	}
	e.log.Frame("rx", buf)
	return protocol.ExpectAck(buf)
}

// Erase runs the chip family's erase pipeline: one bank-erase frame per
// bank for bank-capable families, or a single whole-chip erase for
// SST27SF512. Each erase frame is followed by the settle wait before the
// acknowledgement is read.
func (e *Engine) Erase() error {
	if !e.rec.Supports(chip.OpErase) {
		return protocol.ErrUnsupportedOp
	}
	e.log.Op("erase", glog.Chip(e.rec.Name))

	if e.rec.Supports(chip.OpBankErase) {
		for bank := 0; bank < e.rec.Banks; bank++ {
			if err := e.eraseOneBank(byte(bank)); err != nil {
				return err
			}
			e.progress("erase", bank+1, e.rec.Banks)
		}
		return nil
	}

	return e.eraseOneBank(0)
}

func (e *Engine) eraseOneBank(bank byte) error {
	header := protocol.ProgrammerEraseHeader(e.rec.FamilyByte, e.rec.Supports(chip.OpBankErase), bank)
	if err := e.sendCommand(header); err != nil {
		return err
	}
	e.sleep(eraseSettle)
	return e.readAck()
}

// Read reads the entire chip into a freshly allocated buffer of
// rec.Size bytes, in blockSize-sized chunks.
func (e *Engine) Read() ([]byte, error) {
	if !e.rec.Supports(chip.OpRead) {
		return nil, protocol.ErrUnsupportedOp
	}
	buf := make([]byte, e.rec.Size)
	if err := e.readInto(buf, 0); err != nil {
		return nil, err
	}
	return buf, nil
}

// bankSplit resolves a flat chip-wide address to the (bank, intra-bank
// address) pair the wire protocol expects. Non-banked families always
// address bank 0 with the flat address; banked families address the
// bank the offset falls in, with the address reset to that bank's local
// origin, per the original's "bank = i/(maxBinSize/banks)" split.
func (e *Engine) bankSplit(addr int) (banked bool, bank byte, local int) {
	if !e.rec.Supports(chip.OpBankErase) {
		return false, 0, addr
	}
	bankSize := e.rec.BankSize()
	return true, byte(addr / bankSize), addr % bankSize
}

// readInto fills buf (whose length is the residual byte count to read)
// starting at chip address baseAddr, advancing in blockSize chunks. The
// cursor is this function's local loop variable, never instance state.
func (e *Engine) readInto(buf []byte, baseAddr int) error {
	total := len(buf)
	for i := 0; i < total; i += e.blockSize {
		count := e.blockSize
		if remaining := total - i; remaining < count {
			count = remaining
		}
		addr := baseAddr + i
		banked, bank, local := e.bankSplit(addr)
		header := protocol.ProgrammerReadHeader(e.rec.FamilyByte, wireCount(count), banked, bank, local)
		if err := e.sendCommand(header); err != nil {
			return err
		}

		raw := make([]byte, count+1)
		if _, err := e.tr.ReadExact(raw); err != nil {
			return protocol.ErrTransportIO
		}
		e.log.Frame("rx", raw)
		resp, err := protocol.ParseReadResponse(raw)
		if err != nil {
			return err
		}
		copy(buf[i:i+count], resp.Data)
		e.progress("read", i+count, total)
	}
	return nil
}

// Write writes image to the chip, flush to the top as computed by
// ComputeOffset, in blockSize chunks. A non-acknowledgement from the
// device aborts the write immediately (writes are never retried; the
// caller must re-erase and retry from scratch).
func (e *Engine) Write(image []byte) error {
	if !e.rec.Supports(chip.OpWrite) {
		return protocol.ErrUnsupportedOp
	}
	offset, err := ComputeOffset(len(image), e.rec.Size)
	if err != nil {
		return err
	}
	e.log.Op("write", glog.Chip(e.rec.Name), glog.Addr(offset), glog.Size(len(image)))

	total := len(image)
	for i := 0; i < total; i += e.blockSize {
		count := e.blockSize
		if remaining := total - i; remaining < count {
			count = remaining
		}
		addr := offset + i
		banked, bank, local := e.bankSplit(addr)
		header := protocol.ProgrammerWriteHeader(e.rec.FamilyByte, wireCount(count), banked, bank, local)
		frame := protocol.BuildCommand(header, image[i:i+count])
		e.log.Frame("tx", frame)
		if _, err := e.tr.Write(frame); err != nil {
			return protocol.ErrTransportIO
		}
		if err := e.readAck(); err != nil {
			return err
		}
		e.progress("write", i+count, total)
	}
	return nil
}

// ReadBackVerify reads the chip back and compares the trailing
// len(image) bytes against image, per the flush-top offset convention.
func (e *Engine) ReadBackVerify(image []byte) error {
	offset, err := ComputeOffset(len(image), e.rec.Size)
	if err != nil {
		return err
	}
	got := make([]byte, len(image))
	if err := e.readInto(got, offset); err != nil {
		return err
	}
	for i := range image {
		if got[i] != image[i] {
			return protocol.ErrDeviceReject
		}
	}
	return nil
}

// VerifyBlank reads the whole chip and reports whether every byte is
// 0xFF.
func (e *Engine) VerifyBlank() (bool, error) {
	if !e.rec.Supports(chip.OpBlankVerify) {
		return false, protocol.ErrUnsupportedOp
	}
	data, err := e.Read()
	if err != nil {
		return false, err
	}
	for _, b := range data {
		if b != 0xFF {
			return false, nil
		}
	}
	return true, nil
}

// wireCount converts a byte count in 1..256 to the wire's single-byte
// count field, where 0 means 256.
func wireCount(n int) byte {
	if n == 256 {
		return 0
	}
	return byte(n)
}
