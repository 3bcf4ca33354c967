package ostrich

import (
	"github.com/moates-tools/godriver/internal/protocol"
)

// Read reads n bytes starting at address 0 of the currently active bank
// view, using bulk or byte framing as the engine's BlockWindow dictates.
func (e *Engine) Read(n int) ([]byte, error) {
	out := make([]byte, n)
	addr := 0
	for addr < n {
		residual := n - addr
		size := e.bulk.SetLastBlockSize(residual)
		if size == 0 {
			break
		}

		var header []byte
		if e.bulk.Bulk() {
			header = protocol.EmuBulkReadHeader(bulkCount(size), addr/BulkUnit)
		} else {
			header = protocol.EmuByteReadHeader(wireCount(size), addr)
		}
		if err := e.sendCommand(header); err != nil {
			return nil, err
		}

		raw := make([]byte, size+1)
		if _, err := e.tr.ReadExact(raw); err != nil {
			return nil, protocol.ErrTransportIO
		}
		e.log.Frame("rx", raw)
		resp, err := protocol.ParseReadResponse(raw)
		if err != nil {
			return nil, err
		}
		copy(out[addr:addr+size], resp.Data)
		addr += size
	}
	return out, nil
}

// Write writes data starting at address 0 of the currently active bank
// view, using bulk or byte framing per transfer.
func (e *Engine) Write(data []byte) error {
	addr := 0
	n := len(data)
	for addr < n {
		residual := n - addr
		size := e.bulk.SetLastBlockSize(residual)
		if size == 0 {
			break
		}

		var header []byte
		if e.bulk.Bulk() {
			header = protocol.EmuBulkWriteHeader(bulkCount(size), addr/BulkUnit)
		} else {
			header = protocol.EmuByteWriteHeader(wireCount(size), addr)
		}
		frame := protocol.BuildCommand(header, data[addr:addr+size])
		e.log.Frame("tx", frame)
		if _, err := e.tr.Write(frame); err != nil {
			return protocol.ErrTransportIO
		}
		b, err := e.readByte()
		if err != nil {
			return err
		}
		if err := protocol.ExpectAck([]byte{b}); err != nil {
			return err
		}
		addr += size
	}
	return nil
}

// SetBlockSize configures the transfer size used by Read/Write.
func (e *Engine) SetBlockSize(n int) bool {
	return e.bulk.SetBlockSize(n)
}

// wireCount converts a byte count in 1..256 to the wire's single-byte
// count field, where 0 means 256.
func wireCount(n int) byte {
	if n == 256 {
		return 0
	}
	return byte(n)
}

// bulkCount converts a bulk transfer size (a multiple of BulkUnit) to
// the wire's count-of-256-byte-units field.
func bulkCount(n int) byte {
	return byte(n / BulkUnit)
}
