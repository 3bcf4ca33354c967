package ostrich

// BulkUnit is the fixed 256-byte granularity bulk transfers must align
// to. It is also the smallest size Bulk treats as bulk mode, so byte-mode
// transfers are at most 255 bytes.
const BulkUnit = 256

// MaxBulkBlockSize is the largest legal bulk transfer size.
const MaxBulkBlockSize = BulkUnit * 256

// BlockWindow derives the active transfer size and the size of a
// possibly-short tail transfer from the residual byte count of the
// current operation. It holds no image-buffer cursor: every block call
// takes its offset as an explicit argument.
type BlockWindow struct {
	blockSize int // requested transfer size
	lastSize  int // size of the next transfer, derived from residual
}

// NewBlockWindow returns a BlockWindow requesting the given transfer
// size, clamped/validated by SetBlockSize.
func NewBlockWindow(size int) *BlockWindow {
	w := &BlockWindow{}
	w.SetBlockSize(size)
	return w
}

// BlockSize returns the currently configured transfer size.
func (w *BlockWindow) BlockSize() int { return w.blockSize }

// LastBlockSize returns the size most recently derived by
// SetLastBlockSize.
func (w *BlockWindow) LastBlockSize() int { return w.lastSize }

// Bulk reports whether the configured transfer size uses bulk (Z-
// prefixed) framing: any size >= BulkUnit.
func (w *BlockWindow) Bulk() bool { return w.blockSize >= BulkUnit }

// SetBlockSize sets the requested transfer size. Values in 1..256 are
// taken as-is; 1..255 is byte mode and 256 is already bulk mode (see
// Bulk). Values above 256 up to MaxBulkBlockSize are bulk mode
// and must be a multiple of BulkUnit; a non-aligned bulk size is rounded
// down to the nearest aligned value and SetBlockSize reports false (a
// soft failure — the window still has a valid, if smaller, size).
func (w *BlockWindow) SetBlockSize(n int) bool {
	switch {
	case n > BulkUnit && n <= MaxBulkBlockSize:
		if n%BulkUnit == 0 {
			w.blockSize = n
			return true
		}
		w.blockSize = n - (n % BulkUnit)
		return false
	case n > 0 && n <= BulkUnit:
		w.blockSize = n
		return true
	default:
		return false
	}
}

// SetLastBlockSize derives the size of the next transfer from residual,
// the number of bytes left to transfer in the active bank/chip:
//
//   - residual >= BulkUnit and not 256-aligned: residual % BulkUnit, to
//     re-align subsequent transfers to a bulk boundary.
//   - residual >= the configured block size: the configured block size
//     (no change).
//   - residual > BulkUnit: the largest bulk-aligned multiple <= residual.
//   - otherwise: residual itself.
func (w *BlockWindow) SetLastBlockSize(residual int) int {
	switch {
	case residual >= BulkUnit && residual%BulkUnit != 0:
		w.lastSize = residual % BulkUnit
	case residual >= w.blockSize:
		w.lastSize = w.blockSize
	case residual > BulkUnit:
		w.lastSize = residual - (residual % BulkUnit)
	default:
		w.lastSize = residual
	}
	return w.lastSize
}
