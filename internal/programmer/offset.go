package programmer

import "github.com/moates-tools/godriver/internal/protocol"

// ComputeOffset returns the chip address at which an image should be
// placed so that it sits flush to the top of the chip: offset =
// chipSize - len(image). An oversized image is rejected uniformly with
// ErrSizeExceeded rather than being silently clamped (resolving the
// signed/unsigned ambiguity in the original implementation).
func ComputeOffset(imageLen, chipSize int) (int, error) {
	if imageLen > chipSize {
		return 0, protocol.ErrSizeExceeded
	}
	return chipSize - imageLen, nil
}
