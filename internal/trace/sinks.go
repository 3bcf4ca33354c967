package trace

import (
	"bufio"
	"fmt"
	"io"
)

// ToBuffer copies decoded addresses into buf, stopping at whichever of
// len(addrs) or len(buf) is shorter, and returns the number written.
// Buffer, map, and file sinks are not mutually exclusive: a caller may
// feed the same decoded slice to all three.
func ToBuffer(addrs []int, buf []int) int {
	n := copy(buf, addrs)
	return n
}

// ToMap marks every decoded address as hit.
func ToMap(addrs []int, m *HitMap) {
	for _, a := range addrs {
		m.Set(a)
	}
}

// ToFile appends one decimal address per line to w.
func ToFile(addrs []int, w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, a := range addrs {
		if _, err := fmt.Fprintln(bw, a); err != nil {
			return err
		}
	}
	return bw.Flush()
}
