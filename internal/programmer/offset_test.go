package programmer

import (
	"testing"

	"github.com/moates-tools/godriver/internal/protocol"
)

func TestComputeOffset(t *testing.T) {
	cases := []struct {
		imageLen, chipSize, want int
	}{
		{0, 32768, 32768},
		{1, 32768, 32767},
		{16384, 32768, 16384},
		{32768, 32768, 0},
	}
	for _, c := range cases {
		got, err := ComputeOffset(c.imageLen, c.chipSize)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != c.want {
			t.Errorf("ComputeOffset(%d,%d) = %d, want %d", c.imageLen, c.chipSize, got, c.want)
		}
	}
}

func TestComputeOffsetOversized(t *testing.T) {
	_, err := ComputeOffset(32769, 32768)
	if err != protocol.ErrSizeExceeded {
		t.Fatalf("expected ErrSizeExceeded, got %v", err)
	}
}
