package trace

import (
	"bytes"
	"strings"
	"testing"
)

func TestToBufferStopsAtBufferEnd(t *testing.T) {
	addrs := []int{1, 2, 3, 4, 5}
	buf := make([]int, 3)
	n := ToBuffer(addrs, buf)
	if n != 3 {
		t.Fatalf("n = %d, want 3", n)
	}
	if buf[0] != 1 || buf[1] != 2 || buf[2] != 3 {
		t.Errorf("unexpected buffer contents: %v", buf)
	}
}

func TestToFileWritesDecimalLines(t *testing.T) {
	var out bytes.Buffer
	if err := ToFile([]int{10, 20, 30}, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 || lines[0] != "10" || lines[2] != "30" {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestSinksAreNotMutuallyExclusive(t *testing.T) {
	addrs := []int{1, 2, 3}
	buf := make([]int, 3)
	hm := NewHitMap()
	var file bytes.Buffer

	ToBuffer(addrs, buf)
	ToMap(addrs, hm)
	if err := ToFile(addrs, &file); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if buf[1] != 2 || !hm.Hit(2) || !strings.Contains(file.String(), "2") {
		t.Error("expected all three sinks to observe the same decoded addresses")
	}
}
