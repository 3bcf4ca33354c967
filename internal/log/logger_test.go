package log

import "testing"

func TestHexInt(t *testing.T) {
	cases := map[int]string{0: "0x0", 255: "0xff", -16: "-0x10"}
	for in, want := range cases {
		if got := hexInt(in); got != want {
			t.Errorf("hexInt(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestNewNopUsable(t *testing.T) {
	l := NewNop()
	l.Info("no-op logger should not panic")
	l.WithSession("abc").Info("still fine")
}
