//go:build darwin

package transport

import "golang.org/x/sys/unix"

const (
	ioctlGetTermios = unix.TIOCGETA
	ioctlSetTermios = unix.TIOCSETA
)

var baudConstants = map[int]uint32{
	HighBaud: unix.B921600,
	LowBaud:  unix.B115200,
}

func setTermiosSpeed(t *unix.Termios, rate uint32) {
	t.Ispeed = uint64(rate)
	t.Ospeed = uint64(rate)
}
