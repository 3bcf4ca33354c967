//go:build linux

package transport

import "golang.org/x/sys/unix"

const (
	ioctlGetTermios = unix.TCGETS
	ioctlSetTermios = unix.TCSETS
)

var baudConstants = map[int]uint32{
	HighBaud: unix.B921600,
	LowBaud:  unix.B115200,
}

func setTermiosSpeed(t *unix.Termios, rate uint32) {
	t.Ispeed = rate
	t.Ospeed = rate
	t.Cflag &^= unix.CBAUD
	t.Cflag |= rate & unix.CBAUD
}
