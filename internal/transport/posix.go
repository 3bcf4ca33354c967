//go:build linux || darwin

package transport

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// Posix is a termios-backed Transport for Linux and macOS, using
// golang.org/x/sys/unix directly rather than cgo. Only the read-interval
// timeout is configured via VTIME/VMIN, matching the original driver's
// observation that it is "really the only one that's set for unix."
type Posix struct {
	path string
	f    *os.File
	fd   int
}

// NewPosix returns a Posix transport bound to the given device path
// (e.g. "/dev/ttyUSB0"). The device is not opened until Open is called.
func NewPosix(path string) *Posix {
	return &Posix{path: path}
}

func (p *Posix) Open(framing Framing) error {
	f, err := os.OpenFile(p.path, os.O_RDWR|unix.O_NOCTTY, 0)
	if err != nil {
		return fmt.Errorf("transport: open %s: %w", p.path, err)
	}
	p.f = f
	p.fd = int(f.Fd())
	if err := p.SetFraming(framing); err != nil {
		f.Close()
		p.f = nil
		return err
	}
	return nil
}

func (p *Posix) SetFraming(framing Framing) error {
	if p.f == nil {
		return ErrClosed
	}
	t, err := unix.IoctlGetTermios(p.fd, ioctlGetTermios)
	if err != nil {
		return fmt.Errorf("transport: get termios: %w", err)
	}

	rate, ok := baudConstants[framing.Baud]
	if !ok {
		return fmt.Errorf("transport: unsupported baud rate %d", framing.Baud)
	}

	t.Cflag &^= unix.CSIZE | unix.PARENB | unix.PARODD | unix.CSTOPB
	t.Cflag |= unix.CREAD | unix.CLOCAL
	switch framing.DataBits {
	case 8:
		t.Cflag |= unix.CS8
	case 7:
		t.Cflag |= unix.CS7
	default:
		return fmt.Errorf("transport: unsupported data bits %d", framing.DataBits)
	}
	switch framing.Parity {
	case ParityEven:
		t.Cflag |= unix.PARENB
	case ParityOdd:
		t.Cflag |= unix.PARENB | unix.PARODD
	}
	if framing.StopBits == 2 {
		t.Cflag |= unix.CSTOPB
	}

	t.Iflag = 0
	t.Oflag = 0
	t.Lflag = 0
	setTermiosSpeed(t, rate)

	if err := unix.IoctlSetTermios(p.fd, ioctlSetTermios, t); err != nil {
		return fmt.Errorf("transport: set termios: %w", err)
	}
	return nil
}

func (p *Posix) SetReadTimeout(d time.Duration) error {
	if p.f == nil {
		return ErrClosed
	}
	t, err := unix.IoctlGetTermios(p.fd, ioctlGetTermios)
	if err != nil {
		return fmt.Errorf("transport: get termios: %w", err)
	}
	// VTIME is in tenths of a second, per the wire protocol's own units.
	tenths := d / (100 * time.Millisecond)
	if tenths > 255 {
		tenths = 255
	}
	t.Cc[unix.VTIME] = uint8(tenths)
	t.Cc[unix.VMIN] = 0
	return unix.IoctlSetTermios(p.fd, ioctlSetTermios, t)
}

func (p *Posix) Write(buf []byte) (int, error) {
	if p.f == nil {
		return 0, ErrClosed
	}
	n, err := p.f.Write(buf)
	if err != nil {
		return n, fmt.Errorf("transport: write: %w", err)
	}
	if n != len(buf) {
		return n, ErrShort
	}
	return n, nil
}

func (p *Posix) ReadExact(buf []byte) (int, error) {
	if p.f == nil {
		return 0, ErrClosed
	}
	total := 0
	for total < len(buf) {
		n, err := p.f.Read(buf[total:])
		total += n
		if err != nil {
			return total, fmt.Errorf("transport: read: %w", err)
		}
		if n == 0 {
			return total, ErrShort
		}
	}
	return total, nil
}

func (p *Posix) Purge(dir Direction) error {
	if p.f == nil {
		return ErrClosed
	}
	var queue int
	switch dir {
	case PurgeTX:
		queue = unix.TCOFLUSH
	case PurgeRX:
		queue = unix.TCIFLUSH
	}
	return unix.IoctlSetInt(p.fd, unix.TCFLSH, queue)
}

func (p *Posix) Close() error {
	if p.f == nil {
		return nil
	}
	err := p.f.Close()
	p.f = nil
	return err
}
