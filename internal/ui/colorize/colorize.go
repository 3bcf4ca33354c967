// Package colorize styles the CLI's textual output (addresses, hex
// dumps, status lines) with lipgloss, honoring NO_COLOR.
package colorize

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	addressStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFC800"))
	hexStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#B4B4B4"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5050")).Bold(true)
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#50FF90"))
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#56A0D6")).Bold(true)
	borderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#505050"))
)

// IsDisabled reports whether color output is suppressed via NO_COLOR.
func IsDisabled() bool {
	return os.Getenv("NO_COLOR") != ""
}

func render(s lipgloss.Style, text string) string {
	if IsDisabled() {
		return text
	}
	return s.Render(text)
}

// Address formats a chip/emulator address as an 0x-prefixed hex string.
func Address(addr int) string {
	return render(addressStyle, fmt.Sprintf("0x%06X", addr))
}

// Hex formats a byte slice as a space-separated hex string.
func Hex(b []byte) string {
	const digits = "0123456789ABCDEF"
	out := make([]byte, 0, len(b)*3)
	for i, c := range b {
		if i > 0 {
			out = append(out, ' ')
		}
		out = append(out, digits[c>>4], digits[c&0xf])
	}
	return render(hexStyle, string(out))
}

// Error styles an error message for terminal output.
func Error(s string) string { return render(errorStyle, s) }

// OK styles a success message.
func OK(s string) string { return render(okStyle, s) }

// Header styles a section header.
func Header(s string) string { return render(headerStyle, s) }

// Border styles border/rule characters.
func Border(s string) string { return render(borderStyle, s) }
