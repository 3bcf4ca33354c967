// Package log provides structured logging for the driver library using
// zap.
package log

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap.Logger with driver-specific helpers.
type Logger struct {
	*zap.Logger
}

var (
	// L is the global logger instance.
	L    *Logger
	once sync.Once
)

// Init initializes the global logger with the given configuration.
// Safe to call multiple times; only the first call takes effect.
func Init(debug bool) {
	once.Do(func() {
		L = New(debug)
	})
}

// New creates a new Logger instance.
func New(debug bool) *Logger {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}

	// ISO8601 timestamps under "ts" in both modes
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		// Fallback to no-op if config fails
		logger = zap.NewNop()
	}

	return &Logger{Logger: logger}
}

// NewNop creates a no-op logger for testing.
func NewNop() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

// WithSession returns a logger with the session correlation id preset.
func (l *Logger) WithSession(sessionID string) *Logger {
	return &Logger{Logger: l.Logger.With(zap.String("session", sessionID))}
}

// WithDevice returns a logger with device identity fields preset, once
// probe() has filled them in.
func (l *Logger) WithDevice(hwVersion, fwVersion byte, hwChar byte) *Logger {
	return &Logger{Logger: l.Logger.With(
		zap.Uint8("hw", hwVersion),
		zap.Uint8("fw", fwVersion),
		zap.String("hwChar", string(rune(hwChar))),
	)}
}

// Frame logs a wire frame at debug level: direction is "tx" or "rx".
func (l *Logger) Frame(direction string, b []byte) {
	l.Debug("frame", zap.String("dir", direction), zap.Int("len", len(b)), Hex("bytes", b))
}

// Op logs the start of a high-level operation (erase, write, read, trace).
func (l *Logger) Op(name string, fields ...zap.Field) {
	l.Info(name, fields...)
}

// Hex formats a byte slice as a short hex string field, truncating long
// payloads so a 64KiB write doesn't flood the log.
func Hex(key string, b []byte) zap.Field {
	const maxShown = 32
	shown := b
	truncated := false
	if len(shown) > maxShown {
		shown = shown[:maxShown]
		truncated = true
	}
	const digits = "0123456789abcdef"
	out := make([]byte, 0, len(shown)*2+3)
	for _, c := range shown {
		out = append(out, digits[c>>4], digits[c&0xf])
	}
	if truncated {
		out = append(out, '.', '.', '.')
	}
	return zap.String(key, string(out))
}

// Addr creates an address field, formatted as an 0x-prefixed hex string.
func Addr(addr int) zap.Field {
	return zap.String("addr", hexInt(addr))
}

// Size creates a byte-count field.
func Size(n int) zap.Field {
	return zap.Int("size", n)
}

// Chip creates a chip-family field.
func Chip(name string) zap.Field {
	return zap.String("chip", name)
}

func hexInt(v int) string {
	const digits = "0123456789abcdef"
	if v == 0 {
		return "0x0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	buf := make([]byte, 0, 18)
	for v > 0 {
		buf = append([]byte{digits[v&0xf]}, buf...)
		v >>= 4
	}
	if neg {
		return "-0x" + string(buf)
	}
	return "0x" + string(buf)
}
