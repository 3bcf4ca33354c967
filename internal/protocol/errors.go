package protocol

import "errors"

// Sentinel errors for the core protocol and engine layers. Higher layers
// wrap these with fmt.Errorf("...: %w", ...) and callers unwrap with
// errors.Is.
var (
	ErrTransportClosed  = errors.New("protocol: transport closed")
	ErrTransportIO      = errors.New("protocol: transport i/o error")
	ErrDeviceNotFound   = errors.New("protocol: device not found")
	ErrDeviceReject     = errors.New("protocol: device rejected command")
	ErrChecksumMismatch = errors.New("protocol: checksum mismatch")
	ErrUnsupportedOp    = errors.New("protocol: unsupported operation for chip family")
	ErrSizeExceeded     = errors.New("protocol: size exceeded")
	ErrBankIncoherent   = errors.New("protocol: bank set sequence incomplete")
	ErrMalformedTrace   = errors.New("protocol: malformed trace packet")
)

// Ack is the device acknowledgement sentinel byte.
const Ack byte = 'O'
