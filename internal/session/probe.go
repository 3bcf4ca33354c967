package session

import (
	"go.uber.org/zap"

	glog "github.com/moates-tools/godriver/internal/log"
	"github.com/moates-tools/godriver/internal/protocol"
	"github.com/moates-tools/godriver/internal/transport"
)

// probe runs the autobaud/identity handshake: try the high rate first;
// on failure, drop to the fallback rate, speed-bump the device back up,
// and retry once. A second failure is DeviceNotFound.
func probe(tr transport.Transport, log *glog.Logger, isEmulator bool) (*DeviceIdentity, error) {
	log.Debug("probe attempt", zap.Int("baud", transport.HighBaud))
	if ident, err := probeAt(tr, isEmulator); err == nil {
		log.Op("probe", zap.Int("baud", transport.HighBaud))
		return ident, nil
	}

	log.Debug("probe fallback", zap.Int("baud", transport.LowBaud))
	if err := tr.SetFraming(transport.Framing{Baud: transport.LowBaud, DataBits: 8, Parity: transport.ParityNone, StopBits: 1}); err != nil {
		return nil, protocol.ErrDeviceNotFound
	}

	if err := sendSpeedBump(tr); err != nil {
		return nil, protocol.ErrDeviceNotFound
	}

	if err := tr.SetFraming(transport.DefaultFraming()); err != nil {
		return nil, protocol.ErrDeviceNotFound
	}

	ident, err := probeAt(tr, isEmulator)
	if err != nil {
		return nil, protocol.ErrDeviceNotFound
	}
	log.Op("probe", zap.Int("baud", transport.HighBaud))
	return ident, nil
}

func sendSpeedBump(tr transport.Transport) error {
	frame := protocol.BuildCommand(protocol.SpeedBumpHeader(), nil)
	if _, err := tr.Write(frame); err != nil {
		return protocol.ErrTransportIO
	}
	ack := make([]byte, 1)
	if _, err := tr.ReadExact(ack); err != nil {
		return protocol.ErrTransportIO
	}
	return protocol.ExpectAck(ack)
}

func probeAt(tr transport.Transport, isEmulator bool) (*DeviceIdentity, error) {
	if _, err := tr.Write(protocol.VersionHeader()); err != nil {
		return nil, protocol.ErrTransportIO
	}
	resp := make([]byte, 3)
	if _, err := tr.ReadExact(resp); err != nil {
		return nil, protocol.ErrTransportIO
	}

	ident := &DeviceIdentity{
		HardwareVersion:     resp[0],
		FirmwareVersion:     resp[1],
		HardwareVersionChar: resp[2],
		IsEmulator:          isEmulator,
	}
	if !isEmulator {
		return ident, nil
	}

	if err := probeSerial(tr, ident); err != nil {
		return nil, err
	}
	return ident, nil
}

// probeSerial requests the emulator's 8-byte serial number and 1-byte
// vendor id. The device has an observed quirk: when both are all-zero,
// the trailing checksum byte echoes the command's own checksum rather
// than the checksum of the returned data; both are accepted.
func probeSerial(tr transport.Transport, ident *DeviceIdentity) error {
	cmd := protocol.BuildCommand(protocol.SerialHeader(), nil)
	if _, err := tr.Write(cmd); err != nil {
		return protocol.ErrTransportIO
	}

	resp := make([]byte, 10) // 8 serial + 1 vendor + 1 checksum
	if _, err := tr.ReadExact(resp); err != nil {
		return protocol.ErrTransportIO
	}

	data := resp[:9]
	gotChecksum := resp[9]
	dataChecksum := checksum8(data)
	cmdChecksum := cmd[len(cmd)-1]

	allZero := true
	for _, b := range data {
		if b != 0 {
			allZero = false
			break
		}
	}
	if gotChecksum != dataChecksum && !(allZero && gotChecksum == cmdChecksum) {
		return protocol.ErrChecksumMismatch
	}

	copy(ident.SerialNumber[:], data[:8])
	ident.VendorID = data[8]
	return nil
}

func checksum8(b []byte) byte {
	var sum byte
	for _, c := range b {
		sum += c
	}
	return sum
}
