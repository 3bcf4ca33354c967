package protocol

// Command header builders. Each returns the header bytes only; callers
// pass the header (and, for writes, the payload) to BuildCommand to get
// the fully checksummed frame.

// VersionHeader is the autobaud identity probe: 'V','V'.
func VersionHeader() []byte { return []byte{'V', 'V'} }

// SpeedBumpHeader requests the device drop to the fallback baud rate.
func SpeedBumpHeader() []byte { return []byte{'S', 0} }

// SerialHeader requests the emulator's 8-byte serial number and 1-byte
// vendor id.
func SerialHeader() []byte { return []byte{'N', 'S'} }

// ProgrammerReadHeader builds the Burn1/2 read command header. The bank
// byte is only present for banked families (EECIV/AM29F040); AT29C256,
// M2732A and SST27SF512 address with two bytes only, so banked must be
// false and bank is ignored.
func ProgrammerReadHeader(familyByte byte, count byte, banked bool, bank byte, addr int) []byte {
	hi, lo := SplitAddr16(addr)
	if banked {
		return []byte{familyByte, 'R', count, bank, hi, lo}
	}
	return []byte{familyByte, 'R', count, hi, lo}
}

// ProgrammerWriteHeader builds the Burn1/2 write command header; the
// payload is appended and the checksum computed over header+payload by
// BuildCommand. The bank byte is only present for banked families, as
// with ProgrammerReadHeader.
func ProgrammerWriteHeader(familyByte byte, count byte, banked bool, bank byte, addr int) []byte {
	hi, lo := SplitAddr16(addr)
	if banked {
		return []byte{familyByte, 'W', count, bank, hi, lo}
	}
	return []byte{familyByte, 'W', count, hi, lo}
}

// ProgrammerEraseHeader builds a whole-chip or single-bank erase command.
// The bank byte is only present for banked families (EECIV/AM29F040);
// SST27SF512's whole-chip erase carries no bank byte at all.
func ProgrammerEraseHeader(familyByte byte, banked bool, bank byte) []byte {
	if banked {
		return []byte{familyByte, 'E', bank}
	}
	return []byte{familyByte, 'E'}
}

// EmuByteReadHeader/EmuByteWriteHeader build the byte-mode (<256 byte)
// emulator read/write headers. count == 0 means 256 bytes, per the wire
// protocol's single-byte count field.
func EmuByteReadHeader(count byte, addr int) []byte {
	hi, lo := SplitAddr16(addr)
	return []byte{'R', count, hi, lo}
}

func EmuByteWriteHeader(count byte, addr int) []byte {
	hi, lo := SplitAddr16(addr)
	return []byte{'W', count, hi, lo}
}

// EmuBulkReadHeader/EmuBulkWriteHeader build the 'Z'-prefixed bulk-mode
// headers. countOf256 is transferSize/256; addrOf256 is addr/256, further
// split MSB-first across two bytes.
func EmuBulkReadHeader(countOf256 byte, addrOf256 int) []byte {
	hi, lo := SplitAddr24(addrOf256)
	return []byte{'Z', 'R', countOf256, hi, lo}
}

func EmuBulkWriteHeader(countOf256 byte, addrOf256 int) []byte {
	hi, lo := SplitAddr24(addrOf256)
	return []byte{'Z', 'W', countOf256, hi, lo}
}

// BankRole is a bank role as the wire sees it; wireLetter maps it to the
// letter used in bank set/get commands: Update -> 'R', Emulation -> 'E',
// Persistent -> 'S'.
type BankRole int

const (
	RoleUpdate BankRole = iota
	RoleEmulation
	RolePersistent
)

func (r BankRole) wireLetter() byte {
	switch r {
	case RoleEmulation:
		return 'E'
	case RolePersistent:
		return 'S'
	default:
		return 'R'
	}
}

// BankSetHeader builds "B","S",role,slot.
func BankSetHeader(role BankRole, slot byte) []byte {
	return []byte{'B', 'S', role.wireLetter(), slot}
}

// BankGetHeader builds "B","G",role. The response is a single slot byte.
func BankGetHeader(role BankRole) []byte {
	return []byte{'B', 'G', role.wireLetter()}
}

// TraceFlags are the bit flags packed into a trace command's flag byte.
type TraceFlags byte

const (
	TraceStreaming    TraceFlags = 0x80
	TraceWindowed     TraceFlags = 0x40
	TraceNonRedundant TraceFlags = 0x20
	TraceTriggerStart TraceFlags = 0x10
	TraceTriggerEnd   TraceFlags = 0x08
	TraceRelativeAddr TraceFlags = 0x04
	// Low two bits select address width: 1, 2, or 3 bytes. SetAddrWidth
	// below clears these bits and sets exactly one width value.
	traceAddrWidthMask TraceFlags = 0x03
)

// SetAddrWidth returns flags with the address-width bits set for the
// given width in {1,2,3}.
func (f TraceFlags) SetAddrWidth(addressBytes int) TraceFlags {
	f &^= traceAddrWidthMask
	switch addressBytes {
	case 1:
		return f | 0x01
	case 2:
		return f | 0x02
	case 3:
		return f | 0x03
	default:
		return f
	}
}

// TraceHeader builds the trace command header:
// 'T', flags, 0, 0, addrsPerPacket, packetsPerTrace, emuBank, startHi,
// startLo, emuBank, endHi, endLo.
func TraceHeader(flags TraceFlags, addrsPerPacket, packetsPerTrace byte, emuBank byte, start, end int) []byte {
	startHi, startLo := SplitAddr16(start)
	endHi, endLo := SplitAddr16(end)
	return []byte{
		'T', byte(flags), 0, 0,
		addrsPerPacket, packetsPerTrace,
		emuBank, startHi, startLo,
		emuBank, endHi, endLo,
	}
}
