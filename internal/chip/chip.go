// Package chip describes the Burn1/2 programmer's supported chip families
// as static capability records, so operations consult one table instead of
// branching on the family in every method.
package chip

import "fmt"

// Op is a single operation a chip family may or may not support.
type Op uint8

const (
	OpErase Op = 1 << iota
	OpBankErase
	OpWrite
	OpRead
	OpBlankVerify
)

// Kind identifies a supported chip family.
type Kind int

const (
	AT29C256 Kind = iota
	M2732A
	AM29F040
	SST27SF512
	EECIV
)

func (k Kind) String() string {
	if r, ok := registry[k]; ok {
		return r.Name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Record is the capability record for one chip family: its wire selector
// byte, total size, bank count, and the set of operations it supports.
type Record struct {
	Kind       Kind
	Name       string
	FamilyByte byte
	Size       int // total chip size in bytes
	Banks      int // 1 if the chip has no bank concept
	Ops        Op
}

// Supports reports whether the family supports the given operation.
func (r Record) Supports(op Op) bool {
	return r.Ops&op != 0
}

// BankSize returns the size of a single bank (Size/Banks).
func (r Record) BankSize() int {
	return r.Size / r.Banks
}

const (
	bankSize64K = 64 * 1024
)

var registry = map[Kind]Record{
	AT29C256: {
		Kind: AT29C256, Name: "AT29C256", FamilyByte: '2',
		Size: 32 * 1024, Banks: 1,
		Ops: OpWrite | OpRead | OpBlankVerify,
	},
	M2732A: {
		Kind: M2732A, Name: "M2732A", FamilyByte: '3',
		Size: 4 * 1024, Banks: 1,
		Ops: OpRead | OpBlankVerify,
	},
	AM29F040: {
		Kind: AM29F040, Name: "AM29F040", FamilyByte: '4',
		Size: 8 * bankSize64K, Banks: 8,
		Ops: OpErase | OpBankErase | OpWrite | OpRead | OpBlankVerify,
	},
	SST27SF512: {
		Kind: SST27SF512, Name: "SST27SF512", FamilyByte: '5',
		Size: 64 * 1024, Banks: 1,
		Ops: OpErase | OpWrite | OpRead | OpBlankVerify,
	},
	EECIV: {
		Kind: EECIV, Name: "EECIV", FamilyByte: 'J',
		Size: 8 * bankSize64K, Banks: 8,
		Ops: OpErase | OpBankErase | OpWrite | OpRead | OpBlankVerify,
	},
}

// Lookup returns the capability record for a chip family.
func Lookup(k Kind) (Record, bool) {
	r, ok := registry[k]
	return r, ok
}

// ByName resolves a chip family by its CLI/config name (case-sensitive,
// matching the names in spec's external interface table).
func ByName(name string) (Record, bool) {
	for _, r := range registry {
		if r.Name == name {
			return r, true
		}
	}
	return Record{}, false
}
