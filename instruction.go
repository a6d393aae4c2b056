package ledger

import (
	"github.com/iov-one/ledger/errors"
)

// AccountMeta references an account used by an instruction, together with
// the privileges the instruction requires for it.
type AccountMeta struct {
	Address    Address `json:"address"`
	IsSigner   bool    `json:"is_signer"`
	IsWritable bool    `json:"is_writable"`
}

// NewAccountMeta returns a writable account reference.
func NewAccountMeta(addr Address, isSigner bool) AccountMeta {
	return AccountMeta{Address: addr, IsSigner: isSigner, IsWritable: true}
}

// NewReadonlyAccountMeta returns a read only account reference.
func NewReadonlyAccountMeta(addr Address, isSigner bool) AccountMeta {
	return AccountMeta{Address: addr, IsSigner: isSigner}
}

// Instruction is a single request to a program. Data is opaque to the
// runtime and decoded by the program itself.
type Instruction struct {
	ProgramID Address       `json:"program_id"`
	Accounts  []AccountMeta `json:"accounts"`
	Data      []byte        `json:"data"`
}

// Validate checks that all addresses are well formed.
func (i Instruction) Validate() error {
	if err := i.ProgramID.Validate(); err != nil {
		return errors.Wrap(err, "program id")
	}
	for n, m := range i.Accounts {
		if err := m.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account %d", n)
		}
	}
	return nil
}
