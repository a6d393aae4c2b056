package system

import (
	"encoding/binary"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

// MaxDataLength is the largest data an account may be created with.
const MaxDataLength = ledger.MaxAccountDataLen

const (
	tagCreateAccount byte = iota
	tagTransfer
	tagAssign
)

// Instruction is any decoded system program instruction.
type Instruction interface {
	Pack() []byte
}

// CreateAccount funds a new account, allocates its data and assigns it to
// the owner program.
//
// Accounts: funder (signer, writable), new account (signer, writable).
type CreateAccount struct {
	Lamports uint64
	Space    uint64
	Owner    ledger.Address
}

// Transfer moves lamports between system owned accounts.
//
// Accounts: from (signer, writable), to (writable).
type Transfer struct {
	Lamports uint64
}

// Assign hands an account over to another program.
//
// Accounts: account (signer, writable).
type Assign struct {
	Owner ledger.Address
}

// Pack implements Instruction.
func (c CreateAccount) Pack() []byte {
	raw := make([]byte, 17, 17+ledger.AddressLength)
	raw[0] = tagCreateAccount
	binary.LittleEndian.PutUint64(raw[1:], c.Lamports)
	binary.LittleEndian.PutUint64(raw[9:], c.Space)
	return append(raw, c.Owner...)
}

// Pack implements Instruction.
func (t Transfer) Pack() []byte {
	raw := make([]byte, 9)
	raw[0] = tagTransfer
	binary.LittleEndian.PutUint64(raw[1:], t.Lamports)
	return raw
}

// Pack implements Instruction.
func (a Assign) Pack() []byte {
	return append([]byte{tagAssign}, a.Owner...)
}

// Unpack decodes a system program instruction.
func Unpack(raw []byte) (Instruction, error) {
	if len(raw) == 0 {
		return nil, errors.Wrap(errors.ErrMsg, "empty instruction")
	}
	tag, rest := raw[0], raw[1:]
	switch tag {
	case tagCreateAccount:
		if len(rest) != 16+ledger.AddressLength {
			return nil, errors.Wrap(errors.ErrMsg, "create account length")
		}
		return CreateAccount{
			Lamports: binary.LittleEndian.Uint64(rest),
			Space:    binary.LittleEndian.Uint64(rest[8:]),
			Owner:    ledger.Address(rest[16:]).Clone(),
		}, nil
	case tagTransfer:
		if len(rest) != 8 {
			return nil, errors.Wrap(errors.ErrMsg, "transfer length")
		}
		return Transfer{Lamports: binary.LittleEndian.Uint64(rest)}, nil
	case tagAssign:
		if len(rest) != ledger.AddressLength {
			return nil, errors.Wrap(errors.ErrMsg, "assign length")
		}
		return Assign{Owner: ledger.Address(rest).Clone()}, nil
	default:
		return nil, errors.Wrapf(errors.ErrMsg, "unknown instruction %d", tag)
	}
}

// NewCreateAccountInstruction builds an instruction creating account to,
// funded by from.
func NewCreateAccountInstruction(from, to ledger.Address, lamports, space uint64, owner ledger.Address) ledger.Instruction {
	return ledger.Instruction{
		ProgramID: ledger.SystemProgramID,
		Accounts: []ledger.AccountMeta{
			ledger.NewAccountMeta(from, true),
			ledger.NewAccountMeta(to, true),
		},
		Data: CreateAccount{Lamports: lamports, Space: space, Owner: owner}.Pack(),
	}
}

// NewTransferInstruction builds an instruction moving lamports.
func NewTransferInstruction(from, to ledger.Address, lamports uint64) ledger.Instruction {
	return ledger.Instruction{
		ProgramID: ledger.SystemProgramID,
		Accounts: []ledger.AccountMeta{
			ledger.NewAccountMeta(from, true),
			ledger.NewAccountMeta(to, false),
		},
		Data: Transfer{Lamports: lamports}.Pack(),
	}
}

// NewAssignInstruction builds an instruction assigning account to owner.
func NewAssignInstruction(account, owner ledger.Address) ledger.Instruction {
	return ledger.Instruction{
		ProgramID: ledger.SystemProgramID,
		Accounts: []ledger.AccountMeta{
			ledger.NewAccountMeta(account, true),
		},
		Data: Assign{Owner: owner}.Pack(),
	}
}
