package token

import (
	"encoding/binary"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

// ProgramID is the identity the token program is registered under.
var ProgramID = ledger.ReserveAddress(ledger.ProgramID("token"))

const (
	tagInitializeMint byte = iota
	tagInitializeAccount
	tagMintTo
	tagTransfer
	tagSetAuthority
	tagCloseAccount
)

// AuthorityType selects which authority SetAuthority changes.
type AuthorityType uint8

const (
	// AccountOwner is the owner of a token account.
	AccountOwner AuthorityType = iota
	// CloseAccount is the authority allowed to close a token account.
	CloseAccount
)

// Instruction is any decoded token program instruction.
type Instruction interface {
	Pack() []byte
}

// InitializeMint creates a new token.
//
// Accounts: mint (writable).
type InitializeMint struct {
	Decimals      uint8
	MintAuthority ledger.Address
}

// InitializeAccount prepares a token account for given mint and owner.
//
// Accounts: account (writable), mint, owner.
type InitializeAccount struct{}

// MintTo creates new units of the token.
//
// Accounts: mint (writable), destination (writable), mint authority (signer).
type MintTo struct {
	Amount uint64
}

// Transfer moves tokens between two accounts of the same mint.
//
// Accounts: source (writable), destination (writable), owner (signer).
type Transfer struct {
	Amount uint64
}

// SetAuthority changes the owner or close authority of a token account.
// A nil NewAuthority unsets the close authority.
//
// Accounts: account (writable), current authority (signer).
type SetAuthority struct {
	Type         AuthorityType
	NewAuthority ledger.Address
}

// CloseAccountInstruction deletes an empty token account, moving its lamports to the
// destination.
//
// Accounts: account (writable), destination (writable), authority (signer).
type CloseAccountInstruction struct{}

// Pack implements Instruction.
func (i InitializeMint) Pack() []byte {
	return append([]byte{tagInitializeMint, i.Decimals}, i.MintAuthority...)
}

// Pack implements Instruction.
func (InitializeAccount) Pack() []byte {
	return []byte{tagInitializeAccount}
}

// Pack implements Instruction.
func (i MintTo) Pack() []byte {
	return packAmount(tagMintTo, i.Amount)
}

// Pack implements Instruction.
func (i Transfer) Pack() []byte {
	return packAmount(tagTransfer, i.Amount)
}

// Pack implements Instruction.
func (i SetAuthority) Pack() []byte {
	if i.NewAuthority == nil {
		return []byte{tagSetAuthority, byte(i.Type), 0}
	}
	return append([]byte{tagSetAuthority, byte(i.Type), 1}, i.NewAuthority...)
}

// Pack implements Instruction.
func (CloseAccountInstruction) Pack() []byte {
	return []byte{tagCloseAccount}
}

func packAmount(tag byte, amount uint64) []byte {
	raw := make([]byte, 9)
	raw[0] = tag
	binary.LittleEndian.PutUint64(raw[1:], amount)
	return raw
}

// Unpack decodes a token program instruction.
func Unpack(raw []byte) (Instruction, error) {
	if len(raw) == 0 {
		return nil, errors.Wrap(errors.ErrMsg, "empty instruction")
	}
	tag, rest := raw[0], raw[1:]
	switch tag {
	case tagInitializeMint:
		if len(rest) != 1+ledger.AddressLength {
			return nil, errors.Wrap(errors.ErrMsg, "initialize mint length")
		}
		return InitializeMint{Decimals: rest[0], MintAuthority: ledger.Address(rest[1:]).Clone()}, nil
	case tagInitializeAccount:
		return InitializeAccount{}, nil
	case tagMintTo, tagTransfer:
		if len(rest) != 8 {
			return nil, errors.Wrap(errors.ErrMsg, "amount length")
		}
		amount := binary.LittleEndian.Uint64(rest)
		if tag == tagMintTo {
			return MintTo{Amount: amount}, nil
		}
		return Transfer{Amount: amount}, nil
	case tagSetAuthority:
		if len(rest) < 2 {
			return nil, errors.Wrap(errors.ErrMsg, "set authority length")
		}
		ix := SetAuthority{Type: AuthorityType(rest[0])}
		switch {
		case rest[1] == 0 && len(rest) == 2:
		case rest[1] == 1 && len(rest) == 2+ledger.AddressLength:
			ix.NewAuthority = ledger.Address(rest[2:]).Clone()
		default:
			return nil, errors.Wrap(errors.ErrMsg, "set authority new authority")
		}
		return ix, nil
	case tagCloseAccount:
		return CloseAccountInstruction{}, nil
	default:
		return nil, errors.Wrapf(errors.ErrMsg, "unknown instruction %d", tag)
	}
}

// NewInitializeMintInstruction builds an instruction initializing mint.
func NewInitializeMintInstruction(mint, authority ledger.Address, decimals uint8) ledger.Instruction {
	return ledger.Instruction{
		ProgramID: ProgramID,
		Accounts:  []ledger.AccountMeta{ledger.NewAccountMeta(mint, false)},
		Data:      InitializeMint{Decimals: decimals, MintAuthority: authority}.Pack(),
	}
}

// NewInitializeAccountInstruction builds an instruction initializing a
// token account.
func NewInitializeAccountInstruction(account, mint, owner ledger.Address) ledger.Instruction {
	return ledger.Instruction{
		ProgramID: ProgramID,
		Accounts: []ledger.AccountMeta{
			ledger.NewAccountMeta(account, false),
			ledger.NewReadonlyAccountMeta(mint, false),
			ledger.NewReadonlyAccountMeta(owner, false),
		},
		Data: InitializeAccount{}.Pack(),
	}
}

// NewMintToInstruction builds an instruction minting new tokens.
func NewMintToInstruction(mint, dest, authority ledger.Address, amount uint64) ledger.Instruction {
	return ledger.Instruction{
		ProgramID: ProgramID,
		Accounts: []ledger.AccountMeta{
			ledger.NewAccountMeta(mint, false),
			ledger.NewAccountMeta(dest, false),
			ledger.NewReadonlyAccountMeta(authority, true),
		},
		Data: MintTo{Amount: amount}.Pack(),
	}
}

// NewTransferInstruction builds an instruction moving tokens.
func NewTransferInstruction(src, dest, authority ledger.Address, amount uint64) ledger.Instruction {
	return ledger.Instruction{
		ProgramID: ProgramID,
		Accounts: []ledger.AccountMeta{
			ledger.NewAccountMeta(src, false),
			ledger.NewAccountMeta(dest, false),
			ledger.NewReadonlyAccountMeta(authority, true),
		},
		Data: Transfer{Amount: amount}.Pack(),
	}
}

// NewSetAuthorityInstruction builds an instruction changing an authority
// of a token account.
func NewSetAuthorityInstruction(account, newAuthority ledger.Address, typ AuthorityType, current ledger.Address) ledger.Instruction {
	return ledger.Instruction{
		ProgramID: ProgramID,
		Accounts: []ledger.AccountMeta{
			ledger.NewAccountMeta(account, false),
			ledger.NewReadonlyAccountMeta(current, true),
		},
		Data: SetAuthority{Type: typ, NewAuthority: newAuthority}.Pack(),
	}
}

// NewCloseAccountInstruction builds an instruction closing a token account.
func NewCloseAccountInstruction(account, dest, authority ledger.Address) ledger.Instruction {
	return ledger.Instruction{
		ProgramID: ProgramID,
		Accounts: []ledger.AccountMeta{
			ledger.NewAccountMeta(account, false),
			ledger.NewAccountMeta(dest, false),
			ledger.NewReadonlyAccountMeta(authority, true),
		},
		Data: CloseAccountInstruction{}.Pack(),
	}
}
