package token

import (
	"encoding/binary"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

const (
	// MintLen is the size of mint account data.
	MintLen = 1 + 1 + 8 + ledger.AddressLength

	// AccountLen is the size of token account data.
	AccountLen = ledger.AddressLength + ledger.AddressLength + 8 + 1 + 1 + ledger.AddressLength
)

// Mint defines a token.
type Mint struct {
	IsInitialized bool
	Decimals      uint8
	// Supply is the total number of units in circulation.
	Supply        uint64
	MintAuthority ledger.Address
}

// Validate returns an error if the mint authority is invalid.
func (m *Mint) Validate() error {
	return errors.AppendField(nil, "MintAuthority", m.MintAuthority.Validate())
}

// Pack writes the mint into dst, which must be MintLen bytes.
func (m *Mint) Pack(dst []byte) error {
	if len(dst) != MintLen {
		return errors.Wrapf(errors.ErrInvalidAccountData, "mint is %d bytes", len(dst))
	}
	if err := m.Validate(); err != nil {
		return err
	}
	dst[0] = boolByte(m.IsInitialized)
	dst[1] = m.Decimals
	binary.LittleEndian.PutUint64(dst[2:], m.Supply)
	copy(dst[10:], m.MintAuthority)
	return nil
}

// UnpackMint reads an initialized mint.
func UnpackMint(raw []byte) (*Mint, error) {
	if len(raw) != MintLen {
		return nil, errors.Wrapf(errors.ErrInvalidAccountData, "mint is %d bytes", len(raw))
	}
	initialized, err := byteBool(raw[0])
	if err != nil {
		return nil, err
	}
	if !initialized {
		return nil, errors.Wrap(errors.ErrUninitializedAccount, "mint")
	}
	return &Mint{
		IsInitialized: true,
		Decimals:      raw[1],
		Supply:        binary.LittleEndian.Uint64(raw[2:]),
		MintAuthority: ledger.Address(raw[10:]).Clone(),
	}, nil
}

// AccountState is the life cycle state of a token account.
type AccountState uint8

const (
	// StateUninitialized accounts are allocated but not usable yet.
	StateUninitialized AccountState = iota
	// StateInitialized accounts may hold and move tokens.
	StateInitialized
)

// Account holds tokens of a single mint.
type Account struct {
	Mint   ledger.Address
	Owner  ledger.Address
	Amount uint64
	State  AccountState
	// CloseAuthority may close the account instead of the owner. Nil if
	// not set.
	CloseAuthority ledger.Address
}

// Validate returns an error for every invalid address. CloseAuthority is
// optional.
func (a *Account) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Mint", a.Mint.Validate())
	errs = errors.AppendField(errs, "Owner", a.Owner.Validate())
	if a.CloseAuthority != nil {
		errs = errors.AppendField(errs, "CloseAuthority", a.CloseAuthority.Validate())
	}
	return errs
}

// Pack writes the account into dst, which must be AccountLen bytes.
func (a *Account) Pack(dst []byte) error {
	if len(dst) != AccountLen {
		return errors.Wrapf(errors.ErrInvalidAccountData, "token account is %d bytes", len(dst))
	}
	if err := a.Validate(); err != nil {
		return err
	}
	for i := range dst {
		dst[i] = 0
	}
	copy(dst, a.Mint)
	copy(dst[20:], a.Owner)
	binary.LittleEndian.PutUint64(dst[40:], a.Amount)
	dst[48] = byte(a.State)
	if a.CloseAuthority != nil {
		dst[49] = 1
		copy(dst[50:], a.CloseAuthority)
	}
	return nil
}

// UnpackAccount reads an initialized token account.
func UnpackAccount(raw []byte) (*Account, error) {
	acc, err := unpackAccountUnchecked(raw)
	if err != nil {
		return nil, err
	}
	if acc.State != StateInitialized {
		return nil, errors.Wrap(errors.ErrUninitializedAccount, "token account")
	}
	return acc, nil
}

func unpackAccountUnchecked(raw []byte) (*Account, error) {
	if len(raw) != AccountLen {
		return nil, errors.Wrapf(errors.ErrInvalidAccountData, "token account is %d bytes", len(raw))
	}
	state := AccountState(raw[48])
	if state > StateInitialized {
		return nil, errors.Wrapf(errors.ErrInvalidAccountData, "token account state %d", state)
	}
	acc := &Account{
		Mint:   ledger.Address(raw[:20]).Clone(),
		Owner:  ledger.Address(raw[20:40]).Clone(),
		Amount: binary.LittleEndian.Uint64(raw[40:]),
		State:  state,
	}
	hasClose, err := byteBool(raw[49])
	if err != nil {
		return nil, err
	}
	if hasClose {
		acc.CloseAuthority = ledger.Address(raw[50:]).Clone()
	}
	return acc, nil
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func byteBool(b byte) (bool, error) {
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, errors.Wrapf(errors.ErrInvalidAccountData, "invalid flag %d", b)
	}
}
