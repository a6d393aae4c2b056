package ledger

import (
	"encoding/binary"

	"github.com/iov-one/ledger/errors"
)

// accountHeaderLen is owner | lamports | executable | data length.
const accountHeaderLen = AddressLength + 8 + 1 + 4

// MaxAccountDataLen is the largest data an account may hold.
const MaxAccountDataLen = 10 * 1024 * 1024

// Account is a storage slot managed by the ledger. Only the owner program
// may modify its data or debit its native balance.
type Account struct {
	// Owner is the program that may mutate this account.
	Owner Address
	// Lamports is the native balance. An account with zero lamports is
	// closed and removed at the end of the transaction.
	Lamports uint64
	// Executable accounts hold programs and are never modified.
	Executable bool
	// Data is the program specific state.
	Data []byte
}

var _ Persistent = (*Account)(nil)

// NewAccount returns an empty account owned by the system program.
func NewAccount() *Account {
	return &Account{Owner: SystemProgramID}
}

// Validate returns an error if the account cannot be persisted.
func (a *Account) Validate() error {
	if len(a.Owner) != AddressLength {
		return errors.Wrap(errors.ErrModel, "owner")
	}
	return nil
}

// Marshal serializes the account into its fixed binary layout.
func (a *Account) Marshal() ([]byte, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	raw := make([]byte, accountHeaderLen+len(a.Data))
	copy(raw, a.Owner)
	binary.LittleEndian.PutUint64(raw[AddressLength:], a.Lamports)
	if a.Executable {
		raw[AddressLength+8] = 1
	}
	binary.LittleEndian.PutUint32(raw[AddressLength+9:], uint32(len(a.Data)))
	copy(raw[accountHeaderLen:], a.Data)
	return raw, nil
}

// Unmarshal reads the account from its binary layout.
func (a *Account) Unmarshal(raw []byte) error {
	if len(raw) < accountHeaderLen {
		return errors.Wrapf(errors.ErrModel, "account too short: %d bytes", len(raw))
	}
	size := binary.LittleEndian.Uint32(raw[AddressLength+9:])
	if uint64(len(raw)) != uint64(accountHeaderLen)+uint64(size) {
		return errors.Wrap(errors.ErrModel, "account data length")
	}
	switch raw[AddressLength+8] {
	case 0:
		a.Executable = false
	case 1:
		a.Executable = true
	default:
		return errors.Wrap(errors.ErrModel, "executable flag")
	}
	a.Owner = Address(raw[:AddressLength]).Clone()
	a.Lamports = binary.LittleEndian.Uint64(raw[AddressLength:])
	a.Data = append([]byte{}, raw[accountHeaderLen:]...)
	return nil
}

// Clone returns a deep copy of the account.
func (a *Account) Clone() *Account {
	return &Account{
		Owner:      a.Owner.Clone(),
		Lamports:   a.Lamports,
		Executable: a.Executable,
		Data:       append([]byte{}, a.Data...),
	}
}

// AccountInfo is the handle a program receives for every account an
// instruction references. Changes made through the embedded Account are
// validated by the runtime when the program returns.
type AccountInfo struct {
	Key        Address
	IsSigner   bool
	IsWritable bool
	*Account
}

// DataLen returns the size of the account data.
func (a *AccountInfo) DataLen() int {
	return len(a.Data)
}

// IsOwnedBy returns true if given program owns the account.
func (a *AccountInfo) IsOwnedBy(program Address) bool {
	return a.Owner.Equals(program)
}

// FindAccount returns the first account info with given key, or nil.
func FindAccount(accounts []*AccountInfo, key Address) *AccountInfo {
	for _, a := range accounts {
		if a.Key.Equals(key) {
			return a
		}
	}
	return nil
}
