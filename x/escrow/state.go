package escrow

import (
	"encoding/binary"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

// EscrowLen is the size of the escrow storage account data.
const EscrowLen = 1 + 3*ledger.AddressLength + 8

// Escrow is the state of an open trade.
type Escrow struct {
	IsInitialized bool
	// Initializer opened the trade and receives the storage lamports.
	Initializer ledger.Address
	// TempCustody is the token account holding the deposit.
	TempCustody ledger.Address
	// InitializerReceive is the token account the payment goes to.
	InitializerReceive ledger.Address
	// ExpectedAmount of token B the initializer wants.
	ExpectedAmount uint64
}

// Validate returns an error for every invalid address.
func (e *Escrow) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Initializer", e.Initializer.Validate())
	errs = errors.AppendField(errs, "TempCustody", e.TempCustody.Validate())
	errs = errors.AppendField(errs, "InitializerReceive", e.InitializerReceive.Validate())
	return errs
}

// Pack writes the escrow into dst, which must be EscrowLen bytes.
func (e *Escrow) Pack(dst []byte) error {
	if len(dst) != EscrowLen {
		return errors.Wrapf(errors.ErrInvalidAccountData, "escrow is %d bytes", len(dst))
	}
	if err := e.Validate(); err != nil {
		return err
	}
	if e.IsInitialized {
		dst[0] = 1
	} else {
		dst[0] = 0
	}
	copy(dst[1:], e.Initializer)
	copy(dst[21:], e.TempCustody)
	copy(dst[41:], e.InitializerReceive)
	binary.LittleEndian.PutUint64(dst[61:], e.ExpectedAmount)
	return nil
}

// Unpack reads an initialized escrow.
func Unpack(raw []byte) (*Escrow, error) {
	e, err := UnpackUnchecked(raw)
	if err != nil {
		return nil, err
	}
	if !e.IsInitialized {
		return nil, errors.Wrap(errors.ErrUninitializedAccount, "escrow")
	}
	return e, nil
}

// UnpackUnchecked reads an escrow that may not be initialized yet. An all
// zero buffer is an uninitialized escrow.
func UnpackUnchecked(raw []byte) (*Escrow, error) {
	if len(raw) != EscrowLen {
		return nil, errors.Wrapf(errors.ErrInvalidAccountData, "escrow is %d bytes", len(raw))
	}
	var e Escrow
	switch raw[0] {
	case 0:
	case 1:
		e.IsInitialized = true
	default:
		return nil, errors.Wrapf(errors.ErrInvalidAccountData, "invalid flag %d", raw[0])
	}
	e.Initializer = ledger.Address(raw[1:21]).Clone()
	e.TempCustody = ledger.Address(raw[21:41]).Clone()
	e.InitializerReceive = ledger.Address(raw[41:61]).Clone()
	e.ExpectedAmount = binary.LittleEndian.Uint64(raw[61:])
	return &e, nil
}
