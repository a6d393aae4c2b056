package escrow

import "github.com/iov-one/ledger/errors"

// codeOffset is the code of the first escrow error. Clients match on the
// codes, so they must never change.
const codeOffset = 2000

var (
	// ErrInvalidInstruction is returned when instruction data cannot be
	// decoded.
	ErrInvalidInstruction = errors.Register(codeOffset+0, "invalid instruction")

	// ErrNotRentExempt is returned when the escrow storage account does
	// not hold enough lamports to be rent exempt.
	ErrNotRentExempt = errors.Register(codeOffset+1, "not rent exempt")

	// ErrExpectedAmountMismatch is returned when the amount the taker
	// expects does not match the custody balance.
	ErrExpectedAmountMismatch = errors.Register(codeOffset+2, "expected amount mismatch")

	// ErrAmountOverflow is returned when returning the storage lamports
	// to the initializer would overflow.
	ErrAmountOverflow = errors.Register(codeOffset+3, "amount overflow")
)

// CustomCode returns the index of the escrow error kind of err, or false
// if err is not an escrow error.
func CustomCode(err error) (uint32, bool) {
	for _, e := range []*errors.Error{ErrInvalidInstruction, ErrNotRentExempt, ErrExpectedAmountMismatch, ErrAmountOverflow} {
		if e.Is(err) {
			return e.ABCICode() - codeOffset, true
		}
	}
	return 0, false
}
