package system

import "github.com/iov-one/ledger/errors"

var (
	// ErrAccountInUse is returned when creating an account that already
	// holds lamports or data.
	ErrAccountInUse = errors.Register(2200, "account already in use")

	// ErrInsufficientFunds is returned when an account cannot pay the
	// requested lamports.
	ErrInsufficientFunds = errors.Register(2201, "insufficient lamports")

	// ErrInvalidDataLength is returned when requesting more space than an
	// account may hold.
	ErrInvalidDataLength = errors.Register(2202, "invalid account data length")
)
