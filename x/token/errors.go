package token

import "github.com/iov-one/ledger/errors"

var (
	// ErrOwnerMismatch is returned when the authority does not match the
	// owner of the token account or mint.
	ErrOwnerMismatch = errors.Register(2100, "owner does not match")

	// ErrMintMismatch is returned when moving tokens between accounts of
	// different mints.
	ErrMintMismatch = errors.Register(2101, "account not associated with this mint")

	// ErrNonZeroBalance is returned when closing an account that still
	// holds tokens.
	ErrNonZeroBalance = errors.Register(2102, "non-native account can only be closed if its balance is zero")

	// ErrAuthorityType is returned for an unknown authority type.
	ErrAuthorityType = errors.Register(2103, "invalid authority type")
)
