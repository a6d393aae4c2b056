package sigs

import "github.com/iov-one/ledger/errors"

// ErrInvalidSequence is returned when a signature uses a sequence other than
// the next one expected for the signer.
var ErrInvalidSequence = errors.Register(2300, "invalid sequence number")
