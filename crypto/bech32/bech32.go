/*
Package bech32 encodes addresses in the human readable bech32 format.
The payload is kept in 8 bit groups on our side, conversion to the 5 bit
groups of the format happens here.
*/
package bech32

import (
	"github.com/btcsuite/btcutil/bech32"

	"github.com/iov-one/ledger/errors"
)

// Decode returns the human readable part and the payload of a bech32
// string. Malformed input and bad checksums fail with errors.ErrInput.
func Decode(raw string) (string, []byte, error) {
	hrp, groups, err := bech32.Decode(raw)
	if err != nil {
		return "", nil, errors.Wrapf(errors.ErrInput, "bech32: %s", err)
	}
	payload, err := bech32.ConvertBits(groups, 5, 8, false)
	if err != nil {
		return "", nil, errors.Wrapf(errors.ErrInput, "bech32 payload: %s", err)
	}
	return hrp, payload, nil
}

// Encode returns the bech32 representation of payload under the given
// human readable part.
func Encode(hrp string, payload []byte) ([]byte, error) {
	groups, err := bech32.ConvertBits(payload, 8, 5, true)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "bech32 payload: %s", err)
	}
	raw, err := bech32.Encode(hrp, groups)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "bech32: %s", err)
	}
	return []byte(raw), nil
}
