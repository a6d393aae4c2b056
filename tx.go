package ledger

import (
	"encoding/binary"

	"github.com/iov-one/ledger/errors"
	amino "github.com/tendermint/go-amino"
)

// Marshaller is anything that can be represented in binary
//
// Marshall may validate the data before serializing it and
// unless you previously validated the struct,
// errors should be expected.
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Persistent supports Marshal and Unmarshal
//
// This is separated from Marshal, as this almost always requires
// a pointer, and functions that only need to marshal bytes can
// use the Marshaller interface to access non-pointers.
//
// As with Marshaller, this may do internal validation on the data
// and errors should be expected.
type Persistent interface {
	Marshaller
	Unmarshal([]byte) error
}

// TxCodec encodes transactions on the wire.
var TxCodec = amino.NewCodec()

// StdSignature authorizes a transaction on behalf of the address derived
// from the public key. Sequence protects against replays.
type StdSignature struct {
	PubKey    []byte `json:"pub_key"`
	Signature []byte `json:"signature"`
	Sequence  int64  `json:"sequence"`
}

// Tx represent the data sent from the user to the chain. All instructions
// are executed in order and either all of them succeed or none is applied.
type Tx struct {
	Instructions []Instruction  `json:"instructions"`
	Signatures   []StdSignature `json:"signatures"`
}

var _ Persistent = (*Tx)(nil)

// Marshal encodes the transaction with TxCodec.
func (tx *Tx) Marshal() ([]byte, error) {
	raw, err := TxCodec.MarshalBinaryBare(tx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrMsg, err.Error())
	}
	return raw, nil
}

// Unmarshal decodes the transaction with TxCodec.
func (tx *Tx) Unmarshal(raw []byte) error {
	if err := TxCodec.UnmarshalBinaryBare(raw, tx); err != nil {
		return errors.Wrap(errors.ErrMsg, err.Error())
	}
	return nil
}

// Validate performs stateless checks of the transaction.
func (tx *Tx) Validate() error {
	if len(tx.Instructions) == 0 {
		return errors.Wrap(errors.ErrEmpty, "instructions")
	}
	for i, ix := range tx.Instructions {
		if err := ix.Validate(); err != nil {
			return errors.Wrapf(err, "instruction %d", i)
		}
	}
	return nil
}

// SignBytes returns the bytes that must be signed by a signer of the
// transaction using the given sequence. Signatures are not part of the
// signed content.
func SignBytes(tx *Tx, chainID string, seq int64) ([]byte, error) {
	body := Tx{Instructions: tx.Instructions}
	raw, err := TxCodec.MarshalBinaryBare(&body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrMsg, err.Error())
	}
	// chain id prevents replays on other chains, sequence on this one
	res := make([]byte, 0, len(raw)+len(chainID)+8)
	res = append(res, raw...)
	res = append(res, chainID...)
	var s [8]byte
	binary.BigEndian.PutUint64(s[:], uint64(seq))
	return append(res, s[:]...), nil
}
