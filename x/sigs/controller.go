package sigs

import (
	"crypto/sha512"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/crypto"
	"github.com/iov-one/ledger/errors"
)

// VerifyTxSignatures checks all the signatures on the tx and increments
// the signer sequences.
//
// returns list of signer addresses (possibly empty),
// or error if any signature is invalid
func VerifyTxSignatures(db ledger.KVStore, tx *ledger.Tx, chainID string) ([]ledger.Address, error) {
	signers := make([]ledger.Address, 0, len(tx.Signatures))
	for i, sig := range tx.Signatures {
		signer, err := VerifySignature(db, sig, tx, chainID)
		if err != nil {
			return nil, errors.Wrapf(err, "signature %d", i)
		}
		signers = append(signers, signer)
	}
	return signers, nil
}

// VerifySignature checks one signature against the transaction and
// updates the signer state in the store.
func VerifySignature(db ledger.KVStore, sig ledger.StdSignature, tx *ledger.Tx, chainID string) (ledger.Address, error) {
	pubkey := crypto.PublicKey(sig.PubKey)
	if err := pubkey.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "missing public key")
	}

	bucket := NewBucket()
	obj, err := bucket.GetOrCreate(db, pubkey)
	if err != nil {
		return nil, err
	}

	toSign, err := BuildSignBytes(tx, chainID, sig.Sequence)
	if err != nil {
		return nil, err
	}
	if !pubkey.Verify(toSign, sig.Signature) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "invalid signature")
	}

	user := AsUser(obj)
	if err := user.CheckAndIncrementSequence(sig.Sequence); err != nil {
		return nil, err
	}
	if err := bucket.Save(db, obj); err != nil {
		return nil, err
	}
	return pubkey.Address(), nil
}

// BuildSignBytes returns the bytes signed for given sequence. The
// transaction sign bytes are prehashed with sha512, so that hardware
// wallets can sign transactions of any size.
func BuildSignBytes(tx *ledger.Tx, chainID string, seq int64) ([]byte, error) {
	if seq < 0 {
		return nil, errors.Wrap(ErrInvalidSequence, "negative")
	}
	if !ledger.IsValidChainID(chainID) {
		return nil, errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}
	raw, err := ledger.SignBytes(tx, chainID, seq)
	if err != nil {
		return nil, err
	}
	hashed := sha512.Sum512(raw)
	return hashed[:], nil
}

// SignTx creates a signature for the given tx
func SignTx(signer crypto.PrivateKey, tx *ledger.Tx, chainID string, seq int64) (ledger.StdSignature, error) {
	toSign, err := BuildSignBytes(tx, chainID, seq)
	if err != nil {
		return ledger.StdSignature{}, err
	}
	sig, err := signer.Sign(toSign)
	if err != nil {
		return ledger.StdSignature{}, err
	}
	return ledger.StdSignature{
		PubKey:    signer.PublicKey(),
		Signature: sig,
		Sequence:  seq,
	}, nil
}

// NextSequence returns the sequence the next signature of given key must
// use.
func NextSequence(db ledger.KVStore, pubkey crypto.PublicKey) (int64, error) {
	obj, err := NewBucket().GetOrCreate(db, pubkey)
	if err != nil {
		return 0, err
	}
	return AsUser(obj).Sequence, nil
}
