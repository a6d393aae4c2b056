package sigs

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/app"
	"github.com/iov-one/ledger/errors"
)

// Verifier authenticates transactions for the application. Every
// transaction must carry at least one valid signature.
type Verifier struct {
	allowMissingSigs bool
}

var _ app.TxVerifier = Verifier{}

// NewVerifier returns the default verifier which requires at least one
// signature to be present.
func NewVerifier() Verifier {
	return Verifier{}
}

// AllowMissingSigs allows us to pass along transactions with no signatures
func (v Verifier) AllowMissingSigs() Verifier {
	v.allowMissingSigs = true
	return v
}

// VerifyTx implements app.TxVerifier.
func (v Verifier) VerifyTx(ctx ledger.Context, db ledger.KVStore, tx *ledger.Tx) ([]ledger.Address, error) {
	chainID := ledger.GetChainID(ctx)
	signers, err := VerifyTxSignatures(db, tx, chainID)
	if err != nil {
		return nil, errors.Wrap(err, "cannot verify signatures")
	}
	if len(signers) == 0 && !v.allowMissingSigs {
		return nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	ledger.GetLogger(ctx).Debug("signatures verified", "signers", len(signers))
	return signers, nil
}
