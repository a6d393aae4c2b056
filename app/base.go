package app

import (
	"time"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
)

// TxVerifier authenticates a transaction and returns the addresses that
// signed it. It may persist replay protection data in db.
type TxVerifier interface {
	VerifyTx(ctx ledger.Context, db ledger.KVStore, tx *ledger.Tx) ([]ledger.Address, error)
}

// BaseApp adds DeliverTx and CheckTx to the storage and query
// functionality of StoreApp. Every transaction is authenticated by the
// verifier and then executed by the runtime.
type BaseApp struct {
	*StoreApp
	runtime  *Runtime
	verifier TxVerifier
	debug    bool
}

var _ abci.Application = BaseApp{}

// NewBaseApp constructs a basic abci application
func NewBaseApp(
	store *StoreApp,
	runtime *Runtime,
	verifier TxVerifier,
	debug bool,
) BaseApp {
	return BaseApp{
		StoreApp: store,
		runtime:  runtime,
		verifier: verifier,
		debug:    debug,
	}
}

// DeliverTx - ABCI - executes the transaction
func (b BaseApp) DeliverTx(txBytes []byte) abci.ResponseDeliverTx {
	started := time.Now()
	tx, err := b.loadTx(txBytes)
	if err != nil {
		recordTx(callDeliver, nil, err, started)
		return deliverTxError(err, b.debug)
	}

	ctx := ledger.WithLogInfo(b.BlockContext(), "call", callDeliver)
	err = b.execute(ctx, b.DeliverStore(), tx)
	recordTx(callDeliver, tx, err, started)
	if err != nil {
		ledger.GetLogger(ctx).Debug("transaction failed", "err", err)
		return deliverTxError(err, b.debug)
	}
	return abci.ResponseDeliverTx{Tags: programTags(tx)}
}

// CheckTx - ABCI - executes the transaction against the check state
func (b BaseApp) CheckTx(txBytes []byte) abci.ResponseCheckTx {
	started := time.Now()
	tx, err := b.loadTx(txBytes)
	if err != nil {
		recordTx(callCheck, nil, err, started)
		return checkTxError(err, b.debug)
	}

	ctx := ledger.WithLogInfo(b.BlockContext(), "call", callCheck)
	err = b.execute(ctx, b.CheckStore(), tx)
	recordTx(callCheck, tx, err, started)
	if err != nil {
		return checkTxError(err, b.debug)
	}
	return abci.ResponseCheckTx{}
}

// execute verifies the signatures and runs all instructions. The signer
// sequences are consumed even if the execution fails.
func (b BaseApp) execute(ctx ledger.Context, db ledger.CacheableKVStore, tx *ledger.Tx) error {
	auth := db.CacheWrap()
	signers, err := b.verifier.VerifyTx(ctx, auth, tx)
	if err != nil {
		auth.Discard()
		return err
	}
	if err := auth.Write(); err != nil {
		return err
	}
	return b.runtime.Execute(ctx, db, signers, tx.Instructions)
}

// loadTx decodes the transaction, and capture any panics
func (b BaseApp) loadTx(txBytes []byte) (tx *ledger.Tx, err error) {
	defer errors.Recover(&err)
	tx = new(ledger.Tx)
	if err := tx.Unmarshal(txBytes); err != nil {
		return nil, err
	}
	if err := tx.Validate(); err != nil {
		return nil, err
	}
	return tx, nil
}

// programTags lists every program called by the transaction, so that
// clients can subscribe to them.
func programTags(tx *ledger.Tx) []cmn.KVPair {
	var tags []cmn.KVPair
	seen := make(map[string]bool)
	for _, ix := range tx.Instructions {
		id := ix.ProgramID.String()
		if seen[id] {
			continue
		}
		seen[id] = true
		tags = append(tags, cmn.KVPair{Key: []byte("program"), Value: []byte(id)})
	}
	return tags
}

func checkTxError(err error, debug bool) abci.ResponseCheckTx {
	code, msg := errors.ABCIInfo(err, debug)
	return abci.ResponseCheckTx{Code: code, Log: msg}
}

func deliverTxError(err error, debug bool) abci.ResponseDeliverTx {
	code, msg := errors.ABCIInfo(err, debug)
	return abci.ResponseDeliverTx{Code: code, Log: msg}
}
