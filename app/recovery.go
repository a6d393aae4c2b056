package app

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

// processRecovered calls the program and turns a panic into a normal
// error, so that a misbehaving program cannot halt the chain.
func processRecovered(ctx ledger.Context, p ledger.Program, inv ledger.Invoker, programID ledger.Address,
	accounts []*ledger.AccountInfo, data []byte) (err error) {

	defer errors.Recover(&err)
	return p.Process(ctx, inv, programID, accounts, data)
}
