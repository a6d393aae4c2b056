/*
Package app links together all the programs of the escrow daemon into one
ABCI application.
*/
package app

import (
	"context"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/app"
	"github.com/iov-one/ledger/store/iavl"
	"github.com/iov-one/ledger/x/escrow"
	"github.com/iov-one/ledger/x/sigs"
	"github.com/iov-one/ledger/x/system"
	"github.com/iov-one/ledger/x/token"
)

// Runtime returns a runtime with all programs of the daemon registered.
func Runtime() *app.Runtime {
	rt := app.NewRuntime()
	system.RegisterPrograms(rt)
	token.RegisterPrograms(rt)
	escrow.RegisterPrograms(rt)
	return rt
}

// QueryRouter returns a default query router, allowing access to
// accounts, signers and escrows.
func QueryRouter(rt *app.Runtime) ledger.QueryRouter {
	r := ledger.NewQueryRouter()
	r.RegisterAll(
		rt.Accounts().RegisterQuery,
		sigs.RegisterQuery,
		escrow.RegisterQuery,
	)
	return r
}

// Initializers returns the genesis initializers of all programs.
func Initializers() ledger.Initializer {
	return app.ChainInitializers(
		app.RentInitializer{},
		app.AccountsInitializer{},
		token.Initializer{},
	)
}

// Application constructs a basic ABCI application with the given
// arguments. dbPath "" uses an in-memory store.
func Application(name string, dbPath string, debug bool) (app.BaseApp, error) {
	var kv ledger.CommitKVStore
	if dbPath == "" {
		kv = iavl.MockCommitStore()
	} else {
		kv = iavl.NewCommitStore(dbPath, name)
	}

	rt := Runtime()
	store := app.NewStoreApp(name, kv, QueryRouter(rt), context.Background())
	store.WithInit(Initializers())
	return app.NewBaseApp(store, rt, sigs.NewVerifier(), debug), nil
}
