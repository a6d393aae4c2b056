package ledgertest

import (
	"context"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/app"
	"github.com/iov-one/ledger/store"
)

// Ledger is an in-memory ledger for program tests. Programs are registered
// with the same functions the daemon uses, so tests exercise the production
// runtime with its delegated calls and account checks.
type Ledger struct {
	t       testing.TB
	Runtime *app.Runtime
	DB      ledger.CacheableKVStore
	Ctx     ledger.Context
}

// NewLedger returns a ledger with every program added by register and the
// default rent published.
func NewLedger(t testing.TB, register ...func(ledger.Registry)) *Ledger {
	t.Helper()
	rt := app.NewRuntime()
	for _, fn := range register {
		fn(rt)
	}
	l := &Ledger{
		t:       t,
		Runtime: rt,
		DB:      store.MemStore(),
		Ctx:     context.Background(),
	}
	if err := app.PublishRent(l.DB, app.DefaultRent); err != nil {
		t.Fatalf("cannot publish rent: %s", err)
	}
	return l
}

// Fund sets the account to hold given lamports, owned by the system
// program and without data.
func (l *Ledger) Fund(addr ledger.Address, lamports uint64) {
	l.t.Helper()
	l.SetAccount(addr, &ledger.Account{Owner: ledger.SystemProgramID, Lamports: lamports})
}

// SetAccount overwrites the stored account.
func (l *Ledger) SetAccount(addr ledger.Address, acc *ledger.Account) {
	l.t.Helper()
	if err := l.Runtime.Accounts().SaveAccount(l.DB, addr, acc); err != nil {
		l.t.Fatalf("cannot save account %s: %s", addr, err)
	}
}

// Account returns the stored account or nil if it does not exist.
func (l *Ledger) Account(addr ledger.Address) *ledger.Account {
	l.t.Helper()
	acc, err := l.Runtime.Accounts().GetAccount(l.DB, addr)
	if err != nil {
		l.t.Fatalf("cannot load account %s: %s", addr, err)
	}
	return acc
}

// Lamports returns the balance of the account, zero if it does not exist.
func (l *Ledger) Lamports(addr ledger.Address) uint64 {
	l.t.Helper()
	if acc := l.Account(addr); acc != nil {
		return acc.Lamports
	}
	return 0
}

// Data returns the data of the account, nil if it does not exist.
func (l *Ledger) Data(addr ledger.Address) []byte {
	l.t.Helper()
	if acc := l.Account(addr); acc != nil {
		return acc.Data
	}
	return nil
}

// Execute runs the instructions as a single transaction signed by signers.
func (l *Ledger) Execute(signers []ledger.Address, instructions ...ledger.Instruction) error {
	return l.Runtime.Execute(l.Ctx, l.DB, signers, instructions)
}

// MustExecute is Execute failing the test on error.
func (l *Ledger) MustExecute(signers []ledger.Address, instructions ...ledger.Instruction) {
	l.t.Helper()
	if err := l.Execute(signers, instructions...); err != nil {
		l.t.Fatalf("cannot execute: %+v", err)
	}
}

// Snapshot returns a copy of every given account, nil for missing ones.
// Compare two snapshots to assert a failed transaction changed nothing.
func (l *Ledger) Snapshot(addrs ...ledger.Address) []*ledger.Account {
	l.t.Helper()
	res := make([]*ledger.Account, len(addrs))
	for i, a := range addrs {
		if acc := l.Account(a); acc != nil {
			res[i] = acc.Clone()
		}
	}
	return res
}
