package app

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

// MaxInvokeDepth is the deepest nesting of program calls allowed, counting
// the top level instruction as one.
const MaxInvokeDepth = 4

// Runtime executes instructions against the accounts stored in a KVStore.
// Programs are registered once at startup and addressed by their id.
type Runtime struct {
	*router
	accounts AccountBucket
}

var _ ledger.Registry = (*Runtime)(nil)

// NewRuntime returns a runtime without any program registered.
func NewRuntime() *Runtime {
	return &Runtime{
		router:   newRouter(),
		accounts: NewAccountBucket(),
	}
}

// Accounts returns the bucket used to persist accounts.
func (r *Runtime) Accounts() AccountBucket {
	return r.accounts
}

// Execute runs all instructions in order on behalf of given signers. Either
// all instructions succeed and their changes are written to db, or an error
// is returned and db is left untouched.
func (r *Runtime) Execute(ctx ledger.Context, db ledger.CacheableKVStore, signers []ledger.Address, instructions []ledger.Instruction) error {
	cache := db.CacheWrap()
	exec := &execution{
		runtime:  r,
		db:       cache,
		signers:  signers,
		accounts: make(map[string]*ledger.Account),
	}
	for i, ix := range instructions {
		if err := exec.process(ctx, ix); err != nil {
			cache.Discard()
			return errors.Wrapf(err, "instruction %d", i)
		}
	}
	if err := exec.flush(); err != nil {
		cache.Discard()
		return err
	}
	return cache.Write()
}

// execution holds the working copies of all accounts touched by a single
// transaction. Every account is loaded once, so that all instructions and
// nested calls share the same state.
type execution struct {
	runtime  *Runtime
	db       ledger.KVStore
	signers  []ledger.Address
	accounts map[string]*ledger.Account
	// order in which accounts were loaded, flush is deterministic
	order []ledger.Address
	// failure is the first error returned by any program call. It aborts
	// the transaction even if a calling program ignored it.
	failure error
}

func (e *execution) process(ctx ledger.Context, ix ledger.Instruction) error {
	if err := ix.Validate(); err != nil {
		return err
	}
	infos := make([]*ledger.AccountInfo, len(ix.Accounts))
	for i, meta := range ix.Accounts {
		signed := e.isSigner(meta.Address)
		if meta.IsSigner && !signed {
			return errors.Wrapf(errors.ErrMissingSignature, "account %s", meta.Address)
		}
		acc, err := e.load(meta.Address)
		if err != nil {
			return err
		}
		infos[i] = &ledger.AccountInfo{
			Key:        meta.Address,
			IsSigner:   signed,
			IsWritable: meta.IsWritable,
			Account:    acc,
		}
	}
	if err := e.call(ctx, ix.ProgramID, infos, ix.Data, 1); err != nil {
		return err
	}
	return e.failure
}

// call runs the program and remembers the first failure of the transaction.
func (e *execution) call(ctx ledger.Context, programID ledger.Address, infos []*ledger.AccountInfo, data []byte, depth int) error {
	err := e.callProgram(ctx, programID, infos, data, depth)
	if err != nil && e.failure == nil {
		e.failure = err
	}
	return err
}

// callProgram runs the program and validates all account changes it made.
func (e *execution) callProgram(ctx ledger.Context, programID ledger.Address, infos []*ledger.AccountInfo, data []byte, depth int) error {
	if depth > MaxInvokeDepth {
		return errors.Wrapf(errors.ErrCallDepth, "depth %d", depth)
	}
	p := e.runtime.Program(programID)
	if p == nil {
		return errors.Wrapf(errors.ErrIncorrectProgramID, "unknown program %s", programID)
	}

	f := newFrame(programID, infos)
	inv := &invoker{exec: e, frame: f, depth: depth}
	ctx = ledger.WithLogInfo(ctx, "program", programID.String(), "depth", depth)
	if err := processRecovered(ctx, p, inv, programID, infos, data); err != nil {
		return err
	}
	return f.verify()
}

func (e *execution) isSigner(addr ledger.Address) bool {
	for _, s := range e.signers {
		if s.Equals(addr) {
			return true
		}
	}
	return false
}

// load returns the working copy of an account. Accounts that do not exist
// yet are empty and owned by the system program.
func (e *execution) load(addr ledger.Address) (*ledger.Account, error) {
	if acc, ok := e.accounts[string(addr)]; ok {
		return acc, nil
	}
	acc, err := e.runtime.accounts.GetAccount(e.db, addr)
	if err != nil {
		return nil, errors.Wrapf(err, "load account %s", addr)
	}
	if acc == nil {
		acc = ledger.NewAccount()
	}
	e.accounts[string(addr)] = acc
	e.order = append(e.order, addr)
	return acc, nil
}

// flush writes back all accounts, removing those without lamports.
func (e *execution) flush() error {
	for _, addr := range e.order {
		if err := e.runtime.accounts.SaveAccount(e.db, addr, e.accounts[string(addr)]); err != nil {
			return errors.Wrapf(err, "save account %s", addr)
		}
	}
	return nil
}
