package app

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/orm"
)

// AccountBucket persists ledger accounts keyed by their address.
type AccountBucket struct {
	orm.Bucket
}

// NewAccountBucket returns the bucket holding all accounts.
func NewAccountBucket() AccountBucket {
	return AccountBucket{
		Bucket: orm.NewBucket("acct", orm.NewSimpleObj(nil, new(ledger.Account))),
	}
}

// GetAccount returns the account stored under given address, or nil if no
// such account exists.
func (b AccountBucket) GetAccount(db ledger.ReadOnlyKVStore, addr ledger.Address) (*ledger.Account, error) {
	obj, err := b.Get(db, addr)
	if err != nil || obj == nil {
		return nil, err
	}
	acc, ok := obj.Value().(*ledger.Account)
	if !ok {
		return nil, errors.WithType(errors.ErrModel, obj.Value())
	}
	return acc, nil
}

// SaveAccount writes the account. An account without lamports is closed
// and removed from the store.
func (b AccountBucket) SaveAccount(db ledger.KVStore, addr ledger.Address, acc *ledger.Account) error {
	if acc.Lamports == 0 {
		return b.Delete(db, addr)
	}
	return b.Save(db, orm.NewSimpleObj(addr, acc))
}

// RegisterQuery exposes accounts under /accounts.
func (b AccountBucket) RegisterQuery(qr ledger.QueryRouter) {
	b.Register("accounts", qr)
}
