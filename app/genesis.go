package app

import (
	"encoding/json"
	"io/ioutil"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

// Genesis file format, designed to be overlayed with tendermint genesis
type Genesis struct {
	ChainID  string          `json:"chain_id"`
	AppState json.RawMessage `json:"app_state"`
}

// loadGenesis tries to load a given file into a Genesis struct
func loadGenesis(filePath string) (Genesis, error) {
	var gen Genesis

	bytes, err := ioutil.ReadFile(filePath)
	if err != nil {
		return gen, errors.Wrap(errors.ErrInput, err.Error())
	}
	if err := json.Unmarshal(bytes, &gen); err != nil {
		return gen, errors.Wrapf(errors.ErrInput, "unmarshal genesis file: %s", err)
	}
	return gen, nil
}

//------ init state -----

// ChainInitializers lets you initialize many extensions with one function
func ChainInitializers(inits ...ledger.Initializer) ledger.Initializer {
	return chainInitializer{inits}
}

type chainInitializer struct {
	inits []ledger.Initializer
}

// FromGenesis will pass opts to all Initializers in the list,
// aborting at the first error.
func (c chainInitializer) FromGenesis(opts ledger.Options, kv ledger.KVStore) error {
	for _, i := range c.inits {
		if err := i.FromGenesis(opts, kv); err != nil {
			return err
		}
	}
	return nil
}

// GenesisAccount is an account created with the chain.
type GenesisAccount struct {
	Address  ledger.Address `json:"address"`
	Owner    ledger.Address `json:"owner"`
	Lamports uint64         `json:"lamports"`
	Data     []byte         `json:"data"`
}

// AccountsInitializer creates the accounts listed under the "accounts"
// genesis key. Accounts without an owner belong to the system program.
type AccountsInitializer struct{}

var _ ledger.Initializer = AccountsInitializer{}

// FromGenesis implements ledger.Initializer.
func (AccountsInitializer) FromGenesis(opts ledger.Options, kv ledger.KVStore) error {
	var accounts []GenesisAccount
	if err := opts.ReadOptions("accounts", &accounts); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	bucket := NewAccountBucket()
	for i, a := range accounts {
		if err := a.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		owner := a.Owner
		if owner == nil {
			owner = ledger.SystemProgramID
		}
		if a.Lamports == 0 {
			return errors.Wrapf(errors.ErrAmount, "account %d: no lamports", i)
		}
		acc := &ledger.Account{Owner: owner, Lamports: a.Lamports, Data: a.Data}
		if err := bucket.SaveAccount(kv, a.Address, acc); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
	}
	return nil
}
