package token

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/app"
	"github.com/iov-one/ledger/errors"
)

// GenesisMint is a mint created with the chain.
type GenesisMint struct {
	Address       ledger.Address `json:"address"`
	Lamports      uint64         `json:"lamports"`
	Decimals      uint8          `json:"decimals"`
	MintAuthority ledger.Address `json:"mint_authority"`
}

// GenesisAccount is a token account created with the chain.
type GenesisAccount struct {
	Address  ledger.Address `json:"address"`
	Lamports uint64         `json:"lamports"`
	Mint     ledger.Address `json:"mint"`
	Owner    ledger.Address `json:"owner"`
	Amount   uint64         `json:"amount"`
}

// Genesis is the content of the "token" genesis key.
type Genesis struct {
	Mints    []GenesisMint    `json:"mints"`
	Accounts []GenesisAccount `json:"accounts"`
}

// Initializer creates mints and token accounts from genesis. The supply of
// each mint is the sum of its genesis accounts.
type Initializer struct{}

var _ ledger.Initializer = Initializer{}

// FromGenesis implements ledger.Initializer.
func (Initializer) FromGenesis(opts ledger.Options, kv ledger.KVStore) error {
	var gen Genesis
	if err := opts.ReadOptions("token", &gen); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	mints := make(map[string]*Mint, len(gen.Mints))
	for i, m := range gen.Mints {
		if err := m.Address.Validate(); err != nil {
			return errors.Wrapf(err, "mint %d", i)
		}
		mints[m.Address.String()] = &Mint{
			IsInitialized: true,
			Decimals:      m.Decimals,
			MintAuthority: m.MintAuthority,
		}
	}

	bucket := app.NewAccountBucket()
	for i, a := range gen.Accounts {
		mint, ok := mints[a.Mint.String()]
		if !ok {
			return errors.Wrapf(errors.ErrNotFound, "account %d: mint %s", i, a.Mint)
		}
		supply, err := checkedAdd(mint.Supply, a.Amount)
		if err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		mint.Supply = supply

		state := Account{Mint: a.Mint, Owner: a.Owner, Amount: a.Amount, State: StateInitialized}
		if err := save(kv, bucket, a.Address, a.Lamports, AccountLen, state.Pack); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
	}

	for i, m := range gen.Mints {
		mint := mints[m.Address.String()]
		if err := save(kv, bucket, m.Address, m.Lamports, MintLen, mint.Pack); err != nil {
			return errors.Wrapf(err, "mint %d", i)
		}
	}
	return nil
}

func save(kv ledger.KVStore, bucket app.AccountBucket, addr ledger.Address, lamports uint64, size int, pack func([]byte) error) error {
	if err := addr.Validate(); err != nil {
		return err
	}
	if lamports == 0 {
		return errors.Wrap(errors.ErrAmount, "no lamports")
	}
	acc := &ledger.Account{Owner: ProgramID, Lamports: lamports, Data: make([]byte, size)}
	if err := pack(acc.Data); err != nil {
		return err
	}
	return bucket.SaveAccount(kv, addr, acc)
}
