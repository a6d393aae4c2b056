package token

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/app"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/ledgertest/assert"
	"github.com/iov-one/ledger/store"
)

func TestGenesisInitializer(t *testing.T) {
	mint := ledger.NewCondition("test", "addr", []byte("mint")).Address()
	alice := ledger.NewCondition("test", "addr", []byte("alice")).Address()
	aliceAcc := ledger.NewCondition("test", "addr", []byte("alice token")).Address()

	gen := Genesis{
		Mints: []GenesisMint{
			{Address: mint, Lamports: 10, Decimals: 3, MintAuthority: alice},
		},
		Accounts: []GenesisAccount{
			{Address: aliceAcc, Lamports: 20, Mint: mint, Owner: alice, Amount: 1234},
		},
	}

	cases := map[string]struct {
		mutate  func(g *Genesis)
		wantErr *errors.Error
	}{
		"valid": {
			mutate: func(*Genesis) {},
		},
		"unknown mint": {
			mutate:  func(g *Genesis) { g.Accounts[0].Mint = alice },
			wantErr: errors.ErrNotFound,
		},
		"no lamports": {
			mutate:  func(g *Genesis) { g.Mints[0].Lamports = 0 },
			wantErr: errors.ErrAmount,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			g := gen
			g.Mints = append([]GenesisMint(nil), gen.Mints...)
			g.Accounts = append([]GenesisAccount(nil), gen.Accounts...)
			tc.mutate(&g)

			raw, err := json.Marshal(g)
			assert.Nil(t, err)
			db := store.MemStore()
			err = Initializer{}.FromGenesis(ledger.Options{"token": raw}, db)
			assert.IsErr(t, tc.wantErr, err)
			if tc.wantErr != nil {
				return
			}

			bucket := app.NewAccountBucket()
			acc, err := bucket.GetAccount(db, mint)
			assert.Nil(t, err)
			assert.Equal(t, ProgramID, acc.Owner)
			m, err := UnpackMint(acc.Data)
			assert.Nil(t, err)
			assert.Equal(t, uint64(1234), m.Supply)
			assert.Equal(t, uint8(3), m.Decimals)

			acc, err = bucket.GetAccount(db, aliceAcc)
			assert.Nil(t, err)
			assert.Equal(t, uint64(20), acc.Lamports)
			state, err := UnpackAccount(acc.Data)
			assert.Nil(t, err)
			assert.Equal(t, alice, state.Owner)
			assert.Equal(t, uint64(1234), state.Amount)
		})
	}
}
