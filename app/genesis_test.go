package app

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/store"
	"github.com/iov-one/ledger/store/iavl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
)

const dummyKey = "dummy"

type dummyInit struct{}

func (dummyInit) FromGenesis(opts ledger.Options, kv ledger.KVStore) error {
	var value string
	err := opts.ReadOptions(dummyKey, &value)
	if err != nil {
		return err
	}
	return kv.Set([]byte(dummyKey), []byte(value))
}

type countInit struct {
	called int
}

func (c *countInit) FromGenesis(opts ledger.Options, kv ledger.KVStore) error {
	c.called++
	return nil
}

func TestParseGenesis(t *testing.T) {
	cases := map[string]struct {
		file         string
		parseError   bool
		initErr      bool
		expectChain  string
		expectCalled int
		expectValue  []byte
	}{
		"no such file": {
			file:       "bad_file.json",
			parseError: true,
		},
		"proper parse": {
			file:         "testdata/genesis.json",
			expectChain:  "test-chain-67",
			expectCalled: 1,
			expectValue:  []byte("secret"),
		},
		"parse genesis, bad init": {
			file:        "testdata/bad_genesis.json",
			initErr:     true,
			expectChain: "super-chain-22",
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			// this just parses
			gen, err := loadGenesis(tc.file)
			if tc.parseError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectChain, gen.ChainID)

			// this calls the whole stack
			c := new(countInit)
			init := ChainInitializers(dummyInit{}, c)
			app := NewStoreApp("foo", iavl.MockCommitStore(), ledger.NewQueryRouter(), context.Background()).
				WithInit(init)
			assert.Equal(t, "", app.GetChainID())

			req := abci.RequestInitChain{ChainId: gen.ChainID, AppStateBytes: gen.AppState}
			if tc.initErr {
				assert.Panics(t, func() { app.InitChain(req) })
				return
			}
			app.InitChain(req)
			assert.Equal(t, tc.expectChain, app.GetChainID())
			assert.Equal(t, tc.expectCalled, c.called)
			val, err := app.DeliverStore().Get([]byte(dummyKey))
			require.NoError(t, err)
			assert.Equal(t, tc.expectValue, val)
		})
	}
}

func TestAccountsInitializer(t *testing.T) {
	gen, err := loadGenesis("testdata/genesis.json")
	require.NoError(t, err)

	var opts ledger.Options
	require.NoError(t, json.Unmarshal(gen.AppState, &opts))

	db := store.MemStore()
	require.NoError(t, AccountsInitializer{}.FromGenesis(opts, db))

	addr, err := ledger.ParseAddress("E28AE9A6EB94FC88B73EB7CBD6B87BF93EB9BEF0")
	require.NoError(t, err)
	acc, err := NewAccountBucket().GetAccount(db, addr)
	require.NoError(t, err)
	require.NotNil(t, acc)
	assert.Equal(t, uint64(5000000), acc.Lamports)
	assert.Equal(t, ledger.SystemProgramID, acc.Owner)

	empty := ledger.Options{"accounts": []byte(`[{"address": "E28AE9A6EB94FC88B73EB7CBD6B87BF93EB9BEF0"}]`)}
	assert.Error(t, AccountsInitializer{}.FromGenesis(empty, store.MemStore()))
}
