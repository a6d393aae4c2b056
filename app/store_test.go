package app

import (
	"context"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/store/iavl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
	dbm "github.com/tendermint/tendermint/libs/db"
)

func newTestStoreApp(t *testing.T, db dbm.DB) *StoreApp {
	t.Helper()
	qr := ledger.NewQueryRouter()
	NewAccountBucket().RegisterQuery(qr)
	return NewStoreApp("test", iavl.NewCommitStoreFromDB(db), qr, context.Background()).
		WithInit(ChainInitializers(AccountsInitializer{}, RentInitializer{}))
}

func TestStoreAppLifecycle(t *testing.T) {
	db := dbm.NewMemDB()
	app := newTestStoreApp(t, db)

	alice := testAddr("alice")
	appState := []byte(`{"accounts": [{"address": "` + alice.String() + `", "lamports": 777}]}`)
	app.InitChain(abci.RequestInitChain{ChainId: "test-chain-1", AppStateBytes: appState})
	assert.Equal(t, "test-chain-1", app.GetChainID())
	assert.Equal(t, "test-chain-1", ledger.GetChainID(app.baseContext))

	// genesis cannot be loaded twice
	assert.Panics(t, func() {
		app.InitChain(abci.RequestInitChain{ChainId: "test-chain-2", AppStateBytes: appState})
	})

	app.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 1, ChainID: "test-chain-1"}})
	height, ok := ledger.GetHeight(app.BlockContext())
	assert.True(t, ok)
	assert.Equal(t, int64(1), height)
	app.EndBlock(abci.RequestEndBlock{})
	commit := app.Commit()
	assert.NotEmpty(t, commit.Data)

	info := app.Info(abci.RequestInfo{})
	assert.Equal(t, int64(1), info.LastBlockHeight)
	assert.Equal(t, commit.Data, info.LastBlockAppHash)
	assert.Equal(t, "test", info.Data)

	// account query
	res := app.Query(abci.RequestQuery{Path: "/accounts", Data: alice})
	require.Equal(t, uint32(0), res.Code, res.Log)
	var acc ledger.Account
	require.NoError(t, UnmarshalOneResult(res.Value, &acc))
	assert.Equal(t, uint64(777), acc.Lamports)

	// prefix query lists the account and the rent sysvar
	res = app.Query(abci.RequestQuery{Path: "/accounts?prefix"})
	require.Equal(t, uint32(0), res.Code, res.Log)
	var values ResultSet
	require.NoError(t, values.Unmarshal(res.Value))
	assert.Len(t, values.Results, 2)

	// unknown path
	res = app.Query(abci.RequestQuery{Path: "/unknown"})
	assert.Equal(t, errors.ErrNotFound.ABCICode(), res.Code)

	// state survives a restart
	restarted := newTestStoreApp(t, db)
	assert.Equal(t, "test-chain-1", restarted.GetChainID())
	info = restarted.Info(abci.RequestInfo{})
	assert.Equal(t, int64(1), info.LastBlockHeight)
	assert.Equal(t, commit.Data, info.LastBlockAppHash)
}

func TestStoreAppRejectsEmptyAppState(t *testing.T) {
	app := newTestStoreApp(t, dbm.NewMemDB())
	assert.Panics(t, func() {
		app.InitChain(abci.RequestInitChain{ChainId: "test-chain-1"})
	})
	assert.Panics(t, func() {
		app.InitChain(abci.RequestInitChain{ChainId: "x", AppStateBytes: []byte(`{}`)})
	})
}

func TestSplitPath(t *testing.T) {
	cases := map[string]struct {
		path     string
		wantPath string
		wantMod  string
	}{
		"plain":  {path: "/accounts", wantPath: "/accounts"},
		"prefix": {path: "/accounts?prefix", wantPath: "/accounts", wantMod: "prefix"},
		"root":   {path: "/?prefix", wantPath: "/", wantMod: "prefix"},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			path, mod := splitPath(tc.path)
			assert.Equal(t, tc.wantPath, path)
			assert.Equal(t, tc.wantMod, mod)
		})
	}
}
