package server

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/iov-one/ledger/errors"
)

// setupHome creates a home dir holding a copy of the testdata genesis.
func setupHome(t *testing.T) (string, func()) {
	t.Helper()
	home, err := ioutil.TempDir("", "ledger-init")
	require.NoError(t, err)
	require.NoError(t, os.Mkdir(filepath.Join(home, DirConfig), 0755))
	raw, err := ioutil.ReadFile(filepath.Join("testdata", "genesis.json"))
	require.NoError(t, err)
	require.NoError(t, ioutil.WriteFile(filepath.Join(home, DirConfig, "genesis.json"), raw, 0600))
	return home, func() { os.RemoveAll(home) }
}

func readGenesis(t *testing.T, home string) GenesisDoc {
	t.Helper()
	raw, err := ioutil.ReadFile(filepath.Join(home, DirConfig, "genesis.json"))
	require.NoError(t, err)
	var doc GenesisDoc
	require.NoError(t, json.Unmarshal(raw, &doc))
	return doc
}

func TestInit(t *testing.T) {
	home, cleanup := setupHome(t)
	defer cleanup()

	var gotArgs []string
	gen := func(args []string) (json.RawMessage, error) {
		gotArgs = args
		return json.RawMessage(`{"rent":{"lamports_per_byte_year":1}}`), nil
	}

	logger := log.NewNopLogger()
	require.NoError(t, InitCmd(gen, logger, home, []string{"ABCD"}))
	assert.Equal(t, []string{"ABCD"}, gotArgs)

	doc := readGenesis(t, home)
	// keep old values, and add our values
	assert.EqualValues(t, []byte(`"test-chain-escrow"`), doc["chain_id"])
	assert.JSONEq(t, `{"rent":{"lamports_per_byte_year":1}}`, string(doc[AppStateKey]))

	// a second run does not overwrite the state
	err := InitCmd(gen, logger, home, nil)
	assert.True(t, errors.ErrState.Is(err))

	// unless forced
	require.NoError(t, InitCmd(gen, logger, home, []string{"-f"}))
	assert.Empty(t, gotArgs)
}

func TestInitMissingGenesis(t *testing.T) {
	gen := func([]string) (json.RawMessage, error) { return json.RawMessage(`{}`), nil }
	err := InitCmd(gen, log.NewNopLogger(), "/this/path/does/not/exist", nil)
	assert.True(t, errors.ErrInput.Is(err))
}

func TestHasAppState(t *testing.T) {
	cases := map[string]bool{
		"":            false,
		"null":        false,
		"{}":          false,
		` "" `:        false,
		`{"a": 1}`:    true,
		`{"rent": 3}`: true,
	}
	for raw, want := range cases {
		assert.Equal(t, want, hasAppState(json.RawMessage(raw)), raw)
	}
}
