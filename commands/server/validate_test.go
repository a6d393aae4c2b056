package server

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

type keyInitializer struct {
	key string
}

func (i keyInitializer) FromGenesis(opts ledger.Options, kv ledger.KVStore) error {
	var n int
	if err := opts.ReadOptions(i.key, &n); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if n <= 0 {
		return errors.Wrap(errors.ErrAmount, "must be positive")
	}
	return nil
}

func TestValidateGenesis(t *testing.T) {
	dir, err := ioutil.TempDir("", "ledger-validate")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, ioutil.WriteFile(path, []byte(content), 0600))
		return path
	}
	valid := write("valid.json", `{"chain_id": "a", "app_state": {"count": 3}}`)
	invalid := write("invalid.json", `{"chain_id": "a", "app_state": {"count": -1}}`)
	broken := write("broken.json", `{"chain_id": `)

	ini := keyInitializer{key: "count"}
	assert.NoError(t, ValidateGenesis(ini, []string{valid}))
	assert.True(t, errors.ErrAmount.Is(ValidateGenesis(ini, []string{valid, invalid})))
	assert.True(t, errors.ErrInput.Is(ValidateGenesis(ini, []string{broken})))
	assert.True(t, errors.ErrInput.Is(ValidateGenesis(ini, []string{filepath.Join(dir, "missing.json")})))
}
