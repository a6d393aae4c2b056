package app

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path/filepath"

	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/app"
	"github.com/iov-one/ledger/crypto"
	"github.com/iov-one/ledger/errors"
)

// GenesisLamports is the balance of the account created by
// GenInitOptions.
const GenesisLamports = 1000000000000

// GenInitOptions will produce some basic options for one rich
// account, to use for dev mode.
//
// The first argument is the address to fund. If missing, a new key is
// generated and printed.
func GenInitOptions(args []string) (json.RawMessage, error) {
	var addr ledger.Address
	if len(args) > 0 {
		a, err := ledger.ParseAddress(args[0])
		if err != nil {
			return nil, err
		}
		addr = a
	} else {
		a, keys, err := GenerateKey()
		if err != nil {
			return nil, err
		}
		addr = a
		fmt.Println(keys)
	}

	type conf struct {
		Rent app.Rent `json:"rent"`
	}
	opts := struct {
		Conf     conf                 `json:"conf"`
		Accounts []app.GenesisAccount `json:"accounts"`
	}{
		Conf: conf{Rent: app.DefaultRent},
		Accounts: []app.GenesisAccount{
			{Address: addr, Lamports: GenesisLamports},
		},
	}
	raw, err := json.MarshalIndent(opts, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrHuman, err.Error())
	}
	return raw, nil
}

// GenerateApp is used to create a stub for server/start.go command
func GenerateApp(home string, logger log.Logger, debug bool) (abci.Application, error) {
	// db goes in a subdir, but "" -> "" for memdb
	var dbPath string
	if home != "" {
		dbPath = filepath.Join(home, "escrow.db")
	}

	application, err := Application("escrowd", dbPath, debug)
	if err != nil {
		return nil, err
	}
	application.WithLogger(logger)
	return application, nil
}

type output struct {
	Address string `json:"address"`
	Pubkey  string `json:"pub_key"`
	Secret  string `json:"secret"`
}

// GenerateKey returns the address of a new key, along with a json
// representation of the keys.
func GenerateKey() (ledger.Address, string, error) {
	privKey := crypto.GenPrivKeyEd25519()
	pubKey := privKey.PublicKey()
	addr := pubKey.Address()

	out := output{
		Address: addr.String(),
		Pubkey:  hex.EncodeToString(pubKey),
		Secret:  hex.EncodeToString(privKey),
	}
	keys, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrHuman, err.Error())
	}
	return addr, string(keys), nil
}
