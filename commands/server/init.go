package server

import (
	"bytes"
	"encoding/json"
	"flag"
	"io/ioutil"
	"path/filepath"

	"github.com/tendermint/tendermint/libs/log"

	"github.com/iov-one/ledger/errors"
)

const (
	// DirConfig is the tendermint config directory under home.
	DirConfig = "config"
	// AppStateKey is the genesis key holding the application state.
	AppStateKey = "app_state"

	flagForce = "f"
)

// GenOptions can parse command-line and flag to generate default
// app_state for the genesis file. This is application-specific.
type GenOptions func(args []string) (json.RawMessage, error)

// GenesisDoc involves some tendermint-specific structures we don't want
// to parse, so we just grab it into a raw object format, so we can add
// one line.
type GenesisDoc map[string]json.RawMessage

func parseInitFlags(args []string) (bool, []string, error) {
	var force bool
	initFlags := flag.NewFlagSet("init", flag.ContinueOnError)
	initFlags.BoolVar(&force, flagForce, false, "overwrite an existing app_state")
	err := initFlags.Parse(args)
	return force, initFlags.Args(), err
}

// InitCmd adds the app_state generated by gen to the genesis file that
// `tendermint init` created under home.
func InitCmd(gen GenOptions, logger log.Logger, home string, args []string) error {
	force, rest, err := parseInitFlags(args)
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	genFile := filepath.Join(home, DirConfig, "genesis.json")
	bz, err := ioutil.ReadFile(genFile)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "read genesis: %s", err)
	}
	var doc GenesisDoc
	if err := json.Unmarshal(bz, &doc); err != nil {
		return errors.Wrapf(errors.ErrInput, "parse genesis: %s", err)
	}
	if !force && hasAppState(doc[AppStateKey]) {
		return errors.Wrapf(errors.ErrState, "genesis file %s already has an %s", genFile, AppStateKey)
	}

	options, err := gen(rest)
	if err != nil {
		return err
	}
	doc[AppStateKey] = options
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrHuman, err.Error())
	}
	if err := ioutil.WriteFile(genFile, out, 0600); err != nil {
		return errors.Wrap(errors.ErrHuman, err.Error())
	}
	logger.Info("App state written", "path", genFile)
	return nil
}

func hasAppState(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return false
	}
	for _, empty := range []string{"null", "{}", `""`} {
		if bytes.Equal(raw, []byte(empty)) {
			return false
		}
	}
	return true
}
