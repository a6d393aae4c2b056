package ledger

import (
	"encoding/json"
)

// Program is the executable logic owning a set of accounts. The runtime
// calls Process for every instruction addressed to the program.
//
// accounts are given in the order of the instruction account metas.
// Programs must return an error to abort the whole transaction, no partial
// state is ever written.
type Program interface {
	Process(ctx Context, inv Invoker, programID Address, accounts []*AccountInfo, data []byte) error
}

// ProgramFunc adapts a function to the Program interface.
type ProgramFunc func(ctx Context, inv Invoker, programID Address, accounts []*AccountInfo, data []byte) error

// Process calls the wrapped function.
func (fn ProgramFunc) Process(ctx Context, inv Invoker, programID Address, accounts []*AccountInfo, data []byte) error {
	return fn(ctx, inv, programID, accounts, data)
}

// Invoker allows a program to call another program. Every account
// referenced by the instruction must be one of the accounts the caller
// received, and privileges can only be passed on, never escalated.
type Invoker interface {
	// Invoke calls the program with the signatures the caller received.
	Invoke(ctx Context, ix Instruction, accounts []*AccountInfo) error

	// InvokeSigned additionally signs for every address derived from the
	// calling program with one of the given seed sets.
	InvokeSigned(ctx Context, ix Instruction, accounts []*AccountInfo, signerSeeds [][][]byte) error
}

// Registry is an interface to register your program,
// the setup side of a Runtime
type Registry interface {
	Register(id Address, p Program)
}

// Options are the app options
// Each extension can look up it's key and parse the json as desired
type Options map[string]json.RawMessage

// ReadOptions reads the values stored under a given key,
// and parses the json into the given obj.
// Returns an error if it cannot parse.
// Noop and no error if key is missing
func (o Options) ReadOptions(key string, obj interface{}) error {
	msg := o[key]
	if len(msg) == 0 {
		return nil
	}
	return json.Unmarshal(msg, obj)
}

// Initializer implementations are used to initialize
// extensions from genesis file contents
type Initializer interface {
	FromGenesis(Options, KVStore) error
}
