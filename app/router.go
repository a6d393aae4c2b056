package app

import (
	"fmt"

	"github.com/iov-one/ledger"
)

// router dispatches instructions to the program registered under the
// instruction program id.
type router struct {
	programs map[string]ledger.Program
}

var _ ledger.Registry = (*router)(nil)

func newRouter() *router {
	return &router{
		programs: make(map[string]ledger.Program),
	}
}

// Register adds a program under given id.
// panics if the id is invalid or a program was already registered under it
func (r *router) Register(id ledger.Address, p ledger.Program) {
	if err := id.Validate(); err != nil {
		panic(fmt.Sprintf("invalid program id %q: %s", id, err))
	}
	if _, ok := r.programs[string(id)]; ok {
		panic(fmt.Sprintf("re-registering program: %s", id))
	}
	r.programs[string(id)] = p
}

// Program returns the program registered under given id, or nil.
func (r *router) Program(id ledger.Address) ledger.Program {
	return r.programs[string(id)]
}
