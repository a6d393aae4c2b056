package app

import (
	"testing"

	"github.com/iov-one/ledger"
	"github.com/stretchr/testify/assert"
)

func TestRouter(t *testing.T) {
	r := newRouter()
	good, missing := ledger.ProgramID("good"), ledger.ProgramID("missing")

	var called int
	counter := ledger.ProgramFunc(func(ledger.Context, ledger.Invoker, ledger.Address, []*ledger.AccountInfo, []byte) error {
		called++
		return nil
	})
	r.Register(good, counter)

	// make sure invalid registrations panic
	assert.Panics(t, func() { r.Register(good, counter) })
	assert.Panics(t, func() { r.Register(ledger.Address("short"), counter) })

	p := r.Program(good)
	if assert.NotNil(t, p) {
		assert.NoError(t, p.Process(nil, nil, good, nil, nil))
	}
	assert.Equal(t, 1, called)
	assert.Nil(t, r.Program(missing))
}
