package escrow

import (
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/ledgertest/assert"
)

func TestEscrowLayout(t *testing.T) {
	e := Escrow{
		IsInitialized:      true,
		Initializer:        ledger.ProgramID("initializer"),
		TempCustody:        ledger.ProgramID("custody"),
		InitializerReceive: ledger.ProgramID("receive"),
		ExpectedAmount:     0x0102030405060708,
	}
	raw := make([]byte, EscrowLen)
	assert.Nil(t, e.Pack(raw))
	assert.Equal(t, 69, len(raw))
	assert.Equal(t, byte(1), raw[0])
	assert.Equal(t, []byte(e.Initializer), raw[1:21])
	assert.Equal(t, []byte(e.TempCustody), raw[21:41])
	assert.Equal(t, []byte(e.InitializerReceive), raw[41:61])
	assert.Equal(t, []byte{8, 7, 6, 5, 4, 3, 2, 1}, raw[61:])

	got, err := Unpack(raw)
	assert.Nil(t, err)
	assert.Equal(t, &e, got)
}

func TestUnpackModes(t *testing.T) {
	zero := make([]byte, EscrowLen)

	e, err := UnpackUnchecked(zero)
	assert.Nil(t, err)
	assert.Equal(t, false, e.IsInitialized)
	assert.Equal(t, uint64(0), e.ExpectedAmount)

	_, err = Unpack(zero)
	assert.IsErr(t, errors.ErrUninitializedAccount, err)

	bad := make([]byte, EscrowLen)
	bad[0] = 2
	_, err = UnpackUnchecked(bad)
	assert.IsErr(t, errors.ErrInvalidAccountData, err)

	for _, size := range []int{0, EscrowLen - 1, EscrowLen + 1} {
		_, err = UnpackUnchecked(make([]byte, size))
		assert.IsErr(t, errors.ErrInvalidAccountData, err)
		_, err = Unpack(make([]byte, size))
		assert.IsErr(t, errors.ErrInvalidAccountData, err)
	}
}

func TestPackErrors(t *testing.T) {
	e := Escrow{
		IsInitialized:      true,
		Initializer:        ledger.ProgramID("initializer"),
		TempCustody:        ledger.ProgramID("custody"),
		InitializerReceive: ledger.ProgramID("receive"),
	}
	assert.IsErr(t, errors.ErrInvalidAccountData, e.Pack(make([]byte, EscrowLen-1)))

	e.TempCustody = nil
	assert.IsErr(t, errors.ErrInput, e.Pack(make([]byte, EscrowLen)))

	// every invalid address is reported under its own field
	e.InitializerReceive = ledger.Address{1, 2}
	err := e.Validate()
	assert.IsErr(t, errors.ErrInput, err)
	assert.Equal(t, 1, len(errors.FieldErrors(err, "TempCustody")))
	assert.Equal(t, 1, len(errors.FieldErrors(err, "InitializerReceive")))
	assert.Equal(t, 0, len(errors.FieldErrors(err, "Initializer")))
}
