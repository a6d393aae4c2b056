package token

import (
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/ledgertest/assert"
)

func TestMintLayout(t *testing.T) {
	authority := ledger.ProgramID("authority")
	m := Mint{IsInitialized: true, Decimals: 6, Supply: 1<<63 + 7, MintAuthority: authority}
	raw := make([]byte, MintLen)
	assert.Nil(t, m.Pack(raw))
	assert.Equal(t, byte(1), raw[0])
	assert.Equal(t, byte(6), raw[1])
	assert.Equal(t, []byte(authority), raw[10:])

	got, err := UnpackMint(raw)
	assert.Nil(t, err)
	assert.Equal(t, &m, got)

	_, err = UnpackMint(make([]byte, MintLen))
	assert.IsErr(t, errors.ErrUninitializedAccount, err)

	_, err = UnpackMint(raw[:MintLen-1])
	assert.IsErr(t, errors.ErrInvalidAccountData, err)

	raw[0] = 2
	_, err = UnpackMint(raw)
	assert.IsErr(t, errors.ErrInvalidAccountData, err)

	assert.IsErr(t, errors.ErrInvalidAccountData, m.Pack(make([]byte, MintLen+1)))
}

func TestAccountLayout(t *testing.T) {
	mint, owner, closer := ledger.ProgramID("mint"), ledger.ProgramID("owner"), ledger.ProgramID("closer")

	cases := map[string]struct {
		acc Account
	}{
		"without close authority": {
			acc: Account{Mint: mint, Owner: owner, Amount: 42, State: StateInitialized},
		},
		"with close authority": {
			acc: Account{Mint: mint, Owner: owner, Amount: 0, State: StateInitialized, CloseAuthority: closer},
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			raw := make([]byte, AccountLen)
			assert.Nil(t, tc.acc.Pack(raw))
			got, err := UnpackAccount(raw)
			assert.Nil(t, err)
			assert.Equal(t, &tc.acc, got)
		})
	}
}

func TestUnpackAccountErrors(t *testing.T) {
	valid := make([]byte, AccountLen)
	acc := Account{Mint: ledger.ProgramID("mint"), Owner: ledger.ProgramID("owner"), State: StateInitialized}
	assert.Nil(t, acc.Pack(valid))

	withByte := func(pos int, b byte) []byte {
		raw := append([]byte(nil), valid...)
		raw[pos] = b
		return raw
	}

	cases := map[string]struct {
		raw     []byte
		wantErr *errors.Error
	}{
		"all zero is uninitialized": {
			raw:     make([]byte, AccountLen),
			wantErr: errors.ErrUninitializedAccount,
		},
		"too short": {
			raw:     valid[:AccountLen-1],
			wantErr: errors.ErrInvalidAccountData,
		},
		"too long": {
			raw:     append(append([]byte(nil), valid...), 0),
			wantErr: errors.ErrInvalidAccountData,
		},
		"unknown state": {
			raw:     withByte(48, 7),
			wantErr: errors.ErrInvalidAccountData,
		},
		"bad close authority flag": {
			raw:     withByte(49, 3),
			wantErr: errors.ErrInvalidAccountData,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			_, err := UnpackAccount(tc.raw)
			assert.IsErr(t, tc.wantErr, err)
		})
	}
}

func TestValidate(t *testing.T) {
	mint := Mint{IsInitialized: true}
	err := mint.Validate()
	assert.IsErr(t, errors.ErrInput, err)
	assert.Equal(t, 1, len(errors.FieldErrors(err, "MintAuthority")))
	assert.IsErr(t, errors.ErrInput, mint.Pack(make([]byte, MintLen)))

	cases := map[string]struct {
		acc       Account
		badFields []string
	}{
		"valid without close authority": {
			acc: Account{Mint: ledger.ProgramID("mint"), Owner: ledger.ProgramID("owner")},
		},
		"valid with close authority": {
			acc: Account{Mint: ledger.ProgramID("mint"), Owner: ledger.ProgramID("owner"), CloseAuthority: ledger.ProgramID("closer")},
		},
		"missing owner": {
			acc:       Account{Mint: ledger.ProgramID("mint")},
			badFields: []string{"Owner"},
		},
		"all invalid": {
			acc:       Account{Mint: ledger.Address{1}, CloseAuthority: ledger.Address{2}},
			badFields: []string{"Mint", "Owner", "CloseAuthority"},
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.acc.Validate()
			if len(tc.badFields) == 0 {
				assert.Nil(t, err)
				assert.Nil(t, tc.acc.Pack(make([]byte, AccountLen)))
				return
			}
			assert.IsErr(t, errors.ErrInput, err)
			for _, f := range tc.badFields {
				assert.Equal(t, 1, len(errors.FieldErrors(err, f)))
			}
			assert.IsErr(t, errors.ErrInput, tc.acc.Pack(make([]byte, AccountLen)))
		})
	}
}
