package ledger

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/ledgertest/assert"
)

func TestAddressJSON(t *testing.T) {
	addr := NewAddress([]byte("alice"))

	raw, err := json.Marshal(addr)
	assert.Nil(t, err)

	var got Address
	assert.Nil(t, json.Unmarshal(raw, &got))
	assert.Equal(t, addr, got)

	b32, err := addr.Bech32("tiov")
	assert.Nil(t, err)
	fromBech, err := ParseAddress("bech32:" + b32)
	assert.Nil(t, err)
	assert.Equal(t, addr, fromBech)
}

func TestParseAddress(t *testing.T) {
	cases := map[string]struct {
		enc     string
		want    Address
		wantErr *errors.Error
	}{
		"empty is nil": {
			enc:  "",
			want: nil,
		},
		"hex": {
			enc:  "0102030405060708090A0B0C0D0E0F1011121314",
			want: Address{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20},
		},
		"wrong length": {
			enc:     "0102",
			wantErr: errors.ErrInput,
		},
		"unknown format": {
			enc:     "base64:AQID",
			wantErr: errors.ErrType,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := ParseAddress(tc.enc)
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
				return
			}
			assert.Nil(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestAccountSerialization(t *testing.T) {
	acct := &Account{
		Owner:    ProgramID("escrow"),
		Lamports: 1461600,
		Data:     []byte{1, 2, 3},
	}
	raw, err := acct.Marshal()
	assert.Nil(t, err)
	assert.Equal(t, accountHeaderLen+3, len(raw))

	var got Account
	assert.Nil(t, got.Unmarshal(raw))
	assert.Equal(t, acct, &got)

	// truncated data
	assert.IsErr(t, errors.ErrModel, got.Unmarshal(raw[:len(raw)-1]))
	// header only
	assert.IsErr(t, errors.ErrModel, got.Unmarshal(raw[:10]))

	_, err = (&Account{}).Marshal()
	assert.IsErr(t, errors.ErrModel, err)
}

func TestAccountClone(t *testing.T) {
	acct := &Account{Owner: SystemProgramID, Lamports: 5, Data: []byte{7}}
	cpy := acct.Clone()
	cpy.Data[0] = 9
	cpy.Lamports = 1
	assert.Equal(t, []byte{7}, acct.Data)
	assert.Equal(t, uint64(5), acct.Lamports)
}
