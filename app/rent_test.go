package app

import (
	"math"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/gconf"
	"github.com/iov-one/ledger/ledgertest/assert"
	"github.com/iov-one/ledger/store"
)

func TestRentMinimumBalance(t *testing.T) {
	r := Rent{LamportsPerByteYear: 10, ExemptionThreshold: 2}
	assert.Equal(t, uint64(2560), r.MinimumBalance(0))
	assert.Equal(t, uint64(3940), r.MinimumBalance(69))
	assert.Equal(t, true, r.IsExempt(3940, 69))
	assert.Equal(t, false, r.IsExempt(3939, 69))

	// a product that does not fit saturates instead of wrapping around
	huge := Rent{LamportsPerByteYear: 1 << 63, ExemptionThreshold: 2}
	assert.Equal(t, uint64(math.MaxUint64), huge.MinimumBalance(69))
	assert.Equal(t, false, huge.IsExempt(1, 69))
	assert.Equal(t, false, huge.IsExempt(math.MaxUint64-1, 0))
	assert.IsErr(t, errors.ErrOverflow, huge.Validate())

	// fits for small accounts but not for the largest one
	big := Rent{LamportsPerByteYear: math.MaxUint64 / 200, ExemptionThreshold: 1}
	assert.Equal(t, uint64(197*(math.MaxUint64/200)), big.MinimumBalance(69))
	assert.IsErr(t, errors.ErrOverflow, big.Validate())

	assert.Nil(t, DefaultRent.Validate())
}

func TestRentInitializer(t *testing.T) {
	cases := map[string]struct {
		opts    ledger.Options
		want    Rent
		wantErr *errors.Error
	}{
		"default rent": {
			opts: ledger.Options{},
			want: DefaultRent,
		},
		"configured rent": {
			opts: ledger.Options{
				"conf": []byte(`{"rent": {"lamports_per_byte_year": 1, "exemption_threshold": 3}}`),
			},
			want: Rent{LamportsPerByteYear: 1, ExemptionThreshold: 3},
		},
		"overflowing rent": {
			opts: ledger.Options{
				"conf": []byte(`{"rent": {"lamports_per_byte_year": 9223372036854775808, "exemption_threshold": 2}}`),
			},
			wantErr: errors.ErrOverflow,
		},
		"invalid rent": {
			opts: ledger.Options{
				"conf": []byte(`{"rent": {"exemption_threshold": 3}}`),
			},
			wantErr: errors.ErrEmpty,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			err := RentInitializer{}.FromGenesis(tc.opts, db)
			assert.IsErr(t, tc.wantErr, err)
			if tc.wantErr != nil {
				return
			}

			var conf Rent
			assert.Nil(t, gconf.Load(db, rentConfKey, &conf))
			assert.Equal(t, tc.want, conf)

			acc, err := NewAccountBucket().GetAccount(db, ledger.SysvarRentID)
			assert.Nil(t, err)
			info := &ledger.AccountInfo{Key: ledger.SysvarRentID, Account: acc}
			got, err := RentFromAccountInfo(info)
			assert.Nil(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRentFromAccountInfo(t *testing.T) {
	raw, err := DefaultRent.Marshal()
	assert.Nil(t, err)

	other := &ledger.AccountInfo{
		Key:     testAddr("fake rent"),
		Account: &ledger.Account{Owner: SysvarProgramID, Lamports: 1, Data: raw},
	}
	_, err = RentFromAccountInfo(other)
	assert.IsErr(t, errors.ErrInput, err)

	short := &ledger.AccountInfo{
		Key:     ledger.SysvarRentID,
		Account: &ledger.Account{Owner: SysvarProgramID, Lamports: 1, Data: raw[:8]},
	}
	_, err = RentFromAccountInfo(short)
	assert.IsErr(t, errors.ErrInvalidAccountData, err)
}
