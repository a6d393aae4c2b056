package gconf

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/ledgertest/assert"
	"github.com/iov-one/ledger/store"
	amino "github.com/tendermint/go-amino"
)

type myConfig struct {
	Number int64          `json:"number"`
	Text   string         `json:"text"`
	Addr   ledger.Address `json:"addr"`
}

func (c *myConfig) Marshal() ([]byte, error) {
	return amino.MarshalBinaryBare(c)
}

func (c *myConfig) Unmarshal(raw []byte) error {
	return amino.UnmarshalBinaryBare(raw, c)
}

func (c *myConfig) Validate() error {
	if c.Number < 0 {
		return errors.Wrap(errors.ErrInput, "number")
	}
	return c.Addr.Validate()
}

func TestSaveLoad(t *testing.T) {
	addr := ledger.NewAddress([]byte("owner"))
	cases := map[string]struct {
		Conf        *myConfig
		WantSaveErr *errors.Error
	}{
		"valid": {
			Conf: &myConfig{Number: 852151421, Text: "foobar", Addr: addr},
		},
		"invalid address cannot be saved": {
			Conf:        &myConfig{Addr: ledger.Address("too short")},
			WantSaveErr: errors.ErrInput,
		},
		"negative number cannot be saved": {
			Conf:        &myConfig{Number: -1, Addr: addr},
			WantSaveErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			if err := Save(db, "mine", tc.Conf); !tc.WantSaveErr.Is(err) {
				t.Fatalf("unexpected save error: %s", err)
			}
			if tc.WantSaveErr != nil {
				return
			}

			var got myConfig
			assert.Nil(t, Load(db, "mine", &got))
			assert.Equal(t, tc.Conf, &got)
		})
	}
}

func TestLoadMissing(t *testing.T) {
	db := store.MemStore()
	var got myConfig
	assert.IsErr(t, errors.ErrNotFound, Load(db, "mine", &got))
}

func TestInitConfig(t *testing.T) {
	addr := ledger.NewAddress([]byte("owner"))
	conf, err := json.Marshal(map[string]interface{}{
		"mine": myConfig{Number: 3, Text: "x", Addr: addr},
	})
	assert.Nil(t, err)
	opts := ledger.Options{"conf": conf}

	db := store.MemStore()
	var got myConfig
	assert.Nil(t, InitConfig(db, opts, "mine", &got))

	var loaded myConfig
	assert.Nil(t, Load(db, "mine", &loaded))
	assert.Equal(t, int64(3), loaded.Number)
	assert.Equal(t, addr, loaded.Addr)

	err = InitConfig(db, opts, "other", &got)
	assert.IsErr(t, errors.ErrNotFound, err)
}
