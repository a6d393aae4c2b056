package orm

import (
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/ledgertest/assert"
	"github.com/iov-one/ledger/store"
)

func TestPrefixRange(t *testing.T) {
	cases := map[string]struct {
		prefix []byte
		end    []byte
	}{
		"bucket prefix":   {[]byte("acct:"), []byte("acct;")},
		"single byte":     {[]byte{79}, []byte{80}},
		"whole store":     {nil, nil},
		"trailing 0xff":   {[]byte{17, 28, 255}, []byte{17, 29}},
		"several 0xff":    {[]byte{15, 42, 255, 255}, []byte{15, 43}},
		"no end of range": {[]byte{255, 255, 255, 255}, nil},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			start, end := PrefixRange(tc.prefix)
			assert.Equal(t, tc.prefix, start)
			assert.Equal(t, tc.end, end)
		})
	}
}

func TestQueryPrefix(t *testing.T) {
	alice := ledger.Pair([]byte("acct:alice"), []byte{1})
	bob := ledger.Pair([]byte("acct:bob"), []byte{2})
	seq := ledger.Pair([]byte("sigs:alice"), []byte{3})
	high := ledger.Pair([]byte{0xff, 0xff, 0x01}, []byte{4})

	cases := map[string]struct {
		models []ledger.Model
		prefix []byte
		want   []ledger.Model
	}{
		"empty store":       {nil, []byte("acct:"), nil},
		"bucket":            {[]ledger.Model{seq, bob, alice, high}, []byte("acct:"), []ledger.Model{alice, bob}},
		"single key":        {[]ledger.Model{seq, bob, alice, high}, []byte("acct:b"), []ledger.Model{bob}},
		"no match":          {[]ledger.Model{seq, bob, alice, high}, []byte("esc:"), nil},
		"range without end": {[]ledger.Model{seq, bob, alice, high}, []byte{0xff, 0xff}, []ledger.Model{high}},
		"whole store":       {[]ledger.Model{seq, bob, alice, high}, nil, []ledger.Model{alice, bob, seq, high}},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			for _, m := range tc.models {
				assert.Nil(t, db.Set(m.Key, m.Value))
			}

			res, err := QueryPrefix(db, tc.prefix)
			assert.Nil(t, err)
			assert.Equal(t, tc.want, res)
		})
	}
}
