package store

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"
	"testing"

	"github.com/iov-one/ledger/ledgertest/assert"
)

// TestSuite runs the same set of checks against any CacheableKVStore
// implementation. Only the constructor of the base layer differs between
// btree_test.go and iavl/adapter_test.go.
//
// Keys and values are shaped like account records so that failures read
// like ledger state.
type TestSuite struct {
	makeBase TestStoreConstructor
}

// TestStoreConstructor returns a fresh, empty store and a function
// releasing its resources.
type TestStoreConstructor func() (base CacheableKVStore, cleanup func())

func NewTestSuite(constructor TestStoreConstructor) *TestSuite {
	return &TestSuite{
		makeBase: constructor,
	}
}

// GetSet checks that writes to a cache wrap are visible to it, are
// hidden from the parent until Write and are dropped by Discard.
func (s *TestSuite) GetSet(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	alice, bob, carol := accountKey(1), accountKey(2), accountKey(3)
	assert.Nil(t, base.Set(alice, balance(10)))

	cache := base.CacheWrap()
	s.AssertGetHas(t, cache, alice, balance(10), true)
	s.AssertGetHas(t, cache, bob, nil, false)

	assert.Nil(t, cache.Set(bob, balance(20)))
	s.AssertGetHas(t, cache, bob, balance(20), true)
	s.AssertGetHas(t, base, bob, nil, false)

	// a nested wrap reads through both layers
	nested := cache.CacheWrap()
	assert.Nil(t, nested.Set(carol, balance(30)))
	s.AssertGetHas(t, nested, alice, balance(10), true)
	s.AssertGetHas(t, nested, bob, balance(20), true)
	s.AssertGetHas(t, cache, carol, nil, false)
	nested.Discard()
	s.AssertGetHas(t, cache, carol, nil, false)

	assert.Nil(t, cache.Write())
	s.AssertGetHas(t, base, alice, balance(10), true)
	s.AssertGetHas(t, base, bob, balance(20), true)
	s.AssertGetHas(t, base, carol, nil, false)
}

// CacheConflicts checks overwrites and deletes of values present in the
// parent store.
func (s *TestSuite) CacheConflicts(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	alice, bob, carol := accountKey(1), accountKey(2), accountKey(3)
	assert.Nil(t, base.Set(alice, balance(10)))
	assert.Nil(t, base.Set(bob, balance(20)))

	cache := base.CacheWrap()
	assert.Nil(t, cache.Set(alice, balance(5)))
	assert.Nil(t, cache.Delete(bob))
	assert.Nil(t, cache.Set(carol, balance(25)))
	// deleting twice and setting after a delete must both work
	assert.Nil(t, cache.Delete(bob))
	assert.Nil(t, cache.Delete(carol))
	assert.Nil(t, cache.Set(carol, balance(15)))

	s.AssertGetHas(t, cache, alice, balance(5), true)
	s.AssertGetHas(t, cache, bob, nil, false)
	s.AssertGetHas(t, cache, carol, balance(15), true)

	s.AssertGetHas(t, base, alice, balance(10), true)
	s.AssertGetHas(t, base, bob, balance(20), true)
	s.AssertGetHas(t, base, carol, nil, false)

	assert.Nil(t, cache.Write())
	s.AssertGetHas(t, base, alice, balance(5), true)
	s.AssertGetHas(t, base, bob, nil, false)
	s.AssertGetHas(t, base, carol, balance(15), true)
}

// IterateRanges checks bounded and unbounded iteration, in both
// directions, over a cache wrap holding writes and deletes on top of
// committed data.
func (s *TestSuite) IterateRanges(t *testing.T) {
	committed := accountModels(0, 10)
	ops := []Op{
		DelOp(accountKey(3)),
		SetOp(accountKey(5), balance(500)),
		SetOp(accountKey(11), balance(1100)),
		DelOp(accountKey(42)),
	}

	cases := map[string]rangeQuery{
		"all":            {},
		"all reversed":   {reverse: true},
		"from start":     {end: accountKey(4)},
		"till end":       {start: accountKey(6)},
		"middle":         {start: accountKey(2), end: accountKey(8)},
		"middle reverse": {start: accountKey(2), end: accountKey(8), reverse: true},
		"cache only":     {start: accountKey(10), end: accountKey(20)},
		"empty":          {start: accountKey(50), end: accountKey(60)},
	}

	for name, q := range cases {
		t.Run(name, func(t *testing.T) {
			base, cleanup := s.makeBase()
			defer cleanup()
			for _, m := range committed {
				assert.Nil(t, base.Set(m.Key, m.Value))
			}
			cache := base.CacheWrap()
			for _, op := range ops {
				assert.Nil(t, op.Apply(cache))
			}
			want := q.filter(applyOps(committed, ops))
			assertIterator(t, cache, q, want)
		})
	}
}

// IterateWithConflicts checks iteration over three stacked cache wraps
// where the same keys are written and deleted at several levels.
func (s *TestSuite) IterateWithConflicts(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	state := accountModels(0, 6)
	for _, m := range state {
		assert.Nil(t, base.Set(m.Key, m.Value))
	}

	layers := [][]Op{
		{DelOp(accountKey(0)), SetOp(accountKey(2), balance(2000)), SetOp(accountKey(7), balance(7))},
		{SetOp(accountKey(0), balance(1)), DelOp(accountKey(2)), DelOp(accountKey(7))},
		{DelOp(accountKey(5)), SetOp(accountKey(3), balance(3000)), SetOp(accountKey(2), balance(2))},
	}

	var kv CacheableKVStore = base
	for _, ops := range layers {
		cache := kv.CacheWrap()
		for _, op := range ops {
			assert.Nil(t, op.Apply(cache))
		}
		state = applyOps(state, ops)
		kv = cache
	}

	all := rangeQuery{}
	assertIterator(t, kv, all, all.filter(state))
	rev := rangeQuery{reverse: true}
	assertIterator(t, kv, rev, rev.filter(state))
}

// AssertGetHas checks both Get and Has of a key.
func (s *TestSuite) AssertGetHas(t testing.TB, kv ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	got, err := kv.Get(key)
	assert.Nil(t, err)
	assert.Equal(t, val, got)
	exists, err := kv.Has(key)
	assert.Nil(t, err)
	assert.Equal(t, has, exists)
}

// rangeQuery describes a single iteration. Nil bounds are open.
type rangeQuery struct {
	start, end []byte
	reverse    bool
}

func (q rangeQuery) contains(key []byte) bool {
	if q.start != nil && bytes.Compare(key, q.start) < 0 {
		return false
	}
	if q.end != nil && bytes.Compare(key, q.end) >= 0 {
		return false
	}
	return true
}

// filter returns models within the range, ordered as the iterator
// must return them.
func (q rangeQuery) filter(models []Model) []Model {
	var res []Model
	for _, m := range sortModels(models) {
		if q.contains(m.Key) {
			res = append(res, m)
		}
	}
	if q.reverse {
		for i, j := 0, len(res)-1; i < j; i, j = i+1, j-1 {
			res[i], res[j] = res[j], res[i]
		}
	}
	return res
}

func assertIterator(t testing.TB, kv ReadOnlyKVStore, q rangeQuery, want []Model) {
	t.Helper()
	var (
		it  Iterator
		err error
	)
	if q.reverse {
		it, err = kv.ReverseIterator(q.start, q.end)
	} else {
		it, err = kv.Iterator(q.start, q.end)
	}
	assert.Nil(t, err)
	defer it.Close()

	var got []Model
	for ; it.Valid(); assert.Nil(t, it.Next()) {
		got = append(got, Pair(it.Key(), it.Value()))
	}
	if len(got) != len(want) {
		t.Fatalf("want %d models, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		assert.Equal(t, want[i].Key, got[i].Key)
		assert.Equal(t, want[i].Value, got[i].Value)
	}
}

// applyOps returns the state resulting from applying ops in order.
func applyOps(state []Model, ops []Op) []Model {
	m := make(map[string][]byte, len(state))
	for _, s := range state {
		m[string(s.Key)] = s.Value
	}
	for _, op := range ops {
		if op.IsSetOp() {
			m[string(op.Key())] = op.Value()
		} else {
			delete(m, string(op.Key()))
		}
	}
	res := make([]Model, 0, len(m))
	for k, v := range m {
		res = append(res, Pair([]byte(k), v))
	}
	return sortModels(res)
}

// sortModels returns a copy of the models sorted by key
func sortModels(models []Model) []Model {
	res := make([]Model, len(models))
	copy(res, models)
	sort.Slice(res, func(i, j int) bool {
		return bytes.Compare(res[i].Key, res[j].Key) < 0
	})
	return res
}

func accountModels(from, to int) []Model {
	var res []Model
	for i := from; i < to; i++ {
		res = append(res, Pair(accountKey(i), balance(uint64(i*100))))
	}
	return res
}

func accountKey(i int) []byte {
	return []byte(fmt.Sprintf("acct:%04d", i))
}

func balance(lamports uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], lamports)
	return b[:]
}
