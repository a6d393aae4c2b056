package iavl

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/iov-one/ledger/ledgertest/assert"
	"github.com/iov-one/ledger/store"
	dbm "github.com/tendermint/tendermint/libs/db"
)

// makeBase returns the base layer
//
// If you want to test a different kvstore implementation
// you can copy most of these tests and change makeBase.
// Once that passes, customize and extend as you wish
func makeBase() (store.CacheableKVStore, func()) {
	commit, close := makeCommitStore()
	return commit.Adapter(), close
}

func makeCommitStore() (CommitStore, func()) {
	tmpDir, err := ioutil.TempDir("", "iavl-adapter-")
	if err != nil {
		panic(err)
	}
	close := func() { os.RemoveAll(tmpDir) }
	commit := NewCommitStore(tmpDir, "base")
	return commit, close
}

var suite = store.NewTestSuite(makeBase)

func TestIAVLCacheGetSet(t *testing.T)          { suite.GetSet(t) }
func TestIAVLCacheConflicts(t *testing.T)       { suite.CacheConflicts(t) }
func TestIAVLIterateRanges(t *testing.T)        { suite.IterateRanges(t) }
func TestIAVLIterateWithConflicts(t *testing.T) { suite.IterateWithConflicts(t) }

// TestCommitOverwrite checks that we commit properly
// and can add/overwrite/query in the next adapter
func TestCommitOverwrite(t *testing.T) {
	commit, close := makeCommitStore()
	defer close()

	id, err := commit.LatestVersion()
	assert.Nil(t, err)
	assert.Equal(t, int64(0), id.Version)
	if len(id.Hash) != 0 {
		t.Fatal("hash is not empty")
	}

	parent := commit.CacheWrap()
	assert.Nil(t, parent.Set([]byte("alice"), []byte("10")))
	assert.Nil(t, parent.Set([]byte("bob"), []byte("20")))
	assert.Nil(t, parent.Write())
	id, err = commit.Commit()
	assert.Nil(t, err)
	assert.Equal(t, int64(1), id.Version)
	if len(id.Hash) == 0 {
		t.Fatal("hash is empty")
	}

	child := commit.CacheWrap()
	assert.Nil(t, child.Set([]byte("alice"), []byte("5")))
	assert.Nil(t, child.Delete([]byte("bob")))

	// a side cache wrap sees the committed state only
	side := commit.CacheWrap()
	suite.AssertGetHas(t, side, []byte("alice"), []byte("10"), true)
	suite.AssertGetHas(t, side, []byte("bob"), []byte("20"), true)

	assert.Nil(t, child.Write())
	suite.AssertGetHas(t, side, []byte("alice"), []byte("5"), true)
	suite.AssertGetHas(t, side, []byte("bob"), nil, false)

	id, err = commit.Commit()
	assert.Nil(t, err)
	assert.Equal(t, int64(2), id.Version)

	got, err := commit.Get([]byte("alice"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("5"), got)
}

func TestCommitStoreReload(t *testing.T) {
	db := dbm.NewMemDB()
	commit := NewCommitStoreFromDB(db)
	cache := commit.CacheWrap()
	assert.Nil(t, cache.Set([]byte("escrow"), []byte{1}))
	assert.Nil(t, cache.Write())
	first, err := commit.Commit()
	assert.Nil(t, err)

	// a fresh tree over the same database must see the same state
	reloaded := NewCommitStoreFromDB(db)
	assert.Nil(t, reloaded.LoadLatestVersion())
	latest, err := reloaded.LatestVersion()
	assert.Nil(t, err)
	assert.Equal(t, first.Version, latest.Version)
	assert.Equal(t, first.Hash, latest.Hash)

	got, err := reloaded.Get([]byte("escrow"))
	assert.Nil(t, err)
	assert.Equal(t, []byte{1}, got)
}
