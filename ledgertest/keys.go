package ledgertest

import (
	"fmt"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/crypto"
)

// testSeed is the master seed all derived test keys come from.
var testSeed = []byte("ledgertest master seed, never use outside of tests")

// NewKey returns a new random private key.
func NewKey() crypto.PrivateKey {
	return crypto.GenPrivKeyEd25519()
}

// DeriveKey returns the deterministic key at given index. The same index
// always returns the same key.
func DeriveKey(t testing.TB, index uint32) crypto.PrivateKey {
	t.Helper()
	key, err := crypto.DeriveKey(testSeed, fmt.Sprintf("m/44'/234'/%d'", index))
	if err != nil {
		t.Fatalf("cannot derive key %d: %s", index, err)
	}
	return key
}

// NewCondition returns the condition of a random key.
func NewCondition() ledger.Condition {
	return NewKey().PublicKey().Condition()
}
