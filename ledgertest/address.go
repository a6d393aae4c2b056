package ledgertest

import (
	"crypto/rand"
	"encoding/hex"
	"testing"

	"github.com/iov-one/ledger"
)

// ParseAddress takes an address in a human readable format and returns its
// binary representation.
func ParseAddress(t testing.TB, encodedAddress string) ledger.Address {
	t.Helper()

	addr, err := ledger.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}

// RandomAddr returns a valid random address generated on the fly.
func RandomAddr(t testing.TB) ledger.Address {
	raw := make([]byte, ledger.AddressLength)
	if _, err := rand.Read(raw); err != nil {
		t.Fatalf("cannot generate a random address: %s", err)
	}
	return ledger.Address(raw)
}

// DecodeAddr takes a hex encoded address string and returns its raw
// representation, ensuring it is a valid address.
func DecodeAddr(t testing.TB, encoded string) ledger.Address {
	t.Helper()
	raw, err := hex.DecodeString(encoded)
	if err != nil {
		t.Fatalf("cannot decode hex string: %s", err)
	}
	a := ledger.Address(raw)
	if err := a.Validate(); err != nil {
		t.Fatalf("decoded string is not a valid address: %s", err)
	}
	return a
}

// NamedAddr returns a stable address for given name. Use it to give test
// accounts readable identities.
func NamedAddr(name string) ledger.Address {
	return ledger.NewCondition("test", "addr", []byte(name)).Address()
}
