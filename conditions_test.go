package ledger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/ledgertest/assert"
)

func TestConditionParse(t *testing.T) {
	cases := map[string]struct {
		cond    ledger.Condition
		wantExt string
		wantTyp string
		wantErr *errors.Error
	}{
		"signature condition": {
			cond:    ledger.NewCondition("sigs", "ed25519", []byte{1, 2, 3}),
			wantExt: "sigs",
			wantTyp: "ed25519",
		},
		"data with a newline": {
			cond:    ledger.NewCondition("pda", "derived", []byte("a\nb")),
			wantExt: "pda",
			wantTyp: "derived",
		},
		"extension too short": {
			cond:    ledger.NewCondition("ab", "derived", []byte{1}),
			wantErr: errors.ErrInput,
		},
		"missing data": {
			cond:    ledger.Condition("sigs/ed25519/"),
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			ext, typ, _, err := tc.cond.Parse()
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
				assert.IsErr(t, tc.wantErr, tc.cond.Validate())
				return
			}
			assert.Nil(t, err)
			assert.Nil(t, tc.cond.Validate())
			assert.Equal(t, tc.wantExt, ext)
			assert.Equal(t, tc.wantTyp, typ)
		})
	}
}

func TestConditionJSON(t *testing.T) {
	cond := ledger.NewCondition("sigs", "ed25519", []byte{0xAB, 0x01})
	raw, err := json.Marshal(cond)
	assert.Nil(t, err)
	assert.Equal(t, `"sigs/ed25519/AB01"`, string(raw))

	var got ledger.Condition
	assert.Nil(t, json.Unmarshal(raw, &got))
	assert.Equal(t, cond, got)

	addr, err := ledger.ParseAddress("cond:sigs/ed25519/AB01")
	assert.Nil(t, err)
	assert.Equal(t, cond.Address(), addr)
}

func TestBuiltinIdentities(t *testing.T) {
	ids := []ledger.Address{
		ledger.SystemProgramID,
		ledger.SysvarProgramID,
		ledger.SysvarRentID,
		ledger.ProgramID("token"),
		ledger.ProgramID("escrow"),
	}
	for i, a := range ids {
		assert.Nil(t, a.Validate())
		for _, b := range ids[i+1:] {
			if a.Equals(b) {
				t.Fatalf("identity collision: %s", a)
			}
		}
	}
	// derivation is stable
	assert.Equal(t, ledger.ProgramID("escrow"), ledger.ProgramID("escrow"))
}

func TestFindProgramAddress(t *testing.T) {
	program := ledger.ProgramID("escrow")
	seeds := [][]byte{[]byte("escrow")}

	addr, bump, err := ledger.FindProgramAddress(seeds, program)
	assert.Nil(t, err)
	assert.Nil(t, addr.Validate())

	// deterministic
	again, againBump, err := ledger.FindProgramAddress(seeds, program)
	assert.Nil(t, err)
	assert.Equal(t, addr, again)
	assert.Equal(t, bump, againBump)

	// the bump recreates the address
	created, err := ledger.CreateProgramAddress([][]byte{[]byte("escrow"), {bump}}, program)
	assert.Nil(t, err)
	assert.Equal(t, addr, created)

	// other program, other address
	other, _, err := ledger.FindProgramAddress(seeds, ledger.ProgramID("token"))
	assert.Nil(t, err)
	if addr.Equals(other) {
		t.Fatal("two programs derived the same address")
	}

	// seeds are length prefixed, so splitting them changes the address
	split, _, err := ledger.FindProgramAddress([][]byte{[]byte("esc"), []byte("row")}, program)
	assert.Nil(t, err)
	if addr.Equals(split) {
		t.Fatal("split seeds derived the same address")
	}
}

func TestFindProgramAddressSkipsReserved(t *testing.T) {
	program := ledger.ProgramID("escrow")
	seeds := [][]byte{[]byte("reserved identity")}

	first, firstBump, err := ledger.FindProgramAddress(seeds, program)
	assert.Nil(t, err)

	// once the address identifies a program, the next bump is used
	assert.Equal(t, first, ledger.ReserveAddress(first))
	_, err = ledger.CreateProgramAddress([][]byte{seeds[0], {firstBump}}, program)
	assert.IsErr(t, errors.ErrInvalidSeeds, err)

	next, nextBump, err := ledger.FindProgramAddress(seeds, program)
	assert.Nil(t, err)
	if next.Equals(first) {
		t.Fatal("reserved address derived")
	}
	if nextBump >= firstBump {
		t.Fatalf("want a bump below %d, got %d", firstBump, nextBump)
	}

	assert.Panics(t, func() { ledger.ReserveAddress(ledger.Address("short")) })
}

func TestProgramAddressSeedLimits(t *testing.T) {
	program := ledger.ProgramID("escrow")

	_, err := ledger.CreateProgramAddress([][]byte{bytes.Repeat([]byte{1}, ledger.MaxSeedLen+1)}, program)
	assert.IsErr(t, errors.ErrInvalidSeeds, err)

	_, err = ledger.CreateProgramAddress(make([][]byte, ledger.MaxSeeds+1), program)
	assert.IsErr(t, errors.ErrInvalidSeeds, err)

	// The bump needs one seed slot.
	_, _, err = ledger.FindProgramAddress(make([][]byte, ledger.MaxSeeds), program)
	assert.IsErr(t, errors.ErrInvalidSeeds, err)

	_, _, err = ledger.FindProgramAddress([][]byte{bytes.Repeat([]byte{1}, ledger.MaxSeedLen+1)}, program)
	assert.IsErr(t, errors.ErrInvalidSeeds, err)

	_, err = ledger.CreateProgramAddress([][]byte{[]byte("escrow")}, ledger.Address("short"))
	assert.IsErr(t, errors.ErrInput, err)

	// Exactly at the limits works.
	_, err = ledger.CreateProgramAddress([][]byte{bytes.Repeat([]byte{1}, ledger.MaxSeedLen)}, program)
	assert.Nil(t, err)
}
