package ledger

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/iov-one/ledger/errors"
)

var (
	// it must have (?s) flags, otherwise it errors when last section contains 0x20 (newline)
	perm = regexp.MustCompile(`(?s)^([a-zA-Z0-9_\-]{3,8})/([a-zA-Z0-9_\-]{3,8})/(.+)$`)
)

// Condition is a specially formatted array, containing
// information on who can authorize an action.
// It is of the format:
//
//   sprintf("%s/%s/%s", extension, type, data)
//
// The address of a condition is a one way digest. Only conditions built
// from a public key have a private key that can sign for them, every other
// condition can only be fulfilled by the code that knows how to build it.
type Condition []byte

// NewCondition builds a condition from its sections.
func NewCondition(ext, typ string, data []byte) Condition {
	pre := fmt.Sprintf("%s/%s/", ext, typ)
	return append([]byte(pre), data...)
}

// Parse will extract the sections from the Condition bytes
// and verify it is properly formatted
func (c Condition) Parse() (string, string, []byte, error) {
	chunks := perm.FindSubmatch(c)
	if len(chunks) == 0 {
		return "", "", nil, errors.Wrapf(errors.ErrInput, "condition: %X", []byte(c))
	}
	// returns [all, match1, match2, match3]
	return string(chunks[1]), string(chunks[2]), chunks[3], nil
}

// Address will convert a Condition into an Address
func (c Condition) Address() Address {
	return NewAddress(c)
}

// Equals checks if two permissions are the same
func (c Condition) Equals(b Condition) bool {
	return bytes.Equal(c, b)
}

// String returns a human readable string.
// We keep the extension and type in ascii and
// hex-encode the binary data
func (c Condition) String() string {
	ext, typ, data, err := c.Parse()
	if err != nil {
		return fmt.Sprintf("Invalid Condition: %X", []byte(c))
	}
	return fmt.Sprintf("%s/%s/%X", ext, typ, data)
}

// Validate returns an error if the Condition is not the proper format
func (c Condition) Validate() error {
	if !perm.Match(c) {
		return errors.Wrapf(errors.ErrInput, "condition: %X", []byte(c))
	}
	return nil
}

// MarshalJSON returns the human readable form of the condition.
func (c Condition) MarshalJSON() ([]byte, error) {
	var serialized string
	if c != nil {
		serialized = c.String()
	}
	return json.Marshal(serialized)
}

// UnmarshalJSON parses the human readable form of the condition.
func (c *Condition) UnmarshalJSON(raw []byte) error {
	var enc string
	if err := json.Unmarshal(raw, &enc); err != nil {
		return errors.Wrap(err, "cannot decode json")
	}
	return c.deserialize(enc)
}

// deserialize from human readable string.
func (c *Condition) deserialize(source string) error {
	// No value zero the address.
	if len(source) == 0 {
		*c = nil
		return nil
	}

	args := strings.Split(source, "/")
	if len(args) != 3 {
		return errors.Wrap(errors.ErrInput, "invalid condition format")
	}
	data, err := hex.DecodeString(args[2])
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "malformed condition data: %s", err)
	}
	*c = NewCondition(args[0], args[1], data)
	return nil
}

// ProgramID returns the well known identity of a program registered under
// given name.
func ProgramID(name string) Address {
	return NewCondition("program", "name", []byte(name)).Address()
}

// SysvarID returns the identity of a runtime published account.
func SysvarID(name string) Address {
	return NewCondition("sysvar", "name", []byte(name)).Address()
}

var (
	// SystemProgramID owns every account that was not assigned to any
	// other program.
	SystemProgramID = ReserveAddress(ProgramID("system"))

	// SysvarProgramID owns all sysvar accounts.
	SysvarProgramID = ReserveAddress(ProgramID("sysvar"))

	// SysvarRentID is the account holding the rent configuration.
	SysvarRentID = ReserveAddress(SysvarID("rent"))
)

// reservedAddrs holds identities of programs and sysvars. Program address
// derivation never returns any of them.
var reservedAddrs = make(map[string]struct{})

// ReserveAddress excludes given address from program address derivation
// and returns it. Call it when declaring a program or sysvar identity,
// during package initialization.
func ReserveAddress(addr Address) Address {
	if err := addr.Validate(); err != nil {
		panic(err)
	}
	reservedAddrs[string(addr)] = struct{}{}
	return addr
}

const (
	// MaxSeeds is the maximum number of seeds accepted by program address
	// derivation, including the bump seed.
	MaxSeeds = 16
	// MaxSeedLen is the maximum length of a single seed.
	MaxSeedLen = 32
)

// ProgramCondition returns the condition that only given program can
// fulfill, using the seeds as a capability. Seeds are length prefixed so that
// two different seed lists never collide.
func ProgramCondition(seeds [][]byte, program Address) (Condition, error) {
	if len(seeds) > MaxSeeds {
		return nil, errors.Wrapf(errors.ErrInvalidSeeds, "%d seeds, max %d", len(seeds), MaxSeeds)
	}
	if err := program.Validate(); err != nil {
		return nil, errors.Wrap(err, "program")
	}
	data := make([]byte, 0, AddressLength+len(seeds)*(MaxSeedLen+1))
	data = append(data, program...)
	for i, s := range seeds {
		if len(s) > MaxSeedLen {
			return nil, errors.Wrapf(errors.ErrInvalidSeeds, "seed %d is %d bytes, max %d", i, len(s), MaxSeedLen)
		}
		data = append(data, byte(len(s)))
		data = append(data, s...)
	}
	return NewCondition("pda", "derived", data), nil
}

// CreateProgramAddress returns the address derived from given seeds and
// program identity. No private key exists for the returned address, only
// the program itself can sign for it by presenting the same seeds to the
// runtime.
func CreateProgramAddress(seeds [][]byte, program Address) (Address, error) {
	cond, err := ProgramCondition(seeds, program)
	if err != nil {
		return nil, err
	}
	addr := cond.Address()
	if isReserved(addr) {
		return nil, errors.Wrapf(errReservedAddress, "address %s", addr)
	}
	return addr, nil
}

// errReservedAddress is never returned outside of this package, it is always
// wrapped by ErrInvalidSeeds.
var errReservedAddress = errors.Wrap(errors.ErrInvalidSeeds, "reserved address")

// FindProgramAddress finds a valid program address together with the bump
// seed that has to be appended to given seeds in order to recreate it. Bumps
// are tried starting from 255 down to 0 and the first viable one wins, so the
// result is deterministic.
func FindProgramAddress(seeds [][]byte, program Address) (Address, uint8, error) {
	if len(seeds) >= MaxSeeds {
		return nil, 0, errors.Wrapf(errors.ErrInvalidSeeds, "%d seeds leave no room for the bump", len(seeds))
	}
	withBump := make([][]byte, len(seeds)+1)
	copy(withBump, seeds)
	for bump := 255; bump >= 0; bump-- {
		withBump[len(seeds)] = []byte{uint8(bump)}
		addr, err := CreateProgramAddress(withBump, program)
		if err == nil {
			return addr, uint8(bump), nil
		}
		if !isReservedErr(err) {
			// Seeds themselves are invalid, no bump can fix that.
			return nil, 0, err
		}
	}
	return nil, 0, errors.Wrap(errors.ErrInvalidSeeds, "unable to find a viable program address bump seed")
}

func isReservedErr(err error) bool {
	for err != nil {
		if err == errReservedAddress {
			return true
		}
		c, ok := err.(interface{ Cause() error })
		if !ok {
			return false
		}
		err = c.Cause()
	}
	return false
}

func isReserved(addr Address) bool {
	_, ok := reservedAddrs[string(addr)]
	return ok
}
