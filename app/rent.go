package app

import (
	"encoding/binary"
	"math"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/gconf"
)

const (
	// AccountStorageOverhead is the number of bytes charged for every
	// account in addition to its data.
	AccountStorageOverhead = 128

	// RentLen is the size of the rent sysvar account data.
	RentLen = 16

	rentConfKey = "rent"
)

// SysvarProgramID owns all sysvar accounts.
var SysvarProgramID = ledger.SysvarProgramID

// DefaultRent is used when the genesis does not configure rent.
var DefaultRent = Rent{
	LamportsPerByteYear: 3480,
	ExemptionThreshold:  2,
}

// Rent is the price of keeping data on the ledger. An account holding at
// least MinimumBalance lamports is exempt from rent and lives forever.
type Rent struct {
	LamportsPerByteYear uint64 `json:"lamports_per_byte_year"`
	// ExemptionThreshold is the number of years of rent an account must
	// hold to be exempt.
	ExemptionThreshold uint64 `json:"exemption_threshold"`
}

var _ gconf.Configuration = (*Rent)(nil)

// MinimumBalance returns the lamports an account holding dataLen bytes
// needs to be rent exempt.
// The result saturates at math.MaxUint64, so that no balance below it is
// exempt when the product does not fit.
func (r Rent) MinimumBalance(dataLen int) uint64 {
	bal, ok := r.minimumBalance(dataLen)
	if !ok {
		return math.MaxUint64
	}
	return bal
}

func (r Rent) minimumBalance(dataLen int) (uint64, bool) {
	perYear, ok := mulUint64(AccountStorageOverhead+uint64(dataLen), r.LamportsPerByteYear)
	if !ok {
		return 0, false
	}
	return mulUint64(perYear, r.ExemptionThreshold)
}

// mulUint64 returns a*b and false if the product overflows.
func mulUint64(a, b uint64) (uint64, bool) {
	if a != 0 && b > math.MaxUint64/a {
		return 0, false
	}
	return a * b, true
}

// IsExempt returns true if given balance is enough for an account holding
// dataLen bytes.
func (r Rent) IsExempt(lamports uint64, dataLen int) bool {
	return lamports >= r.MinimumBalance(dataLen)
}

// Validate implements gconf.ValidMarshaler.
func (r *Rent) Validate() error {
	if r.LamportsPerByteYear == 0 {
		return errors.Wrap(errors.ErrEmpty, "lamports per byte year")
	}
	if _, ok := r.minimumBalance(ledger.MaxAccountDataLen); !ok {
		return errors.Wrap(errors.ErrOverflow, "minimum balance of the largest account")
	}
	return nil
}

// Marshal returns the sysvar account data layout.
func (r *Rent) Marshal() ([]byte, error) {
	raw := make([]byte, RentLen)
	binary.LittleEndian.PutUint64(raw, r.LamportsPerByteYear)
	binary.LittleEndian.PutUint64(raw[8:], r.ExemptionThreshold)
	return raw, nil
}

// Unmarshal reads the sysvar account data layout.
func (r *Rent) Unmarshal(raw []byte) error {
	if len(raw) != RentLen {
		return errors.Wrapf(errors.ErrInvalidAccountData, "rent is %d bytes", len(raw))
	}
	r.LamportsPerByteYear = binary.LittleEndian.Uint64(raw)
	r.ExemptionThreshold = binary.LittleEndian.Uint64(raw[8:])
	return nil
}

// RentFromAccountInfo loads the rent from the sysvar account passed to a
// program. Any other account is rejected.
func RentFromAccountInfo(info *ledger.AccountInfo) (Rent, error) {
	var r Rent
	if !info.Key.Equals(ledger.SysvarRentID) {
		return r, errors.Wrapf(errors.ErrInput, "%s is not the rent sysvar", info.Key)
	}
	err := r.Unmarshal(info.Data)
	return r, err
}

// RentInitializer publishes the rent sysvar account from the genesis
// configuration conf.rent, falling back to DefaultRent.
type RentInitializer struct{}

var _ ledger.Initializer = RentInitializer{}

// FromGenesis implements ledger.Initializer.
func (RentInitializer) FromGenesis(opts ledger.Options, kv ledger.KVStore) error {
	var r Rent
	switch err := gconf.InitConfig(kv, opts, rentConfKey, &r); {
	case errors.ErrNotFound.Is(err):
		r = DefaultRent
		if err := gconf.Save(kv, rentConfKey, &r); err != nil {
			return err
		}
	case err != nil:
		return err
	}
	return PublishRent(kv, r)
}

// PublishRent writes the rent sysvar account.
func PublishRent(kv ledger.KVStore, r Rent) error {
	raw, err := r.Marshal()
	if err != nil {
		return err
	}
	acc := &ledger.Account{
		Owner: SysvarProgramID,
		// sysvars are never closed
		Lamports: 1,
		Data:     raw,
	}
	return NewAccountBucket().SaveAccount(kv, ledger.SysvarRentID, acc)
}
