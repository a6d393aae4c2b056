package app

import (
	"bytes"
	"math/big"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

// frame is a single program call together with the state of its accounts
// when the program last got control.
type frame struct {
	program ledger.Address
	infos   []*ledger.AccountInfo
	pre     []accountState
}

// accountState is the snapshot of an account and the privileges the
// program was given for it.
type accountState struct {
	key        ledger.Address
	acc        *ledger.Account
	snapshot   *ledger.Account
	isSigner   bool
	isWritable bool
}

func newFrame(program ledger.Address, infos []*ledger.AccountInfo) *frame {
	f := &frame{program: program, infos: infos}
	f.checkpoint()
	return f
}

// checkpoint takes a new snapshot of all accounts of the frame.
// Accounts referenced more than once share privileges.
func (f *frame) checkpoint() {
	f.pre = f.pre[:0]
	for _, info := range f.infos {
		if st := f.lookup(info.Key); st != nil {
			st.isSigner = st.isSigner || info.IsSigner
			st.isWritable = st.isWritable || info.IsWritable
			continue
		}
		f.pre = append(f.pre, accountState{
			key:        info.Key,
			acc:        info.Account,
			snapshot:   info.Account.Clone(),
			isSigner:   info.IsSigner,
			isWritable: info.IsWritable,
		})
	}
}

// lookup returns the state of given account, or nil if the frame does not
// reference it.
func (f *frame) lookup(key ledger.Address) *accountState {
	for i := range f.pre {
		if f.pre[i].key.Equals(key) {
			return &f.pre[i]
		}
	}
	return nil
}

// verify checks every change made to the accounts since the last
// checkpoint:
//   - native balances are conserved
//   - read only accounts are unchanged
//   - only the owner may debit lamports or modify data
//   - ownership moves only from the caller and only for empty data
//   - executable flag never changes
func (f *frame) verify() error {
	before, after := new(big.Int), new(big.Int)
	for i := range f.pre {
		st := &f.pre[i]
		before.Add(before, new(big.Int).SetUint64(st.snapshot.Lamports))
		after.Add(after, new(big.Int).SetUint64(st.acc.Lamports))
		if err := f.verifyAccount(st); err != nil {
			return errors.Wrapf(err, "account %s", st.key)
		}
	}
	if before.Cmp(after) != 0 {
		return errors.Wrapf(errors.ErrUnbalancedTx, "program %s: %s before, %s after", f.program, before, after)
	}
	return nil
}

func (f *frame) verifyAccount(st *accountState) error {
	pre, post := st.snapshot, st.acc
	ownerChanged := !pre.Owner.Equals(post.Owner)
	dataChanged := !bytes.Equal(pre.Data, post.Data)
	lamportsChanged := pre.Lamports != post.Lamports

	if pre.Executable != post.Executable {
		return errors.Wrap(errors.ErrExternalModification, "executable flag changed")
	}
	if !st.isWritable {
		if ownerChanged || dataChanged || lamportsChanged {
			return errors.Wrap(errors.ErrExternalModification, "read only account modified")
		}
		return nil
	}
	isOwner := pre.Owner.Equals(f.program)
	if ownerChanged {
		if !isOwner {
			return errors.Wrap(errors.ErrExternalModification, "owner changed by a foreign program")
		}
		if !isZeroed(post.Data) {
			return errors.Wrap(errors.ErrExternalModification, "owner changed for an account holding data")
		}
	}
	if post.Lamports < pre.Lamports && !isOwner {
		return errors.Wrap(errors.ErrExternalModification, "lamports debited by a foreign program")
	}
	if dataChanged && !isOwner {
		return errors.Wrap(errors.ErrExternalModification, "data modified by a foreign program")
	}
	return nil
}

func isZeroed(data []byte) bool {
	for _, b := range data {
		if b != 0 {
			return false
		}
	}
	return true
}
