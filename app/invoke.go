package app

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

// invoker is handed to a program for the duration of a single call and
// allows it to call other programs with the accounts it received.
type invoker struct {
	exec  *execution
	frame *frame
	depth int
}

var _ ledger.Invoker = (*invoker)(nil)

// Invoke implements ledger.Invoker.
func (inv *invoker) Invoke(ctx ledger.Context, ix ledger.Instruction, accounts []*ledger.AccountInfo) error {
	return inv.invoke(ctx, ix, accounts, nil)
}

// InvokeSigned implements ledger.Invoker.
func (inv *invoker) InvokeSigned(ctx ledger.Context, ix ledger.Instruction, accounts []*ledger.AccountInfo, signerSeeds [][][]byte) error {
	pdas := make([]ledger.Address, 0, len(signerSeeds))
	for _, seeds := range signerSeeds {
		addr, err := ledger.CreateProgramAddress(seeds, inv.frame.program)
		if err != nil {
			return errors.Wrap(err, "signer seeds")
		}
		pdas = append(pdas, addr)
	}
	return inv.invoke(ctx, ix, accounts, pdas)
}

func (inv *invoker) invoke(ctx ledger.Context, ix ledger.Instruction, accounts []*ledger.AccountInfo, pdas []ledger.Address) error {
	if err := ix.Validate(); err != nil {
		return err
	}
	callee := make([]*ledger.AccountInfo, len(ix.Accounts))
	for i, meta := range ix.Accounts {
		if ledger.FindAccount(accounts, meta.Address) == nil {
			return errors.Wrapf(errors.ErrNotEnoughAccountKeys, "account %s not passed to the call", meta.Address)
		}
		st := inv.frame.lookup(meta.Address)
		if st == nil {
			return errors.Wrapf(errors.ErrNotEnoughAccountKeys, "account %s not available to the caller", meta.Address)
		}
		if meta.IsWritable && !st.isWritable {
			return errors.Wrapf(errors.ErrPrivilegeEscalation, "account %s is read only", meta.Address)
		}
		if meta.IsSigner && !st.isSigner && !containsAddress(pdas, meta.Address) {
			return errors.Wrapf(errors.ErrMissingSignature, "account %s", meta.Address)
		}
		callee[i] = &ledger.AccountInfo{
			Key:        meta.Address,
			IsSigner:   meta.IsSigner,
			IsWritable: meta.IsWritable,
			Account:    st.acc,
		}
	}

	// Changes made by the caller so far are validated against its own
	// privileges before the callee takes over.
	if err := inv.frame.verify(); err != nil {
		return err
	}
	if err := inv.exec.call(ctx, ix.ProgramID, callee, ix.Data, inv.depth+1); err != nil {
		return err
	}
	inv.frame.checkpoint()
	return nil
}

func containsAddress(list []ledger.Address, addr ledger.Address) bool {
	for _, a := range list {
		if a.Equals(addr) {
			return true
		}
	}
	return false
}
