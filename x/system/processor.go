package system

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

// Program is the system program. Register it under ledger.SystemProgramID.
type Program struct{}

var _ ledger.Program = Program{}

// RegisterPrograms adds the system program to the registry.
func RegisterPrograms(r ledger.Registry) {
	r.Register(ledger.SystemProgramID, Program{})
}

// Process implements ledger.Program.
func (Program) Process(ctx ledger.Context, inv ledger.Invoker, programID ledger.Address, accounts []*ledger.AccountInfo, data []byte) error {
	ix, err := Unpack(data)
	if err != nil {
		return err
	}
	log := ledger.GetLogger(ctx)
	switch ix := ix.(type) {
	case CreateAccount:
		log.Debug("Instruction: CreateAccount", "lamports", ix.Lamports, "space", ix.Space)
		return createAccount(accounts, ix)
	case Transfer:
		log.Debug("Instruction: Transfer", "lamports", ix.Lamports)
		return transfer(accounts, ix)
	case Assign:
		log.Debug("Instruction: Assign", "owner", ix.Owner)
		return assign(accounts, ix)
	default:
		return errors.Wrapf(errors.ErrMsg, "unsupported instruction %T", ix)
	}
}

func createAccount(accounts []*ledger.AccountInfo, ix CreateAccount) error {
	if len(accounts) < 2 {
		return errors.ErrNotEnoughAccountKeys
	}
	from, to := accounts[0], accounts[1]
	if !from.IsSigner || !to.IsSigner {
		return errors.Wrap(errors.ErrMissingSignature, "funder and new account must sign")
	}
	if to.Lamports != 0 || len(to.Data) != 0 || !to.IsOwnedBy(ledger.SystemProgramID) {
		return errors.Wrapf(ErrAccountInUse, "account %s", to.Key)
	}
	if ix.Space > MaxDataLength {
		return errors.Wrapf(ErrInvalidDataLength, "%d bytes", ix.Space)
	}
	if err := ix.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if err := move(from, to, ix.Lamports); err != nil {
		return err
	}
	to.Data = make([]byte, ix.Space)
	to.Owner = ix.Owner.Clone()
	return nil
}

func transfer(accounts []*ledger.AccountInfo, ix Transfer) error {
	if len(accounts) < 2 {
		return errors.ErrNotEnoughAccountKeys
	}
	from, to := accounts[0], accounts[1]
	if !from.IsSigner {
		return errors.Wrapf(errors.ErrMissingSignature, "account %s", from.Key)
	}
	if len(from.Data) != 0 {
		return errors.Wrap(errors.ErrInvalidAccountData, "from must not carry data")
	}
	return move(from, to, ix.Lamports)
}

func assign(accounts []*ledger.AccountInfo, ix Assign) error {
	if len(accounts) < 1 {
		return errors.ErrNotEnoughAccountKeys
	}
	acc := accounts[0]
	if !acc.IsSigner {
		return errors.Wrapf(errors.ErrMissingSignature, "account %s", acc.Key)
	}
	if err := ix.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	acc.Owner = ix.Owner.Clone()
	return nil
}

// move transfers lamports with checked arithmetic on both sides.
func move(from, to *ledger.AccountInfo, lamports uint64) error {
	if from.Lamports < lamports {
		return errors.Wrapf(ErrInsufficientFunds, "%d available, %d required", from.Lamports, lamports)
	}
	sum := to.Lamports + lamports
	if sum < to.Lamports {
		return errors.Wrap(errors.ErrOverflow, "lamports")
	}
	from.Lamports -= lamports
	to.Lamports = sum
	return nil
}
