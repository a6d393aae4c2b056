package escrow

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/app"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/x/token"
)

// ProgramID is the identity the escrow program is registered under.
var ProgramID = ledger.ReserveAddress(ledger.ProgramID("escrow"))

// PDASeed is the seed the escrow authority is derived from.
var PDASeed = []byte("escrow")

// Authority returns the address that owns custody accounts of open
// escrows, together with its bump seed.
func Authority(programID ledger.Address) (ledger.Address, uint8, error) {
	return ledger.FindProgramAddress([][]byte{PDASeed}, programID)
}

// Program is the escrow program. It only works with token accounts of
// TokenProgram.
type Program struct {
	TokenProgram ledger.Address
}

var _ ledger.Program = Program{}

// NewProgram returns the escrow program trading tokens of the default
// token program.
func NewProgram() Program {
	return Program{TokenProgram: token.ProgramID}
}

// RegisterPrograms adds the escrow program to the registry.
func RegisterPrograms(r ledger.Registry) {
	r.Register(ProgramID, NewProgram())
}

// Process implements ledger.Program.
func (p Program) Process(ctx ledger.Context, inv ledger.Invoker, programID ledger.Address, accounts []*ledger.AccountInfo, data []byte) error {
	ix, err := UnpackInstruction(data)
	if err != nil {
		return err
	}
	switch ix := ix.(type) {
	case InitEscrow:
		ctx = ledger.WithLogInfo(ctx, "instruction", "init_escrow")
		ledger.GetLogger(ctx).Info("Instruction: InitEscrow", "amount", ix.Amount)
		accts, err := parseInitEscrowAccounts(accounts)
		if err != nil {
			return err
		}
		return p.initEscrow(ctx, inv, programID, accts, ix.Amount)
	case Exchange:
		ctx = ledger.WithLogInfo(ctx, "instruction", "exchange")
		ledger.GetLogger(ctx).Info("Instruction: Exchange", "amount", ix.Amount)
		accts, err := parseExchangeAccounts(accounts)
		if err != nil {
			return err
		}
		return p.exchange(ctx, inv, programID, accts, ix.Amount)
	default:
		return errors.Wrapf(ErrInvalidInstruction, "unsupported instruction %T", ix)
	}
}

func (p Program) initEscrow(ctx ledger.Context, inv ledger.Invoker, programID ledger.Address, accts *InitEscrowAccounts, amount uint64) error {
	if !accts.Initializer.IsSigner {
		return errors.Wrapf(errors.ErrMissingSignature, "initializer %s", accts.Initializer.Key)
	}
	if !accts.Receive.IsOwnedBy(p.TokenProgram) {
		return errors.Wrapf(errors.ErrIncorrectProgramID, "receive account %s", accts.Receive.Key)
	}
	if err := p.checkTokenProgram(accts.TokenProgram); err != nil {
		return err
	}

	rent, err := app.RentFromAccountInfo(accts.Rent)
	if err != nil {
		return err
	}
	if !rent.IsExempt(accts.Storage.Lamports, accts.Storage.DataLen()) {
		return errors.Wrapf(ErrNotRentExempt, "%d lamports, %d required",
			accts.Storage.Lamports, rent.MinimumBalance(accts.Storage.DataLen()))
	}

	state, err := UnpackUnchecked(accts.Storage.Data)
	if err != nil {
		return err
	}
	if state.IsInitialized {
		return errors.Wrapf(errors.ErrAlreadyInitialized, "escrow %s", accts.Storage.Key)
	}
	state = &Escrow{
		IsInitialized:      true,
		Initializer:        accts.Initializer.Key,
		TempCustody:        accts.TempCustody.Key,
		InitializerReceive: accts.Receive.Key,
		ExpectedAmount:     amount,
	}
	if err := state.Pack(accts.Storage.Data); err != nil {
		return err
	}

	pda, _, err := Authority(programID)
	if err != nil {
		return err
	}
	ledger.GetLogger(ctx).Debug("Calling the token program to transfer token account ownership", "authority", pda)
	ix := token.NewSetAuthorityInstruction(accts.TempCustody.Key, pda, token.AccountOwner, accts.Initializer.Key)
	ix.ProgramID = accts.TokenProgram.Key
	return inv.Invoke(ctx, ix, []*ledger.AccountInfo{accts.TempCustody, accts.Initializer, accts.TokenProgram})
}

func (p Program) exchange(ctx ledger.Context, inv ledger.Invoker, programID ledger.Address, accts *ExchangeAccounts, amount uint64) error {
	if !accts.Taker.IsSigner {
		return errors.Wrapf(errors.ErrMissingSignature, "taker %s", accts.Taker.Key)
	}
	custody, err := token.UnpackAccount(accts.TempCustody.Data)
	if err != nil {
		return errors.Wrap(err, "temp custody")
	}
	pda, bump, err := Authority(programID)
	if err != nil {
		return err
	}
	if amount != custody.Amount {
		return errors.Wrapf(ErrExpectedAmountMismatch, "expected %d, custody holds %d", amount, custody.Amount)
	}

	state, err := Unpack(accts.Storage.Data)
	if err != nil {
		return err
	}
	if !state.TempCustody.Equals(accts.TempCustody.Key) {
		return errors.Wrap(errors.ErrInvalidAccountData, "temp custody does not match")
	}
	if !state.Initializer.Equals(accts.Initializer.Key) {
		return errors.Wrap(errors.ErrInvalidAccountData, "initializer does not match")
	}
	if !state.InitializerReceive.Equals(accts.InitializerReceive.Key) {
		return errors.Wrap(errors.ErrInvalidAccountData, "initializer receive does not match")
	}
	if err := p.checkTokenProgram(accts.TokenProgram); err != nil {
		return err
	}

	log := ledger.GetLogger(ctx)
	tokenProgram := accts.TokenProgram.Key
	signerSeeds := [][][]byte{{PDASeed, {bump}}}

	log.Debug("Calling the token program to transfer tokens to the initializer", "amount", state.ExpectedAmount)
	ix := token.NewTransferInstruction(accts.TakerSource.Key, accts.InitializerReceive.Key, accts.Taker.Key, state.ExpectedAmount)
	ix.ProgramID = tokenProgram
	if err := inv.Invoke(ctx, ix, []*ledger.AccountInfo{accts.TakerSource, accts.InitializerReceive, accts.Taker, accts.TokenProgram}); err != nil {
		return err
	}

	log.Debug("Calling the token program to transfer tokens to the taker", "amount", custody.Amount)
	ix = token.NewTransferInstruction(accts.TempCustody.Key, accts.TakerDestination.Key, pda, custody.Amount)
	ix.ProgramID = tokenProgram
	if err := inv.InvokeSigned(ctx, ix, []*ledger.AccountInfo{accts.TempCustody, accts.TakerDestination, accts.Authority, accts.TokenProgram}, signerSeeds); err != nil {
		return err
	}

	log.Debug("Calling the token program to close the temp custody account")
	ix = token.NewCloseAccountInstruction(accts.TempCustody.Key, accts.Initializer.Key, pda)
	ix.ProgramID = tokenProgram
	if err := inv.InvokeSigned(ctx, ix, []*ledger.AccountInfo{accts.TempCustody, accts.Initializer, accts.Authority, accts.TokenProgram}, signerSeeds); err != nil {
		return err
	}

	log.Debug("Closing the escrow account")
	lamports := accts.Initializer.Lamports + accts.Storage.Lamports
	if lamports < accts.Initializer.Lamports {
		return errors.Wrapf(ErrAmountOverflow, "%d + %d", accts.Initializer.Lamports, accts.Storage.Lamports)
	}
	accts.Initializer.Lamports = lamports
	accts.Storage.Lamports = 0
	return nil
}

func (p Program) checkTokenProgram(info *ledger.AccountInfo) error {
	if !info.Key.Equals(p.TokenProgram) {
		return errors.Wrapf(errors.ErrIncorrectProgramID, "token program %s", info.Key)
	}
	return nil
}
