package token

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

// Program is the token program.
type Program struct{}

var _ ledger.Program = Program{}

// RegisterPrograms adds the token program to the registry.
func RegisterPrograms(r ledger.Registry) {
	r.Register(ProgramID, Program{})
}

// Process implements ledger.Program.
func (Program) Process(ctx ledger.Context, inv ledger.Invoker, programID ledger.Address, accounts []*ledger.AccountInfo, data []byte) error {
	ix, err := Unpack(data)
	if err != nil {
		return err
	}
	p := processor{programID: programID, accounts: accounts}
	log := ledger.GetLogger(ctx)
	switch ix := ix.(type) {
	case InitializeMint:
		log.Debug("Instruction: InitializeMint", "decimals", ix.Decimals)
		return p.initializeMint(ix)
	case InitializeAccount:
		log.Debug("Instruction: InitializeAccount")
		return p.initializeAccount()
	case MintTo:
		log.Debug("Instruction: MintTo", "amount", ix.Amount)
		return p.mintTo(ix)
	case Transfer:
		log.Debug("Instruction: Transfer", "amount", ix.Amount)
		return p.transfer(ix)
	case SetAuthority:
		log.Debug("Instruction: SetAuthority", "type", ix.Type)
		return p.setAuthority(ix)
	case CloseAccountInstruction:
		log.Debug("Instruction: CloseAccount")
		return p.closeAccount()
	default:
		return errors.Wrapf(errors.ErrMsg, "unsupported instruction %T", ix)
	}
}

type processor struct {
	programID ledger.Address
	accounts  []*ledger.AccountInfo
}

// take returns the first n accounts, each owned by the token program
// unless listed in foreign.
func (p processor) take(n int, foreign ...int) ([]*ledger.AccountInfo, error) {
	if len(p.accounts) < n {
		return nil, errors.Wrapf(errors.ErrNotEnoughAccountKeys, "want %d, got %d", n, len(p.accounts))
	}
	res := p.accounts[:n]
outer:
	for i, acc := range res {
		for _, f := range foreign {
			if f == i {
				continue outer
			}
		}
		if !acc.IsOwnedBy(p.programID) {
			return nil, errors.Wrapf(errors.ErrIncorrectProgramID, "account %s", acc.Key)
		}
	}
	return res, nil
}

func (p processor) initializeMint(ix InitializeMint) error {
	accs, err := p.take(1)
	if err != nil {
		return err
	}
	mint := accs[0]
	if mint.DataLen() != MintLen {
		return errors.Wrapf(errors.ErrInvalidAccountData, "mint is %d bytes", mint.DataLen())
	}
	if mint.Data[0] != 0 {
		return errors.Wrapf(errors.ErrAlreadyInitialized, "mint %s", mint.Key)
	}
	m := Mint{
		IsInitialized: true,
		Decimals:      ix.Decimals,
		MintAuthority: ix.MintAuthority,
	}
	return m.Pack(mint.Data)
}

func (p processor) initializeAccount() error {
	accs, err := p.take(3, 2)
	if err != nil {
		return err
	}
	account, mint, owner := accs[0], accs[1], accs[2]
	state, err := unpackAccountUnchecked(account.Data)
	if err != nil {
		return err
	}
	if state.State != StateUninitialized {
		return errors.Wrapf(errors.ErrAlreadyInitialized, "token account %s", account.Key)
	}
	if _, err := UnpackMint(mint.Data); err != nil {
		return err
	}
	a := Account{
		Mint:  mint.Key,
		Owner: owner.Key,
		State: StateInitialized,
	}
	return a.Pack(account.Data)
}

func (p processor) mintTo(ix MintTo) error {
	accs, err := p.take(3, 2)
	if err != nil {
		return err
	}
	mintInfo, destInfo, authority := accs[0], accs[1], accs[2]
	mint, err := UnpackMint(mintInfo.Data)
	if err != nil {
		return err
	}
	dest, err := UnpackAccount(destInfo.Data)
	if err != nil {
		return err
	}
	if !dest.Mint.Equals(mintInfo.Key) {
		return errors.Wrapf(ErrMintMismatch, "account %s", destInfo.Key)
	}
	if err := checkAuthority(authority, mint.MintAuthority); err != nil {
		return err
	}
	if dest.Amount, err = checkedAdd(dest.Amount, ix.Amount); err != nil {
		return err
	}
	if mint.Supply, err = checkedAdd(mint.Supply, ix.Amount); err != nil {
		return err
	}
	if err := dest.Pack(destInfo.Data); err != nil {
		return err
	}
	return mint.Pack(mintInfo.Data)
}

func (p processor) transfer(ix Transfer) error {
	accs, err := p.take(3, 2)
	if err != nil {
		return err
	}
	srcInfo, destInfo, authority := accs[0], accs[1], accs[2]
	src, err := UnpackAccount(srcInfo.Data)
	if err != nil {
		return err
	}
	dest, err := UnpackAccount(destInfo.Data)
	if err != nil {
		return err
	}
	if !src.Mint.Equals(dest.Mint) {
		return errors.Wrapf(ErrMintMismatch, "%s and %s", srcInfo.Key, destInfo.Key)
	}
	if err := checkAuthority(authority, src.Owner); err != nil {
		return err
	}
	if src.Amount < ix.Amount {
		return errors.Wrapf(errors.ErrInsufficientAmount, "%d available, %d required", src.Amount, ix.Amount)
	}
	if srcInfo.Key.Equals(destInfo.Key) {
		return nil
	}
	src.Amount -= ix.Amount
	if dest.Amount, err = checkedAdd(dest.Amount, ix.Amount); err != nil {
		return err
	}
	if err := src.Pack(srcInfo.Data); err != nil {
		return err
	}
	return dest.Pack(destInfo.Data)
}

func (p processor) setAuthority(ix SetAuthority) error {
	accs, err := p.take(2, 1)
	if err != nil {
		return err
	}
	info, authority := accs[0], accs[1]
	acc, err := UnpackAccount(info.Data)
	if err != nil {
		return err
	}
	switch ix.Type {
	case AccountOwner:
		if err := checkAuthority(authority, acc.Owner); err != nil {
			return err
		}
		if ix.NewAuthority == nil {
			return errors.Wrap(errors.ErrEmpty, "account owner cannot be unset")
		}
		acc.Owner = ix.NewAuthority
	case CloseAccount:
		if err := checkAuthority(authority, acc.closer()); err != nil {
			return err
		}
		acc.CloseAuthority = ix.NewAuthority
	default:
		return errors.Wrapf(ErrAuthorityType, "type %d", ix.Type)
	}
	return acc.Pack(info.Data)
}

func (p processor) closeAccount() error {
	accs, err := p.take(3, 1, 2)
	if err != nil {
		return err
	}
	info, destInfo, authority := accs[0], accs[1], accs[2]
	if info.Key.Equals(destInfo.Key) {
		return errors.Wrap(errors.ErrInput, "cannot close into itself")
	}
	acc, err := UnpackAccount(info.Data)
	if err != nil {
		return err
	}
	if acc.Amount != 0 {
		return errors.Wrapf(ErrNonZeroBalance, "%d left", acc.Amount)
	}
	if err := checkAuthority(authority, acc.closer()); err != nil {
		return err
	}
	lamports, err := checkedAdd(destInfo.Lamports, info.Lamports)
	if err != nil {
		return err
	}
	destInfo.Lamports = lamports
	info.Lamports = 0
	for i := range info.Data {
		info.Data[i] = 0
	}
	return nil
}

// closer is the authority allowed to close the account.
func (a *Account) closer() ledger.Address {
	if a.CloseAuthority != nil {
		return a.CloseAuthority
	}
	return a.Owner
}

func checkAuthority(authority *ledger.AccountInfo, expected ledger.Address) error {
	if !authority.Key.Equals(expected) {
		return errors.Wrapf(ErrOwnerMismatch, "got %s, want %s", authority.Key, expected)
	}
	if !authority.IsSigner {
		return errors.Wrapf(errors.ErrMissingSignature, "authority %s", authority.Key)
	}
	return nil
}

func checkedAdd(a, b uint64) (uint64, error) {
	sum := a + b
	if sum < a {
		return 0, errors.Wrap(errors.ErrOverflow, "amount")
	}
	return sum, nil
}
