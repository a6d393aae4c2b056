package escrow

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

// InitEscrowAccounts are the accounts of an InitEscrow instruction, in
// order.
type InitEscrowAccounts struct {
	Initializer  *ledger.AccountInfo
	TempCustody  *ledger.AccountInfo
	Receive      *ledger.AccountInfo
	Storage      *ledger.AccountInfo
	Rent         *ledger.AccountInfo
	TokenProgram *ledger.AccountInfo
}

func parseInitEscrowAccounts(accounts []*ledger.AccountInfo) (*InitEscrowAccounts, error) {
	const want = 6
	if len(accounts) < want {
		return nil, errors.Wrapf(errors.ErrNotEnoughAccountKeys, "want %d, got %d", want, len(accounts))
	}
	return &InitEscrowAccounts{
		Initializer:  accounts[0],
		TempCustody:  accounts[1],
		Receive:      accounts[2],
		Storage:      accounts[3],
		Rent:         accounts[4],
		TokenProgram: accounts[5],
	}, nil
}

// ExchangeAccounts are the accounts of an Exchange instruction, in order.
type ExchangeAccounts struct {
	Taker              *ledger.AccountInfo
	TakerSource        *ledger.AccountInfo
	TakerDestination   *ledger.AccountInfo
	TempCustody        *ledger.AccountInfo
	Initializer        *ledger.AccountInfo
	InitializerReceive *ledger.AccountInfo
	Storage            *ledger.AccountInfo
	TokenProgram       *ledger.AccountInfo
	Authority          *ledger.AccountInfo
}

func parseExchangeAccounts(accounts []*ledger.AccountInfo) (*ExchangeAccounts, error) {
	const want = 9
	if len(accounts) < want {
		return nil, errors.Wrapf(errors.ErrNotEnoughAccountKeys, "want %d, got %d", want, len(accounts))
	}
	return &ExchangeAccounts{
		Taker:              accounts[0],
		TakerSource:        accounts[1],
		TakerDestination:   accounts[2],
		TempCustody:        accounts[3],
		Initializer:        accounts[4],
		InitializerReceive: accounts[5],
		Storage:            accounts[6],
		TokenProgram:       accounts[7],
		Authority:          accounts[8],
	}, nil
}
