package escrow

import (
	"encoding/binary"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

const (
	tagInitEscrow byte = 0
	tagExchange   byte = 1

	instructionLen = 9
)

// Instruction is either InitEscrow or Exchange.
type Instruction interface {
	Pack() []byte
}

// InitEscrow opens a trade asking for Amount of token B.
type InitEscrow struct {
	Amount uint64
}

// Exchange completes a trade. Amount is the custody balance the taker
// expects to receive.
type Exchange struct {
	Amount uint64
}

// Pack implements Instruction.
func (i InitEscrow) Pack() []byte {
	return pack(tagInitEscrow, i.Amount)
}

// Pack implements Instruction.
func (i Exchange) Pack() []byte {
	return pack(tagExchange, i.Amount)
}

func pack(tag byte, amount uint64) []byte {
	raw := make([]byte, instructionLen)
	raw[0] = tag
	binary.LittleEndian.PutUint64(raw[1:], amount)
	return raw
}

// UnpackInstruction decodes instruction data. Bytes after the amount are
// ignored.
func UnpackInstruction(raw []byte) (Instruction, error) {
	if len(raw) < instructionLen {
		return nil, errors.Wrapf(ErrInvalidInstruction, "%d bytes", len(raw))
	}
	amount := binary.LittleEndian.Uint64(raw[1:instructionLen])
	switch raw[0] {
	case tagInitEscrow:
		return InitEscrow{Amount: amount}, nil
	case tagExchange:
		return Exchange{Amount: amount}, nil
	default:
		return nil, errors.Wrapf(ErrInvalidInstruction, "unknown tag %d", raw[0])
	}
}

// NewInitEscrowInstruction builds an instruction opening a trade. The
// initializer must own tempCustody, which holds the deposit, and receive,
// the token account the payment goes to.
func NewInitEscrowInstruction(programID, tokenProgram, initializer, tempCustody, receive, storage ledger.Address, amount uint64) ledger.Instruction {
	return ledger.Instruction{
		ProgramID: programID,
		Accounts: []ledger.AccountMeta{
			ledger.NewReadonlyAccountMeta(initializer, true),
			ledger.NewAccountMeta(tempCustody, false),
			ledger.NewReadonlyAccountMeta(receive, false),
			ledger.NewAccountMeta(storage, false),
			ledger.NewReadonlyAccountMeta(ledger.SysvarRentID, false),
			ledger.NewReadonlyAccountMeta(tokenProgram, false),
		},
		Data: InitEscrow{Amount: amount}.Pack(),
	}
}

// ExchangeParams lists the accounts taking part in an exchange.
type ExchangeParams struct {
	Taker ledger.Address
	// TakerSource pays token B.
	TakerSource ledger.Address
	// TakerDestination receives token A.
	TakerDestination   ledger.Address
	TempCustody        ledger.Address
	Initializer        ledger.Address
	InitializerReceive ledger.Address
	Storage            ledger.Address
}

// NewExchangeInstruction builds an instruction completing the trade held
// in p.Storage. amount must equal the custody balance.
func NewExchangeInstruction(programID, tokenProgram ledger.Address, p ExchangeParams, amount uint64) (ledger.Instruction, error) {
	pda, _, err := Authority(programID)
	if err != nil {
		return ledger.Instruction{}, err
	}
	return ledger.Instruction{
		ProgramID: programID,
		Accounts: []ledger.AccountMeta{
			ledger.NewReadonlyAccountMeta(p.Taker, true),
			ledger.NewAccountMeta(p.TakerSource, false),
			ledger.NewAccountMeta(p.TakerDestination, false),
			ledger.NewAccountMeta(p.TempCustody, false),
			ledger.NewAccountMeta(p.Initializer, false),
			ledger.NewAccountMeta(p.InitializerReceive, false),
			ledger.NewAccountMeta(p.Storage, false),
			ledger.NewReadonlyAccountMeta(tokenProgram, false),
			ledger.NewReadonlyAccountMeta(pda, false),
		},
		Data: Exchange{Amount: amount}.Pack(),
	}, nil
}
