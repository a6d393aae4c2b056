package token_test

import (
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/ledgertest"
	"github.com/iov-one/ledger/x/system"
	"github.com/iov-one/ledger/x/token"
	. "github.com/smartystreets/goconvey/convey"
)

const accountLamports = 2000000

// createMint allocates and initializes a mint in one transaction.
func createMint(l *ledgertest.Ledger, payer, mint, authority ledger.Address) error {
	return l.Execute([]ledger.Address{payer, mint},
		system.NewCreateAccountInstruction(payer, mint, accountLamports, token.MintLen, token.ProgramID),
		token.NewInitializeMintInstruction(mint, authority, 2),
	)
}

// createAccount allocates and initializes a token account in one transaction.
func createAccount(l *ledgertest.Ledger, payer, account, mint, owner ledger.Address) error {
	return l.Execute([]ledger.Address{payer, account},
		system.NewCreateAccountInstruction(payer, account, accountLamports, token.AccountLen, token.ProgramID),
		token.NewInitializeAccountInstruction(account, mint, owner),
	)
}

func tokenAccount(l *ledgertest.Ledger, addr ledger.Address) *token.Account {
	acc, err := token.UnpackAccount(l.Data(addr))
	So(err, ShouldBeNil)
	return acc
}

func TestTokenProgram(t *testing.T) {
	Convey("Given a mint with two token accounts", t, func() {
		var (
			payer     = ledgertest.NamedAddr("payer")
			authority = ledgertest.NamedAddr("authority")
			alice     = ledgertest.NamedAddr("alice")
			bob       = ledgertest.NamedAddr("bob")
			mint      = ledgertest.NamedAddr("mint")
			aliceAcc  = ledgertest.NamedAddr("alice token")
			bobAcc    = ledgertest.NamedAddr("bob token")
		)
		l := ledgertest.NewLedger(t, system.RegisterPrograms, token.RegisterPrograms)
		l.Fund(payer, 1000000000)

		So(createMint(l, payer, mint, authority), ShouldBeNil)
		So(createAccount(l, payer, aliceAcc, mint, alice), ShouldBeNil)
		So(createAccount(l, payer, bobAcc, mint, bob), ShouldBeNil)
		So(l.Execute([]ledger.Address{authority}, token.NewMintToInstruction(mint, aliceAcc, authority, 100)), ShouldBeNil)

		Convey("Minting updates the supply", func() {
			m, err := token.UnpackMint(l.Data(mint))
			So(err, ShouldBeNil)
			So(m.Supply, ShouldEqual, 100)
			So(m.Decimals, ShouldEqual, 2)
			So(tokenAccount(l, aliceAcc).Amount, ShouldEqual, 100)
		})

		Convey("Minting requires the mint authority", func() {
			err := l.Execute([]ledger.Address{alice}, token.NewMintToInstruction(mint, aliceAcc, alice, 1))
			So(token.ErrOwnerMismatch.Is(err), ShouldBeTrue)
		})

		Convey("Minting cannot overflow the balance", func() {
			err := l.Execute([]ledger.Address{authority}, token.NewMintToInstruction(mint, aliceAcc, authority, ^uint64(0)))
			So(errors.ErrOverflow.Is(err), ShouldBeTrue)
			So(tokenAccount(l, aliceAcc).Amount, ShouldEqual, 100)
		})

		Convey("A mint cannot be initialized twice", func() {
			err := l.Execute(nil, token.NewInitializeMintInstruction(mint, alice, 0))
			So(errors.ErrAlreadyInitialized.Is(err), ShouldBeTrue)
		})

		Convey("A token account cannot be initialized twice", func() {
			err := l.Execute(nil, token.NewInitializeAccountInstruction(aliceAcc, mint, bob))
			So(errors.ErrAlreadyInitialized.Is(err), ShouldBeTrue)
			So(tokenAccount(l, aliceAcc).Owner, ShouldResemble, alice)
		})

		Convey("The owner can transfer tokens", func() {
			err := l.Execute([]ledger.Address{alice}, token.NewTransferInstruction(aliceAcc, bobAcc, alice, 40))
			So(err, ShouldBeNil)
			So(tokenAccount(l, aliceAcc).Amount, ShouldEqual, 60)
			So(tokenAccount(l, bobAcc).Amount, ShouldEqual, 40)

			Convey("But not more than the balance", func() {
				err := l.Execute([]ledger.Address{alice}, token.NewTransferInstruction(aliceAcc, bobAcc, alice, 61))
				So(errors.ErrInsufficientAmount.Is(err), ShouldBeTrue)
				So(tokenAccount(l, aliceAcc).Amount, ShouldEqual, 60)
			})
		})

		Convey("A transfer to itself keeps the balance", func() {
			err := l.Execute([]ledger.Address{alice}, token.NewTransferInstruction(aliceAcc, aliceAcc, alice, 40))
			So(err, ShouldBeNil)
			So(tokenAccount(l, aliceAcc).Amount, ShouldEqual, 100)
		})

		Convey("A transfer needs the owner signature", func() {
			err := l.Execute(nil, token.NewTransferInstruction(aliceAcc, bobAcc, alice, 1))
			So(errors.ErrMissingSignature.Is(err), ShouldBeTrue)

			err = l.Execute([]ledger.Address{bob}, token.NewTransferInstruction(aliceAcc, bobAcc, bob, 1))
			So(token.ErrOwnerMismatch.Is(err), ShouldBeTrue)
		})

		Convey("Tokens of different mints do not mix", func() {
			other, otherAcc := ledgertest.NamedAddr("other mint"), ledgertest.NamedAddr("other token")
			So(createMint(l, payer, other, authority), ShouldBeNil)
			So(createAccount(l, payer, otherAcc, other, bob), ShouldBeNil)

			err := l.Execute([]ledger.Address{alice}, token.NewTransferInstruction(aliceAcc, otherAcc, alice, 1))
			So(token.ErrMintMismatch.Is(err), ShouldBeTrue)
		})

		Convey("Accounts of another program are rejected", func() {
			fake := ledgertest.NamedAddr("fake")
			raw := make([]byte, token.AccountLen)
			state := token.Account{Mint: mint, Owner: alice, Amount: 1000, State: token.StateInitialized}
			So(state.Pack(raw), ShouldBeNil)
			l.SetAccount(fake, &ledger.Account{Owner: ledger.SystemProgramID, Lamports: 1, Data: raw})

			err := l.Execute([]ledger.Address{alice}, token.NewTransferInstruction(fake, bobAcc, alice, 1))
			So(errors.ErrIncorrectProgramID.Is(err), ShouldBeTrue)
		})

		Convey("The owner can hand over the account", func() {
			err := l.Execute([]ledger.Address{alice}, token.NewSetAuthorityInstruction(aliceAcc, bob, token.AccountOwner, alice))
			So(err, ShouldBeNil)
			So(tokenAccount(l, aliceAcc).Owner, ShouldResemble, bob)

			err = l.Execute([]ledger.Address{alice}, token.NewTransferInstruction(aliceAcc, bobAcc, alice, 1))
			So(token.ErrOwnerMismatch.Is(err), ShouldBeTrue)
		})

		Convey("The owner cannot be unset", func() {
			err := l.Execute([]ledger.Address{alice}, token.NewSetAuthorityInstruction(aliceAcc, nil, token.AccountOwner, alice))
			So(errors.ErrEmpty.Is(err), ShouldBeTrue)
		})

		Convey("An empty account can be closed", func() {
			So(l.Execute([]ledger.Address{alice}, token.NewTransferInstruction(aliceAcc, bobAcc, alice, 100)), ShouldBeNil)
			before := l.Lamports(alice)

			err := l.Execute([]ledger.Address{alice}, token.NewCloseAccountInstruction(aliceAcc, alice, alice))
			So(err, ShouldBeNil)
			So(l.Account(aliceAcc), ShouldBeNil)
			So(l.Lamports(alice), ShouldEqual, before+accountLamports)
		})

		Convey("An account holding tokens cannot be closed", func() {
			err := l.Execute([]ledger.Address{alice}, token.NewCloseAccountInstruction(aliceAcc, alice, alice))
			So(token.ErrNonZeroBalance.Is(err), ShouldBeTrue)
			So(l.Lamports(aliceAcc), ShouldEqual, accountLamports)
		})

		Convey("A close authority replaces the owner for closing", func() {
			So(l.Execute([]ledger.Address{alice}, token.NewSetAuthorityInstruction(aliceAcc, bob, token.CloseAccount, alice)), ShouldBeNil)
			So(l.Execute([]ledger.Address{alice}, token.NewTransferInstruction(aliceAcc, bobAcc, alice, 100)), ShouldBeNil)

			err := l.Execute([]ledger.Address{alice}, token.NewCloseAccountInstruction(aliceAcc, alice, alice))
			So(token.ErrOwnerMismatch.Is(err), ShouldBeTrue)

			err = l.Execute([]ledger.Address{bob}, token.NewCloseAccountInstruction(aliceAcc, bob, bob))
			So(err, ShouldBeNil)
			So(l.Lamports(bob), ShouldEqual, accountLamports)
		})
	})
}
