/*
Package escrow implements a two party token swap.

An initializer moves token A into a temporary custody account and opens an
escrow stating how much of token B they want in return. InitEscrow records
the trade in an escrow storage account and hands ownership of the custody
account to an address derived from the escrow program, so that no person
can move the deposit anymore.

Any taker may then complete the trade with Exchange. Within one
transaction the taker pays the expected amount of token B to the
initializer, receives the whole custody balance of token A, the custody
account is closed and the lamports of the escrow storage account go back
to the initializer. If any step fails nothing happens.

There is no way to cancel an open escrow.
*/
package escrow
