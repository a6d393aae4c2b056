/*
Package token implements fungible tokens held in ledger accounts.

A mint account defines a token and the authority allowed to create new
units. Token accounts hold a balance of a single mint on behalf of an
owner, which may be a key or an address derived from a program. Escrows
and other programs move tokens by calling this program.
*/
package token
