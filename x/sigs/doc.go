/*
Package sigs provides basic authentication of transactions: it verifies
the ed25519 signatures on the transaction and maintains sequences for
replay protection.
*/
package sigs
