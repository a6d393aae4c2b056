/*
Package system implements the builtin program owning every account that
was not assigned to any other program. It creates accounts, moves native
balances between them, and hands accounts over to other programs.
*/
package system
