/*

Package ledger defines the types shared by the runtime and all programs:
addresses, accounts, instructions, transactions and storage.
Programs own accounts and are the only ones allowed to change their data.
Look into the app package to see how instructions are executed and into x/
for the programs themselves.

*/

package ledger
