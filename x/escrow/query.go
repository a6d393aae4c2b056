package escrow

import (
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/app"
)

// RegisterQuery exposes open escrows under /escrows. The query data is the
// storage account address, or an address prefix in prefix mode. Results
// hold the packed escrow record.
func RegisterQuery(qr ledger.QueryRouter) {
	qr.Register("/escrows", queryHandler{accounts: app.NewAccountBucket(), programID: ProgramID})
}

type queryHandler struct {
	accounts  app.AccountBucket
	programID ledger.Address
}

var _ ledger.QueryHandler = queryHandler{}

// Query implements ledger.QueryHandler. Accounts that are not open
// escrows of the program are skipped.
func (h queryHandler) Query(db ledger.ReadOnlyKVStore, mod string, data []byte) ([]ledger.Model, error) {
	models, err := h.accounts.Query(db, mod, data)
	if err != nil {
		return nil, err
	}
	var res []ledger.Model
	for _, m := range models {
		var acc ledger.Account
		if err := acc.Unmarshal(m.Value); err != nil {
			return nil, err
		}
		if !acc.Owner.Equals(h.programID) {
			continue
		}
		if _, err := Unpack(acc.Data); err != nil {
			continue
		}
		res = append(res, ledger.Pair(m.Key, acc.Data))
	}
	return res, nil
}
