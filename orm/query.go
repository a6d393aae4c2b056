package orm

import "github.com/iov-one/ledger"

// ConsumeIterator reads all remaining models and closes the iterator.
func ConsumeIterator(itr ledger.Iterator) ([]ledger.Model, error) {
	defer itr.Close()

	var res []ledger.Model
	for itr.Valid() {
		res = append(res, ledger.Pair(itr.Key(), itr.Value()))
		if err := itr.Next(); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// QueryPrefix returns all models whose key starts with prefix, ordered by
// key. An empty prefix matches the whole store.
func QueryPrefix(db ledger.ReadOnlyKVStore, prefix []byte) ([]ledger.Model, error) {
	itr, err := db.Iterator(PrefixRange(prefix))
	if err != nil {
		return nil, err
	}
	return ConsumeIterator(itr)
}

// PrefixRange returns the [start, end) range covering all keys starting
// with prefix. End is nil if no key sorts after the range, which is the
// case for an empty or all 0xff prefix.
func PrefixRange(prefix []byte) ([]byte, []byte) {
	if len(prefix) == 0 {
		return nil, nil
	}
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return prefix, end[:i+1]
		}
	}
	return prefix, nil
}
