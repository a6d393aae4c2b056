package app

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
)

// ResultSet is the query response container. On the wire it is the
// protobuf message
//
//   message ResultSet { repeated bytes results = 1; }
type ResultSet struct {
	Results [][]byte
}

var _ ledger.Persistent = (*ResultSet)(nil)

const resultsTag = 1<<3 | proto.WireBytes

// Marshal encodes the set in protobuf wire format.
func (r *ResultSet) Marshal() ([]byte, error) {
	buf := proto.NewBuffer(nil)
	for _, res := range r.Results {
		if err := buf.EncodeVarint(resultsTag); err != nil {
			return nil, errors.Wrap(errors.ErrModel, err.Error())
		}
		if err := buf.EncodeRawBytes(res); err != nil {
			return nil, errors.Wrap(errors.ErrModel, err.Error())
		}
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a protobuf encoded set. Unknown fields are rejected.
func (r *ResultSet) Unmarshal(raw []byte) error {
	r.Results = nil
	for len(raw) > 0 {
		tag, n := proto.DecodeVarint(raw)
		if n == 0 {
			return errors.Wrap(errors.ErrModel, "result set tag")
		}
		if tag != resultsTag {
			return errors.Wrapf(errors.ErrModel, "unexpected result set tag %d", tag)
		}
		raw = raw[n:]
		size, n := proto.DecodeVarint(raw)
		if n == 0 || uint64(len(raw)-n) < size {
			return errors.Wrap(errors.ErrModel, "result set length")
		}
		raw = raw[n:]
		r.Results = append(r.Results, append([]byte{}, raw[:size]...))
		raw = raw[size:]
	}
	return nil
}

// ResultsFromKeys returns a ResultSet of all keys
// given a set of models
func ResultsFromKeys(models []ledger.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Key
	}
	return &ResultSet{Results: res}
}

// ResultsFromValues returns a ResultSet of all values
// given a set of models
func ResultsFromValues(models []ledger.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Value
	}
	return &ResultSet{Results: res}
}

// JoinResults inverts ResultsFromKeys and ResultsFromValues
// and makes then a consistent whole again
func JoinResults(keys, values *ResultSet) ([]ledger.Model, error) {
	kref, vref := keys.Results, values.Results
	if len(kref) != len(vref) {
		return nil, errors.Wrapf(errors.ErrInput, "mismatched result set size: %d keys, %d values", len(kref), len(vref))
	}
	mods := make([]ledger.Model, len(kref))
	for i := range mods {
		mods[i] = ledger.Pair(kref[i], vref[i])
	}
	return mods, nil
}

// UnmarshalOneResult will parse a resultset, and
// it if is not empty, unmarshal the first result into o
func UnmarshalOneResult(bz []byte, o ledger.Persistent) error {
	var res ResultSet
	if err := res.Unmarshal(bz); err != nil {
		return err
	}
	// no results, do nothing
	if len(res.Results) == 0 {
		return nil
	}
	return o.Unmarshal(res.Results[0])
}
