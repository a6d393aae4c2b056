package orm

import (
	"reflect"

	"github.com/iov-one/ledger/errors"
)

// SimpleObj pairs a key with a model. Buckets use it as the template
// describing the model type they hold, and to return loaded values.
type SimpleObj struct {
	key   []byte
	value Model
}

var _ Object = (*SimpleObj)(nil)

// NewSimpleObj returns an object storing value under key. The key may be
// nil for a bucket template.
func NewSimpleObj(key []byte, value Model) *SimpleObj {
	return &SimpleObj{key: key, value: value}
}

// Value returns the model.
func (o SimpleObj) Value() Model {
	return o.value
}

// Key returns the key without the bucket prefix.
func (o SimpleObj) Key() []byte {
	return o.key
}

// SetKey replaces the key.
func (o *SimpleObj) SetKey(key []byte) {
	o.key = key
}

// Validate requires both a key and a value, and the value itself to be
// valid.
func (o SimpleObj) Validate() error {
	switch {
	case len(o.key) == 0:
		return errors.Wrap(errors.ErrEmpty, "missing key")
	case o.value == nil:
		return errors.Wrap(errors.ErrEmpty, "missing value")
	}
	return errors.Wrap(o.value.Validate(), "invalid value")
}

// Clone returns an object holding a zero model of the same type, so that
// raw data can be unmarshaled into it. A non empty key is copied.
func (o *SimpleObj) Clone() Object {
	model := reflect.New(reflect.TypeOf(o.value).Elem()).Interface().(Model)
	var key []byte
	if len(o.key) > 0 {
		key = append([]byte(nil), o.key...)
	}
	return &SimpleObj{key: key, value: model}
}
