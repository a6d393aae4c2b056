package errors

import (
	"fmt"
	"strings"
)

// Append returns an error collecting all non nil errors given. Collections
// passed in are flattened. It returns nil if there is nothing to collect.
//
// The code of the result is the code of the first collected error. Is
// matches if any of the collected errors matches.
func Append(errs ...error) error {
	var res []error
	for _, err := range errs {
		if isNilErr(err) {
			continue
		}
		if m, ok := err.(*multiErr); ok {
			res = append(res, m.errs...)
			continue
		}
		res = append(res, err)
	}
	if len(res) == 0 {
		return nil
	}
	return &multiErr{errs: res}
}

// multiErr is never empty.
type multiErr struct {
	errs []error
}

func (m *multiErr) Error() string {
	if len(m.errs) == 1 {
		return m.errs[0].Error()
	}
	msgs := make([]string, len(m.errs))
	for i, err := range m.errs {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%d errors: %s", len(m.errs), strings.Join(msgs, "; "))
}

// Unpack returns all collected errors.
func (m *multiErr) Unpack() []error {
	return m.errs
}

// ABCICode implements coder.
func (m *multiErr) ABCICode() uint32 {
	return Code(m.errs[0])
}

// Cause returns the first collected error.
func (m *multiErr) Cause() error {
	return m.errs[0]
}

type unpacker interface {
	Unpack() []error
}

var (
	_ coder    = (*multiErr)(nil)
	_ causer   = (*multiErr)(nil)
	_ unpacker = (*multiErr)(nil)
)
