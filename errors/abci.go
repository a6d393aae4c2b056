package errors

import (
	"errors"
	"fmt"
)

const (
	// SuccessABCICode is the code of a successful ABCI response.
	SuccessABCICode = 0

	// Errors that carry no registered code are internal. They all share
	// code 1 and, outside of debug mode, a generic log message.
	internalABCICode uint32 = 1
	internalABCILog         = "internal error"
)

// ABCIInfo returns the code and log of an ABCI response for given error.
//
// Registered errors, framework and program ones alike, expose their code
// and message. Anything else is internal: code 1 and a generic message,
// unless debug is set. In debug mode the log carries the full error
// formatting, including a stack trace when one was recorded.
func ABCIInfo(err error, debug bool) (uint32, string) {
	code := Code(err)
	switch {
	case code == SuccessABCICode:
		return SuccessABCICode, ""
	case debug:
		return code, fmt.Sprintf("%+v", err)
	case code == internalABCICode:
		return internalABCICode, internalABCILog
	default:
		return code, err.Error()
	}
}

// Code returns the stable numeric code carried by given error or the
// first of its causes that has one. Errors that do not carry a code are
// internal and return 1.
func Code(err error) uint32 {
	if isNilErr(err) {
		return SuccessABCICode
	}
	for {
		if c, ok := err.(coder); ok {
			return c.ABCICode()
		}
		c, ok := err.(causer)
		if !ok {
			return internalABCICode
		}
		err = c.Cause()
	}
}

type coder interface {
	ABCICode() uint32
}

// Redact replaces internal errors and recovered panics with a generic
// error, leaving only registered errors visible to clients.
//
// Errors are returned unchanged in debug mode.
func Redact(err error, debug bool) error {
	if debug {
		return err
	}
	if ErrPanic.Is(err) || Code(err) == internalABCICode {
		return errors.New(internalABCILog)
	}
	return err
}
