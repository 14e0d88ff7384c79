package errors

import (
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

type ExitCodeError struct {
	code ExitCode
	error
}

func NewError(err error, exitCode ExitCode) *ExitCodeError {
	if err == nil {
		return nil
	}
	return &ExitCodeError{exitCode, err}
}

func (e *ExitCodeError) GetExitCode() ExitCode {
	if e == nil {
		return 0
	}
	return e.code
}

// Cause lets pkg/errors unwrap an ExitCodeError to the error it carries.
func (e *ExitCodeError) Cause() error {
	return e.error
}

// ConfigError reports a malformed sweep configuration: a bad ratio string,
// a partially specified range, an empty work list. It is always raised before
// any experiment starts running.
type ConfigError struct {
	msg string
}

func NewConfigError(format string, args ...interface{}) *ConfigError {
	return &ConfigError{msg: fmt.Sprintf(format, args...)}
}

func (e *ConfigError) Error() string {
	return e.msg
}

// IsConfigError reports whether err, or the root cause of a wrapped err, is a ConfigError.
func IsConfigError(err error) bool {
	if err == nil {
		return false
	}
	_, ok := pkgerrors.Cause(err).(*ConfigError)
	return ok
}

// ExitCodeFor picks the process exit code for an error returned by a sweep.
func ExitCodeFor(err error) ExitCode {
	switch {
	case err == nil:
		return 0
	case IsConfigError(err):
		return UsageExitCode
	}
	// the outermost ExitCodeError in the wrap chain decides
	for err != nil {
		if ec, ok := err.(*ExitCodeError); ok {
			return ec.GetExitCode()
		}
		c, ok := err.(causer)
		if !ok {
			break
		}
		err = c.Cause()
	}
	return TaskFailureExitCode
}

type causer interface {
	Cause() error
}
