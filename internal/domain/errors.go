package domain

import (
	"errors"
	"fmt"
)

// InvalidParameterError rejects a request before any work begins
type InvalidParameterError struct {
	Param  string
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s: %s", e.Param, e.Reason)
}

// NewInvalidParameter creates an InvalidParameterError
func NewInvalidParameter(param, reason string) error {
	return &InvalidParameterError{Param: param, Reason: reason}
}

// IsInvalidParameter reports whether err is an InvalidParameterError
func IsInvalidParameter(err error) bool {
	var ipe *InvalidParameterError
	return errors.As(err, &ipe)
}

// DataSourceUnavailableError indicates the withdrawal repository could not
// answer. Single-profile calls surface it directly; platform scans catch it
// per user and continue.
type DataSourceUnavailableError struct {
	Op    string
	Cause error
}

func (e *DataSourceUnavailableError) Error() string {
	return fmt.Sprintf("withdrawal data source unavailable during %s: %v", e.Op, e.Cause)
}

func (e *DataSourceUnavailableError) Unwrap() error {
	return e.Cause
}

// NewDataSourceUnavailable wraps a repository failure
func NewDataSourceUnavailable(op string, cause error) error {
	return &DataSourceUnavailableError{Op: op, Cause: cause}
}

// IsDataSourceUnavailable reports whether err is a DataSourceUnavailableError
func IsDataSourceUnavailable(err error) bool {
	var dse *DataSourceUnavailableError
	return errors.As(err, &dse)
}
