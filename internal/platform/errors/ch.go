package errors

import (
	"context"
	stderrs "errors"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// ClickHouse server exception codes with a mapping of their own
const (
	chCannotParseText     = 6
	chCannotParseInput    = 27
	chTypeMismatch        = 53
	chUnknownTable        = 60
	chUnknownDatabase     = 81
	chTimeoutExceeded     = 159
	chTooManyQueries      = 202
	chNetworkError        = 210
	chAuthenticationError = 516
)

// CHErrorCode maps a ClickHouse exception to an ErrorCode; ok is false for other errors
func CHErrorCode(err error) (ErrorCode, bool) {
	var ex *clickhouse.Exception
	if !stderrs.As(err, &ex) {
		return ErrorCodeUnknown, false
	}
	switch ex.Code {
	case chCannotParseText, chCannotParseInput, chTypeMismatch:
		return ErrorCodeInvalidArgument, true
	case chUnknownTable, chUnknownDatabase, chTimeoutExceeded, chNetworkError, chAuthenticationError:
		return ErrorCodeUnavailable, true
	case chTooManyQueries:
		return ErrorCodeTooManyRequests, true
	}
	return ErrorCodeDB, true
}

// FromClickHouse wraps err with its mapped code
func FromClickHouse(err error, msg string) error {
	if err == nil {
		return nil
	}
	code, ok := CHErrorCode(err)
	if !ok {
		code = ErrorCodeDB
	}
	return Wrap(err, code, msg)
}

// IsRetryableCH reports whether a ClickHouse error is worth retrying
func IsRetryableCH(err error) bool {
	if err == nil || stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return false
	}
	var ex *clickhouse.Exception
	if !stderrs.As(err, &ex) {
		return false
	}
	switch ex.Code {
	case chTimeoutExceeded, chTooManyQueries, chNetworkError:
		return true
	}
	return false
}
