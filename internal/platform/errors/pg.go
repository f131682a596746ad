package errors

import (
	"context"
	stderrs "errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes with a mapping of their own
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
	pgStringTruncation    = "22001"
	pgInvalidText         = "22P02"
	pgSerialization       = "40001"
	pgDeadlock            = "40P01"
	pgLockNotAvailable    = "55P03"
	pgReadOnly            = "25006"
	pgCannotConnectNow    = "57P03"
)

func pgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if stderrs.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// IsDuplicateKey reports whether err is a unique constraint violation
func IsDuplicateKey(err error) bool {
	pgErr, ok := pgError(err)
	return ok && pgErr.Code == pgUniqueViolation
}

// DBErrorCode maps a Postgres error to an ErrorCode; ok is false for non Postgres errors
func DBErrorCode(err error) (ErrorCode, bool) {
	pgErr, ok := pgError(err)
	if !ok {
		return ErrorCodeUnknown, false
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return ErrorCodeDuplicateKey, true
	case pgForeignKeyViolation, pgStringTruncation, pgInvalidText:
		return ErrorCodeInvalidArgument, true
	case pgNotNullViolation, pgCheckViolation:
		return ErrorCodeValidation, true
	case pgReadOnly, pgCannotConnectNow:
		return ErrorCodeUnavailable, true
	}
	return ErrorCodeDB, true
}

// FromPostgres wraps err with its mapped code, attaching the column when Postgres names one
func FromPostgres(err error, msg string) error {
	if err == nil {
		return nil
	}
	code, ok := DBErrorCode(err)
	if !ok {
		code = ErrorCodeDB
	}
	out := Wrap(err, code, msg)
	if pgErr, ok := pgError(err); ok {
		if col := strings.TrimSpace(pgErr.ColumnName); col != "" {
			out = WithField(out, col)
		}
	}
	return out
}

// IsRetryable reports whether a Postgres error is transient contention
// local cancellation is never retryable
func IsRetryable(err error) bool {
	if err == nil || stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return false
	}
	if pgErr, ok := pgError(err); ok {
		switch pgErr.Code {
		case pgSerialization, pgDeadlock, pgLockNotAvailable:
			return true
		}
		return false
	}
	s := strings.ToLower(Root(err).Error())
	for _, frag := range []string{
		"commit unexpectedly resulted in rollback",
		"deadlock detected",
		"could not serialize access",
		"canceling statement due to lock timeout",
	} {
		if strings.Contains(s, frag) {
			return true
		}
	}
	return false
}
