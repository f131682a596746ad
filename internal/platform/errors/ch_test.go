package errors

import (
	stderrs "errors"
	"fmt"
	"testing"

	"github.com/ClickHouse/clickhouse-go/v2"
)

func TestCHErrorCode(t *testing.T) {
	cases := []struct {
		code int32
		want ErrorCode
	}{
		{6, ErrorCodeInvalidArgument},
		{53, ErrorCodeInvalidArgument},
		{60, ErrorCodeUnavailable},
		{516, ErrorCodeUnavailable},
		{202, ErrorCodeTooManyRequests},
		{1, ErrorCodeDB},
	}
	for _, c := range cases {
		err := fmt.Errorf("insert: %w", &clickhouse.Exception{Code: c.code, Name: "X", Message: "m"})
		got, ok := CHErrorCode(err)
		if !ok || got != c.want {
			t.Fatalf("CHErrorCode(%d) = %v %v, want %v", c.code, got, ok, c.want)
		}
	}
	if _, ok := CHErrorCode(stderrs.New("plain")); ok {
		t.Fatal("plain error should not map")
	}
}

func TestFromClickHouse(t *testing.T) {
	if FromClickHouse(nil, "x") != nil {
		t.Fatal("nil in, nil out")
	}
	err := FromClickHouse(&clickhouse.Exception{Code: 60, Name: "UNKNOWN_TABLE"}, "read throughput")
	if CodeOf(err) != ErrorCodeUnavailable {
		t.Fatalf("code = %v", CodeOf(err))
	}
	if CodeOf(FromClickHouse(stderrs.New("eof"), "x")) != ErrorCodeDB {
		t.Fatal("foreign errors should become DB")
	}
}

func TestIsRetryableCH(t *testing.T) {
	if !IsRetryableCH(&clickhouse.Exception{Code: 159}) || !Retryable(&clickhouse.Exception{Code: 210}) {
		t.Fatal("timeouts and network errors are retryable")
	}
	if IsRetryableCH(&clickhouse.Exception{Code: 60}) || IsRetryableCH(stderrs.New("x")) || IsRetryableCH(nil) {
		t.Fatal("unexpected retryable")
	}
}
