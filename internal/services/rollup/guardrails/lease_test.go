package guardrails

import (
	"context"
	"errors"
	"testing"
	"time"

	"sprintly/internal/modkit/repokit"
)

type boolRow struct{ v bool }

func (r boolRow) Scan(dest ...any) error {
	*dest[0].(*bool) = r.v
	return nil
}

type lockDB struct {
	granted bool
	args    []any
	txs     int
}

func (d *lockDB) Exec(context.Context, string, ...any) (repokit.CommandTag, error) { return nil, nil }
func (d *lockDB) Query(context.Context, string, ...any) (repokit.Rows, error)      { return nil, nil }
func (d *lockDB) QueryRow(_ context.Context, _ string, args ...any) repokit.Row {
	d.args = args
	return boolRow{v: d.granted}
}
func (d *lockDB) Tx(_ context.Context, fn func(repokit.Queryer) error) error {
	d.txs++
	return fn(d)
}

func TestWeekLease(t *testing.T) {
	t.Parallel()
	week := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

	db := &lockDB{granted: true}
	ran := false
	err := MakeWeekLease(db)(context.Background(), week, func(context.Context) error {
		ran = true
		return nil
	})
	if err != nil || !ran || db.txs != 1 {
		t.Fatalf("err=%v ran=%v txs=%d", err, ran, db.txs)
	}
	if db.args[0] != int32(lockSpace) || db.args[1] != int32(20332) {
		t.Fatalf("lock args = %v", db.args)
	}

	db = &lockDB{granted: false}
	err = MakeWeekLease(db)(context.Background(), week, func(context.Context) error {
		t.Fatal("ran without the lease")
		return nil
	})
	if !errors.Is(err, ErrLeaseHeld) {
		t.Fatalf("err = %v", err)
	}
}
