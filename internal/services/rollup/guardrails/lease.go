// Package guardrails keeps two rollup workers off the same week
package guardrails

import (
	"context"
	"errors"
	"time"

	"sprintly/internal/modkit/repokit"
)

// ErrLeaseHeld signals another worker owns the week already
var ErrLeaseHeld = errors.New("rollup: week lease already held")

// lockSpace namespaces rollup advisory locks from anything else using pg_try_advisory_xact_lock
const lockSpace = 0x5350

// Lease runs do while holding a transaction scoped advisory lock on week
type Lease func(ctx context.Context, week time.Time, do func(context.Context) error) error

// MakeWeekLease takes pg_try_advisory_xact_lock(space, days since epoch) and holds it while do runs
// the lock drops with the transaction, so a crashed worker never strands a week
func MakeWeekLease(db repokit.TxRunner) Lease {
	return func(ctx context.Context, week time.Time, do func(context.Context) error) error {
		key := int32(week.UTC().Unix() / 86400)
		return db.Tx(ctx, func(q repokit.Queryer) error {
			var ok bool
			if err := q.QueryRow(ctx, `select pg_try_advisory_xact_lock($1, $2)`, int32(lockSpace), key).Scan(&ok); err != nil {
				return err
			}
			if !ok {
				return ErrLeaseHeld
			}
			return do(ctx)
		})
	}
}
