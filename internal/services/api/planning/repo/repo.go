// Package repo reads velocity history from ClickHouse
package repo

import (
	"context"
	"time"

	perr "sprintly/internal/platform/errors"
	"sprintly/internal/platform/store"
)

// Repo is the read surface the planning service needs
type Repo interface {
	// AvgThroughput averages weekly points for product over the weeks in [from, to)
	// weeks with no row are not counted, n is how many weeks had data
	AvgThroughput(ctx context.Context, productID string, from, to time.Time) (avg float64, n int, err error)
}

// Table holds one row per product and ISO week, written by the rollup
const Table = "sprintly.weekly_throughput"

type queries struct{ ch store.Clickhouse }

// NewCH binds the repo to a ClickHouse seam
func NewCH(ch store.Clickhouse) Repo {
	if ch == nil {
		panic("planning.repo requires a non nil Clickhouse")
	}
	return &queries{ch: ch}
}

func (r *queries) AvgThroughput(ctx context.Context, productID string, from, to time.Time) (float64, int, error) {
	const sql = `
select toFloat64(ifNull(avg(points), 0)), toUInt64(count())
from (
  select week, sum(points) as points
  from ` + Table + `
  where product_id = ? and week >= ? and week < ?
  group by week
)`
	rows, err := r.ch.Query(ctx, sql, productID, from, to)
	if err != nil {
		return 0, 0, perr.FromClickHouse(err, "velocity history")
	}
	defer rows.Close()

	var (
		avg float64
		n   uint64
	)
	if rows.Next() {
		if err := rows.Scan(&avg, &n); err != nil {
			return 0, 0, perr.FromClickHouse(err, "velocity history scan")
		}
	}
	if err := rows.Err(); err != nil {
		return 0, 0, perr.FromClickHouse(err, "velocity history rows")
	}
	return avg, int(n), nil
}
