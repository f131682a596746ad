// Package repo reads accepted items from Postgres and writes weekly rows to ClickHouse
package repo

import (
	"context"
	"time"

	"sprintly/internal/modkit/repokit"
	perr "sprintly/internal/platform/errors"
	"sprintly/internal/platform/store"
	"sprintly/internal/services/rollup/domain"
)

type (
	// PG is a binder that can bind the source to a Queryer or TxRunner
	PG struct{}
	// source implements domain.Source
	source struct{ q repokit.Queryer }
)

// NewPG returns a binder for the Postgres source
func NewPG() repokit.Binder[domain.Source] { return PG{} }

// Bind wires a Queryer to the source
func (PG) Bind(q repokit.Queryer) domain.Source { return &source{q: q} }

func (s *source) Products(ctx context.Context) ([]string, error) {
	const sql = `select distinct product_id from items order by product_id`
	out, err := store.Many(ctx, s.q, func(r store.Row) (string, error) {
		var p string
		return p, r.Scan(&p)
	}, sql)
	return out, perr.FromPostgres(err, "list products")
}

func (s *source) Accepted(ctx context.Context, from, to time.Time) ([]domain.Accepted, error) {
	const sql = `
select product_id, number, score
from items
where accepted_at >= $1 and accepted_at < $2
order by product_id, number`
	out, err := store.Many(ctx, s.q, func(r store.Row) (domain.Accepted, error) {
		var a domain.Accepted
		return a, r.Scan(&a.ProductID, &a.Number, &a.Score)
	}, sql, from.UTC(), to.UTC())
	return out, perr.FromPostgres(err, "list accepted items")
}
