// Package repo provides postgres access for board columns and preferences
package repo

import (
	"context"
	_ "embed"
	"fmt"
	"strconv"
	"strings"

	"sprintly/internal/modkit/repokit"
	perr "sprintly/internal/platform/errors"
	"sprintly/internal/platform/store"
	str "sprintly/internal/platform/strings"
	"sprintly/internal/services/api/board/domain"
)

//go:embed schema.sql
var schema string

// Repo is the persistence surface for the board
type Repo interface {
	List(ctx context.Context, q domain.ListQuery) ([]domain.Item, error)
	Preference(ctx context.Context, productID, status string) (domain.Preference, error)
	UpsertPreference(ctx context.Context, p domain.Preference) (domain.Preference, error)
}

type (
	// PG is a binder that can bind the repo to a Queryer or TxRunner
	PG struct{}
	// queries implements the Repo interface
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder that can bind the repo to a Queryer or TxRunner
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind wires a Queryer to the repo
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

// EnsureSchema creates the board tables when missing
func EnsureSchema(ctx context.Context, q repokit.Queryer) error {
	_, err := q.Exec(ctx, schema)
	return perr.FromPostgres(err, "board schema")
}

// orderColumns maps sort fields to SQL; score is ranked by the score order argument
var orderColumns = map[string]string{
	domain.SortLastModified: "last_modified",
	domain.SortPriority:     "priority",
	domain.SortCreated:      "created",
	domain.SortNumber:       "number",
}

// args collects positional parameters and hands back their placeholders
type args []any

func (a *args) add(v any) string {
	*a = append(*a, v)
	return "$" + strconv.Itoa(len(*a))
}

// listSQL renders the column query; only whitelisted identifiers reach the SQL text
func listSQL(lq domain.ListQuery) (string, []any, error) {
	dir := "desc"
	if lq.Direction == domain.Asc {
		dir = "asc"
	}

	var a args
	var b strings.Builder
	b.WriteString(`
select number, product_id, title, status, type, score, priority,
       assigned_to, created_by, tags, created, last_modified
from items
where product_id = ` + a.add(lq.ProductID) + ` and status = ` + a.add(lq.Status))

	f := lq.Filters
	if f.AssignedTo != "" {
		b.WriteString(" and assigned_to = " + a.add(f.AssignedTo))
	}
	if f.CreatedBy != "" {
		b.WriteString(" and created_by = " + a.add(f.CreatedBy))
	}
	if tags := str.Compact(f.Tags); len(tags) > 0 {
		b.WriteString(" and tags && " + a.add(tags) + "::text[]")
	}
	if f.Type != "" {
		b.WriteString(" and type = " + a.add(f.Type))
	}

	var order string
	switch lq.SortField {
	case domain.SortScore:
		// labels are ranked by their folded form, matching scoremap.Normalize
		order = "array_position(" + a.add(lq.ScoreOrder) + "::text[], upper(btrim(normalize(score, NFKC))))"
	default:
		col, ok := orderColumns[lq.SortField]
		if !ok {
			return "", nil, perr.WithField(perr.Validationf("unknown sort field %q", lq.SortField), "sort_field")
		}
		order = col
	}
	// number breaks ties so pages never overlap
	fmt.Fprintf(&b, "\norder by %s %s nulls last, number %s", order, dir, dir)
	b.WriteString("\noffset " + a.add(lq.Offset) + " limit " + a.add(lq.Limit))
	return b.String(), a, nil
}

func scanItem(r store.Row) (domain.Item, error) {
	var it domain.Item
	err := r.Scan(&it.Number, &it.ProductID, &it.Title, &it.Status, &it.Type, &it.Score, &it.Priority,
		&it.AssignedTo, &it.CreatedBy, &it.Tags, &it.Created, &it.LastModified)
	if it.Tags == nil {
		it.Tags = []string{}
	}
	return it, err
}

func (r *queries) List(ctx context.Context, lq domain.ListQuery) ([]domain.Item, error) {
	sql, params, err := listSQL(lq)
	if err != nil {
		return nil, err
	}
	items, err := store.Many(ctx, r.q, scanItem, sql, params...)
	if err != nil {
		return nil, perr.FromPostgres(err, "list column")
	}
	return items, nil
}

func scanPreference(r store.Row) (domain.Preference, error) {
	var p domain.Preference
	err := r.Scan(&p.ProductID, &p.Status, &p.SortField, &p.SortDirection, &p.UpdatedAt)
	return p, err
}

func (r *queries) Preference(ctx context.Context, productID, status string) (domain.Preference, error) {
	const sql = `
select product_id, status, sort_field, sort_direction, updated_at
from column_preferences
where product_id = $1 and status = $2`
	p, err := store.One(ctx, r.q, scanPreference, sql, productID, status)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return p, perr.NotFoundf("no preference for %s/%s", productID, status)
		}
		return p, perr.FromPostgres(err, "read preference")
	}
	return p, nil
}

func (r *queries) UpsertPreference(ctx context.Context, p domain.Preference) (domain.Preference, error) {
	const sql = `
insert into column_preferences (product_id, status, sort_field, sort_direction, updated_at)
values ($1, $2, $3, $4, now())
on conflict (product_id, status) do update
set sort_field = excluded.sort_field, sort_direction = excluded.sort_direction, updated_at = now()
returning product_id, status, sort_field, sort_direction, updated_at`
	out, err := store.One(ctx, r.q, scanPreference, sql, p.ProductID, p.Status, p.SortField, p.SortDirection)
	if err != nil {
		return out, perr.FromPostgres(err, "save preference")
	}
	return out, nil
}
