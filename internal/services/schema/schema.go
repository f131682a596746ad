// Package schema creates the tables the services own
package schema

import (
	"context"

	"sprintly/internal/platform/logger"
	"sprintly/internal/platform/store"
	boardrepo "sprintly/internal/services/api/board/repo"
	rollrepo "sprintly/internal/services/rollup/repo"
)

// Ensure creates board tables in Postgres and the throughput table in ClickHouse
// disabled backends are skipped; every statement is idempotent
func Ensure(ctx context.Context, st *store.Store) error {
	log := logger.Named("schema")
	if st.PG != nil {
		if err := boardrepo.EnsureSchema(ctx, st.PG); err != nil {
			return err
		}
		log.Info().Msg("postgres schema ready")
	}
	if st.CH != nil {
		if err := rollrepo.EnsureSchema(ctx, st.CH); err != nil {
			return err
		}
		log.Info().Msg("clickhouse schema ready")
	}
	return nil
}
