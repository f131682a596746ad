package store

import (
	"time"

	"sprintly/internal/platform/config"
)

// Config aggregates per backend configuration
type Config struct {
	// AppName shows up as application_name in pg_stat_activity and in ClickHouse client info
	AppName string

	PG PGConfig
	CH CHConfig
}

// PGConfig configures Postgres
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int
}

// CHConfig configures ClickHouse
type CHConfig struct {
	Enabled      bool
	URL          string
	MaxOpenConns int
	DialTimeout  time.Duration
}

// ConfigFromEnv reads SERVICE_PGSQL_* and SERVICE_CLICKHOUSE_*
// a backend is enabled when its URL is set
func ConfigFromEnv(appName string) Config {
	pg := config.New().Prefix("SERVICE_PGSQL_")
	ch := config.New().Prefix("SERVICE_CLICKHOUSE_")
	cfg := Config{
		AppName: appName,
		PG: PGConfig{
			URL:         pg.MayString("DBURL", ""),
			MaxConns:    int32(pg.MayInt("MAX_CONNS", 10)),
			LogSQL:      pg.MayBool("LOG_SQL", false),
			SlowQueryMs: pg.MayInt("SLOW_MS", 250),
		},
		CH: CHConfig{
			URL:          ch.MayString("URL", ""),
			MaxOpenConns: ch.MayInt("MAX_OPEN_CONNS", 5),
			DialTimeout:  ch.MayDuration("DIAL_TIMEOUT", 5*time.Second),
		},
	}
	cfg.PG.Enabled = cfg.PG.URL != ""
	cfg.CH.Enabled = cfg.CH.URL != ""
	return cfg
}
