// Package modkit wires API modules: shared deps, build options and a mountable base
package modkit

import (
	"sprintly/internal/modkit/repokit"
	"sprintly/internal/platform/config"
	"sprintly/internal/platform/logger"
	"sprintly/internal/platform/store"
)

// Deps holds the core dependencies handed to every module
// PG and CH are nil when the backend is disabled
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  repokit.TxRunner
	CH  store.Clickhouse
}

// FromStore builds Deps from an opened store
func FromStore(cfg config.Conf, st *store.Store) Deps {
	d := Deps{Log: *logger.Get(), Cfg: cfg}
	if st != nil {
		d.Log, d.PG, d.CH = st.Log, st.PG, st.CH
	}
	return d
}
