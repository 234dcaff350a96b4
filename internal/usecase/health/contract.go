package health

import "context"

// DBPinger checks preference store availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// Pipeline reports whether the recompute loop is alive.
type Pipeline interface {
	Running() bool
}
