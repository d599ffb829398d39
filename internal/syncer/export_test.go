package syncer

import "time"

// SetNow overrides the orchestrator's clock for tests.
func SetNow(o *Orchestrator, now func() time.Time) {
	o.now = now
}
