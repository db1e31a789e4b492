package options

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-formflow/pkg/schema"
)

// CancelFunc stops a scheduled refresh. It is idempotent and must be invoked
// on every teardown path; the scheduler never relies on garbage collection to
// stop its timer.
type CancelFunc func()

// Refresh re-resolves the field on its declared cadence while the field stays
// mounted. The values callback is consulted on each tick so a changed dependee
// is picked up; notify receives each non-stale result. The returned CancelFunc
// stops the timer; a field without a refresh interval returns a no-op cancel.
func (r *Resolver) Refresh(ctx context.Context, field schema.FieldDefinition, values func() map[string]any, notify func(Result)) CancelFunc {
	dyn := field.DynamicOptions
	if dyn == nil || dyn.Interval() <= 0 {
		return func() {}
	}

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(dyn.Interval())
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				current := values()
				if !ShouldFetch(field, current) {
					continue
				}
				// Drop the cached entry so the tick actually re-fetches.
				r.Invalidate(field.ID)
				result := r.Resolve(ctx, field, current)
				if result.Stale || notify == nil {
					continue
				}
				notify(result)
			}
		}
	}()

	var stop sync.Once
	return func() {
		stop.Do(func() { close(done) })
	}
}
