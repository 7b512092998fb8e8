package database

import (
	"context"
	"sync"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/event"
)

// chainMonitors allows attaching several command monitors to one client.
//
// The driver accepts a single *event.CommandMonitor in ClientOptions, so
// this fans every event out to each monitor in order.
func chainMonitors(monitors ...*event.CommandMonitor) *event.CommandMonitor {
	return &event.CommandMonitor{
		Started: func(ctx context.Context, evt *event.CommandStartedEvent) {
			for _, m := range monitors {
				if m.Started != nil {
					m.Started(ctx, evt)
				}
			}
		},
		Succeeded: func(ctx context.Context, evt *event.CommandSucceededEvent) {
			for _, m := range monitors {
				if m.Succeeded != nil {
					m.Succeeded(ctx, evt)
				}
			}
		},
		Failed: func(ctx context.Context, evt *event.CommandFailedEvent) {
			for _, m := range monitors {
				if m.Failed != nil {
					m.Failed(ctx, evt)
				}
			}
		},
	}
}

// newLogMonitor logs MongoDB commands through zerolog.
//
//   - commands slower than slowThreshold are always logged at warn
//   - failures are always logged at warn (the handler decides the final severity)
//   - with verbose set, every start/finish is logged at debug
func newLogMonitor(logger zerolog.Logger, slowThreshold time.Duration, verbose bool) *event.CommandMonitor {
	return &event.CommandMonitor{
		Started: func(_ context.Context, evt *event.CommandStartedEvent) {
			if !verbose {
				return
			}
			logger.Debug().
				Str("command", evt.CommandName).
				Str("database", evt.DatabaseName).
				Int64("request_id", evt.RequestID).
				Msg("mongo command started")
		},
		Succeeded: func(_ context.Context, evt *event.CommandSucceededEvent) {
			if slowThreshold > 0 && evt.Duration >= slowThreshold {
				logger.Warn().
					Str("command", evt.CommandName).
					Str("database", evt.DatabaseName).
					Dur("duration", evt.Duration).
					Dur("threshold", slowThreshold).
					Msg("slow mongo command")
				return
			}
			if verbose {
				logger.Debug().
					Str("command", evt.CommandName).
					Int64("request_id", evt.RequestID).
					Dur("duration", evt.Duration).
					Msg("mongo command succeeded")
			}
		},
		Failed: func(_ context.Context, evt *event.CommandFailedEvent) {
			logger.Warn().
				Str("command", evt.CommandName).
				Str("database", evt.DatabaseName).
				Int64("request_id", evt.RequestID).
				Dur("duration", evt.Duration).
				Str("failure", evt.Failure).
				Msg("mongo command failed")
		},
	}
}

// segmentTracker keeps in-flight New Relic segments keyed by driver request id.
type segmentTracker struct {
	mu       sync.Mutex
	segments map[int64]*newrelic.DatastoreSegment
}

func (t *segmentTracker) start(requestID int64, segment *newrelic.DatastoreSegment) {
	t.mu.Lock()
	t.segments[requestID] = segment
	t.mu.Unlock()
}

func (t *segmentTracker) end(requestID int64) {
	t.mu.Lock()
	segment, ok := t.segments[requestID]
	delete(t.segments, requestID)
	t.mu.Unlock()

	if ok {
		segment.End()
	}
}

// newRelicMonitor records a datastore segment for every command issued under
// a context carrying a New Relic transaction (set by the nrecho middleware).
func newRelicMonitor() *event.CommandMonitor {
	tracker := &segmentTracker{segments: make(map[int64]*newrelic.DatastoreSegment)}

	return &event.CommandMonitor{
		Started: func(ctx context.Context, evt *event.CommandStartedEvent) {
			txn := newrelic.FromContext(ctx)
			if txn == nil {
				return
			}

			// For find/insert/update/delete the command's first value is the collection.
			collection, _ := evt.Command.Lookup(evt.CommandName).StringValueOK()

			tracker.start(evt.RequestID, &newrelic.DatastoreSegment{
				StartTime:    txn.StartSegmentNow(),
				Product:      newrelic.DatastoreMongoDB,
				Collection:   collection,
				Operation:    evt.CommandName,
				DatabaseName: evt.DatabaseName,
			})
		},
		Succeeded: func(_ context.Context, evt *event.CommandSucceededEvent) {
			tracker.end(evt.RequestID)
		},
		Failed: func(_ context.Context, evt *event.CommandFailedEvent) {
			tracker.end(evt.RequestID)
		},
	}
}
