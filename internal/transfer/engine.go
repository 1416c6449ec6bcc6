package transfer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cloudmigrate/drive2blob/internal/events"
	"github.com/cloudmigrate/drive2blob/internal/journal"
	"github.com/cloudmigrate/drive2blob/internal/logging"
	"github.com/cloudmigrate/drive2blob/internal/models"
	"github.com/cloudmigrate/drive2blob/internal/session"
	"github.com/cloudmigrate/drive2blob/internal/storage"
)

// ErrRunInProgress is returned when Run is called while a run is active.
// The start action must not be re-entrant; there is exactly one migration
// run at a time.
var ErrRunInProgress = errors.New("a migration run is already in progress")

// Engine drives a migration run: it owns the queue, moves each item through
// fetch -> adapt -> write, and reports through the journal and event bus.
type Engine struct {
	source  storage.SourceStore
	dest    storage.DestinationStore
	session *session.Session
	journal *journal.Journal
	bus     *events.Bus
	logger  *logging.Logger

	running atomic.Bool

	mu    sync.RWMutex
	items []*Item // queue of the current/most recent run
}

// NewEngine wires the engine to its collaborators. bus and jnl may be nil
// when no observer is interested.
func NewEngine(source storage.SourceStore, dest storage.DestinationStore, sess *session.Session, jnl *journal.Journal, bus *events.Bus, logger *logging.Logger) *Engine {
	return &Engine{
		source:  source,
		dest:    dest,
		session: sess,
		journal: jnl,
		bus:     bus,
		logger:  logger,
	}
}

// Items returns the current queue's outcomes-in-progress for display.
func (e *Engine) Items() []Outcome {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]Outcome, len(e.items))
	for i, item := range e.items {
		out[i] = item.outcome()
	}
	return out
}

// Run executes one migration over the given source listing, strictly
// sequentially, and returns exactly one terminal outcome per file. One
// item's failure never aborts the run; adapter failures surface as that
// item's ERROR state, never as a returned error. A non-nil error is returned
// only for precondition failures, before any item is attempted.
func (e *Engine) Run(ctx context.Context, files []models.RemoteFile) ([]Outcome, error) {
	if len(files) == 0 {
		return nil, storage.ErrNoSourceFiles
	}
	if !e.session.Azure().Configured() {
		return nil, storage.ErrDestinationNotConfigured
	}
	if !e.session.Drive().HasToken() {
		return nil, storage.ErrAuthRequired
	}
	if !e.running.CompareAndSwap(false, true) {
		return nil, ErrRunInProgress
	}
	defer e.running.Store(false)

	// Fixed queue, built once per run. No items are added or removed after
	// this point.
	items := make([]*Item, len(files))
	for i, f := range files {
		items[i] = newItem(f)
	}
	e.mu.Lock()
	e.items = items
	e.mu.Unlock()

	started := time.Now()
	e.journal.Info(fmt.Sprintf("migration run started: %d files", len(items)))
	e.publish(&events.RunEvent{
		BaseEvent: events.BaseEvent{EventType: events.EventRunStarted, Time: time.Now()},
		Total:     len(items),
	})

	for idx, item := range items {
		e.processItem(ctx, idx, len(items), item)
	}

	completed, failed := 0, 0
	outcomes := make([]Outcome, len(items))
	for i, item := range items {
		outcomes[i] = item.outcome()
		if outcomes[i].Status == StatusCompleted {
			completed++
		} else {
			failed++
		}
	}

	e.journal.Info(fmt.Sprintf("migration run finished: %d succeeded, %d failed", completed, failed))
	e.publish(&events.RunEvent{
		BaseEvent: events.BaseEvent{EventType: events.EventRunFinished, Time: time.Now()},
		Total:     len(items),
		Completed: completed,
		Failed:    failed,
		Duration:  time.Since(started),
	})

	e.refreshDestination(ctx)
	return outcomes, nil
}

// processItem moves one item to a terminal state. Every failure path ends in
// fail(); nothing escapes to the caller.
func (e *Engine) processItem(ctx context.Context, idx, total int, item *Item) {
	item.start()
	file := item.File()
	e.journal.Info(fmt.Sprintf("processing file %d/%d: %s", idx+1, total, file.Name))
	e.publishItem(events.EventItemStarted, idx, item)

	// A cancelled context still drains the queue so the run produces one
	// terminal outcome per item; remaining items fail without network calls.
	if err := ctx.Err(); err != nil {
		e.failItem(idx, item, fmt.Errorf("run cancelled: %w", err))
		return
	}

	res, err := e.source.FetchContent(ctx, file.ID, file.ContentType)
	if err != nil {
		if errors.Is(err, storage.ErrAuthExpired) {
			// Force re-authentication before the next run. This item fails
			// like any other; remaining items are still attempted.
			if clearErr := e.session.ClearDriveToken(); clearErr != nil && e.logger != nil {
				e.logger.Warnf("failed to clear expired credential: %v", clearErr)
			}
			e.journal.Warning("source credential expired and was cleared; re-authenticate before the next run")
		}
		e.failItem(idx, item, err)
		return
	}

	// Content reconciliation: exported native documents change type, and
	// their bare names need the extension of what they became.
	if res.ResolvedType != file.ContentType {
		newName := ReconcileName(file.Name, res.ResolvedType)
		if newName != file.Name {
			e.journal.Info(fmt.Sprintf("renaming %q to %q for exported format %s", file.Name, newName, res.ResolvedType))
		}
		item.adapt(newName, res.ResolvedType, int64(len(res.Content)))
		file = item.File()
	}

	payload := file.WithContent(res.Content)
	payload.Size = int64(len(res.Content))

	err = e.dest.WriteObject(ctx, payload, func(percent float64) {
		item.setProgress(percent)
		e.publishItem(events.EventItemProgress, idx, item)
	})
	if err != nil {
		if errors.Is(err, storage.ErrAuthExpired) {
			// The SAS token lives in the destination descriptor, not a
			// clearable session credential; warn so the operator replaces it.
			e.journal.Warning("destination rejected the access token; update the SAS token before the next run")
		}
		e.failItem(idx, item, err)
		return
	}

	item.complete()
	e.journal.Success(fmt.Sprintf("migrated %s (%d bytes)", file.Name, len(res.Content)))
	e.publishItem(events.EventItemCompleted, idx, item)
}

func (e *Engine) failItem(idx int, item *Item, err error) {
	msg := storage.Describe(err)
	item.fail(msg)
	e.journal.Error(fmt.Sprintf("failed to transfer %s: %s", item.File().Name, msg))
	e.publishItem(events.EventItemFailed, idx, item)
}

// refreshDestination re-lists the destination after a run to reconcile
// observed state with what was written. Best-effort: a failed refresh is
// logged, never fatal.
func (e *Engine) refreshDestination(ctx context.Context) {
	listing, err := e.dest.ListObjects(ctx)
	switch {
	case err != nil:
		e.journal.Warning(fmt.Sprintf("destination refresh failed: %s", storage.Describe(err)))
	case listing.ContainerMissing:
		e.journal.Warning("destination refresh: container is missing")
	default:
		e.journal.Info(fmt.Sprintf("destination now holds %d objects", len(listing.Files)))
	}
	e.publish(&events.RefreshEvent{
		BaseEvent:        events.BaseEvent{EventType: events.EventDestRefreshed, Time: time.Now()},
		ObjectCount:      len(listing.Files),
		ContainerMissing: listing.ContainerMissing,
		Err:              err,
	})
}

func (e *Engine) publish(ev events.Event) {
	if e.bus != nil {
		e.bus.Publish(ev)
	}
}

func (e *Engine) publishItem(eventType events.EventType, idx int, item *Item) {
	if e.bus == nil {
		return
	}
	file := item.File()
	e.bus.Publish(&events.ItemEvent{
		BaseEvent: events.BaseEvent{EventType: eventType, Time: time.Now()},
		Index:     idx,
		Name:      file.Name,
		Size:      file.Size,
		Progress:  item.Progress(),
		Message:   item.Message(),
	})
}
