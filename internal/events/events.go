// Package events provides a buffered publish/subscribe bus the transfer
// engine emits to. The CLI subscribes for display; nothing in the engine
// blocks on a slow subscriber.
package events

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/cloudmigrate/drive2blob/internal/constants"
)

// EventType identifies the kind of an event.
type EventType string

const (
	EventRunStarted  EventType = "run_started"
	EventRunFinished EventType = "run_finished"

	EventItemStarted   EventType = "item_started"
	EventItemProgress  EventType = "item_progress"
	EventItemCompleted EventType = "item_completed"
	EventItemFailed    EventType = "item_failed"

	// EventDestRefreshed fires after the end-of-run destination re-list.
	EventDestRefreshed EventType = "dest_refreshed"
)

// Event is the base interface for all bus events.
type Event interface {
	Type() EventType
	Timestamp() time.Time
}

// BaseEvent provides the common event fields.
type BaseEvent struct {
	EventType EventType
	Time      time.Time
}

func (e BaseEvent) Type() EventType      { return e.EventType }
func (e BaseEvent) Timestamp() time.Time { return e.Time }

// ItemEvent describes one transfer item transition or progress tick.
type ItemEvent struct {
	BaseEvent
	Index    int     // position in the queue, 0-based
	Name     string  // current file name (post-reconciliation once adapted)
	Size     int64   // bytes, 0 when unknown pre-export
	Progress float64 // 0..100
	Message  string  // failure description, set on EventItemFailed
}

// RunEvent describes a whole migration run starting or finishing.
type RunEvent struct {
	BaseEvent
	Total     int
	Completed int
	Failed    int
	Duration  time.Duration
}

// RefreshEvent carries the outcome of the end-of-run destination re-list.
type RefreshEvent struct {
	BaseEvent
	ObjectCount      int
	ContainerMissing bool
	Err              error
}

// Bus manages subscriptions and non-blocking publishing.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[EventType][]chan Event
	all         []chan Event
	bufferSize  int
	closed      bool
	dropped     atomic.Int64
}

// NewBus creates a bus with the given per-subscriber buffer size.
func NewBus(bufferSize int) *Bus {
	if bufferSize <= 0 {
		bufferSize = constants.EventBusDefaultBuffer
	}
	if bufferSize > constants.EventBusMaxBuffer {
		bufferSize = constants.EventBusMaxBuffer
	}
	return &Bus{
		subscribers: make(map[EventType][]chan Event),
		bufferSize:  bufferSize,
	}
}

// Subscribe returns a channel receiving events of one type.
func (b *Bus) Subscribe(eventType EventType) <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		ch := make(chan Event)
		close(ch)
		return ch
	}
	ch := make(chan Event, b.bufferSize)
	b.subscribers[eventType] = append(b.subscribers[eventType], ch)
	return ch
}

// SubscribeAll returns a channel receiving every event.
func (b *Bus) SubscribeAll() <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		ch := make(chan Event)
		close(ch)
		return ch
	}
	ch := make(chan Event, b.bufferSize)
	b.all = append(b.all, ch)
	return ch
}

// Publish delivers an event to all matching subscribers without blocking.
// Events to full buffers are dropped and counted.
func (b *Bus) Publish(event Event) {
	if b == nil {
		return
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}
	for _, ch := range b.subscribers[event.Type()] {
		select {
		case ch <- event:
		default:
			b.dropped.Add(1)
		}
	}
	for _, ch := range b.all {
		select {
		case ch <- event:
		default:
			b.dropped.Add(1)
		}
	}
}

// Close shuts the bus down and closes all subscriber channels.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for _, channels := range b.subscribers {
		for _, ch := range channels {
			close(ch)
		}
	}
	for _, ch := range b.all {
		close(ch)
	}
}

// Dropped returns how many events were discarded due to full buffers.
func (b *Bus) Dropped() int64 {
	return b.dropped.Load()
}
