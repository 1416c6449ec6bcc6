// Package transfer implements the migration queue engine: a fixed, ordered
// queue of per-file transfer items driven strictly sequentially through
// source-fetch, content adaptation, and destination-write.
package transfer

import (
	"sync"

	"github.com/cloudmigrate/drive2blob/internal/models"
)

// Status is the state of one transfer item.
//
//	PENDING --(dequeued)--> IN_PROGRESS --(fetch+write succeed)--> COMPLETED
//	IN_PROGRESS --(any adapter failure)--> ERROR
//
// There are no retries within a run; ERROR is terminal until the operator
// re-runs the migration, which seeds a fresh queue.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusError      Status = "ERROR"
)

// Item is one queue entry, bound one-to-one to a source file captured at
// queue-creation time. Only Status, Progress, Message and the file's
// Name/ContentType mutate after creation.
type Item struct {
	mu       sync.RWMutex
	file     models.RemoteFile
	status   Status
	progress float64 // percent, meaningful while IN_PROGRESS; pinned to 100 on COMPLETED
	message  string  // failure description, set only on ERROR
}

func newItem(file models.RemoteFile) *Item {
	return &Item{file: file, status: StatusPending}
}

// File returns a copy of the item's file (payload-free).
func (i *Item) File() models.RemoteFile {
	i.mu.RLock()
	defer i.mu.RUnlock()
	f := i.file
	f.Content = nil
	return f
}

// Status returns the current status.
func (i *Item) Status() Status {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.status
}

// Progress returns the current progress percentage.
func (i *Item) Progress() float64 {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.progress
}

// Message returns the failure description, empty unless status is ERROR.
func (i *Item) Message() string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.message
}

// start transitions PENDING -> IN_PROGRESS with progress 0.
func (i *Item) start() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.status = StatusInProgress
	i.progress = 0
}

// setProgress records a progress tick. Regressions are dropped so observed
// progress never decreases.
func (i *Item) setProgress(percent float64) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if percent > i.progress {
		i.progress = percent
	}
}

// adapt rewrites the file's name and content type after export resolution.
func (i *Item) adapt(name, contentType string, size int64) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.file.Name = name
	i.file.ContentType = contentType
	if size > 0 {
		i.file.Size = size
	}
}

// complete transitions to COMPLETED with progress pinned at 100.
func (i *Item) complete() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.status = StatusCompleted
	i.progress = 100
}

// fail transitions to ERROR with a human-readable cause.
func (i *Item) fail(message string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.status = StatusError
	i.message = message
}

// Outcome is the terminal result of one item, safe for external use.
type Outcome struct {
	Name    string
	Status  Status
	Message string
}

func (i *Item) outcome() Outcome {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return Outcome{Name: i.file.Name, Status: i.status, Message: i.message}
}
