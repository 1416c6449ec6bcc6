// Package journal keeps the append-only operation log of a session.
// Entries are immutable once appended and survive for the lifetime of the
// process; the CLI renders them and the summary package digests them.
package journal

import (
	"sync"
	"time"

	"github.com/cloudmigrate/drive2blob/internal/logging"
)

// Level is the severity of a journal entry.
type Level string

const (
	LevelInfo    Level = "INFO"
	LevelSuccess Level = "SUCCESS"
	LevelError   Level = "ERROR"
	LevelWarning Level = "WARNING"
)

// Entry is one immutable log record.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
}

// Journal is a thread-safe append-only event sequence.
// A nil *Journal is a valid no-op sink.
type Journal struct {
	mu      sync.Mutex
	entries []Entry
	logger  *logging.Logger
}

// New creates a journal. If logger is non-nil every entry is mirrored into
// structured logging as it is appended.
func New(logger *logging.Logger) *Journal {
	return &Journal{logger: logger}
}

// Append records an entry. Entries are strictly ordered by append time.
func (j *Journal) Append(level Level, message string) {
	if j == nil {
		return
	}
	e := Entry{Timestamp: time.Now(), Level: level, Message: message}

	j.mu.Lock()
	j.entries = append(j.entries, e)
	logger := j.logger
	j.mu.Unlock()

	if logger == nil {
		return
	}
	switch level {
	case LevelError:
		logger.Error().Msg(message)
	case LevelWarning:
		logger.Warn().Msg(message)
	default:
		logger.Info().Msg(message)
	}
}

// Info appends an INFO entry.
func (j *Journal) Info(message string) { j.Append(LevelInfo, message) }

// Success appends a SUCCESS entry.
func (j *Journal) Success(message string) { j.Append(LevelSuccess, message) }

// Error appends an ERROR entry.
func (j *Journal) Error(message string) { j.Append(LevelError, message) }

// Warning appends a WARNING entry.
func (j *Journal) Warning(message string) { j.Append(LevelWarning, message) }

// Entries returns a snapshot copy of all entries in append order.
func (j *Journal) Entries() []Entry {
	if j == nil {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]Entry, len(j.entries))
	copy(out, j.entries)
	return out
}

// Len returns the number of entries appended so far.
func (j *Journal) Len() int {
	if j == nil {
		return 0
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.entries)
}
