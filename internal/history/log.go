package history

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Log is the append-only, in-memory record of one conversation.
// Nothing is written to disk; a Log lives as long as its session.
type Log struct {
	mu        sync.RWMutex
	sessionID string
	startedAt time.Time
	entries   []Entry
	seq       uint64
	now       func() time.Time
}

// NewLog creates an empty log with a fresh session id
func NewLog() *Log {
	return newLogWithClock(time.Now)
}

func newLogWithClock(now func() time.Time) *Log {
	return &Log{
		sessionID: uuid.New().String(),
		startedAt: now(),
		entries:   []Entry{},
		now:       now,
	}
}

// SessionID returns the uuid shared by every entry id in this log
func (l *Log) SessionID() string {
	return l.sessionID
}

// StartedAt returns when the log was created
func (l *Log) StartedAt() time.Time {
	return l.startedAt
}

// Append records a new entry and returns a copy of it.
// Ids combine the session uuid with a sequence number, so they stay unique
// no matter how many entries share a clock tick.
func (l *Log) Append(origin Origin, content string) Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.seq++
	entry := Entry{
		ID:        fmt.Sprintf("%s-%d", l.sessionID, l.seq),
		Seq:       l.seq,
		Content:   content,
		Origin:    origin,
		CreatedAt: l.now(),
	}
	l.entries = append(l.entries, entry)
	return entry
}

// Entries returns a copy of all entries in insertion order
func (l *Log) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Recent returns a copy of the last N entries
func (l *Log) Recent(limit int) []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if limit <= 0 || len(l.entries) == 0 {
		return []Entry{}
	}

	start := 0
	if len(l.entries) > limit {
		start = len(l.entries) - limit
	}
	out := make([]Entry, len(l.entries)-start)
	copy(out, l.entries[start:])
	return out
}

// Last returns the most recent entry, if any
func (l *Log) Last() (Entry, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(l.entries) == 0 {
		return Entry{}, false
	}
	return l.entries[len(l.entries)-1], true
}

// Len returns the number of entries
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
