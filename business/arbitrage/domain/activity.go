package domain

import (
	"sync"
	"time"
)

// activityCapacity bounds the log so long scans cannot grow memory.
const activityCapacity = 100

// ActivityEntry is a single line of scan activity.
type ActivityEntry struct {
	Level     string // "info", "success", "warning", "error"
	Message   string
	Timestamp time.Time
}

// ActivityLog is a fixed-capacity, newest-first log of scan activity.
// It is safe for concurrent use.
type ActivityLog struct {
	mu      sync.Mutex
	entries []ActivityEntry
	notify  func(ActivityEntry)
}

func NewActivityLog() *ActivityLog {
	return &ActivityLog{entries: make([]ActivityEntry, 0, activityCapacity)}
}

// SetNotify registers a callback invoked for every added entry. Set it
// before the log is shared; the callback runs outside the lock.
func (l *ActivityLog) SetNotify(fn func(ActivityEntry)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.notify = fn
}

// Add prepends an entry, evicting the oldest once capacity is reached.
func (l *ActivityLog) Add(level, message string) {
	entry := ActivityEntry{Level: level, Message: message, Timestamp: time.Now()}

	l.mu.Lock()
	if len(l.entries) < activityCapacity {
		l.entries = append(l.entries, ActivityEntry{})
	}
	copy(l.entries[1:], l.entries)
	l.entries[0] = entry
	notify := l.notify
	l.mu.Unlock()

	if notify != nil {
		notify(entry)
	}
}

// Entries returns a snapshot, newest first.
func (l *ActivityLog) Entries() []ActivityEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]ActivityEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Clear empties the log.
func (l *ActivityLog) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = l.entries[:0]
}

// Len returns the current entry count.
func (l *ActivityLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
