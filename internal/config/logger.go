package config

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

type LogEntry struct {
	Data    logrus.Fields `json:"data,omitempty"`
	Time    time.Time     `json:"time"`
	Level   logrus.Level  `json:"level,omitempty"`
	Message string        `json:"message,omitempty"`
}

func newLogEntry(entry *logrus.Entry) *LogEntry {
	data := make(logrus.Fields, len(entry.Data))
	for k, v := range entry.Data {
		data[k] = v
	}
	return &LogEntry{
		Data:    data,
		Time:    entry.Time,
		Level:   entry.Level,
		Message: entry.Message,
	}
}

// recentLogHook keeps the last warnings and errors of the current run in a
// ring buffer so `surveyctl status` can show what went wrong without
// re-running with --verbose.
type recentLogHook struct {
	eventBuffer []*LogEntry
	maxSize     int
	currentPos  int
	isFull      bool
	mu          sync.RWMutex
}

func newRecentLogHook(size int) *recentLogHook {
	return &recentLogHook{
		eventBuffer: make([]*LogEntry, size),
		maxSize:     size,
	}
}

func (t *recentLogHook) Fire(entry *logrus.Entry) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.eventBuffer[t.currentPos] = newLogEntry(entry)
	t.currentPos = (t.currentPos + 1) % t.maxSize

	if t.currentPos == 0 {
		t.isFull = true
	}

	return nil
}

func (t *recentLogHook) Levels() []logrus.Level {
	return []logrus.Level{
		logrus.PanicLevel,
		logrus.FatalLevel,
		logrus.ErrorLevel,
		logrus.WarnLevel,
	}
}

func (t *recentLogHook) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.eventBuffer = make([]*LogEntry, t.maxSize)
	t.currentPos = 0
	t.isFull = false
}

// GetEvents returns every buffered entry in chronological order.
func (t *recentLogHook) GetEvents() []*LogEntry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if !t.isFull {
		result := make([]*LogEntry, t.currentPos)
		copy(result, t.eventBuffer[:t.currentPos])
		return result
	}

	// Oldest first
	result := make([]*LogEntry, t.maxSize)
	copy(result, t.eventBuffer[t.currentPos:])
	copy(result[t.maxSize-t.currentPos:], t.eventBuffer[:t.currentPos])
	return result
}

func (t *recentLogHook) GetRecentEvents(count int) []*LogEntry {
	events := t.GetEvents()
	if len(events) <= count {
		return events
	}
	return events[len(events)-count:]
}
