package logger

import (
	"sync"
	"time"
)

// Entry is one captured log record.
type Entry struct {
	Level   string                 `json:"level"`
	Message string                 `json:"message"`
	Fields  map[string]interface{} `json:"fields,omitempty"`
	Caller  string                 `json:"caller"`
	Time    time.Time              `json:"time"`
}

// LogCollector keeps the most recent warn/error records in a fixed-size ring
// so the dashboard can surface its own problems without any outbound log
// shipping. Oldest entries fall off the front.
type LogCollector struct {
	mu       sync.RWMutex
	entries  []Entry
	capacity int
}

func NewLogCollector(capacity int) *LogCollector {
	if capacity <= 0 {
		capacity = 100
	}
	return &LogCollector{capacity: capacity}
}

func (c *LogCollector) AddLog(level, message string, fields map[string]interface{}, caller string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, Entry{
		Level:   level,
		Message: message,
		Fields:  fields,
		Caller:  caller,
		Time:    time.Now().UTC(),
	})
	if over := len(c.entries) - c.capacity; over > 0 {
		c.entries = c.entries[over:]
	}
}

// Recent returns up to limit entries, oldest first. limit <= 0 returns all.
func (c *LogCollector) Recent(limit int) []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := len(c.entries)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Entry, n)
	copy(out, c.entries[len(c.entries)-n:])
	return out
}

// Len reports the number of held entries.
func (c *LogCollector) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
