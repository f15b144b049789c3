package event

import (
	"strconv"
	"sync"
)

// Snapshot is the last event a Monitor observed.
type Snapshot struct {
	Event
	// Valid is false until the first event arrives.
	Valid bool
}

// Label returns the "<kind> <id>" name used for auto-assigned mappings, or ""
// when nothing has been observed.
func (s Snapshot) Label() string {
	if !s.Valid {
		return ""
	}

	return s.Kind.String() + " " + strconv.Itoa(s.ID)
}

// Monitor remembers the most recent controller event. It is written by the
// transport goroutine and read by the tick loop or a UI.
type Monitor struct {
	mu   sync.RWMutex
	last Snapshot
}

// Observe records e as the most recent event.
func (m *Monitor) Observe(e Event) {
	m.mu.Lock()
	m.last = Snapshot{Event: e, Valid: true}
	m.mu.Unlock()
}

// Last returns the most recent event.
func (m *Monitor) Last() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.last
}

// Clear forgets the last event.
func (m *Monitor) Clear() {
	m.mu.Lock()
	m.last = Snapshot{}
	m.mu.Unlock()
}
