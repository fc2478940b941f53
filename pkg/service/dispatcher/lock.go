package dispatcher

import (
	"sync"

	"github.com/flatconnect/flatconnect/pkg/domain/types"
)

// issueLocks is a ref-counted mutex per issue. An entry exists only while at
// least one stage for that issue is running or waiting, so the map does not
// grow with the number of issues ever seen.
type issueLocks struct {
	mu      sync.Mutex
	entries map[types.IssueID]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newIssueLocks() *issueLocks {
	return &issueLocks{
		entries: make(map[types.IssueID]*lockEntry),
	}
}

// acquire blocks until the issue's lock is held and returns the release func.
func (l *issueLocks) acquire(id types.IssueID) func() {
	l.mu.Lock()
	entry, ok := l.entries[id]
	if !ok {
		entry = &lockEntry{}
		l.entries[id] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.entries, id)
		}
		l.mu.Unlock()
	}
}
