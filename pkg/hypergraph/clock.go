package hypergraph

import (
	"sync"
	"time"
)

var (
	clockMu sync.Mutex
	last    time.Time
)

// now returns the current UTC time, clamped so that it never goes backwards
// within a process even if the wall clock does.
func now() time.Time {
	clockMu.Lock()
	defer clockMu.Unlock()

	t := time.Now().UTC()
	if t.Before(last) {
		t = last
	}
	last = t
	return t
}
