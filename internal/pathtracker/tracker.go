// Package pathtracker holds the winning path reported by the search service.
//
// The path is write-once per session: the first non-empty path is kept and
// every later one is ignored until Reset.
package pathtracker

import "sync"

// Tracker stores an ordered path of node ids plus indexes for O(1) lookups.
type Tracker struct {
	mu    sync.RWMutex
	path  []string
	index map[string]struct{}
	next  map[string]map[string]struct{} // id -> ids that directly follow it
}

// New creates an empty tracker.
func New() *Tracker {
	return &Tracker{}
}

// Set records path if no path has been recorded yet. It reports whether
// path was accepted. An empty path is never accepted.
func (t *Tracker) Set(path []string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.path) > 0 || len(path) == 0 {
		return false
	}

	t.path = make([]string, len(path))
	copy(t.path, path)
	t.index = make(map[string]struct{}, len(path))
	t.next = make(map[string]map[string]struct{}, len(path))
	for i, id := range path {
		t.index[id] = struct{}{}
		if i+1 < len(path) {
			if t.next[id] == nil {
				t.next[id] = make(map[string]struct{})
			}
			t.next[id][path[i+1]] = struct{}{}
		}
	}
	return true
}

// IsSet reports whether a path has been recorded.
func (t *Tracker) IsSet() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.path) > 0
}

// Contains reports whether id is on the path.
func (t *Tracker) Contains(id string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	_, ok := t.index[id]
	return ok
}

// IsEdgeOnPath reports whether target directly follows source on the path.
// Direction matters.
func (t *Tracker) IsEdgeOnPath(source, target string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	_, ok := t.next[source][target]
	return ok
}

// Path returns a copy of the recorded path, or nil.
func (t *Tracker) Path() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if len(t.path) == 0 {
		return nil
	}
	out := make([]string, len(t.path))
	copy(out, t.path)
	return out
}

// Len returns the number of ids on the path.
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.path)
}

// Reset forgets the recorded path.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.path = nil
	t.index = nil
	t.next = nil
}
