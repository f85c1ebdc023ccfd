package services

import "sync"

// inflight tracks profiles with an operation in progress.
type inflight struct {
	mu  sync.Mutex
	ids map[int64]struct{}
}

func newInflight() *inflight {
	return &inflight{ids: make(map[int64]struct{})}
}

// acquire returns false when id is already held.
func (f *inflight) acquire(id int64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.ids[id]; ok {
		return false
	}
	f.ids[id] = struct{}{}
	return true
}

func (f *inflight) release(id int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.ids, id)
}
