package ogmios

import "sync"

// result is the single resolution delivered to a pending request.
type result struct {
	value any
	err   error
}

// dispatchTable correlates in-flight request ids with their completion handles.
// An entry exists exactly while its request is unresolved, and whoever removes
// an entry performs its only resolution. Every operation holds mu for its whole
// read-modify-write.
type dispatchTable struct {
	mu      sync.Mutex
	entries map[string]chan result
	closed  error // set by clear; further registrations fail with it
}

func newDispatchTable() *dispatchTable {
	return &dispatchTable{entries: make(map[string]chan result)}
}

// register adds a handle for id. It fails once the table has been cleared.
func (t *dispatchTable) register(id string) (<-chan result, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed != nil {
		return nil, t.closed
	}

	ch := make(chan result, 1)
	t.entries[id] = ch
	return ch, nil
}

// resolve removes id and delivers r to its handle. It reports false when id is
// not pending, in which case r is dropped.
func (t *dispatchTable) resolve(id string, r result) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	ch, ok := t.entries[id]
	if !ok {
		return false
	}

	delete(t.entries, id)
	ch <- r
	return true
}

// clear resolves every pending handle with err and refuses later registrations.
// It returns the number of handles it resolved.
func (t *dispatchTable) clear(err error) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed == nil {
		t.closed = err
	}

	n := len(t.entries)
	for id, ch := range t.entries {
		delete(t.entries, id)
		ch <- result{err: err}
	}
	return n
}

// len returns the number of unresolved requests.
func (t *dispatchTable) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.entries)
}
