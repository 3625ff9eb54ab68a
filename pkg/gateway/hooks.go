package gateway

import (
	"sync"

	"github.com/agentstation/catalogadmin/pkg/products"
)

type (
	// ChangeHook is called after any change to the canonical collection.
	ChangeHook func()

	// EntryRemovedHook is called for every entry that leaves the collection.
	EntryRemovedHook func(entry products.Entry)
)

// hooks holds the subscribers of a Gateway. They run on the goroutine
// that made the change, after the gateway lock is released.
type hooks struct {
	mu        sync.RWMutex
	onChange  []ChangeHook
	onRemoved []EntryRemovedHook
}

func (h *hooks) addChange(fn ChangeHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onChange = append(h.onChange, fn)
}

func (h *hooks) addRemoved(fn EntryRemovedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onRemoved = append(h.onRemoved, fn)
}

// notify runs the removal hooks for gone, then the change hooks once.
func (h *hooks) notify(gone ...products.Entry) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, e := range gone {
		for _, fn := range h.onRemoved {
			fn(e)
		}
	}
	for _, fn := range h.onChange {
		fn()
	}
}

// missing returns the entries of before whose id is absent from after.
func missing(before, after []products.Entry) []products.Entry {
	kept := make(map[int]struct{}, len(after))
	for _, e := range after {
		kept[e.ID] = struct{}{}
	}
	var out []products.Entry
	for _, e := range before {
		if _, ok := kept[e.ID]; !ok {
			out = append(out, e)
		}
	}
	return out
}
