package watch

import "sync"

// Collection names used across the app. Mutating db functions notify
// the hub under these names; stores and the budget reconciler watch them.
const (
	Users    = "users"
	Projects = "projects"
	Tasks    = "tasks"
	Notices  = "notices"
	Clients  = "clients"
	Revenues = "revenues"
	Expenses = "expenses"
	Budgets  = "budgets"
)

// Hub is an in-process change notifier keyed by collection name.
//
// Notify never blocks: each watcher channel has capacity one, so bursts
// of writes coalesce into a single pending signal per watcher.
type Hub struct {
	mu     sync.Mutex
	subs   map[string]map[int]chan struct{}
	nextID int
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[int]chan struct{})}
}

// Watch returns a signal channel for the collection and a cancel func.
// Cancel is idempotent and must be called when the watcher goes away.
func (h *Hub) Watch(collection string) (<-chan struct{}, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.subs[collection] == nil {
		h.subs[collection] = make(map[int]chan struct{})
	}
	id := h.nextID
	h.nextID++
	ch := make(chan struct{}, 1)
	h.subs[collection][id] = ch

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if watchers, ok := h.subs[collection]; ok {
			delete(watchers, id)
		}
	}
	return ch, cancel
}

// Notify signals every watcher of the collection.
func (h *Hub) Notify(collection string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs[collection] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
