package mesh

import (
	"sync"

	"github.com/soundmesh/soundmesh/internal/domain"
)

// handoff passes completed simulation states from the simulation goroutine
// to the render path. The lock is held for a pointer rotation only — never
// across force computation — so neither side can stall the other.
//
// Three buffers rotate through the write → latest → grace roles. A
// published snapshot is never mutated while it is latest or grace, so a
// reader that acquires the latest snapshot can keep reading its arrays
// lock-free for up to two further publishes. Cross-generation reuse is
// prevented by fillSnapshot allocating fresh arrays whenever a buffer's
// generation is stale, so a reader can never observe a snapshot whose node
// count changes mid-array.
type handoff struct {
	mu     sync.Mutex
	latest *domain.MeshSnapshot
	grace  *domain.MeshSnapshot
	free   *domain.MeshSnapshot
}

func newHandoff() *handoff {
	return &handoff{
		grace: &domain.MeshSnapshot{},
		free:  &domain.MeshSnapshot{},
	}
}

// writeBuffer returns the buffer the simulation should fill next. Only the
// simulation goroutine calls this.
func (h *handoff) writeBuffer() *domain.MeshSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.free
}

// publish makes snap the latest visible state and returns the recycled
// buffer the producer must use for its next write.
func (h *handoff) publish(snap *domain.MeshSnapshot) *domain.MeshSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()

	next := h.grace
	if h.latest != nil {
		h.grace = h.latest
	} else {
		h.grace = &domain.MeshSnapshot{}
	}
	h.latest = snap
	h.free = next
	return next
}

// acquire returns the most recently published snapshot. The bool is false
// when nothing has been published yet.
func (h *handoff) acquire() (domain.MeshSnapshot, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.latest == nil {
		return domain.MeshSnapshot{}, false
	}
	return *h.latest, true
}
