package votes

import (
	"sync"

	"github.com/google/uuid"
)

// InflightGuard rejects a second vote submission from a participant while
// their first is still being written, absorbing rapid repeated taps. The
// slot is released on completion or failure regardless of outcome.
type InflightGuard struct {
	mu       sync.Mutex
	inflight map[uuid.UUID]struct{}
}

// NewInflightGuard creates an empty guard.
func NewInflightGuard() *InflightGuard {
	return &InflightGuard{inflight: make(map[uuid.UUID]struct{})}
}

// Acquire reserves the participant's slot. Returns false when a vote by the
// same participant is already in flight.
func (g *InflightGuard) Acquire(participantID uuid.UUID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.inflight[participantID]; busy {
		return false
	}
	g.inflight[participantID] = struct{}{}
	return true
}

// Release frees the participant's slot.
func (g *InflightGuard) Release(participantID uuid.UUID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.inflight, participantID)
}
