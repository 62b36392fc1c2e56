package system

import (
	"time"

	coresys "github.com/AntPerez69367/yuri/internal/core/system"
	"github.com/AntPerez69367/yuri/internal/world"
)

// CleanupSystem flushes deferred despawns at the end of the tick, so
// code running mid-tick (combat callbacks, scripts) never pulls an
// entity out from under an iteration in progress. Phase 4 (Cleanup).
//
// Ids are queued rather than entity pointers: a queued entity that was
// already despawned through another path resolves to nil and is skipped,
// matching the expected-absent contract.
type CleanupSystem struct {
	world *world.State
	queue []world.ID
}

func NewCleanupSystem(ws *world.State) *CleanupSystem {
	return &CleanupSystem{world: ws, queue: make([]world.ID, 0, 64)}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

// Enqueue schedules an entity for despawn at end of tick.
func (s *CleanupSystem) Enqueue(id world.ID) {
	s.queue = append(s.queue, id)
}

func (s *CleanupSystem) Update(_ time.Duration) {
	for _, id := range s.queue {
		if e := s.world.Lookup(id); e != nil {
			s.world.Despawn(e)
		}
	}
	s.queue = s.queue[:0]
}
