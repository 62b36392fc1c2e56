package system

import (
	"context"
	"time"

	coresys "github.com/AntPerez69367/yuri/internal/core/system"
	"github.com/AntPerez69367/yuri/internal/persist"
	"github.com/AntPerez69367/yuri/internal/world"
	"go.uber.org/zap"
)

// PersistenceSystem periodically writes every online avatar's position
// back to the database, and once more on shutdown. Avatars are gathered
// through the grid partitions (AllAvatars), never a side list.
// Phase 3 (Persist).
type PersistenceSystem struct {
	world     *world.State
	chars     *persist.CharacterRepo
	log       *zap.Logger
	tickCount int
	interval  int // save every N ticks
}

func NewPersistenceSystem(ws *world.State, chars *persist.CharacterRepo, intervalTicks int, log *zap.Logger) *PersistenceSystem {
	return &PersistenceSystem{
		world:    ws,
		chars:    chars,
		log:      log,
		interval: intervalTicks,
	}
}

func (s *PersistenceSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *PersistenceSystem) Update(_ time.Duration) {
	s.tickCount++
	if s.tickCount < s.interval {
		return
	}
	s.tickCount = 0
	s.SaveAll()
}

// SaveAll persists every online avatar's position immediately. Also
// called on graceful shutdown.
func (s *PersistenceSystem) SaveAll() {
	for _, a := range s.world.AllAvatars() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := s.chars.SavePosition(ctx, a.Name, int16(a.MapID), a.X, a.Y)
		cancel()
		if err != nil {
			s.log.Error("save avatar position",
				zap.String("name", a.Name), zap.Error(err))
		}
	}
}
