package system

import (
	"time"

	"github.com/AntPerez69367/yuri/internal/core/event"
	coresys "github.com/AntPerez69367/yuri/internal/core/system"
	"github.com/AntPerez69367/yuri/internal/world"
	"go.uber.org/zap"
)

// RespawnSystem drives creature death/respawn bookkeeping. A dead
// creature stays in the spatial index — raw queries still see the corpse
// for loot rights — while its respawn timer counts down; at zero it is
// moved back to its home tile and revived. Phase 2 (PostUpdate).
type RespawnSystem struct {
	world        *world.State
	respawnTicks int
	log          *zap.Logger
}

func NewRespawnSystem(ws *world.State, bus *event.Bus, respawnTicks int, log *zap.Logger) *RespawnSystem {
	s := &RespawnSystem{world: ws, respawnTicks: respawnTicks, log: log}
	event.Subscribe(bus, s.onCreatureDied)
	return s
}

func (s *RespawnSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *RespawnSystem) onCreatureDied(ev event.CreatureDied) {
	c := ev.Creature.Creature
	if c == nil {
		return
	}
	c.State = world.CreatureDead
	c.RespawnTicks = s.respawnTicks
}

func (s *RespawnSystem) Update(_ time.Duration) {
	for _, mapID := range s.world.MapIDs() {
		// Raw creature scan: the alive filter would hide exactly the
		// corpses this system exists to process.
		for _, e := range s.world.MapQuery(mapID, world.KindCreature) {
			c := e.Creature
			if c.State != world.CreatureDead || c.RespawnTicks <= 0 {
				continue
			}
			c.RespawnTicks--
			if c.RespawnTicks > 0 {
				continue
			}
			s.world.Relocate(e, e.MapID, c.SpawnX, c.SpawnY)
			c.State = world.CreatureAlive
			s.log.Debug("creature respawned",
				zap.Uint64("id", uint64(e.ID)),
				zap.Int32("species", c.SpeciesID))
		}
	}
}
