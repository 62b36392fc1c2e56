package world

import "go.uber.org/zap"

// Lifecycle operations — the only code path permitted to mutate the grid
// partition or the identifier registry. Each operation updates both
// structures back to back with nothing observable in between, so under
// the single-threaded tick model a query never sees an entity in neither
// or both of its cells.

// Spawn assigns the entity a fresh id, registers it, and joins it into
// the grid at its initial position (clamped into map bounds). Spawning
// onto an unloaded map is a caller bug: logged, nothing is registered,
// and the zero ID is returned.
func (s *State) Spawn(e *Entity) ID {
	m := s.maps[e.MapID]
	if m == nil {
		s.log.Error("spawn onto unloaded map",
			zap.Int16("map", int16(e.MapID)),
			zap.String("name", e.Name))
		failStrict("spawn onto unloaded map")
		return 0
	}
	if e.ID != 0 {
		s.log.Error("spawn of an entity that already has an id",
			zap.Uint64("id", uint64(e.ID)),
			zap.String("name", e.Name))
		failStrict("spawn of an entity that already has an id")
		return 0
	}
	s.nextID++
	e.ID = s.nextID
	e.X, e.Y = m.Clamp(e.X, e.Y)
	s.registry.Register(e)
	m.join(e)
	return e.ID
}

// Relocate moves a registered entity to a new position, possibly across
// maps. Same-cell moves update the coordinates only; everything else
// leaves the old cell and joins the new one. A transfer to an unloaded
// map is a caller bug: logged, and the entity stays where it is.
func (s *State) Relocate(e *Entity, mapID MapID, x, y int32) {
	if s.registry.Lookup(e.ID) != e {
		s.log.Error("relocate of unregistered entity",
			zap.Uint64("id", uint64(e.ID)))
		failStrict("relocate of unregistered entity")
		return
	}

	if mapID != e.MapID {
		// Cross-map transfer: leave the old partition entirely.
		dst := s.maps[mapID]
		if dst == nil {
			s.log.Error("relocate onto unloaded map",
				zap.Uint64("id", uint64(e.ID)),
				zap.Int16("map", int16(mapID)))
			failStrict("relocate onto unloaded map")
			return
		}
		s.maps[e.MapID].leave(e)
		e.MapID = mapID
		e.X, e.Y = dst.Clamp(x, y)
		dst.join(e)
		return
	}

	m := s.maps[e.MapID]
	x, y = m.Clamp(x, y)
	oldCell := m.cellIndex(e.X, e.Y)
	newCell := m.cellIndex(x, y)
	if oldCell == newCell {
		e.X, e.Y = x, y
		return
	}
	m.leave(e)
	e.X, e.Y = x, y
	m.join(e)
}

// Despawn removes the entity from its cell and unregisters it, ending
// its discoverability. Releasing type-specific resources (inventories,
// AI tables) stays with the caller. Despawning an entity that is no
// longer registered is a tolerated no-op, so deferred death cleanup
// firing twice cannot corrupt the index.
func (s *State) Despawn(e *Entity) {
	if s.registry.Lookup(e.ID) != e {
		s.log.Warn("despawn of unregistered entity",
			zap.Uint64("id", uint64(e.ID)))
		return
	}
	if m := s.maps[e.MapID]; m != nil {
		m.leave(e)
	}
	s.registry.Unregister(e.ID)
}
