package world

// Query engine: stateless scans over the grid partition. Every shape
// shares one filtering contract — a Kind mask plus optional trap and
// liveness handling — and one visit-order guarantee: within a cell the
// most-recently-joined entity is visited first, across cells ascending
// cell index, and every qualifying entity appears exactly once. Callers
// must not rely on any finer ordering.
//
// Querying an unloaded map returns an empty result, never an error:
// global sweeps routinely probe map ids that have nothing behind them.

// queryFlags selects the optional filters applied on top of the Kind mask.
type queryFlags uint8

const (
	includeTraps queryFlags = 1 << iota // surface trap fixtures too
	aliveOnly                           // drop dead creatures, hidden avatars
)

// collectCell appends matching entities from one cell.
// When the mask asks for creatures only, the scan runs over the
// materialized creature sublist instead of the full cell.
func collectCell(c *cell, mask Kind, flags queryFlags, out []*Entity) []*Entity {
	list := c.all
	if mask == KindCreature {
		list = c.creatures
	}
	for i := len(list) - 1; i >= 0; i-- {
		e := list[i]
		if e.Kind&mask == 0 {
			continue
		}
		if e.isTrap() && flags&includeTraps == 0 {
			continue
		}
		if flags&aliveOnly != 0 && !e.Interactable() {
			continue
		}
		out = append(out, e)
	}
	return out
}

func (s *State) cellQuery(mapID MapID, x, y int32, mask Kind, flags queryFlags) []*Entity {
	m := s.maps[mapID]
	if m == nil {
		return nil
	}
	x, y = m.Clamp(x, y)
	return collectCell(&m.cells[m.cellIndex(x, y)], mask, flags, nil)
}

// CellQuery returns the entities sharing the grid cell that covers
// (x, y). Trap fixtures are omitted; dead/hidden entities are included.
func (s *State) CellQuery(mapID MapID, x, y int32, mask Kind) []*Entity {
	return s.cellQuery(mapID, x, y, mask, 0)
}

// CellQueryWithTraps is CellQuery plus trap fixtures, for detection
// mechanics that must see what ordinary scans hide.
func (s *State) CellQueryWithTraps(mapID MapID, x, y int32, mask Kind) []*Entity {
	return s.cellQuery(mapID, x, y, mask, includeTraps)
}

// AliveCellQuery is CellQuery restricted to interactable entities, for
// AI and targeting paths that must never select a corpse or a stealthed
// avatar.
func (s *State) AliveCellQuery(mapID MapID, x, y int32, mask Kind) []*Entity {
	return s.cellQuery(mapID, x, y, mask, aliveOnly)
}

// areaQuery scans the square neighbourhood of cells covering the vision
// radius centred on (x, y), clamped to map bounds.
func (s *State) areaQuery(mapID MapID, x, y int32, mask Kind, flags queryFlags) []*Entity {
	m := s.maps[mapID]
	if m == nil {
		return nil
	}
	x, y = m.Clamp(x, y)
	x0, y0 := m.Clamp(x-s.visionRange, y-s.visionRange)
	x1, y1 := m.Clamp(x+s.visionRange, y+s.visionRange)

	var out []*Entity
	for cy := y0 / CellSize; cy <= y1/CellSize; cy++ {
		for cx := x0 / CellSize; cx <= x1/CellSize; cx++ {
			out = collectCell(&m.cells[cx+cy*m.cw], mask, flags, out)
		}
	}
	return out
}

// AreaQuery returns the entities within the vision-radius cell
// neighbourhood of (x, y) — the area-of-interest primitive behind
// visibility, broadcast and AI aggro scans. The result is a superset of
// CellQuery at the same position.
func (s *State) AreaQuery(mapID MapID, x, y int32, mask Kind) []*Entity {
	return s.areaQuery(mapID, x, y, mask, 0)
}

// AliveAreaQuery is AreaQuery restricted to interactable entities.
func (s *State) AliveAreaQuery(mapID MapID, x, y int32, mask Kind) []*Entity {
	return s.areaQuery(mapID, x, y, mask, aliveOnly)
}

// mapQuery scans every cell of the map in ascending index order.
func (s *State) mapQuery(mapID MapID, mask Kind, flags queryFlags) []*Entity {
	m := s.maps[mapID]
	if m == nil {
		return nil
	}
	var out []*Entity
	for i := range m.cells {
		out = collectCell(&m.cells[i], mask, flags, out)
	}
	return out
}

// MapQuery returns every matching entity on the map — necessarily O(n)
// in map population; meant for map-wide effects such as weather changes
// and announcements.
func (s *State) MapQuery(mapID MapID, mask Kind) []*Entity {
	return s.mapQuery(mapID, mask, 0)
}

// AliveMapQuery is MapQuery restricted to interactable entities.
func (s *State) AliveMapQuery(mapID MapID, mask Kind) []*Entity {
	return s.mapQuery(mapID, mask, aliveOnly)
}
