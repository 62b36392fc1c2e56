package world

import "go.uber.org/zap"

// CellSize is the tile span of one grid cell edge. With the 8-tile
// Chebyshev vision radius, a query never touches more than a 3x3
// neighbourhood of cells.
const CellSize = 8

// cell holds the entities currently inside one fixed-size square of the
// map. The creature slice is a materialized filter over all — creature-
// only scans are the hottest query path — and is updated inside the same
// join/leave as the main list so the two can never diverge.
type cell struct {
	all       []*Entity
	creatures []*Entity
}

// Map owns the grid partition for one loaded map. Coordinates are always
// clamped to [0,width-1]x[0,height-1] before any index operation.
//
// Accessed only from the game loop goroutine — no locks.
type Map struct {
	ID     MapID
	Name   string
	Width  int32
	Height int32

	cw, ch  int32 // cells across / down: ceil(dim / CellSize)
	cells   []cell
	avatars int // running count of avatars on this map

	log *zap.Logger
}

func NewMap(id MapID, name string, width, height int32, log *zap.Logger) *Map {
	m := &Map{ID: id, Name: name, log: log}
	m.alloc(width, height)
	return m
}

func (m *Map) alloc(width, height int32) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	m.Width = width
	m.Height = height
	m.cw = (width + CellSize - 1) / CellSize
	m.ch = (height + CellSize - 1) / CellSize
	m.cells = make([]cell, m.cw*m.ch)
}

// Clamp forces coordinates into map bounds. Out-of-range positions come
// from hand-edited world data and are tolerated, never rejected.
func (m *Map) Clamp(x, y int32) (int32, int32) {
	if x < 0 {
		x = 0
	} else if x >= m.Width {
		x = m.Width - 1
	}
	if y < 0 {
		y = 0
	} else if y >= m.Height {
		y = m.Height - 1
	}
	return x, y
}

// cellIndex maps clamped tile coordinates to a cell slot.
func (m *Map) cellIndex(x, y int32) int32 {
	return x/CellSize + (y/CellSize)*m.cw
}

// Avatars returns the number of avatars currently on the map.
func (m *Map) Avatars() int {
	return m.avatars
}

// join inserts the entity into the cell derived from its current
// coordinates. Callers (lifecycle operations only) must have clamped
// the coordinates first.
func (m *Map) join(e *Entity) {
	c := &m.cells[m.cellIndex(e.X, e.Y)]
	c.all = append(c.all, e)
	if e.Kind == KindCreature {
		c.creatures = append(c.creatures, e)
	}
	if e.Kind == KindAvatar {
		m.avatars++
	}
}

// leave removes the entity from the cell derived from its current
// coordinates. An entity missing from its own cell means the index and
// the recorded coordinates disagree — a consistency bug, logged and
// tolerated in production, fatal under strict checks.
func (m *Map) leave(e *Entity) {
	c := &m.cells[m.cellIndex(e.X, e.Y)]
	if !removeEntity(&c.all, e) {
		m.log.Error("entity missing from its recorded cell",
			zap.Uint64("id", uint64(e.ID)),
			zap.Int16("map", int16(m.ID)),
			zap.Int32("x", e.X), zap.Int32("y", e.Y))
		failStrict("entity missing from its recorded cell")
		return
	}
	if e.Kind == KindCreature {
		if !removeEntity(&c.creatures, e) {
			m.log.Error("creature missing from creature sublist",
				zap.Uint64("id", uint64(e.ID)),
				zap.Int16("map", int16(m.ID)))
			failStrict("creature missing from creature sublist")
		}
	}
	if e.Kind == KindAvatar {
		m.avatars--
	}
}

// removeEntity deletes e from the slice preserving order, so the
// "most-recently-joined first" visit order survives removals.
func removeEntity(list *[]*Entity, e *Entity) bool {
	s := *list
	for i, v := range s {
		if v == e {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = nil
			*list = s[:len(s)-1]
			return true
		}
	}
	return false
}

// Resize reallocates the cell array for new dimensions and re-homes
// every entity on the map, clamping positions that fell out of range.
// Used on map hot-reload; no stale cell references survive.
func (m *Map) Resize(width, height int32) {
	old := m.cells
	avatars := m.avatars
	m.alloc(width, height)
	m.avatars = 0
	for i := range old {
		for _, e := range old[i].all {
			e.X, e.Y = m.Clamp(e.X, e.Y)
			m.join(e)
		}
		old[i].all = nil
		old[i].creatures = nil
	}
	if m.avatars != avatars {
		m.log.Error("avatar count drifted across resize",
			zap.Int16("map", int16(m.ID)),
			zap.Int("before", avatars), zap.Int("after", m.avatars))
		failStrict("avatar count drifted across resize")
	}
}
