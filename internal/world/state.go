package world

import (
	"sort"

	"go.uber.org/zap"
)

// strictChecks upgrades index-consistency bugs from logged no-ops to
// panics. Production leaves it off — a single bad entity must never
// abort the simulation tick — tests switch it on to fail fast.
var strictChecks bool

// SetStrictChecks toggles fail-fast behaviour on programmer-error paths.
func SetStrictChecks(on bool) { strictChecks = on }

func failStrict(msg string) {
	if strictChecks {
		panic("world: " + msg)
	}
}

// State is the world spatial index for one server process: the map table
// with its grid partitions, the process-wide identifier registry, and the
// monotonic id counter. All mutation goes through the lifecycle
// operations (Spawn, Relocate, Despawn) so the registry and the grids
// can never disagree.
//
// Accessed only from the game loop goroutine — no locks. If concurrent
// packet handling is ever introduced, the natural extension point is a
// per-map lock: every query and lifecycle operation is already scoped
// to a single map.
type State struct {
	maps     map[MapID]*Map
	registry *Registry
	nextID   ID

	visionRange int32 // Chebyshev radius of area queries, in tiles

	log *zap.Logger
}

// DefaultVisionRange is the client screen half-extent in tiles.
const DefaultVisionRange = 8

func NewState(log *zap.Logger) *State {
	return &State{
		maps:        make(map[MapID]*Map, 64),
		registry:    NewRegistry(log),
		visionRange: DefaultVisionRange,
		log:         log,
	}
}

// SetVisionRange overrides the area-query radius. Values below 1 keep
// the current setting.
func (s *State) SetVisionRange(tiles int32) {
	if tiles >= 1 {
		s.visionRange = tiles
	}
}

// LoadMap creates (or hot-reloads) a map slot. Loading an already-loaded
// id with different dimensions resizes its grid and re-homes every
// entity on it.
func (s *State) LoadMap(id MapID, name string, width, height int32) *Map {
	if m, ok := s.maps[id]; ok {
		m.Name = name
		if m.Width != width || m.Height != height {
			m.Resize(width, height)
			s.log.Info("map resized",
				zap.Int16("map", int16(id)),
				zap.Int32("width", width), zap.Int32("height", height))
		}
		return m
	}
	m := NewMap(id, name, width, height, s.log)
	s.maps[id] = m
	return m
}

// UnloadMap despawns everything on the map and removes its slot.
// Unloading an id that is not loaded is a no-op.
func (s *State) UnloadMap(id MapID) {
	m, ok := s.maps[id]
	if !ok {
		return
	}
	// Sweep the cells directly: the plain map query hides trap fixtures,
	// which must be despawned here too.
	for i := range m.cells {
		for len(m.cells[i].all) > 0 {
			s.Despawn(m.cells[i].all[len(m.cells[i].all)-1])
		}
	}
	delete(s.maps, id)
}

// Map returns the loaded map for id, or nil. Probing unloaded ids is an
// expected condition, not an error.
func (s *State) Map(id MapID) *Map {
	return s.maps[id]
}

// MapIDs returns the ids of all loaded maps in ascending order.
func (s *State) MapIDs() []MapID {
	ids := make([]MapID, 0, len(s.maps))
	for id := range s.maps {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Lookup resolves an entity id through the identifier registry.
// Returns nil for ids that never existed or already despawned.
func (s *State) Lookup(id ID) *Entity {
	return s.registry.Lookup(id)
}

// Population returns the number of alive entities process-wide.
func (s *State) Population() int {
	return s.registry.Len()
}

// AllAvatars returns every avatar on every loaded map, gathered through
// the grid partitions (the registry is intentionally not iterable).
func (s *State) AllAvatars() []*Entity {
	var out []*Entity
	for _, id := range s.MapIDs() {
		out = append(out, s.MapQuery(id, KindAvatar)...)
	}
	return out
}
