package world

import "go.uber.org/zap"

// Registry is the process-wide id → entity table, spanning all loaded
// maps. It is deliberately not iterable: bulk iteration always goes
// through the grid partition so a second iterable structure cannot
// drift out of sync with it.
//
// Accessed only from the game loop goroutine — no locks.
type Registry struct {
	entities map[ID]*Entity
	log      *zap.Logger
}

func NewRegistry(log *zap.Logger) *Registry {
	return &Registry{
		entities: make(map[ID]*Entity, 4096),
		log:      log,
	}
}

// Register inserts an entity under its id. A duplicate id is a caller
// bug: it is logged and ignored in production, and panics under strict
// checks (tests).
func (r *Registry) Register(e *Entity) {
	if _, exists := r.entities[e.ID]; exists {
		r.log.Error("duplicate entity id registration",
			zap.Uint64("id", uint64(e.ID)),
			zap.String("name", e.Name))
		failStrict("duplicate entity id registration")
		return
	}
	r.entities[e.ID] = e
}

// Lookup returns the entity registered under id, or nil. A missing id is
// an expected condition (deferred callbacks routinely outlive their
// target), never an error.
func (r *Registry) Lookup(id ID) *Entity {
	return r.entities[id]
}

// Unregister removes an entity. Removing an absent id is flagged but
// tolerated so a stray double-despawn cannot abort the tick.
func (r *Registry) Unregister(id ID) {
	if _, exists := r.entities[id]; !exists {
		r.log.Warn("unregister of unknown entity id", zap.Uint64("id", uint64(id)))
		return
	}
	delete(r.entities, id)
}

// Len returns the number of registered (alive) entities.
func (r *Registry) Len() int {
	return len(r.entities)
}
