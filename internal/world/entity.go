package world

// ID uniquely identifies a world object for the lifetime of the process.
// IDs are assigned from a monotonic uint64 counter; 0 is reserved and
// never assigned, so it can serve as a "no entity" sentinel.
type ID uint64

// MapID identifies one map slot. The id space is sparse: callers routinely
// probe ids that have no loaded map behind them.
type MapID int16

// Kind is a bitmask over the four entity categories. Query masks are
// built by OR-ing Kind values together.
type Kind uint8

const (
	KindAvatar    Kind = 0x01 // player-controlled character
	KindCreature  Kind = 0x02 // AI-driven monster/animal
	KindFixture   Kind = 0x04 // scripted world object (signpost, portal, trap)
	KindItemStack Kind = 0x08 // dropped item pile
	KindAll       Kind = 0x0F
)

// CreatureState is the coarse AI/liveness state of a creature.
type CreatureState uint8

const (
	CreatureAlive CreatureState = iota
	CreatureDead                // corpse; skipped by alive-only queries
	CreatureParalyzed
	CreatureBlind
	CreatureFleeing
)

// Entity is any world object participating in spatial indexing.
// Exactly one of the sub-record pointers is non-nil, selected by Kind.
// Position fields are mutated only by the lifecycle operations on State;
// everything else may be mutated freely by game systems.
type Entity struct {
	ID    ID
	Kind  Kind
	Name  string
	MapID MapID
	X, Y  int32

	Avatar   *AvatarInfo
	Creature *CreatureInfo
	Fixture  *FixtureInfo
	Item     *ItemInfo
}

// AvatarInfo holds the avatar-specific state the index cares about.
// Combat stats, inventory etc. live with their owning systems.
type AvatarInfo struct {
	SessionID uint64
	Stealthed bool // invisibility effect active
	Ghost     bool // dead and not yet revived; cannot be targeted
	GM        bool // staff character, hidden from alive-only scans
}

// CreatureInfo holds creature AI/respawn state.
type CreatureInfo struct {
	SpeciesID    int32
	State        CreatureState
	SpawnX       int32 // home position, used when the respawn timer revives in place
	SpawnY       int32
	RespawnTicks int // remaining ticks until a dead creature revives (0 = no timer)
}

// FixtureInfo holds scripted-object state. Trap fixtures are skipped by
// plain queries and only surface through the WithTraps variants.
type FixtureInfo struct {
	Script string
	Trap   bool
}

// ItemInfo holds a dropped item stack. Owners carries loot rights:
// avatar ids allowed to pick the stack up while the claim timer runs.
type ItemInfo struct {
	ItemID int32
	Count  int32
	Owners []ID
}

// NewAvatar builds an unspawned avatar entity. The id is assigned by Spawn.
func NewAvatar(name string, sessionID uint64, mapID MapID, x, y int32) *Entity {
	return &Entity{
		Kind:   KindAvatar,
		Name:   name,
		MapID:  mapID,
		X:      x,
		Y:      y,
		Avatar: &AvatarInfo{SessionID: sessionID},
	}
}

// NewCreature builds an unspawned creature entity at its home position.
func NewCreature(name string, speciesID int32, mapID MapID, x, y int32) *Entity {
	return &Entity{
		Kind:  KindCreature,
		Name:  name,
		MapID: mapID,
		X:     x,
		Y:     y,
		Creature: &CreatureInfo{
			SpeciesID: speciesID,
			State:     CreatureAlive,
			SpawnX:    x,
			SpawnY:    y,
		},
	}
}

// NewFixture builds an unspawned fixture entity.
func NewFixture(name, script string, trap bool, mapID MapID, x, y int32) *Entity {
	return &Entity{
		Kind:    KindFixture,
		Name:    name,
		MapID:   mapID,
		X:       x,
		Y:       y,
		Fixture: &FixtureInfo{Script: script, Trap: trap},
	}
}

// NewItemStack builds an unspawned dropped-item entity.
func NewItemStack(itemID, count int32, mapID MapID, x, y int32) *Entity {
	return &Entity{
		Kind:  KindItemStack,
		MapID: mapID,
		X:     x,
		Y:     y,
		Item:  &ItemInfo{ItemID: itemID, Count: count},
	}
}

// Interactable reports whether the entity passes the alive-only filter:
// dead creatures and stealthed/ghost/GM avatars are excluded, everything
// else passes. Fixtures and item stacks are always interactable; trap
// visibility is handled separately by the query engine.
func (e *Entity) Interactable() bool {
	switch e.Kind {
	case KindCreature:
		return creatureInteractable(e.Creature)
	case KindAvatar:
		return avatarInteractable(e.Avatar)
	default:
		return true
	}
}

func creatureInteractable(c *CreatureInfo) bool {
	return c == nil || c.State != CreatureDead
}

func avatarInteractable(a *AvatarInfo) bool {
	return a == nil || (!a.Stealthed && !a.Ghost && !a.GM)
}

// isTrap reports whether the entity is a trap fixture, which plain
// queries must not surface.
func (e *Entity) isTrap() bool {
	return e.Kind == KindFixture && e.Fixture != nil && e.Fixture.Trap
}
