package event

import "github.com/AntPerez69367/yuri/internal/world"

// CreatureDied fires when combat drops a creature to zero health. The
// entity stays in the spatial index (visible to raw queries only) until
// the respawn system revives or reaps it.
type CreatureDied struct {
	Creature *world.Entity
	KillerID world.ID // 0 when environmental
}

// AvatarEntered fires after an avatar spawns into the world.
type AvatarEntered struct {
	Avatar *world.Entity
}

// AvatarLeft fires after an avatar despawns (logout or disconnect).
type AvatarLeft struct {
	AvatarID  world.ID
	SessionID uint64
}

// MapReloaded fires after a map's grid was rebuilt with new dimensions.
type MapReloaded struct {
	MapID world.MapID
}
