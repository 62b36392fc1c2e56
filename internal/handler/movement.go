package handler

import (
	"github.com/AntPerez69367/yuri/internal/net"
	"github.com/AntPerez69367/yuri/internal/net/packet"
	"github.com/AntPerez69367/yuri/internal/world"
	"go.uber.org/zap"
)

// Tile deltas indexed by direction (0=up 1=right 2=down 3=left).
var dirDX = [4]int32{0, 1, 0, -1}
var dirDY = [4]int32{-1, 0, 1, 0}

// HandleMove processes C_OPCODE_MOVE.
// Format: [opcode][direction byte]
//
// The client's own coordinates are never trusted; the destination is
// computed from the server-tracked position. Relocate clamps to map
// bounds, so walking off the edge just pins the avatar to the border.
func HandleMove(sess *net.Session, r *packet.Reader, deps *Deps) {
	dir := r.ReadC()
	if dir > 3 {
		return
	}

	avatar := deps.World.Lookup(world.ID(sess.EntityID))
	if avatar == nil {
		return
	}

	destX := avatar.X + dirDX[dir]
	destY := avatar.Y + dirDY[dir]
	deps.World.Relocate(avatar, avatar.MapID, destX, destY)

	// Trap fixtures fire on the tile actually landed on (Relocate may
	// have clamped). Plain queries hide traps, hence the WithTraps scan.
	for _, f := range deps.World.CellQueryWithTraps(avatar.MapID, avatar.X, avatar.Y, world.KindFixture) {
		if f.Fixture.Trap && f.X == avatar.X && f.Y == avatar.Y {
			if err := deps.Scripting.CallEvent("onTrapStep",
				deps.Scripting.WrapEntity(f), deps.Scripting.WrapEntity(avatar)); err != nil {
				deps.Log.Warn("trap script failed", zap.Error(err))
			}
		}
	}
}
