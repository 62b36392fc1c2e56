package handler

import (
	"context"
	"time"

	"github.com/AntPerez69367/yuri/internal/core/event"
	"github.com/AntPerez69367/yuri/internal/net"
	"github.com/AntPerez69367/yuri/internal/net/packet"
	"github.com/AntPerez69367/yuri/internal/world"
	"go.uber.org/zap"
)

// HandleQuit processes C_OPCODE_QUIT. Closing the session is enough:
// world cleanup happens in HandleDisconnect when the dead session is
// reaped.
func HandleQuit(sess *net.Session, _ *packet.Reader, deps *Deps) {
	deps.Log.Info("quit requested",
		zap.Uint64("session", sess.ID),
		zap.String("account", sess.AccountName),
	)
	sess.Close()
}

// HandleDisconnect tears down world state for a dead session: saves the
// avatar's position, despawns it, and clears the online flag. Runs on
// the game loop for every session reported dead, whatever killed it.
func HandleDisconnect(sess *net.Session, deps *Deps) {
	if sess.EntityID != 0 {
		if avatar := deps.World.Lookup(world.ID(sess.EntityID)); avatar != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err := deps.CharRepo.SavePosition(ctx, avatar.Name, int16(avatar.MapID), avatar.X, avatar.Y)
			cancel()
			if err != nil {
				deps.Log.Error("position save on disconnect failed",
					zap.String("name", avatar.Name), zap.Error(err))
			}

			deps.World.Despawn(avatar)
			event.Emit(deps.Bus, event.AvatarLeft{
				AvatarID:  avatar.ID,
				SessionID: sess.ID,
			})
		}
		sess.EntityID = 0
	}

	if sess.AccountName != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := deps.AccountRepo.SetOnline(ctx, sess.AccountName, false); err != nil {
			deps.Log.Warn("online flag clear failed",
				zap.String("account", sess.AccountName), zap.Error(err))
		}
		cancel()
	}

	deps.Log.Info("session closed",
		zap.Uint64("session", sess.ID),
		zap.String("account", sess.AccountName),
	)
}
