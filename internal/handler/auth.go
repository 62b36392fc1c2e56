package handler

import (
	"context"
	"strings"
	"time"

	"github.com/AntPerez69367/yuri/internal/core/event"
	"github.com/AntPerez69367/yuri/internal/net"
	"github.com/AntPerez69367/yuri/internal/net/packet"
	"github.com/AntPerez69367/yuri/internal/persist"
	"github.com/AntPerez69367/yuri/internal/world"
	"go.uber.org/zap"
)

// HandleLogin processes C_OPCODE_LOGIN.
// Format: [opcode][name\0][password\0]
//
// Accounts and characters are 1:1 here — the login name IS the
// character name, so a successful login goes straight into the world.
func HandleLogin(sess *net.Session, r *packet.Reader, deps *Deps) {
	name := strings.ToLower(r.ReadS())
	password := r.ReadS()

	if name == "" || len(name) > 16 {
		sendLoginError(sess, "invalid name")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	account, err := deps.AccountRepo.Load(ctx, name)
	if err != nil {
		deps.Log.Error("account load failed", zap.String("name", name), zap.Error(err))
		sendLoginError(sess, "server error")
		return
	}

	if account == nil {
		if !deps.Config.Server.AutoCreateAccounts {
			sendLoginError(sess, "no such account")
			return
		}
		account, err = deps.AccountRepo.Create(ctx, name, password, sess.IP)
		if err != nil {
			deps.Log.Error("account create failed", zap.String("name", name), zap.Error(err))
			sendLoginError(sess, "server error")
			return
		}
		deps.Log.Info("account auto-created", zap.String("name", name), zap.String("ip", sess.IP))
	}

	if !deps.AccountRepo.ValidatePassword(account.PasswordHash, password) {
		deps.Log.Info("wrong password", zap.String("name", name), zap.String("ip", sess.IP))
		sendLoginError(sess, "wrong password")
		return
	}

	if account.Banned {
		sendLoginError(sess, "account banned")
		return
	}

	if account.Online {
		sendLoginError(sess, "already logged in")
		return
	}

	char, err := deps.CharRepo.LoadByName(ctx, name)
	if err != nil {
		deps.Log.Error("character load failed", zap.String("name", name), zap.Error(err))
		sendLoginError(sess, "server error")
		return
	}
	if char == nil {
		char = &persist.CharacterRow{
			AccountName: name,
			Name:        name,
			ClassID:     0,
			Level:       1,
			MapID:       int16(deps.Config.World.StartMap),
			X:           deps.Config.World.StartX,
			Y:           deps.Config.World.StartY,
		}
		if _, err := deps.CharRepo.Create(ctx, char); err != nil {
			deps.Log.Error("character create failed", zap.String("name", name), zap.Error(err))
			sendLoginError(sess, "server error")
			return
		}
	}

	// Fall back to the configured start point when the saved map is
	// not loaded (removed from the map list since the last save).
	mapID := world.MapID(char.MapID)
	x, y := char.X, char.Y
	if deps.World.Map(mapID) == nil {
		mapID = world.MapID(deps.Config.World.StartMap)
		x, y = deps.Config.World.StartX, deps.Config.World.StartY
	}

	avatar := world.NewAvatar(char.Name, sess.ID, mapID, x, y)
	avatar.Avatar.GM = account.AccessLevel > 0
	id := deps.World.Spawn(avatar)
	if id == 0 {
		sendLoginError(sess, "server error")
		return
	}

	if err := deps.AccountRepo.SetOnline(ctx, name, true); err != nil {
		deps.Log.Warn("online flag update failed", zap.String("name", name), zap.Error(err))
	}

	sess.AccountName = name
	sess.CharName = char.Name
	sess.EntityID = uint64(id)
	sess.SetState(packet.StateInWorld)

	w := packet.NewWriter(packet.S_OPCODE_LOGIN_OK)
	w.WriteQ(uint64(id))
	w.WriteH(uint16(mapID))
	w.WriteH(uint16(avatar.X))
	w.WriteH(uint16(avatar.Y))
	sess.Send(w.Bytes())

	event.Emit(deps.Bus, event.AvatarEntered{Avatar: avatar})
	deps.Log.Info("avatar entered world",
		zap.String("name", char.Name),
		zap.Uint64("entity", uint64(id)),
		zap.Int16("map", int16(mapID)),
	)
}

func sendLoginError(sess *net.Session, reason string) {
	w := packet.NewWriter(packet.S_OPCODE_LOGIN_ERR)
	w.WriteS(reason)
	sess.Send(w.Bytes())
	sess.FlushOutput()
	sess.Close()
}
