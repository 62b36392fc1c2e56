package handler

import (
	"github.com/AntPerez69367/yuri/internal/config"
	"github.com/AntPerez69367/yuri/internal/core/event"
	"github.com/AntPerez69367/yuri/internal/data"
	"github.com/AntPerez69367/yuri/internal/net"
	"github.com/AntPerez69367/yuri/internal/net/packet"
	"github.com/AntPerez69367/yuri/internal/persist"
	"github.com/AntPerez69367/yuri/internal/scripting"
	"github.com/AntPerez69367/yuri/internal/world"
	"go.uber.org/zap"
)

// Deps holds shared dependencies injected into all packet handlers.
type Deps struct {
	AccountRepo *persist.AccountRepo
	CharRepo    *persist.CharacterRepo
	Config      *config.Config
	Log         *zap.Logger
	World       *world.State
	Bus         *event.Bus
	Scripting   *scripting.Engine
	Maps        *data.MapTable
}

// RegisterAll registers every packet handler into the registry.
func RegisterAll(reg *packet.Registry, deps *Deps) {
	reg.Register(packet.C_OPCODE_LOGIN,
		[]packet.SessionState{packet.StateHandshake},
		func(sess any, r *packet.Reader) {
			HandleLogin(sess.(*net.Session), r, deps)
		},
	)

	inWorld := []packet.SessionState{packet.StateInWorld}

	reg.Register(packet.C_OPCODE_MOVE, inWorld,
		func(sess any, r *packet.Reader) {
			HandleMove(sess.(*net.Session), r, deps)
		},
	)
	reg.Register(packet.C_OPCODE_QUIT,
		[]packet.SessionState{packet.StateHandshake, packet.StateAuthed, packet.StateInWorld},
		func(sess any, r *packet.Reader) {
			HandleQuit(sess.(*net.Session), r, deps)
		},
	)
}
