package system

import (
	"time"

	coresys "github.com/AntPerez69367/yuri/internal/core/system"
	"github.com/AntPerez69367/yuri/internal/handler"
	"github.com/AntPerez69367/yuri/internal/net"
	"github.com/AntPerez69367/yuri/internal/net/packet"
	"go.uber.org/zap"
)

// InputSystem drains packet queues from all sessions and dispatches
// them through the packet registry. PhaseInput.
type InputSystem struct {
	server     *net.Server
	registry   *packet.Registry
	deps       *handler.Deps
	sessions   map[uint64]*net.Session
	maxPerTick int
	log        *zap.Logger
}

func NewInputSystem(server *net.Server, registry *packet.Registry, deps *handler.Deps, maxPerTick int, log *zap.Logger) *InputSystem {
	return &InputSystem{
		server:     server,
		registry:   registry,
		deps:       deps,
		sessions:   make(map[uint64]*net.Session),
		maxPerTick: maxPerTick,
		log:        log,
	}
}

func (s *InputSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *InputSystem) Update(_ time.Duration) {
	// Adopt new connections
	for {
		select {
		case sess := <-s.server.NewConns:
			s.sessions[sess.ID] = sess
		default:
			goto doneNew
		}
	}
doneNew:

	// Tear down reaped sessions. Remaining queued packets are dropped:
	// the connection is already gone, nothing can answer them.
	for {
		select {
		case sess := <-s.server.DeadCh:
			handler.HandleDisconnect(sess, s.deps)
			delete(s.sessions, sess.ID)
		default:
			goto doneDead
		}
	}
doneDead:

	// Drain packets from each live session, up to maxPerTick each so a
	// flooding client cannot monopolize the tick.
sessions:
	for _, sess := range s.sessions {
		for i := 0; i < s.maxPerTick; i++ {
			select {
			case data := <-sess.InQueue:
				if err := s.registry.Dispatch(sess, sess.State(), data); err != nil {
					s.log.Debug("packet dispatch error",
						zap.Uint64("session", sess.ID),
						zap.Error(err),
					)
				}
			default:
				continue sessions
			}
		}
	}
}

// FlushAll pushes every session's buffered output to its writer
// goroutine. The game loop calls this once per tick, after all systems
// have run.
func (s *InputSystem) FlushAll() {
	for _, sess := range s.sessions {
		if !sess.IsClosed() {
			sess.FlushOutput()
		}
	}
}
