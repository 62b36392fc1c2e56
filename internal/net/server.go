package net

import (
	"context"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Server accepts TCP connections and hands new sessions to the game
// loop over a channel. Dead sessions are announced the same way so the
// loop can clean up world state for them.
type Server struct {
	addr     string
	listener net.Listener

	NewConns chan *Session
	DeadCh   chan *Session

	sessions  map[uint64]*Session
	sessionMu sync.Mutex
	nextID    uint64

	inQueueSize  int
	outQueueSize int
	pktPerSec    int
	writeTimeout time.Duration

	log *zap.Logger
}

type ServerConfig struct {
	Addr         string
	InQueueSize  int
	OutQueueSize int
	PacketsPerS  int
	WriteTimeout time.Duration
}

func NewServer(cfg ServerConfig, log *zap.Logger) *Server {
	return &Server{
		addr:         cfg.Addr,
		NewConns:     make(chan *Session, 64),
		DeadCh:       make(chan *Session, 64),
		sessions:     make(map[uint64]*Session),
		inQueueSize:  cfg.InQueueSize,
		outQueueSize: cfg.OutQueueSize,
		pktPerSec:    cfg.PacketsPerS,
		writeTimeout: cfg.WriteTimeout,
		log:          log,
	}
}

// Listen binds the listen address and starts the accept loop.
func (srv *Server) Listen(ctx context.Context) error {
	ln, err := net.Listen("tcp", srv.addr)
	if err != nil {
		return err
	}
	srv.listener = ln
	srv.log.Info("listening", zap.String("addr", srv.addr))

	go srv.acceptLoop(ctx)
	go srv.reapLoop(ctx)
	return nil
}

func (srv *Server) acceptLoop(ctx context.Context) {
	for {
		conn, err := srv.listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return
			default:
			}
			srv.log.Warn("accept failed", zap.Error(err))
			continue
		}

		if tc, ok := conn.(*net.TCPConn); ok {
			tc.SetNoDelay(true)
		}

		srv.sessionMu.Lock()
		srv.nextID++
		id := srv.nextID
		srv.sessionMu.Unlock()

		sess := NewSession(conn, id, srv.inQueueSize, srv.outQueueSize, srv.pktPerSec, srv.writeTimeout, srv.log)

		srv.sessionMu.Lock()
		srv.sessions[id] = sess
		srv.sessionMu.Unlock()

		sess.Start()
		srv.log.Info("connection accepted", zap.Uint64("session", id), zap.String("ip", sess.IP))

		select {
		case srv.NewConns <- sess:
		case <-ctx.Done():
			sess.Close()
			return
		}
	}
}

// reapLoop sweeps for sessions whose goroutines have shut down and
// reports them on DeadCh exactly once.
func (srv *Server) reapLoop(ctx context.Context) {
	tick := time.NewTicker(time.Second)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
		}

		var dead []*Session
		srv.sessionMu.Lock()
		for id, sess := range srv.sessions {
			if sess.IsClosed() {
				delete(srv.sessions, id)
				dead = append(dead, sess)
			}
		}
		srv.sessionMu.Unlock()

		for _, sess := range dead {
			select {
			case srv.DeadCh <- sess:
			case <-ctx.Done():
				return
			}
		}
	}
}

// Shutdown closes the listener and every live session.
func (srv *Server) Shutdown() {
	if srv.listener != nil {
		srv.listener.Close()
	}
	srv.sessionMu.Lock()
	defer srv.sessionMu.Unlock()
	for _, sess := range srv.sessions {
		sess.Close()
	}
}

// SessionCount reports how many sessions are currently registered.
func (srv *Server) SessionCount() int {
	srv.sessionMu.Lock()
	defer srv.sessionMu.Unlock()
	return len(srv.sessions)
}
