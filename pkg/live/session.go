package live

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pathline-dev/pathline/pkg/history"
	"github.com/pathline-dev/pathline/pkg/router"
)

// Session is one connected browser. It owns the authoritative history
// stack for that browser and implements history.History, so the
// per-session navigation engine mutates the browser through it: every
// Push, Replace, Back, or Forward lands on the in-process stack and is
// mirrored to the client as a patch.
type Session struct {
	id     string
	conn   *websocket.Conn
	config Config
	logger *slog.Logger

	// stack is the server-side truth the engine reads back from.
	stack *history.Memory

	engine *router.Engine

	writeMu sync.Mutex
	seq     atomic.Uint64
	closed  atomic.Bool
	done    chan struct{}

	onClose func(*Session)
}

func newSession(id string, conn *websocket.Conn, config Config, logger *slog.Logger) *Session {
	return &Session{
		id:     id,
		conn:   conn,
		config: config,
		logger: logger.With("session", id),
		stack:  history.NewMemory("/"),
		done:   make(chan struct{}),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Engine returns the session's navigation engine.
func (s *Session) Engine() *router.Engine { return s.engine }

// Push implements history.History.
func (s *Session) Push(path string, state any) error {
	if err := s.stack.Push(path, state); err != nil {
		return err
	}
	s.sendPatch(Patch{Op: PatchPush, Path: path, State: state})
	return nil
}

// Replace implements history.History.
func (s *Session) Replace(path string, state any) error {
	if err := s.stack.Replace(path, state); err != nil {
		return err
	}
	s.sendPatch(Patch{Op: PatchReplace, Path: path, State: state})
	return nil
}

// Back implements history.History.
func (s *Session) Back() {
	s.stack.Back()
	s.sendPatch(Patch{Op: PatchBack})
}

// Forward implements history.History.
func (s *Session) Forward() {
	s.stack.Forward()
	s.sendPatch(Patch{Op: PatchForward})
}

// Location implements history.History.
func (s *Session) Location() history.Entry {
	return s.stack.Location()
}

// Listen implements history.History.
func (s *Session) Listen(fn func(history.PopEvent)) (remove func()) {
	return s.stack.Listen(fn)
}

// sendPatch writes a patch to the client with the next sequence number.
// Write failures close the session; the read loop notices and tears down.
func (s *Session) sendPatch(p Patch) {
	if s.closed.Load() {
		return
	}
	p.Seq = s.seq.Add(1)

	data, err := EncodePatch(p)
	if err != nil {
		s.logger.Error("patch encode error", "error", err)
		return
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		s.logger.Error("patch write error", "error", err, "op", p.Op)
		s.Close()
	}
}

// readLoop consumes client messages until the connection drops.
func (s *Session) readLoop(ctx context.Context) {
	defer s.Close()

	for {
		s.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))

		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "error", err)
			}
			return
		}

		cm, err := DecodeClientMessage(msg)
		if err != nil {
			s.logger.Warn("bad client message", "error", err)
			continue
		}
		s.handleClientMessage(ctx, cm)
	}
}

func (s *Session) handleClientMessage(ctx context.Context, cm ClientMessage) {
	switch cm.Type {
	case MsgNavigate:
		var opts []router.NavigateOption
		if cm.Replace {
			opts = append(opts, router.WithReplace())
		}
		s.engine.Navigate(ctx, cm.Path, opts...)

	case MsgPopState:
		// The browser already moved its own pointer, so mutate the
		// server stack directly rather than through the session
		// wrapper, which would echo a patch back. The resulting pop
		// event drives the engine.
		s.stack.Go(cm.Delta)

	case MsgPing:
		s.sendPatch(Patch{Op: PatchPong})
	}
}

// writeLoop sends keepalive pings until the session closes.
func (s *Session) writeLoop() {
	ticker := time.NewTicker(s.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.writeMu.Lock()
			s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
			err := s.conn.WriteMessage(websocket.PingMessage, nil)
			s.writeMu.Unlock()
			if err != nil {
				s.Close()
				return
			}

		case <-s.done:
			return
		}
	}
}

// Close tears down the session once. Safe to call from any goroutine.
func (s *Session) Close() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}
	close(s.done)

	if s.engine != nil {
		s.engine.Destroy()
	}
	s.conn.Close()

	if s.onClose != nil {
		s.onClose(s)
	}
	s.logger.Info("session closed")
}
