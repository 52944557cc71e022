package live

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pathline-dev/pathline/pkg/router"
)

// Blueprint builds a navigation engine for one browser session. The
// session is passed as the engine's history collaborator; register routes
// and guards on the returned engine but do not Init it, the server does.
type Blueprint func(s *Session) (*router.Engine, error)

// Config holds live server tuning knobs.
type Config struct {
	// ReadTimeout bounds how long a session may stay silent. Keepalive
	// pings from the client reset it. Default: 60s.
	ReadTimeout time.Duration

	// WriteTimeout bounds a single frame write. Default: 10s.
	WriteTimeout time.Duration

	// PingInterval is the keepalive cadence. Default: 30s.
	PingInterval time.Duration

	// CheckOrigin overrides the upgrade origin check.
	// Default: same-origin only (gorilla's default).
	CheckOrigin func(r *http.Request) bool
}

func (c *Config) applyDefaults() {
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 60 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 10 * time.Second
	}
	if c.PingInterval == 0 {
		c.PingInterval = 30 * time.Second
	}
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithConfig replaces the default session tuning.
func WithConfig(config Config) ServerOption {
	return func(s *Server) {
		s.config = config
	}
}

// WithLogger sets the server logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithConnectHooks registers callbacks fired when a session opens or
// closes, e.g. the telemetry session gauge.
func WithConnectHooks(onConnect, onDisconnect func()) ServerOption {
	return func(s *Server) {
		s.onConnect = onConnect
		s.onDisconnect = onDisconnect
	}
}

// Server upgrades HTTP requests to live sessions. Mount it on any mux:
//
//	r.Handle("/live", live.NewServer(blueprint))
type Server struct {
	blueprint Blueprint
	config    Config
	logger    *slog.Logger
	upgrader  websocket.Upgrader

	onConnect    func()
	onDisconnect func()

	mu       sync.Mutex
	sessions map[string]*Session
	closed   bool
}

// NewServer creates a live server around an application blueprint.
func NewServer(blueprint Blueprint, opts ...ServerOption) *Server {
	s := &Server{
		blueprint: blueprint,
		logger:    slog.Default(),
		sessions:  make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.config.applyDefaults()
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     s.config.CheckOrigin,
	}
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		http.Error(w, "server shutting down", http.StatusServiceUnavailable)
		return
	}
	s.mu.Unlock()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("upgrade failed", "error", err, "remote", r.RemoteAddr)
		return
	}

	sess := newSession(newSessionID(), conn, s.config, s.logger)

	engine, err := s.blueprint(sess)
	if err != nil {
		s.logger.Error("blueprint failed", "error", err)
		conn.Close()
		return
	}
	sess.engine = engine

	ctx := r.Context()
	if err := engine.Init(ctx); err != nil {
		s.logger.Error("engine init failed", "error", err)
		sess.Close()
		return
	}

	s.mu.Lock()
	// Shutdown may have run since the pre-upgrade check; a session
	// inserted now would never be seen by its snapshot of the map.
	if s.closed {
		s.mu.Unlock()
		sess.Close()
		return
	}
	sess.onClose = func(closed *Session) {
		s.mu.Lock()
		delete(s.sessions, closed.id)
		s.mu.Unlock()
		if s.onDisconnect != nil {
			s.onDisconnect()
		}
	}
	s.sessions[sess.id] = sess
	s.mu.Unlock()
	if s.onConnect != nil {
		s.onConnect()
	}
	s.logger.Info("session opened", "session", sess.id, "remote", r.RemoteAddr)

	go sess.writeLoop()
	sess.readLoop(ctx)
}

// SessionCount returns the number of connected sessions.
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Shutdown closes every session and rejects new upgrades.
func (s *Server) Shutdown() {
	s.mu.Lock()
	s.closed = true
	open := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		open = append(open, sess)
	}
	s.mu.Unlock()

	for _, sess := range open {
		sess.Close()
	}
}

func newSessionID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("session id entropy unavailable: %v", err))
	}
	return hex.EncodeToString(buf)
}
