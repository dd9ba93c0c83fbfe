// Package server hosts the web dashboard. Every websocket viewer gets its
// own sync engine whose page is the viewer's browser; region writes are
// pushed as JSON patches.
package server

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/grovetools/teamwatch/errors"
	"github.com/grovetools/teamwatch/internal/engine"
	"github.com/grovetools/teamwatch/logging"
	"github.com/grovetools/teamwatch/pkg/client"
	"github.com/grovetools/teamwatch/pkg/filter"
	"github.com/grovetools/teamwatch/pkg/render"
	"github.com/grovetools/teamwatch/pkg/render/html"
	"github.com/grovetools/teamwatch/version"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// ShutdownTimeout bounds a graceful shutdown.
const ShutdownTimeout = 5 * time.Second

//go:embed assets/index.html assets/static
var assets embed.FS

// Options configures the server and the engines it creates per viewer.
type Options struct {
	Client    client.Client
	Localizer *render.Localizer

	Interval     time.Duration
	Timeout      time.Duration
	AllowOverlap bool
	Filter       *filter.Filter
	Now          func() time.Time

	Logger *logrus.Entry
}

// Server serves the skeleton page, static assets, /health and /ws.
type Server struct {
	opts     Options
	logger   *logrus.Entry
	renderer *html.Renderer
	upgrader websocket.Upgrader
	handler  http.Handler

	mu         sync.Mutex
	httpServer *http.Server
	sessions   map[string]*session
	closing    bool
	wg         sync.WaitGroup
}

// New builds a server. The client is shared by every viewer.
func New(opts Options) (*Server, error) {
	if opts.Client == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "server needs a snapshot client")
	}
	if opts.Localizer == nil {
		opts.Localizer = render.NewLocalizer(nil)
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewLogger("server")
	}

	renderer, err := html.New(opts.Localizer)
	if err != nil {
		return nil, err
	}

	s := &Server{
		opts:     opts,
		logger:   logger,
		renderer: renderer,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		sessions: make(map[string]*session),
	}

	static, err := fs.Sub(assets, "assets/static")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to load static assets")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ws", s.handleWebSocket)

	s.handler = h2c.NewHandler(mux, &http2.Server{})
	return s, nil
}

// Handler returns the HTTP handler, for embedding or tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe listens on addr, a TCP address or unix:///path.sock, and
// blocks until the server stops.
func (s *Server) ListenAndServe(addr string) error {
	listener, err := listen(addr)
	if err != nil {
		return err
	}
	return s.Serve(listener)
}

// Serve accepts connections on l until Shutdown.
func (s *Server) Serve(l net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.mu.Lock()
	if s.closing {
		s.mu.Unlock()
		_ = l.Close()
		return http.ErrServerClosed
	}
	s.httpServer = srv
	s.mu.Unlock()

	s.logger.WithField("addr", l.Addr().String()).Info("Dashboard listening")
	return srv.Serve(l)
}

// Run serves on addr until ctx is cancelled, then shuts down within
// ShutdownTimeout.
func (s *Server) Run(ctx context.Context, addr string) error {
	listener, err := listen(addr)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() { errCh <- s.Serve(listener) }()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown closes every viewer session and stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closing = true
	srv := s.httpServer
	sessions := make([]*session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.Unlock()

	s.logger.WithField("sessions", len(sessions)).Info("Shutting down dashboard")
	for _, sess := range sessions {
		sess.close()
	}

	var err error
	if srv != nil {
		err = srv.Shutdown(ctx)
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		if err == nil {
			err = ctx.Err()
		}
	}
	return err
}

// Invalidate forces every viewer to re-render all regions, e.g. after the
// locale table changed.
func (s *Server) Invalidate() {
	for _, sess := range s.snapshotSessions() {
		sess.engine.Invalidate()
		sess.engine.PollNow()
	}
}

// SessionCount returns the number of connected viewers.
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Server) snapshotSessions() []*session {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, sess)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	page, err := assets.ReadFile("assets/index.html")
	if err != nil {
		http.Error(w, "page unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(page)
}

type sessionHealth struct {
	ID      string `json:"id"`
	Visible bool   `json:"visible"`
	engine.Status
}

type healthResponse struct {
	Status   string          `json:"status"`
	Version  string          `json:"version"`
	Sessions []sessionHealth `json:"sessions"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:   "ok",
		Version:  version.GetInfo().Version,
		Sessions: []sessionHealth{},
	}
	for _, sess := range s.snapshotSessions() {
		resp.Sessions = append(resp.Sessions, sessionHealth{
			ID:      sess.id,
			Visible: sess.engine.Visible(),
			Status:  sess.engine.Health(),
		})
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WithError(err).Debug("Websocket upgrade failed")
		return
	}

	id := uuid.NewString()
	sess := newSession(id, conn, s.logger)

	eng, err := engine.New(engine.Options{
		Client:       s.opts.Client,
		Page:         sess,
		Renderer:     s.renderer,
		Interval:     s.opts.Interval,
		Timeout:      s.opts.Timeout,
		AllowOverlap: s.opts.AllowOverlap,
		Filter:       s.opts.Filter,
		Now:          s.opts.Now,
		Logger:       logging.NewLogger("engine").WithField("session", id),
	})
	if err != nil {
		s.logger.WithError(err).Error("Failed to create engine for viewer")
		conn.Close()
		return
	}
	sess.engine = eng

	if !s.register(sess) {
		eng.Close()
		conn.Close()
		return
	}
	defer s.unregister(sess)

	s.logger.WithFields(logrus.Fields{
		"session": id,
		"remote":  r.RemoteAddr,
	}).Info("Viewer connected")

	go sess.writeLoop()
	eng.Start()
	sess.readLoop()

	eng.Close()
	sess.close()
	s.logger.WithField("session", id).Info("Viewer disconnected")
}

func (s *Server) register(sess *session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closing {
		return false
	}
	s.sessions[sess.id] = sess
	s.wg.Add(1)
	return true
}

func (s *Server) unregister(sess *session) {
	s.mu.Lock()
	delete(s.sessions, sess.id)
	s.mu.Unlock()
	s.wg.Done()
}

// listen opens a TCP listener, or a Unix socket for unix:// addresses. A
// stale socket file is removed first.
func listen(addr string) (net.Listener, error) {
	if path, ok := strings.CutPrefix(addr, "unix://"); ok {
		if _, err := os.Stat(path); err == nil {
			if err := os.Remove(path); err != nil {
				return nil, fmt.Errorf("failed to remove stale socket: %w", err)
			}
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create socket directory: %w", err)
		}
		l, err := net.Listen("unix", path)
		if err != nil {
			return nil, fmt.Errorf("failed to listen on socket: %w", err)
		}
		if err := os.Chmod(path, 0600); err != nil {
			_ = l.Close()
			return nil, fmt.Errorf("failed to set socket permissions: %w", err)
		}
		return l, nil
	}

	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return l, nil
}
