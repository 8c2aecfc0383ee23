// Package server exposes a Session over HTTP for browser front ends.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/josephgoksu/TaskTree/internal/app"
)

// Options configures the HTTP server.
type Options struct {
	Port           int
	AllowedOrigins []string // exact origins, "*", or globs like "http://localhost:*"
	FPS            int      // simulation ticks per second; 0 disables the ticker

	// OnSaved is called after every successful snapshot save.
	OnSaved func()
}

// Server serialises every session call behind one mutex.
type Server struct {
	mu      sync.Mutex
	session *app.Session

	origins originPolicy
	fps     int
	onSaved func()
	server  *http.Server
	stop    chan struct{}
	once    sync.Once
}

// New creates a server around session.
func New(session *app.Session, opts Options) *Server {
	s := &Server{
		session: session,
		origins: newOriginPolicy(opts.AllowedOrigins),
		fps:     opts.FPS,
		onSaved: opts.OnSaved,
		stop:    make(chan struct{}),
	}
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", opts.Port),
		Handler:           s.registerRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start serves HTTP and runs the simulation ticker in the background.
func (s *Server) Start(wg *sync.WaitGroup, errChan chan<- error) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		slog.Info("api server listening", "addr", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	if s.fps > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.tickLoop(time.Second / time.Duration(s.fps))
		}()
	}
}

func (s *Server) tickLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.mu.Lock()
			s.session.Tick()
			s.mu.Unlock()
		}
	}
}

// Shutdown stops the ticker and the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.once.Do(func() { close(s.stop) })
	return s.server.Shutdown(ctx)
}

// Reload replaces the session graph with the stored snapshot unless it holds
// unsaved changes.
func (s *Server) Reload(ctx context.Context) error {
	var err error
	s.withSession(func(sess *app.Session) { err = sess.Reload(ctx) })
	return err
}

// save persists the session; the caller holds the lock.
func (s *Server) save(ctx context.Context, sess *app.Session) error {
	if err := sess.Save(ctx); err != nil {
		return err
	}
	if s.onSaved != nil {
		s.onSaved()
	}
	return nil
}

// withSession runs fn while holding the session lock.
func (s *Server) withSession(fn func(*app.Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.session)
}

func writeAPIJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(data)
}

func writeAPIError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
