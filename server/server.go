// Package server serves the browser build and a small JSON API: the chord
// catalog, generated rounds, rendered audio and the telemetry sink.
package server

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/simukka/guessnote/audio"
	"github.com/simukka/guessnote/chords"
	"github.com/simukka/guessnote/telemetry"
)

//go:embed index.html
var indexHTML []byte

// Options configures a Server.
type Options struct {
	StaticDir  string          // directory for the GopherJS bundle and assets
	Catalog    *chords.Catalog // chords served and generated from
	Audio      audio.Config    // used by /api/render
	SessionTTL time.Duration   // idle time before a session is forgotten
	EventLog   int             // events kept in memory
}

// DefaultOptions serves the current directory with the default catalog.
var DefaultOptions = Options{
	StaticDir:  ".",
	Catalog:    chords.Default,
	Audio:      audio.DefaultConfig,
	SessionTTL: 10 * time.Minute,
	EventLog:   1000,
}

// Server is the HTTP front end.
type Server struct {
	opts    Options
	router  *mux.Router
	tracker *Tracker
	events  *telemetry.Memory
}

// New builds the router. Zero options fall back to DefaultOptions.
func New(opts Options) *Server {
	if opts.StaticDir == "" {
		opts.StaticDir = DefaultOptions.StaticDir
	}
	if opts.Catalog == nil {
		opts.Catalog = DefaultOptions.Catalog
	}
	if opts.Audio.SampleRate == 0 {
		opts.Audio = DefaultOptions.Audio
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = DefaultOptions.SessionTTL
	}
	if opts.EventLog <= 0 {
		opts.EventLog = DefaultOptions.EventLog
	}

	s := &Server{
		opts:    opts,
		router:  mux.NewRouter().StrictSlash(true),
		tracker: NewTracker(opts.SessionTTL),
		events:  telemetry.NewMemory(opts.EventLog),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/catalog", s.handleCatalog).Methods(http.MethodGet)
	api.HandleFunc("/round", s.handleRound).Methods(http.MethodGet)
	api.HandleFunc("/render", s.handleRender).Methods(http.MethodGet)
	api.HandleFunc("/events", s.handleEvent).Methods(http.MethodPost)
	api.HandleFunc("/events", s.handleRecentEvents).Methods(http.MethodGet)
	api.HandleFunc("/events/stream", s.handleStream).Methods(http.MethodGet)
	api.HandleFunc("/sessions", s.handleSessions).Methods(http.MethodGet)

	static := http.FileServer(http.Dir(s.opts.StaticDir))
	s.router.PathPrefix("/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" || r.URL.Path == "/index.html" {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write(indexHTML)
			return
		}
		static.ServeHTTP(w, r)
	})
}

// Handler returns the router behind CORS for the API.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
	return logRequests(c.Handler(s.router))
}

// Tracker returns the session tracker.
func (s *Server) Tracker() *Tracker {
	return s.tracker
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go s.tracker.Run(ctx)

	errc := make(chan error, 1)
	go func() {
		log.Printf("guessnote server starting on http://localhost%s", addr)
		log.Printf("Serving static files from: %s", s.opts.StaticDir)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listening on %s: %w", addr, err)
	case <-ctx.Done():
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		return srv.Shutdown(shutdownCtx)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps server-sent events working through the recorder.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Millisecond))
	})
}
