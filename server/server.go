package server

import (
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/jsphweid/genomedex/access"
	"github.com/jsphweid/genomedex/model"
	"github.com/jsphweid/genomedex/track"
)

// Server holds the process-wide read-only state behind every handler: the
// exposed-file registry, the client allowlist, and the viewer data. All of it
// is built once in New and never mutated while serving.
type Server struct {
	registry  *track.Registry
	clients   *access.PermittedClientSet
	tracks    []model.Track
	pages     []model.Page
	reference string
	log       zerolog.Logger
}

type Options struct {
	Registry  *track.Registry
	Clients   *access.PermittedClientSet
	Tracks    []model.Track
	Pages     []model.Page
	Reference string
	Logger    zerolog.Logger
}

func New(opts Options) *Server {
	return &Server{
		registry:  opts.Registry,
		clients:   opts.Clients,
		tracks:    opts.Tracks,
		pages:     opts.Pages,
		reference: opts.Reference,
		log:       opts.Logger,
	}
}

// Handler builds the full middleware chain: CORS on the outside (the viewer
// may be hosted elsewhere and igv.js fetches ranges cross-origin), then the
// IP gate, then per-request logging, then the router.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/file/{path}", s.handleFile).Methods(http.MethodGet)
	router.HandleFunc("/config.json", s.handleConfig).Methods(http.MethodGet)
	router.HandleFunc("/page/{num:[0-9]+}", s.handleViewer).Methods(http.MethodGet)
	router.HandleFunc("/", s.handleViewer).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet},
		AllowedHeaders: []string{"Range"},
		ExposedHeaders: []string{"Content-Range", "Accept-Ranges", "Content-Length"},
	})
	return c.Handler(s.requireKnownClient(s.logRequests(router)))
}

// requireKnownClient rejects requests from IPs outside the allowlist before
// any routing happens. There is deliberately no interactive "allow this IP?"
// escape hatch: a prompt would block every in-flight request on operator
// input.
func (s *Server) requireKnownClient(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !s.clients.Permitted(ip) {
			s.log.Warn().Str("ip", ip).Str("path", r.URL.Path).Msg("rejected client")
			http.Error(w, "requests from "+ip+" are not permitted", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info().
			Str("req_id", uuid.New().String()).
			Str("ip", clientIP(r)).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}

// statusRecorder captures the status code written by downstream handlers.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
