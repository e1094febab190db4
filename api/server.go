package api

import (
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/sh44ni/netkitd/core"
)

type Server struct {
	monitor    *core.Monitor
	sampler    *core.Sampler
	scheduler  *core.PersistenceScheduler
	archive    *core.Archive
	config     *core.Config
	hub        *Hub
	instanceID string
	started    time.Time
}

func NewServer(monitor *core.Monitor, sampler *core.Sampler, scheduler *core.PersistenceScheduler, archive *core.Archive, cfg *core.Config) *Server {
	return &Server{
		monitor:    monitor,
		sampler:    sampler,
		scheduler:  scheduler,
		archive:    archive,
		config:     cfg,
		hub:        NewHub(),
		instanceID: uuid.NewString(),
		started:    time.Now(),
	}
}

func (s *Server) secure(handler http.HandlerFunc) http.HandlerFunc {
	if s.config.APIKey == "" {
		return handler
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-Key") != s.config.APIKey {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		handler(w, r)
	}
}

func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/live", s.secure(s.handleLive))
	mux.HandleFunc("GET /api/network", s.secure(s.handleNetwork))
	mux.HandleFunc("GET /api/history", s.secure(s.handleHistory))
	mux.HandleFunc("GET /api/records", s.secure(s.handleRecords))
	mux.HandleFunc("GET /api/summary", s.secure(s.handleSummary))
	mux.HandleFunc("GET /api/archive", s.secure(s.handleArchive))
	mux.HandleFunc("GET /api/status", s.secure(s.handleStatus))

	mux.HandleFunc("POST /api/sampler/pause", s.secure(s.handlePauseSampler))
	mux.HandleFunc("POST /api/sampler/resume", s.secure(s.handleResumeSampler))
	mux.HandleFunc("POST /api/retention/prune", s.secure(s.handlePruneNow))

	mux.HandleFunc("GET /ws/live", s.secure(s.hub.HandleWebSocket))

	return mux
}

// Run starts the live broadcast loop and serves until the listener fails.
func (s *Server) Run() {
	go s.broadcastLoop()

	log.Printf("API: instance %s listening on %s", s.instanceID, s.config.ListenAddr)
	if err := http.ListenAndServe(s.config.ListenAddr, s.Routes()); err != nil {
		log.Fatalf("HTTP server error: %v", err)
	}
}

// broadcastLoop pushes the live snapshot to WebSocket clients once per
// second, mirroring the overlay's refresh cadence.
func (s *Server) broadcastLoop() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for range ticker.C {
		if s.hub.ClientCount() == 0 {
			continue
		}
		s.hub.Broadcast(s.livePayload())
	}
}
