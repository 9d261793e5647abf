// Package monitorserve exposes a solver.MonitoringSnapshot for polling
// by an external dashboard over plain HTTP/JSON. This is the optional
// monitoring feed collaborator; the core never imports net/http.
package monitorserve

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gitrdm/edgetile/pkg/solver"
)

// Server serves the latest snapshot a caller pushes to it via Update.
// One Server instance holds the snapshot of a single run. The CLI does
// not create or update a Server.
type Server struct {
	mu       sync.RWMutex
	snapshot solver.MonitoringSnapshot
	has      bool
}

// NewServer returns a Server with no snapshot published yet.
func NewServer() *Server {
	return &Server{}
}

// Update publishes a new snapshot, replacing whatever was there.
func (s *Server) Update(snap solver.MonitoringSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snap
	s.has = true
}

// Handler returns an http.Handler serving GET /snapshot as JSON.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/snapshot", s.serveSnapshot)
	return mux
}

func (s *Server) serveSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.has {
		http.Error(w, "no run in progress", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.snapshot); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
