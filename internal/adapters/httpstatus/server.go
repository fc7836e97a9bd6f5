package httpstatus

import (
	"encoding/json"
	"log"
	"net/http"
	"time"
)

// RosterCounter and Forecaster are the two read-only views the status
// endpoint needs; the store and the schedule runner satisfy them.
type RosterCounter interface {
	Len() int
}

type Forecaster interface {
	Forecast() []string
}

// Server exposes liveness and a small operational snapshot. It never
// mutates bot state.
type Server struct {
	mux      *http.ServeMux
	started  time.Time
	rosters  RosterCounter
	forecast Forecaster
}

func New(rosters RosterCounter, forecast Forecaster) *Server {
	s := &Server{
		mux:      http.NewServeMux(),
		started:  time.Now(),
		rosters:  rosters,
		forecast: forecast,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealth)
	s.mux.HandleFunc("/status", s.handleStatus)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"uptime":          time.Since(s.started).Round(time.Second).String(),
		"tracked_rosters": s.rosters.Len(),
		"next_fires":      s.forecast.Forecast(),
	})
}

func (s *Server) Handler() http.Handler { return s.mux }

// Start blocks; run it on its own goroutine.
func (s *Server) Start(addr string) {
	log.Printf("🌐 status server on %s", addr)
	if err := http.ListenAndServe(addr, s.mux); err != nil {
		log.Printf("status server: %v", err)
	}
}
