package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/ETTyler/Arb-Finder/internal/engine"
	"github.com/ETTyler/Arb-Finder/internal/journal"
)

const defaultRecentLimit = 50

// Server exposes the scanner's results over HTTP.
type Server struct {
	scanner    *engine.Scanner
	db         *journal.DB // may be nil
	httpServer *http.Server
}

// NewServer creates a web server for the given scanner. db may be nil;
// the journal-backed endpoint then reports 404.
func NewServer(port string, scanner *engine.Scanner, db *journal.DB) *Server {
	s := &Server{
		scanner: scanner,
		db:      db,
	}

	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods("GET")
	api.HandleFunc("/opportunities", s.handleOpportunities).Methods("GET")
	api.HandleFunc("/opportunities/recent", s.handleRecent).Methods("GET")

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})

	s.httpServer = &http.Server{
		Addr:         ":" + port,
		Handler:      c.Handler(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start blocks serving HTTP until Stop is called.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Stop shuts the server down gracefully.
func (s *Server) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		slog.Error("Server shutdown error", "err", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleOpportunities returns the latest completed scan's results.
func (s *Server) handleOpportunities(w http.ResponseWriter, r *http.Request) {
	opps, lastScan := s.scanner.Latest()

	writeJSON(w, http.StatusOK, map[string]any{
		"last_scan":     lastScan,
		"count":         len(opps),
		"opportunities": opps,
	})
}

// handleRecent returns journaled opportunities, newest first.
func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		http.Error(w, "journal disabled", http.StatusNotFound)
		return
	}

	limit := defaultRecentLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	entries, err := s.db.Recent(limit)
	if err != nil {
		slog.Error("Journal query failed", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"count":         len(entries),
		"opportunities": entries,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Encoding response failed", "err", err)
	}
}
