// Package sync implements best-effort HTTP synchronization of the
// journal: a server exposing the trade store as JSON, and a client that
// pushes or pulls whole records. Last write wins; there is deliberately
// no merge or conflict resolution.
package sync

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"tradejournal/internal/domain"
	"tradejournal/internal/ports"
)

// Server serves the journal over HTTP for other devices to sync against.
type Server struct {
	repo   ports.TradeRepository
	logger ports.Logger
	router *mux.Router
}

// NewServer wires the routes onto a fresh router.
func NewServer(repo ports.TradeRepository, logger ports.Logger) *Server {
	s := &Server{repo: repo, logger: logger, router: mux.NewRouter()}
	s.router.HandleFunc("/trades", s.handleList).Methods(http.MethodGet)
	s.router.HandleFunc("/trades/{id}", s.handleGet).Methods(http.MethodGet)
	s.router.HandleFunc("/trades/{id}", s.handlePut).Methods(http.MethodPut)
	s.router.HandleFunc("/trades/{id}", s.handleDelete).Methods(http.MethodDelete)
	return s
}

// ServeHTTP makes Server a http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	trades, err := s.repo.FindAll(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, trades)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	trade, err := s.repo.FindByID(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if trade == nil {
		http.Error(w, "trade not found", http.StatusNotFound)
		return
	}
	s.writeJSON(w, http.StatusOK, trade)
}

// handlePut upserts a whole trade record. The local version counter is
// preserved so the optimistic check applies to local writers only, not to
// sync traffic.
func (s *Server) handlePut(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var trade domain.Trade
	if err := json.NewDecoder(r.Body).Decode(&trade); err != nil {
		http.Error(w, "invalid trade payload", http.StatusBadRequest)
		return
	}
	trade.ID = id

	existing, err := s.repo.FindByID(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if existing == nil {
		if err := s.repo.Create(r.Context(), &trade); err != nil {
			s.fail(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusCreated, &trade)
		return
	}

	trade.Version = existing.Version
	if err := s.repo.Update(r.Context(), &trade); err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, &trade)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			http.Error(w, "trade not found", http.StatusNotFound)
			return
		}
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error(r.Context(), err, "Sync request failed", map[string]interface{}{"path": r.URL.Path})
	http.Error(w, "internal error", http.StatusInternalServerError)
}
