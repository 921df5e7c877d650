package api

import (
	"net/http"

	"github.com/vytor/econgraph/internal/models"
)

type deckResponse struct {
	Cards []models.DeckEntry `json:"cards"`
}

type statusesResponse struct {
	Statuses models.StatusMap      `json:"statuses"`
	Summary  models.MasterySummary `json:"summary"`
}

func (s *Server) handleDeck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, deckResponse{Cards: s.Sessions.Deck(r.Context())})
}

func (s *Server) handleStatuses(w http.ResponseWriter, r *http.Request) {
	all, sum := s.Sessions.Statuses(r.Context())
	writeJSON(w, r, http.StatusOK, statusesResponse{Statuses: all, Summary: sum})
}

func (s *Server) handleResetStatuses(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.ResetStatuses(r.Context()); err != nil {
		handleError(w, r, err)
		return
	}
	all, sum := s.Sessions.Statuses(r.Context())
	writeJSON(w, r, http.StatusOK, statusesResponse{Statuses: all, Summary: sum})
}
