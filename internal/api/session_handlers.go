package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/econgraph/internal/errors"
	"github.com/vytor/econgraph/internal/logger"
	"github.com/vytor/econgraph/internal/models"
)

type sessionAction func(ctx context.Context, id string) (models.SessionView, error)

// respondView runs action on the request's session and writes the view.
func (s *Server) respondView(w http.ResponseWriter, r *http.Request, action sessionAction) {
	v, err := action(r.Context(), sessionFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, v)
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	s.respondView(w, r, s.Sessions.View)
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	s.respondView(w, r, s.Sessions.Next)
}

func (s *Server) handlePrevious(w http.ResponseWriter, r *http.Request) {
	s.respondView(w, r, s.Sessions.Previous)
}

func (s *Server) handleJump(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	raw := chi.URLParam(r, "index")
	index, err := strconv.Atoi(raw)
	if err != nil {
		log.Warn("invalid card index: %s", raw)
		handleError(w, r, errors.NewBadRequestError("card index must be an integer"))
		return
	}
	s.respondView(w, r, func(ctx context.Context, id string) (models.SessionView, error) {
		return s.Sessions.JumpTo(ctx, id, index)
	})
}

func (s *Server) handleFlip(w http.ResponseWriter, r *http.Request) {
	s.respondView(w, r, s.Sessions.Flip)
}

func (s *Server) handleMastered(w http.ResponseWriter, r *http.Request) {
	s.respondView(w, r, s.Sessions.MarkMastered)
}

func (s *Server) handleNeedsReview(w http.ResponseWriter, r *http.Request) {
	s.respondView(w, r, s.Sessions.MarkNeedsReview)
}

type drawingRequest struct {
	HasDrawing *bool `json:"hasDrawing"`
}

func (s *Server) handleDrawing(w http.ResponseWriter, r *http.Request) {
	var req drawingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.HasDrawing == nil {
		handleError(w, r, errors.NewValidationError("hasDrawing", "boolean required"))
		return
	}
	has := *req.HasDrawing
	s.respondView(w, r, func(ctx context.Context, id string) (models.SessionView, error) {
		return s.Sessions.SetDrawing(ctx, id, has)
	})
}

func (s *Server) handleAdvanceStep(w http.ResponseWriter, r *http.Request) {
	s.respondView(w, r, s.Sessions.AdvanceStep)
}

func (s *Server) handleResetSteps(w http.ResponseWriter, r *http.Request) {
	s.respondView(w, r, s.Sessions.ResetSteps)
}
