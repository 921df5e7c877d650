package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Get("/deck", s.handleDeck)
		r.Get("/statuses", s.handleStatuses)
		r.Delete("/statuses", s.handleResetStatuses)

		r.Route("/session", func(r chi.Router) {
			r.Use(s.sessionMiddleware)
			r.Get("/", s.handleSession)
			r.Post("/next", s.handleNext)
			r.Post("/previous", s.handlePrevious)
			r.Post("/jump/{index}", s.handleJump)
			r.Post("/flip", s.handleFlip)
			r.Post("/mastered", s.handleMastered)
			r.Post("/needs-review", s.handleNeedsReview)
			r.Post("/drawing", s.handleDrawing)
			r.Post("/steps/advance", s.handleAdvanceStep)
			r.Post("/steps/reset", s.handleResetSteps)
		})
	})

	if s.AssetDir != "" {
		r.Handle("/graphs/*", http.FileServer(http.Dir(s.AssetDir)))
	}
	return r
}
