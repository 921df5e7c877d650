package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/vytor/econgraph/internal/logger"
	"github.com/vytor/econgraph/internal/services"
)

// Pinger reports whether the durable store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	Sessions services.SessionService
	DB       Pinger

	// AssetDir, when set, is served under /graphs/.
	AssetDir string
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode response: %v", err)
	}
}
