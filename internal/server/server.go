package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// HandleHealth is the liveness probe.
func HandleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":  http.StatusOK,
		"message": "Healthy",
	})
}

type indexResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Paths   string `json:"paths"`
}

// NewIndexHandler serves the root URL with a pointer at the orders
// collection.
func NewIndexHandler(name, version string, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(indexResponse{
			Name:    name,
			Version: version,
			Paths:   "/orders",
		}); err != nil {
			logger.Error("failed to encode index response", "error", err)
		}
	}
}
