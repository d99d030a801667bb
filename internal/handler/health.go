package handler

import (
	"net/http"

	"github.com/wellness2k25/wellness-go/internal/model"
)

// HandleHealth handles GET /api/health requests.
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.HealthResponse{Status: "Wellness API is up!"})
}

// HandleTest handles GET /api/test requests.
func HandleTest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "Backend is alive!"})
}
