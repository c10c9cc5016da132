package handlers

import (
	"net/http"
)

// Health reports liveness only; it does not probe the solver or the model.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
