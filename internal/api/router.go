package api

import (
	"forklift-route-agent/internal/api/handlers"
	"forklift-route-agent/internal/ports"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(agent handlers.Answerer, orders ports.OrderRepository) http.Handler {
	r := mux.NewRouter()

	queryHandler := &handlers.QueryHandler{Agent: agent}
	orderHandler := &handlers.OrderHandler{Repo: orders}

	r.HandleFunc("/health", handlers.Health).Methods(http.MethodGet)
	r.HandleFunc("/orders", orderHandler.List).Methods(http.MethodGet)
	r.HandleFunc("/queries", queryHandler.Create).Methods(http.MethodPost)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	r.Use(requestIDMiddleware, loggingMiddleware)
	return r
}
