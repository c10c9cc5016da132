package handlers

import (
	"context"
	"encoding/json"
	"forklift-route-agent/internal/api/dto"
	"forklift-route-agent/internal/domain"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"
)

const maxQueryLength = 4000

// Answerer runs a query through the pipeline and returns the result and its
// formatted response.
type Answerer interface {
	Answer(ctx context.Context, query string) (*domain.RunResult, string)
}

type QueryHandler struct {
	Agent Answerer
}

// Create runs one natural-language query. Pipeline failures are part of a
// 200 response; only malformed requests are rejected.
func (h *QueryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.QueryRequest

	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		writeError(w, r, http.StatusBadRequest, "query is required")
		return
	}
	if utf8.RuneCountInString(query) > maxQueryLength {
		writeError(w, r, http.StatusBadRequest, "query is too long")
		return
	}

	result, answer := h.Agent.Answer(r.Context(), query)

	res := dto.QueryResponse{
		RunID:                  result.RunID,
		QueryType:              result.QueryType,
		Errors:                 result.Errors,
		Logs:                   result.Logs,
		VisualizationTimestamp: result.VisualizationTimestamp,
		Response:               answer,
	}
	if s := result.Solution; s != nil {
		sol := &dto.SolutionResponse{
			Status:       s.Status,
			SolutionCost: s.SolutionCost,
			Routes:       make([]dto.RouteResponse, 0, len(s.ReadableRoutes)),
		}
		for _, id := range s.VehicleIDs() {
			n, _ := domain.ForkliftNumber(id)
			sol.Routes = append(sol.Routes, dto.RouteResponse{
				Forklift:  n,
				VehicleID: id,
				Steps:     s.ReadableRoutes[id],
			})
		}
		res.Solution = sol
	}
	if c := result.Charts; c != nil {
		if c.GanttPath != "" {
			res.Charts = append(res.Charts, c.GanttPath)
		}
		for _, id := range sortedIDs(c.NetworkPaths) {
			res.Charts = append(res.Charts, c.NetworkPaths[id])
		}
	}

	writeJSON(w, r, http.StatusOK, res)
}

func sortedIDs(m map[string]string) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	domain.SortVehicleIDs(ids)
	return ids
}
