package dto

type QueryRequest struct {
	Query string `json:"query"`
}

type RouteResponse struct {
	Forklift  int      `json:"forklift"`
	VehicleID string   `json:"vehicle_id"`
	Steps     []string `json:"steps"`
}

type SolutionResponse struct {
	Status       int             `json:"status"`
	SolutionCost float64         `json:"solution_cost"`
	Routes       []RouteResponse `json:"routes"`
}

type QueryResponse struct {
	RunID                  string            `json:"run_id"`
	QueryType              string            `json:"query_type"`
	Solution               *SolutionResponse `json:"solution"`
	Errors                 []string          `json:"errors"`
	Logs                   []string          `json:"logs"`
	VisualizationTimestamp string            `json:"visualization_timestamp,omitempty"`
	Charts                 []string          `json:"charts,omitempty"`
	Response               string            `json:"response"`
}
