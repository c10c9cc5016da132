package cuopt

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"forklift-route-agent/internal/domain"

	"github.com/tidwall/gjson"
)

type solverResponse struct {
	Status       int                            `json:"status"`
	SolutionCost float64                        `json:"solution_cost"`
	VehicleData  map[string]domain.VehicleRoute `json:"vehicle_data"`
}

// Normalize extracts response.solver_response from a raw success body and
// derives readable routes. A missing nesting is ErrInvalidResponse.
func Normalize(raw []byte) (*domain.SolutionRecord, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("%w: body is not JSON", ErrInvalidResponse)
	}

	node := gjson.GetBytes(raw, "response.solver_response")
	if !node.Exists() || !node.IsObject() {
		return nil, fmt.Errorf("%w: missing response.solver_response", ErrInvalidResponse)
	}

	var sr solverResponse
	if err := json.Unmarshal([]byte(node.Raw), &sr); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	sol := &domain.SolutionRecord{
		Status:         sr.Status,
		SolutionCost:   sr.SolutionCost,
		VehicleData:    sr.VehicleData,
		ReadableRoutes: make(map[string][]string, len(sr.VehicleData)),
	}
	if sol.VehicleData == nil {
		sol.VehicleData = map[string]domain.VehicleRoute{}
	}
	for id, v := range sol.VehicleData {
		if len(v.Route) != len(v.Type) {
			return nil, fmt.Errorf("%w: vehicle %s has %d route entries and %d types",
				ErrInvalidResponse, id, len(v.Route), len(v.Type))
		}
		sol.ReadableRoutes[id] = domain.ReadableRoute(v)
	}
	return sol, nil
}

// ProblemKey fingerprints a problem for the solution cache.
func ProblemKey(p *domain.SolverProblem) string {
	b, _ := json.Marshal(p)
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
