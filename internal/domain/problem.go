package domain

// SolverProblem is the exact routing payload accepted by the remote solver.
type SolverProblem struct {
	CostWaypointGraphData CostWaypointGraphData `json:"cost_waypoint_graph_data"`
	TaskData              TaskData              `json:"task_data"`
	FleetData             FleetData             `json:"fleet_data"`
	SolverConfig          SolverConfig          `json:"solver_config"`
}

type CostWaypointGraphData struct {
	// Keyed by vehicle type; a single "0" entry serves the whole fleet.
	WaypointGraph map[string]WaypointGraph `json:"waypoint_graph"`
}

// WaypointGraph is a CSR encoded weighted graph: edges of node i are
// Edges[Offsets[i]:Offsets[i+1]] with matching Weights.
type WaypointGraph struct {
	Edges   []int `json:"edges"`
	Offsets []int `json:"offsets"`
	Weights []int `json:"weights"`
}

// TaskData holds parallel task arrays; tasks 2i and 2i+1 are the pickup
// and delivery of order i.
type TaskData struct {
	TaskLocations          []int   `json:"task_locations"`
	Demand                 [][]int `json:"demand"`
	TaskTimeWindows        [][]int `json:"task_time_windows"`
	ServiceTimes           []int   `json:"service_times"`
	PickupAndDeliveryPairs [][]int `json:"pickup_and_delivery_pairs"`
}

type FleetData struct {
	VehicleLocations   [][]int `json:"vehicle_locations"`
	Capacities         [][]int `json:"capacities"`
	VehicleTimeWindows [][]int `json:"vehicle_time_windows"`
}

type SolverConfig struct {
	TimeLimit int `json:"time_limit"`
}

// DefaultWaypointGraph returns the hand-authored connectivity of the depot,
// the four storage sites and the four trucks.
func DefaultWaypointGraph() WaypointGraph {
	return WaypointGraph{
		Edges: []int{
			1, 2, 3, 4, 5, 6, 7, 8,
			0, 5, 6, 7, 8,
			0, 5, 6, 7, 8,
			0, 5, 6, 7, 8,
			0, 5, 6, 7, 8,
			0, 1, 2, 3, 4,
			0, 1, 2, 3, 4,
			0, 1, 2, 3, 4,
			0, 1, 2, 3, 4,
		},
		Offsets: []int{0, 8, 13, 18, 23, 28, 33, 38, 43, 48},
		Weights: []int{
			1, 2, 3, 4, 1, 2, 3, 4,
			1, 2, 3, 3, 4,
			2, 3, 4, 4, 5,
			3, 5, 4, 4, 4,
			4, 5, 4, 3, 3,
			1, 2, 3, 5, 5,
			2, 3, 4, 4, 4,
			3, 3, 4, 4, 3,
			4, 4, 5, 4, 3,
		},
	}
}

// Neighbors returns the outgoing edges of node and their weights.
func (g WaypointGraph) Neighbors(node int) (targets []int, weights []int) {
	if node < 0 || node+1 >= len(g.Offsets) {
		return nil, nil
	}
	start, end := g.Offsets[node], g.Offsets[node+1]
	return g.Edges[start:end], g.Weights[start:end]
}
