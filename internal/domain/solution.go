package domain

import (
	"sort"
	"strconv"
	"strings"
)

// Activity tags reported by the solver for each route position.
const (
	ActivityDepot    = "Depot"
	ActivityPickup   = "Pickup"
	ActivityDelivery = "Delivery"
	ActivityWait     = "w"
)

// IsWait reports whether an activity tag marks an idle step.
func IsWait(activity string) bool {
	a := strings.TrimSpace(activity)
	return a == ActivityWait || strings.EqualFold(a, "wait")
}

// NormalizeActivity maps short and long solver tags onto the long form.
func NormalizeActivity(activity string) string {
	switch strings.TrimSpace(activity) {
	case "p", ActivityPickup:
		return ActivityPickup
	case "d", ActivityDelivery:
		return ActivityDelivery
	case ActivityDepot:
		return ActivityDepot
	}
	if IsWait(activity) {
		return ActivityWait
	}
	return activity
}

// VehicleRoute is the raw per-vehicle solver output. Route and Type are
// parallel; ArrivalStamp, when present, is parallel too.
type VehicleRoute struct {
	Route        []int     `json:"route"`
	Type         []string  `json:"type"`
	ArrivalStamp []float64 `json:"arrival_stamp,omitempty"`
}

// SolutionRecord is the normalized result of a solve.
type SolutionRecord struct {
	Status         int                     `json:"status"`
	SolutionCost   float64                 `json:"solution_cost"`
	VehicleData    map[string]VehicleRoute `json:"vehicle_data"`
	ReadableRoutes map[string][]string     `json:"readable_routes"`
}

// VehicleIDs returns vehicle ids sorted numerically, falling back to
// lexical order for non-numeric ids.
func (s *SolutionRecord) VehicleIDs() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, 0, len(s.VehicleData))
	for id := range s.VehicleData {
		ids = append(ids, id)
	}
	SortVehicleIDs(ids)
	return ids
}

func SortVehicleIDs(ids []string) {
	sort.SliceStable(ids, func(i, j int) bool {
		a, errA := strconv.Atoi(ids[i])
		b, errB := strconv.Atoi(ids[j])
		if errA == nil && errB == nil {
			return a < b
		}
		if errA == nil {
			return true
		}
		if errB == nil {
			return false
		}
		return ids[i] < ids[j]
	})
}

// ForkliftNumber converts a 0-based vehicle id into its 1-based display number.
func ForkliftNumber(vehicleID string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(vehicleID))
	if err != nil {
		return 0, false
	}
	return n + 1, true
}

// ReadableRoute renders a vehicle route as "<activity>: <location>" steps,
// skipping wait steps.
func ReadableRoute(v VehicleRoute) []string {
	steps := make([]string, 0, len(v.Route))
	for i, loc := range v.Route {
		if i >= len(v.Type) {
			break
		}
		if IsWait(v.Type[i]) {
			continue
		}
		steps = append(steps, v.Type[i]+": "+readableLocation(loc))
	}
	return steps
}

func readableLocation(id int) string {
	if id == DepotLocation {
		return "Forklift"
	}
	return LocationName(id)
}
