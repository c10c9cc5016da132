package charts

import (
	"errors"
	"fmt"
	"forklift-route-agent/internal/domain"
)

// RouteNode is one visited stop on a forklift's route diagram.
type RouteNode struct {
	Location int
	Activity string
	Position domain.Point
	Category domain.LocationCategory
	Label    string
}

// RouteGraph is a path: node i connects to node i+1.
type RouteGraph struct {
	VehicleID string
	Forklift  int
	Nodes     []RouteNode
}

// Edges returns consecutive node index pairs.
func (g RouteGraph) Edges() [][2]int {
	if len(g.Nodes) < 2 {
		return nil
	}
	out := make([][2]int, 0, len(g.Nodes)-1)
	for i := 0; i+1 < len(g.Nodes); i++ {
		out = append(out, [2]int{i, i + 1})
	}
	return out
}

var errEmptyRoute = errors.New("route has no non-wait stops")

// BuildRouteGraph filters wait steps out of a vehicle route and places the
// remaining stops on the fixed layout.
func BuildRouteGraph(vehicleID string, v domain.VehicleRoute) (RouteGraph, error) {
	n, ok := domain.ForkliftNumber(vehicleID)
	if !ok {
		return RouteGraph{}, fmt.Errorf("vehicle id %q is not numeric", vehicleID)
	}
	g := RouteGraph{VehicleID: vehicleID, Forklift: n}

	for i, loc := range v.Route {
		if i >= len(v.Type) {
			break
		}
		if domain.IsWait(v.Type[i]) {
			continue
		}
		pos, ok := domain.LocationPosition(loc)
		if !ok {
			return RouteGraph{}, fmt.Errorf("unknown location %d at step %d", loc, i)
		}
		activity := domain.NormalizeActivity(v.Type[i])
		g.Nodes = append(g.Nodes, RouteNode{
			Location: loc,
			Activity: activity,
			Position: pos,
			Category: domain.CategoryOf(loc),
			Label:    fmt.Sprintf("%s (%s)", chartLocationName(loc), activity),
		})
	}

	if len(g.Nodes) == 0 {
		return g, errEmptyRoute
	}
	return g, nil
}

func chartLocationName(loc int) string {
	if loc == domain.DepotLocation {
		return "Depot"
	}
	return domain.LocationName(loc)
}
