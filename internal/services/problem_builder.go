package services

import (
	"context"
	"errors"
	"fmt"
	"forklift-route-agent/internal/domain"
	"forklift-route-agent/internal/platform/obs"
	"log"
)

// ErrEmptyOrderSet is returned when there is nothing to route.
var ErrEmptyOrderSet = errors.New("order set is missing or empty")

const defaultSolverTimeLimit = 5

// ProblemBuilder converts orders and fleet changes into a solver payload.
type ProblemBuilder struct {
	// TimeLimit is the per-solve time limit; zero means the default of 5.
	TimeLimit int
}

// Build assembles the payload. The same inputs always produce the same
// payload.
func (b *ProblemBuilder) Build(ctx context.Context, data *ModifiedData) (_ *domain.SolverProblem, err error) {
	defer obs.Time(ctx, "builder.Build")(&err)

	if data == nil || len(data.Orders) == 0 {
		return nil, fmt.Errorf("build problem: %w", ErrEmptyOrderSet)
	}

	n := len(data.Orders)
	task := domain.TaskData{
		TaskLocations:          make([]int, 0, 2*n),
		TaskTimeWindows:        make([][]int, 0, 2*n),
		ServiceTimes:           make([]int, 0, 2*n),
		PickupAndDeliveryPairs: make([][]int, 0, n),
	}
	demand := make([]int, 0, 2*n)

	for i, o := range data.Orders {
		if err := o.Validate(); err != nil {
			return nil, fmt.Errorf("build problem: invalid data in row %d: %w", i, err)
		}

		task.TaskLocations = append(task.TaskLocations, o.PickupLocation, o.DeliveryLocation)
		demand = append(demand, o.OrderDemand, -o.OrderDemand)
		task.TaskTimeWindows = append(task.TaskTimeWindows,
			[]int{o.EarliestPickup, o.LatestPickup},
			[]int{o.EarliestDelivery, o.LatestDelivery},
		)
		task.ServiceTimes = append(task.ServiceTimes, o.PickupServiceTime, o.DeliveryServiceTime)
		task.PickupAndDeliveryPairs = append(task.PickupAndDeliveryPairs, []int{2 * i, 2*i + 1})
	}
	task.Demand = [][]int{demand}

	fleet := domain.DefaultFleet()
	if err := fleet.Apply(data.FleetChanges); err != nil {
		return nil, fmt.Errorf("build problem: %w", err)
	}
	if data.FleetChanges.ModifyFleetSize.Needed {
		log.Printf("req_id=%s builder: using modified fleet size: %d forklifts", obs.RequestID(ctx), fleet.Size())
	}
	if data.FleetChanges.ModifyCapacity.Needed {
		log.Printf("req_id=%s builder: using modified forklift capacities: %v", obs.RequestID(ctx), fleet.Capacities)
	}

	timeLimit := b.TimeLimit
	if timeLimit <= 0 {
		timeLimit = defaultSolverTimeLimit
	}

	return &domain.SolverProblem{
		CostWaypointGraphData: domain.CostWaypointGraphData{
			WaypointGraph: map[string]domain.WaypointGraph{"0": domain.DefaultWaypointGraph()},
		},
		TaskData:  task,
		FleetData: fleetData(fleet),
		SolverConfig: domain.SolverConfig{
			TimeLimit: timeLimit,
		},
	}, nil
}

func fleetData(f *domain.Fleet) domain.FleetData {
	size := f.Size()
	fd := domain.FleetData{
		VehicleLocations:   make([][]int, 0, size),
		Capacities:         [][]int{append([]int(nil), f.Capacities...)},
		VehicleTimeWindows: make([][]int, 0, size),
	}
	for i := 0; i < size; i++ {
		fd.VehicleLocations = append(fd.VehicleLocations, []int{domain.DepotLocation, domain.DepotLocation})
		fd.VehicleTimeWindows = append(fd.VehicleTimeWindows, []int{domain.FleetShiftStart, domain.FleetShiftEnd})
	}
	return fd
}
