package services

import (
	"context"
	"errors"
	"fmt"
	"forklift-route-agent/internal/domain"
	"forklift-route-agent/internal/platform/obs"
	"forklift-route-agent/internal/ports"
	"slices"
)

// ModifiedData is the Data Modifier output handed to the Problem Builder.
type ModifiedData struct {
	Orders       domain.OrderSet
	FleetChanges domain.FleetChanges
	QueryType    string
	// Notes describe every applied or skipped edit, in order.
	Notes []string
}

// DataModifier applies a ChangeRequest to a copy of the current orders.
type DataModifier struct {
	Orders ports.OrderRepository
	// ApplyEdits enables service-time and time-window edits. When false the
	// edits are recognized and reported as not applied.
	ApplyEdits bool
}

// Modify loads the current orders and returns a modified copy.
func (m *DataModifier) Modify(ctx context.Context, req *domain.ChangeRequest) (_ *ModifiedData, err error) {
	defer obs.Time(ctx, "modifier.Modify")(&err)

	if req == nil {
		return nil, errors.New("modify data: change request is nil")
	}
	if m.Orders == nil {
		return nil, errors.New("modify data: order repository is nil")
	}

	current, err := m.Orders.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("modify data: load orders: %w", err)
	}

	out, err := ApplyChangeRequest(current, req, m.ApplyEdits)
	if err != nil {
		return nil, fmt.Errorf("modify data: %w", err)
	}
	return out, nil
}

// ApplyChangeRequest is the pure transformation behind Modify. Removal runs
// first, then appends, then service-time and time-window edits.
func ApplyChangeRequest(current domain.OrderSet, req *domain.ChangeRequest, applyEdits bool) (*ModifiedData, error) {
	orders := current.Clone()
	notes := []string{}
	tc := req.TransportDataChanges

	if tc.RemoveOrders.Needed && len(tc.RemoveOrders.OrderIndices) > 0 {
		var err error
		orders, err = removeOrders(orders, tc.RemoveOrders.OrderIndices)
		if err != nil {
			return nil, err
		}
		notes = append(notes, fmt.Sprintf("Removed orders at indices: %v", tc.RemoveOrders.OrderIndices))
	}

	if len(req.NewOrders) > 0 {
		orders = append(orders, req.NewOrders...)
		notes = append(notes, fmt.Sprintf("Added %d new orders", len(req.NewOrders)))
	}

	if tc.ModifyServiceTimes.Needed {
		if !applyEdits {
			notes = append(notes, "Service time change recognized but not applied (data edits disabled)")
		} else {
			n, err := applyServiceTimes(orders, tc.ModifyServiceTimes)
			if err != nil {
				return nil, err
			}
			notes = append(notes, fmt.Sprintf("Modified service times on %d orders", n))
		}
	}

	if tc.ModifyTimeWindows.Needed {
		if !applyEdits {
			notes = append(notes, "Time window change recognized but not applied (data edits disabled)")
		} else {
			n, err := applyTimeWindows(orders, tc.ModifyTimeWindows)
			if err != nil {
				return nil, err
			}
			notes = append(notes, fmt.Sprintf("Modified %s time windows on %d orders", tc.ModifyTimeWindows.Type, n))
		}
	}

	queryType := req.QueryType
	if queryType == "" {
		queryType = domain.QueryRouteOptimization
	}

	return &ModifiedData{
		Orders:       orders,
		FleetChanges: req.FleetChanges,
		QueryType:    queryType,
		Notes:        notes,
	}, nil
}

// removeOrders drops the given positions and re-indexes contiguously.
func removeOrders(orders domain.OrderSet, indices []int) (domain.OrderSet, error) {
	drop := make(map[int]struct{}, len(indices))
	for _, idx := range indices {
		if idx < 0 || idx >= len(orders) {
			return nil, fmt.Errorf("remove orders: index %d out of range for %d orders", idx, len(orders))
		}
		drop[idx] = struct{}{}
	}

	kept := make(domain.OrderSet, 0, len(orders)-len(drop))
	for i, o := range orders {
		if _, ok := drop[i]; ok {
			continue
		}
		kept = append(kept, o)
	}
	return kept, nil
}

func selectedPositions(orders domain.OrderSet, sel domain.OrderSelector) ([]int, error) {
	if !sel.All && len(sel.Indices) == 0 {
		return nil, errors.New("affected_orders is empty")
	}

	positions := make([]int, 0, len(orders))
	for i := range orders {
		if sel.Includes(i) {
			positions = append(positions, i)
		}
	}
	for _, idx := range sel.Indices {
		if idx < 0 || idx >= len(orders) {
			return nil, fmt.Errorf("affected order index %d out of range for %d orders", idx, len(orders))
		}
	}
	return positions, nil
}

func applyServiceTimes(orders domain.OrderSet, c domain.ServiceTimeChange) (int, error) {
	if c.NewValue == nil || *c.NewValue < 0 {
		return 0, errors.New("modify service times: new_value must be a non-negative integer")
	}
	positions, err := selectedPositions(orders, c.AffectedOrders)
	if err != nil {
		return 0, fmt.Errorf("modify service times: %w", err)
	}

	for _, i := range positions {
		orders[i].PickupServiceTime = *c.NewValue
		orders[i].DeliveryServiceTime = *c.NewValue
	}
	return len(positions), nil
}

func applyTimeWindows(orders domain.OrderSet, c domain.TimeWindowChange) (int, error) {
	if c.NewValues.Earliest == nil && c.NewValues.Latest == nil {
		return 0, errors.New("modify time windows: new_values has neither earliest nor latest")
	}
	if !slices.Contains([]string{domain.WindowPickup, domain.WindowDelivery}, c.Type) {
		return 0, fmt.Errorf("modify time windows: unknown window type %q", c.Type)
	}
	positions, err := selectedPositions(orders, c.AffectedOrders)
	if err != nil {
		return 0, fmt.Errorf("modify time windows: %w", err)
	}

	for _, i := range positions {
		earliest, latest := &orders[i].EarliestPickup, &orders[i].LatestPickup
		if c.Type == domain.WindowDelivery {
			earliest, latest = &orders[i].EarliestDelivery, &orders[i].LatestDelivery
		}
		if c.NewValues.Earliest != nil {
			*earliest = *c.NewValues.Earliest
		}
		if c.NewValues.Latest != nil {
			*latest = *c.NewValues.Latest
		}
		if *earliest > *latest {
			return 0, fmt.Errorf("modify time windows: order %d %s window [%d, %d] is empty", i, c.Type, *earliest, *latest)
		}
	}
	return len(positions), nil
}
