package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Query types recognized by the interpreter.
const (
	QueryRouteOptimization   = "route_optimization"
	QueryLoadingTimeAnalysis = "loading_time_analysis"
	QueryConflictAnalysis    = "conflict_analysis"
	QueryAddOrder            = "add_order"
	QueryRemoveOrder         = "remove_order"
)

// Time-window edit sides.
const (
	WindowPickup   = "pickup"
	WindowDelivery = "delivery"
)

// ChangeRequest is the structured form of a user query.
// Every Needed flag gates its payload; a false flag is a no-op.
type ChangeRequest struct {
	QueryType            string               `json:"query_type"`
	TransportDataChanges TransportDataChanges `json:"transport_data_changes"`
	FleetChanges         FleetChanges         `json:"fleet_changes"`
	NewOrders            []Order              `json:"new_orders"`
	RequiredAnalyses     RequiredAnalyses     `json:"required_analyses"`
}

type TransportDataChanges struct {
	ModifyServiceTimes ServiceTimeChange `json:"modify_service_times"`
	ModifyTimeWindows  TimeWindowChange  `json:"modify_time_windows"`
	RemoveOrders       OrderRemoval      `json:"remove_orders"`
}

type ServiceTimeChange struct {
	Needed         bool          `json:"needed"`
	NewValue       *int          `json:"new_value,omitempty"`
	AffectedOrders OrderSelector `json:"affected_orders"`
}

type TimeWindowChange struct {
	Needed         bool          `json:"needed"`
	Type           string        `json:"type,omitempty"`
	NewValues      WindowBounds  `json:"new_values"`
	AffectedOrders OrderSelector `json:"affected_orders"`
}

type WindowBounds struct {
	Earliest *int `json:"earliest,omitempty"`
	Latest   *int `json:"latest,omitempty"`
}

// OrderRemoval lists 0-based positions in the current order set.
type OrderRemoval struct {
	Needed       bool  `json:"needed"`
	OrderIndices []int `json:"order_indices,omitempty"`
}

type FleetChanges struct {
	ModifyCapacity  CapacityChange  `json:"modify_capacity"`
	ModifyFleetSize FleetSizeChange `json:"modify_fleet_size"`
}

// CapacityChange overrides the per-vehicle capacity. A nil ForkliftID applies
// to every vehicle; otherwise only the 1-based forklift is changed.
type CapacityChange struct {
	Needed      bool `json:"needed"`
	ForkliftID  *int `json:"forklift_id,omitempty"`
	NewCapacity *int `json:"new_capacity,omitempty"`
}

type FleetSizeChange struct {
	Needed  bool `json:"needed"`
	NewSize *int `json:"new_size,omitempty"`
}

type RequiredAnalyses struct {
	BaselineNeeded      bool `json:"baseline_needed"`
	VisualizationNeeded bool `json:"visualization_needed"`
	ConflictAnalysis    bool `json:"conflict_analysis"`
}

// DefaultChangeRequest returns the no-op request every decoder starts from.
func DefaultChangeRequest() *ChangeRequest {
	return &ChangeRequest{
		QueryType: QueryRouteOptimization,
		NewOrders: []Order{},
		RequiredAnalyses: RequiredAnalyses{
			VisualizationNeeded: true,
		},
	}
}

// Validate rejects requests whose Needed flags are not backed by a payload.
func (r *ChangeRequest) Validate() error {
	if r == nil {
		return errors.New("change request is nil")
	}

	fc := r.FleetChanges
	if fc.ModifyFleetSize.Needed && (fc.ModifyFleetSize.NewSize == nil || *fc.ModifyFleetSize.NewSize < 1) {
		return errors.New("modify_fleet_size: new_size must be a positive integer")
	}
	if fc.ModifyCapacity.Needed && (fc.ModifyCapacity.NewCapacity == nil || *fc.ModifyCapacity.NewCapacity < 1) {
		return errors.New("modify_capacity: new_capacity must be a positive integer")
	}
	if fc.ModifyFleetSize.Needed && *fc.ModifyFleetSize.NewSize > MaxFleetSize {
		return fmt.Errorf("modify_fleet_size: new_size %d exceeds the maximum of %d", *fc.ModifyFleetSize.NewSize, MaxFleetSize)
	}
	if fc.ModifyCapacity.Needed && *fc.ModifyCapacity.NewCapacity > MaxForkliftCapacity {
		return fmt.Errorf("modify_capacity: new_capacity %d exceeds the maximum of %d", *fc.ModifyCapacity.NewCapacity, MaxForkliftCapacity)
	}
	if fc.ModifyCapacity.Needed && fc.ModifyCapacity.ForkliftID != nil && *fc.ModifyCapacity.ForkliftID < 1 {
		return errors.New("modify_capacity: forklift_id must be 1 or greater")
	}

	tc := r.TransportDataChanges
	if tc.RemoveOrders.Needed {
		for _, idx := range tc.RemoveOrders.OrderIndices {
			if idx < 0 {
				return fmt.Errorf("remove_orders: negative order index %d", idx)
			}
		}
	}
	if tc.ModifyTimeWindows.Needed {
		switch tc.ModifyTimeWindows.Type {
		case WindowPickup, WindowDelivery:
		default:
			return fmt.Errorf("modify_time_windows: type must be %q or %q", WindowPickup, WindowDelivery)
		}
	}

	for i, o := range r.NewOrders {
		if err := o.Validate(); err != nil {
			return fmt.Errorf("new_orders[%d]: %w", i, err)
		}
	}

	return nil
}

// Normalize fills optional fields so downstream stages never see nil slices.
func (r *ChangeRequest) Normalize() {
	if strings.TrimSpace(r.QueryType) == "" {
		r.QueryType = QueryRouteOptimization
	}
	if r.NewOrders == nil {
		r.NewOrders = []Order{}
	}
	r.RequiredAnalyses.VisualizationNeeded = true
}

// OrderSelector is either "all" or an explicit list of 0-based order indices.
type OrderSelector struct {
	All     bool
	Indices []int
}

// Includes reports whether position i is selected.
func (s OrderSelector) Includes(i int) bool {
	if s.All {
		return true
	}
	for _, idx := range s.Indices {
		if idx == i {
			return true
		}
	}
	return false
}

func (s OrderSelector) MarshalJSON() ([]byte, error) {
	if s.All {
		return []byte(`"all"`), nil
	}
	if s.Indices == nil {
		return []byte("null"), nil
	}
	return json.Marshal(s.Indices)
}

func (s *OrderSelector) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*s = OrderSelector{}
		return nil
	}

	if b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		if !strings.EqualFold(strings.TrimSpace(v), "all") {
			return fmt.Errorf("affected_orders: unexpected value %q", v)
		}
		*s = OrderSelector{All: true}
		return nil
	}

	var indices []int
	if err := json.Unmarshal(b, &indices); err != nil {
		return fmt.Errorf("affected_orders: %w", err)
	}
	*s = OrderSelector{Indices: indices}
	return nil
}
