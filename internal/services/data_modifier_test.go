package services

import (
	"context"
	"errors"
	"forklift-route-agent/internal/domain"
	"strings"
	"testing"
)

func intPtr(v int) *int { return &v }

func TestApplyChangeRequestNoOpIsIdentity(t *testing.T) {
	current := domain.DefaultOrders()

	out, err := ApplyChangeRequest(current, domain.DefaultChangeRequest(), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(out.Orders) != len(current) {
		t.Fatalf("orders = %d, want %d", len(out.Orders), len(current))
	}
	for i := range current {
		if out.Orders[i] != current[i] {
			t.Fatalf("row %d changed: %+v != %+v", i, out.Orders[i], current[i])
		}
	}
}

func TestApplyChangeRequestRemovesThenAppends(t *testing.T) {
	current := domain.DefaultOrders()
	added := domain.Order{
		PickupLocation: 4, DeliveryLocation: 6, OrderDemand: 1,
		LatestPickup: 40, PickupServiceTime: 1, LatestDelivery: 60, DeliveryServiceTime: 1,
	}

	req := domain.DefaultChangeRequest()
	req.TransportDataChanges.RemoveOrders = domain.OrderRemoval{Needed: true, OrderIndices: []int{0, 2}}
	req.NewOrders = []domain.Order{added}

	out, err := ApplyChangeRequest(current, req, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(out.Orders) != 8 {
		t.Fatalf("orders = %d, want 8", len(out.Orders))
	}
	if out.Orders[0] != current[1] {
		t.Fatalf("first row = %+v, want original row 1", out.Orders[0])
	}
	if out.Orders[1] != current[3] {
		t.Fatalf("second row = %+v, want original row 3", out.Orders[1])
	}
	if out.Orders[7] != added {
		t.Fatalf("last row = %+v, want the new order", out.Orders[7])
	}
	if current[0].PickupLocation != 1 || len(current) != 9 {
		t.Fatal("input order set must not be mutated")
	}
}

func TestApplyChangeRequestRemoveOutOfRange(t *testing.T) {
	req := domain.DefaultChangeRequest()
	req.TransportDataChanges.RemoveOrders = domain.OrderRemoval{Needed: true, OrderIndices: []int{12}}

	if _, err := ApplyChangeRequest(domain.DefaultOrders(), req, false); err == nil {
		t.Fatal("expected error for out of range index")
	}
}

func TestApplyChangeRequestEditsRecordedWhenDisabled(t *testing.T) {
	req := domain.DefaultChangeRequest()
	req.TransportDataChanges.ModifyServiceTimes = domain.ServiceTimeChange{
		Needed: true, NewValue: intPtr(5), AffectedOrders: domain.OrderSelector{All: true},
	}
	req.TransportDataChanges.ModifyTimeWindows = domain.TimeWindowChange{
		Needed: true, Type: domain.WindowPickup,
		NewValues:      domain.WindowBounds{Latest: intPtr(15)},
		AffectedOrders: domain.OrderSelector{Indices: []int{0}},
	}

	out, err := ApplyChangeRequest(domain.DefaultOrders(), req, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.Orders[0].PickupServiceTime != 2 || out.Orders[0].LatestPickup != 10 {
		t.Fatalf("edits must not be applied when disabled: %+v", out.Orders[0])
	}
	joined := strings.Join(out.Notes, "\n")
	if !strings.Contains(joined, "Service time change recognized but not applied") {
		t.Fatalf("service time edit was not recorded: %v", out.Notes)
	}
	if !strings.Contains(joined, "Time window change recognized but not applied") {
		t.Fatalf("time window edit was not recorded: %v", out.Notes)
	}
}

func TestApplyChangeRequestEditsApplied(t *testing.T) {
	req := domain.DefaultChangeRequest()
	req.TransportDataChanges.ModifyServiceTimes = domain.ServiceTimeChange{
		Needed: true, NewValue: intPtr(4), AffectedOrders: domain.OrderSelector{Indices: []int{1}},
	}
	req.TransportDataChanges.ModifyTimeWindows = domain.TimeWindowChange{
		Needed: true, Type: domain.WindowDelivery,
		NewValues:      domain.WindowBounds{Earliest: intPtr(5), Latest: intPtr(40)},
		AffectedOrders: domain.OrderSelector{All: true},
	}

	out, err := ApplyChangeRequest(domain.DefaultOrders(), req, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.Orders[1].PickupServiceTime != 4 || out.Orders[1].DeliveryServiceTime != 4 {
		t.Fatalf("service time not applied: %+v", out.Orders[1])
	}
	if out.Orders[0].PickupServiceTime != 2 {
		t.Fatalf("unaffected order changed: %+v", out.Orders[0])
	}
	for i, o := range out.Orders {
		if o.EarliestDelivery != 5 || o.LatestDelivery != 40 {
			t.Fatalf("row %d delivery window = [%d, %d], want [5, 40]", i, o.EarliestDelivery, o.LatestDelivery)
		}
	}
}

func TestApplyChangeRequestRejectsEmptyWindow(t *testing.T) {
	req := domain.DefaultChangeRequest()
	req.TransportDataChanges.ModifyTimeWindows = domain.TimeWindowChange{
		Needed: true, Type: domain.WindowPickup,
		NewValues:      domain.WindowBounds{Earliest: intPtr(50)},
		AffectedOrders: domain.OrderSelector{Indices: []int{0}},
	}

	if _, err := ApplyChangeRequest(domain.DefaultOrders(), req, true); err == nil {
		t.Fatal("expected error for earliest after latest")
	}
}

func TestModifyRemoveFirstOrderFromDefaults(t *testing.T) {
	m := &DataModifier{Orders: &staticOrders{orders: domain.DefaultOrders()}}
	req := keywordChangeRequest("remove order 1")

	out, err := m.Modify(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Orders) != 8 {
		t.Fatalf("orders = %d, want 8", len(out.Orders))
	}
	if out.QueryType != domain.QueryRemoveOrder {
		t.Fatalf("query type = %q", out.QueryType)
	}
}

func TestModifyPropagatesLoadError(t *testing.T) {
	m := &DataModifier{Orders: &staticOrders{err: errors.New("disk on fire")}}

	_, err := m.Modify(context.Background(), domain.DefaultChangeRequest())
	if err == nil || !strings.Contains(err.Error(), "disk on fire") {
		t.Fatalf("err = %v, want load error", err)
	}
}
