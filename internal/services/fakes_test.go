package services

import (
	"context"
	"errors"
	"forklift-route-agent/internal/domain"
	"path/filepath"
)

type scriptedModel struct {
	reply   string
	err     error
	prompts []string
}

func (m *scriptedModel) Invoke(ctx context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	return m.reply, m.err
}

type staticOrders struct {
	orders domain.OrderSet
	err    error
}

func (s *staticOrders) ListOrders(ctx context.Context) (domain.OrderSet, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.orders.Clone(), nil
}

type fakeSolver struct {
	solution *domain.SolutionRecord
	err      error
	problems []*domain.SolverProblem
}

func (f *fakeSolver) Solve(ctx context.Context, p *domain.SolverProblem) (*domain.SolutionRecord, error) {
	f.problems = append(f.problems, p)
	return f.solution, f.err
}

type fakeRenderer struct {
	errs  []error
	calls int
}

func (r *fakeRenderer) Render(ctx context.Context, s *domain.SolutionRecord, dir, timestamp string) (*domain.ChartSet, []error) {
	r.calls++
	set := &domain.ChartSet{
		Timestamp:    timestamp,
		Dir:          dir,
		GanttPath:    filepath.Join(dir, "optimization_"+timestamp+"_gantt.png"),
		NetworkPaths: map[string]string{},
	}
	return set, r.errs
}

var errModelDown = errors.New("model unavailable")

func sampleSolution() *domain.SolutionRecord {
	v0 := domain.VehicleRoute{
		Route:        []int{0, 1, 1, 5, 0},
		Type:         []string{"Depot", "w", "Pickup", "Delivery", "Depot"},
		ArrivalStamp: []float64{0, 1, 2, 6, 10},
	}
	v1 := domain.VehicleRoute{
		Route:        []int{0, 2, 6, 0},
		Type:         []string{"Depot", "Pickup", "Delivery", "Depot"},
		ArrivalStamp: []float64{0, 2, 7, 12},
	}
	return &domain.SolutionRecord{
		Status:       0,
		SolutionCost: 17,
		VehicleData:  map[string]domain.VehicleRoute{"0": v0, "1": v1},
		ReadableRoutes: map[string][]string{
			"0": domain.ReadableRoute(v0),
			"1": domain.ReadableRoute(v1),
		},
	}
}
