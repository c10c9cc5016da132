package services

import (
	"context"
	"errors"
	"forklift-route-agent/internal/domain"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type memoryArtifacts struct {
	keys []string
	err  error
}

func (m *memoryArtifacts) Put(ctx context.Context, key string, content []byte, contentType string) error {
	if m.err != nil {
		return m.err
	}
	m.keys = append(m.keys, key)
	return nil
}

func newTestAgent(t *testing.T, orders domain.OrderSet, solver *fakeSolver, renderer *fakeRenderer) *Agent {
	t.Helper()
	a := &Agent{
		Interpreter:          NewQueryInterpreter(nil),
		Modifier:             &DataModifier{Orders: &staticOrders{orders: orders}},
		Builder:              &ProblemBuilder{},
		Solver:               solver,
		VisualizationEnabled: true,
		OutputDir:            t.TempDir(),
		Now:                  func() time.Time { return time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC) },
	}
	if renderer != nil {
		a.Renderer = renderer
	}
	return a
}

func containsLine(lines []string, substr string) bool {
	for _, l := range lines {
		if strings.Contains(l, substr) {
			return true
		}
	}
	return false
}

func TestAgentRunHappyPath(t *testing.T) {
	solver := &fakeSolver{solution: sampleSolution()}
	renderer := &fakeRenderer{}
	a := newTestAgent(t, domain.DefaultOrders(), solver, renderer)

	result := a.Run(context.Background(), "Optimize the routes with 2 forklifts")

	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if result.Solution == nil || result.Solution.SolutionCost != 17 {
		t.Fatalf("solution = %+v", result.Solution)
	}
	if len(solver.problems) != 1 {
		t.Fatalf("solver calls = %d, want 1", len(solver.problems))
	}
	if got := len(solver.problems[0].FleetData.VehicleLocations); got != 2 {
		t.Fatalf("fleet size sent to solver = %d, want 2", got)
	}
	if renderer.calls != 1 {
		t.Fatalf("renderer calls = %d, want 1", renderer.calls)
	}
	if result.VisualizationTimestamp != "20250304_050607" {
		t.Fatalf("timestamp = %q", result.VisualizationTimestamp)
	}
	if result.Charts == nil || result.Charts.Timestamp != result.VisualizationTimestamp {
		t.Fatalf("charts = %+v", result.Charts)
	}
	if result.RunID == "" {
		t.Fatal("run id must be set")
	}
	if !containsLine(result.Logs, "Starting query processing workflow") {
		t.Fatalf("logs missing start entry: %v", result.Logs)
	}
}

func TestAgentRunEmptyOrderSet(t *testing.T) {
	solver := &fakeSolver{solution: sampleSolution()}
	a := newTestAgent(t, domain.OrderSet{}, solver, &fakeRenderer{})

	result := a.Run(context.Background(), "Optimize the routes")

	if !containsLine(result.Errors, "order set is missing or empty") {
		t.Fatalf("errors = %v", result.Errors)
	}
	if len(solver.problems) != 0 {
		t.Fatal("solver must not run after a build failure")
	}
	if result.Solution != nil {
		t.Fatal("solution must be absent")
	}
	if !containsLine(result.Logs, "ERROR: ") {
		t.Fatalf("errors must be mirrored into logs: %v", result.Logs)
	}
}

func TestAgentRunSolverFailureShortCircuits(t *testing.T) {
	solver := &fakeSolver{err: errors.New("No API key provided for cuOpt")}
	renderer := &fakeRenderer{}
	a := newTestAgent(t, domain.DefaultOrders(), solver, renderer)

	result := a.Run(context.Background(), "Optimize the routes")

	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "No API key provided for cuOpt") {
		t.Fatalf("errors = %v", result.Errors)
	}
	if renderer.calls != 0 {
		t.Fatal("visualization must not run without a solution")
	}
	if result.VisualizationTimestamp != "" {
		t.Fatalf("timestamp = %q, want empty", result.VisualizationTimestamp)
	}
}

func TestAgentRunWithoutSolver(t *testing.T) {
	a := newTestAgent(t, domain.DefaultOrders(), nil, nil)
	a.Solver = nil

	result := a.Run(context.Background(), "Optimize the routes")

	if !containsLine(result.Errors, "no solver configured") {
		t.Fatalf("errors = %v", result.Errors)
	}
}

func TestAgentRunVisualizationDisabled(t *testing.T) {
	renderer := &fakeRenderer{}
	a := newTestAgent(t, domain.DefaultOrders(), &fakeSolver{solution: sampleSolution()}, renderer)
	a.VisualizationEnabled = false

	result := a.Run(context.Background(), "Optimize the routes")

	if renderer.calls != 0 {
		t.Fatal("renderer must not be called when disabled")
	}
	if result.Charts != nil {
		t.Fatalf("charts = %+v, want nil", result.Charts)
	}
}

func TestAgentRunRecordsPerVehicleChartFailures(t *testing.T) {
	renderer := &fakeRenderer{errs: []error{errors.New("forklift 2: draw route")}}
	a := newTestAgent(t, domain.DefaultOrders(), &fakeSolver{solution: sampleSolution()}, renderer)

	result := a.Run(context.Background(), "Optimize the routes")

	if !containsLine(result.Errors, "visualization failed: forklift 2: draw route") {
		t.Fatalf("errors = %v", result.Errors)
	}
	if result.Solution == nil {
		t.Fatal("solution must survive a chart failure")
	}
	if result.Charts == nil {
		t.Fatal("charts that did render must still be returned")
	}
}

func TestAgentRunMirrorsCharts(t *testing.T) {
	renderer := &fakeRenderer{}
	store := &memoryArtifacts{}
	a := newTestAgent(t, domain.DefaultOrders(), &fakeSolver{solution: sampleSolution()}, renderer)
	a.Artifacts = store

	gantt := filepath.Join(a.OutputDir, "optimization_20250304_050607_gantt.png")
	if err := os.WriteFile(gantt, []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}

	result := a.Run(context.Background(), "Optimize the routes")

	if len(store.keys) != 1 || store.keys[0] != "20250304_050607/optimization_20250304_050607_gantt.png" {
		t.Fatalf("uploaded keys = %v", store.keys)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
}

func TestAgentRunUploadFailureIsNotAnError(t *testing.T) {
	store := &memoryArtifacts{err: errors.New("bucket gone")}
	a := newTestAgent(t, domain.DefaultOrders(), &fakeSolver{solution: sampleSolution()}, &fakeRenderer{})
	a.Artifacts = store

	gantt := filepath.Join(a.OutputDir, "optimization_20250304_050607_gantt.png")
	if err := os.WriteFile(gantt, []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}

	result := a.Run(context.Background(), "Optimize the routes")

	if len(result.Errors) != 0 {
		t.Fatalf("errors = %v, want none", result.Errors)
	}
	if !containsLine(result.Logs, "Artifact upload failed") {
		t.Fatalf("logs = %v", result.Logs)
	}
}

func TestAgentAnswerFormatsChartsAndErrors(t *testing.T) {
	a := newTestAgent(t, domain.DefaultOrders(), &fakeSolver{solution: sampleSolution()}, &fakeRenderer{})
	a.Markdown = func(set *domain.ChartSet) (string, []error) {
		return "![Gantt Chart](data:image/png;base64,AAAA)\n", []error{errors.New("embed chart: gone")}
	}

	result, answer := a.Answer(context.Background(), "Optimize the routes")

	if !strings.Contains(answer, "- Forklift 1: Depot: Forklift") {
		t.Fatalf("answer missing routes:\n%s", answer)
	}
	if !strings.Contains(answer, "**Visualizations:**\n![Gantt Chart]") {
		t.Fatalf("answer missing charts:\n%s", answer)
	}
	if !containsLine(result.Errors, "visualization failed: embed chart: gone") {
		t.Fatalf("errors = %v", result.Errors)
	}
}

func TestAgentPayloadDoesNotSolve(t *testing.T) {
	solver := &fakeSolver{solution: sampleSolution()}
	a := newTestAgent(t, domain.DefaultOrders(), solver, nil)

	p, err := a.Payload(context.Background(), "remove order 1 and use 3 forklifts")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len(p.TaskData.PickupAndDeliveryPairs); got != 8 {
		t.Fatalf("pairs = %d, want 8", got)
	}
	if got := len(p.FleetData.VehicleLocations); got != 3 {
		t.Fatalf("fleet = %d, want 3", got)
	}
	if len(solver.problems) != 0 {
		t.Fatal("payload must not call the solver")
	}
}

func TestAgentRunOversizedFleetIsDataError(t *testing.T) {
	solver := &fakeSolver{solution: sampleSolution()}
	a := newTestAgent(t, domain.DefaultOrders(), solver, &fakeRenderer{})

	result := a.Run(context.Background(), "use 1000000000 forklifts")

	if !containsLine(result.Errors, "exceeds the maximum") {
		t.Fatalf("errors = %v", result.Errors)
	}
	if len(solver.problems) != 0 {
		t.Fatal("solver must not run for an oversized fleet")
	}
}
