package services

import (
	"context"
	"errors"
	"fmt"
	"forklift-route-agent/internal/domain"
	"forklift-route-agent/internal/platform/obs"
	"forklift-route-agent/internal/ports"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// TimestampLayout is embedded in chart file names.
const TimestampLayout = "20060102_150405"

// Agent sequences interpretation, data modification, problem building,
// solving and visualization for a single query.
type Agent struct {
	Interpreter *QueryInterpreter
	Modifier    *DataModifier
	Builder     *ProblemBuilder
	Solver      ports.Solver

	// Renderer is optional; nil disables charts regardless of the flag.
	Renderer             ports.ChartRenderer
	VisualizationEnabled bool
	OutputDir            string

	// Artifacts mirrors rendered charts when set.
	Artifacts ports.ArtifactStore
	// Markdown inlines rendered charts into the answer; nil omits them.
	Markdown func(*domain.ChartSet) (string, []error)

	Now func() time.Time
}

// Run executes the pipeline strictly in sequence. It always returns a
// result; failures are recorded in the result's error list.
func (a *Agent) Run(ctx context.Context, query string) *domain.RunResult {
	state := domain.NewRunState(uuid.NewString(), query)
	if obs.RequestID(ctx) == "" {
		ctx = obs.WithRequestID(ctx, state.ID)
	}

	var err error
	defer obs.Time(ctx, "agent.Run")(&err)

	state.Logf("Starting query processing workflow")

	req, source := a.Interpreter.Interpret(ctx, query)
	state.QueryType = req.QueryType
	state.Logf("Query analysis completed (decoder=%s, query_type=%s)", source, req.QueryType)

	data, err := a.Modifier.Modify(ctx, req)
	if err != nil {
		state.AddError(err)
		return state.Result()
	}
	for _, note := range data.Notes {
		state.Logf("%s", note)
	}
	state.QueryType = data.QueryType
	state.Logf("Data modification completed (%d orders)", len(data.Orders))

	problem, err := a.Builder.Build(ctx, data)
	if err != nil {
		state.AddError(err)
		return state.Result()
	}
	state.Logf("cuOpt input preparation completed (%d tasks, %d forklifts)",
		len(problem.TaskData.TaskLocations), len(problem.FleetData.VehicleLocations))

	if a.Solver == nil {
		err = errors.New("cuopt solver: no solver configured")
		state.AddError(err)
		return state.Result()
	}
	solution, err := a.Solver.Solve(ctx, problem)
	if err != nil {
		state.AddError(fmt.Errorf("cuopt solver: %w", err))
		return state.Result()
	}
	state.Solution = solution
	state.Logf("Optimization completed (status=%d, cost=%v)", solution.Status, solution.SolutionCost)

	var charts *domain.ChartSet
	if a.VisualizationEnabled && a.Renderer != nil {
		charts = a.visualize(ctx, state)
	}

	result := state.Result()
	result.Charts = charts
	return result
}

// Payload interprets query and builds the solver payload without solving.
func (a *Agent) Payload(ctx context.Context, query string) (*domain.SolverProblem, error) {
	req, _ := a.Interpreter.Interpret(ctx, query)

	data, err := a.Modifier.Modify(ctx, req)
	if err != nil {
		return nil, err
	}
	return a.Builder.Build(ctx, data)
}

// Answer runs query and formats the markdown response shown to the user.
func (a *Agent) Answer(ctx context.Context, query string) (*domain.RunResult, string) {
	result := a.Run(ctx, query)

	var md string
	if a.Markdown != nil && result.Charts != nil {
		var errs []error
		md, errs = a.Markdown(result.Charts)
		for _, e := range errs {
			result.Errors = append(result.Errors, fmt.Sprintf("visualization failed: %v", e))
		}
	}
	return result, FormatResponse(result, md)
}

func (a *Agent) visualize(ctx context.Context, state *domain.RunState) *domain.ChartSet {
	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	timestamp := now().Format(TimestampLayout)

	dir := a.OutputDir
	if dir == "" {
		dir = "optimization_results"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		state.AddError(fmt.Errorf("visualization failed: create output dir: %w", err))
		return nil
	}

	charts, errs := a.Renderer.Render(ctx, state.Solution, dir, timestamp)
	for _, e := range errs {
		state.AddError(fmt.Errorf("visualization failed: %w", e))
	}
	if charts == nil {
		return nil
	}

	state.VisualizationTimestamp = timestamp
	state.Logf("Visualizations created (%d route charts)", len(charts.NetworkPaths))

	if a.Artifacts != nil {
		a.mirrorCharts(ctx, state, charts)
	}
	return charts
}

func (a *Agent) mirrorCharts(ctx context.Context, state *domain.RunState, charts *domain.ChartSet) {
	paths := make([]string, 0, 1+len(charts.NetworkPaths))
	if charts.GanttPath != "" {
		paths = append(paths, charts.GanttPath)
	}
	for _, id := range sortedKeys(charts.NetworkPaths) {
		paths = append(paths, charts.NetworkPaths[id])
	}

	for _, p := range paths {
		content, err := os.ReadFile(p)
		if err != nil {
			log.Printf("req_id=%s artifact read failed path=%s err=%v", obs.RequestID(ctx), p, err)
			state.Logf("Artifact upload skipped for %s: %v", filepath.Base(p), err)
			continue
		}
		key := charts.Timestamp + "/" + filepath.Base(p)
		if err := a.Artifacts.Put(ctx, key, content, "image/png"); err != nil {
			log.Printf("req_id=%s artifact upload failed key=%s err=%v", obs.RequestID(ctx), key, err)
			state.Logf("Artifact upload failed for %s: %v", key, err)
			continue
		}
		state.Logf("Uploaded chart %s", key)
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	domain.SortVehicleIDs(keys)
	return keys
}
