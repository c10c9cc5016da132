package domain

import (
	"fmt"
	"slices"
	"sync"
)

// RunState accumulates the logs and errors of a single query. It is created
// once per query and never reused.
type RunState struct {
	ID                     string
	Query                  string
	QueryType              string
	Solution               *SolutionRecord
	VisualizationTimestamp string

	mu     sync.Mutex
	errors []string
	logs   []string
}

func NewRunState(id, query string) *RunState {
	return &RunState{
		ID:        id,
		Query:     query,
		QueryType: QueryRouteOptimization,
		errors:    []string{},
		logs:      []string{},
	}
}

func (s *RunState) Logf(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, fmt.Sprintf(format, args...))
}

// AddError records a recoverable failure; it is mirrored into the logs.
func (s *RunState) AddError(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = append(s.errors, err.Error())
	s.logs = append(s.logs, "ERROR: "+err.Error())
}

func (s *RunState) Errors() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.errors)
}

func (s *RunState) Logs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.logs)
}

// RunResult is the externally visible outcome of a run.
type RunResult struct {
	RunID                  string          `json:"run_id"`
	QueryType              string          `json:"query_type"`
	Solution               *SolutionRecord `json:"solution"`
	Errors                 []string        `json:"errors"`
	Logs                   []string        `json:"logs"`
	VisualizationTimestamp string          `json:"visualization_timestamp,omitempty"`
	Charts                 *ChartSet       `json:"charts,omitempty"`
}

// Result snapshots the state.
func (s *RunState) Result() *RunResult {
	return &RunResult{
		RunID:                  s.ID,
		QueryType:              s.QueryType,
		Solution:               s.Solution,
		Errors:                 s.Errors(),
		Logs:                   s.Logs(),
		VisualizationTimestamp: s.VisualizationTimestamp,
	}
}

// ChartSet lists the chart files rendered for one run.
type ChartSet struct {
	Timestamp string `json:"timestamp"`
	Dir       string `json:"dir"`
	GanttPath string `json:"gantt_path,omitempty"`
	// Keyed by vehicle id.
	NetworkPaths map[string]string `json:"network_paths,omitempty"`
}
