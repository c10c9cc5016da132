package obs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	stageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "agent_stage_duration_seconds",
			Help:    "Duration of pipeline stages and external calls",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 14),
		},
		[]string{"op", "outcome"},
	)

	// HTTPRequests counts served API requests.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agent_http_requests_total",
			Help: "HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	// SolverPolls counts status polls issued while waiting on the solver.
	SolverPolls = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "agent_solver_polls_total",
			Help: "Status polls issued to the remote solver",
		},
	)

	// SolutionCacheLookups counts solution cache lookups by result.
	SolutionCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agent_solution_cache_lookups_total",
			Help: "Solution cache lookups by result",
		},
		[]string{"result"},
	)

	// InterpreterDecodes counts which decoder produced the change request.
	InterpreterDecodes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agent_interpreter_decodes_total",
			Help: "Change requests produced per decoder",
		},
		[]string{"decoder"},
	)
)
