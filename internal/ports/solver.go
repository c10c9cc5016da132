package ports

import (
	"context"
	"forklift-route-agent/internal/domain"
)

// Contract for solving a routing problem on a remote optimizer.
type Solver interface {
	Solve(ctx context.Context, problem *domain.SolverProblem) (*domain.SolutionRecord, error)
}

// Optional persistent store for solutions keyed by a problem fingerprint.
type SolutionCache interface {
	// Return the cached solution and true on a hit.
	Get(ctx context.Context, key string) (*domain.SolutionRecord, bool, error)
	Put(ctx context.Context, key string, solution *domain.SolutionRecord) error
}
