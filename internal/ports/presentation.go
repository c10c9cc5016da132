package ports

import (
	"context"
	"forklift-route-agent/internal/domain"
)

// Contract for rendering a solution into chart files.
type ChartRenderer interface {
	// Render charts into dir using timestamp in the file names. Per-vehicle
	// failures are returned in the error slice and do not stop the batch.
	Render(ctx context.Context, solution *domain.SolutionRecord, dir string, timestamp string) (*domain.ChartSet, []error)
}

// Optional remote mirror for rendered artifacts.
type ArtifactStore interface {
	Put(ctx context.Context, key string, content []byte, contentType string) error
}
