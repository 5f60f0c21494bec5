package ports

import (
	"context"

	"github.com/dealdesk/dealdocs/internal/core/domain"
)

// BatchPipeline is the inbound contract for one classification run.
type BatchPipeline interface {
	Run(ctx context.Context, req domain.BatchRequest) (*domain.PipelineResult, error)
}

// ResultPersister writes a finished pipeline result to the persistent store.
type ResultPersister interface {
	Persist(ctx context.Context, req domain.BatchRequest, result *domain.PipelineResult) error
}
