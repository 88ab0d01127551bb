package interfaces

import (
	"context"

	"llm-market-analyst/internal/types"
)

// BatchRunner executes one full analysis batch.
type BatchRunner interface {
	RunBatch(ctx context.Context) (types.BatchResult, error)
}
