package input

import (
	"context"

	"webagent/internal/domain/entity"
)

// TaskRunner drives one natural-language task to a terminal state.
type TaskRunner interface {
	Run(ctx context.Context, task string) (*entity.RunResult, error)
}
