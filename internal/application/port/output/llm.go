package output

import (
	"context"

	"webagent/internal/domain/entity"
)

// LLMPort is the model collaborator: one prompt in, one reply out. Retry
// policy, if any, lives behind this interface, not in the loop.
type LLMPort interface {
	Complete(ctx context.Context, messages []entity.Message) (string, error)
}
