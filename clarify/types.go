// Package clarify words the re-ask message after a failed validation.
package clarify

import (
	"context"

	"github.com/intakekit/intake/types"
)

type Generator interface {
	GenerateClarification(ctx context.Context, req *types.TurnRequest) (string, error)
}
