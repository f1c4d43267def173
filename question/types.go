// Package question generates the prompt shown to the user for one field.
package question

import (
	"context"

	"github.com/intakekit/intake/types"
)

type Generator interface {
	GenerateQuestion(ctx context.Context, req *types.TurnRequest) (string, error)
}
