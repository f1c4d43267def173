// Package annotate flags noteworthy traits of an accepted answer
// (uncertainty, conditional language, time sensitivity, external references).
package annotate

import (
	"context"

	"github.com/intakekit/intake/types"
)

type Annotator interface {
	Annotate(ctx context.Context, req *types.TurnRequest) ([]string, error)
}
