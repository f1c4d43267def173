// Package verify is the optional quality-mode second pass over a value the
// rule validator already accepted. It only runs when extraction confidence
// is low; its threshold is configured independently of the hybrid policy.
package verify

import (
	"context"

	"github.com/intakekit/intake/types"
)

// Verdict is the outcome of a verification pass.
type Verdict struct {
	Valid              bool
	NeedsClarification bool
	Reason             string
}

type Checker interface {
	Verify(ctx context.Context, req *types.TurnRequest) (*Verdict, error)
}
