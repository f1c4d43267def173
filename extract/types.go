// Package extract pulls a typed field value out of free-text user input.
package extract

import (
	"context"

	"github.com/intakekit/intake/types"
)

// Extractor turns raw user text into a Collected result. Implementations
// never return a nil result together with a nil error: extraction failure is
// represented as a low-confidence result carrying an error string, so the
// machine can drive the clarification loop instead of aborting.
type Extractor interface {
	Extract(ctx context.Context, req *types.TurnRequest) (*types.Collected, error)
}

// Confidence levels produced by the deterministic extractor.
const (
	ConfidenceMatched     = 1.0
	ConfidencePassthrough = 0.5
	ConfidenceFailed      = 0.3
)
