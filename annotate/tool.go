package annotate

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/intakekit/intake/structured"
	"github.com/intakekit/intake/types"
)

const (
	flagNotesToolName        = "flag_response_notes"
	flagNotesToolDescription = "Flag noteworthy observations about the user's answer for reviewers."
)

type flagNotesArgs struct {
	Notes []string `json:"notes" jsonschema:"description=Observations worth flagging; empty when nothing is notable"`
}

// ToolBasedAnnotator asks the oracle to flag traits the patterns miss.
type ToolBasedAnnotator struct {
	chain *structured.Chain[*types.TurnRequest, flagNotesArgs]
}

func NewToolBasedAnnotator(chatModel model.ToolCallingChatModel, timeout time.Duration) (*ToolBasedAnnotator, error) {
	chain, err := structured.NewChain[*types.TurnRequest, flagNotesArgs](
		chatModel,
		buildFlagNotesPrompt,
		flagNotesToolName,
		flagNotesToolDescription,
		timeout,
	)
	if err != nil {
		return nil, err
	}
	return &ToolBasedAnnotator{chain: chain}, nil
}

func (a *ToolBasedAnnotator) Annotate(ctx context.Context, req *types.TurnRequest) ([]string, error) {
	result, err := a.chain.Invoke(ctx, req)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, fmt.Errorf("empty result returned by %s", flagNotesToolName)
	}
	return result.Notes, nil
}

func buildFlagNotesPrompt(ctx context.Context, req *types.TurnRequest) ([]*schema.Message, error) {
	systemPrompt := fmt.Sprintf(`You review answers collected by a form-filling assistant and flag anything a human reviewer should know.

Flag any of the following if present:
- Uncertainty or hedging language
- Conditional statements
- Time-sensitive information
- References to external documents
- Potential inconsistencies with previously collected answers
- Anything that might need follow-up

Return an empty list when nothing is notable.

Call the '%s' tool with the result.`, flagNotesToolName)

	return []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(types.FormatTurnRequest(req)),
	}, nil
}
