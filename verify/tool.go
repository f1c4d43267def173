package verify

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
	verifyValueToolName        = "verify_extracted_value"
	verifyValueToolDescription = "Judge whether the extracted value accurately represents what the user meant."
)

type verifyValueArgs struct {
	Valid              bool   `json:"valid" jsonschema:"required,description=Whether the extracted value represents what the user meant"`
	NeedsClarification bool   `json:"needs_clarification" jsonschema:"description=Whether the answer is ambiguous enough to re-ask"`
	Reason             string `json:"reason,omitempty" jsonschema:"description=Explanation when invalid or ambiguous"`
}

// ToolBasedChecker asks the oracle for a sanity check. There is no local
// counterpart: when the oracle is unavailable the machine keeps the rule
// validator's verdict.
type ToolBasedChecker struct {
	chain *structured.Chain[*types.TurnRequest, verifyValueArgs]
}

func NewToolBasedChecker(chatModel model.ToolCallingChatModel, timeout time.Duration) (*ToolBasedChecker, error) {
	chain, err := structured.NewChain[*types.TurnRequest, verifyValueArgs](
		chatModel,
		buildVerifyValuePrompt,
		verifyValueToolName,
		verifyValueToolDescription,
		timeout,
	)
	if err != nil {
		return nil, err
	}
	return &ToolBasedChecker{chain: chain}, nil
}

func (c *ToolBasedChecker) Verify(ctx context.Context, req *types.TurnRequest) (*Verdict, error) {
	result, err := c.chain.Invoke(ctx, req)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, fmt.Errorf("empty result returned by %s", verifyValueToolName)
	}
	return &Verdict{
		Valid:              result.Valid,
		NeedsClarification: result.NeedsClarification,
		Reason:             result.Reason,
	}, nil
}

func buildVerifyValuePrompt(ctx context.Context, req *types.TurnRequest) ([]*schema.Message, error) {
	systemPrompt := fmt.Sprintf(`You double-check values extracted by a form-filling assistant.

Given the field, the user's raw answer, and the extracted value, judge:
- Does the extracted value accurately represent what the user meant?
- Is there any ambiguity that should be clarified before accepting it?

Call the '%s' tool with the result.`, verifyValueToolName)

	return []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(types.FormatTurnRequest(req)),
	}, nil
}
