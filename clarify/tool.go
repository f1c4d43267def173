package clarify

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
	composeClarificationToolName        = "compose_clarification"
	composeClarificationToolDescription = "Compose a helpful clarification message after the user's answer failed validation."
)

type composeClarificationArgs struct {
	Message string `json:"message" jsonschema:"required,description=Friendly clarification explaining what was wrong and showing a correct example"`
}

// ToolBasedClarifyGenerator asks the oracle for a context-aware re-ask.
type ToolBasedClarifyGenerator struct {
	chain *structured.Chain[*types.TurnRequest, composeClarificationArgs]
}

func NewToolBasedClarifyGenerator(chatModel model.ToolCallingChatModel, timeout time.Duration) (*ToolBasedClarifyGenerator, error) {
	chain, err := structured.NewChain[*types.TurnRequest, composeClarificationArgs](
		chatModel,
		buildComposeClarificationPrompt,
		composeClarificationToolName,
		composeClarificationToolDescription,
		timeout,
	)
	if err != nil {
		return nil, err
	}
	return &ToolBasedClarifyGenerator{chain: chain}, nil
}

func (g *ToolBasedClarifyGenerator) GenerateClarification(ctx context.Context, req *types.TurnRequest) (string, error) {
	result, err := g.chain.Invoke(ctx, req)
	if err != nil {
		return "", err
	}
	if result == nil || result.Message == "" {
		return "", fmt.Errorf("empty message returned by %s", composeClarificationToolName)
	}
	return result.Message, nil
}

func buildComposeClarificationPrompt(ctx context.Context, req *types.TurnRequest) ([]*schema.Message, error) {
	systemPrompt := fmt.Sprintf(`You are a friendly assistant helping a user fix an answer that failed validation.

Requirements:
- Be friendly and helpful, not robotic.
- Explain clearly what was wrong with the answer.
- Give a specific example of a correct format.
- If this is not the first attempt, try a different explanation approach than before.
- Keep it concise.

Call the '%s' tool with the result.`, composeClarificationToolName)

	return []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(types.FormatTurnRequest(req)),
	}, nil
}
