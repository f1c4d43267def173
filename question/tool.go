package question

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
	composeQuestionToolName        = "compose_field_question"
	composeQuestionToolDescription = "Compose the next conversational question asking the user for one form field."
)

type composeQuestionArgs struct {
	Question string `json:"question" jsonschema:"required,description=Natural friendly question asking for the field (1-2 sentences)"`
}

// ToolBasedQuestionGenerator asks the oracle for a contextual question.
type ToolBasedQuestionGenerator struct {
	chain *structured.Chain[*types.TurnRequest, composeQuestionArgs]
}

func NewToolBasedQuestionGenerator(chatModel model.ToolCallingChatModel, timeout time.Duration) (*ToolBasedQuestionGenerator, error) {
	chain, err := structured.NewChain[*types.TurnRequest, composeQuestionArgs](
		chatModel,
		buildComposeQuestionPrompt,
		composeQuestionToolName,
		composeQuestionToolDescription,
		timeout,
	)
	if err != nil {
		return nil, err
	}
	return &ToolBasedQuestionGenerator{chain: chain}, nil
}

func (g *ToolBasedQuestionGenerator) GenerateQuestion(ctx context.Context, req *types.TurnRequest) (string, error) {
	result, err := g.chain.Invoke(ctx, req)
	if err != nil {
		return "", err
	}
	if result == nil || result.Question == "" {
		return "", fmt.Errorf("empty question returned by %s", composeQuestionToolName)
	}
	return result.Question, nil
}

func buildComposeQuestionPrompt(ctx context.Context, req *types.TurnRequest) ([]*schema.Message, error) {
	systemPrompt := fmt.Sprintf(`You are a friendly assistant collecting one form field at a time through conversation.

Compose a natural question asking the user for the field described below.

Requirements:
- Sound natural and friendly, never robotic.
- Include a format hint if it helps (email format, date format, the allowed options).
- Reference previously collected answers when relevant.
- Keep it concise, 1-2 sentences.

Call the '%s' tool with the result.

Previous answers: %s`, composeQuestionToolName, types.SummarizeCollected(req.Collected))

	return []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(types.FormatTurnRequest(req)),
	}, nil
}
