package extract

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/intakekit/intake/form"
	"github.com/intakekit/intake/structured"
	"github.com/intakekit/intake/types"
)

const (
	extractValueToolName        = "extract_field_value"
	extractValueToolDescription = "Extract the typed value for the current form field from the user's answer."
)

type extractValueArgs struct {
	Value      any      `json:"value" jsonschema:"description=The extracted value in the field's type; null when nothing could be extracted"`
	Confidence float64  `json:"confidence" jsonschema:"required,description=Extraction confidence between 0.0 and 1.0"`
	Notes      []string `json:"notes,omitempty" jsonschema:"description=Observations about ambiguity or uncertainty in the answer"`
}

// ToolBasedExtractor asks the oracle to produce the typed value. Malformed
// oracle output is an error so a Failback wrapper can fall through to the
// local extractor.
type ToolBasedExtractor struct {
	chain *structured.Chain[*types.TurnRequest, extractValueArgs]
}

func NewToolBasedExtractor(chatModel model.ToolCallingChatModel, timeout time.Duration) (*ToolBasedExtractor, error) {
	chain, err := structured.NewChain[*types.TurnRequest, extractValueArgs](
		chatModel,
		buildExtractValuePrompt,
		extractValueToolName,
		extractValueToolDescription,
		timeout,
	)
	if err != nil {
		return nil, err
	}
	return &ToolBasedExtractor{chain: chain}, nil
}

func (e *ToolBasedExtractor) Extract(ctx context.Context, req *types.TurnRequest) (*types.Collected, error) {
	result, err := e.chain.Invoke(ctx, req)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, fmt.Errorf("empty result returned by %s", extractValueToolName)
	}
	value, err := coerceValue(result.Value, req.Field)
	if err != nil {
		return nil, err
	}
	conf := result.Confidence
	if conf < 0 || conf > 1 {
		return nil, fmt.Errorf("confidence %v out of range", conf)
	}
	return &types.Collected{
		Value:      value,
		RawInput:   req.RawInput,
		Confidence: conf,
		Method:     types.StrategyQuality,
		Notes:      result.Notes,
	}, nil
}

// coerceValue rejects oracle output whose type does not fit the field, so
// the deterministic fallback takes over instead of storing garbage.
func coerceValue(v any, f *form.Field) (any, error) {
	if v == nil || f == nil {
		return v, nil
	}
	switch f.Type {
	case form.TypeNumber:
		switch n := v.(type) {
		case float64:
			return n, nil
		case int:
			return float64(n), nil
		default:
			return nil, fmt.Errorf("oracle returned %T for number field", v)
		}
	case form.TypeBoolean:
		if b, ok := v.(bool); ok {
			return b, nil
		}
		return nil, fmt.Errorf("oracle returned %T for boolean field", v)
	default:
		if s, ok := v.(string); ok {
			return s, nil
		}
		return nil, fmt.Errorf("oracle returned %T for %s field", v, f.Type)
	}
}

func buildExtractValuePrompt(ctx context.Context, req *types.TurnRequest) ([]*schema.Message, error) {
	systemPrompt := fmt.Sprintf(`You are an assistant for a form-filling robot. Extract the value for the current field from the user's latest answer.

Rules:
- Return the value in the field's declared type (string, number, or boolean).
- For select fields, return exactly one of the allowed options.
- Return null when the answer contains no usable value.
- Report a confidence between 0.0 and 1.0 reflecting how certain the extraction is.
- Add notes for any ambiguity, hedging, or uncertainty you observe.

Call the '%s' tool with the result.`, extractValueToolName)

	return []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(types.FormatTurnRequest(req)),
	}, nil
}
