package extract

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/intakekit/intake/form"
	"github.com/intakekit/intake/types"
)

// failingChatModel simulates an unavailable oracle.
type failingChatModel struct{}

func (m *failingChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	return nil, errors.New("oracle unavailable")
}

func (m *failingChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("oracle unavailable")
}

func (m *failingChatModel) WithTools(tools []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	return m, nil
}

// scriptedChatModel answers every Generate with a fixed tool call payload.
type scriptedChatModel struct {
	arguments string
}

func (m *scriptedChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	return &schema.Message{
		Role: schema.Assistant,
		ToolCalls: []schema.ToolCall{
			{Function: schema.FunctionCall{Name: extractValueToolName, Arguments: m.arguments}},
		},
	}, nil
}

func (m *scriptedChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("stream not scripted")
}

func (m *scriptedChatModel) WithTools(tools []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	return m, nil
}

func TestToolExtractorParsesOracleOutput(t *testing.T) {
	t.Parallel()
	ex, err := NewToolBasedExtractor(&scriptedChatModel{
		arguments: `{"value": 30, "confidence": 0.95, "notes": ["user was confident"]}`,
	}, time.Second)
	if err != nil {
		t.Fatalf("create extractor: %v", err)
	}

	res, err := ex.Extract(context.Background(), &types.TurnRequest{
		Field:    &form.Field{ID: "age", Type: form.TypeNumber},
		RawInput: "I'm thirty years old",
	})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if res.Value != 30.0 {
		t.Errorf("Value = %v, want 30", res.Value)
	}
	if res.Confidence != 0.95 {
		t.Errorf("Confidence = %v, want 0.95", res.Confidence)
	}
	if res.Method != types.StrategyQuality {
		t.Errorf("Method = %v, want quality", res.Method)
	}
	if len(res.Notes) != 1 {
		t.Errorf("Notes = %v", res.Notes)
	}
}

func TestToolExtractorRejectsWrongType(t *testing.T) {
	t.Parallel()
	ex, err := NewToolBasedExtractor(&scriptedChatModel{
		arguments: `{"value": "thirty", "confidence": 0.9}`,
	}, time.Second)
	if err != nil {
		t.Fatalf("create extractor: %v", err)
	}

	_, err = ex.Extract(context.Background(), &types.TurnRequest{
		Field:    &form.Field{ID: "age", Type: form.TypeNumber},
		RawInput: "thirty",
	})
	if err == nil {
		t.Fatal("expected type mismatch error so the fallback can take over")
	}
}

// The fallback is mandatory: with a dead oracle the quality path must yield
// exactly what the fast path yields for the same input.
func TestFailbackMatchesLocalWhenOracleDown(t *testing.T) {
	t.Parallel()
	tool, err := NewToolBasedExtractor(&failingChatModel{}, time.Second)
	if err != nil {
		t.Fatalf("create extractor: %v", err)
	}
	local := NewLocalExtractor()
	failback := NewFailbackExtractor(tool, local)

	req := &types.TurnRequest{
		Field:    &form.Field{ID: "name", Type: form.TypeText},
		RawInput: "  Alice Smith  ",
	}
	want, err := local.Extract(context.Background(), req)
	if err != nil {
		t.Fatalf("local extract: %v", err)
	}
	got, err := failback.Extract(context.Background(), req)
	if err != nil {
		t.Fatalf("failback extract: %v", err)
	}
	if got.Value != want.Value || got.Confidence != want.Confidence || got.Method != want.Method {
		t.Errorf("failback result %+v differs from local result %+v", got, want)
	}
}
