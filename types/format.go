package types

import (
	"fmt"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
)

func formatCollectedSection(entries []CollectedEntry) string {
	if len(entries) == 0 {
		return ""
	}
	var buf strings.Builder
	buf.WriteString("# Collected so far:\n")
	table := tablewriter.NewTable(&buf, tablewriter.WithRenderer(renderer.NewMarkdown()))
	table.Header("Field", "Value", "Confidence")
	for _, e := range entries {
		if e.Result == nil {
			continue
		}
		_ = table.Append(e.FieldID, fmt.Sprintf("%v", e.Result.Value), fmt.Sprintf("%.2f", e.Result.Confidence))
	}
	_ = table.Render()
	return buf.String()
}

func formatErrorsSection(errs []string) string {
	if len(errs) == 0 {
		return ""
	}
	var buf strings.Builder
	buf.WriteString("# Validation errors:\n")
	for _, e := range errs {
		buf.WriteString("- ")
		buf.WriteString(e)
		buf.WriteString("\n")
	}
	return strings.TrimRight(buf.String(), "\n")
}

// FormatTurnRequest renders the turn context as markdown for oracle prompts.
func FormatTurnRequest(req *TurnRequest) string {
	sections := []string{
		fmt.Sprintf("# Current Date:\n%s", time.Now().Format(time.RFC3339)),
	}
	if f := req.Field; f != nil {
		var buf strings.Builder
		buf.WriteString("# Field being collected:\n")
		table := tablewriter.NewTable(&buf, tablewriter.WithRenderer(renderer.NewMarkdown()))
		table.Header("ID", "Type", "Label", "Required", "Description")
		_ = table.Append(f.ID, string(f.Type), f.Label, fmt.Sprintf("%t", f.Required), f.Description)
		_ = table.Render()
		sections = append(sections, buf.String())
		if len(f.Options) > 0 {
			sections = append(sections, fmt.Sprintf("# Allowed options:\n- %s", strings.Join(f.Options, "\n- ")))
		}
	}
	if req.Question != "" || req.RawInput != "" {
		dialogue := []string{"# Latest Dialogue:"}
		if req.Question != "" {
			dialogue = append(dialogue, fmt.Sprintf("## Assistant Question:\n%s", req.Question))
		}
		if req.RawInput != "" {
			dialogue = append(dialogue, fmt.Sprintf("## User Answer:\n%s", req.RawInput))
		}
		sections = append(sections, strings.Join(dialogue, "\n"))
	}
	if req.Attempt > 0 {
		sections = append(sections, fmt.Sprintf("# Clarification attempt:\n%d of %d", req.Attempt, req.MaxTries))
	}
	if s := formatErrorsSection(req.Errors); s != "" {
		sections = append(sections, s)
	}
	if s := formatCollectedSection(req.Collected); s != "" {
		sections = append(sections, s)
	}
	return strings.Join(sections, "\n\n")
}

// SummarizeCollected renders collected values as a compact one-line context.
func SummarizeCollected(entries []CollectedEntry) string {
	if len(entries) == 0 {
		return "No previous responses."
	}
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Result == nil {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %v", e.FieldID, e.Result.Value))
	}
	return strings.Join(parts, "; ")
}
