package checklist

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"quantumreview/pkg/llmprovider"
	"quantumreview/pkg/log"
)

const generateSystemPrompt = `You are a QA analyst. Given a GitHub issue, produce acceptance checklist items.
Respond with a strict JSON array only, no prose, no markdown fences. Each element:
{"id": "C1", "text": "...", "required": true, "category": "functional", "priority": "high"}
Rules:
- id values are C1, C2, ... in order
- text is a single testable statement
- priority is one of: high, medium, low
- category is a short lowercase word
- mark items optional (required=false) only when the issue says so`

var knownPriorities = map[string]bool{"high": true, "medium": true, "low": true}

// llmClient is the slice of the provider manager the generator needs.
type llmClient interface {
	GenerateContent(ctx context.Context, req *llmprovider.Request) (*llmprovider.Response, error)
}

// Generator derives checklist items from issue content. The LLM is the
// primary path; the markdown extractor covers LLM failure and issues whose
// bodies already carry explicit criteria the model returned nothing for.
type Generator struct {
	llm llmClient
	l   log.Logger
}

func NewGenerator(llm llmClient, l log.Logger) *Generator {
	return &Generator{llm: llm, l: l}
}

// Generate returns checklist drafts for the issue, or
// ErrChecklistGenerationFailed when both paths come up empty.
func (g *Generator) Generate(ctx context.Context, title, body string, labels []string) ([]ItemDraft, error) {
	items := g.fromLLM(ctx, title, body, labels)
	if len(items) == 0 {
		g.l.Warnf(ctx, "checklist.Generator: LLM path empty, falling back to markdown extraction")
		items = ExtractAcceptanceCriteria(body)
	}
	if len(items) == 0 {
		return nil, ErrChecklistGenerationFailed
	}
	return items, nil
}

func (g *Generator) fromLLM(ctx context.Context, title, body string, labels []string) []ItemDraft {
	prompt := fmt.Sprintf("Issue title: %s\n\nLabels: %s\n\nIssue body:\n%s",
		title, strings.Join(labels, ", "), body)

	resp, err := g.llm.GenerateContent(ctx, &llmprovider.Request{
		SystemInstruction: generateSystemPrompt,
		Messages:          []llmprovider.Message{{Role: "user", Text: prompt}},
		Temperature:       0.2,
		MaxTokens:         2048,
	})
	if err != nil {
		g.l.Warnf(ctx, "checklist.Generator: LLM call failed: %v", err)
		return nil
	}

	var raw []struct {
		ID       string `json:"id"`
		Text     string `json:"text"`
		Required *bool  `json:"required"`
		Category string `json:"category"`
		Priority string `json:"priority"`
	}
	if err := json.Unmarshal([]byte(llmprovider.CleanJSON(resp.Text)), &raw); err != nil {
		g.l.Warnf(ctx, "checklist.Generator: malformed LLM JSON from %s: %v", resp.ProviderName, err)
		return nil
	}

	var items []ItemDraft
	seen := make(map[string]bool)
	for _, entry := range raw {
		id := strings.TrimSpace(entry.ID)
		text := strings.TrimSpace(entry.Text)
		priority := strings.ToLower(strings.TrimSpace(entry.Priority))
		switch {
		case id == "" || text == "":
			g.l.Warnf(ctx, "checklist.Generator: dropping item with empty id or text")
			continue
		case seen[id]:
			g.l.Warnf(ctx, "checklist.Generator: dropping duplicate item id %s", id)
			continue
		case priority != "" && !knownPriorities[priority]:
			g.l.Warnf(ctx, "checklist.Generator: dropping item %s with unknown priority %q", id, entry.Priority)
			continue
		}
		seen[id] = true

		required := true
		if entry.Required != nil {
			required = *entry.Required
		}
		items = append(items, ItemDraft{
			ID:       id,
			Text:     text,
			Required: required,
			Category: strings.ToLower(strings.TrimSpace(entry.Category)),
			Priority: priority,
		})
	}
	return items
}
