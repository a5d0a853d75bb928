package modifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/k12coteacher/coteacher/internal/extraction"
	"github.com/k12coteacher/coteacher/internal/llm"
)

// SynthesizeModifications produces the categorized modification text for a
// lesson plan given every student's identified needs. The response is
// structurally validated; an invalid shape is an ErrInvalidResponse so the
// retry layer gets one corrective attempt.
func (g *Generator) SynthesizeModifications(ctx context.Context, lessonText string, studentNeeds [][]Need) (string, error) {
	var blocks []string
	for _, needs := range studentNeeds {
		data, err := json.MarshalIndent(needsResult{Identified: needs}, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encode student needs: %w", err)
		}
		blocks = append(blocks, string(data))
	}

	prompt := extraction.Fill(synthesisPromptTemplate, map[string]string{
		"LESSON":       lessonText,
		"STUDENT_DATA": strings.Join(blocks, "\n"),
	})

	ctx = llm.WithPurpose(ctx, "synthesize-modifications")
	resp, err := g.provider.Generate(ctx, llm.Request{
		Messages:  []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		MaxTokens: g.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("synthesize modifications: %w", err)
	}

	text := strings.TrimSpace(string(resp.Content))
	if err := ValidateModifications(text); err != nil {
		return "", &llm.ErrInvalidResponse{Content: resp.Content, Err: err}
	}
	return text, nil
}

// ComposePlan builds the final artifact: the unchanged original lesson
// text, a newline, then the modification section.
func ComposePlan(lessonText, modifications string) string {
	return lessonText + "\n" + modifications
}
