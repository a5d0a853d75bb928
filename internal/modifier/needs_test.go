package modifier

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/k12coteacher/coteacher/internal/llm"
	"github.com/k12coteacher/coteacher/internal/logger"
)

const testReport = `INTERVIEWS
Parent reports difficulty finishing homework.
OBSERVATIONS
Student loses focus during independent reading.
CONCLUSION
Results indicate a reading disorder.
ELIGIBILITY RECOMMENDATIONS AND CONSIDERATIONS
Student meets criteria for specific learning disability.`

func TestIdentifyNeeds(t *testing.T) {
	response := `{
		"identified_disabilities_or_impairments": [
			{
				"type": "specific_learning_disability",
				"name": "Dyslexia",
				"associated_needs": ["phonological_processing"],
				"recommended_modifications": ["provide decodable texts"]
			},
			{
				"type": "specific_learning_disability",
				"name": "general reading problems",
				"associated_needs": [],
				"recommended_modifications": []
			}
		]
	}`
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(response)})
	gen := NewGenerator(mock, logger.Nop())

	needs, err := gen.IdentifyNeeds(context.Background(), testReport)
	if err != nil {
		t.Fatalf("IdentifyNeeds: %v", err)
	}

	// The out-of-vocabulary entry is dropped, the valid one normalized.
	if len(needs) != 1 {
		t.Fatalf("got %d needs, want 1: %v", len(needs), needs)
	}
	if needs[0].Name != "dyslexia" {
		t.Errorf("Name = %q, want normalized %q", needs[0].Name, "dyslexia")
	}
	if len(needs[0].AssociatedNeeds) != 1 {
		t.Errorf("AssociatedNeeds = %v", needs[0].AssociatedNeeds)
	}

	// The prompt carries the report sections and the vocabularies.
	if mock.CallCount() != 1 {
		t.Fatalf("call count = %d", mock.CallCount())
	}
	prompt := mock.Calls[0].Messages[0].Content
	for _, want := range []string{
		"finishing homework",
		"independent reading",
		"reading disorder",
		"meets criteria",
		"dyscalculia",
		"medical fragility",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestIdentifyNeedsMissingSections(t *testing.T) {
	response := `{"identified_disabilities_or_impairments": []}`
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(response)})
	gen := NewGenerator(mock, logger.Nop())

	needs, err := gen.IdentifyNeeds(context.Background(), "text without any known section labels")
	if err != nil {
		t.Fatalf("a report without sections must not fail: %v", err)
	}
	if len(needs) != 0 {
		t.Errorf("needs = %v", needs)
	}
}

func TestSynthesizeModifications(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(validModifications)})
	gen := NewGenerator(mock, logger.Nop())

	needs := [][]Need{{{
		Type:                     "specific_learning_disability",
		Name:                     "dyslexia",
		AssociatedNeeds:          []string{"phonological_processing"},
		RecommendedModifications: []string{"provide decodable texts"},
	}}}

	out, err := gen.SynthesizeModifications(context.Background(), "the lesson text", needs)
	if err != nil {
		t.Fatalf("SynthesizeModifications: %v", err)
	}
	if !strings.HasPrefix(out, ModificationsHeading) {
		t.Errorf("output must start with the fixed heading, got %q", out[:40])
	}

	prompt := mock.Calls[0].Messages[0].Content
	if !strings.Contains(prompt, "the lesson text") {
		t.Error("prompt missing lesson text")
	}
	if !strings.Contains(prompt, "provide decodable texts") {
		t.Error("prompt missing student needs JSON")
	}
}

func TestSynthesizeModificationsRejectsMalformed(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage("Sure! Here are some ideas without the required structure."),
	})
	gen := NewGenerator(mock, logger.Nop())

	_, err := gen.SynthesizeModifications(context.Background(), "lesson", nil)
	var invalid *llm.ErrInvalidResponse
	if !errors.As(err, &invalid) {
		t.Fatalf("want ErrInvalidResponse, got %v", err)
	}
}
