package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/k12coteacher/coteacher/internal/llm"
	"github.com/k12coteacher/coteacher/internal/logger"
)

func TestRecoverJSON(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{
			name: "clean object",
			raw:  `{"a":1}`,
			want: `{"a":1}`,
		},
		{
			name: "prose around object",
			raw:  "Here is the JSON you asked for:\n```json\n{\"a\":1}\n```\nHope that helps!",
			want: `{"a":1}`,
		},
		{
			name: "nested braces kept",
			raw:  `prefix {"a":{"b":2}} suffix`,
			want: `{"a":{"b":2}}`,
		},
		{
			name:    "no object",
			raw:     "sorry, I cannot do that",
			wantErr: true,
		},
		{
			name:    "reversed braces",
			raw:     "} {",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RecoverJSON(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("RecoverJSON: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractPartial(t *testing.T) {
	body := `Sure! Here is the extraction:
{"student_profile_partial": {"first_name": "Mai", "iep_goals": ["Improve decoding"]}}`
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(body)})
	c := NewClient(mock, logger.Nop())

	partial, err := c.extractPartial(context.Background(), 1, []llm.Message{
		{Role: llm.RoleUser, Content: "prompt"},
	})
	if err != nil {
		t.Fatalf("extractPartial: %v", err)
	}
	if partial.FirstName != "Mai" {
		t.Errorf("FirstName = %q", partial.FirstName)
	}
	if len(partial.IEPGoals) != 1 || partial.IEPGoals[0] != "Improve decoding" {
		t.Errorf("IEPGoals = %v", partial.IEPGoals)
	}
}

func TestExtractPartialParseError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage("no json here at all")})
	c := NewClient(mock, logger.Nop())

	_, err := c.extractPartial(context.Background(), 3, nil)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("want ParseError, got %v", err)
	}
	if pe.Unit != 3 {
		t.Errorf("Unit = %d, want 3", pe.Unit)
	}
	if !strings.Contains(pe.Raw, "no json") {
		t.Errorf("Raw should carry the response, got %q", pe.Raw)
	}
}

func TestPsychPromptIncludesVocabularyAndChunk(t *testing.T) {
	prompt := psychPromptFor("THE CHUNK TEXT")
	for _, want := range []string{
		"dyslexia",
		"tourette syndrome",
		"THE CHUNK TEXT",
		"student_profile_partial",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if strings.Contains(prompt, "{{") {
		t.Errorf("unsubstituted token left in prompt")
	}
}
