package modifier

import (
	"strings"
	"testing"
)

const validModifications = `**Modifications for Diverse Learners**

Instruction:
- Break multi-step directions into single steps [dyslexia]
- Pre-teach key vocabulary [auditory processing disorder]

Materials:
- Provide guided notes with sentence starters [dysgraphia]

Assessment:
- Allow oral responses in place of written ones [dysgraphia]

Participation:
- Use structured turn-taking during discussion [adhd]

Environment/Technology (if applicable):
- Seat away from high-traffic areas [adhd]
`

func TestValidateModificationsAccepts(t *testing.T) {
	if err := ValidateModifications(validModifications); err != nil {
		t.Fatalf("valid text rejected: %v", err)
	}
}

func TestValidateModificationsOptionalCategoryAbsent(t *testing.T) {
	text := validModifications[:strings.Index(validModifications, "Environment/Technology")]
	if err := ValidateModifications(text); err != nil {
		t.Fatalf("text without optional category rejected: %v", err)
	}
}

func TestValidateModificationsRejects(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{
			name: "missing heading",
			text: "Instruction:\n- something",
		},
		{
			name: "prose before heading",
			text: "Here you go!\n" + validModifications,
		},
		{
			name: "missing required category",
			text: strings.Replace(validModifications, "Assessment:", "Grading:", 1),
		},
		{
			name: "category without bullets",
			text: "**Modifications for Diverse Learners**\n\nInstruction:\n\nMaterials:\n- item\n\nAssessment:\n- item\n\nParticipation:\n- item\n",
		},
		{
			name: "empty",
			text: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateModifications(tt.text); err == nil {
				t.Error("expected rejection")
			}
		})
	}
}

func TestComposePlan(t *testing.T) {
	got := ComposePlan("lesson text", validModifications)
	if !strings.HasPrefix(got, "lesson text\n**Modifications") {
		t.Errorf("plan = %q", got[:40])
	}
}
