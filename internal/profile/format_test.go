package profile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testProfile() Profile {
	return Profile{
		StudentID:      "s-1",
		FirstName:      "Mai",
		LastName:       "Nguyen",
		Disabilities:   []Disability{{Type: "specific_learning_disability", Name: "dyslexia"}},
		IEPGoals:       []string{"Improve decoding accuracy"},
		Accommodations: []string{"Extended time", "Text to speech"},
		Services:       []Service{{Type: "Speech Therapy", Frequency: "1x/week"}},
		Placement:      "General Education 80% or more",
		TeacherComments: map[string][]string{
			"teacher-1": {"Responds well to visual schedules"},
		},
	}
}

func TestRenderDefaultConfig(t *testing.T) {
	out := Render(testProfile(), DefaultFormatConfig(), "teacher-1")

	for _, want := range []string{
		"First Name: Mai",
		"Last Name: Nguyen",
		"**Disabilities**",
		"- dyslexia (specific_learning_disability)",
		"- Improve decoding accuracy",
		"- Speech Therapy (1x/week)",
		"General Education 80% or more",
		"- Responds well to visual schedules",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered profile missing %q:\n%s", want, out)
		}
	}
}

func TestRenderDynamicFieldOtherTeacher(t *testing.T) {
	out := Render(testProfile(), DefaultFormatConfig(), "teacher-2")
	if strings.Contains(out, "visual schedules") {
		t.Error("another teacher's comments leaked into rendering")
	}
	if !strings.Contains(out, "No comments yet") {
		t.Errorf("expected dynamic fallback, got:\n%s", out)
	}
}

func TestRenderFallbacks(t *testing.T) {
	out := Render(Profile{LastName: "Solo"}, DefaultFormatConfig(), "")
	if !strings.Contains(out, "First Name: Unknown") {
		t.Errorf("missing basic-info fallback:\n%s", out)
	}
	if !strings.Contains(out, "None listed") {
		t.Errorf("missing list fallback:\n%s", out)
	}
}

func TestRenderListLimit(t *testing.T) {
	p := Profile{}
	for i := 0; i < 20; i++ {
		p.Accommodations = append(p.Accommodations, "accommodation")
	}
	cfg := FormatConfig{
		ProfileFields: []FieldConfig{
			{Field: "accommodations", DisplayName: "Accommodations", Format: FormatList, MaxListItems: 3},
		},
	}
	out := Render(p, cfg, "")
	if got := strings.Count(out, "- accommodation"); got != 3 {
		t.Errorf("got %d bullets, want 3", got)
	}
}

func TestLoadFormatConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "format.yaml")
	good := `
basic_info:
  - field: first_name
    display_name: First Name
profile_fields:
  - field: iep_goals
    display_name: Goals
    format: list
formatting:
  section_separator: "==="
`
	if err := os.WriteFile(path, []byte(good), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFormatConfig(path)
	if err != nil {
		t.Fatalf("LoadFormatConfig: %v", err)
	}
	if cfg.Formatting.SectionSeparator != "===" {
		t.Errorf("separator = %q", cfg.Formatting.SectionSeparator)
	}

	bad := `
profile_fields:
  - field: iep_goals
    display_name: Goals
    format: javascript
`
	if err := os.WriteFile(path, []byte(bad), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFormatConfig(path); err == nil {
		t.Fatal("expected error for unknown format kind")
	}
}

func TestStudentsData(t *testing.T) {
	profiles := []Profile{
		testProfile(),
		{FirstName: "", LastName: ""},
		{FirstName: "leo", LastName: "park", Accommodations: []string{"Frequent breaks"}},
	}

	data := StudentsData(profiles)

	if len(data) != 2 {
		t.Fatalf("got %d entries, want 2 (nameless profile skipped): %v", len(data), data)
	}
	mai, ok := data["Mai Nguyen"]
	if !ok {
		t.Fatalf("missing entry for Mai Nguyen: %v", data)
	}
	if len(mai.Disabilities) != 1 || mai.Disabilities[0] != "dyslexia" {
		t.Errorf("disabilities = %v", mai.Disabilities)
	}
	if _, ok := data["Leo Park"]; !ok {
		t.Errorf("names should be title-cased: %v", data)
	}
}
