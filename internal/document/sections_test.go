package document

import (
	"strings"
	"testing"
)

func TestSplitSectionsBasic(t *testing.T) {
	text := "REASON FOR REFERRAL\nStudent referred for reading difficulties.\n" +
		"INTERVIEWS\nParent reports struggles with homework.\n" +
		"CONCLUSION\nMeets criteria."

	sections := SplitSections(text, SectionLabels)

	if len(sections) != 3 {
		t.Fatalf("got %d sections, want 3: %v", len(sections), sections)
	}
	if got := Section(sections, "INTERVIEWS"); !strings.Contains(got, "Parent reports") {
		t.Errorf("INTERVIEWS = %q", got)
	}
	if got := Section(sections, "CONCLUSION"); !strings.HasPrefix(got, "CONCLUSION") {
		t.Errorf("section span should include its label line, got %q", got)
	}
	// A section ends where the next recognized label starts.
	if got := Section(sections, "REASON FOR REFERRAL"); strings.Contains(got, "Parent reports") {
		t.Errorf("REASON FOR REFERRAL bleeds into next section: %q", got)
	}
}

func TestSplitSectionsLastOccurrenceWins(t *testing.T) {
	text := "OBSERVATIONS\nfirst pass observation\n" +
		"CONCLUSION\nearly conclusion\n" +
		"OBSERVATIONS\nsecond pass observation"

	sections := SplitSections(text, SectionLabels)

	got := Section(sections, "OBSERVATIONS")
	if !strings.Contains(got, "second pass observation") {
		t.Errorf("want last occurrence to win, got %q", got)
	}
	if strings.Contains(got, "first pass") {
		t.Errorf("first occurrence should be overwritten, got %q", got)
	}
}

func TestSectionMissingLabel(t *testing.T) {
	sections := SplitSections("no recognizable labels here", SectionLabels)
	if got := Section(sections, "INTERVIEWS"); got != "" {
		t.Errorf("missing section should be empty, got %q", got)
	}
	if got := Section(sections, "NOT A REAL LABEL"); got != "" {
		t.Errorf("unknown label should be empty, got %q", got)
	}
}

func TestSplitSectionsKeyNormalization(t *testing.T) {
	text := "INTERVIEWS\ncontent"
	sections := SplitSections(text, []string{"INTERVIEWS"})
	if _, ok := sections["INTERVIEWS"]; !ok {
		t.Fatalf("expected upper-cased trimmed key, got %v", sections)
	}
	// Lookup is case-insensitive through Section.
	if got := Section(sections, "  interviews "); got == "" {
		t.Error("Section should normalize the lookup label")
	}
}
