package document

import (
	"sort"
	"strings"
)

// SectionLabels is the fixed label vocabulary of psychoeducational reports.
// Labels are matched literally against extracted report text.
var SectionLabels = []string{
	"REASON FOR REFERRAL",
	"ASSESSMENT TOOLS",
	"ASSESSMENT GUIDELINES AND CONSIDERATIONS",
	"BACKGROUND INFORMATION",
	"DEVELOPMENT, HEARING, AND VISION",
	"PREVIOUS ASSESSMENTS",
	"CURRENT PLACEMENT/GOALS/SUPPLEMENTARY AIDS/RELATED SERVICES",
	"INTERVENTIONS",
	"INTERVIEWS",
	"OBSERVATIONS",
	"ASSESSMENT INFORMATION",
	"SCORING GUIDELINES",
	"OVERALL COGNITIVE SKILLS",
	"PROCESSING SKILLS",
	"SOCIAL-EMOTIONAL, BEHAVIORAL, AND ADAPTIVE SKILLS",
	"ORAL LANGUAGE ASSESSMENT",
	"ACADEMIC SKILLS",
	"CONCLUSION",
	"ELIGIBILITY RECOMMENDATIONS AND CONSIDERATIONS",
}

// labelMatch is one occurrence of a label in the document.
type labelMatch struct {
	start int
	label string
}

// SplitSections partitions text into named sections. Each section's span
// runs from a label occurrence (label line included) to the start of the
// next recognized label, or end of text. Keys are the matched labels,
// upper-cased and trimmed. When a label occurs more than once, the later
// occurrence's span overwrites the earlier one (map semantics, last write
// wins) since downstream consumers assume a single span per label.
//
// A label absent from the document yields no entry; callers must treat a
// missing section as empty, not as an error.
func SplitSections(text string, labels []string) map[string]string {
	var matches []labelMatch
	for _, label := range labels {
		if label == "" {
			continue
		}
		from := 0
		for {
			idx := strings.Index(text[from:], label)
			if idx < 0 {
				break
			}
			matches = append(matches, labelMatch{start: from + idx, label: label})
			from += idx + len(label)
		}
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].start < matches[j].start })

	sections := make(map[string]string, len(matches))
	for i, m := range matches {
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1].start
		}
		key := strings.ToUpper(strings.TrimSpace(m.label))
		sections[key] = strings.TrimSpace(text[m.start:end])
	}

	return sections
}

// Section returns the named section's text, or "" when the label was not
// found in the document.
func Section(sections map[string]string, label string) string {
	return sections[strings.ToUpper(strings.TrimSpace(label))]
}
