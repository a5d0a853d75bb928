package profile

import (
	"sort"
	"strings"
)

// dedupKey normalizes a list entry for duplicate detection. All merge
// paths share one policy: case-insensitive, trimmed. (The original system
// deduplicated case-sensitively inside a document and case-insensitively
// across documents; the single policy is documented in DESIGN.md.)
func dedupKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// appendDeduped appends items to dst, skipping entries whose normalized
// key was already seen. First occurrence wins, original casing kept.
func appendDeduped(dst []string, seen map[string]struct{}, items []string) []string {
	for _, item := range items {
		key := dedupKey(item)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		dst = append(dst, item)
	}
	return dst
}

// MergeWithinDocument collapses the per-unit partials of a single document
// into one partial representing the whole document: goal and accommodation
// lists are deduplicated in first-seen order, services by full structural
// equality, and the longest placement description wins (equal or shorter
// candidates never overwrite).
func MergeWithinDocument(partials []Partial) Partial {
	merged := Partial{}
	seen := map[string]map[string]struct{}{
		"iep_goals":      {},
		"accommodations": {},
	}
	seenServices := map[Service]struct{}{}

	for _, p := range partials {
		merged.IEPGoals = appendDeduped(merged.IEPGoals, seen["iep_goals"], p.IEPGoals)
		merged.Accommodations = appendDeduped(merged.Accommodations, seen["accommodations"], p.Accommodations)

		for _, svc := range p.Services {
			if _, ok := seenServices[svc]; ok {
				continue
			}
			seenServices[svc] = struct{}{}
			merged.Services = append(merged.Services, svc)
		}

		if len(p.Placement) > len(merged.Placement) {
			merged.Placement = p.Placement
		}
	}

	return merged
}

// MergeDocumentPartials merges partial profiles across chunks or documents
// for the same student into one canonical profile:
//
//   - iep_goals, accommodations, learning_styles: deduplicated union,
//     sorted for determinism
//   - disabilities: allow-list validated, first occurrence per (type, name)
//     wins, order of first appearance preserved
//   - interviews, observations: first entry per role wins
//   - first_name, last_name, student_id: first non-empty wins
//
// Invalid or duplicate disability entries are silently dropped, never
// errored.
func MergeDocumentPartials(partials []Partial) Profile {
	merged := Profile{
		Interviews:   map[string]string{},
		Observations: map[string]string{},
	}

	listSeen := map[string]map[string]struct{}{
		"iep_goals":       {},
		"accommodations":  {},
		"learning_styles": {},
	}
	seenDisabilities := map[Disability]struct{}{}
	seenServices := map[Service]struct{}{}

	for _, p := range partials {
		if merged.FirstName == "" && p.FirstName != "" {
			merged.FirstName = p.FirstName
		}
		if merged.LastName == "" && p.LastName != "" {
			merged.LastName = p.LastName
		}
		if merged.StudentID == "" && p.StudentID != "" {
			merged.StudentID = p.StudentID
		}

		merged.IEPGoals = appendDeduped(merged.IEPGoals, listSeen["iep_goals"], p.IEPGoals)
		merged.Accommodations = appendDeduped(merged.Accommodations, listSeen["accommodations"], p.Accommodations)
		merged.LearningStyles = appendDeduped(merged.LearningStyles, listSeen["learning_styles"], p.LearningStyles)

		for role, text := range p.Interviews {
			if _, ok := merged.Interviews[role]; !ok {
				merged.Interviews[role] = text
			}
		}
		for role, text := range p.Observations {
			if _, ok := merged.Observations[role]; !ok {
				merged.Observations[role] = text
			}
		}

		for _, d := range p.Disabilities {
			normalized, ok := NormalizeDisability(d)
			if !ok {
				continue
			}
			if _, dup := seenDisabilities[normalized]; dup {
				continue
			}
			seenDisabilities[normalized] = struct{}{}
			merged.Disabilities = append(merged.Disabilities, normalized)
		}

		for _, svc := range p.Services {
			if _, ok := seenServices[svc]; ok {
				continue
			}
			seenServices[svc] = struct{}{}
			merged.Services = append(merged.Services, svc)
		}

		if len(p.Placement) > len(merged.Placement) {
			merged.Placement = p.Placement
		}
	}

	sort.Strings(merged.IEPGoals)
	sort.Strings(merged.Accommodations)
	sort.Strings(merged.LearningStyles)

	return merged
}

// MergeProfiles builds the final cross-document student profile. Identity
// fields, disabilities, learning styles, interviews, and observations come
// from the psychological-report profile; services and placement come from
// the IEP profile exclusively; goals and accommodations are the
// deduplicated union of both sources, IEP entries first.
func MergeProfiles(psych, iep Profile) Profile {
	goalSeen := map[string]struct{}{}
	goals := appendDeduped(nil, goalSeen, iep.IEPGoals)
	goals = appendDeduped(goals, goalSeen, psych.IEPGoals)

	accomSeen := map[string]struct{}{}
	accoms := appendDeduped(nil, accomSeen, iep.Accommodations)
	accoms = appendDeduped(accoms, accomSeen, psych.Accommodations)

	return Profile{
		StudentID:      psych.StudentID,
		FirstName:      psych.FirstName,
		LastName:       psych.LastName,
		IEPGoals:       goals,
		Accommodations: accoms,
		LearningStyles: psych.LearningStyles,
		Disabilities:   psych.Disabilities,
		Services:       iep.Services,
		Placement:      iep.Placement,
		Interviews:     psych.Interviews,
		Observations:   psych.Observations,
	}
}
