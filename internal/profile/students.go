package profile

import "strings"

// StudentSummary is the lightweight per-student view exposed to the general
// chat prompt so the model can resolve names without full profiles.
type StudentSummary struct {
	Disabilities   []string `json:"disabilities"`
	Accommodations []string `json:"accommodations"`
}

// StudentsData maps full student names to summaries of their disabilities
// and accommodations. Students without a usable name are skipped.
func StudentsData(profiles []Profile) map[string]StudentSummary {
	out := make(map[string]StudentSummary, len(profiles))
	for _, p := range profiles {
		name := strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName))
		if name == "" {
			continue
		}
		var disabilities []string
		for _, d := range p.Disabilities {
			if d.Name != "" {
				disabilities = append(disabilities, d.Name)
			}
		}
		out[titleCase(name)] = StudentSummary{
			Disabilities:   disabilities,
			Accommodations: p.Accommodations,
		}
	}
	return out
}
