package profile

import (
	"sort"
	"strings"
)

// Disability type identifiers used by the extraction schema.
const (
	TypeSpecificLearningDisability = "specific_learning_disability"
	TypeOtherHealthImpairment      = "other_health_impairment"
)

// allowedSpecificLearningDisabilities is the closed vocabulary for
// specific learning disability names, lowercase.
var allowedSpecificLearningDisabilities = map[string]struct{}{
	"dyslexia":                     {},
	"dysgraphia":                   {},
	"dyscalculia":                  {},
	"auditory processing disorder": {},
	"visual processing disorder":   {},
	"nonverbal learning disorder":  {},
	"executive functioning deficits": {},
}

// allowedOtherHealthImpairments is the closed vocabulary for other health
// impairment names, lowercase.
var allowedOtherHealthImpairments = map[string]struct{}{
	"chronic or acute health conditions":        {},
	"attention hyperactivity disorder (adhd)":   {},
	"tourette syndrome":                         {},
	"neurological disorders":                    {},
	"autoimmune disorders":                      {},
	"blood disorders":                           {},
	"chronic fatigue or energy limitations":     {},
	"mental health conditions":                  {},
	"medical fragility":                         {},
}

// NormalizeDisability trims and lowercases a candidate disability and
// reports whether it belongs to the allow-list for its type. Invalid or
// incomplete entries return ok=false and are silently dropped by callers.
func NormalizeDisability(d Disability) (Disability, bool) {
	name := strings.ToLower(strings.TrimSpace(d.Name))
	typ := strings.ToLower(strings.TrimSpace(d.Type))
	if name == "" || typ == "" {
		return Disability{}, false
	}

	switch typ {
	case TypeSpecificLearningDisability:
		if _, ok := allowedSpecificLearningDisabilities[name]; !ok {
			return Disability{}, false
		}
	case TypeOtherHealthImpairment:
		if _, ok := allowedOtherHealthImpairments[name]; !ok {
			return Disability{}, false
		}
	default:
		return Disability{}, false
	}

	return Disability{Type: typ, Name: name}, true
}

// SpecificLearningDisabilityNames returns the allow-listed names, for
// prompt construction.
func SpecificLearningDisabilityNames() []string {
	return sortedKeys(allowedSpecificLearningDisabilities)
}

// OtherHealthImpairmentNames returns the allow-listed names, for prompt
// construction.
func OtherHealthImpairmentNames() []string {
	return sortedKeys(allowedOtherHealthImpairments)
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
