package modifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/k12coteacher/coteacher/internal/document"
	"github.com/k12coteacher/coteacher/internal/extraction"
	"github.com/k12coteacher/coteacher/internal/llm"
	"github.com/k12coteacher/coteacher/internal/logger"
	"github.com/k12coteacher/coteacher/internal/profile"
)

// Need is one identified disability or impairment together with the
// instructional needs and recommended modifications supporting it.
type Need struct {
	Type                     string   `json:"type"`
	Name                     string   `json:"name"`
	AssociatedNeeds          []string `json:"associated_needs"`
	RecommendedModifications []string `json:"recommended_modifications"`
}

type needsResult struct {
	Identified []Need `json:"identified_disabilities_or_impairments"`
}

// Generator drives the two-stage lesson modification pipeline.
type Generator struct {
	provider  llm.Provider
	log       *logger.Logger
	maxTokens int
}

// NewGenerator builds a Generator with pipeline defaults.
func NewGenerator(p llm.Provider, log *logger.Logger) *Generator {
	if log == nil {
		log = logger.Nop()
	}
	return &Generator{provider: p, log: log, maxTokens: 5000}
}

// needsSections are the report sections the analysis call reads. A section
// missing from the report is passed as an empty block, never an error.
var needsSections = []string{
	"INTERVIEWS",
	"OBSERVATIONS",
	"CONCLUSION",
	"ELIGIBILITY RECOMMENDATIONS AND CONSIDERATIONS",
}

// IdentifyNeeds analyzes a psychological report's key sections and returns
// the disabilities or impairments it evidences, with associated needs and
// recommended modifications. Entries whose (type, name) fall outside the
// closed vocabularies are dropped.
func (g *Generator) IdentifyNeeds(ctx context.Context, reportText string) ([]Need, error) {
	sections := document.SplitSections(reportText, document.SectionLabels)

	prompt := extraction.Fill(needsPromptTemplate, map[string]string{
		"INTERVIEWS":   document.Section(sections, "INTERVIEWS"),
		"OBSERVATIONS": document.Section(sections, "OBSERVATIONS"),
		"CONCLUSION":   document.Section(sections, "CONCLUSION"),
		"ELIGIBILITY":  document.Section(sections, "ELIGIBILITY RECOMMENDATIONS AND CONSIDERATIONS"),
		"SLD_NAMES":    numberedList(profile.SpecificLearningDisabilityNames()),
		"OHI_NAMES":    numberedList(profile.OtherHealthImpairmentNames()),
	})

	ctx = llm.WithPurpose(ctx, "identify-needs")
	resp, err := g.provider.Generate(ctx, llm.Request{
		Messages:  []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		Schema:    needsSchema(),
		MaxTokens: g.maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("identify needs: %w", err)
	}

	body, err := extraction.RecoverJSON(string(resp.Content))
	if err != nil {
		return nil, fmt.Errorf("identify needs: %w", err)
	}
	var result needsResult
	if err := json.Unmarshal([]byte(body), &result); err != nil {
		return nil, fmt.Errorf("identify needs: decode: %w", err)
	}

	var needs []Need
	for _, n := range result.Identified {
		d, ok := profile.NormalizeDisability(profile.Disability{Type: n.Type, Name: n.Name})
		if !ok {
			g.log.Warn("dropping unrecognized disability", "type", n.Type, "name", n.Name)
			continue
		}
		n.Type, n.Name = d.Type, d.Name
		needs = append(needs, n)
	}
	return needs, nil
}

// needsSchema constrains the analysis response shape. Name values are
// checked against the vocabularies after the call, not in the schema, so a
// near-miss surfaces as a dropped entry rather than a provider error.
func needsSchema() *llm.Schema {
	return &llm.Schema{
		Name: "identified-needs",
		Definition: map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"required":             []string{"identified_disabilities_or_impairments"},
			"properties": map[string]any{
				"identified_disabilities_or_impairments": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type":                 "object",
						"additionalProperties": false,
						"required":             []string{"type", "name", "associated_needs", "recommended_modifications"},
						"properties": map[string]any{
							"type": map[string]any{
								"type": "string",
								"enum": []string{
									profile.TypeSpecificLearningDisability,
									profile.TypeOtherHealthImpairment,
								},
							},
							"name": map[string]any{"type": "string"},
							"associated_needs": map[string]any{
								"type":  "array",
								"items": map[string]any{"type": "string"},
							},
							"recommended_modifications": map[string]any{
								"type":  "array",
								"items": map[string]any{"type": "string"},
							},
						},
					},
				},
			},
		},
	}
}

func numberedList(items []string) string {
	var b strings.Builder
	for i, item := range items {
		fmt.Fprintf(&b, "%d. %s\n", i+1, item)
	}
	return strings.TrimRight(b.String(), "\n")
}
