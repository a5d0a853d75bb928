package extraction

import (
	"strings"

	"github.com/k12coteacher/coteacher/internal/profile"
)

// psychPromptTemplate analyzes one chunk of a psychological evaluation
// report. The {{CHUNK}} token is replaced with the chunk text; the
// disability name lists are filled in at init from the canonical
// vocabulary so the prompt and the merge filter cannot drift apart.
const psychPromptTemplate = `You are a special education document analyst reviewing a psychological evaluation report.

Extract structured information about the student. Only use details that are **explicitly stated** in this chunk.

Return the following fields under ` + "`student_profile_partial`" + `:

- ` + "`first_name`" + `: the student's first name, if stated
- ` + "`last_name`" + `: the student's last name, if stated
- ` + "`disabilities`" + `: list of identified disabilities, each with:
    * ` + "`type`" + `: either "specific_learning_disability" or "other_health_impairment"
    * ` + "`name`" + `: for specific_learning_disability, one of: {{SLD_NAMES}}
      for other_health_impairment, one of: {{OHI_NAMES}}
- ` + "`iep_goals`" + `: list of recommended annual goals
- ` + "`accommodations`" + `: list of recommended instructional or testing accommodations
- ` + "`learning_styles`" + `: list of learning preferences or styles if stated (optional)
- ` + "`interviews`" + `: object mapping the interviewee's role (e.g., "parent", "teacher", "student") to a summary of that interview
- ` + "`observations`" + `: object mapping the observer's role to a summary of that observation

Only include fields if clearly mentioned in this chunk.

Return only a valid JSON object with no markdown and no commentary.

{
"student_profile_partial": {
    "first_name": "...",
    "last_name": "...",
    "disabilities": [{"type": "specific_learning_disability", "name": "dyslexia"}],
    "iep_goals": ["..."],
    "accommodations": ["..."],
    "learning_styles": ["..."],
    "interviews": {"parent": "..."},
    "observations": {"school psychologist": "..."}
}
}

Here is the raw text:
---
{{CHUNK}}`

// iepPrompt analyzes one IEP page, delivered alongside the page as a
// document attachment. No chunk token: the page itself is the input.
const iepPrompt = `You are a special education document analyst reviewing an Individualized Education Program (IEP).

Extract structured information about the student's support plan. Only use details that are **explicitly stated** on this page.

Return the following fields under ` + "`student_profile_partial`" + `:

- ` + "`iep_goals`" + `: list of annual goals described in the IEP
- ` + "`accommodations`" + `: list of instructional or testing accommodations
- ` + "`learning_styles`" + `: list of learning preferences or styles if stated (optional)
- ` + "`services`" + `: list of services provided to the student, each with:
    * ` + "`type`" + ` (e.g., "Specialized Academic Instruction", "Speech Therapy")
    * ` + "`frequency`" + ` (e.g., "2x/week", "500 minutes weekly")
    * ` + "`start_date`" + ` (if available, YYYY-MM-DD)
    * ` + "`end_date`" + ` (if available, YYYY-MM-DD)
- ` + "`placement`" + `: overall description of the student's placement (e.g., "General Education 80% or more", "Special Day Class")

Only include fields if clearly mentioned on this page.

Return only a valid JSON object with no markdown and no commentary.

{
"student_profile_partial": {
    "iep_goals": ["..."],
    "accommodations": ["..."],
    "learning_styles": ["..."],
    "services": [
    {
        "type": "Speech and Language Services",
        "frequency": "1x/week for 30 minutes",
        "start_date": "2024-10-01",
        "end_date": "2025-06-01"
    }
    ],
    "placement": "General Education 80% or more"
}
}`

// psychPromptFor fills the vocabulary tokens and the chunk text.
func psychPromptFor(chunkText string) string {
	return Fill(psychPromptTemplate, map[string]string{
		"SLD_NAMES": strings.Join(profile.SpecificLearningDisabilityNames(), ", "),
		"OHI_NAMES": strings.Join(profile.OtherHealthImpairmentNames(), ", "),
		"CHUNK":     chunkText,
	})
}
