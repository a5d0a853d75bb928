package profile

// Disability is one identified disability or impairment. Valid only when
// Name belongs to the closed vocabulary for its Type (see allowlist.go).
type Disability struct {
	// Type is "specific_learning_disability" or "other_health_impairment".
	Type string `json:"type"`
	Name string `json:"name"`
}

// Service is one support service from an IEP. Deduplicated by full
// structural equality.
type Service struct {
	Type      string `json:"type"`
	Frequency string `json:"frequency"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

// Partial is one LLM extraction's contribution to a student's profile,
// scoped to one chunk or one document. Any field may be absent, since the
// model is instructed to omit unmentioned fields, and nothing here is
// trusted structurally until it passes through a merge.
type Partial struct {
	IEPGoals       []string          `json:"iep_goals,omitempty"`
	Accommodations []string          `json:"accommodations,omitempty"`
	LearningStyles []string          `json:"learning_styles,omitempty"`
	Services       []Service         `json:"services,omitempty"`
	Placement      string            `json:"placement,omitempty"`
	Disabilities   []Disability      `json:"disabilities,omitempty"`
	Interviews     map[string]string `json:"interviews,omitempty"`
	Observations   map[string]string `json:"observations,omitempty"`
	FirstName      string            `json:"first_name,omitempty"`
	LastName       string            `json:"last_name,omitempty"`
	StudentID      string            `json:"student_id,omitempty"`
}

// Envelope is the LLM response contract: a Partial under the fixed
// top-level key.
type Envelope struct {
	StudentProfilePartial Partial `json:"student_profile_partial"`
}

// Profile promotes a merged partial to a full profile. Used when one
// document is the only source, as with a standalone IEP extraction.
func (p Partial) Profile() Profile {
	return Profile{
		StudentID:      p.StudentID,
		FirstName:      p.FirstName,
		LastName:       p.LastName,
		Disabilities:   p.Disabilities,
		IEPGoals:       p.IEPGoals,
		Accommodations: p.Accommodations,
		LearningStyles: p.LearningStyles,
		Services:       p.Services,
		Placement:      p.Placement,
		Interviews:     p.Interviews,
		Observations:   p.Observations,
	}
}

// Profile is the canonical merged student profile, built once per student
// per extraction run. Write-once from the pipeline's perspective; the chat
// loop appends only to TeacherComments through the explicit mutation tool.
type Profile struct {
	StudentID      string            `json:"student_id"`
	FirstName      string            `json:"first_name"`
	LastName       string            `json:"last_name"`
	Disabilities   []Disability      `json:"disabilities"`
	IEPGoals       []string          `json:"iep_goals"`
	Accommodations []string          `json:"accommodations"`
	LearningStyles []string          `json:"learning_styles"`
	Services       []Service         `json:"services"`
	Placement      string            `json:"placement"`
	Interviews     map[string]string `json:"interviews"`
	Observations   map[string]string `json:"observations"`

	// TeacherComments maps teacher id to that teacher's appended notes.
	TeacherComments map[string][]string `json:"teacherComments,omitempty"`
}
