package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// FormatKind is a closed set of field rendering strategies. Operators can
// reorder, disable, or reconfigure fields through the YAML config, but only
// these four kinds exist; there is no runtime code evaluation.
type FormatKind string

const (
	// FormatText renders the value as a plain string.
	FormatText FormatKind = "text"
	// FormatList renders a list as bullet points.
	FormatList FormatKind = "list"
	// FormatStructured renders maps or lists of maps in "Key: Value" or
	// "first (second, third)" style using ExtractFields.
	FormatStructured FormatKind = "structured"
	// FormatDynamic renders a teacher-keyed comment map, selecting the
	// requesting teacher's entries.
	FormatDynamic FormatKind = "dynamic"
)

// FieldConfig describes how one profile field is rendered.
type FieldConfig struct {
	Field         string     `yaml:"field"`
	DisplayName   string     `yaml:"display_name"`
	Enabled       *bool      `yaml:"enabled"`
	Format        FormatKind `yaml:"format"`
	Fallback      string     `yaml:"fallback"`
	ListBullet    string     `yaml:"list_bullet"`
	MaxListItems  int        `yaml:"max_list_items"`
	ExtractFields []string   `yaml:"extract_fields"`
}

func (fc FieldConfig) enabled() bool { return fc.Enabled == nil || *fc.Enabled }

func (fc FieldConfig) bullet() string {
	if fc.ListBullet != "" {
		return fc.ListBullet
	}
	return "- "
}

func (fc FieldConfig) maxItems() int {
	if fc.MaxListItems > 0 {
		return fc.MaxListItems
	}
	return 10
}

// FormatConfig drives profile rendering for LLM prompts.
type FormatConfig struct {
	BasicInfo     []FieldConfig `yaml:"basic_info"`
	ProfileFields []FieldConfig `yaml:"profile_fields"`
	Formatting    struct {
		SectionSeparator string `yaml:"section_separator"`
	} `yaml:"formatting"`
}

// DefaultFormatConfig is the built-in rendering configuration, used when no
// YAML override is supplied.
func DefaultFormatConfig() FormatConfig {
	var cfg FormatConfig
	cfg.BasicInfo = []FieldConfig{
		{Field: "first_name", DisplayName: "First Name", Fallback: "Unknown"},
		{Field: "last_name", DisplayName: "Last Name"},
	}
	cfg.ProfileFields = []FieldConfig{
		{Field: "disabilities", DisplayName: "Disabilities", Format: FormatStructured, ExtractFields: []string{"name", "type"}, Fallback: "None listed"},
		{Field: "iep_goals", DisplayName: "IEP Goals", Format: FormatList, Fallback: "None listed"},
		{Field: "accommodations", DisplayName: "Accommodations", Format: FormatList, Fallback: "None listed"},
		{Field: "services", DisplayName: "Services", Format: FormatStructured, ExtractFields: []string{"type", "frequency", "start_date", "end_date"}, Fallback: "None listed"},
		{Field: "placement", DisplayName: "Placement", Format: FormatText, Fallback: "N/A"},
		{Field: "teacherComments", DisplayName: "Your Notes", Format: FormatDynamic, Fallback: "No comments yet"},
	}
	cfg.Formatting.SectionSeparator = "---"
	return cfg
}

// LoadFormatConfig reads a rendering configuration from a YAML file and
// validates it. Unknown format kinds are a configuration error, raised
// immediately rather than silently defaulting.
func LoadFormatConfig(path string) (FormatConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FormatConfig{}, fmt.Errorf("read format config: %w", err)
	}
	var cfg FormatConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return FormatConfig{}, fmt.Errorf("parse format config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return FormatConfig{}, err
	}
	return cfg, nil
}

// Validate checks that every configured field uses a recognized format kind.
func (c FormatConfig) Validate() error {
	for _, fc := range append(append([]FieldConfig{}, c.BasicInfo...), c.ProfileFields...) {
		switch fc.Format {
		case "", FormatText, FormatList, FormatStructured, FormatDynamic:
		default:
			return fmt.Errorf("field %q: unknown format kind %q", fc.Field, fc.Format)
		}
		if fc.Field == "" {
			return fmt.Errorf("format config entry missing field name")
		}
	}
	return nil
}

// Render formats a profile for inclusion in an LLM system prompt, honoring
// the field configuration. teacherID selects the entries of dynamic fields.
func Render(p Profile, cfg FormatConfig, teacherID string) string {
	fields := profileFields(p)

	var sections []string

	var basic []string
	for _, fc := range cfg.BasicInfo {
		value := fields[fc.Field]
		text := renderValue(value, fc, teacherID)
		basic = append(basic, fmt.Sprintf("%s: %s", fc.DisplayName, text))
	}
	if len(basic) > 0 {
		sections = append(sections, strings.Join(basic, "\n"))
	}

	for _, fc := range cfg.ProfileFields {
		if !fc.enabled() {
			continue
		}
		value := fields[fc.Field]
		if isEmptyValue(value) && fc.Fallback == "" {
			continue
		}
		sections = append(sections, fmt.Sprintf("**%s**\n%s", fc.DisplayName, renderValue(value, fc, teacherID)))
	}

	sep := cfg.Formatting.SectionSeparator
	if sep == "" {
		sep = "---"
	}
	return strings.Join(sections, "\n\n"+sep+"\n\n")
}

// profileFields exposes the profile as a generic field map so rendering is
// driven entirely by configuration data.
func profileFields(p Profile) map[string]any {
	data, err := json.Marshal(p)
	if err != nil {
		return map[string]any{}
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return map[string]any{}
	}
	return fields
}

func renderValue(value any, fc FieldConfig, teacherID string) string {
	if isEmptyValue(value) {
		if fc.Fallback != "" {
			return fc.Fallback
		}
		return "N/A"
	}

	switch fc.Format {
	case FormatList:
		return renderList(value, fc)
	case FormatStructured:
		return renderStructured(value, fc)
	case FormatDynamic:
		return renderDynamic(value, fc, teacherID)
	default:
		return fmt.Sprintf("%v", value)
	}
}

func renderList(value any, fc FieldConfig) string {
	items, ok := value.([]any)
	if !ok {
		return fc.bullet() + fmt.Sprintf("%v", value)
	}

	var lines []string
	for _, item := range items {
		if len(lines) >= fc.maxItems() {
			break
		}
		lines = append(lines, fc.bullet()+fmt.Sprintf("%v", item))
	}
	if len(lines) == 0 {
		return fc.Fallback
	}
	return strings.Join(lines, "\n")
}

func renderStructured(value any, fc FieldConfig) string {
	switch v := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			if len(fc.ExtractFields) > 0 && !contains(fc.ExtractFields, k) {
				continue
			}
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var lines []string
		for _, k := range keys {
			lines = append(lines, fmt.Sprintf("%s%s: %v", fc.bullet(), titleCase(k), v[k]))
		}
		if len(lines) == 0 {
			return fc.Fallback
		}
		return strings.Join(lines, "\n")

	case []any:
		var lines []string
		for _, item := range v {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			var parts []string
			for _, field := range fc.ExtractFields {
				if val, ok := m[field]; ok && !isEmptyValue(val) {
					parts = append(parts, fmt.Sprintf("%v", val))
				}
			}
			switch {
			case len(parts) > 1:
				lines = append(lines, fmt.Sprintf("%s%s (%s)", fc.bullet(), parts[0], strings.Join(parts[1:], ", ")))
			case len(parts) == 1:
				lines = append(lines, fc.bullet()+parts[0])
			}
		}
		if len(lines) == 0 {
			return fc.Fallback
		}
		return strings.Join(lines, "\n")
	}

	return fmt.Sprintf("%v", value)
}

func renderDynamic(value any, fc FieldConfig, teacherID string) string {
	m, ok := value.(map[string]any)
	if !ok || teacherID == "" {
		return fc.Fallback
	}
	entry, ok := m[teacherID]
	if !ok {
		return fc.Fallback
	}
	if comments, ok := entry.([]any); ok {
		var lines []string
		for _, c := range comments {
			lines = append(lines, fc.bullet()+fmt.Sprintf("%v", c))
		}
		return strings.Join(lines, "\n")
	}
	return fmt.Sprintf("%v", entry)
}

func isEmptyValue(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case []any:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	}
	return false
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func titleCase(s string) string {
	words := strings.Fields(strings.ReplaceAll(s, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
