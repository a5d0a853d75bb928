package extraction

import "strings"

// Fill substitutes {{NAME}} tokens in tmpl with values from vars. The scan
// runs over the template text only, so tokens appearing inside replacement
// values are emitted literally rather than expanded. Unknown tokens are
// left in place.
func Fill(tmpl string, vars map[string]string) string {
	var b strings.Builder
	for {
		start := strings.Index(tmpl, "{{")
		if start < 0 {
			b.WriteString(tmpl)
			return b.String()
		}
		end := strings.Index(tmpl[start+2:], "}}")
		if end < 0 {
			b.WriteString(tmpl)
			return b.String()
		}

		b.WriteString(tmpl[:start])
		name := tmpl[start+2 : start+2+end]
		if val, ok := vars[name]; ok {
			b.WriteString(val)
		} else {
			b.WriteString(tmpl[start : start+2+end+2])
		}
		tmpl = tmpl[start+2+end+2:]
	}
}
