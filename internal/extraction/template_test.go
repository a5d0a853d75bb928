package extraction

import "testing"

func TestFill(t *testing.T) {
	tests := []struct {
		name string
		tmpl string
		vars map[string]string
		want string
	}{
		{
			name: "basic substitution",
			tmpl: "Hello {{NAME}}, welcome to {{PLACE}}.",
			vars: map[string]string{"NAME": "Ada", "PLACE": "class"},
			want: "Hello Ada, welcome to class.",
		},
		{
			name: "unknown token kept literally",
			tmpl: "keep {{UNKNOWN}} as is",
			vars: map[string]string{"NAME": "Ada"},
			want: "keep {{UNKNOWN}} as is",
		},
		{
			name: "no recursive expansion",
			tmpl: "value: {{A}}",
			vars: map[string]string{"A": "{{B}}", "B": "never"},
			want: "value: {{B}}",
		},
		{
			name: "unterminated token",
			tmpl: "broken {{A",
			vars: map[string]string{"A": "x"},
			want: "broken {{A",
		},
		{
			name: "empty template",
			tmpl: "",
			vars: map[string]string{"A": "x"},
			want: "",
		},
		{
			name: "adjacent tokens",
			tmpl: "{{A}}{{B}}",
			vars: map[string]string{"A": "1", "B": "2"},
			want: "12",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Fill(tt.tmpl, tt.vars); got != tt.want {
				t.Errorf("Fill(%q) = %q, want %q", tt.tmpl, got, tt.want)
			}
		})
	}
}
