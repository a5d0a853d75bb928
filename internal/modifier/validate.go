package modifier

import (
	"fmt"
	"strings"
)

// ModificationsHeading is the exact heading the modification section must
// begin with. Downstream consumers key on this string when splicing the
// section into documents.
const ModificationsHeading = "**Modifications for Diverse Learners**"

// requiredCategories must each appear with at least one bullet.
// Environment/Technology is conditional in the prompt, so it is optional.
var requiredCategories = []string{
	"Instruction:",
	"Materials:",
	"Assessment:",
	"Participation:",
}

const optionalCategory = "Environment/Technology"

// ValidateModifications checks the structural contract of a generated
// modification section: the fixed heading first, each required category
// present in order, and at least one bullet under every category that
// appears.
func ValidateModifications(text string) error {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, ModificationsHeading) {
		return fmt.Errorf("output must begin with %q", ModificationsHeading)
	}

	rest := trimmed[len(ModificationsHeading):]
	pos := 0
	for _, cat := range requiredCategories {
		idx := strings.Index(rest[pos:], cat)
		if idx < 0 {
			return fmt.Errorf("missing category %q", cat)
		}
		pos += idx + len(cat)
	}

	categories := append([]string{}, requiredCategories...)
	categories = append(categories, optionalCategory)
	for _, cat := range categories {
		if err := checkBullets(rest, cat); err != nil {
			return err
		}
	}
	return nil
}

// checkBullets verifies that a present category is followed by at least
// one "- " bullet before the next category starts.
func checkBullets(text, cat string) error {
	idx := strings.Index(text, cat)
	if idx < 0 {
		if cat == optionalCategory {
			return nil
		}
		return fmt.Errorf("missing category %q", cat)
	}

	section := text[idx+len(cat):]
	for _, line := range strings.Split(section, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if category(line) != "" {
			break
		}
		if strings.HasPrefix(line, "- ") {
			return nil
		}
	}
	return fmt.Errorf("category %q has no bullet points", cat)
}

// category reports which category label a line begins, or "".
func category(line string) string {
	for _, cat := range requiredCategories {
		if strings.HasPrefix(line, cat) {
			return cat
		}
	}
	if strings.HasPrefix(line, optionalCategory) {
		return optionalCategory
	}
	return ""
}
