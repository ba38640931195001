package template

import (
	"fmt"
	"strings"
)

// Error reports a failed render: either the variable map left
// placeholders uncovered (Missing non-empty) or a supplied value was
// rejected (BadValue names the offending key).
type Error struct {
	Template string
	Missing  []string // sorted placeholder names with no value
	BadValue string   // key whose value failed validation
	Detail   string
}

func (e *Error) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("template %q: missing variables: %s", e.Template, strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("template %q: variable %q rejected: %s", e.Template, e.BadValue, e.Detail)
}
