package feature

import (
	"errors"
	"fmt"
)

// Check identifies which resolver check rejected an identifier.
type Check string

const (
	CheckTraversal         Check = "traversal"
	CheckWhitelist         Check = "whitelist"
	CheckLength            Check = "length"
	CheckResidualTraversal Check = "residual-traversal"
	CheckShellMeta         Check = "shell-metacharacter"
	CheckEscape            Check = "base-escape"
)

// SecurityError reports a rejected feature identifier. Detail is a fixed
// description of the failed check; it never echoes the rejected input or
// any absolute path, so it is safe to surface to callers.
type SecurityError struct {
	Check  Check
	Detail string
}

func (e *SecurityError) Error() string {
	return fmt.Sprintf("feature name rejected (%s): %s", e.Check, e.Detail)
}

// IsSecurityError reports whether err wraps a SecurityError.
func IsSecurityError(err error) bool {
	var se *SecurityError
	return errors.As(err, &se)
}
