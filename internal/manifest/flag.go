package manifest

import (
	"fmt"
	"strings"
)

// ParseBool accepts "true" or "false" in any case. Anything else fails with
// ErrInvalidFlag rather than defaulting.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q", ErrInvalidFlag, s)
	}
}
