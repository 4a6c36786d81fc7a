package config

import (
	"errors"
	"fmt"
)

// Sentinel errors for secrets loading.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrSecretsNotFound indicates the secrets file does not exist or is not a readable file.
	ErrSecretsNotFound = errors.New("secrets file not found")

	// ErrMalformedSecrets indicates the secrets file exists but is not valid INI.
	ErrMalformedSecrets = errors.New("malformed secrets file")

	// ErrMissingSection indicates the requested section is absent from the secrets file.
	ErrMissingSection = errors.New("missing section")

	// ErrMissingKey indicates the section exists but does not define the key.
	ErrMissingKey = errors.New("missing key")

	// ErrEmptyValue indicates the key is defined but its value is blank.
	ErrEmptyValue = errors.New("empty value")
)

// SecretsError describes a failure to obtain a value from the secrets file.
// It never carries the secret value itself.
type SecretsError struct {
	Path    string
	Section string
	Key     string
	Err     error
}

// Error implements the error interface.
func (e *SecretsError) Error() string {
	switch {
	case e.Key != "":
		return fmt.Sprintf("secrets %s: [%s] %s: %v", e.Path, e.Section, e.Key, e.Err)
	case e.Section != "":
		return fmt.Sprintf("secrets %s: [%s]: %v", e.Path, e.Section, e.Err)
	default:
		return fmt.Sprintf("secrets %s: %v", e.Path, e.Err)
	}
}

// Unwrap returns the underlying error for error chain traversal.
func (e *SecretsError) Unwrap() error {
	return e.Err
}

// IsSecretsError reports whether err is or wraps a SecretsError.
func IsSecretsError(err error) bool {
	var se *SecretsError
	return errors.As(err, &se)
}
