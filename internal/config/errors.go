package config

import "strings"

// ValidationError reports configuration values rejected during validation.
type ValidationError struct {
	Problems []string
}

// Error returns a single-line summary of every rejected value.
func (e *ValidationError) Error() string {
	if len(e.Problems) == 0 {
		return "config error: invalid configuration"
	}
	return "config error: " + strings.Join(e.Problems, "; ")
}
