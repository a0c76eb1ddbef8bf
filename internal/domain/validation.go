package domain

import "fmt"

// ValidationError reports a rejected input field. When one is returned no
// write has occurred.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
