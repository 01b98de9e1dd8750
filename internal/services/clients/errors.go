package clients

import (
	"errors"
	"strings"
)

var (
	ErrEmptyQuery = errors.New("search term is empty")
	ErrNotFound   = errors.New("client not found")
)

// Issue is one failed field check. Advisory issues can be overridden by the
// operator, the rest cannot.
type Issue struct {
	Field    string `json:"field"`
	Message  string `json:"message"`
	Advisory bool   `json:"advisory"`
}

type ValidationError struct {
	Issues []Issue `json:"issues"`
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		msgs = append(msgs, is.Field+": "+is.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// AdvisoryOnly reports whether confirming would let the input through.
func (e *ValidationError) AdvisoryOnly() bool {
	for _, is := range e.Issues {
		if !is.Advisory {
			return false
		}
	}
	return true
}
