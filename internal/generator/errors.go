package generator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chriserin/ftgen/internal/placeholder"
)

var (
	ErrUnresolvedPlaceholder     = placeholder.ErrUnresolved
	ErrInvalidExamplesShape      = errors.New("invalid examples shape")
	ErrNameCollisionUnresolvable = errors.New("name collision unresolvable")
)

// Error carries the identity of the feature element that failed. Use
// errors.Is against the sentinels above, or the framework ones, for the kind.
type Error struct {
	Feature  string
	Scenario string
	Block    string
	Case     string
	Err      error
}

func (e *Error) Error() string {
	var where []string
	if e.Feature != "" {
		where = append(where, fmt.Sprintf("feature %q", e.Feature))
	}
	if e.Scenario != "" {
		where = append(where, fmt.Sprintf("scenario %q", e.Scenario))
	}
	if e.Block != "" {
		where = append(where, fmt.Sprintf("examples %q", e.Block))
	}
	if e.Case != "" {
		where = append(where, "case "+e.Case)
	}
	if len(where) == 0 {
		return e.Err.Error()
	}
	return strings.Join(where, ", ") + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }
