package leaderboard

import (
	"errors"
	"fmt"
)

// HeaderMissingError reports a projected field that the snapshot header
// does not contain. The affected cell is skipped on every row.
type HeaderMissingError struct {
	Field string
	Label string
}

func (e *HeaderMissingError) Error() string {
	return fmt.Sprintf("header %q (%s) not found in CSV headers", e.Field, e.Label)
}

// ErrUnknownColumn is returned when sorting by a label that is not displayed
var ErrUnknownColumn = errors.New("unknown column")
