// Package todo reads, renders, and updates plain-text task files.
package todo

import (
	"errors"
	"fmt"
	"strings"
)

// Task is a single line of the task file.
type Task struct {
	Completed   bool
	Description string
}

// Sentinel errors returned by the store and codec.
var (
	ErrNoDescriptions   = errors.New("at least one description is required")
	ErrBlankDescription = errors.New("description is blank")
	ErrMultiline        = errors.New("description contains a line break")
	ErrUnknownTask      = errors.New("task not in todo list")
	ErrMalformedLine    = errors.New("malformed task line")
	ErrLocked           = errors.New("task file is locked")
)

// ParseError reports a line that does not follow the "[ ] " / "[*] " layout.
type ParseError struct {
	Line int    // 1-based line number, 0 when decoding a lone line
	Text string // offending line
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s: %q", e.Line, ErrMalformedLine, e.Text)
	}
	return fmt.Sprintf("%s: %q", ErrMalformedLine, e.Text)
}

// Unwrap returns ErrMalformedLine so callers can use errors.Is.
func (e *ParseError) Unwrap() error {
	return ErrMalformedLine
}

// UnknownTaskError lists requested descriptions that are absent from the file.
type UnknownTaskError struct {
	Descriptions []string
}

func (e *UnknownTaskError) Error() string {
	quoted := make([]string, len(e.Descriptions))
	for i, d := range e.Descriptions {
		quoted[i] = fmt.Sprintf("%q", d)
	}
	return fmt.Sprintf("%s: %s", ErrUnknownTask, strings.Join(quoted, ", "))
}

// Unwrap returns ErrUnknownTask.
func (e *UnknownTaskError) Unwrap() error {
	return ErrUnknownTask
}

// AddResult describes what Add did with each requested description.
type AddResult struct {
	// Added holds the descriptions appended to the file, in order.
	Added []string
	// Blank counts whitespace-only descriptions that were skipped.
	Blank int
	// Duplicate is the description that stopped processing, if any.
	Duplicate string
	// Skipped holds the descriptions after Duplicate that were not processed.
	Skipped []string
}
