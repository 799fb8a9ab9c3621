package todo

import (
	"strings"
)

const (
	openMarker = "[ ] "
	doneMarker = "[*] "
	markerLen  = len(openMarker)
)

// Decode parses a single task line. A trailing carriage return is ignored.
func Decode(line string) (Task, error) {
	line = strings.TrimSuffix(line, "\r")
	if len(line) < markerLen {
		return Task{}, &ParseError{Text: line}
	}
	switch line[:markerLen] {
	case openMarker:
		return Task{Description: line[markerLen:]}, nil
	case doneMarker:
		return Task{Completed: true, Description: line[markerLen:]}, nil
	default:
		return Task{}, &ParseError{Text: line}
	}
}

// Encode renders a task as a line without the trailing newline.
func Encode(t Task) string {
	if t.Completed {
		return doneMarker + t.Description
	}
	return openMarker + t.Description
}

// Parse decodes every non-empty line of content. It stops at the first
// malformed line and reports its line number.
func Parse(content string) ([]Task, error) {
	var tasks []Task
	for i, line := range strings.Split(content, "\n") {
		if strings.TrimSuffix(line, "\r") == "" {
			continue
		}
		t, err := Decode(line)
		if err != nil {
			if pe, ok := err.(*ParseError); ok {
				pe.Line = i + 1
			}
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// Check is like Parse but collects every malformed line instead of stopping.
func Check(content string) []*ParseError {
	var problems []*ParseError
	for i, line := range strings.Split(content, "\n") {
		if strings.TrimSuffix(line, "\r") == "" {
			continue
		}
		if _, err := Decode(line); err != nil {
			pe := err.(*ParseError)
			pe.Line = i + 1
			problems = append(problems, pe)
		}
	}
	return problems
}

// Format encodes tasks one per line, each terminated by a newline.
func Format(tasks []Task) string {
	var b strings.Builder
	for _, t := range tasks {
		b.WriteString(Encode(t))
		b.WriteByte('\n')
	}
	return b.String()
}
