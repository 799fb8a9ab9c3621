package todo

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Style selects how completed tasks are struck through.
type Style string

const (
	StyleAuto     Style = "auto"
	StyleANSI     Style = "ansi"
	StyleMarkdown Style = "markdown"
)

// ParseStyle parses a style name. The empty string means StyleAuto.
func ParseStyle(s string) (Style, error) {
	switch Style(strings.ToLower(strings.TrimSpace(s))) {
	case "", StyleAuto:
		return StyleAuto, nil
	case StyleANSI:
		return StyleANSI, nil
	case StyleMarkdown:
		return StyleMarkdown, nil
	default:
		return "", fmt.Errorf("invalid style %q, must be one of: auto, ansi, markdown", s)
	}
}

// Renderer formats numbered task listings.
type Renderer struct {
	style  Style
	strike lipgloss.Style
}

// NewRenderer returns a renderer for w. StyleAuto resolves to StyleANSI when
// w is a terminal and NO_COLOR is unset, and to StyleMarkdown otherwise.
func NewRenderer(w io.Writer, style Style) *Renderer {
	if style == StyleAuto || style == "" {
		style = StyleMarkdown
		if isTerminal(w) && os.Getenv("NO_COLOR") == "" {
			style = StyleANSI
		}
	}

	r := &Renderer{style: style}
	if style == StyleANSI {
		lr := lipgloss.NewRenderer(w)
		lr.SetColorProfile(termenv.ANSI)
		r.strike = lr.NewStyle().Strikethrough(true)
	}
	return r
}

// Style returns the resolved style.
func (r *Renderer) Style() Style {
	return r.style
}

// Description returns the description of t, struck through when completed.
func (r *Renderer) Description(t Task) string {
	if !t.Completed {
		return t.Description
	}
	if r.style == StyleANSI {
		return r.strike.Render(t.Description)
	}
	return "~~" + t.Description + "~~"
}

// Render writes "<n> <description>" for each task, numbering from 1.
func (r *Renderer) Render(w io.Writer, tasks []Task) error {
	var b strings.Builder
	for i, t := range tasks {
		fmt.Fprintf(&b, "%d %s\n", i+1, r.Description(t))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
