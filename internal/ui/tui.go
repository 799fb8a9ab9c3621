// Package ui provides optional terminal interfaces.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/nibzard/todo-go/internal/todo"
)

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiConfig)

// tuiConfig holds TUI configuration.
type tuiConfig struct {
	lockTimeout time.Duration
}

// WithLockTimeout bounds each store operation started from the TUI.
func WithLockTimeout(d time.Duration) TUIOption {
	return func(c *tuiConfig) {
		c.lockTimeout = d
	}
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	doneStyle   = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("241"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// RunTUI starts the interactive task list on the terminal.
func RunTUI(ctx context.Context, store *todo.Store, opts ...TUIOption) error {
	c := &tuiConfig{}
	for _, opt := range opts {
		opt(c)
	}

	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	model := newTUIModel(ctx, store, c)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

type tuiModel struct {
	ctx      context.Context
	store    *todo.Store
	cfg      *tuiConfig
	tasks    []todo.Task
	cursor   int
	loadErr  error
	opErr    error
	showHelp bool
}

func newTUIModel(ctx context.Context, store *todo.Store, cfg *tuiConfig) *tuiModel {
	return &tuiModel{
		ctx:   ctx,
		store: store,
		cfg:   cfg,
	}
}

func (m *tuiModel) Init() tea.Cmd {
	m.refresh()
	return nil
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		if len(m.tasks) > 0 {
			m.cursor = len(m.tasks) - 1
		}
	case " ", "space", "enter", "x":
		m.toggle()
	case "d":
		m.deleteSelected()
	case "r", "f5":
		m.opErr = nil
		m.refresh()
	case "h", "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m *tuiModel) View() string {
	var b strings.Builder
	writeTitle(&b, m.store.Path())

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b)
		return b.String()
	}

	if m.loadErr != nil {
		b.WriteString("Error loading todo file:\n")
		b.WriteString("  " + errorStyle.Render(m.loadErr.Error()) + "\n\n")
		writeFooter(&b)
		return b.String()
	}

	if len(m.tasks) == 0 {
		b.WriteString("  Nothing to do.\n\n")
	}
	for i, t := range m.tasks {
		b.WriteString(formatTask(i, t, i == m.cursor))
		b.WriteString("\n")
	}
	if len(m.tasks) > 0 {
		b.WriteString("\n")
	}
	writeOverview(&b, m.tasks)

	if m.opErr != nil {
		b.WriteString(errorStyle.Render(m.opErr.Error()) + "\n\n")
	}
	writeFooter(&b)
	return b.String()
}

func (m *tuiModel) opContext() (context.Context, context.CancelFunc) {
	if m.cfg != nil && m.cfg.lockTimeout > 0 {
		return context.WithTimeout(m.ctx, m.cfg.lockTimeout)
	}
	return context.WithCancel(m.ctx)
}

func (m *tuiModel) refresh() {
	ctx, cancel := m.opContext()
	defer cancel()

	tasks, err := m.store.List(ctx)
	if err != nil {
		m.loadErr = err
		m.tasks = nil
		return
	}
	m.loadErr = nil
	m.tasks = tasks
	if m.cursor >= len(m.tasks) {
		m.cursor = len(m.tasks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *tuiModel) selected() (todo.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.tasks) {
		return todo.Task{}, false
	}
	return m.tasks[m.cursor], true
}

// toggle flips the completion state of the selected task.
func (m *tuiModel) toggle() {
	t, ok := m.selected()
	if !ok {
		return
	}
	ctx, cancel := m.opContext()
	defer cancel()

	if t.Completed {
		_, m.opErr = m.store.Uncomplete(ctx, []string{t.Description})
	} else {
		m.opErr = m.store.Complete(ctx, []string{t.Description})
	}
	m.refresh()
}

func (m *tuiModel) deleteSelected() {
	t, ok := m.selected()
	if !ok {
		return
	}
	ctx, cancel := m.opContext()
	defer cancel()

	_, m.opErr = m.store.Delete(ctx, []string{t.Description})
	m.refresh()
}

func writeTitle(b *strings.Builder, path string) {
	b.WriteString(titleStyle.Render("Todo") + "  " + helpStyle.Render(path) + "\n\n")
}

func writeOverview(b *strings.Builder, tasks []todo.Task) {
	done := 0
	for _, t := range tasks {
		if t.Completed {
			done++
		}
	}
	b.WriteString(fmt.Sprintf("  Open: %d  Done: %d\n\n", len(tasks)-done, done))
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  q, ctrl+c       Quit\n")
	b.WriteString("  up/k, down/j    Move selection\n")
	b.WriteString("  g, G            First / last task\n")
	b.WriteString("  space, enter, x Toggle completed\n")
	b.WriteString("  d               Delete task\n")
	b.WriteString("  r, F5           Reload from disk\n")
	b.WriteString("  h, ?            Toggle this help screen\n\n")
}

func writeFooter(b *strings.Builder) {
	b.WriteString(helpStyle.Render("Press h for help | q to quit") + "\n")
}

func formatTask(i int, t todo.Task, selected bool) string {
	cursor := " "
	if selected {
		cursor = cursorStyle.Render(">")
	}
	desc := t.Description
	if t.Completed {
		desc = doneStyle.Render(desc)
	}
	return fmt.Sprintf(" %s %d %s", cursor, i+1, desc)
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
