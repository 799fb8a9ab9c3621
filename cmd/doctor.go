package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/nibzard/todo-go/internal/config"
	"github.com/nibzard/todo-go/internal/todo"
	"github.com/nibzard/todo-go/internal/utils"
)

// errDoctorFailed is returned when doctor finds at least one problem.
var errDoctorFailed = errors.New("doctor found problems")

// doctorCommand checks the config file and the shape of the task file.
func (a *app) doctorCommand(ctx context.Context) error {
	w := a.stdout
	fmt.Fprintln(w, "Todo Doctor")
	fmt.Fprintln(w, "===========")
	fmt.Fprintln(w)

	allOK := true

	// Check config
	if a.cfg.ConfigFile == "" {
		fmt.Fprintln(w, "Config file: (none, using defaults)")
	} else {
		fmt.Fprintf(w, "Config file: %s\n", a.cfg.ConfigFile)
		if err := config.ValidateFile(a.cfg.ConfigFile); err != nil {
			fmt.Fprintf(w, "  ❌ %v\n", err)
			allOK = false
		} else {
			fmt.Fprintln(w, "  ✅ Valid")
		}
	}
	fmt.Fprintln(w)

	// Check task file
	path := a.store.Path()
	fmt.Fprintf(w, "Task file: %s (%s)\n", path, a.cfg.Source("todo_path"))
	info, err := os.Stat(path)
	switch {
	case err != nil && os.IsNotExist(err):
		fmt.Fprintln(w, "  ⚠️  Not found (will be created on first use)")
	case err != nil:
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		allOK = false
	case info.IsDir():
		fmt.Fprintln(w, "  ❌ Error: path is a directory")
		allOK = false
	default:
		if !a.checkTaskFile(ctx) {
			allOK = false
		}
	}
	fmt.Fprintln(w)

	// Locking
	if a.cfg.Lock {
		fmt.Fprintf(w, "Locking: enabled (%s.lock, timeout %s)\n", path, formatTimeout(a.cfg))
	} else {
		fmt.Fprintln(w, "Locking: disabled")
	}
	fmt.Fprintln(w)

	if !allOK {
		fmt.Fprintln(w, "❌ Some checks failed")
		return exitError(ExitFailure, errDoctorFailed)
	}
	fmt.Fprintln(w, "✅ All checks passed")
	return nil
}

// checkTaskFile reports malformed lines and task counts.
func (a *app) checkTaskFile(ctx context.Context) bool {
	w := a.stdout
	ctx, cancel := a.opContext(ctx)
	defer cancel()

	content, err := a.store.Content(ctx)
	if err != nil {
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		return false
	}

	problems := todo.Check(content)
	if len(problems) > 0 {
		fmt.Fprintf(w, "  ❌ %d malformed %s:\n", len(problems), utils.Plural(len(problems), "line"))
		for _, p := range problems {
			fmt.Fprintf(w, "      %v\n", p)
		}
		return false
	}

	tasks, err := todo.Parse(content)
	if err != nil {
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		return false
	}
	done := 0
	for _, t := range tasks {
		if t.Completed {
			done++
		}
	}
	fmt.Fprintf(w, "  ✅ %d %s (%d completed)\n", len(tasks), utils.Plural(len(tasks), "task"), done)
	return true
}

func formatTimeout(cfg *config.Config) string {
	if d := cfg.LockTimeout(); d > 0 {
		return d.String()
	}
	return "none"
}
