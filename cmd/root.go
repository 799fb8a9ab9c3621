// Package cmd implements the CLI command structure for todo.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/nibzard/todo-go/internal/config"
	"github.com/nibzard/todo-go/internal/logging"
	"github.com/nibzard/todo-go/internal/todo"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Process exit codes.
const (
	ExitFailure         = 1 // invalid arguments, unknown task, malformed file
	ExitUncompleteError = 2 // uncomplete of a task that is not in the list
	ExitUpdateUsage     = 3 // update called with too few arguments or a bad replacement
	ExitStartup         = 4 // config or task file could not be opened
)

// ExitError carries the process exit code for a failed command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ExitError) Unwrap() error {
	return e.Err
}

func exitError(code int, err error) error {
	return &ExitError{Code: code, Err: err}
}

// app holds what a single command invocation needs.
type app struct {
	cfg    *config.Config
	store  *todo.Store
	logger *log.Logger
	stdout io.Writer
	stderr io.Writer
}

// Run executes the todo CLI with the process streams.
func Run(ctx context.Context, args []string) error {
	return RunWithIO(ctx, args, os.Stdout, os.Stderr)
}

// RunWithIO executes the todo CLI writing to the given streams.
func RunWithIO(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("todo", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cfg, err := config.Load(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return exitError(ExitStartup, fmt.Errorf("unable to start todo list: %w", err))
	}
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand(stdout)
	}

	remaining := fs.Args()
	if len(remaining) == 0 {
		printUsage(fs, stderr)
		return nil
	}
	subcommand, rest := remaining[0], remaining[1:]

	// Commands that never touch the task file
	switch subcommand {
	case "help":
		printUsage(fs, stdout)
		return nil
	case "version":
		return versionCommand(stdout)
	case "config":
		return configCommand(cfg, rest, stdout)
	}

	a := newApp(cfg, stdout, stderr)
	if subcommand == "doctor" {
		return a.doctorCommand(ctx)
	}
	if !isTaskCommand(subcommand) {
		fmt.Fprintf(stdout, "Not a valid argument, %s\n\n", subcommand)
		printUsage(fs, stdout)
		return nil
	}

	if err := a.store.Init(); err != nil {
		return exitError(ExitStartup, fmt.Errorf("unable to start todo list: %w", err))
	}

	switch subcommand {
	case "list":
		return a.listCommand(ctx)
	case "add":
		return a.addCommand(ctx, rest)
	case "complete":
		return a.completeCommand(ctx, rest)
	case "uncomplete":
		return a.uncompleteCommand(ctx, rest)
	case "delete":
		return a.deleteCommand(ctx, rest)
	case "update":
		return a.updateCommand(ctx, rest)
	case "clear":
		return a.clearCommand(ctx)
	default:
		return a.tuiCommand(ctx)
	}
}

func isTaskCommand(name string) bool {
	switch name {
	case "list", "add", "complete", "uncomplete", "delete", "update", "clear", "tui":
		return true
	}
	return false
}

func newApp(cfg *config.Config, stdout, stderr io.Writer) *app {
	logger := logging.NewFromConfig(stderr, cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps)
	if cfg.Source("todo_path") == config.SourceDefault {
		logger.Debug("No env var TODO_PATH, will default to HOME", "path", cfg.TodoPath)
	}
	store := todo.NewStore(cfg.TodoPath,
		todo.WithLocking(cfg.Lock),
		todo.WithLogger(logger),
	)
	return &app{
		cfg:    cfg,
		store:  store,
		logger: logger,
		stdout: stdout,
		stderr: stderr,
	}
}

// opContext bounds a single store operation by the lock timeout.
func (a *app) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if d := a.cfg.LockTimeout(); d > 0 {
		return context.WithTimeout(ctx, d)
	}
	return context.WithCancel(ctx)
}

// versionCommand prints version information.
func versionCommand(w io.Writer) error {
	fmt.Fprintf(w, "todo version %s\n", Version)
	return nil
}

// configCommand prints the effective configuration or an example file.
func configCommand(cfg *config.Config, args []string, w io.Writer) error {
	fs := flag.NewFlagSet("todo config", flag.ContinueOnError)
	fs.SetOutput(w)
	example := fs.Bool("example", false, "Print an example config file")
	if err := fs.Parse(args); err != nil {
		return exitError(ExitFailure, err)
	}
	if *example {
		fmt.Fprint(w, config.ExampleConfig())
		return nil
	}

	if cfg.ConfigFile != "" {
		fmt.Fprintf(w, "Config file: %s\n\n", cfg.ConfigFile)
	} else {
		fmt.Fprintln(w, "Config file: (none, using defaults)")
		fmt.Fprintln(w)
	}
	for _, f := range cfg.Fields() {
		fmt.Fprintf(w, "  %-22s %-30s (%s)\n", f.Key, f.Value, f.Source)
	}
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "I see you need some help. Here are how to use the todo app!")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  todo [options] <command> [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  list                   lists all items in the list")
	fmt.Fprintln(w, "  add <args>             adds item(s) to the list")
	fmt.Fprintln(w, "  complete <args>        completes item(s). This appears as a strikethrough")
	fmt.Fprintln(w, "  delete <args>          deletes item(s) in the list")
	fmt.Fprintln(w, "  update <old> <new>     changes the item from <old> to <new> in the list")
	fmt.Fprintln(w, "  uncomplete <args>      if an item was struck-through, returns it to its normal state")
	fmt.Fprintln(w, "  clear                  completely clears the todo file where items are stored")
	fmt.Fprintln(w, "  tui                    browse and edit the list in a terminal UI")
	fmt.Fprintln(w, "  doctor                 check the config and task file")
	fmt.Fprintln(w, "  config [-example]      show the effective configuration")
	fmt.Fprintln(w, "  version                show version information")
	fmt.Fprintln(w, "  help                   show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  TODO_PATH              task file (default ~/.todo)")
	fmt.Fprintln(w, "  TODO_CONFIG            config file")
	fmt.Fprintln(w, "  TODO_STYLE             auto|ansi|markdown")
	fmt.Fprintln(w, "  TODO_LOCK              lock the task file (default true)")
	fmt.Fprintln(w, "  TODO_LOCK_TIMEOUT      seconds to wait for the lock")
	fmt.Fprintln(w, "  TODO_LOG_LEVEL         debug|info|warn|error")
	fmt.Fprintln(w, "  TODO_LOG_FORMAT        text|json|logfmt")
}
