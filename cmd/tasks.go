package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nibzard/todo-go/internal/todo"
	"github.com/nibzard/todo-go/internal/ui"
	"github.com/nibzard/todo-go/internal/utils"
)

// listCommand prints the numbered task list.
func (a *app) listCommand(ctx context.Context) error {
	ctx, cancel := a.opContext(ctx)
	defer cancel()

	tasks, err := a.store.List(ctx)
	if err != nil {
		return exitError(ExitFailure, fmt.Errorf("list tasks: %w", err))
	}

	style, err := todo.ParseStyle(a.cfg.Style)
	if err != nil {
		return exitError(ExitFailure, err)
	}
	return todo.NewRenderer(a.stdout, style).Render(a.stdout, tasks)
}

// addCommand appends new open tasks.
func (a *app) addCommand(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return exitError(ExitFailure, fmt.Errorf("add takes at least 1 argument: %w", todo.ErrNoDescriptions))
	}

	ctx, cancel := a.opContext(ctx)
	defer cancel()

	res, err := a.store.Add(ctx, args)
	if err != nil {
		return exitError(ExitFailure, fmt.Errorf("add tasks: %w", err))
	}

	for _, d := range res.Added {
		a.logger.Debug("Added task", "item", d)
	}
	if res.Blank > 0 {
		a.logger.Debug(fmt.Sprintf("Skipped %d blank %s", res.Blank, utils.Plural(res.Blank, "description")))
	}
	if res.Duplicate != "" {
		a.logger.Warn("Item already in your list! You haven't done it yet. Go do it.", "item", res.Duplicate)
		if n := len(res.Skipped); n > 0 {
			a.logger.Warn(fmt.Sprintf("Not adding %d remaining %s", n, utils.Plural(n, "item")),
				"items", strings.Join(res.Skipped, ", "))
		}
	}
	return nil
}

// completeCommand strikes through tasks.
func (a *app) completeCommand(ctx context.Context, args []string) error {
	ctx, cancel := a.opContext(ctx)
	defer cancel()

	if err := a.store.Complete(ctx, args); err != nil {
		if errors.Is(err, todo.ErrUnknownTask) {
			return exitError(ExitFailure, fmt.Errorf("some tasks aren't in your todo list, please fix: %w", err))
		}
		return exitError(ExitFailure, fmt.Errorf("complete tasks: %w", err))
	}
	return nil
}

// uncompleteCommand reopens completed tasks.
func (a *app) uncompleteCommand(ctx context.Context, args []string) error {
	ctx, cancel := a.opContext(ctx)
	defer cancel()

	notCompleted, err := a.store.Uncomplete(ctx, args)
	if err != nil {
		if errors.Is(err, todo.ErrUnknownTask) {
			return exitError(ExitUncompleteError, fmt.Errorf("cannot uncomplete: %w", err))
		}
		return exitError(ExitFailure, fmt.Errorf("uncomplete tasks: %w", err))
	}
	for _, d := range notCompleted {
		a.logger.Info("Item not previously completed, so no errors, but beware!", "item", d)
	}
	return nil
}

// deleteCommand removes tasks by exact description.
func (a *app) deleteCommand(ctx context.Context, args []string) error {
	ctx, cancel := a.opContext(ctx)
	defer cancel()

	removed, err := a.store.Delete(ctx, args)
	if err != nil {
		return exitError(ExitFailure, fmt.Errorf("delete tasks: %w", err))
	}
	a.logger.Debug(fmt.Sprintf("Deleted %d %s", removed, utils.Plural(removed, "task")))
	return nil
}

// updateCommand renames a task, keeping its completion state.
func (a *app) updateCommand(ctx context.Context, args []string) error {
	if len(args) < 2 {
		fmt.Fprintln(a.stderr, "Ex. todo update <item to make the change to> <what to change the item to>")
		return exitError(ExitUpdateUsage, errors.New("not enough arguments"))
	}
	if len(args) > 2 {
		a.logger.Warn("Ignoring extra arguments", "args", strings.Join(args[2:], " "))
	}

	ctx, cancel := a.opContext(ctx)
	defer cancel()

	target, replacement := args[0], args[1]
	if err := a.store.Update(ctx, target, replacement); err != nil {
		switch {
		case errors.Is(err, todo.ErrBlankDescription), errors.Is(err, todo.ErrMultiline):
			return exitError(ExitUpdateUsage, fmt.Errorf("new description: %w", err))
		case errors.Is(err, todo.ErrUnknownTask):
			return exitError(ExitFailure, fmt.Errorf("item that you want to change (%s) does not exist in your todo list: %w", target, err))
		default:
			return exitError(ExitFailure, fmt.Errorf("update task: %w", err))
		}
	}
	return nil
}

// clearCommand empties the task file.
func (a *app) clearCommand(ctx context.Context) error {
	ctx, cancel := a.opContext(ctx)
	defer cancel()

	if err := a.store.Clear(ctx); err != nil {
		return exitError(ExitFailure, fmt.Errorf("clear tasks: %w", err))
	}
	fmt.Fprintln(a.stdout, "Cleared todo file")
	return nil
}

// tuiCommand launches the interactive viewer.
func (a *app) tuiCommand(ctx context.Context) error {
	if err := ui.RunTUI(ctx, a.store, ui.WithLockTimeout(a.cfg.LockTimeout())); err != nil {
		return exitError(ExitFailure, err)
	}
	return nil
}
