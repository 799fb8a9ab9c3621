package todo

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gofrs/flock"
	"github.com/natefinch/atomic"
)

// DefaultLockRetry is how often a blocked lock acquisition is retried.
const DefaultLockRetry = 50 * time.Millisecond

// Store performs task operations against a single task file.
// Every operation reads the file fresh; nothing is cached between calls.
type Store struct {
	path      string
	locking   bool
	lockRetry time.Duration
	logger    *log.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLocking enables or disables the advisory lock on "<path>.lock".
func WithLocking(enabled bool) Option {
	return func(s *Store) {
		s.locking = enabled
	}
}

// WithLockRetry sets the polling interval used while waiting for the lock.
func WithLockRetry(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.lockRetry = d
		}
	}
}

// WithLogger sets the logger used for debug traces.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore returns a store for the task file at path.
func NewStore(path string, opts ...Option) *Store {
	s := &Store{
		path:      path,
		locking:   true,
		lockRetry: DefaultLockRetry,
		logger:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the task file path.
func (s *Store) Path() string {
	return s.path
}

// Init creates the task file if it does not exist.
func (s *Store) Init() error {
	f, err := os.OpenFile(s.path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return fmt.Errorf("open task file: %w", err)
	}
	return f.Close()
}

// Content returns the raw file content.
func (s *Store) Content(ctx context.Context) (string, error) {
	var content string
	err := s.withLock(ctx, false, func() error {
		var err error
		content, err = s.read()
		return err
	})
	return content, err
}

// List returns all tasks in file order.
func (s *Store) List(ctx context.Context) ([]Task, error) {
	var tasks []Task
	err := s.withLock(ctx, false, func() error {
		content, err := s.read()
		if err != nil {
			return err
		}
		tasks, err = Parse(content)
		return err
	})
	return tasks, err
}

// Add appends each non-blank description as an open task. Processing stops
// at the first description already present in the file content; that
// description and the ones after it are reported in the result.
// A description containing a line break fails the call before anything is
// written.
func (s *Store) Add(ctx context.Context, descriptions []string) (AddResult, error) {
	var result AddResult
	if len(descriptions) == 0 {
		return result, ErrNoDescriptions
	}
	for _, d := range descriptions {
		if err := checkSingleLine(d); err != nil {
			return result, err
		}
	}

	err := s.withLock(ctx, true, func() error {
		content, err := s.read()
		if err != nil {
			return err
		}

		f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
		if err != nil {
			return fmt.Errorf("open task file: %w", err)
		}
		defer f.Close()

		// Keep the next record on its own line.
		if content != "" && !strings.HasSuffix(content, "\n") {
			if _, err := f.WriteString("\n"); err != nil {
				return fmt.Errorf("append task: %w", err)
			}
			content += "\n"
		}

		for i, d := range descriptions {
			// Blank goes first: "" is a substring of any content.
			if strings.TrimSpace(d) == "" {
				result.Blank++
				continue
			}
			if strings.Contains(content, d) {
				result.Duplicate = d
				result.Skipped = append(result.Skipped, descriptions[i+1:]...)
				return nil
			}
			line := Encode(Task{Description: d}) + "\n"
			if _, err := f.WriteString(line); err != nil {
				return fmt.Errorf("append task: %w", err)
			}
			content += line
			result.Added = append(result.Added, d)
		}
		return nil
	})
	return result, err
}

// Complete marks every task whose description equals one of descriptions as
// completed. Nothing is written unless all descriptions occur in the file.
func (s *Store) Complete(ctx context.Context, descriptions []string) error {
	return s.withLock(ctx, true, func() error {
		tasks, err := s.loadValidated(descriptions)
		if err != nil {
			return err
		}
		want := toSet(descriptions)
		for i := range tasks {
			if _, ok := want[tasks[i].Description]; ok {
				tasks[i].Completed = true
			}
		}
		return s.rewrite(tasks)
	})
}

// Uncomplete reopens every completed task whose description equals one of
// descriptions. It returns the matching tasks that were already open.
// Nothing is written unless all descriptions occur in the file.
func (s *Store) Uncomplete(ctx context.Context, descriptions []string) ([]string, error) {
	var notCompleted []string
	err := s.withLock(ctx, true, func() error {
		tasks, err := s.loadValidated(descriptions)
		if err != nil {
			return err
		}
		want := toSet(descriptions)
		for i := range tasks {
			if _, ok := want[tasks[i].Description]; !ok {
				continue
			}
			if !tasks[i].Completed {
				notCompleted = append(notCompleted, tasks[i].Description)
				continue
			}
			tasks[i].Completed = false
		}
		return s.rewrite(tasks)
	})
	return notCompleted, err
}

// Delete removes every task whose description equals one of descriptions
// and returns how many were removed.
func (s *Store) Delete(ctx context.Context, descriptions []string) (int, error) {
	if len(descriptions) == 0 {
		return 0, nil
	}

	removed := 0
	err := s.withLock(ctx, true, func() error {
		content, err := s.read()
		if err != nil {
			return err
		}
		tasks, err := Parse(content)
		if err != nil {
			return err
		}
		drop := toSet(descriptions)
		kept := tasks[:0]
		for _, t := range tasks {
			if _, ok := drop[t.Description]; ok {
				removed++
				continue
			}
			kept = append(kept, t)
		}
		return s.rewrite(kept)
	})
	return removed, err
}

// Update replaces the description of the task equal to target, keeping its
// completion state.
func (s *Store) Update(ctx context.Context, target, replacement string) error {
	if strings.TrimSpace(replacement) == "" {
		return ErrBlankDescription
	}
	if err := checkSingleLine(replacement); err != nil {
		return err
	}
	return s.withLock(ctx, true, func() error {
		tasks, err := s.loadValidated([]string{target})
		if err != nil {
			return err
		}
		for i := range tasks {
			if tasks[i].Description == target {
				tasks[i].Description = replacement
			}
		}
		return s.rewrite(tasks)
	})
}

// Clear truncates the task file.
func (s *Store) Clear(ctx context.Context) error {
	return s.withLock(ctx, true, func() error {
		f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0644)
		if err != nil {
			return fmt.Errorf("truncate task file: %w", err)
		}
		s.logger.Debug("Cleared task file", "path", s.path)
		return f.Close()
	})
}

// loadValidated reads the file, checks that every description occurs in the
// raw content and decodes it. The caller must hold the lock.
func (s *Store) loadValidated(descriptions []string) ([]Task, error) {
	content, err := s.read()
	if err != nil {
		return nil, err
	}

	var missing []string
	for _, d := range descriptions {
		if !strings.Contains(content, d) {
			missing = append(missing, d)
		}
	}
	if len(missing) > 0 {
		return nil, &UnknownTaskError{Descriptions: missing}
	}

	return Parse(content)
}

func (s *Store) read() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("read task file: %w", err)
	}
	return string(data), nil
}

func (s *Store) rewrite(tasks []Task) error {
	// Replace the symlink target, not the link itself.
	path := s.path
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}
	if err := atomic.WriteFile(path, strings.NewReader(Format(tasks))); err != nil {
		return fmt.Errorf("write task file: %w", err)
	}
	s.logger.Debug("Rewrote task file", "path", s.path, "tasks", len(tasks))
	return nil
}

// withLock runs fn while holding the advisory lock. Shared locks are used
// for reads, exclusive locks for mutations.
func (s *Store) withLock(ctx context.Context, exclusive bool, fn func() error) error {
	if !s.locking {
		return fn()
	}

	lock := flock.New(s.path + ".lock")
	var (
		locked bool
		err    error
	)
	if exclusive {
		locked, err = lock.TryLockContext(ctx, s.lockRetry)
	} else {
		locked, err = lock.TryRLockContext(ctx, s.lockRetry)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLocked, err)
	}
	if !locked {
		return ErrLocked
	}
	defer lock.Unlock()

	return fn()
}

// checkSingleLine rejects descriptions that would split a record across lines.
func checkSingleLine(d string) error {
	if strings.ContainsAny(d, "\r\n") {
		return fmt.Errorf("%w: %q", ErrMultiline, d)
	}
	return nil
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}
