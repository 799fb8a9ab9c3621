package todo

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"testing"
	"time"

	"github.com/gofrs/flock"
)

func newTestStore(t *testing.T, content string) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "todo")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write task file: %v", err)
	}
	return NewStore(path)
}

func readFile(t *testing.T, s *Store) string {
	t.Helper()
	data, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("read task file: %v", err)
	}
	return string(data)
}

func TestInitCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo")
	s := NewStore(path)
	if err := s.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected task file to exist: %v", err)
	}
	if info.Size() != 0 {
		t.Errorf("expected empty file, got %d bytes", info.Size())
	}

	// Init leaves existing content alone.
	if err := os.WriteFile(path, []byte("[ ] keep\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := s.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if got := readFile(t, s); got != "[ ] keep\n" {
		t.Errorf("Init modified file: %q", got)
	}
}

func TestInitFailsForMissingDirectory(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "missing", "todo"))
	if err := s.Init(); err == nil {
		t.Fatal("expected error for missing parent directory")
	}
}

func TestBuyMilkScenario(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, "")

	if _, err := s.Add(ctx, []string{"buy milk"}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if got := readFile(t, s); got != "[ ] buy milk\n" {
		t.Fatalf("after add: got %q", got)
	}

	if err := s.Complete(ctx, []string{"buy milk"}); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got := readFile(t, s); got != "[*] buy milk\n" {
		t.Fatalf("after complete: got %q", got)
	}

	if _, err := s.Delete(ctx, []string{"buy milk"}); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if got := readFile(t, s); got != "" {
		t.Fatalf("after delete: got %q", got)
	}
}

func TestAdd(t *testing.T) {
	ctx := context.Background()

	t.Run("requires descriptions", func(t *testing.T) {
		s := newTestStore(t, "")
		if _, err := s.Add(ctx, nil); !errors.Is(err, ErrNoDescriptions) {
			t.Errorf("expected ErrNoDescriptions, got %v", err)
		}
	})

	t.Run("line breaks are rejected before writing", func(t *testing.T) {
		s := newTestStore(t, "[ ] keep\n")
		for _, d := range []string{"a\nb", "a\r\nb", "trailing\r"} {
			if _, err := s.Add(ctx, []string{"fine", d}); !errors.Is(err, ErrMultiline) {
				t.Errorf("Add(%q): expected ErrMultiline, got %v", d, err)
			}
		}
		if got := readFile(t, s); got != "[ ] keep\n" {
			t.Errorf("file modified: %q", got)
		}
		if _, err := s.List(ctx); err != nil {
			t.Errorf("List() error = %v", err)
		}
	})

	t.Run("duplicate in same call is added once", func(t *testing.T) {
		s := newTestStore(t, "")
		res, err := s.Add(ctx, []string{"x", "x"})
		if err != nil {
			t.Fatalf("Add() error = %v", err)
		}
		if got := readFile(t, s); got != "[ ] x\n" {
			t.Errorf("file: got %q, want one x", got)
		}
		if res.Duplicate != "x" {
			t.Errorf("Duplicate: got %q, want x", res.Duplicate)
		}
	})

	t.Run("duplicate halts remaining items", func(t *testing.T) {
		s := newTestStore(t, "[ ] b\n")
		res, err := s.Add(ctx, []string{"a", "b", "c"})
		if err != nil {
			t.Fatalf("Add() error = %v", err)
		}
		if got := readFile(t, s); got != "[ ] b\n[ ] a\n" {
			t.Errorf("file: got %q", got)
		}
		if !reflect.DeepEqual(res.Added, []string{"a"}) {
			t.Errorf("Added: got %v", res.Added)
		}
		if !reflect.DeepEqual(res.Skipped, []string{"c"}) {
			t.Errorf("Skipped: got %v", res.Skipped)
		}
	})

	t.Run("substring of existing task counts as duplicate", func(t *testing.T) {
		s := newTestStore(t, "[ ] buy milk\n")
		res, err := s.Add(ctx, []string{"milk"})
		if err != nil {
			t.Fatalf("Add() error = %v", err)
		}
		if res.Duplicate != "milk" {
			t.Errorf("Duplicate: got %q, want milk", res.Duplicate)
		}
		if got := readFile(t, s); got != "[ ] buy milk\n" {
			t.Errorf("file modified: %q", got)
		}
	})

	t.Run("skips blank descriptions", func(t *testing.T) {
		s := newTestStore(t, "[ ] a\n")
		res, err := s.Add(ctx, []string{"", "   ", "b"})
		if err != nil {
			t.Fatalf("Add() error = %v", err)
		}
		if res.Blank != 2 {
			t.Errorf("Blank: got %d, want 2", res.Blank)
		}
		if got := readFile(t, s); got != "[ ] a\n[ ] b\n" {
			t.Errorf("file: got %q", got)
		}
	})

	t.Run("terminates a dangling last line", func(t *testing.T) {
		s := newTestStore(t, "[ ] a")
		if _, err := s.Add(ctx, []string{"b"}); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
		if got := readFile(t, s); got != "[ ] a\n[ ] b\n" {
			t.Errorf("file: got %q", got)
		}
	})
}

func TestComplete(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown task leaves file untouched", func(t *testing.T) {
		s := newTestStore(t, "")
		err := s.Complete(ctx, []string{"missing"})
		var ute *UnknownTaskError
		if !errors.As(err, &ute) {
			t.Fatalf("expected *UnknownTaskError, got %v", err)
		}
		if !errors.Is(err, ErrUnknownTask) {
			t.Errorf("expected ErrUnknownTask, got %v", err)
		}
		if got := readFile(t, s); got != "" {
			t.Errorf("file modified: %q", got)
		}
	})

	t.Run("all or nothing", func(t *testing.T) {
		content := "[ ] a\n[ ] b\n"
		s := newTestStore(t, content)
		err := s.Complete(ctx, []string{"a", "zzz", "yyy"})
		var ute *UnknownTaskError
		if !errors.As(err, &ute) {
			t.Fatalf("expected *UnknownTaskError, got %v", err)
		}
		if !reflect.DeepEqual(ute.Descriptions, []string{"zzz", "yyy"}) {
			t.Errorf("missing: got %v", ute.Descriptions)
		}
		if got := readFile(t, s); got != content {
			t.Errorf("file modified: %q", got)
		}
	})

	t.Run("only exact matches change", func(t *testing.T) {
		s := newTestStore(t, "[ ] buy milk\n[ ] milk\n[ ] bread\n")
		if err := s.Complete(ctx, []string{"milk"}); err != nil {
			t.Fatalf("Complete() error = %v", err)
		}
		if got := readFile(t, s); got != "[ ] buy milk\n[*] milk\n[ ] bread\n" {
			t.Errorf("file: got %q", got)
		}
	})

	t.Run("substring passes validation but changes nothing", func(t *testing.T) {
		s := newTestStore(t, "[ ] buy milk\n")
		if err := s.Complete(ctx, []string{"milk"}); err != nil {
			t.Fatalf("Complete() error = %v", err)
		}
		if got := readFile(t, s); got != "[ ] buy milk\n" {
			t.Errorf("file: got %q", got)
		}
	})

	t.Run("malformed file is reported", func(t *testing.T) {
		content := "[ ] a\nbroken\n"
		s := newTestStore(t, content)
		err := s.Complete(ctx, []string{"a"})
		if !errors.Is(err, ErrMalformedLine) {
			t.Fatalf("expected ErrMalformedLine, got %v", err)
		}
		if got := readFile(t, s); got != content {
			t.Errorf("file modified: %q", got)
		}
	})
}

func TestUncomplete(t *testing.T) {
	ctx := context.Background()

	t.Run("reopens completed tasks", func(t *testing.T) {
		s := newTestStore(t, "[*] a\n[*] b\n")
		notCompleted, err := s.Uncomplete(ctx, []string{"a"})
		if err != nil {
			t.Fatalf("Uncomplete() error = %v", err)
		}
		if len(notCompleted) != 0 {
			t.Errorf("notCompleted: got %v", notCompleted)
		}
		if got := readFile(t, s); got != "[ ] a\n[*] b\n" {
			t.Errorf("file: got %q", got)
		}
	})

	t.Run("reports tasks that were still open", func(t *testing.T) {
		s := newTestStore(t, "[ ] a\n[*] b\n")
		notCompleted, err := s.Uncomplete(ctx, []string{"a", "b"})
		if err != nil {
			t.Fatalf("Uncomplete() error = %v", err)
		}
		if !reflect.DeepEqual(notCompleted, []string{"a"}) {
			t.Errorf("notCompleted: got %v, want [a]", notCompleted)
		}
		if got := readFile(t, s); got != "[ ] a\n[ ] b\n" {
			t.Errorf("file: got %q", got)
		}
	})

	t.Run("unknown task aborts", func(t *testing.T) {
		content := "[*] a\n"
		s := newTestStore(t, content)
		_, err := s.Uncomplete(ctx, []string{"a", "nope"})
		if !errors.Is(err, ErrUnknownTask) {
			t.Fatalf("expected ErrUnknownTask, got %v", err)
		}
		if got := readFile(t, s); got != content {
			t.Errorf("file modified: %q", got)
		}
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("removes exact matches only", func(t *testing.T) {
		s := newTestStore(t, "[ ] buy milk\n[*] milk\n[ ] bread\n")
		removed, err := s.Delete(ctx, []string{"milk", "absent"})
		if err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if removed != 1 {
			t.Errorf("removed: got %d, want 1", removed)
		}
		if got := readFile(t, s); got != "[ ] buy milk\n[ ] bread\n" {
			t.Errorf("file: got %q", got)
		}
	})

	t.Run("no descriptions is a no-op", func(t *testing.T) {
		s := newTestStore(t, "[ ] a\n")
		removed, err := s.Delete(ctx, nil)
		if err != nil || removed != 0 {
			t.Errorf("Delete(nil): got (%d, %v)", removed, err)
		}
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("preserves completion state", func(t *testing.T) {
		s := newTestStore(t, "[*] a\n[ ] b\n")
		if err := s.Update(ctx, "a", "alpha"); err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if err := s.Update(ctx, "b", "beta"); err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if got := readFile(t, s); got != "[*] alpha\n[ ] beta\n" {
			t.Errorf("file: got %q", got)
		}
	})

	t.Run("unknown target aborts", func(t *testing.T) {
		s := newTestStore(t, "[ ] a\n")
		if err := s.Update(ctx, "zzz", "b"); !errors.Is(err, ErrUnknownTask) {
			t.Errorf("expected ErrUnknownTask, got %v", err)
		}
		if got := readFile(t, s); got != "[ ] a\n" {
			t.Errorf("file modified: %q", got)
		}
	})

	t.Run("blank replacement is rejected", func(t *testing.T) {
		s := newTestStore(t, "[ ] a\n")
		if err := s.Update(ctx, "a", "  "); !errors.Is(err, ErrBlankDescription) {
			t.Errorf("expected ErrBlankDescription, got %v", err)
		}
	})

	t.Run("multiline replacement is rejected", func(t *testing.T) {
		s := newTestStore(t, "[ ] a\n")
		if err := s.Update(ctx, "a", "b\nc"); !errors.Is(err, ErrMultiline) {
			t.Errorf("expected ErrMultiline, got %v", err)
		}
		if got := readFile(t, s); got != "[ ] a\n" {
			t.Errorf("file modified: %q", got)
		}
	})
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, "[ ] a\n[*] b\n")
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	tasks, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("expected no tasks, got %v", tasks)
	}
}

func TestRewriteFollowsSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need extra privileges on Windows")
	}
	ctx := context.Background()
	dir := t.TempDir()
	target := filepath.Join(dir, "real.todo")
	link := filepath.Join(dir, ".todo")
	if err := os.WriteFile(target, []byte("[ ] buy milk\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(target, link); err != nil {
		t.Fatal(err)
	}

	s := NewStore(link)
	if err := s.Complete(ctx, []string{"buy milk"}); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if _, err := s.Add(ctx, []string{"walk dog"}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	info, err := os.Lstat(link)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode()&os.ModeSymlink == 0 {
		t.Error("task file symlink was replaced by a regular file")
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if got := string(data); got != "[*] buy milk\n[ ] walk dog\n" {
		t.Errorf("target: got %q", got)
	}
}

func TestRewriteKeepsPermissions(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, "[ ] a\n")
	if err := os.Chmod(s.Path(), 0640); err != nil {
		t.Fatal(err)
	}
	if err := s.Complete(ctx, []string{"a"}); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	info, err := os.Stat(s.Path())
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0640 {
		t.Errorf("mode: got %v, want 0640", info.Mode().Perm())
	}
}

func TestLockContention(t *testing.T) {
	s := newTestStore(t, "[ ] a\n")

	held := flock.New(s.Path() + ".lock")
	if err := held.Lock(); err != nil {
		t.Fatalf("acquire lock: %v", err)
	}
	defer held.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := NewStore(s.Path(), WithLockRetry(10*time.Millisecond)).Complete(ctx, []string{"a"})
	if !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
	if got := readFile(t, s); got != "[ ] a\n" {
		t.Errorf("file modified: %q", got)
	}

	// Without locking the operation goes through.
	if err := NewStore(s.Path(), WithLocking(false)).Complete(context.Background(), []string{"a"}); err != nil {
		t.Fatalf("Complete() without locking error = %v", err)
	}
}
