// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"
)

type recorder struct {
	mu      sync.Mutex
	calls   int
	changed []string
	fired   chan struct{}
}

func newRecorder() *recorder {
	return &recorder{fired: make(chan struct{}, 16)}
}

func (r *recorder) onChange(_ context.Context, changed []string) error {
	r.mu.Lock()
	r.calls++
	r.changed = append(r.changed, changed...)
	r.mu.Unlock()
	r.fired <- struct{}{}
	return nil
}

func (r *recorder) snapshot() (int, []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls, slices.Clone(r.changed)
}

func start(t *testing.T, cfg Config) context.CancelFunc {
	t.Helper()

	w, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("Run: %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Error("Run did not return after cancel")
		}
	})
	// Let Run enter its event loop.
	time.Sleep(50 * time.Millisecond)
	return cancel
}

func write(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func waitFired(t *testing.T, r *recorder) {
	t.Helper()
	select {
	case <-r.fired:
	case <-time.After(5 * time.Second):
		t.Fatal("OnChange was not called")
	}
}

func TestWatcherDebounce(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	rec := newRecorder()
	start(t, Config{Roots: []string{dir}, Debounce: 150 * time.Millisecond, OnChange: rec.onChange})

	for _, name := range []string{"a.pom", "b.pom", "c.pom"} {
		write(t, filepath.Join(dir, name), "<project/>")
	}
	waitFired(t, rec)
	time.Sleep(300 * time.Millisecond)

	calls, changed := rec.snapshot()
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	for _, name := range []string{"a.pom", "b.pom", "c.pom"} {
		if !slices.Contains(changed, filepath.Join(dir, name)) {
			t.Errorf("changed %v lacks %s", changed, name)
		}
	}
}

func TestWatcherPatternFiltering(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	rec := newRecorder()
	start(t, Config{
		Roots:    []string{dir},
		Patterns: []string{"metarule.cue", "**/ivy-*.xml"},
		Debounce: 100 * time.Millisecond,
		OnChange: rec.onChange,
	})

	write(t, filepath.Join(dir, "notes.txt"), "ignored")
	write(t, filepath.Join(dir, "metarule.cue"), "rules: []")
	waitFired(t, rec)

	_, changed := rec.snapshot()
	if !slices.Equal(changed, []string{filepath.Join(dir, "metarule.cue")}) {
		t.Errorf("changed = %v, want only metarule.cue", changed)
	}
}

func TestWatcherNewModuleDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	rec := newRecorder()
	start(t, Config{
		Roots:    []string{dir},
		Patterns: []string{"**/ivy-*.xml"},
		Debounce: 100 * time.Millisecond,
		OnChange: rec.onChange,
	})

	modDir := filepath.Join(dir, "org.sample", "api", "3.0")
	if err := os.MkdirAll(modDir, 0o755); err != nil {
		t.Fatal(err)
	}
	// Give the watcher time to register the new directories.
	time.Sleep(200 * time.Millisecond)
	write(t, filepath.Join(modDir, "ivy-3.0.xml"), "<ivy-module/>")

	deadline := time.After(5 * time.Second)
	for {
		_, changed := rec.snapshot()
		if slices.Contains(changed, filepath.Join(modDir, "ivy-3.0.xml")) {
			return
		}
		select {
		case <-rec.fired:
		case <-deadline:
			t.Fatalf("descriptor in new directory not reported; got %v", changed)
		}
	}
}

func TestWatcherMultipleRoots(t *testing.T) {
	t.Parallel()

	project := t.TempDir()
	repo := t.TempDir()
	rec := newRecorder()
	start(t, Config{
		Roots:    []string{project, repo},
		Patterns: []string{"metarule.cue", "**/*.pom"},
		Debounce: 100 * time.Millisecond,
		OnChange: rec.onChange,
	})

	pom := filepath.Join(repo, "g", "a", "1", "a-1.pom")
	if err := os.MkdirAll(filepath.Dir(pom), 0o755); err != nil {
		t.Fatal(err)
	}
	time.Sleep(200 * time.Millisecond)
	write(t, pom, "<project/>")
	write(t, filepath.Join(project, "metarule.cue"), "rules: []")

	deadline := time.After(5 * time.Second)
	for {
		_, changed := rec.snapshot()
		if slices.Contains(changed, pom) && slices.Contains(changed, filepath.Join(project, "metarule.cue")) {
			return
		}
		select {
		case <-rec.fired:
		case <-deadline:
			t.Fatalf("changes in both roots not reported; got %v", changed)
		}
	}
}

func TestWatcherIgnorePatterns(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "build"), 0o755); err != nil {
		t.Fatal(err)
	}
	rec := newRecorder()
	start(t, Config{
		Roots:    []string{dir},
		Ignore:   []string{"build/**"},
		Debounce: 100 * time.Millisecond,
		OnChange: rec.onChange,
	})

	write(t, filepath.Join(dir, "build", "out.pom"), "x")
	write(t, filepath.Join(dir, "kept.pom"), "x")
	waitFired(t, rec)

	_, changed := rec.snapshot()
	if !slices.Equal(changed, []string{filepath.Join(dir, "kept.pom")}) {
		t.Errorf("changed = %v, want only kept.pom", changed)
	}
}

func TestWatcherSkipIfBusy(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var (
		mu      sync.Mutex
		running int
		overlap bool
		calls   int
	)
	fired := make(chan struct{}, 4)
	start(t, Config{
		Roots:    []string{dir},
		Debounce: 50 * time.Millisecond,
		OnChange: func(_ context.Context, _ []string) error {
			mu.Lock()
			running++
			if running > 1 {
				overlap = true
			}
			calls++
			mu.Unlock()

			time.Sleep(300 * time.Millisecond)

			mu.Lock()
			running--
			mu.Unlock()
			fired <- struct{}{}
			return nil
		},
	})

	write(t, filepath.Join(dir, "first.pom"), "x")
	time.Sleep(150 * time.Millisecond)
	write(t, filepath.Join(dir, "second.pom"), "x")

	for range 2 {
		select {
		case <-fired:
		case <-time.After(5 * time.Second):
			t.Fatal("expected two runs")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if overlap {
		t.Error("OnChange runs overlapped")
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestWatcherCallbackErrorKeepsWatching(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	fired := make(chan struct{}, 4)
	start(t, Config{
		Roots:    []string{dir},
		Debounce: 50 * time.Millisecond,
		OnChange: func(_ context.Context, _ []string) error {
			fired <- struct{}{}
			return errors.New("resolution failed")
		},
	})

	for _, name := range []string{"one.pom", "two.pom"} {
		write(t, filepath.Join(dir, name), "x")
		select {
		case <-fired:
		case <-time.After(5 * time.Second):
			t.Fatalf("no run after writing %s", name)
		}
	}
}

func TestWatcherContextCancel(t *testing.T) {
	t.Parallel()

	w, err := New(Config{Roots: []string{t.TempDir()}})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	if err := w.Run(ctx); err != nil {
		t.Errorf("Run on canceled context = %v, want nil", err)
	}
}

func TestWatcherDoubleRun(t *testing.T) {
	t.Parallel()

	w, err := New(Config{Roots: []string{t.TempDir()}})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)

	if err := w.Run(ctx); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Run = %v, want ErrAlreadyRunning", err)
	}
	cancel()
	if err := <-done; err != nil {
		t.Errorf("first Run = %v", err)
	}
}

func TestNewValidation(t *testing.T) {
	t.Parallel()

	if _, err := New(Config{}); !errors.Is(err, ErrNoRoots) {
		t.Errorf("New without roots = %v, want ErrNoRoots", err)
	}
	if _, err := New(Config{Roots: []string{t.TempDir()}, Patterns: []string{"[unclosed"}}); err == nil {
		t.Error("New accepted an invalid watch pattern")
	}
	if _, err := New(Config{Roots: []string{t.TempDir()}, Ignore: []string{"{a,b"}}); err == nil {
		t.Error("New accepted an invalid ignore pattern")
	}

	missing := filepath.Join(t.TempDir(), "absent")
	w, err := New(Config{Roots: []string{missing, missing}})
	if err != nil {
		t.Fatalf("New with missing root: %v", err)
	}
	if got := w.Roots(); len(got) != 1 {
		t.Errorf("Roots() = %v, want one deduplicated root", got)
	}
	_ = w.fsw.Close()
}

func TestDefaultIgnores(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rel  string
		want bool
	}{
		{".git/HEAD", true},
		{"org/api/1.0/.ivy-1.0.xml.swp", true},
		{"org/api/1.0/ivy-1.0.xml~", true},
		{".DS_Store", true},
		{"org/api/1.0/ivy-1.0.xml", false},
		{"metarule.cue", false},
	}
	for _, tt := range tests {
		if got := matchAny(defaultIgnores, tt.rel); got != tt.want {
			t.Errorf("matchAny(defaults, %q) = %v, want %v", tt.rel, got, tt.want)
		}
	}
}

func TestRootOfPrefersInnermost(t *testing.T) {
	t.Parallel()

	outer := t.TempDir()
	inner := filepath.Join(outer, "repo")
	if err := os.MkdirAll(inner, 0o755); err != nil {
		t.Fatal(err)
	}
	w, err := New(Config{Roots: []string{outer, inner}})
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = w.fsw.Close() }()

	root, ok := w.rootOf(filepath.Join(inner, "g", "a.pom"))
	if !ok || root != inner {
		t.Errorf("rootOf = %q, %v; want %q", root, ok, inner)
	}
	if _, ok := w.rootOf(filepath.Join(t.TempDir(), "x")); ok {
		t.Error("rootOf matched a path outside every root")
	}
}
