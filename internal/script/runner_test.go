package script

import (
	"errors"
	"testing"
	"time"
)

func shRunner(t *testing.T, shellScript string, killTimeout time.Duration) *ScriptRunner {
	t.Helper()
	return NewRunner(Config{
		Command:     "sh",
		Args:        []string{"-c", shellScript},
		KillTimeout: killTimeout,
	})
}

func collect(t *testing.T, lines <-chan Line, errs <-chan error, within time.Duration) ([]Line, error) {
	t.Helper()
	var got []Line
	deadline := time.After(within)
	for {
		select {
		case line, ok := <-lines:
			if !ok {
				return got, <-errs
			}
			got = append(got, line)
		case <-deadline:
			t.Fatalf("stream did not finish within %v (got %d lines)", within, len(got))
		}
	}
}

func TestStreamDeliversLinesThenProcessLost(t *testing.T) {
	r := shRunner(t, "echo one; echo two 1>&2; echo three", time.Second)
	lines, errs, cancel := r.Stream()
	defer cancel()

	got, err := collect(t, lines, errs, 5*time.Second)

	if !errors.Is(err, ErrProcessLost) {
		t.Fatalf("err = %v, want ErrProcessLost", err)
	}

	var stdout, stderr []string
	for _, l := range got {
		switch l.Stream {
		case "stdout":
			stdout = append(stdout, l.Text)
		case "stderr":
			stderr = append(stderr, l.Text)
		}
		if l.At.IsZero() {
			t.Errorf("line %q has no read timestamp", l.Text)
		}
	}
	if len(stdout) != 2 || stdout[0] != "one" || stdout[1] != "three" {
		t.Errorf("stdout = %v, want [one three]", stdout)
	}
	if len(stderr) != 1 || stderr[0] != "two" {
		t.Errorf("stderr = %v, want [two]", stderr)
	}
}

func TestStreamReportsNonZeroExit(t *testing.T) {
	r := shRunner(t, "exit 3", time.Second)
	lines, errs, cancel := r.Stream()
	defer cancel()

	_, err := collect(t, lines, errs, 5*time.Second)
	if !errors.Is(err, ErrProcessLost) {
		t.Fatalf("err = %v, want ErrProcessLost", err)
	}
}

func TestStreamSpawnFailure(t *testing.T) {
	r := NewRunner(Config{
		Command:     "/nonexistent/control-script",
		KillTimeout: time.Second,
	})
	lines, errs, cancel := r.Stream()
	defer cancel()

	_, err := collect(t, lines, errs, 5*time.Second)
	if !errors.Is(err, ErrProcessLost) {
		t.Fatalf("err = %v, want ErrProcessLost for failed spawn", err)
	}
}

func TestCancelKillsBlockedChildWithinTimeout(t *testing.T) {
	// The child holds the pipe open forever; cancel must still bring the
	// stream down within the kill timeout instead of leaving an orphan.
	r := shRunner(t, "echo started; sleep 60", time.Second)
	lines, errs, cancel := r.Stream()

	select {
	case line := <-lines:
		if line.Text != "started" {
			t.Fatalf("first line = %q, want started", line.Text)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("child never produced output")
	}

	start := time.Now()
	cancel()

	deadline := time.After(5 * time.Second)
	for {
		select {
		case _, ok := <-lines:
			if !ok {
				if elapsed := time.Since(start); elapsed > 3*time.Second {
					t.Errorf("stream took %v to die after cancel", elapsed)
				}
				// Cancel is not a failure: no error is reported
				if err := <-errs; err != nil {
					t.Errorf("err after cancel = %v, want nil", err)
				}
				return
			}
		case <-deadline:
			t.Fatalf("stream still open 5s after cancel")
		}
	}
}

func TestPreflight(t *testing.T) {
	if err := Preflight("sh"); err != nil {
		t.Errorf("sh should resolve: %v", err)
	}
	if err := Preflight(""); err == nil {
		t.Errorf("empty command should fail preflight")
	}
	if err := Preflight("definitely-not-a-real-command-xyz"); err == nil {
		t.Errorf("unknown command should fail preflight")
	}
}
