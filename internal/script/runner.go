// internal/script/runner.go
package script

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// ErrProcessLost is delivered on the error channel when the script's
// output stream ends for any reason other than an explicit cancel.
var ErrProcessLost = errors.New("control script lost")

// Line is one raw line of script output with its origin stream and the
// time it was read. The read time is the fallback update timestamp for
// lines that carry none of their own.
type Line struct {
	Text   string
	Stream string // "stdout" or "stderr"
	At     time.Time
}

// Config describes how to launch the control script
type Config struct {
	Command string
	Args    []string
	// KillTimeout bounds how long a cancel may wait for the child to die
	// before it is reaped forcefully
	KillTimeout time.Duration
}

// Runner interface allows mocking the script in tests
type Runner interface {
	Stream() (<-chan Line, <-chan error, func())
}

// ScriptRunner spawns the external control script and exposes its
// stdout/stderr as a single line stream
type ScriptRunner struct {
	cfg Config
}

// Ensure ScriptRunner implements the interface
var _ Runner = (*ScriptRunner)(nil)

// NewRunner creates a runner for the configured script
func NewRunner(cfg Config) *ScriptRunner {
	return &ScriptRunner{cfg: cfg}
}

// Preflight verifies the script command resolves at all. Run before the
// TUI starts so a missing script is a clear startup error instead of an
// endless reconnect loop.
func Preflight(command string) error {
	if strings.TrimSpace(command) == "" {
		return fmt.Errorf("script command is empty")
	}
	if _, err := exec.LookPath(command); err != nil {
		return fmt.Errorf("script command not found: %w", err)
	}
	return nil
}

// Stream spawns the script and streams its output lines in real-time.
// The returned cancel func kills the child; the process is dead within
// Config.KillTimeout of the cancel. Spawn failures and stream
// termination both arrive on the error channel wrapped in ErrProcessLost.
func (r *ScriptRunner) Stream() (<-chan Line, <-chan error, func()) {
	lineChan := make(chan Line)
	errChan := make(chan error, 1)

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		defer close(lineChan)
		defer close(errChan)

		cmd := exec.CommandContext(ctx, r.cfg.Command, r.cfg.Args...)
		// After cancel signals the child, Wait reaps it forcefully once
		// KillTimeout elapses
		cmd.WaitDelay = r.cfg.KillTimeout

		stdout, err := cmd.StdoutPipe()
		if err != nil {
			errChan <- fmt.Errorf("%w: stdout pipe: %v", ErrProcessLost, err)
			return
		}
		stderr, err := cmd.StderrPipe()
		if err != nil {
			errChan <- fmt.Errorf("%w: stderr pipe: %v", ErrProcessLost, err)
			return
		}

		if err := cmd.Start(); err != nil {
			errChan <- fmt.Errorf("%w: start: %v", ErrProcessLost, err)
			return
		}

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			scanLines(ctx, stdout, "stdout", lineChan)
		}()
		go func() {
			defer wg.Done()
			scanLines(ctx, stderr, "stderr", lineChan)
		}()
		scannersDone := make(chan struct{})
		go func() {
			wg.Wait()
			close(scannersDone)
		}()

		// Wait must not be gated on the scanners alone: a grandchild can
		// hold the pipes open past the kill, and only Wait (bounded by
		// WaitDelay) force-closes them and unblocks the readers.
		select {
		case <-scannersDone:
		case <-ctx.Done():
		}
		waitErr := cmd.Wait()
		<-scannersDone

		if ctx.Err() != nil {
			// Cancelled by the caller, not a failure
			return
		}
		if waitErr != nil {
			errChan <- fmt.Errorf("%w: %v", ErrProcessLost, waitErr)
			return
		}
		errChan <- fmt.Errorf("%w: output stream closed", ErrProcessLost)
	}()

	return lineChan, errChan, cancel
}

// scanLines reads one pipe line by line and publishes non-empty lines
func scanLines(ctx context.Context, reader io.Reader, stream string, out chan<- Line) {
	scanner := bufio.NewScanner(reader)
	// Increase buffer size for long log lines
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	for scanner.Scan() {
		text := scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}

		select {
		case out <- Line{Text: text, Stream: stream, At: time.Now()}:
		case <-ctx.Done():
			return
		}
	}
}
