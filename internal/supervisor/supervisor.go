// Package supervisor runs a built server process: it spawns
// java in the output directory, streams stdout lines to an observer,
// forwards local stdin, and turns an interrupt into a polite "stop" on the
// child's stdin before force-killing after a grace period.
package supervisor

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"os/exec"
	"time"

	"github.com/paradigmmc/mcman-go/internal/errors"
	"github.com/paradigmmc/mcman-go/internal/logfields"
	"github.com/paradigmmc/mcman-go/internal/observer"
)

// DefaultGracePeriod is how long a server gets to exit voluntarily after
// the stop command before it is force-killed.
const DefaultGracePeriod = 30 * time.Second

// Options configures one supervised run.
type Options struct {
	// Dir is the built output directory the process runs in.
	Dir string

	// JavaBin is the resolved java executable.
	JavaBin string

	// Args is the rendered launcher argument vector.
	Args []string

	// StopCommands are written to the child's stdin, one per line, when a
	// graceful shutdown is requested. Defaults to "stop" then "end"
	// (covering both game servers and proxies).
	StopCommands []string

	// Stdin is forwarded to the child line-by-line; nil disables
	// forwarding (test mode).
	Stdin io.Reader

	GracePeriod time.Duration
	Observer    observer.Observer
	Logger      *slog.Logger
}

// Supervisor owns one child server process.
type Supervisor struct {
	opts Options
}

// New builds a Supervisor, applying defaults.
func New(opts Options) *Supervisor {
	if len(opts.StopCommands) == 0 {
		opts.StopCommands = []string{"stop", "end"}
	}
	if opts.GracePeriod <= 0 {
		opts.GracePeriod = DefaultGracePeriod
	}
	if opts.Observer == nil {
		opts.Observer = observer.Noop{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Supervisor{opts: opts}
}

// Run spawns the process and blocks until it exits, returning its exit
// code. Cancelling ctx triggers the graceful-shutdown sequence: stop
// commands on stdin, a grace-period wait, then a kill.
func (s *Supervisor) Run(ctx context.Context) (int, error) {
	cmd := exec.Command(s.opts.JavaBin, s.opts.Args...)
	cmd.Dir = s.opts.Dir

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return -1, errors.Wrap(err, errors.CategoryIO, errors.SeverityFatal, "attach stdin pipe")
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return -1, errors.Wrap(err, errors.CategoryIO, errors.SeverityFatal, "attach stdout pipe")
	}
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		return -1, errors.Wrap(err, errors.CategoryIO, errors.SeverityFatal, "start server process")
	}
	s.opts.Observer.Emit(observer.Event{Kind: observer.EventStageStart, Stage: "run"})

	if s.opts.Stdin != nil {
		go forwardStdin(s.opts.Stdin, stdin)
	}

	// Drain stdout to EOF before Wait: Wait closes the pipe, so reading
	// afterwards would drop trailing output.
	done := make(chan error, 1)
	go func() {
		s.pumpStdout(stdout)
		done <- cmd.Wait()
	}()

	select {
	case waitErr := <-done:
		s.opts.Observer.Emit(observer.Event{Kind: observer.EventStageEnd, Stage: "run"})
		return exitCode(waitErr), waitErrOrNil(waitErr)

	case <-ctx.Done():
		s.opts.Logger.Info("shutdown requested, stopping server",
			logfields.DurationMS(float64(s.opts.GracePeriod.Milliseconds())))
		for _, c := range s.opts.StopCommands {
			if _, err := io.WriteString(stdin, c+"\n"); err != nil {
				break
			}
		}
		stdin.Close()

		select {
		case waitErr := <-done:
			s.opts.Observer.Emit(observer.Event{Kind: observer.EventStageEnd, Stage: "run"})
			return exitCode(waitErr), nil
		case <-time.After(s.opts.GracePeriod):
			s.opts.Logger.Warn("server did not stop in time, killing")
			_ = cmd.Process.Kill()
			waitErr := <-done
			s.opts.Observer.Emit(observer.Event{Kind: observer.EventStageEnd, Stage: "run"})
			return exitCode(waitErr), nil
		}
	}
}

// pumpStdout forwards each child stdout line to the observer for display.
func (s *Supervisor) pumpStdout(r io.Reader) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		s.opts.Observer.Emit(observer.Event{
			Kind:    observer.EventStepProgress,
			Stage:   "run",
			Message: scanner.Text(),
		})
	}
}

// forwardStdin copies local input lines to the child's stdin.
func forwardStdin(src io.Reader, dst io.WriteCloser) {
	scanner := bufio.NewScanner(src)
	for scanner.Scan() {
		if _, err := io.WriteString(dst, scanner.Text()+"\n"); err != nil {
			return
		}
	}
}

func exitCode(waitErr error) int {
	if waitErr == nil {
		return 0
	}
	if exitErr, ok := waitErr.(*exec.ExitError); ok {
		return exitErr.ExitCode()
	}
	return -1
}

// waitErrOrNil keeps a nonzero exit observable through the exit code while
// not treating it as a supervisor failure; only non-exit errors (wait
// machinery itself broke) surface as errors.
func waitErrOrNil(waitErr error) error {
	if waitErr == nil {
		return nil
	}
	if _, ok := waitErr.(*exec.ExitError); ok {
		return nil
	}
	return errors.Wrap(waitErr, errors.CategoryIO, errors.SeverityError, "wait for server process")
}
