package executor

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/paradigmmc/mcman-go/internal/errors"
	"github.com/paradigmmc/mcman-go/internal/javatool"
	"github.com/paradigmmc/mcman-go/internal/logfields"
	"github.com/paradigmmc/mcman-go/internal/model"
	"github.com/paradigmmc/mcman-go/internal/observer"
)

// executeJava implements the ExecuteJava{args, java_version, label} step:
// resolve a JDK satisfying java_version, run `java args...`
// with output_dir as the working directory, forward stdout line-by-line to
// the observer, and write a complete transcript to
// {output_dir}/.{label}.mcman.log.
func (e *Executor) executeJava(ctx context.Context, args []string, javaVersion int, label string) (model.Result, error) {
	installs := e.discoverJavaOnce(ctx)
	inst, err := javatool.Resolve(installs, javaVersion)
	if err != nil {
		return model.Continue, err
	}

	if err := os.MkdirAll(e.OutputDir, 0o750); err != nil {
		return model.Continue, err
	}
	logPath := filepath.Join(e.OutputDir, fmt.Sprintf(".%s.mcman.log", label))
	logFile, err := os.Create(logPath)
	if err != nil {
		return model.Continue, err
	}
	defer logFile.Close()

	cmd := exec.CommandContext(ctx, inst.Path, args...)
	cmd.Dir = e.OutputDir
	cmd.Stderr = logFile

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return model.Continue, errors.Wrap(err, errors.CategoryInstaller, errors.SeverityFatal, "attach stdout pipe for "+label)
	}
	if err := cmd.Start(); err != nil {
		return model.Continue, errors.Wrap(err, errors.CategoryInstaller, errors.SeverityFatal, "start "+label)
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		fmt.Fprintln(logFile, line)
		e.Observer.Emit(observer.Event{
			Kind:    observer.EventStepProgress,
			RunID:   e.RunID,
			Label:   label,
			Message: line,
		})
	}

	waitErr := cmd.Wait()
	e.Logger.Debug("executeJava finished", logfields.Label(label), logfields.Path(inst.Path))
	if waitErr != nil {
		if exitErr, ok := waitErr.(*exec.ExitError); ok {
			return model.Continue, errors.InstallerFailed(label, exitErr.ExitCode())
		}
		return model.Continue, errors.Wrap(waitErr, errors.CategoryInstaller, errors.SeverityFatal, "wait for "+label)
	}
	return model.Continue, nil
}
