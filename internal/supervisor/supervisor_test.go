package supervisor

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paradigmmc/mcman-go/internal/observer"
)

type recording struct {
	mu     sync.Mutex
	events []observer.Event
}

func (r *recording) Emit(e observer.Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *recording) lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, e := range r.events {
		if e.Kind == observer.EventStepProgress {
			out = append(out, e.Message)
		}
	}
	return out
}

func fakeServer(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake server script is POSIX shell only")
	}
	path := filepath.Join(t.TempDir(), "java")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o750))
	return path
}

func TestRunStreamsStdoutAndReturnsExitCode(t *testing.T) {
	bin := fakeServer(t, "echo starting\necho done\nexit 0\n")
	obs := &recording{}

	sup := New(Options{Dir: t.TempDir(), JavaBin: bin, Observer: obs})
	code, err := sup.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, []string{"starting", "done"}, obs.lines())
}

func TestRunReportsNonZeroExitWithoutError(t *testing.T) {
	bin := fakeServer(t, "exit 7\n")

	sup := New(Options{Dir: t.TempDir(), JavaBin: bin})
	code, err := sup.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, code)
}

func TestRunForwardsStdinToChild(t *testing.T) {
	bin := fakeServer(t, "read line\necho got-$line\n")

	sup := New(Options{
		Dir:     t.TempDir(),
		JavaBin: bin,
		Stdin:   strings.NewReader("ping\n"),
	})
	obs := &recording{}
	sup.opts.Observer = obs

	code, err := sup.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Contains(t, obs.lines(), "got-ping")
}

func TestRunGracefulShutdownSendsStopCommand(t *testing.T) {
	// The fake server loops until it reads "stop" on stdin, like a real
	// console-driven server.
	bin := fakeServer(t, `while read line; do
  if [ "$line" = "stop" ]; then
    echo stopping
    exit 0
  fi
done
`)

	ctx, cancel := context.WithCancel(context.Background())
	sup := New(Options{Dir: t.TempDir(), JavaBin: bin, GracePeriod: 5 * time.Second})

	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()
	code, err := sup.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
}

func TestRunKillsAfterGracePeriod(t *testing.T) {
	// Ignores stdin entirely, forcing the kill path. exec replaces the
	// shell so the kill lands on the sleeping process itself and the
	// stdout pipe closes immediately.
	bin := fakeServer(t, "exec sleep 60\n")

	ctx, cancel := context.WithCancel(context.Background())
	sup := New(Options{Dir: t.TempDir(), JavaBin: bin, GracePeriod: 200 * time.Millisecond})

	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()
	start := time.Now()
	code, err := sup.Run(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, 0, code)
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestRunMissingBinaryFails(t *testing.T) {
	sup := New(Options{Dir: t.TempDir(), JavaBin: filepath.Join(t.TempDir(), "nope")})
	_, err := sup.Run(context.Background())
	assert.Error(t, err)
}
