package observer

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recording struct {
	events []Event
}

func (r *recording) Emit(e Event) { r.events = append(r.events, e) }

func TestMultiFansOutToEveryObserver(t *testing.T) {
	a, b := &recording{}, &recording{}
	m := Multi{a, b}
	m.Emit(Event{Kind: EventStageStart, Stage: "build"})
	assert.Len(t, a.events, 1)
	assert.Len(t, b.events, 1)
}

func TestMultiSkipsNilObservers(t *testing.T) {
	a := &recording{}
	m := Multi{nil, a}
	assert.NotPanics(t, func() { m.Emit(Event{Kind: EventWarn}) })
	assert.Len(t, a.events, 1)
}

func TestNoopDiscardsEvents(t *testing.T) {
	assert.NotPanics(t, func() { Noop{}.Emit(Event{Kind: EventError}) })
}

func TestLogObserverWritesStructuredRecord(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	obs := NewLog(logger)
	obs.Emit(Event{Kind: EventError, RunID: "r1", Stage: "download", Message: "boom", Err: errors.New("disk full")})
	out := buf.String()
	assert.Contains(t, out, "boom")
	assert.Contains(t, out, "disk full")
	assert.Contains(t, out, "r1")
}

func TestLogObserverDefaultsToStageLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	obs := NewLog(logger)
	obs.Emit(Event{Kind: EventStepProgress, RunID: "r1", BytesDone: 10, BytesTotal: 100})
	assert.Contains(t, buf.String(), "bytes_done=10")
}
