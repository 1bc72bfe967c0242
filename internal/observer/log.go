package observer

import (
	"log/slog"

	"github.com/paradigmmc/mcman-go/internal/logfields"
)

// LogObserver renders every event through slog, the default the CLI wires
// in when no other Observer is requested.
type LogObserver struct {
	Logger *slog.Logger
}

// NewLog builds a LogObserver over logger, or slog.Default() if nil.
func NewLog(logger *slog.Logger) *LogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogObserver{Logger: logger}
}

func (l *LogObserver) Emit(e Event) {
	attrs := []slog.Attr{slog.String("run_id", e.RunID)}
	if e.Server != "" {
		attrs = append(attrs, logfields.Server(e.Server))
	}
	if e.Stage != "" {
		attrs = append(attrs, logfields.Stage(e.Stage))
	}
	if e.Label != "" {
		attrs = append(attrs, logfields.Label(e.Label))
	}

	switch e.Kind {
	case EventStageStart:
		l.Logger.LogAttrs(nil, slog.LevelInfo, "stage start", attrs...)
	case EventStageEnd:
		l.Logger.LogAttrs(nil, slog.LevelInfo, "stage end", attrs...)
	case EventStepProgress:
		attrs = append(attrs, slog.Int64("bytes_done", e.BytesDone), slog.Int64("bytes_total", e.BytesTotal))
		l.Logger.LogAttrs(nil, slog.LevelDebug, e.Message, attrs...)
	case EventWarn:
		attrs = append(attrs, slog.String("message", e.Message))
		l.Logger.LogAttrs(nil, slog.LevelWarn, "build warning", attrs...)
	case EventError:
		if e.Err != nil {
			attrs = append(attrs, logfields.Err(e.Err))
		}
		l.Logger.LogAttrs(nil, slog.LevelError, e.Message, attrs...)
	default:
		l.Logger.LogAttrs(nil, slog.LevelInfo, e.Message, attrs...)
	}
}
