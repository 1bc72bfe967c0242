package observer

import (
	"encoding/json"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/paradigmmc/mcman-go/internal/logfields"
)

// wireEvent is Event's JSON-serializable shape (error turned into a string
// since error isn't itself marshalable).
type wireEvent struct {
	Kind       EventKind `json:"kind"`
	RunID      string    `json:"run_id"`
	Stage      string    `json:"stage,omitempty"`
	Server     string    `json:"server,omitempty"`
	Label      string    `json:"label,omitempty"`
	Message    string    `json:"message,omitempty"`
	Err        string    `json:"error,omitempty"`
	BytesDone  int64     `json:"bytes_done,omitempty"`
	BytesTotal int64     `json:"bytes_total,omitempty"`
}

// NATSObserver publishes every event as JSON to subject, for an
// out-of-process dashboard to subscribe to. It never blocks the build on
// subscriber presence: nats.Conn.Publish is fire-and-forget.
type NATSObserver struct {
	Conn    *nats.Conn
	Subject string
	Logger  *slog.Logger
}

// NewNATS builds a NATSObserver publishing to subject over conn.
func NewNATS(conn *nats.Conn, subject string, logger *slog.Logger) *NATSObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &NATSObserver{Conn: conn, Subject: subject, Logger: logger}
}

func (n *NATSObserver) Emit(e Event) {
	w := wireEvent{
		Kind: e.Kind, RunID: e.RunID, Stage: e.Stage, Server: e.Server,
		Label: e.Label, Message: e.Message, BytesDone: e.BytesDone, BytesTotal: e.BytesTotal,
	}
	if e.Err != nil {
		w.Err = e.Err.Error()
	}
	payload, err := json.Marshal(w)
	if err != nil {
		n.Logger.Warn("observer: failed to marshal event", logfields.Err(err))
		return
	}
	if err := n.Conn.Publish(n.Subject, payload); err != nil {
		n.Logger.Warn("observer: failed to publish event", logfields.Err(err))
	}
}
