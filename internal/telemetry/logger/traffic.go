package logger

import (
	"log/slog"
	"strconv"

	"github.com/yndnr/kvwire-go/pkg/client"
)

// DefaultMaxPayload is the number of wire bytes kept in a traffic record.
const DefaultMaxPayload = 512

// TrafficObserver logs every request and reply at debug level.
type TrafficObserver struct {
	log        Logger
	maxPayload int
}

// NewTrafficObserver returns an observer writing to l. Payloads longer than
// maxPayload bytes are truncated; zero selects DefaultMaxPayload.
func NewTrafficObserver(l Logger, maxPayload int) *TrafficObserver {
	if maxPayload <= 0 {
		maxPayload = DefaultMaxPayload
	}
	return &TrafficObserver{log: l, maxPayload: maxPayload}
}

var _ client.Observer = (*TrafficObserver)(nil)

// Sent implements client.Observer.
func (o *TrafficObserver) Sent(e client.Event) {
	if !o.log.Enabled(slog.LevelDebug) {
		return
	}
	args := []any{
		"request_id", e.ID,
		"command", e.Command,
		"bytes", len(e.Payload),
		"payload", o.quote(e.Payload),
	}
	if e.Err != nil {
		args = append(args, "error", e.Err)
	}
	o.log.Debug("sent", args...)
}

// Received implements client.Observer.
func (o *TrafficObserver) Received(e client.Event) {
	if !o.log.Enabled(slog.LevelDebug) {
		return
	}
	args := []any{
		"request_id", e.ID,
		"command", e.Command,
		"bytes", len(e.Payload),
		"payload", o.quote(e.Payload),
		"elapsed", e.Elapsed,
	}
	if e.Err != nil {
		args = append(args, "error", e.Err)
	}
	o.log.Debug("received", args...)
}

// quote renders CR and LF visibly so one record stays on one line.
func (o *TrafficObserver) quote(p []byte) string {
	if len(p) > o.maxPayload {
		return strconv.Quote(string(p[:o.maxPayload])) + "..."
	}
	return strconv.Quote(string(p))
}
