package client

import (
	"time"

	"github.com/yndnr/kvwire-go/pkg/resp"
)

// Event describes one side of a request/reply exchange.
type Event struct {
	// ID correlates a request with its reply. It is the request ID of the
	// command's context when set, otherwise a new ULID.
	ID string
	// Command is the command name, e.g. "SET".
	Command string
	// Payload holds the exact wire bytes written or read. Observers must
	// not retain or modify it.
	Payload []byte
	// Reply is the decoded reply. Only set on received events.
	Reply resp.Value
	// Elapsed is the time since the request was written.
	Elapsed time.Duration
	// Err is the transport or parse error, if any.
	Err error
}

// Observer is notified of traffic. Calls happen on the goroutine that runs
// the command, while the client lock is held.
type Observer interface {
	Sent(Event)
	Received(Event)
}

type multiObserver []Observer

// Observers fans events out to every observer, in order.
func Observers(obs ...Observer) Observer {
	var out multiObserver
	for _, o := range obs {
		if o == nil {
			continue
		}
		if m, ok := o.(multiObserver); ok {
			out = append(out, m...)
			continue
		}
		out = append(out, o)
	}
	return out
}

func (m multiObserver) Sent(e Event) {
	for _, o := range m {
		o.Sent(e)
	}
}

func (m multiObserver) Received(e Event) {
	for _, o := range m {
		o.Received(e)
	}
}
