package crawler

import (
	"encoding/json"
	"fmt"
)

// EventKind distinguishes the three shapes of stream events
type EventKind int

const (
	EventLog EventKind = iota
	EventProgress
	EventComplete
)

// Event is one item of the crawl stream
type Event struct {
	Kind     EventKind
	Message  string
	Progress int
	Scanned  int
	Download string
}

// EventSink receives events in order. It is called synchronously from
// the crawl loop, so every event is delivered before the next fetch.
type EventSink func(Event)

// Log line prefixes
const (
	iconOK     = "✅"
	iconError  = "❌"
	iconMail   = "📧"
	iconOutbnd = "🔗"
)

// CompleteMessage is the log text of the final event
const CompleteMessage = iconOK + " Crawl complete"

func logEvent(format string, args ...any) Event {
	return Event{Kind: EventLog, Message: fmt.Sprintf(format, args...)}
}

func progressEvent(scanned, remaining int) Event {
	return Event{
		Kind:     EventProgress,
		Progress: scanned * 100 / (scanned + remaining),
		Scanned:  scanned,
	}
}

type logPayload struct {
	Log string `json:"log"`
}

type progressPayload struct {
	Progress int `json:"progress"`
	Scanned  int `json:"scanned"`
}

type completePayload struct {
	Log      string `json:"log"`
	Download string `json:"download"`
}

// MarshalJSON produces {"log"}, {"progress","scanned"} or {"log","download"}
func (e Event) MarshalJSON() ([]byte, error) {
	switch e.Kind {
	case EventProgress:
		return json.Marshal(progressPayload{Progress: e.Progress, Scanned: e.Scanned})
	case EventComplete:
		return json.Marshal(completePayload{Log: e.Message, Download: e.Download})
	default:
		return json.Marshal(logPayload{Log: e.Message})
	}
}
