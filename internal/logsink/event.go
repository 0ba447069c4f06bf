// Package logsink carries user-facing pipeline events (progress, success,
// warnings, errors) and the diagnostics logger.
package logsink

import (
	"fmt"
	"regexp"
	"sync"
	"time"
)

// Severity classifies an Event.
type Severity int

const (
	Info Severity = iota
	Success
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Success:
		return "SUCCESS"
	case Warning:
		return "WARNING"
	case Error:
		return "ERROR"
	default:
		return "INFO"
	}
}

// ParseSeverity is the inverse of Severity.String; unknown names are Info.
func ParseSeverity(s string) Severity {
	switch s {
	case "SUCCESS":
		return Success
	case "WARNING":
		return Warning
	case "ERROR":
		return Error
	default:
		return Info
	}
}

// timeLayout matches the "en" locale MM/DD/YYYY, HH:MM:SS form used in logs.
const timeLayout = "01/02/2006, 15:04:05"

// Event is one log entry. Events are produced by the pipeline and never
// read back by it.
type Event struct {
	Severity Severity
	Message  string
	Time     time.Time
}

// String renders the event as "[time] [LEVEL] message".
func (e Event) String() string {
	return fmt.Sprintf("[%s] [%s] %s", e.Time.Format(timeLayout), e.Severity, e.Message)
}

var lineRe = regexp.MustCompile(`^\[(.*?)\] \[(.*?)\] (.*)$`)

// ParseLine reverses Event.String. Lines that do not match are returned as
// an Info event carrying the whole line.
func ParseLine(line string) Event {
	m := lineRe.FindStringSubmatch(line)
	if m == nil {
		return Event{Severity: Info, Message: line}
	}
	t, _ := time.ParseInLocation(timeLayout, m[1], time.Local)
	return Event{Severity: ParseSeverity(m[2]), Message: m[3], Time: t}
}

// Sink receives events.
type Sink interface {
	Emit(Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event)

func (f SinkFunc) Emit(e Event) { f(e) }

// Discard drops every event.
var Discard Sink = SinkFunc(func(Event) {})

// Clock stamps events; tests replace it.
var Clock = time.Now

// New builds an event stamped with Clock.
func New(sev Severity, format string, args ...any) Event {
	return Event{Severity: sev, Message: fmt.Sprintf(format, args...), Time: Clock()}
}

// Buffer is an append-only, concurrency-safe Sink.
type Buffer struct {
	mu     sync.Mutex
	events []Event
}

// Emit appends e and mirrors it to the diagnostics logger.
func (b *Buffer) Emit(e Event) {
	b.mu.Lock()
	b.events = append(b.events, e)
	b.mu.Unlock()
	logEvent(e)
}

// Events returns a copy of every event so far.
func (b *Buffer) Events() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Event, len(b.events))
	copy(out, b.events)
	return out
}

// Len returns the number of events.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.events)
}

// Count returns how many events have the given severity.
func (b *Buffer) Count(sev Severity) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, e := range b.events {
		if e.Severity == sev {
			n++
		}
	}
	return n
}
