package stream

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/okian/softcopyright/internal/domain/types"
	"github.com/okian/softcopyright/pkg/metrics"
)

// DoneMarker terminates OpenAI-style chat streams.
const DoneMarker = "[DONE]"

// maxLine bounds a single SSE line. Generated pages arrive in one frame.
const maxLine = 8 << 20

// Event is one server-sent event. Name defaults to "message".
type Event struct {
	Name string
	ID   string
	Data string
}

// Done reports whether the event is the chat-stream terminator.
func (e Event) Done() bool { return strings.TrimSpace(e.Data) == DoneMarker }

// Decode unmarshals the event data into v.
func (e Event) Decode(v any) error {
	return json.Unmarshal([]byte(e.Data), v)
}

// Generation decodes a generation endpoint frame.
func (e Event) Generation() (types.StreamEvent, error) {
	var ev types.StreamEvent
	err := e.Decode(&ev)
	return ev, err
}

// Reader splits an event stream into events.
type Reader struct {
	sc *bufio.Scanner
}

// NewReader wraps r, usually a streaming response body.
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	return &Reader{sc: sc}
}

// Next returns the next event, or io.EOF when the stream ends cleanly.
// Comment lines and unknown fields are skipped.
func (r *Reader) Next() (Event, error) {
	var (
		ev      Event
		data    []string
		pending bool
	)
	for r.sc.Scan() {
		line := strings.TrimSuffix(r.sc.Text(), "\r")
		if line == "" {
			if pending {
				return finish(ev, data), nil
			}
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}
		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")
		switch field {
		case "event":
			ev.Name = value
			pending = true
		case "data":
			data = append(data, value)
			pending = true
		case "id":
			ev.ID = value
			pending = true
		}
	}
	if err := r.sc.Err(); err != nil {
		return Event{}, err
	}
	if pending {
		return finish(ev, data), nil
	}
	return Event{}, io.EOF
}

func finish(ev Event, data []string) Event {
	ev.Data = strings.Join(data, "\n")
	if ev.Name == "" {
		ev.Name = "message"
	}
	metrics.RecordStreamEvent(ev.Name)
	return ev
}

// Each calls fn for every event until the stream ends, fn returns an error,
// or a [DONE] marker is read.
func (r *Reader) Each(fn func(Event) error) error {
	for {
		ev, err := r.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if ev.Done() {
			return nil
		}
		if err := fn(ev); err != nil {
			return err
		}
	}
}
