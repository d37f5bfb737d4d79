package stub

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Event names used on generation streams.
const (
	eventData     = "data"
	eventProgress = "progress"
	eventComplete = "complete"
	eventError    = "error"
)

// sseWriter writes server-sent events and flushes after each one.
type sseWriter struct {
	w     http.ResponseWriter
	f     http.Flusher
	delay time.Duration
}

func newSSEWriter(w http.ResponseWriter, delay time.Duration) *sseWriter {
	w.Header().Set("Content-Type", "text/event-stream;charset=UTF-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	f, _ := w.(http.Flusher)
	return &sseWriter{w: w, f: f, delay: delay}
}

// send writes one named event with v as JSON data. It returns ctx.Err()
// once the client has gone away.
func (s *sseWriter) send(ctx context.Context, name string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.raw(ctx, name, string(data))
}

func (s *sseWriter) raw(ctx context.Context, name, data string) error {
	if name != "" {
		if _, err := fmt.Fprintf(s.w, "event:%s\n", name); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(s.w, "data:%s\n\n", data); err != nil {
		return err
	}
	if s.f != nil {
		s.f.Flush()
	}
	if s.delay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.delay):
		}
	}
	return nil
}
