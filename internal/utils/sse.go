package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// SSEWriter frames server-sent events and flushes after each one.
type SSEWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

func NewSSEWriter(w http.ResponseWriter) *SSEWriter {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	f, _ := w.(http.Flusher)
	return &SSEWriter{w: w, flusher: f}
}

// Event writes one event. Empty id or event lines are left out; multi-line
// data becomes one data line per line.
func (s *SSEWriter) Event(id, event, data string) error {
	var b strings.Builder
	if id != "" {
		fmt.Fprintf(&b, "id: %s\n", id)
	}
	if event != "" {
		fmt.Fprintf(&b, "event: %s\n", event)
	}
	for _, line := range strings.Split(data, "\n") {
		fmt.Fprintf(&b, "data: %s\n", line)
	}
	b.WriteString("\n")
	return s.send(b.String())
}

func (s *SSEWriter) WriteJSON(id, event string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", event, err)
	}
	return s.Event(id, event, string(data))
}

// Comment writes a line clients ignore; used as a keep-alive.
func (s *SSEWriter) Comment(text string) error {
	return s.send(": " + text + "\n\n")
}

// Close tells the client the stream ended on purpose.
func (s *SSEWriter) Close() error {
	return s.Event("", "close", "{}")
}

func (s *SSEWriter) send(frame string) error {
	if _, err := fmt.Fprint(s.w, frame); err != nil {
		return err
	}
	if s.flusher != nil {
		s.flusher.Flush()
	}
	return nil
}
