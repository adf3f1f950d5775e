package webtransport

import (
	"io"
	"strings"
)

// SSEEvent is one parsed Server-Sent Event frame.
type SSEEvent struct {
	Event string
	Data  string
	ID    string
}

// SSEStream parses "text/event-stream" framing (blocks separated by a
// blank line, each block made of "field: value" lines) on top of a
// Delimiter("\n\n") ByteStream. OpenAI-family, Anthropic, and Cohere all
// use this framing.
type SSEStream struct {
	frames ByteStream
}

// NewSSEStream wraps body as an SSE event stream.
func NewSSEStream(body io.ReadCloser) *SSEStream {
	return &SSEStream{frames: NewDelimiterStream(body, []byte("\n\n"))}
}

// Next returns the next parsed SSE event, or ok=false with io.EOF once the
// stream ends.
func (s *SSEStream) Next() (SSEEvent, bool, error) {
	raw, ok, err := s.frames.Next()
	if !ok {
		return SSEEvent{}, false, err
	}
	return parseSSEFrame(raw), true, nil
}

// Close releases the underlying transport.
func (s *SSEStream) Close() error { return s.frames.Close() }

func parseSSEFrame(raw []byte) SSEEvent {
	var ev SSEEvent
	var dataLines []string
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == "" || strings.HasPrefix(line, ":") {
			continue
		}
		field, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		value = strings.TrimPrefix(value, " ")
		switch field {
		case "event":
			ev.Event = value
		case "data":
			dataLines = append(dataLines, value)
		case "id":
			ev.ID = value
		}
	}
	ev.Data = strings.Join(dataLines, "\n")
	return ev
}

// IsDone reports whether an SSE event signals stream completion using the
// conventional "[DONE]" sentinel payload OpenAI-family providers emit.
func IsDone(ev SSEEvent) bool {
	return strings.TrimSpace(ev.Data) == "[DONE]"
}
