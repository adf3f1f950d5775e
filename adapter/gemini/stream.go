package gemini

import (
	"io"

	"github.com/tidwall/gjson"

	"github.com/flowline-ai/genai/chat"
	"github.com/flowline-ai/genai/interstream"
	"github.com/flowline-ai/genai/webtransport"
)

// stream adapts Gemini's streamGenerateContent body, a single JSON array
// written incrementally rather than SSE, into the normalized internal
// event stream. Each array element is itself a full (partial) response
// object, so every Next() call can emit more than one interstream.Event
// from a single array element; pending holds the ones not yet returned.
type stream struct {
	bytes     webtransport.ByteStream
	content   chat.MessageContent
	reasoning string
	usage     *chat.Usage
	pending   []interstream.Event
	ended     bool
	started   bool
}

func newStream(body io.ReadCloser) *stream {
	return &stream{bytes: webtransport.NewPrettyJSONArrayStream(body)}
}

func (s *stream) Next() (interstream.Event, bool, error) {
	if !s.started {
		s.started = true
		return interstream.Event{Kind: interstream.Start}, true, nil
	}
	if len(s.pending) > 0 {
		ev := s.pending[0]
		s.pending = s.pending[1:]
		return ev, true, nil
	}
	if s.ended {
		return interstream.Event{}, false, io.EOF
	}

	for {
		chunk, ok, err := s.bytes.Next()
		if !ok && (err == nil || err == io.EOF) {
			return s.finish(), true, nil
		}
		if err != nil {
			return interstream.Event{}, false, err
		}
		if len(chunk) == 0 {
			continue
		}

		elem := gjson.ParseBytes(chunk)
		parts := elem.Get("candidates.0.content.parts")
		content, reasoning := translateParts(parts)
		s.content = append(s.content, content...)
		s.reasoning += reasoning

		for _, c := range content {
			switch v := c.(type) {
			case chat.TextPart:
				s.pending = append(s.pending, interstream.Event{Kind: interstream.Chunk, Text: v.Text})
			case chat.ToolCallPart:
				s.pending = append(s.pending, interstream.Event{Kind: interstream.ToolCallChunk, ToolCall: v.ToolCall})
			}
		}
		if reasoning != "" {
			s.pending = append(s.pending, interstream.Event{Kind: interstream.ReasoningChunk, Text: reasoning})
		}

		// Gemini's per-event usageMetadata is undocumented as cumulative
		// vs incremental; this adapter assumes cumulative and keeps only
		// the last value seen, so only the final End.usage is meaningful.
		if um := elem.Get("usageMetadata"); um.Exists() {
			u := chat.AddGeminiUsage(
				int(um.Get("promptTokenCount").Int()),
				int(um.Get("cachedContentTokenCount").Int()),
				int(um.Get("candidatesTokenCount").Int()),
				int(um.Get("totalTokenCount").Int()),
				int(um.Get("thoughtsTokenCount").Int()),
			)
			s.usage = &u
		}

		if len(s.pending) > 0 {
			ev := s.pending[0]
			s.pending = s.pending[1:]
			return ev, true, nil
		}
	}
}

func (s *stream) finish() interstream.Event {
	s.ended = true
	return interstream.Event{Kind: interstream.End, End: interstream.StreamEnd{
		CapturedUsage:            s.usage,
		CapturedContent:          s.content,
		CapturedReasoningContent: s.reasoning,
	}}
}

func (s *stream) Close() error { return s.bytes.Close() }
