package ollama

import (
	"encoding/json"
	"io"

	"github.com/flowline-ai/genai/chat"
	"github.com/flowline-ai/genai/interstream"
	"github.com/flowline-ai/genai/webtransport"
)

// stream adapts Ollama's newline-delimited JSON /api/chat stream into the
// normalized internal event stream. Unlike the Responses/Anthropic APIs,
// Ollama emits a tool call whole in a single line rather than fragmented
// across deltas, so no interstream.ToolAssembler is needed.
type stream struct {
	lines   webtransport.ByteStream
	content chat.MessageContent
	usage   *chat.Usage
	pending []interstream.Event
	ended   bool
	started bool
}

func newStream(body io.ReadCloser, opts chat.ChatOptions) *stream {
	return &stream{lines: webtransport.NewDelimiterStream(body, []byte("\n"))}
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
		line, ok, err := s.lines.Next()
		if !ok && (err == nil || err == io.EOF) {
			return s.finish(), true, nil
		}
		if err != nil {
			return interstream.Event{}, false, err
		}
		if len(line) == 0 {
			continue
		}

		var wire wireResponse
		if err := json.Unmarshal(line, &wire); err != nil {
			return interstream.Event{}, false, err
		}

		if wire.Message.Content != "" {
			s.content = append(s.content, chat.TextPart{Text: wire.Message.Content})
			s.pending = append(s.pending, interstream.Event{Kind: interstream.Chunk, Text: wire.Message.Content})
		}
		for _, tc := range wire.Message.ToolCalls {
			call := chat.ToolCall{FnName: tc.Function.Name, FnArgs: tc.Function.Arguments}
			s.content = append(s.content, chat.ToolCallPart{ToolCall: call})
			s.pending = append(s.pending, interstream.Event{Kind: interstream.ToolCallChunk, ToolCall: call})
		}

		if wire.Done {
			// A final line that reports no eval counts leaves usage
			// absent rather than a zeroed struct.
			if wire.PromptEvalCount != 0 || wire.EvalCount != 0 {
				u := chat.Usage{PromptTokens: wire.PromptEvalCount, CompletionTokens: wire.EvalCount}
				u.TotalTokens = u.PromptTokens + u.CompletionTokens
				s.usage = &u
			}
			s.pending = append(s.pending, s.finish())
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
		CapturedUsage:   s.usage,
		CapturedContent: s.content,
	}}
}

func (s *stream) Close() error { return s.lines.Close() }
