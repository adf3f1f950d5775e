package anthropic

import (
	"encoding/json"
	"io"

	"github.com/flowline-ai/genai/chat"
	"github.com/flowline-ai/genai/interstream"
	"github.com/flowline-ai/genai/webtransport"
)

// wireEvent mirrors one Anthropic Messages API SSE event. Only the fields
// this adapter reads are declared.
type wireEvent struct {
	Type  string `json:"type"`
	Index int    `json:"index"`

	ContentBlock struct {
		Type string `json:"type"`
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"content_block"`

	Delta struct {
		Type        string `json:"type"`
		Text        string `json:"text"`
		PartialJSON string `json:"partial_json"`
		Thinking    string `json:"thinking"`
		Signature   string `json:"signature"`
		StopReason  string `json:"stop_reason"`
	} `json:"delta"`

	Usage wireUsage `json:"usage"`
}

// stream adapts Anthropic's Messages SSE body into the module's
// normalized interstream.Stream, mirroring the teacher's toolBuffer/
// thinkingBuffer per-content-block accumulation but emitting the generic
// event kinds every adapter shares.
type stream struct {
	sse       *webtransport.SSEStream
	tools     *interstream.ToolAssembler
	content   chat.MessageContent
	reasoning string
	model     string
	usage     *chat.Usage
	ended     bool
	started   bool
}

func newStream(body io.ReadCloser) *stream {
	return &stream{sse: webtransport.NewSSEStream(body), tools: interstream.NewToolAssembler()}
}

func (s *stream) Next() (interstream.Event, bool, error) {
	if !s.started {
		s.started = true
		return interstream.Event{Kind: interstream.Start}, true, nil
	}
	if s.ended {
		return interstream.Event{}, false, io.EOF
	}

	for {
		ev, ok, err := s.sse.Next()
		if !ok && (err == nil || err == io.EOF) {
			return s.finish(), true, nil
		}
		if err != nil {
			return interstream.Event{}, false, err
		}
		if ev.Data == "" {
			continue
		}

		var wire wireEvent
		if err := json.Unmarshal([]byte(ev.Data), &wire); err != nil {
			continue
		}

		switch wire.Type {
		case "content_block_start":
			if wire.ContentBlock.Type == "tool_use" {
				s.tools.Start(wire.Index, wire.ContentBlock.ID, wire.ContentBlock.Name)
			}
		case "content_block_delta":
			switch wire.Delta.Type {
			case "text_delta":
				if wire.Delta.Text == "" {
					continue
				}
				s.content = append(s.content, chat.TextPart{Text: wire.Delta.Text})
				return interstream.Event{Kind: interstream.Chunk, Text: wire.Delta.Text}, true, nil
			case "input_json_delta":
				if wire.Delta.PartialJSON == "" {
					continue
				}
				s.tools.AddFragment(wire.Index, wire.Delta.PartialJSON)
				continue
			case "thinking_delta":
				if wire.Delta.Thinking == "" {
					continue
				}
				s.reasoning += wire.Delta.Thinking
				return interstream.Event{Kind: interstream.ReasoningChunk, Text: wire.Delta.Thinking}, true, nil
			case "signature_delta":
				continue
			}
		case "content_block_stop":
			if tc, ok := s.tools.Finish(wire.Index); ok {
				s.content = append(s.content, chat.ToolCallPart{ToolCall: tc})
				return interstream.Event{Kind: interstream.ToolCallChunk, ToolCall: tc}, true, nil
			}
		case "message_delta":
			if wire.Usage.OutputTokens != 0 || wire.Usage.InputTokens != 0 {
				u := chat.AddAnthropicCacheUsage(wire.Usage.InputTokens, wire.Usage.CacheCreationInputTokens, wire.Usage.CacheReadInputTokens, wire.Usage.OutputTokens)
				s.usage = &u
			}
		case "message_stop":
			return s.finish(), true, nil
		case "error":
			continue
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

func (s *stream) Close() error { return s.sse.Close() }
