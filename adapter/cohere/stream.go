package cohere

import (
	"io"

	"github.com/tidwall/gjson"

	"github.com/flowline-ai/genai/chat"
	"github.com/flowline-ai/genai/interstream"
	"github.com/flowline-ai/genai/webtransport"
)

type stream struct {
	sse       *webtransport.SSEStream
	tools     *interstream.ToolAssembler
	toolIndex int
	content   chat.MessageContent
	usage     *chat.Usage
	ended     bool
	started   bool
}

func newStream(body io.ReadCloser) *stream {
	return &stream{sse: webtransport.NewSSEStream(body), tools: interstream.NewToolAssembler(), toolIndex: -1}
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

		wire := gjson.Parse(ev.Data)
		switch wire.Get("type").String() {
		case "content-delta":
			text := wire.Get("delta.message.content.text").String()
			if text == "" {
				continue
			}
			s.content = append(s.content, chat.TextPart{Text: text})
			return interstream.Event{Kind: interstream.Chunk, Text: text}, true, nil
		case "tool-call-start":
			s.toolIndex++
			s.tools.Start(s.toolIndex, wire.Get("delta.message.tool_calls.id").String(), wire.Get("delta.message.tool_calls.function.name").String())
		case "tool-call-delta":
			frag := wire.Get("delta.message.tool_calls.function.arguments").String()
			if frag == "" {
				continue
			}
			s.tools.AddFragment(s.toolIndex, frag)
		case "tool-call-end":
			if tc, ok := s.tools.Finish(s.toolIndex); ok {
				s.content = append(s.content, chat.ToolCallPart{ToolCall: tc})
				return interstream.Event{Kind: interstream.ToolCallChunk, ToolCall: tc}, true, nil
			}
		case "message-end":
			billed := wire.Get("delta.usage.billed_units")
			if billed.Exists() {
				u := chat.Usage{
					PromptTokens:     int(billed.Get("input_tokens").Int()),
					CompletionTokens: int(billed.Get("output_tokens").Int()),
				}
				u.TotalTokens = u.PromptTokens + u.CompletionTokens
				s.usage = &u
			}
			return s.finish(), true, nil
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

func (s *stream) Close() error { return s.sse.Close() }
