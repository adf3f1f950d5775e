package openairesp

import (
	"encoding/json"
	"io"

	"github.com/flowline-ai/genai/chat"
	"github.com/flowline-ai/genai/interstream"
	"github.com/flowline-ai/genai/webtransport"
)

// wireStreamEvent mirrors the fields this adapter reads off the Responses
// API's named "response.*" SSE events. Unlike Chat Completions, each event
// carries an explicit type rather than a uniform delta shape, so one
// struct covers every event kind with most fields left zero per event.
type wireStreamEvent struct {
	Type string `json:"type"`

	Delta string `json:"delta"`

	Item struct {
		Type   string `json:"type"`
		CallID string `json:"call_id"`
		Name   string `json:"name"`
	} `json:"item"`

	Response wireResponse `json:"response"`
}

type stream struct {
	sse       *webtransport.SSEStream
	tools     *interstream.ToolAssembler
	toolIndex map[int]bool
	content   chat.MessageContent
	reasoning string
	usage     *chat.Usage
	ended     bool
	started   bool
}

func newStream(body io.ReadCloser) *stream {
	return &stream{sse: webtransport.NewSSEStream(body), tools: interstream.NewToolAssembler(), toolIndex: map[int]bool{}}
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
			return s.finish(nil), true, nil
		}
		if err != nil {
			return interstream.Event{}, false, err
		}
		if ev.Data == "" {
			continue
		}

		var wire wireStreamEvent
		if err := json.Unmarshal([]byte(ev.Data), &wire); err != nil {
			continue
		}

		switch wire.Type {
		case "response.output_text.delta":
			if wire.Delta == "" {
				continue
			}
			s.content = append(s.content, chat.TextPart{Text: wire.Delta})
			return interstream.Event{Kind: interstream.Chunk, Text: wire.Delta}, true, nil
		case "response.reasoning_summary_text.delta":
			if wire.Delta == "" {
				continue
			}
			s.reasoning += wire.Delta
			return interstream.Event{Kind: interstream.ReasoningChunk, Text: wire.Delta}, true, nil
		case "response.output_item.added":
			if wire.Item.Type == "function_call" {
				idx := len(s.toolIndex)
				s.toolIndex[idx] = true
				s.tools.Start(idx, wire.Item.CallID, wire.Item.Name)
			}
		case "response.function_call_arguments.delta":
			if wire.Delta == "" {
				continue
			}
			s.tools.AddFragment(s.lastToolIndex(), wire.Delta)
		case "response.output_item.done":
			if tc, ok := s.tools.Finish(s.lastToolIndex()); ok {
				s.content = append(s.content, chat.ToolCallPart{ToolCall: tc})
				return interstream.Event{Kind: interstream.ToolCallChunk, ToolCall: tc}, true, nil
			}
		case "response.completed", "response.incomplete":
			return s.finish(&wire.Response.Usage), true, nil
		case "response.failed", "error":
			continue
		}
	}
}

// lastToolIndex returns the most recently started tool-call index. The
// Responses API streams one function_call item at a time to completion
// before starting the next, so tracking "most recent" is sufficient; it
// never interleaves fragments across two in-flight calls.
func (s *stream) lastToolIndex() int {
	return len(s.toolIndex) - 1
}

func (s *stream) finish(usage *wireResponseUsage) interstream.Event {
	s.ended = true
	if usage != nil && (usage.InputTokens != 0 || usage.OutputTokens != 0) {
		u := chat.Usage{
			PromptTokens:     usage.InputTokens,
			CompletionTokens: usage.OutputTokens,
			TotalTokens:      usage.TotalTokens,
		}
		if usage.InputTokensDetails.CachedTokens != 0 {
			u.PromptTokensDetails = &chat.PromptTokensDetails{Cached: usage.InputTokensDetails.CachedTokens}
		}
		if usage.OutputTokensDetails.ReasoningTokens != 0 {
			u.CompletionTokensDetails = &chat.CompletionTokensDetails{Reasoning: usage.OutputTokensDetails.ReasoningTokens}
		}
		u = u.CompactDetails()
		s.usage = &u
	}
	return interstream.Event{Kind: interstream.End, End: interstream.StreamEnd{
		CapturedUsage:            s.usage,
		CapturedContent:          s.content,
		CapturedReasoningContent: s.reasoning,
	}}
}

func (s *stream) Close() error { return s.sse.Close() }
