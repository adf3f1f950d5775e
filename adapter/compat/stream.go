package compat

import (
	"encoding/json"
	"io"

	"github.com/flowline-ai/genai/chat"
	"github.com/flowline-ai/genai/interstream"
	"github.com/flowline-ai/genai/webtransport"
)

// streamWire mirrors the fields this module reads off an OpenAI-compatible
// streaming chunk. Kept local rather than reusing go-openai's
// ChatCompletionStreamResponse because several OpenAI-compatible providers
// (DeepSeek's reasoning_content, Groq's x_groq usage block) add fields
// go-openai's stream struct doesn't model.
type streamWire struct {
	Model   string `json:"model"`
	Choices []struct {
		Delta struct {
			Content          string `json:"content"`
			ReasoningContent string `json:"reasoning_content"`
			ToolCalls        []struct {
				Index    int    `json:"index"`
				ID       string `json:"id"`
				Function struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"delta"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// stream adapts an OpenAI-compatible SSE body into the module's normalized
// interstream.Stream, assembling fragmented tool-call arguments and
// splitting a reasoning_content field into its own chunk kind.
type stream struct {
	sse       *webtransport.SSEStream
	tools     *interstream.ToolAssembler
	content   chat.MessageContent
	reasoning string
	model     string
	usage     *chat.Usage
	started   bool
	ended     bool
}

func newStream(body io.ReadCloser) *stream {
	return &stream{
		sse:   webtransport.NewSSEStream(body),
		tools: interstream.NewToolAssembler(),
	}
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
		if webtransport.IsDone(ev) {
			return s.finish(), true, nil
		}
		if ev.Data == "" {
			continue
		}

		var wire streamWire
		if err := json.Unmarshal([]byte(ev.Data), &wire); err != nil {
			continue
		}
		if wire.Model != "" {
			s.model = wire.Model
		}
		if wire.Usage != nil {
			s.usage = &chat.Usage{
				PromptTokens:     wire.Usage.PromptTokens,
				CompletionTokens: wire.Usage.CompletionTokens,
				TotalTokens:      wire.Usage.TotalTokens,
			}
		}
		if len(wire.Choices) == 0 {
			continue
		}
		choice := wire.Choices[0]

		if choice.Delta.Content != "" {
			s.content = append(s.content, chat.TextPart{Text: choice.Delta.Content})
			return interstream.Event{Kind: interstream.Chunk, Text: choice.Delta.Content}, true, nil
		}
		if choice.Delta.ReasoningContent != "" {
			s.reasoning += choice.Delta.ReasoningContent
			return interstream.Event{Kind: interstream.ReasoningChunk, Text: choice.Delta.ReasoningContent}, true, nil
		}
		for _, tc := range choice.Delta.ToolCalls {
			if tc.ID != "" || tc.Function.Name != "" {
				s.tools.Start(tc.Index, tc.ID, tc.Function.Name)
			}
			if tc.Function.Arguments != "" {
				s.tools.AddFragment(tc.Index, tc.Function.Arguments)
			}
		}
		if choice.FinishReason == "tool_calls" || (choice.FinishReason != "" && len(choice.Delta.ToolCalls) > 0) {
			continue
		}
		if choice.FinishReason != "" {
			return s.finish(), true, nil
		}
	}
}

// finish flushes any in-flight tool-call buffers into the accumulated
// content and returns the terminal End event.
func (s *stream) finish() interstream.Event {
	s.ended = true
	for i := 0; ; i++ {
		tc, ok := s.tools.Finish(i)
		if !ok {
			break
		}
		s.content = append(s.content, chat.ToolCallPart{ToolCall: tc})
	}
	return interstream.Event{Kind: interstream.End, End: interstream.StreamEnd{
		CapturedUsage:            s.usage,
		CapturedContent:          s.content,
		CapturedReasoningContent: s.reasoning,
	}}
}

func (s *stream) Close() error { return s.sse.Close() }
