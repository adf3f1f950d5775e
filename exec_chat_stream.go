package genai

import (
	"context"
	"io"

	"github.com/flowline-ai/genai/adapter"
	"github.com/flowline-ai/genai/chat"
	"github.com/flowline-ai/genai/gaierr"
	"github.com/flowline-ai/genai/interstream"
	"github.com/flowline-ai/genai/webtransport"
)

// ExecChatStream resolves model, dispatches to the matching adapter, and
// opens a streamed chat-completion call. The returned ChatStream's Next
// must be drained (or Close called early) by the caller.
func (c *Client) ExecChatStream(ctx context.Context, model ModelRef, req chat.ChatRequest) (chat.ChatStreamResponse, error) {
	if len(req.Messages) == 0 {
		return chat.ChatStreamResponse{}, gaierr.ErrChatReqHasNoMessages
	}

	target, err := c.resolver.Resolve(model)
	if err != nil {
		return chat.ChatStreamResponse{}, err
	}

	a, ok := adapter.Dispatch(target.Model.AdapterKind)
	if !ok {
		return chat.ChatStreamResponse{}, &gaierr.ErrAdapterNotSupported{Adapter: string(target.Model.AdapterKind), Feature: "chat_stream"}
	}

	opts := c.defaultChatOptions.Merge(req.Options)

	reqData, err := a.BuildChatRequest(target, req, opts, true)
	if err != nil {
		return chat.ChatStreamResponse{}, err
	}
	reqData.Headers = c.stampRequestIDHeader(reqData.Headers)

	c.logger.Debug(ctx, "chat stream request", "adapter", string(target.Model.AdapterKind), "model", string(target.Model.ModelName))

	streamResp, err := webtransport.DoStream(ctx, c.httpClient, reqData)
	if err != nil {
		return chat.ChatStreamResponse{}, err
	}
	if streamResp.Status < 200 || streamResp.Status >= 300 {
		body, _ := io.ReadAll(streamResp.Body)
		streamResp.Body.Close()
		return chat.ChatStreamResponse{}, &gaierr.ErrResponseFailedStatus{Status: streamResp.Status, Body: body, Headers: map[string][]string(streamResp.Headers)}
	}

	inner, err := a.BuildChatStream(target, streamResp.Body, opts)
	if err != nil {
		streamResp.Body.Close()
		return chat.ChatStreamResponse{}, err
	}

	return chat.ChatStreamResponse{
		Stream:    &clientStream{inner: inner, modelIden: target.Model, normalize: opts.NormalizeReasoningContent},
		ModelIden: target.Model,
	}, nil
}

// clientStream wraps an adapter's internal interstream.Stream into the
// public chat.ChatStream, stamping the resolved model identity onto the
// terminal End event and, when requested, re-routing inline think-tag
// content into reasoning events as it arrives.
//
// Next ignores the ctx passed to it: cancellation is already wired into
// the underlying HTTP request via the context ExecChatStream was called
// with, so canceling it unblocks the next body read with an error rather
// than needing a second cancellation path here.
type clientStream struct {
	inner     interstream.Stream
	modelIden chat.ModelIden
	normalize bool
	think     interstream.ThinkExtractor
	queue     []chat.ChatStreamEvent
}

func (s *clientStream) Next(context.Context) (chat.ChatStreamEvent, bool, error) {
	for {
		if len(s.queue) > 0 {
			ev := s.queue[0]
			s.queue = s.queue[1:]
			return ev, true, nil
		}

		ev, ok, err := s.inner.Next()
		if err == io.EOF {
			return chat.ChatStreamEvent{}, false, nil
		}
		if err != nil {
			return chat.ChatStreamEvent{}, false, err
		}
		if !ok {
			return chat.ChatStreamEvent{}, false, nil
		}

		out := s.translate(ev)
		if len(out) == 0 {
			continue
		}
		if len(out) > 1 {
			s.queue = out[1:]
		}
		return out[0], true, nil
	}
}

func (s *clientStream) Close() error { return s.inner.Close() }

func (s *clientStream) translate(ev interstream.Event) []chat.ChatStreamEvent {
	switch ev.Kind {
	case interstream.End:
		content := ev.End.CapturedContent
		reasoning := ev.End.CapturedReasoningContent
		if s.normalize {
			// Adapters capture one TextPart per streamed delta, so adjacent
			// text is joined first; a think tag split across deltas is then
			// still found.
			merged := make(chat.MessageContent, 0, len(content))
			for _, part := range content {
				if t, ok := part.(chat.TextPart); ok && len(merged) > 0 {
					if prev, ok := merged[len(merged)-1].(chat.TextPart); ok {
						merged[len(merged)-1] = chat.TextPart{Text: prev.Text + t.Text}
						continue
					}
				}
				merged = append(merged, part)
			}
			content, reasoning = normalizeReasoningContent(merged, reasoning)
		}
		return []chat.ChatStreamEvent{{
			Kind: chat.StreamEventEnd,
			End: chat.StreamEnd{
				CapturedUsage:            ev.End.CapturedUsage,
				CapturedContent:          content,
				CapturedReasoningContent: reasoning,
				CapturedRawBody:          ev.End.CapturedRawBody,
				ModelIden:                s.modelIden,
			},
		}}

	case interstream.Chunk:
		if !s.normalize {
			return []chat.ChatStreamEvent{{Kind: chat.StreamEventChunk, Text: ev.Text}}
		}
		res := s.think.Feed(ev.Text)
		var out []chat.ChatStreamEvent
		if res.Text != "" {
			out = append(out, chat.ChatStreamEvent{Kind: chat.StreamEventChunk, Text: res.Text})
		}
		if res.Reasoning != "" {
			out = append(out, chat.ChatStreamEvent{Kind: chat.StreamEventReasoningChunk, Text: res.Reasoning})
		}
		return out

	default:
		return []chat.ChatStreamEvent{{Kind: chat.ChatStreamEventKind(ev.Kind), Text: ev.Text, ToolCall: ev.ToolCall}}
	}
}
