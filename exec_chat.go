package genai

import (
	"context"

	"github.com/flowline-ai/genai/adapter"
	"github.com/flowline-ai/genai/chat"
	"github.com/flowline-ai/genai/gaierr"
	"github.com/flowline-ai/genai/webtransport"
)

// ExecChat resolves model, dispatches to the matching adapter, and
// performs a single unary chat-completion call. req.Options is merged
// over the client's default options field by field; a field set on req
// wins.
func (c *Client) ExecChat(ctx context.Context, model ModelRef, req chat.ChatRequest) (chat.ChatResponse, error) {
	if len(req.Messages) == 0 {
		return chat.ChatResponse{}, gaierr.ErrChatReqHasNoMessages
	}

	target, err := c.resolver.Resolve(model)
	if err != nil {
		return chat.ChatResponse{}, err
	}

	a, ok := adapter.Dispatch(target.Model.AdapterKind)
	if !ok {
		return chat.ChatResponse{}, &gaierr.ErrAdapterNotSupported{Adapter: string(target.Model.AdapterKind), Feature: "chat"}
	}

	opts := c.defaultChatOptions.Merge(req.Options)

	reqData, err := a.BuildChatRequest(target, req, opts, false)
	if err != nil {
		return chat.ChatResponse{}, err
	}
	reqData.Headers = c.stampRequestIDHeader(reqData.Headers)

	c.logger.Debug(ctx, "chat request", "adapter", string(target.Model.AdapterKind), "model", string(target.Model.ModelName))

	resp, err := webtransport.Do(ctx, c.httpClient, reqData)
	if err != nil {
		return chat.ChatResponse{}, err
	}
	if resp.Status < 200 || resp.Status >= 300 {
		return chat.ChatResponse{}, &gaierr.ErrResponseFailedStatus{Status: resp.Status, Body: resp.Body, Headers: map[string][]string(resp.Headers)}
	}

	out, err := a.ParseChatResponse(target, resp, opts.CaptureRawBody)
	if err != nil {
		return chat.ChatResponse{}, err
	}

	if opts.NormalizeReasoningContent {
		out.Content, out.ReasoningContent = normalizeReasoningContent(out.Content, out.ReasoningContent)
	}

	return out, nil
}
